package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/anisan-cli/vigil/color"
	"github.com/anisan-cli/vigil/constant"
	"github.com/anisan-cli/vigil/icon"
	"github.com/anisan-cli/vigil/key"
	"github.com/anisan-cli/vigil/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// checkDependencies exits when the configured player binary cannot be found.
func checkDependencies() {
	binary := viper.GetString(key.PlayerBinary)
	if _, err := exec.LookPath(binary); err != nil {
		fmt.Println(missingDependency(binary))
		os.Exit(1)
	}
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	default:
		return ""
	}
}

func missingDependency(dep string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("'%s' was not found in your PATH. Set %s to its location if it is installed elsewhere.",
		dep, style.Fg(color.Purple)(key.PlayerBinary))

	suggestion := ""
	if hint := installHint(); hint != "" {
		suggestion = fmt.Sprintf("\nTo install it, try running:\n  %s", style.New().Foreground(color.Orange).Bold(true).Render(hint))
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, suggestion))
}
