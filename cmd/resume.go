package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anisan-cli/vigil/color"
	"github.com/anisan-cli/vigil/icon"
	"github.com/anisan-cli/vigil/resume"
	"github.com/anisan-cli/vigil/style"
	"github.com/anisan-cli/vigil/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeListCmd)
	resumeCmd.AddCommand(resumeForgetCmd)

	resumeListCmd.Flags().BoolP("json", "j", false, "Output as json")
	resumeCmd.SetOut(os.Stdout)
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Inspect remembered playback positions",
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered positions, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		positions, err := resume.List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(positions))
			return
		}

		if len(positions) == 0 {
			cmd.Println(style.Faint("Nothing remembered yet"))
			return
		}

		for _, p := range positions {
			progress := util.FormatSeconds(p.Seconds)
			if p.Duration > 0 {
				progress += " / " + util.FormatSeconds(p.Duration)
			}
			if p.Finished() {
				progress += " " + style.Faint("(finished)")
			}

			cmd.Printf("%s %s\n", style.Fg(color.Yellow)(progress), style.Faint(p.UpdatedAt.Format("2006-01-02 15:04")))
			cmd.Println(style.Fg(color.Purple)(p.URL))
		}
	},
}

var resumeForgetCmd = &cobra.Command{
	Use:   "forget <url>",
	Short: "Forget the position of a source",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(resume.Remove(args[0]))
		fmt.Printf("%s Forgot %s\n", icon.Get(icon.Success), args[0])
	},
}
