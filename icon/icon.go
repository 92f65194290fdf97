// Package icon renders status symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/anisan-cli/vigil/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists every supported variant name.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Play
	Pause
	Stop
	Buffering
	Complete
	Sentinel
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Fail:      {emoji: "💀", nerd: "", plain: "X", kaomoji: "(╥﹏╥)", squares: "🟥"},
	Success:   {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Progress:  {emoji: "👨‍🍳", nerd: "", plain: "…", kaomoji: "(・_・ヾ", squares: "🟦"},
	Play:      {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(ﾉ◕ヮ◕)ﾉ", squares: "🟩"},
	Pause:     {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(－_－) zzZ", squares: "🟨"},
	Stop:      {emoji: "⏹️", nerd: "", plain: "[]", kaomoji: "(￣ー￣)", squares: "⬛"},
	Buffering: {emoji: "⏳", nerd: "", plain: "~", kaomoji: "(・・;)", squares: "🟦"},
	Complete:  {emoji: "🏁", nerd: "", plain: "#", kaomoji: "ヽ(´▽`)/", squares: "🟪"},
	Sentinel:  {emoji: "🛡️", nerd: "", plain: "!", kaomoji: "(•̀ᴗ•́)و", squares: "🟧"},
}

// Get returns the symbol for i in the configured variant.
func Get(i Icon) string {
	return icons[i].Get()
}
