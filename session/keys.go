package session

import (
	"github.com/anisan-cli/vigil/color"
	"github.com/anisan-cli/vigil/playback"
	"github.com/anisan-cli/vigil/style"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
)

// Action is a keyboard command.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionSeekBack
	ActionSeekForward
	ActionRestart
	ActionStop
	ActionQuit
)

// SeekStep is how far the arrow keys move playback.
const SeekStep = 10.0

type keymap struct {
	togglePause,
	seekBack, seekForward,
	restart,
	stop,
	quit, forceQuit,
	showHelp key.Binding
}

func newKeymap() *keymap {
	return &keymap{
		togglePause: key.NewBinding(
			key.WithKeys(" ", "space", "p"),
			key.WithHelp("space", "play/pause"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "back 10s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward 10s"),
		),
		restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp(style.Fg(color.Red)("q"), style.Fg(color.Red)("quit")),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// action maps a key press to an action. Unbound keys are ActionNone.
func (k *keymap) action(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.quit, k.forceQuit):
		return ActionQuit
	case key.Matches(msg, k.togglePause):
		return ActionTogglePause
	case key.Matches(msg, k.seekBack):
		return ActionSeekBack
	case key.Matches(msg, k.seekForward):
		return ActionSeekForward
	case key.Matches(msg, k.restart):
		return ActionRestart
	case key.Matches(msg, k.stop):
		return ActionStop
	}
	return ActionNone
}

func (k *keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.togglePause, k.seekBack, k.seekForward, k.quit, k.showHelp}
}

func (k *keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.togglePause, k.seekBack, k.seekForward},
		{k.restart, k.stop, k.quit, k.forceQuit, k.showHelp},
	}
}

// Apply runs a keyboard action against c. Actions that make no sense in the current state are ignored,
// so keys never drive the controller into a protocol error.
func Apply(c playback.Controller, a Action) error {
	state := c.GetState()

	switch a {
	case ActionTogglePause:
		switch state {
		case playback.StatePaused:
			return c.Resume()
		case playback.StatePlaying, playback.StateBuffering:
			return c.Pause()
		case playback.StateStopped:
			return c.BeginPlayback()
		case playback.StateComplete:
			return c.PlayFrom(0)
		}

	case ActionSeekBack, ActionSeekForward:
		if !seekable(state) {
			return nil
		}
		step := SeekStep
		if a == ActionSeekBack {
			step = -SeekStep
		}
		return c.PlayFrom(max(c.GetCurrentTime().OrElse(0)+step, 0))

	case ActionRestart:
		if state == playback.StateStopped {
			return c.BeginPlaybackFrom(0)
		}
		if seekable(state) {
			return c.PlayFrom(0)
		}

	case ActionStop:
		if seekable(state) {
			return c.Stop()
		}
	}

	return nil
}

func seekable(state playback.State) bool {
	return lo.Contains([]playback.State{
		playback.StateBuffering,
		playback.StatePlaying,
		playback.StatePaused,
		playback.StateComplete,
	}, state)
}
