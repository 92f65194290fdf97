package session

import (
	"github.com/anisan-cli/vigil/playback"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
)

// eventMsg carries a player event into the program.
type eventMsg playback.Event

// fatalMsg ends the program with an error.
type fatalMsg struct{ err error }

// model is the terminal ui of an interactive session: a status line under the printed events and a help line.
// It never touches the player directly. begin and control are expected to hop onto the playback loop,
// and both run as commands so Update never waits on the loop.
type model struct {
	keymap *keymap
	help   help.Model

	begin   func() error
	control func(Action) error
	quit    func()

	// printer takes errors in json mode. Events then bypass the model entirely.
	printer *Printer
	filter  Filter

	status string
	width  int
	err    error
}

func newModel(begin func() error, control func(Action) error, quit func(), filter Filter) *model {
	return &model{
		keymap:  newKeymap(),
		help:    help.New(),
		begin:   begin,
		control: control,
		quit:    quit,
		filter:  filter,
	}
}

func (m *model) Init() tea.Cmd {
	return func() tea.Msg {
		if err := m.begin(); err != nil {
			return fatalMsg{err}
		}
		return nil
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case fatalMsg:
		m.err = msg.err
		m.quit()
		return m, tea.Quit
	case error:
		if m.printer != nil {
			m.printer.Error(msg)
			return m, nil
		}
		return m, tea.Println(RenderError(msg))
	case eventMsg:
		return m, m.event(playback.Event(msg))
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.showHelp) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		switch a := m.keymap.action(msg); a {
		case ActionNone:
		case ActionQuit:
			m.quit()
			return m, tea.Quit
		default:
			return m, m.run(a)
		}
	}

	return m, nil
}

func (m *model) event(ev playback.Event) tea.Cmd {
	if !m.filter.Allows(ev.Type) {
		return nil
	}

	if ev.Type == playback.EventStatus {
		m.status = Render(ev)
		return nil
	}
	return tea.Println(Render(ev))
}

func (m *model) run(a Action) tea.Cmd {
	return func() tea.Msg {
		if err := m.control(a); err != nil {
			return err
		}
		return nil
	}
}

func (m *model) View() string {
	status := m.status
	if m.width > 0 {
		status = truncate.StringWithTail(status, uint(m.width), "…")
	}

	return status + "\n" + m.help.View(m.keymap)
}
