// Package session runs one interactive playback of a single source. It owns the loop the
// controller lives on and the mpv device, and drives a bubbletea program for keyboard input and output.
package session

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/anisan-cli/vigil/element/mpv"
	"github.com/anisan-cli/vigil/log"
	"github.com/anisan-cli/vigil/loop"
	"github.com/anisan-cli/vigil/playback"
	"github.com/anisan-cli/vigil/resume"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	logrus "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Options describe a session.
type Options struct {
	URL       string
	MimeType  string
	MediaType playback.MediaType

	// From starts playback at a position. It wins over Continue.
	From mo.Option[float64]
	// Continue starts from the stored position, if any.
	Continue bool
	// Remember stores the position while playing.
	Remember bool

	Binary            string
	SocketWaitRetries int
	SentinelInterval  time.Duration
	ClampOffset       mo.Option[float64]

	// ExitOnComplete ends the session when playback completes.
	ExitOnComplete bool

	Printer *Printer
	Input   *os.File
}

// Run plays opts.URL until the user quits, ctx is cancelled or playback completes.
func Run(ctx context.Context, opts Options) error {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()

	l := loop.New()
	go func() { _ = l.Run(loopCtx) }()

	device := mpv.NewDevice(l.Post,
		mpv.WithBinary(opts.Binary),
		mpv.WithSocketWaitRetries(opts.SocketWaitRetries),
	)

	playerOpts := []playback.Option{playback.WithSentinelInterval(opts.SentinelInterval)}
	if offset, ok := opts.ClampOffset.Get(); ok {
		playerOpts = append(playerOpts, playback.WithClampOffset(offset))
	}
	player := playback.New(device, l, playerOpts...)

	sessionCtx, quit := context.WithCancel(ctx)
	defer quit()

	var positions *tracker
	if opts.Remember && !opts.MediaType.IsLive() {
		positions = newTracker(opts.URL, opts.MediaType)
	}

	deliver := opts.Printer.Event
	player.AddEventCallback(opts.Printer, func(ev playback.Event) {
		deliver(ev)
		if positions != nil {
			positions.observe(ev)
		}
		if ev.Type == playback.EventComplete && opts.ExitOnComplete {
			quit()
		}
	})

	start, err := startPosition(opts)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"url":   opts.URL,
		"type":  opts.MediaType,
		"start": start.OrElse(0),
	}).Info("starting session")

	begin := func() error {
		return l.Call(func() error {
			if err := player.SetSource(opts.MediaType, opts.URL, opts.MimeType); err != nil {
				return err
			}
			if t, ok := start.Get(); ok {
				return player.BeginPlaybackFrom(t)
			}
			return player.BeginPlayback()
		})
	}

	if opts.Input != nil && term.IsTerminal(int(opts.Input.Fd())) {
		err = interact(sessionCtx, opts, l, player, begin, quit, &deliver)
	} else {
		err = begin()
		if err == nil {
			<-sessionCtx.Done()
		}
	}

	return errors.Join(err, shutdown(l, player, device))
}

// interact runs the terminal ui until the session ends. Styled events are routed into the program,
// json events keep going to the printer.
func interact(
	ctx context.Context,
	opts Options,
	l *loop.Loop,
	player playback.Controller,
	begin func() error,
	quit func(),
	deliver *func(playback.Event),
) error {
	control := func(a Action) error {
		return l.Call(func() error { return Apply(player, a) })
	}

	m := newModel(begin, control, quit, opts.Printer.filter)
	programOpts := []tea.ProgramOption{tea.WithInput(opts.Input)}

	if opts.Printer.JSON() {
		m.printer = opts.Printer
		programOpts = append(programOpts, tea.WithOutput(io.Discard))
		opts.Printer.SetRaw(true)
		defer opts.Printer.SetRaw(false)
	}

	program := tea.NewProgram(m, programOpts...)
	if !opts.Printer.JSON() {
		setDeliver(l, deliver, func(ev playback.Event) { program.Send(eventMsg(ev)) })
	}

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	_, err := program.Run()
	quit()
	if err != nil {
		return err
	}
	return m.err
}

// setDeliver swaps where events go. deliver is read on the loop, so it is written there too.
func setDeliver(l *loop.Loop, deliver *func(playback.Event), fn func(playback.Event)) {
	_ = l.Call(func() error {
		*deliver = fn
		return nil
	})
}

// shutdown stops playback on the loop, then closes the device. Closing waits for the mpv processes to exit,
// which must not happen on the loop because their last events are posted to it.
func shutdown(l *loop.Loop, player playback.Controller, device *mpv.Device) error {
	err := l.Call(func() error {
		if state := player.GetState(); state != playback.StateEmpty && state != playback.StateError {
			_ = player.Stop()
		}
		player.RemoveAllEventCallbacks()
		return player.Reset()
	})
	device.Close()

	if errors.Is(err, loop.ErrClosed) {
		return nil
	}
	return err
}

func startPosition(opts Options) (mo.Option[float64], error) {
	if opts.From.IsPresent() {
		return opts.From, nil
	}
	if !opts.Continue {
		return mo.None[float64](), nil
	}
	return resume.Lookup(opts.URL)
}
