// Package mpv implements element.Device on top of mpv's JSON-IPC interface.
// Each media element is one mpv process; observed properties are translated into native element events.
package mpv

import (
	"fmt"

	"github.com/anisan-cli/vigil/element"
	"github.com/samber/lo"
)

const (
	DefaultBinary            = "mpv"
	DefaultSocketWaitRetries = 10
)

type window struct {
	element.Listeners
}

func (*window) ID() string {
	return "mpv"
}

// Device creates mpv-backed media elements.
type Device struct {
	binary            string
	socketWaitRetries int
	post              func(func()) bool

	root     *window
	attached []*Media
	closing  []<-chan struct{}
}

var _ element.Device = (*Device)(nil)

// Option customizes a Device.
type Option func(*Device)

// WithBinary sets the mpv executable.
func WithBinary(path string) Option {
	return func(d *Device) {
		if path != "" {
			d.binary = path
		}
	}
}

// WithSocketWaitRetries sets how many times the IPC socket is polled after mpv starts.
func WithSocketWaitRetries(n int) Option {
	return func(d *Device) {
		if n > 0 {
			d.socketWaitRetries = n
		}
	}
}

// NewDevice creates a device. Element events are handed to post, which must run them on the
// goroutine that owns the elements.
func NewDevice(post func(func()) bool, opts ...Option) *Device {
	d := &Device{
		binary:            DefaultBinary,
		socketWaitRetries: DefaultSocketWaitRetries,
		post:              post,
		root:              &window{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) CreateMediaElement(kind element.Kind, id string) (element.Media, error) {
	switch kind {
	case element.KindVideo, element.KindAudio:
	default:
		return nil, fmt.Errorf("unsupported media kind %q", kind)
	}

	return &Media{
		id:     id,
		kind:   kind,
		device: d,
	}, nil
}

func (d *Device) CreateSourceElement(url, mimeType string) (element.Element, error) {
	target, err := sanitizeMediaTarget(url)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}
	return &Source{target: target, mimeType: mimeType}, nil
}

// AppendChildElement binds a source to a media element.
func (d *Device) AppendChildElement(parent, child element.Element) error {
	m, ok := parent.(*Media)
	if !ok {
		return fmt.Errorf("cannot append to %T", parent)
	}
	s, ok := child.(*Source)
	if !ok {
		return fmt.Errorf("cannot append %T to a media element", child)
	}
	m.source = s
	return nil
}

// PrependChildElement attaches a media element to the top-level element.
func (d *Device) PrependChildElement(parent, child element.Element) error {
	if parent != element.Element(d.root) {
		return fmt.Errorf("cannot prepend to %T", parent)
	}
	m, ok := child.(*Media)
	if !ok {
		return fmt.Errorf("cannot prepend %T to the top-level element", child)
	}
	d.attached = append([]*Media{m}, lo.Without(d.attached, m)...)
	return nil
}

// RemoveElement detaches a media element and shuts its mpv process down.
func (d *Device) RemoveElement(el element.Element) error {
	m, ok := el.(*Media)
	if !ok {
		return fmt.Errorf("cannot remove %T", el)
	}
	d.attached = lo.Without(d.attached, m)
	d.closing = append(d.closing, m.close())
	return nil
}

func (d *Device) TopLevelElement() element.Element {
	return d.root
}

// Close shuts down every element and waits until their processes are gone. It blocks, so it must
// not run on the goroutine that post delivers to.
func (d *Device) Close() {
	for _, m := range d.attached {
		d.closing = append(d.closing, m.close())
	}
	d.attached = nil

	for _, done := range d.closing {
		<-done
	}
	d.closing = nil
}
