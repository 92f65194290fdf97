package playback

import "time"

const (
	// DefaultClampOffset is how far before the end of the seekable range playFrom targets land.
	DefaultClampOffset = 1.1

	// DefaultSentinelInterval is the sentinel monitor period.
	DefaultSentinelInterval = 1100 * time.Millisecond
)

// Scheduler runs recurring work on the controller's goroutine.
// Cancel is always called from that same goroutine and must prevent any further call of fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

type options struct {
	clampOffset      float64
	sentinelInterval time.Duration
}

// Option customizes a Player.
type Option func(*options)

// WithClampOffset overrides DefaultClampOffset. Negative values are ignored.
func WithClampOffset(seconds float64) Option {
	return func(o *options) {
		if seconds >= 0 {
			o.clampOffset = seconds
		}
	}
}

// WithSentinelInterval overrides DefaultSentinelInterval. Non-positive values are ignored.
func WithSentinelInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sentinelInterval = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		clampOffset:      DefaultClampOffset,
		sentinelInterval: DefaultSentinelInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
