package session

import (
	"github.com/anisan-cli/vigil/playback"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Filter selects which event types are printed. Patterns match event types fuzzily,
// so "seek" selects both sentinel-seek and sentinel-seek-failure.
type Filter struct {
	patterns []string
}

func NewFilter(patterns []string) Filter {
	return Filter{patterns: lo.Compact(patterns)}
}

// Allows reports whether t passes the filter. An empty filter allows everything.
func (f Filter) Allows(t playback.EventType) bool {
	if len(f.patterns) == 0 {
		return true
	}
	return lo.SomeBy(f.patterns, func(p string) bool {
		return fuzzy.MatchFold(p, string(t))
	})
}

// Matching lists the known event types the filter allows.
func (f Filter) Matching() []playback.EventType {
	return lo.Filter(playback.EventTypes(), func(t playback.EventType, _ int) bool {
		return f.Allows(t)
	})
}
