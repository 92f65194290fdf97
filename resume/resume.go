// Package resume remembers where playback of each source was left off.
package resume

import (
	"math"
	"time"

	"github.com/anisan-cli/vigil/filesystem"
	"github.com/anisan-cli/vigil/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

const (
	// minPosition is the earliest position worth resuming from.
	minPosition = 5.0

	// finishedMargin is how close to the end a position counts as watched through.
	finishedMargin = 10.0
)

// Position is the last known playback position of one source.
type Position struct {
	URL       string    `json:"url"`
	MediaType string    `json:"media_type"`
	Seconds   float64   `json:"seconds"`
	Duration  float64   `json:"duration,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finished reports whether the position is close enough to the end that resuming makes no sense.
func (p *Position) Finished() bool {
	return p.Duration > 0 && p.Seconds >= p.Duration-finishedMargin
}

var cacher = gache.New[map[string]*Position](
	&gache.Options{
		Path:       where.Resume(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every stored position by URL.
func Get() (map[string]*Position, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Position), nil
	}
	return cached, nil
}

// List returns stored positions, most recently updated first.
func List() ([]*Position, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	positions := lo.Values(saved)
	slices.SortFunc(positions, func(a, b *Position) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return positions, nil
}

// Lookup returns the position to resume url from. None when nothing useful is stored.
func Lookup(url string) (mo.Option[float64], error) {
	saved, err := Get()
	if err != nil {
		return mo.None[float64](), err
	}

	p, ok := saved[url]
	if !ok || p.Finished() || p.Seconds < minPosition {
		return mo.None[float64](), nil
	}
	return mo.Some(p.Seconds), nil
}

// Save stores the position of url. Positions without a finite, positive value are ignored.
func Save(url, mediaType string, seconds float64, duration mo.Option[float64]) error {
	if url == "" || seconds <= 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	p := &Position{
		URL:       url,
		MediaType: mediaType,
		Seconds:   seconds,
		UpdatedAt: time.Now(),
	}
	if d, ok := duration.Get(); ok && !math.IsInf(d, 0) {
		p.Duration = d
	}

	saved[url] = p
	return cacher.Set(saved)
}

// Remove forgets url.
func Remove(url string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, url)
	return cacher.Set(saved)
}
