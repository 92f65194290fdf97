package playback

import (
	"math"

	"github.com/anisan-cli/vigil/log"
	"github.com/samber/mo"
	logrus "github.com/sirupsen/logrus"
)

const (
	maxSentinelAttempts = 2

	// sentinelAdvanceThreshold is how far the position must move between ticks to count as advancing.
	sentinelAdvanceThreshold = 0.2

	// nearEndThreshold is the distance from the end of media under which playback counts as finishing.
	nearEndThreshold = 1.0
)

// sentinel inspects the player on a tick and reports whether it took action.
type sentinel func(*Player) bool

// sentinelLimit bounds the corrective retries of one sentinel episode.
type sentinelLimit struct {
	name                string
	currentAttemptCount int
	maximumAttempts     int
	successEvent        EventType
	failureEvent        EventType
}

func (l *sentinelLimit) reset() {
	l.currentAttemptCount = 0
}

// sentinelMonitor is the watchdog state embedded in Player.
type sentinelMonitor struct {
	cancelSentinels func()

	sentinelIntervalNumber int
	lastSentinelTime       mo.Option[float64]
	timeHasAdvanced        bool
	sentinelTimeIsNearEnd  bool

	// trustZeroes is false until the position has been seen above zero since the last play or seek
	// intent; until then a zero position is treated as element warm-up rather than a stall.
	trustZeroes bool

	sentinelSeekTime      mo.Option[float64]
	seekSentinelTolerance float64

	limits struct {
		pause sentinelLimit
		seek  sentinelLimit
	}
}

func (p *Player) setSentinelLimits() {
	p.limits.pause = sentinelLimit{
		name:            "pause",
		maximumAttempts: maxSentinelAttempts,
		successEvent:    EventSentinelPause,
		failureEvent:    EventSentinelPauseFailure,
	}
	p.limits.seek = sentinelLimit{
		name:            "seek",
		maximumAttempts: maxSentinelAttempts,
		successEvent:    EventSentinelSeek,
		failureEvent:    EventSentinelSeekFailure,
	}
}

// setSentinels replaces the running monitor. An empty list leaves no task scheduled.
func (p *Player) setSentinels(sentinels []sentinel) {
	p.clearSentinels()
	if len(sentinels) == 0 {
		return
	}

	p.sentinelIntervalNumber = 0
	p.lastSentinelTime = p.GetCurrentTime()
	p.cancelSentinels = p.scheduler.Every(p.interval, func() {
		p.runSentinels(sentinels)
	})
}

func (p *Player) clearSentinels() {
	if p.cancelSentinels != nil {
		p.cancelSentinels()
		p.cancelSentinels = nil
	}
}

// runSentinels is one monitor tick. Sentinels run in order until one acts.
func (p *Player) runSentinels(sentinels []sentinel) {
	p.sentinelIntervalNumber++
	newTime := p.GetCurrentTime()

	p.timeHasAdvanced = false
	reference := p.lastSentinelTime
	if t, ok := newTime.Get(); ok && t != 0 {
		if last, ok := p.lastSentinelTime.Get(); ok {
			p.timeHasAdvanced = t > last+sentinelAdvanceThreshold
		}
		reference = newTime
	}
	p.sentinelTimeIsNearEnd = p.isNearToEnd(reference)

	for _, s := range sentinels {
		activated := s(p)

		if t, ok := p.GetCurrentTime().Get(); ok && t > 0 {
			p.trustZeroes = true
		}

		if activated {
			break
		}
	}

	p.lastSentinelTime = newTime
}

func (p *Player) isNearToEnd(seconds mo.Option[float64]) bool {
	t, ok := seconds.Get()
	if !ok {
		return false
	}
	d, ok := p.GetDuration().Get()
	if !ok {
		return false
	}
	return d-t <= nearEndThreshold
}

// enterBufferingSentinel catches a stall the element never reported. The first qualifying tick is
// ignored so a single noisy sample does not interrupt playback.
func (p *Player) enterBufferingSentinel() bool {
	fire := !p.timeHasAdvanced && !p.sentinelTimeIsNearEnd && p.sentinelIntervalNumber > 1

	if t, ok := p.GetCurrentTime().Get(); ok && t == 0 {
		fire = fire && p.trustZeroes
	}

	if fire {
		p.logSentinel("enter-buffering")
		p.emitEvent(EventSentinelEnterBuffering)
		p.toBuffering()
	}
	return fire
}

// exitBufferingSentinel catches the end of a buffering episode the element never reported.
func (p *Player) exitBufferingSentinel() bool {
	paused := p.media != nil && p.media.Paused()
	if (p.readyToPlayFrom && paused) || p.timeHasAdvanced {
		p.logSentinel("exit-buffering")
		p.emitEvent(EventSentinelExitBuffering)
		p.exitBuffering()
		return true
	}
	return false
}

// shouldBeSeekedSentinel re-issues a seek the element lost. While the position agrees with the
// target during the first ticks the target follows it; afterwards the seek is considered settled.
func (p *Player) shouldBeSeekedSentinel() bool {
	seekTime, ok := p.sentinelSeekTime.Get()
	if !ok {
		return false
	}
	current, ok := p.GetCurrentTime().Get()
	if !ok {
		return false
	}

	if math.Abs(current-seekTime) > p.seekSentinelTolerance {
		return p.nextSentinelAttempt(&p.limits.seek, func() {
			p.media.SetCurrentTime(seekTime)
		})
	}

	if p.sentinelIntervalNumber < 3 {
		p.sentinelSeekTime = mo.Some(current)
	} else {
		p.sentinelSeekTime = mo.None[float64]()
	}
	return false
}

// shouldBePausedSentinel re-issues a pause the element ignored.
func (p *Player) shouldBePausedSentinel() bool {
	if !p.timeHasAdvanced {
		return false
	}
	return p.nextSentinelAttempt(&p.limits.pause, p.pauseMediaElement)
}

// endOfMediaSentinel completes playback that stalled at the end without an ended event.
func (p *Player) endOfMediaSentinel() bool {
	if !p.timeHasAdvanced && p.sentinelTimeIsNearEnd {
		p.logSentinel("complete")
		p.emitEvent(EventSentinelComplete)
		p.onEndOfMedia()
		return true
	}
	return false
}

// nextSentinelAttempt runs attempt while the episode has retries left and emits the success event.
// The call that exhausts the episode emits the failure event once and does nothing else.
func (p *Player) nextSentinelAttempt(limit *sentinelLimit, attempt func()) bool {
	limit.currentAttemptCount++

	if limit.currentAttemptCount == limit.maximumAttempts+1 {
		log.WithFields(logrus.Fields{
			"sentinel": limit.name,
			"attempts": limit.maximumAttempts,
			"url":      p.source,
		}).Warn("sentinel gave up")
		p.emitEvent(limit.failureEvent)
	}

	if limit.currentAttemptCount <= limit.maximumAttempts {
		log.WithFields(logrus.Fields{
			"sentinel": limit.name,
			"attempt":  limit.currentAttemptCount,
			"url":      p.source,
		}).Info("sentinel correcting playback")
		attempt()
		p.emitEvent(limit.successEvent)
		return true
	}

	return false
}

func (p *Player) logSentinel(name string) {
	log.WithFields(logrus.Fields{
		"sentinel": name,
		"state":    p.state,
		"tick":     p.sentinelIntervalNumber,
	}).Info("sentinel fired")
}
