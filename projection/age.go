// Package projection builds local, presentation-facing views of chat data:
// the per-chat timeline, relative-age strings, and animated message bodies.
// It does not touch the network and emits nothing after its timers are
// stopped.
package projection

import (
	"fmt"
	"sync"
	"time"
)

const (
	minute = 60
	hour   = 60 * 60
	day    = 24 * 60 * 60
)

// AgeOf buckets the distance between ts and now into a coarse human label.
// Ages below one minute (including messages timestamped slightly in the
// future by clock skew) read as "now".
func AgeOf(ts, now time.Time) string {
	diff := int64(now.Sub(ts) / time.Second)
	switch {
	case diff >= day:
		return pluralAge(diff/day, "day")
	case diff >= hour:
		return pluralAge(diff/hour, "hour")
	case diff >= minute:
		return pluralAge(diff/minute, "minute")
	default:
		return "now"
	}
}

func pluralAge(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// AgeTicker recomputes a message's relative age on a fixed cadence. It is
// owned by the view rendering the message and must be stopped when that view
// is discarded.
type AgeTicker struct {
	out  chan string
	stop chan struct{}
	once sync.Once
}

// NewAgeTicker emits the current age immediately, then once per interval.
func NewAgeTicker(ts time.Time, interval time.Duration) *AgeTicker {
	t := &AgeTicker{
		out:  make(chan string, 1),
		stop: make(chan struct{}),
	}
	go t.run(ts, interval)
	return t
}

// Updates delivers age strings until Stop; the channel closes afterwards.
func (t *AgeTicker) Updates() <-chan string {
	return t.out
}

// Stop cancels the ticker. Safe to call more than once.
func (t *AgeTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
}

func (t *AgeTicker) run(ts time.Time, interval time.Duration) {
	defer close(t.out)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if !t.emit(AgeOf(ts, time.Now())) {
		return
	}
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if !t.emit(AgeOf(ts, time.Now())) {
				return
			}
		}
	}
}

func (t *AgeTicker) emit(age string) bool {
	select {
	case t.out <- age:
		return true
	case <-t.stop:
		return false
	}
}
