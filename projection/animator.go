package projection

import (
	"sync"
	"time"

	"discorde/domain/command"
)

// Animator interprets one parsed command into the sequence of display
// strings for a message body. Plain text and tableflip produce a single
// frame; typed text is revealed prefix by prefix on the given interval.
// Per-message state only, independent of persistence.
type Animator struct {
	out  chan string
	stop chan struct{}
	once sync.Once
}

func NewAnimator(cmd command.Command, step time.Duration) *Animator {
	a := &Animator{
		out:  make(chan string, 1),
		stop: make(chan struct{}),
	}
	go a.run(cmd, step)
	return a
}

// Frames delivers display strings in order; the channel closes once the
// final frame is out or the animator is stopped.
func (a *Animator) Frames() <-chan string {
	return a.out
}

// Stop cancels any remaining frames. Safe to call more than once; the view
// owning this animator must call it on teardown.
func (a *Animator) Stop() {
	a.once.Do(func() { close(a.stop) })
}

func (a *Animator) run(cmd command.Command, step time.Duration) {
	defer close(a.out)

	switch c := cmd.(type) {
	case command.TableFlip:
		a.emit(command.FlipGlyphs)
	case command.TypeText:
		runes := []rune(c.Text)
		if !a.emit("") {
			return
		}
		ticker := time.NewTicker(step)
		defer ticker.Stop()
		for i := 1; i <= len(runes); i++ {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
			}
			if !a.emit(string(runes[:i])) {
				return
			}
		}
	case command.Plain:
		a.emit(c.Text)
	}
}

func (a *Animator) emit(frame string) bool {
	select {
	case a.out <- frame:
		return true
	case <-a.stop:
		return false
	}
}
