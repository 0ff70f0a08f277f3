package game

import (
	"sync"
	"time"
)

// Timer is a cancelable countdown. Each tick delivers the remaining whole
// seconds, ending with 0, then onExpire fires exactly once.
type Timer struct {
	mu      sync.Mutex
	stopped bool
	stop    chan struct{}
}

func startTimer(seconds int, interval time.Duration, onTick func(remaining int), onExpire func()) *Timer {
	t := &Timer{stop: make(chan struct{})}
	go t.run(seconds, interval, onTick, onExpire)
	return t
}

func (t *Timer) run(seconds int, interval time.Duration, onTick func(remaining int), onExpire func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	remaining := seconds
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if t.canceled() {
				return
			}
			remaining--
			onTick(remaining)
			if remaining <= 0 {
				if t.canceled() {
					return
				}
				onExpire()
				return
			}
		}
	}
}

// Cancel stops the countdown. Idempotent; callbacks already in flight may
// still complete, so owners must guard phase transitions themselves.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stop)
}

func (t *Timer) canceled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
