package daily

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// NextMidnight returns the start of the local calendar day after now.
func NextMidnight(now time.Time) time.Time {
	local := now.Local()
	y, mo, d := local.Date()
	return time.Date(y, mo, d+1, 0, 0, 0, 0, local.Location())
}

// UntilMidnight returns the time remaining until the next local midnight.
// The result is in (0, 24h] on ordinary days; DST transitions shift the upper bound by the offset change.
func UntilMidnight(now time.Time) time.Duration {
	return NextMidnight(now).Sub(now)
}

// Scheduler reloads the selection at each local midnight.
type Scheduler struct {
	mu       sync.Mutex
	manager  *Manager
	logger   *slog.Logger
	rearm    bool
	onChange func(Selection, error)

	timer   *time.Timer
	stopCh  chan struct{}
	running bool

	// fireMu is held for the whole of a fire so Stop can wait for it.
	fireMu sync.Mutex

	// afterFunc is swapped in tests.
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewScheduler creates a Scheduler. onChange receives each reloaded selection.
// With rearm set, a new timer is armed for the following midnight after every fire.
func NewScheduler(manager *Manager, rearm bool, onChange func(Selection, error), logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		manager:   manager,
		logger:    logger,
		rearm:     rearm,
		onChange:  onChange,
		afterFunc: time.AfterFunc,
	}
}

// Start arms the timer for the next midnight. Cancelling ctx stops the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.armLocked()
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stopCh:
		}
	}()
}

// Stop cancels the pending timer and waits for an in-flight fire to finish.
// No callback runs after Stop returns. Stop must not be called from onChange.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.running {
		s.running = false
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		close(s.stopCh)
	}
	s.mu.Unlock()

	// Wait for an in-flight fire.
	s.fireMu.Lock()
	defer s.fireMu.Unlock()
}

// Done returns a channel closed when the scheduler stops, either through Stop
// or after a single fire without rearm. It is nil before Start.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopCh
}

// Running reports whether a timer is armed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// armLocked arms a single-shot timer. Callers must hold the lock.
func (s *Scheduler) armLocked() {
	delay := UntilMidnight(s.manager.Now())
	s.logger.Debug("armed midnight timer", "delay", delay.String())
	s.timer = s.afterFunc(delay, s.fire)
}

func (s *Scheduler) fire() {
	s.fireMu.Lock()
	defer s.fireMu.Unlock()

	if !s.Running() {
		return
	}
	s.mu.Lock()
	s.timer = nil
	s.mu.Unlock()

	sel, err := s.manager.LoadOrCreate()

	// Stop may have landed while loading.
	if !s.Running() {
		return
	}
	if s.onChange != nil {
		s.onChange(sel, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if s.rearm {
		s.armLocked()
		return
	}
	s.running = false
	close(s.stopCh)
}
