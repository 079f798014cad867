package player

import (
	"time"

	"jukebridge/internal/queuesync"
)

// Scheduler is the playback state machine: Idle when no song is underway,
// Playing when the queue head has a wall-clock deadline.
//
// The machine is polled, not timer-driven. Each poll cycle checks the
// deadline and advances at most one transition, so playback end is detected
// with latency up to one poll interval. The playing entry stays at the queue
// head; the head doubles as the now-playing indicator for in-world viewers.
type Scheduler struct {
	now func() time.Time

	current  *queuesync.Entry
	deadline time.Time
}

// NewScheduler constructs an idle scheduler. A nil clock uses time.Now.
func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now}
}

// Playing reports whether a song is underway.
func (s *Scheduler) Playing() bool {
	return s.current != nil
}

// Current returns the playing entry.
func (s *Scheduler) Current() (queuesync.Entry, bool) {
	if s.current == nil {
		return queuesync.Entry{}, false
	}
	return *s.current, true
}

// Deadline returns the wall-clock time the playing entry finishes.
func (s *Scheduler) Deadline() (time.Time, bool) {
	if s.current == nil {
		return time.Time{}, false
	}
	return s.deadline, true
}

// Remaining returns the time left on the playing entry, clamped at zero.
func (s *Scheduler) Remaining() time.Duration {
	if s.current == nil {
		return 0
	}
	remaining := s.deadline.Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the playing entry's deadline has passed.
func (s *Scheduler) Expired() bool {
	if s.current == nil {
		return false
	}
	return !s.now().Before(s.deadline)
}

// Start promotes the scheduler from Idle to Playing with the given entry.
// Starting while already playing is ignored.
func (s *Scheduler) Start(entry queuesync.Entry) {
	if s.current != nil {
		return
	}
	duration := time.Duration(entry.DurationSeconds) * time.Second
	s.current = &entry
	s.deadline = s.now().Add(duration)
}

// Finish returns the scheduler to Idle.
func (s *Scheduler) Finish() {
	s.current = nil
	s.deadline = time.Time{}
}
