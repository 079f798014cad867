package player_test

import (
	"testing"
	"time"

	"jukebridge/internal/player"
	"jukebridge/internal/queuesync"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestStartSetsDeadlineFromDuration(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	sched := player.NewScheduler(clock.Now)

	sched.Start(queuesync.Entry{Title: "song", DurationSeconds: 30})

	if !sched.Playing() {
		t.Fatal("expected playing state")
	}
	deadline, ok := sched.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if want := time.Unix(1030, 0); !deadline.Equal(want) {
		t.Fatalf("unexpected deadline: %v want %v", deadline, want)
	}
}

func TestExpiredFollowsDeadlineMonotonically(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	sched := player.NewScheduler(clock.Now)
	sched.Start(queuesync.Entry{Title: "song", DurationSeconds: 30})

	for _, step := range []time.Duration{0, 10 * time.Second, 19 * time.Second} {
		clock.now = time.Unix(1000, 0).Add(step)
		if sched.Expired() {
			t.Fatalf("expired too early at +%v", step)
		}
		current, ok := sched.Current()
		if !ok || current.Title != "song" {
			t.Fatalf("current entry changed before deadline: %+v", current)
		}
	}

	clock.now = time.Unix(1030, 0)
	if !sched.Expired() {
		t.Fatal("expected expiry exactly at the deadline")
	}
}

func TestStartWhilePlayingIsIgnored(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	sched := player.NewScheduler(clock.Now)
	sched.Start(queuesync.Entry{Title: "first", DurationSeconds: 30})
	sched.Start(queuesync.Entry{Title: "second", DurationSeconds: 5})

	current, _ := sched.Current()
	if current.Title != "first" {
		t.Fatalf("expected first entry to keep playing, got %q", current.Title)
	}
}

func TestFinishReturnsToIdle(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	sched := player.NewScheduler(clock.Now)
	sched.Start(queuesync.Entry{Title: "song", DurationSeconds: 1})
	sched.Finish()

	if sched.Playing() {
		t.Fatal("expected idle state after finish")
	}
	if sched.Expired() {
		t.Fatal("idle scheduler must not report expiry")
	}
	if _, ok := sched.Deadline(); ok {
		t.Fatal("idle scheduler must not report a deadline")
	}
}

func TestRemainingClampsAtZero(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	sched := player.NewScheduler(clock.Now)
	sched.Start(queuesync.Entry{Title: "song", DurationSeconds: 10})

	clock.Advance(4 * time.Second)
	if got := sched.Remaining(); got != 6*time.Second {
		t.Fatalf("unexpected remaining: %v", got)
	}

	clock.Advance(20 * time.Second)
	if got := sched.Remaining(); got != 0 {
		t.Fatalf("expected zero remaining, got %v", got)
	}
}
