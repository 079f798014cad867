package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"jukebridge/internal/config"
	"jukebridge/internal/inbox"
	"jukebridge/internal/logging"
	"jukebridge/internal/notifications"
	"jukebridge/internal/player"
	"jukebridge/internal/queuesync"
	"jukebridge/internal/services"
)

// Manager drives the bridge poll loop. Each cycle drains the request inbox,
// evaluates the playback deadline, and promotes the queue head when idle, in
// that order. At most one playback transition happens per cycle.
type Manager struct {
	cfg      *config.Config
	queue    *queuesync.Synchronizer
	inbox    *inbox.Processor
	sched    *player.Scheduler
	notifier notifications.Service
	logger   *slog.Logger

	pollInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	statusMu sync.RWMutex
	status   Status
}

// ManagerOption customizes manager construction.
type ManagerOption func(*Manager)

// WithClock overrides the scheduler clock (used in tests).
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.sched = player.NewScheduler(now)
	}
}

// NewManager constructs a bridge manager over an already-wired queue
// synchronizer and inbox processor.
func NewManager(cfg *config.Config, queue *queuesync.Synchronizer, processor *inbox.Processor, notifier notifications.Service, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.Noop()
	}
	m := &Manager{
		cfg:          cfg,
		queue:        queue,
		inbox:        processor,
		sched:        player.NewScheduler(nil),
		notifier:     notifier,
		logger:       logging.NewComponentLogger(logger, "bridge"),
		pollInterval: time.Duration(cfg.Bridge.PollInterval) * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start primes the local queue mirror and launches the background poll loop.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("bridge already running")
	}

	if err := m.queue.Load(ctx); err != nil {
		m.mu.Unlock()
		return err
	}
	if m.cfg.Bridge.SanitizeOnStart {
		if err := m.queue.Sanitize(ctx); err != nil {
			m.logger.Warn("startup queue sanitize failed; continuing with loaded state",
				logging.Error(err),
				logging.String(logging.FieldEventType, "sanitize_failed"),
			)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	m.publishStatus()
	go m.run(runCtx)

	return nil
}

// Stop terminates the poll loop and waits for the in-flight cycle to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.publishStatus()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		m.RunCycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.pollInterval):
		}
	}
}

// RunCycle executes one poll cycle: inbox drain, then playback advancement.
// Errors are classified and logged, never fatal; the next cycle retries.
func (m *Manager) RunCycle(ctx context.Context) {
	logger := m.logger.With(logging.String(logging.FieldCycleID, uuid.NewString()))

	m.processInbox(ctx, logger)
	m.advancePlayback(ctx, logger)
	m.publishStatus()
}

func (m *Manager) processInbox(ctx context.Context, logger *slog.Logger) {
	if _, err := m.inbox.Process(ctx); err != nil {
		if services.Recoverable(err) {
			logger.Warn("inbox cycle failed; will retry next poll",
				logging.Error(err),
				logging.String(logging.FieldEventType, "inbox_cycle_failed"),
			)
			return
		}
		logger.Error("inbox cycle failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "inbox_cycle_failed"),
			logging.String(logging.FieldErrorHint, "check storage and resolver endpoints"),
		)
		m.notifyError(ctx, logger, err, "inbox processing")
	}
}

func (m *Manager) advancePlayback(ctx context.Context, logger *slog.Logger) {
	if m.sched.Expired() {
		entry, err := m.queue.PopHead(ctx)
		if err != nil {
			// Stay in Playing so the next cycle retries the pop; the head
			// must leave the shared queue before the slot frees up.
			if services.Recoverable(err) {
				logger.Warn("finished song removal deferred",
					logging.Error(err),
					logging.String(logging.FieldEventType, "pop_deferred"),
				)
			} else {
				logger.Error("finished song removal failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "pop_failed"),
					logging.String(logging.FieldErrorHint, "check storage endpoint"),
				)
				m.notifyError(ctx, logger, err, "queue advancement")
			}
			return
		}
		if entry != nil {
			logger.Info("song finished",
				logging.String("title", entry.Title),
				logging.String(logging.FieldEventType, "song_finished"),
			)
		}
		m.sched.Finish()
		return
	}

	if m.sched.Playing() {
		return
	}

	head, ok := m.queue.Head()
	if !ok {
		return
	}
	m.sched.Start(head)
	logger.Info("now playing",
		logging.String("title", head.Title),
		logging.String("requested_by", head.RequestedBy),
		logging.Int("duration_seconds", head.DurationSeconds),
		logging.String(logging.FieldEventType, "now_playing"),
	)
	duration := time.Duration(head.DurationSeconds) * time.Second
	if err := m.notifier.NotifyNowPlaying(ctx, head.Title, head.RequestedBy, duration); err != nil {
		logger.Warn("now-playing notification failed", logging.Error(err))
	}
}

func (m *Manager) notifyError(ctx context.Context, logger *slog.Logger, cause error, label string) {
	if err := m.notifier.NotifyError(ctx, cause, label); err != nil {
		logger.Warn("error notification failed", logging.Error(err))
	}
}
