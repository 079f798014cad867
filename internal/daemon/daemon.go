package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"jukebridge/internal/bridge"
	"jukebridge/internal/config"
	"jukebridge/internal/logging"
)

// Daemon wraps the bridge manager with single-instance locking and the
// optional HTTP status API.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	manager *bridge.Manager
	logPath string

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, manager *bridge.Manager, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || manager == nil || logger == nil {
		return nil, errors.New("daemon requires config, manager, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "jukebridged.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		manager:  manager,
		logPath:  filepath.Join(cfg.Paths.LogDir, "jukebridge.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, launches the bridge loop, and brings up
// the API server when one is configured.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another jukebridge daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.manager.Start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return fmt.Errorf("start bridge: %w", err)
	}
	if err := d.api.start(runCtx); err != nil {
		d.manager.Stop()
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("jukebridge daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the bridge loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.manager.Stop()
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("jukebridge daemon stopped")
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// APIAddress returns the bound API listener address, or "" when the API is
// disabled or not yet started.
func (d *Daemon) APIAddress() string {
	return d.api.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status() bridge.Status {
	status := d.manager.Status()
	status.Running = d.running.Load()
	return status
}
