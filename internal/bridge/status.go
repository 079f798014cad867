package bridge

import (
	"time"

	"jukebridge/internal/queuesync"
)

// NowPlaying describes the entry currently occupying the playback slot.
type NowPlaying struct {
	Title            string `json:"title"`
	RequestedBy      string `json:"requested_by"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// Status is a point-in-time snapshot of the bridge, published after every
// cycle and served by the daemon status API.
type Status struct {
	Running     bool              `json:"running"`
	State       string            `json:"state"`
	NowPlaying  *NowPlaying       `json:"now_playing,omitempty"`
	QueueLength int               `json:"queue_length"`
	Queue       []queuesync.Entry `json:"queue"`
	LastCycleAt time.Time         `json:"last_cycle_at,omitzero"`
}

// Status returns the latest published snapshot.
func (m *Manager) Status() Status {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}

func (m *Manager) publishStatus() {
	entries := m.queue.Entries()

	status := Status{
		State:       "idle",
		QueueLength: len(entries),
		Queue:       entries,
		LastCycleAt: time.Now().UTC(),
	}

	m.mu.Lock()
	status.Running = m.running
	m.mu.Unlock()

	if current, ok := m.sched.Current(); ok {
		status.State = "playing"
		status.NowPlaying = &NowPlaying{
			Title:            current.Title,
			RequestedBy:      current.RequestedBy,
			RemainingSeconds: int(m.sched.Remaining() / time.Second),
		}
	}

	m.statusMu.Lock()
	m.status = status
	m.statusMu.Unlock()
}
