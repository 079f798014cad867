package api

import (
	"jukebridge/internal/bridge"
	"jukebridge/internal/queuesync"
)

// DaemonStatus is the payload served by GET /api/status.
type DaemonStatus struct {
	Bridge       bridge.Status `json:"bridge"`
	LockFilePath string        `json:"lock_file_path"`
	LogPath      string        `json:"log_path"`
}

// QueueListResponse is the payload served by GET /api/queue.
type QueueListResponse struct {
	Entries []queuesync.Entry `json:"entries"`
}
