package analysis

import "time"

// SessionID correlates a submission with its progress stream
type SessionID string

// Status enum
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Aggregate Root: Analysis, the last result fetched from the backend
type Analysis struct {
	SessionID  SessionID `json:"session_id"`
	ReceivedAt time.Time `json:"received_at"`
	Result     Document  `json:"result"`
}
