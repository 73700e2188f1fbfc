package console

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bryanwahyu/arq-console/internal/domain/analysis"
)

// SessionSnapshot is the tracked state of one submission, served to the page
// on every poll of the console's own progress endpoint.
type SessionSnapshot struct {
	SessionID analysis.SessionID `json:"session_id"`
	Status    analysis.Status    `json:"status"`
	Progress  analysis.Progress  `json:"progress"`
	Error     string             `json:"error,omitempty"`
}

type sessionState struct {
	snapshot SessionSnapshot
	cancel   context.CancelFunc
}

// Tracker owns the recurring progress poll. At most one poller is ever
// active: starting a session cancels the previous poller before the new one
// is created, so two loops can never update the same snapshot store.
type Tracker struct {
	backend  analysis.Backend
	interval time.Duration
	logger   *log.Logger

	mu       sync.Mutex
	sessions map[analysis.SessionID]*sessionState
	active   analysis.SessionID
}

func NewTracker(backend analysis.Backend, interval time.Duration, logger *log.Logger) *Tracker {
	return &Tracker{
		backend:  backend,
		interval: interval,
		logger:   logger,
		sessions: make(map[analysis.SessionID]*sessionState),
	}
}

// Start registers the session and begins polling it. Any previously active
// poller is cancelled first.
func (t *Tracker) Start(id analysis.SessionID) {
	t.mu.Lock()
	if prev, ok := t.sessions[t.active]; ok && prev.cancel != nil {
		prev.cancel()
		prev.cancel = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.sessions[id] = &sessionState{
		snapshot: SessionSnapshot{SessionID: id, Status: analysis.StatusRunning},
		cancel:   cancel,
	}
	t.active = id
	t.mu.Unlock()

	go t.poll(ctx, id)
}

func (t *Tracker) poll(ctx context.Context, id analysis.SessionID) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p, err := t.backend.Progress(ctx, id)
			if err != nil {
				// transient tick failure: log only, next tick self-corrects
				if ctx.Err() == nil {
					t.logger.Printf("progress poll session=%s error: %v", id, err)
				}
				continue
			}
			t.record(id, p)
			if p.IsComplete {
				t.stop(id)
				return
			}
		}
	}
}

func (t *Tracker) record(id analysis.SessionID, p analysis.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.sessions[id]; ok {
		st.snapshot.Progress = p
	}
}

// stop cancels the poller for id if it is still attached. Idempotent.
func (t *Tracker) stop(id analysis.SessionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.sessions[id]; ok && st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
}

// MarkDone stops polling and finalizes the snapshot at 100%.
func (t *Tracker) MarkDone(id analysis.SessionID) {
	t.stop(id)
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.sessions[id]; ok {
		st.snapshot.Status = analysis.StatusDone
		st.snapshot.Progress.IsComplete = true
		if st.snapshot.Progress.Percentage < 100 {
			st.snapshot.Progress.Percentage = 100
		}
	}
}

// MarkFailed stops polling and records the failure message.
func (t *Tracker) MarkFailed(id analysis.SessionID, msg string) {
	t.stop(id)
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.sessions[id]; ok {
		st.snapshot.Status = analysis.StatusFailed
		st.snapshot.Error = msg
	}
}

// Snapshot returns the current state of a session.
func (t *Tracker) Snapshot(id analysis.SessionID) (SessionSnapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.sessions[id]
	if !ok {
		return SessionSnapshot{}, false
	}
	return st.snapshot, true
}
