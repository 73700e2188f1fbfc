package console

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bryanwahyu/arq-console/internal/domain/analysis"
)

// fakeBackend counts progress polls per session and serves canned snapshots.
type fakeBackend struct {
	mu        sync.Mutex
	progress  map[analysis.SessionID]analysis.Progress
	polls     map[analysis.SessionID]int
	pollErr   error
	submitDoc analysis.Document
	submitErr error
	submits   int32
	pdfCalls  int32
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		progress: make(map[analysis.SessionID]analysis.Progress),
		polls:    make(map[analysis.SessionID]int),
	}
}

func (f *fakeBackend) Submit(ctx context.Context, req analysis.SubmitRequest) (analysis.Document, error) {
	atomic.AddInt32(&f.submits, 1)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitDoc, nil
}

func (f *fakeBackend) Progress(ctx context.Context, id analysis.SessionID) (analysis.Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[id]++
	if f.pollErr != nil {
		return analysis.Progress{}, f.pollErr
	}
	return f.progress[id], nil
}

func (f *fakeBackend) RenderPDF(ctx context.Context, doc analysis.Document) ([]byte, error) {
	atomic.AddInt32(&f.pdfCalls, 1)
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakeBackend) setProgress(id analysis.SessionID, p analysis.Progress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress[id] = p
}

func (f *fakeBackend) pollCount(id analysis.SessionID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls[id]
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestTrackerPollsAndRecords(t *testing.T) {
	backend := newFakeBackend()
	backend.setProgress("s1", analysis.Progress{Percentage: 40, CurrentMessage: "Analisando avatar", CurrentStep: 3, TotalSteps: 8})

	tr := NewTracker(backend, 10*time.Millisecond, testLogger())
	tr.Start("s1")
	defer tr.stop("s1")

	waitFor(t, time.Second, func() bool {
		snap, ok := tr.Snapshot("s1")
		return ok && snap.Progress.Percentage == 40
	})

	snap, _ := tr.Snapshot("s1")
	if snap.Status != analysis.StatusRunning {
		t.Errorf("Status = %q, want running", snap.Status)
	}
	if snap.Progress.CurrentMessage != "Analisando avatar" {
		t.Errorf("CurrentMessage = %q", snap.Progress.CurrentMessage)
	}
}

func TestTrackerSecondStartCancelsFirstPoller(t *testing.T) {
	backend := newFakeBackend()
	tr := NewTracker(backend, 10*time.Millisecond, testLogger())

	tr.Start("s1")
	waitFor(t, time.Second, func() bool { return backend.pollCount("s1") > 0 })

	tr.Start("s2")
	defer tr.stop("s2")

	// first poller must stop issuing requests once the second starts
	waitFor(t, time.Second, func() bool { return backend.pollCount("s2") > 0 })
	frozen := backend.pollCount("s1")
	time.Sleep(60 * time.Millisecond)
	if got := backend.pollCount("s1"); got > frozen+1 {
		t.Errorf("cancelled poller still polling: %d then %d", frozen, got)
	}
}

func TestTrackerCompletionStopsPolling(t *testing.T) {
	backend := newFakeBackend()
	backend.setProgress("s1", analysis.Progress{Percentage: 100, IsComplete: true})

	tr := NewTracker(backend, 10*time.Millisecond, testLogger())
	tr.Start("s1")

	waitFor(t, time.Second, func() bool {
		snap, ok := tr.Snapshot("s1")
		return ok && snap.Progress.IsComplete
	})

	frozen := backend.pollCount("s1")
	time.Sleep(60 * time.Millisecond)
	if got := backend.pollCount("s1"); got != frozen {
		t.Errorf("poller kept running after completion: %d then %d", frozen, got)
	}
}

func TestTrackerFailedTickContinues(t *testing.T) {
	backend := newFakeBackend()
	backend.pollErr = context.DeadlineExceeded

	tr := NewTracker(backend, 10*time.Millisecond, testLogger())
	tr.Start("s1")
	defer tr.stop("s1")

	// errors are logged and skipped, the loop keeps ticking
	waitFor(t, time.Second, func() bool { return backend.pollCount("s1") >= 3 })

	snap, ok := tr.Snapshot("s1")
	if !ok || snap.Status != analysis.StatusRunning {
		t.Errorf("snapshot after failed ticks = %+v ok=%v, want still running", snap, ok)
	}
}

func TestTrackerMarkDoneFinalizes(t *testing.T) {
	backend := newFakeBackend()
	tr := NewTracker(backend, time.Hour, testLogger())
	tr.Start("s1")
	tr.MarkDone("s1")

	snap, ok := tr.Snapshot("s1")
	if !ok {
		t.Fatal("snapshot missing after MarkDone")
	}
	if snap.Status != analysis.StatusDone {
		t.Errorf("Status = %q, want done", snap.Status)
	}
	if !snap.Progress.IsComplete || snap.Progress.Percentage != 100 {
		t.Errorf("Progress = %+v, want complete at 100", snap.Progress)
	}
}

func TestTrackerMarkFailedRecordsMessage(t *testing.T) {
	backend := newFakeBackend()
	tr := NewTracker(backend, time.Hour, testLogger())
	tr.Start("s1")
	tr.MarkFailed("s1", "backend indisponível")

	snap, _ := tr.Snapshot("s1")
	if snap.Status != analysis.StatusFailed {
		t.Errorf("Status = %q, want failed", snap.Status)
	}
	if snap.Error != "backend indisponível" {
		t.Errorf("Error = %q", snap.Error)
	}
}

func TestTrackerUnknownSession(t *testing.T) {
	tr := NewTracker(newFakeBackend(), time.Hour, testLogger())
	if _, ok := tr.Snapshot("nope"); ok {
		t.Error("Snapshot(nope) ok = true, want false")
	}
}
