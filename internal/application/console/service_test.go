package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bryanwahyu/arq-console/internal/domain/agents"
	"github.com/bryanwahyu/arq-console/internal/domain/analysis"
)

type fakeProber struct {
	caps    []agents.Capability
	capsErr error
	tested  string
	probe   map[string]string
}

func (f *fakeProber) Capabilities(ctx context.Context) ([]agents.Capability, error) {
	if f.capsErr != nil {
		return nil, f.capsErr
	}
	return f.caps, nil
}

func (f *fakeProber) Test(ctx context.Context, agent string, payload map[string]string) (agents.TestOutcome, error) {
	f.tested = agent
	f.probe = payload
	return agents.TestOutcome{Success: true, Status: "ok", Result: json.RawMessage(`{"validacao":"ok"}`)}, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestService(backend *fakeBackend, prober *fakeProber) *Service {
	if prober == nil {
		prober = &fakeProber{}
	}
	return &Service{
		Backend: backend,
		Prober:  prober,
		Tracker: NewTracker(backend, time.Hour, testLogger()),
		Clock:   fixedClock{t: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		Logger:  testLogger(),
	}
}

func TestStartAnalysisRequiresSegmento(t *testing.T) {
	svc := newTestService(newFakeBackend(), nil)

	for _, fields := range []map[string]string{
		{},
		{"segmento": ""},
		{"segmento": "   ", "produto": "Curso"},
	} {
		if _, err := svc.StartAnalysis(fields); err == nil {
			t.Errorf("StartAnalysis(%v) accepted, want validation error", fields)
		}
	}
	if n := atomic.LoadInt32(&svc.Backend.(*fakeBackend).submits); n != 0 {
		t.Errorf("backend submits = %d, want 0 on validation failure", n)
	}
}

func TestStartAnalysisSessionIDFormat(t *testing.T) {
	backend := newFakeBackend()
	backend.submitDoc = analysis.Document{"ok": true}
	svc := newTestService(backend, nil)

	id, err := svc.StartAnalysis(map[string]string{"segmento": "Produtos Digitais"})
	if err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	pattern := regexp.MustCompile(`^ultra_session_[0-9]+_[a-f0-9]{8}$`)
	if !pattern.MatchString(string(id)) {
		t.Errorf("session id %q does not match convention", id)
	}

	id2, _ := svc.StartAnalysis(map[string]string{"segmento": "Produtos Digitais"})
	if id == id2 {
		t.Error("two submissions produced the same session id")
	}
}

func TestStartAnalysisStoresResult(t *testing.T) {
	backend := newFakeBackend()
	backend.submitDoc = analysis.Document{"metadata_final": map[string]any{"ai_used": "multi"}}
	svc := newTestService(backend, nil)

	id, err := svc.StartAnalysis(map[string]string{"segmento": "Produtos Digitais"})
	if err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		snap, ok := svc.Tracker.Snapshot(id)
		return ok && snap.Status == analysis.StatusDone
	})

	got, err := svc.Result(id)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if got.SessionID != id {
		t.Errorf("Result.SessionID = %q, want %q", got.SessionID, id)
	}
	if !got.Result.Has("metadata_final") {
		t.Error("stored document lost metadata_final")
	}
}

func TestStartAnalysisFailureKeepsPreviousResult(t *testing.T) {
	backend := newFakeBackend()
	backend.submitDoc = analysis.Document{"versao": "1"}
	svc := newTestService(backend, nil)

	first, _ := svc.StartAnalysis(map[string]string{"segmento": "Produtos Digitais"})
	waitFor(t, time.Second, func() bool {
		snap, _ := svc.Tracker.Snapshot(first)
		return snap.Status == analysis.StatusDone
	})

	backend.submitErr = fmt.Errorf("backend caiu")
	second, _ := svc.StartAnalysis(map[string]string{"segmento": "Produtos Digitais"})
	waitFor(t, time.Second, func() bool {
		snap, _ := svc.Tracker.Snapshot(second)
		return snap.Status == analysis.StatusFailed
	})

	// the failed run must not clobber the kept analysis
	cur, ok := svc.Current()
	if !ok {
		t.Fatal("previous analysis dropped after failed submission")
	}
	if cur.SessionID != first {
		t.Errorf("current session = %q, want first run %q", cur.SessionID, first)
	}

	if _, err := svc.Result(second); !errors.Is(err, analysis.ErrBackend) {
		t.Errorf("Result(failed) err = %v, want ErrBackend", err)
	}
}

func TestResultStates(t *testing.T) {
	svc := newTestService(newFakeBackend(), nil)

	if _, err := svc.Result("ultra_session_1_deadbeef"); !errors.Is(err, analysis.ErrSessionNotFound) {
		t.Errorf("unknown session err = %v, want ErrSessionNotFound", err)
	}

	svc.Tracker.Start("ultra_session_1_deadbeef")
	defer svc.Tracker.stop("ultra_session_1_deadbeef")
	if _, err := svc.Result("ultra_session_1_deadbeef"); !errors.Is(err, analysis.ErrStillRunning) {
		t.Errorf("running session err = %v, want ErrStillRunning", err)
	}

	svc.Tracker.MarkDone("ultra_session_1_deadbeef")
	if _, err := svc.Result("ultra_session_1_deadbeef"); !errors.Is(err, analysis.ErrNoAnalysis) {
		t.Errorf("done without stored result err = %v, want ErrNoAnalysis", err)
	}
}

func TestExportJSONWithoutAnalysis(t *testing.T) {
	svc := newTestService(newFakeBackend(), nil)
	if _, _, err := svc.ExportJSON(); !errors.Is(err, analysis.ErrNoAnalysis) {
		t.Errorf("ExportJSON err = %v, want ErrNoAnalysis", err)
	}
}

func TestExportPDFWithoutAnalysisSkipsNetwork(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(backend, nil)

	if _, _, err := svc.ExportPDF(context.Background()); !errors.Is(err, analysis.ErrNoAnalysis) {
		t.Errorf("ExportPDF err = %v, want ErrNoAnalysis", err)
	}
	if n := atomic.LoadInt32(&backend.pdfCalls); n != 0 {
		t.Errorf("RenderPDF called %d times before precondition, want 0", n)
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	backend.submitDoc = analysis.Document{
		"metadata_final":      map[string]any{"ai_used": "multi", "custo": float64(0.42)},
		"insights_exclusivos": []any{"primeiro", "segundo"},
	}
	svc := newTestService(backend, nil)

	id, _ := svc.StartAnalysis(map[string]string{"segmento": "Produtos Digitais"})
	waitFor(t, time.Second, func() bool {
		snap, _ := svc.Tracker.Snapshot(id)
		return snap.Status == analysis.StatusDone
	})

	raw, name, err := svc.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if name != "analise_20240315_103000.json" {
		t.Errorf("filename = %q", name)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("exported JSON not parseable: %v", err)
	}
	if !reflect.DeepEqual(decoded, map[string]any(backend.submitDoc)) {
		t.Errorf("round-trip mismatch:\n got %v\nwant %v", decoded, backend.submitDoc)
	}
}

func TestExportPDFUsesStoredAnalysis(t *testing.T) {
	backend := newFakeBackend()
	backend.submitDoc = analysis.Document{"ok": true}
	svc := newTestService(backend, nil)

	id, _ := svc.StartAnalysis(map[string]string{"segmento": "Produtos Digitais"})
	waitFor(t, time.Second, func() bool {
		snap, _ := svc.Tracker.Snapshot(id)
		return snap.Status == analysis.StatusDone
	})

	raw, name, err := svc.ExportPDF(context.Background())
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if len(raw) == 0 {
		t.Error("empty PDF stream")
	}
	if name != "analise_20240315_103000.pdf" {
		t.Errorf("filename = %q", name)
	}
}

func TestCapabilitiesFailureYieldsEmptyCatalog(t *testing.T) {
	prober := &fakeProber{capsErr: fmt.Errorf("catalog indisponível")}
	svc := newTestService(newFakeBackend(), prober)

	if got := svc.Capabilities(context.Background()); got != nil {
		t.Errorf("Capabilities on failure = %v, want nil", got)
	}
}

func TestTestAgentUsesDefaultProbe(t *testing.T) {
	prober := &fakeProber{}
	svc := newTestService(newFakeBackend(), prober)

	out, err := svc.TestAgent(context.Background(), "arqueologo_mestre")
	if err != nil {
		t.Fatalf("TestAgent: %v", err)
	}
	if !out.Success {
		t.Error("outcome not successful")
	}
	if prober.tested != "arqueologo_mestre" {
		t.Errorf("probed agent = %q", prober.tested)
	}
	if !reflect.DeepEqual(prober.probe, agents.DefaultProbe()) {
		t.Errorf("probe payload = %v, want the fixed synthetic payload", prober.probe)
	}

	if _, err := svc.TestAgent(context.Background(), "  "); err == nil {
		t.Error("blank agent accepted, want error")
	}
}
