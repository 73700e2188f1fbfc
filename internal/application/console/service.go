package console

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bryanwahyu/arq-console/internal/application"
	"github.com/bryanwahyu/arq-console/internal/domain/agents"
	"github.com/bryanwahyu/arq-console/internal/domain/analysis"
	"github.com/bryanwahyu/arq-console/internal/middleware"
)

// Service implements the results presentation controller use-cases: session
// lifecycle, progress tracking, exports, and the agent capability listing.
// Constructed and owned by main; safe for concurrent use.
type Service struct {
	Backend analysis.Backend
	Prober  agents.Prober
	Tracker *Tracker
	Clock   application.Clock
	Logger  *log.Logger

	mu      sync.RWMutex
	current *analysis.Analysis
}

//
// ==== USE CASES ====
//

// StartAnalysis validates the form payload, generates a session id unique per
// submission, kicks off the backend call in the background and starts
// progress tracking. The result is stored as the current analysis only when
// the backend reports success; a failed submission leaves the previous
// current analysis untouched.
func (s *Service) StartAnalysis(fields map[string]string) (analysis.SessionID, error) {
	if strings.TrimSpace(fields["segmento"]) == "" {
		return "", fmt.Errorf("o campo \"segmento\" é obrigatório para análise")
	}

	id := s.newSessionID()
	s.Tracker.Start(id)
	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()

	// jalanin submit di background, biar jalan sampai selesai
	go func() {
		defer middleware.DecrementAnalysesRunning()

		doc, err := s.Backend.Submit(context.Background(), analysis.SubmitRequest{
			SessionID: id,
			Fields:    fields,
		})
		if err != nil {
			s.Logger.Printf("analysis submit session=%s error: %v", id, err)
			s.Tracker.MarkFailed(id, err.Error())
			middleware.IncrementAnalysesFailed()
			return
		}

		s.mu.Lock()
		s.current = &analysis.Analysis{
			SessionID:  id,
			ReceivedAt: s.Clock.Now(),
			Result:     doc,
		}
		s.mu.Unlock()
		s.Tracker.MarkDone(id)
		s.Logger.Printf("analysis done session=%s", id)
	}()

	return id, nil
}

// newSessionID follows the backend's own convention: a timestamp combined
// with a random hex suffix, unguessable across rapid submissions.
func (s *Service) newSessionID() analysis.SessionID {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return analysis.SessionID(fmt.Sprintf("ultra_session_%d_%s", s.Clock.Now().Unix(), suffix))
}

// Progress returns the tracked snapshot for one session.
func (s *Service) Progress(id analysis.SessionID) (SessionSnapshot, error) {
	snap, ok := s.Tracker.Snapshot(id)
	if !ok {
		return SessionSnapshot{}, analysis.ErrSessionNotFound
	}
	return snap, nil
}

// Result returns the stored analysis once the given session completed.
func (s *Service) Result(id analysis.SessionID) (analysis.Analysis, error) {
	snap, ok := s.Tracker.Snapshot(id)
	if !ok {
		return analysis.Analysis{}, analysis.ErrSessionNotFound
	}
	switch snap.Status {
	case analysis.StatusRunning:
		return analysis.Analysis{}, analysis.ErrStillRunning
	case analysis.StatusFailed:
		return analysis.Analysis{}, fmt.Errorf("%w: %s", analysis.ErrBackend, snap.Error)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return analysis.Analysis{}, analysis.ErrNoAnalysis
	}
	return *s.current, nil
}

// Current returns the last successfully fetched analysis, if any.
func (s *Service) Current() (analysis.Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return analysis.Analysis{}, false
	}
	return *s.current, true
}

//
// ==== EXPORTS ====
//

// ExportJSON serializes the stored analysis with stable indentation. No
// network call is involved; the precondition is checked first.
func (s *Service) ExportJSON() ([]byte, string, error) {
	cur, ok := s.Current()
	if !ok {
		return nil, "", analysis.ErrNoAnalysis
	}
	raw, err := json.MarshalIndent(cur.Result, "", "  ")
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("analise_%s.json", s.Clock.Now().Format("20060102_150405"))
	return raw, name, nil
}

// ExportPDF posts the stored analysis to the rendering endpoint and returns
// the binary stream. Fails fast with ErrNoAnalysis before any network call.
func (s *Service) ExportPDF(ctx context.Context) ([]byte, string, error) {
	cur, ok := s.Current()
	if !ok {
		return nil, "", analysis.ErrNoAnalysis
	}
	raw, err := s.Backend.RenderPDF(ctx, cur.Result)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("analise_%s.pdf", s.Clock.Now().Format("20060102_150405"))
	return raw, name, nil
}

//
// ==== AGENTS ====
//

// Capabilities lists the agent catalog. A load failure is logged and yields
// an empty catalog; the capability section simply stays empty.
func (s *Service) Capabilities(ctx context.Context) []agents.Capability {
	caps, err := s.Prober.Capabilities(ctx)
	if err != nil {
		s.Logger.Printf("agent capabilities load error: %v", err)
		return nil
	}
	return caps
}

// TestAgent fires the fixed synthetic probe at one agent.
func (s *Service) TestAgent(ctx context.Context, agent string) (agents.TestOutcome, error) {
	if strings.TrimSpace(agent) == "" {
		return agents.TestOutcome{}, fmt.Errorf("agent is required")
	}
	return s.Prober.Test(ctx, agent, agents.DefaultProbe())
}
