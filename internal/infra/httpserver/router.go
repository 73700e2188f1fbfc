package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/arq-console/internal/application/console"
	"github.com/bryanwahyu/arq-console/internal/domain/analysis"
	"github.com/bryanwahyu/arq-console/internal/middleware"
	"github.com/bryanwahyu/arq-console/internal/render"
)

// errBadRequest marks validation failures for the wrap error mapping.
var errBadRequest = errors.New("bad request")

type Router struct {
	svc      *console.Service
	renderer *render.Renderer
}

func NewRouter(svc *console.Service, renderer *render.Renderer) http.Handler {
	r := &Router{svc: svc, renderer: renderer}
	mux := chi.NewRouter()

	mux.Get("/", r.handleIndex)

	mux.Route("/console", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleSubmit))
		rt.Get("/analyses/{sessionID}/progress", r.wrap(r.handleProgress))
		rt.Get("/analyses/{sessionID}/result", r.wrap(r.handleResult))
		rt.Get("/export/json", r.wrap(r.handleExportJSON))
		rt.Post("/export/pdf", r.wrap(r.handleExportPDF))
		rt.Get("/agents", r.wrap(r.handleAgents))
		rt.Post("/agents/test", r.wrap(r.handleAgentTest))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, errBadRequest):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, analysis.ErrSessionNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, analysis.ErrNoAnalysis):
				http.Error(w, "Nenhuma análise disponível. Execute uma análise primeiro.", http.StatusConflict)
			case errors.Is(err, analysis.ErrStillRunning):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, analysis.ErrBackend):
				http.Error(w, err.Error(), http.StatusBadGateway)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(consoleHTML))
}

// POST /console/analyses
// Body: flat map of named form fields. Responds immediately with the session
// id; the analysis itself runs in the background.
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var fields map[string]string
	if err := json.NewDecoder(req.Body).Decode(&fields); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	fields, err := middleware.SanitizeForm(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	id, err := r.svc.StartAnalysis(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"session_id": id,
		"status":     "queued",
		"message":    "análise iniciada em background",
	})
}

// GET /console/analyses/{sessionID}/progress
func (r *Router) handleProgress(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "sessionID")
	if err := middleware.ValidateSessionID(id); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	snap, err := r.svc.Progress(analysis.SessionID(id))
	if err != nil {
		return err
	}

	p := snap.Progress
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"session_id":          snap.SessionID,
		"status":              snap.Status,
		"error":               snap.Error,
		"percentage":          p.Percentage,
		"current_message":     p.CurrentMessage,
		"current_step":        p.CurrentStep,
		"total_steps":         p.TotalSteps,
		"step_counter":        p.StepCounter(),
		"estimated_remaining": p.EstimatedRemaining,
		"remaining_clock":     p.RemainingClock(),
		"is_complete":         p.IsComplete,
	})
}

// GET /console/analyses/{sessionID}/result
// Responds with the rendered eight-tab fragment once the session completed.
func (r *Router) handleResult(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "sessionID")
	if err := middleware.ValidateSessionID(id); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	result, err := r.svc.Result(analysis.SessionID(id))
	if err != nil {
		return err
	}

	fragment, err := r.renderer.Render(result.Result)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(fragment)
	return err
}

// GET /console/export/json
func (r *Router) handleExportJSON(w http.ResponseWriter, req *http.Request) error {
	raw, name, err := r.svc.ExportJSON()
	if err != nil {
		return err
	}
	middleware.IncrementExports()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, err = w.Write(raw)
	return err
}

// POST /console/export/pdf
func (r *Router) handleExportPDF(w http.ResponseWriter, req *http.Request) error {
	raw, name, err := r.svc.ExportPDF(req.Context())
	if err != nil {
		return err
	}
	middleware.IncrementExports()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, err = w.Write(raw)
	return err
}

// GET /console/agents
func (r *Router) handleAgents(w http.ResponseWriter, req *http.Request) error {
	caps := r.svc.Capabilities(req.Context())

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"total_agents": len(caps),
		"agents":       caps,
	})
}

// POST /console/agents/test
// Body: {"agent": "<catalog key>"}
func (r *Router) handleAgentTest(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Agent string `json:"agent"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := middleware.ValidateAgentKey(body.Agent); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	outcome, err := r.svc.TestAgent(req.Context(), body.Agent)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(outcome)
}
