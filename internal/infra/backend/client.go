package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/bryanwahyu/arq-console/internal/domain/agents"
	"github.com/bryanwahyu/arq-console/internal/domain/analysis"
)

// Fixed contract surface of the analysis backend.
const (
	pathSubmit       = "/api/analyze_ultra_enhanced"
	pathProgress     = "/api/progress/"
	pathCapabilities = "/api/get_agent_capabilities"
	pathTestAgent    = "/api/test_psychological_agents"
	pathRenderPDF    = "/api/generate_pdf"
)

// Client calls the external analysis backend over plain JSON/HTTP.
// It implements analysis.Backend and agents.Prober.
type Client struct {
	base           string
	http           *http.Client
	requestTimeout time.Duration
	submitTimeout  time.Duration
}

func New(baseURL string, requestTimeout, submitTimeout time.Duration) *Client {
	return &Client{
		base:           strings.TrimRight(baseURL, "/"),
		http:           &http.Client{},
		requestTimeout: requestTimeout,
		submitTimeout:  submitTimeout,
	}
}

// Submit posts the form payload plus the session id and waits for the full
// analysis object. The analysis can take minutes; the long submit timeout
// applies here, not the regular request timeout.
func (c *Client) Submit(ctx context.Context, req analysis.SubmitRequest) (analysis.Document, error) {
	payload := make(map[string]any, len(req.Fields)+1)
	for k, v := range req.Fields {
		payload[k] = v
	}
	payload["session_id"] = string(req.SessionID)

	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	var doc analysis.Document
	if err := c.postJSON(ctx, pathSubmit, payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Progress fetches one progress snapshot by session id.
func (c *Client) Progress(ctx context.Context, id analysis.SessionID) (analysis.Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var body struct {
		Success bool `json:"success"`
		analysis.Progress
	}
	if err := c.getJSON(ctx, pathProgress+url.PathEscape(string(id)), &body); err != nil {
		return analysis.Progress{}, err
	}
	if !body.Success {
		return analysis.Progress{}, fmt.Errorf("%w: progress for session %s", analysis.ErrBackend, id)
	}
	return body.Progress, nil
}

// Capabilities fetches the agent catalog. The backend keys the catalog by
// agent name; the map is flattened to a slice sorted by key so callers render
// a stable card order.
func (c *Client) Capabilities(ctx context.Context) ([]agents.Capability, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var body struct {
		Success bool `json:"success"`
		Agents  map[string]struct {
			Name        string   `json:"name"`
			Mission     string   `json:"mission"`
			Specialties []string `json:"specialties"`
		} `json:"agents"`
	}
	if err := c.getJSON(ctx, pathCapabilities, &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: capability catalog", analysis.ErrBackend)
	}

	keys := make([]string, 0, len(body.Agents))
	for k := range body.Agents {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]agents.Capability, 0, len(keys))
	for _, k := range keys {
		a := body.Agents[k]
		out = append(out, agents.Capability{
			Key:         k,
			Name:        a.Name,
			Mission:     a.Mission,
			Specialties: a.Specialties,
		})
	}
	return out, nil
}

// Test fires the synthetic probe against a single agent.
func (c *Client) Test(ctx context.Context, agent string, payload map[string]string) (agents.TestOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req := map[string]any{
		"agent":     agent,
		"test_data": payload,
	}
	var body struct {
		Success bool            `json:"success"`
		Status  string          `json:"status"`
		Result  json.RawMessage `json:"result"`
	}
	if err := c.postJSON(ctx, pathTestAgent, req, &body); err != nil {
		return agents.TestOutcome{}, err
	}
	return agents.TestOutcome{
		Success: body.Success,
		Status:  body.Status,
		Result:  body.Result,
	}, nil
}

// Ping does one cheap round-trip against the capability endpoint, for
// health checks.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Capabilities(ctx)
	return err
}

// RenderPDF posts the stored analysis and returns the binary document stream.
func (c *Client) RenderPDF(ctx context.Context, doc analysis.Document) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+pathRenderPDF, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backendError(resp)
	}
	return io.ReadAll(resp.Body)
}

//
// ==== transport helpers ====
//

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", analysis.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return backendError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", analysis.ErrBackend, err)
	}
	return nil
}

// backendError lifts the backend's own error/message fields when present.
func backendError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("%w: %s", analysis.ErrBackend, msg)
}
