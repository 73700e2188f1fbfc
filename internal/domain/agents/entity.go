package agents

import (
	"context"
	"encoding/json"
)

// Capability describes one named analysis agent from the backend catalog.
type Capability struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Mission     string   `json:"mission"`
	Specialties []string `json:"specialties"`
}

// TestOutcome is the raw result of a smoke-test probe against one agent.
type TestOutcome struct {
	Success bool            `json:"success"`
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result"`
}

// Prober port (interface ke capability/test endpoints di backend)
type Prober interface {
	Capabilities(ctx context.Context) ([]Capability, error)
	Test(ctx context.Context, agent string, payload map[string]string) (TestOutcome, error)
}

// DefaultProbe is the fixed synthetic payload used for smoke tests. It never
// contains user data.
func DefaultProbe() map[string]string {
	return map[string]string{
		"segmento": "Produtos Digitais",
		"produto":  "Curso Online",
		"publico":  "Empreendedores",
	}
}
