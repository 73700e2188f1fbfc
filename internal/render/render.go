package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/bryanwahyu/arq-console/internal/domain/analysis"
)

// Renderer commits a report view-model to HTML. All text values pass through
// html/template's contextual escaping; the backend is not trusted to supply
// safe markup.
type Renderer struct {
	tmpl *template.Template
}

func New() *Renderer {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"title": titleizeKey,
	}).Parse(reportTemplate))
	return &Renderer{tmpl: tmpl}
}

// Render maps the document to the eight-tab report fragment.
func (r *Renderer) Render(doc analysis.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, BuildReport(doc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// titleizeKey turns a snake_case backend key into a display label,
// "gatilho_central" into "Gatilho Central".
func titleizeKey(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

const reportTemplate = `<div class="report">
  <div class="report-header">
    <h2>Análise Ultra-Detalhada</h2>
    <div class="report-actions">
      <button class="btn btn-primary" data-action="download-pdf" type="button">Baixar PDF</button>
      <button class="btn btn-secondary" data-action="save-json" type="button">Salvar JSON</button>
      <button class="btn btn-secondary" data-action="new-analysis" type="button">Nova Análise</button>
    </div>
  </div>
  <div class="tabs" role="tablist">
    {{- range .Tabs}}
    <button class="tab{{if .Active}} active{{end}}" data-tab="{{.ID}}" type="button" role="tab">{{.Label}}</button>
    {{- end}}
  </div>
  {{- range .Tabs}}
  <div class="tab-pane{{if .Active}} active{{end}}" id="pane-{{.ID}}" role="tabpanel">
    {{- range .Nodes}}{{template "node" .}}{{end}}
  </div>
  {{- end}}
</div>
{{- define "node"}}
{{- if eq .Kind "heading"}}
<h3 class="section-title">{{.Text}}</h3>
{{- else if eq .Kind "paragraph"}}
<div class="field">{{if .Label}}<span class="field-label">{{.Label}}:</span> {{end}}<span class="field-value">{{.Text}}</span></div>
{{- else if eq .Kind "alert"}}
<div class="alert alert-{{.Label}}">{{.Text}}</div>
{{- else if eq .Kind "stats"}}
<div class="stat-grid">
  {{- range .Stats}}
  <div class="stat"><div class="stat-value">{{.Value}}</div><div class="stat-label">{{.Label}}</div></div>
  {{- end}}
</div>
{{- else if eq .Kind "meters"}}
<div class="meter-list">
  {{- range .Meters}}
  <div class="meter">
    <div class="meter-label">{{.Label}} <span class="meter-value">{{.Percent}}</span></div>
    <div class="meter-track"><div class="meter-fill" style="width: {{.Percent}}"></div></div>
  </div>
  {{- end}}
</div>
{{- else if eq .Kind "bullets"}}
<div class="bullet-block">{{if .Label}}<div class="block-title">{{.Label}}</div>{{end}}<ul>
  {{- range .Items}}<li>{{.}}</li>{{end}}
</ul></div>
{{- else if eq .Kind "kv"}}
<div class="kv-block">{{if .Label}}<div class="block-title">{{.Label}}</div>{{end}}<dl>
  {{- range .Pairs}}<dt>{{title .Key}}</dt><dd>{{.Value}}</dd>{{end}}
</dl></div>
{{- else if eq .Kind "cards"}}
<div class="card-grid">
  {{- range .Cards}}
  <div class="report-card">
    <div class="card-title">{{.Title}}</div>
    {{- if .Subtitle}}<div class="card-subtitle">{{.Subtitle}}</div>{{end}}
    {{- range .Body}}{{template "node" .}}{{end}}
  </div>
  {{- end}}
</div>
{{- else if eq .Kind "accordion"}}
<div class="accordion">
  <button class="accordion-toggle" type="button">{{.Label}}</button>
  <div class="accordion-body">{{range .Children}}{{template "node" .}}{{end}}</div>
</div>
{{- end}}
{{- end}}`
