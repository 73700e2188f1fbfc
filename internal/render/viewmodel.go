// Package render maps an analysis document to the tabbed report shown by the
// console. Rendering happens in two stages: pure view-model builders that
// substitute a documented default for every missing field, and an
// html/template commit that contextually escapes all backend-supplied text.
package render

import "github.com/bryanwahyu/arq-console/internal/domain/analysis"

// NodeKind selects how a node is committed to markup.
type NodeKind string

const (
	KindHeading   NodeKind = "heading"
	KindParagraph NodeKind = "paragraph"
	KindAlert     NodeKind = "alert"
	KindStats     NodeKind = "stats"
	KindMeters    NodeKind = "meters"
	KindBullets   NodeKind = "bullets"
	KindKV        NodeKind = "kv"
	KindCards     NodeKind = "cards"
	KindAccordion NodeKind = "accordion"
)

// Node is one typed element of a pane's content tree.
type Node struct {
	Kind     NodeKind
	Label    string
	Text     string
	Items    []string
	Pairs    []analysis.Pair
	Stats    []Stat
	Meters   []Meter
	Cards    []Card
	Children []Node
}

// Stat is a labeled headline value.
type Stat struct {
	Label string
	Value string
}

// Meter is a labeled percentage bar.
type Meter struct {
	Label   string
	Percent string
}

// Card is one entry of a card grid (driver, proof, objection, phase, agent).
type Card struct {
	Title    string
	Subtitle string
	Body     []Node
}

// Tab is one selectable pane of the report.
type Tab struct {
	ID     string
	Label  string
	Active bool
	Nodes  []Node
}

// Report is the full view-model committed by the template.
type Report struct {
	Tabs []Tab
}

func heading(text string) Node { return Node{Kind: KindHeading, Text: text} }
func para(label, text string) Node {
	return Node{Kind: KindParagraph, Label: label, Text: text}
}
func alert(severity, text string) Node {
	return Node{Kind: KindAlert, Label: severity, Text: text}
}
func bullets(label string, items []string) Node {
	return Node{Kind: KindBullets, Label: label, Items: items}
}
func kv(label string, pairs []analysis.Pair) Node {
	return Node{Kind: KindKV, Label: label, Pairs: pairs}
}
func accordion(label string, children []Node) Node {
	return Node{Kind: KindAccordion, Label: label, Children: children}
}

// BuildReport produces the eight fixed-order tabs. Exactly the first tab is
// active. Safe on any document, including an empty one.
func BuildReport(doc analysis.Document) Report {
	tabs := []Tab{
		{ID: "visao-geral", Label: "Visão Geral", Nodes: buildOverview(doc)},
		{ID: "arqueologia", Label: "Análise Arqueológica", Nodes: buildArchaeology(doc)},
		{ID: "avatar", Label: "Avatar Ultra-Detalhado", Nodes: buildAvatar(doc)},
		{ID: "drivers", Label: "Arsenal de Drivers Mentais", Nodes: buildDrivers(doc)},
		{ID: "provas", Label: "Arsenal de PROVIs", Nodes: buildProofs(doc)},
		{ID: "anti-objecao", Label: "Sistema Anti-Objeção", Nodes: buildObjections(doc)},
		{ID: "pre-pitch", Label: "Pré-Pitch Invisível", Nodes: buildPrePitch(doc)},
		{ID: "metricas", Label: "Métricas Forenses", Nodes: buildMetrics(doc)},
	}
	tabs[0].Active = true
	return Report{Tabs: tabs}
}

// scalarOrPairs renders a field that should be scalar but may arrive as an
// object: the object case expands one level of key/value pairs.
func scalarOrPairs(doc analysis.Document, key, label string) Node {
	if doc.IsObject(key) {
		return kv(label, doc.Pairs(key))
	}
	return para(label, doc.Str(key))
}
