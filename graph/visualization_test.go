package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawMermaid(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("first", "The first step", appendVisit("first"))
	g.AddNode("second", "", appendVisit("second"))
	g.AddEdge("first", "second")
	g.AddEdge("second", END)
	g.SetEntryPoint("first")

	out := NewExporter(g).DrawMermaid()

	assert.Contains(t, out, "flowchart TD")
	assert.Contains(t, out, `START --> first`)
	assert.Contains(t, out, `first["The first step"]`)
	// Nodes without a description fall back to their name.
	assert.Contains(t, out, `second["second"]`)
	assert.Contains(t, out, "first --> second")
	assert.Contains(t, out, `END(["END"])`)
}

func TestDrawMermaidConditionalMarker(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("router", "", appendVisit("router"))
	g.AddNode("a", "", appendVisit("a"))
	g.AddConditionalEdge("router", func(_ context.Context, _ counterState) string { return "a" })
	g.AddEdge("a", END)
	g.SetEntryPoint("router")

	out := NewExporter(g).DrawMermaid()

	assert.Contains(t, out, `router_decision{"?"}`)
	assert.Contains(t, out, "router -.-> router_decision")
}

func TestDrawMermaidWithOptions(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("only", "", appendVisit("only"))
	g.AddEdge("only", END)
	g.SetEntryPoint("only")

	out := NewExporter(g).DrawMermaidWithOptions(MermaidOptions{Direction: "LR"})
	assert.Contains(t, out, "flowchart LR")

	out = NewExporter(g).DrawMermaidWithOptions(MermaidOptions{})
	assert.Contains(t, out, "flowchart TD")
}
