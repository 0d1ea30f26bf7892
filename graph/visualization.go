package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Exporter provides methods to export graphs in different formats.
type Exporter[S any] struct {
	graph *StateGraph[S]
}

// NewExporter creates a new graph exporter for the given graph.
func NewExporter[S any](graph *StateGraph[S]) *Exporter[S] {
	return &Exporter[S]{graph: graph}
}

// MermaidOptions defines configuration for Mermaid diagram generation.
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string
}

// DrawMermaid generates a Mermaid diagram representation of the graph.
func (ge *Exporter[S]) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{Direction: "TD"})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options.
func (ge *Exporter[S]) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	if ge.graph.entryPoint != "" {
		sb.WriteString("    START([\"START\"])\n")
		sb.WriteString(fmt.Sprintf("    START --> %s\n", ge.graph.entryPoint))
	}

	// Sorted node names for consistent output
	nodeNames := make([]string, 0, len(ge.graph.nodes))
	for name := range ge.graph.nodes {
		nodeNames = append(nodeNames, name)
	}
	sort.Strings(nodeNames)

	for _, name := range nodeNames {
		node := ge.graph.nodes[name]
		label := node.Description
		if label == "" {
			label = name
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", name, label))
	}

	sb.WriteString("    END([\"END\"])\n")

	for _, edge := range ge.graph.edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", edge.From, edge.To))
	}

	condFroms := make([]string, 0, len(ge.graph.conditionalEdges))
	for from := range ge.graph.conditionalEdges {
		condFroms = append(condFroms, from)
	}
	sort.Strings(condFroms)
	for _, from := range condFroms {
		// Conditional targets are only known at runtime; render a decision marker.
		sb.WriteString(fmt.Sprintf("    %s_decision{\"?\"}\n", from))
		sb.WriteString(fmt.Sprintf("    %s -.-> %s_decision\n", from, from))
	}

	return sb.String()
}
