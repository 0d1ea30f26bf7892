package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/smallnest/tripgraph/log"
)

// StateGraph represents a state-based graph with compile-time type safety.
// The type parameter S is the state threaded through every node.
//
// Example usage:
//
//	g := graph.NewStateGraph[MyState]()
//	g.AddNode("step", "Do one step", func(ctx context.Context, state MyState) (MyState, error) {
//	    state.Count++
//	    return state, nil
//	})
//	g.AddEdge("step", graph.END)
//	g.SetEntryPoint("step")
type StateGraph[S any] struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]Node[S]

	// edges is a slice of Edge objects representing the connections between nodes
	edges []Edge

	// conditionalEdges maps a "From" node to a condition deriving the "To" node at runtime
	conditionalEdges map[string]func(ctx context.Context, state S) string

	// entryPoint is the name of the entry point node in the graph
	entryPoint string

	// stateMerger merges the states produced by one superstep back into a single state
	stateMerger StateMerger[S]
}

// Node represents a node in the graph.
type Node[S any] struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function takes the current state and returns the updated state.
	Function func(ctx context.Context, state S) (S, error)
}

// StateMerger merges the states returned by nodes that ran in the same
// superstep into a single state. Nodes that run together must write
// disjoint fields for the merge to be order-independent.
type StateMerger[S any] func(ctx context.Context, currentState S, newStates []S) (S, error)

// NewStateGraph creates a new instance of StateGraph.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:            make(map[string]Node[S]),
		conditionalEdges: make(map[string]func(ctx context.Context, state S) string),
	}
}

// AddNode adds a new node to the state graph with the given name, description and function.
func (g *StateGraph[S]) AddNode(name string, description string, fn func(ctx context.Context, state S) (S, error)) {
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes.
// A node may have several outgoing edges; all targets run in the next superstep.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// AddConditionalEdge adds a conditional edge where the target node is determined at runtime.
func (g *StateGraph[S]) AddConditionalEdge(from string, condition func(ctx context.Context, state S) string) {
	g.conditionalEdges[from] = condition
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetStateMerger sets the state merger used after parallel supersteps.
func (g *StateGraph[S]) SetStateMerger(merger StateMerger[S]) {
	g.stateMerger = merger
}

// StateRunnable represents a compiled state graph that can be invoked.
type StateRunnable[S any] struct {
	graph *StateGraph[S]
}

// Compile compiles the state graph and returns a StateRunnable instance.
func (g *StateGraph[S]) Compile() (*StateRunnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, g.entryPoint)
	}

	return &StateRunnable[S]{graph: g}, nil
}

// Invoke executes the compiled state graph with the given input state.
// Nodes scheduled for the same superstep run concurrently; their results
// are merged with the configured StateMerger before the next superstep.
func (r *StateRunnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	state := initialState
	currentNodes := []string{r.graph.entryPoint}

	for len(currentNodes) > 0 {
		// Filter out END
		activeNodes := make([]string, 0, len(currentNodes))
		for _, node := range currentNodes {
			if node != END {
				activeNodes = append(activeNodes, node)
			}
		}
		currentNodes = activeNodes

		if len(currentNodes) == 0 {
			break
		}

		log.Debug("executing superstep: %v", currentNodes)

		results, errs := r.executeNodes(ctx, currentNodes, state)
		for _, err := range errs {
			if err != nil {
				return state, err
			}
		}

		var err error
		state, err = r.mergeState(ctx, state, results)
		if err != nil {
			return state, err
		}

		currentNodes, err = r.determineNextNodes(ctx, currentNodes, state)
		if err != nil {
			return state, err
		}
	}

	return state, nil
}

// executeNodes runs every node of the current superstep concurrently and
// collects their results or errors by index.
func (r *StateRunnable[S]) executeNodes(ctx context.Context, nodes []string, state S) ([]S, []error) {
	results := make([]S, len(nodes))
	errs := make([]error, len(nodes))

	var group waitGroup
	for i, nodeName := range nodes {
		node, ok := r.graph.nodes[nodeName]
		if !ok {
			errs[i] = fmt.Errorf("%w: %s", ErrNodeNotFound, nodeName)
			continue
		}

		idx := i
		n := node
		name := nodeName

		SafeGo(&group, func() {
			res, err := n.Function(ctx, state)
			if err != nil {
				errs[idx] = fmt.Errorf("error in node %s: %w", name, err)
				return
			}
			results[idx] = res
		}, func(panicVal any) {
			errs[idx] = fmt.Errorf("panic in node %s: %v", name, panicVal)
		})
	}
	group.Wait()

	return results, errs
}

// mergeState merges the superstep results into the current state.
// Without a merger the last result wins, which is only correct for
// single-node supersteps.
func (r *StateRunnable[S]) mergeState(ctx context.Context, currentState S, results []S) (S, error) {
	if r.graph.stateMerger != nil {
		state, err := r.graph.stateMerger(ctx, currentState, results)
		if err != nil {
			return currentState, fmt.Errorf("state merge failed: %w", err)
		}
		return state, nil
	}

	if len(results) > 0 {
		return results[len(results)-1], nil
	}
	return currentState, nil
}

// determineNextNodes resolves the next superstep from conditional and static edges.
func (r *StateRunnable[S]) determineNextNodes(ctx context.Context, currentNodes []string, state S) ([]string, error) {
	nextNodesSet := make(map[string]bool)

	for _, nodeName := range currentNodes {
		// Conditional edges take precedence over static edges.
		if condition, ok := r.graph.conditionalEdges[nodeName]; ok {
			nextNode := condition(ctx, state)
			if nextNode == "" {
				return nil, fmt.Errorf("conditional edge returned empty next node from %s", nodeName)
			}
			nextNodesSet[nextNode] = true
			continue
		}

		foundNext := false
		for _, edge := range r.graph.edges {
			if edge.From == nodeName {
				nextNodesSet[edge.To] = true
				foundNext = true
				// No break, to allow fan-out (multiple edges from the same node)
			}
		}
		if !foundNext {
			return nil, fmt.Errorf("%w: %s", ErrNoOutgoingEdge, nodeName)
		}
	}

	nextNodesList := make([]string, 0, len(nextNodesSet))
	for node := range nextNodesSet {
		nextNodesList = append(nextNodesList, node)
	}
	// Deterministic superstep ordering keeps traces stable.
	sort.Strings(nextNodesList)

	return nextNodesList, nil
}
