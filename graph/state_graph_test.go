package graph

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	Count   int
	Visited []string
}

func appendVisit(name string) func(context.Context, counterState) (counterState, error) {
	return func(_ context.Context, s counterState) (counterState, error) {
		s.Count++
		s.Visited = append(s.Visited, name)
		return s, nil
	}
}

func TestLinearExecution(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("a", "", appendVisit("a"))
	g.AddNode("b", "", appendVisit("b"))
	g.AddEdge("a", "b")
	g.AddEdge("b", END)
	g.SetEntryPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	out, err := runnable.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, []string{"a", "b"}, out.Visited)
}

func TestConditionalEdgeRouting(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("start", "", appendVisit("start"))
	g.AddNode("low", "", appendVisit("low"))
	g.AddNode("high", "", appendVisit("high"))
	g.AddConditionalEdge("start", func(_ context.Context, s counterState) string {
		if s.Count > 5 {
			return "high"
		}
		return "low"
	})
	g.AddEdge("low", END)
	g.AddEdge("high", END)
	g.SetEntryPoint("start")

	runnable, err := g.Compile()
	require.NoError(t, err)

	out, err := runnable.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "low"}, out.Visited)

	out, err = runnable.Invoke(context.Background(), counterState{Count: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "high"}, out.Visited)
}

func TestConditionalEdgeToEnd(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("only", "", appendVisit("only"))
	g.AddConditionalEdge("only", func(_ context.Context, _ counterState) string {
		return END
	})
	g.SetEntryPoint("only")

	runnable, err := g.Compile()
	require.NoError(t, err)

	out, err := runnable.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, out.Visited)
}

func TestConditionalEdgeEmptyTarget(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("only", "", appendVisit("only"))
	g.AddConditionalEdge("only", func(_ context.Context, _ counterState) string {
		return ""
	})
	g.SetEntryPoint("only")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), counterState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty next node")
}

type fanoutState struct {
	Fields map[string]string
}

func TestParallelFanOutWithMerger(t *testing.T) {
	var mu sync.Mutex
	var concurrentNodes []string

	writer := func(key string) func(context.Context, fanoutState) (fanoutState, error) {
		return func(_ context.Context, s fanoutState) (fanoutState, error) {
			mu.Lock()
			concurrentNodes = append(concurrentNodes, key)
			mu.Unlock()

			out := fanoutState{Fields: map[string]string{}}
			for k, v := range s.Fields {
				out.Fields[k] = v
			}
			out.Fields[key] = "done"
			return out, nil
		}
	}

	g := NewStateGraph[fanoutState]()
	g.AddNode("dispatch", "", func(_ context.Context, s fanoutState) (fanoutState, error) { return s, nil })
	g.AddNode("w1", "", writer("w1"))
	g.AddNode("w2", "", writer("w2"))
	g.AddNode("w3", "", writer("w3"))
	g.AddNode("join", "", func(_ context.Context, s fanoutState) (fanoutState, error) { return s, nil })

	g.SetEntryPoint("dispatch")
	for _, w := range []string{"w1", "w2", "w3"} {
		g.AddEdge("dispatch", w)
		g.AddEdge(w, "join")
	}
	g.AddEdge("join", END)

	g.SetStateMerger(func(_ context.Context, current fanoutState, updates []fanoutState) (fanoutState, error) {
		merged := fanoutState{Fields: map[string]string{}}
		for k, v := range current.Fields {
			merged.Fields[k] = v
		}
		for _, u := range updates {
			for k, v := range u.Fields {
				merged.Fields[k] = v
			}
		}
		return merged, nil
	})

	runnable, err := g.Compile()
	require.NoError(t, err)

	out, err := runnable.Invoke(context.Background(), fanoutState{Fields: map[string]string{"seed": "x"}})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"seed": "x", "w1": "done", "w2": "done", "w3": "done",
	}, out.Fields)

	// All three writers ran in the same superstep.
	sort.Strings(concurrentNodes)
	assert.Equal(t, []string{"w1", "w2", "w3"}, concurrentNodes)
}

func TestFanInDeduplicatesJoinNode(t *testing.T) {
	var joins int
	g := NewStateGraph[counterState]()
	g.AddNode("dispatch", "", appendVisit("dispatch"))
	g.AddNode("a", "", appendVisit("a"))
	g.AddNode("b", "", appendVisit("b"))
	g.AddNode("join", "", func(_ context.Context, s counterState) (counterState, error) {
		joins++
		return s, nil
	})
	g.SetEntryPoint("dispatch")
	g.AddEdge("dispatch", "a")
	g.AddEdge("dispatch", "b")
	g.AddEdge("a", "join")
	g.AddEdge("b", "join")
	g.AddEdge("join", END)
	g.SetStateMerger(func(_ context.Context, current counterState, updates []counterState) (counterState, error) {
		if len(updates) > 0 {
			return updates[0], nil
		}
		return current, nil
	})

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, 1, joins)
}

func TestNodeErrorAborts(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("bad", "", func(_ context.Context, s counterState) (counterState, error) {
		return s, errors.New("boom")
	})
	g.AddEdge("bad", END)
	g.SetEntryPoint("bad")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), counterState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error in node bad")
	assert.Contains(t, err.Error(), "boom")
}

func TestNodePanicIsRecovered(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("panicky", "", func(_ context.Context, _ counterState) (counterState, error) {
		panic("oh no")
	})
	g.AddEdge("panicky", END)
	g.SetEntryPoint("panicky")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), counterState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in node panicky")
}

func TestCompileValidation(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("a", "", appendVisit("a"))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrEntryPointNotSet)

	g.SetEntryPoint("missing")
	_, err = g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)

	g.SetEntryPoint("a")
	_, err = g.Compile()
	assert.NoError(t, err)
}

func TestMissingOutgoingEdge(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("dead", "", appendVisit("dead"))
	g.SetEntryPoint("dead")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), counterState{})
	assert.ErrorIs(t, err, ErrNoOutgoingEdge)
}

func TestLastWinsWithoutMerger(t *testing.T) {
	g := NewStateGraph[counterState]()
	g.AddNode("a", "", appendVisit("a"))
	g.AddNode("b", "", appendVisit("b"))
	g.AddEdge("a", "b")
	g.AddEdge("b", END)
	g.SetEntryPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	// Single-node supersteps are exactly the case last-wins is safe for.
	out, err := runnable.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.True(t, strings.Join(out.Visited, ",") == "a,b")
}
