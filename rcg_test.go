package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declFor(id DeclId) *DeclRecord {
	return &DeclRecord{Id: id, Kind: KindFunction, Name: string(id)}
}

func TestRCGNode_AddCaller_Dedups(t *testing.T) {
	n := newRCGNode(declFor("f"))
	n.addCaller("caller1")
	n.addCaller("caller2")
	n.addCaller("caller1")
	assert.Equal(t, []DeclId{"caller1", "caller2"}, n.Callers())
}

func TestReverseCallGraph_GetOrInsert_ReturnsSameNode(t *testing.T) {
	g := NewReverseCallGraph()
	a := g.GetOrInsert(declFor("f"))
	b := g.GetOrInsert(declFor("f"))
	assert.Same(t, a, b)
	assert.Equal(t, 1, g.Size())
}

func TestReverseCallGraph_AddEdge_CalleeToCaller(t *testing.T) {
	g := NewReverseCallGraph()
	g.GetOrInsert(declFor("callee"))
	g.GetOrInsert(declFor("caller"))
	g.AddEdge("callee", "caller")

	node := g.GetNode("callee")
	require.NotNil(t, node)
	assert.Contains(t, node.Callers(), DeclId("caller"))
}

func TestReverseCallGraph_AddRootEdge_ReachesExternalFunction(t *testing.T) {
	g := NewReverseCallGraph()
	g.GetOrInsert(declFor("Exported"))
	g.AddRootEdge("Exported")

	var visited []DeclId
	g.ReversePostorder(func(id DeclId) { visited = append(visited, id) })
	assert.Contains(t, visited, DeclId("Exported"))
}

// TestReverseCallGraph_ReversePostorder_CalleesBeforeCallers wires main to
// root and the call chain main -> helper -> leaf. RCG edges point callee ->
// caller and the traversal follows them, so reverse postorder is a
// topological order along those edges: leaf ahead of helper ahead of main.
func TestReverseCallGraph_ReversePostorder_CalleesBeforeCallers(t *testing.T) {
	g := NewReverseCallGraph()
	for _, id := range []DeclId{"main", "helper", "leaf"} {
		g.GetOrInsert(declFor(id))
	}
	g.AddRootEdge("main")
	g.AddEdge("helper", "main") // helper is called by main
	g.AddEdge("leaf", "helper") // leaf is called by helper

	var order []DeclId
	g.ReversePostorder(func(id DeclId) { order = append(order, id) })

	pos := make(map[DeclId]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos["leaf"], pos["helper"])
	assert.Less(t, pos["helper"], pos["main"])
}

func TestReverseCallGraph_ReversePostorder_VisitsUnreachableNodesToo(t *testing.T) {
	g := NewReverseCallGraph()
	g.GetOrInsert(declFor("orphan")) // never wired to root

	var visited []DeclId
	g.ReversePostorder(func(id DeclId) { visited = append(visited, id) })
	assert.Contains(t, visited, DeclId("orphan"))
}

func TestReverseCallGraph_Size_ExcludesRootSentinel(t *testing.T) {
	g := NewReverseCallGraph()
	assert.Equal(t, 0, g.Size())
	g.GetOrInsert(declFor("f"))
	assert.Equal(t, 1, g.Size())
}

func TestSortDeclIds(t *testing.T) {
	ids := []DeclId{"c", "a", "b"}
	sortDeclIds(ids)
	assert.Equal(t, []DeclId{"a", "b", "c"}, ids)
}
