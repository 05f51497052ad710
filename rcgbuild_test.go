package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rcgFixtureSrc = `package fixture

func leaf() int { return 1 }

func helper() int {
	return leaf()
}

func Run() int {
	return helper()
}
`

func TestBuildReverseCallGraph_DirectCallEdges(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": rcgFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	g := BuildReverseCallGraph(tu, table)

	leaf := declByName(table, "fixture.leaf")
	helper := declByName(table, "fixture.helper")
	require.NotNil(t, leaf)
	require.NotNil(t, helper)

	leafNode := g.GetNode(leaf.Id)
	require.NotNil(t, leafNode)
	assert.Contains(t, leafNode.Callers(), helper.Id, "leaf must list helper as a caller")
}

func TestBuildReverseCallGraph_RootEdgeForExportedFunction(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": rcgFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	g := BuildReverseCallGraph(tu, table)

	run := declByName(table, "fixture.Run")
	require.NotNil(t, run)
	assert.Contains(t, g.Root().Callers(), run.Id, "exported Run must be wired to the sentinel root")

	leaf := declByName(table, "fixture.leaf")
	require.NotNil(t, leaf)
	assert.NotContains(t, g.Root().Callers(), leaf.Id, "unexported leaf has no external linkage")
}

func TestBuildReverseCallGraph_ReachesEveryNodeFromRoot(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": rcgFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	g := BuildReverseCallGraph(tu, table)

	var visited []DeclId
	g.ReversePostorder(func(id DeclId) { visited = append(visited, id) })

	leaf := declByName(table, "fixture.leaf")
	helper := declByName(table, "fixture.helper")
	run := declByName(table, "fixture.Run")
	for _, d := range []*DeclRecord{leaf, helper, run} {
		require.NotNil(t, d)
		assert.Contains(t, visited, d.Id)
	}
}

const rcgInterfaceFixtureSrc = `package fixture

type Greeter interface {
	Greet() string
}

type English struct{}

func (English) Greet() string { return "hello" }

func Run(g Greeter) string {
	return g.Greet()
}
`

// TestBuildReverseCallGraph_InterfaceCallContributesNoDirectEdge confirms
// that a call through an interface-typed receiver produces no RCG edge —
// that classification belongs to the AST visitor's virtual-dispatch path
// (visitor.go), not to direct-call edge collection.
func TestBuildReverseCallGraph_InterfaceCallContributesNoDirectEdge(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": rcgInterfaceFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	g := BuildReverseCallGraph(tu, table)

	greet := declByName(table, "fixture.English.Greet")
	require.NotNil(t, greet)
	node := g.GetNode(greet.Id)
	if node != nil {
		assert.Empty(t, node.Callers(), "interface dispatch must not add a direct-call RCG edge")
	}
}
