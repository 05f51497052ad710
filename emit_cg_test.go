package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitCG_ListsCallersUnderEachNode(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": rcgFixtureSrc}, "main.go")
	table := CollectDecls(tu)
	g := BuildReverseCallGraph(tu, table)

	var buf bytes.Buffer
	require.NoError(t, EmitCG(&buf, g, table, DefaultOptions()))

	leaf := declByName(table, "fixture.leaf")
	helper := declByName(table, "fixture.helper")
	require.NotNil(t, leaf)
	require.NotNil(t, helper)

	out := buf.String()
	assert.Contains(t, out, leaf.Name)
	// leaf's block must list helper as a caller.
	idx := strings.Index(out, leaf.Name)
	require.GreaterOrEqual(t, idx, 0)
	block := out[idx:]
	end := strings.Index(block, "]")
	require.GreaterOrEqual(t, end, 0)
	assert.Contains(t, block[:end], helper.Name)
}

func TestEmitCG_DoesNotMutateCallerOrder(t *testing.T) {
	g := NewReverseCallGraph()
	table := NewDeclTable()
	for _, id := range []DeclId{"z", "a", "m"} {
		d := declFor(id)
		table.Insert(d)
		g.GetOrInsert(d)
	}
	// Insert callers out of order; EmitCG must sort its own copy, not the
	// node's live slice (a prior bug sorted node.Callers() in place).
	g.AddEdge("z", "m")
	g.AddEdge("z", "a")

	var buf bytes.Buffer
	require.NoError(t, EmitCG(&buf, g, table, DefaultOptions()))

	node := g.GetNode("z")
	assert.Equal(t, []DeclId{"m", "a"}, node.Callers(), "EmitCG must not reorder the graph's own caller slice")
}
