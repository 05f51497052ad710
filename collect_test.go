package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collectFixtureSrc = `package fixture

type Counter struct {
	Value int
}

func (c *Counter) Increment() {
	c.Value++
}

const MaxRetries = 3

var GlobalName = "fixture"

func Run() {
	var c Counter
	c.Increment()
}
`

func declByName(table *DeclTable, name string) *DeclRecord {
	for _, d := range table.All() {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func TestCollectDecls_FunctionAndMethod(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": collectFixtureSrc}, "main.go")
	table := CollectDecls(tu)

	run := declByName(table, "fixture.Run")
	require.NotNil(t, run, "expected fixture.Run to be collected")
	assert.Equal(t, KindFunction, run.Kind)
	assert.True(t, run.IsDefinition)

	inc := declByName(table, "fixture.Counter.Increment")
	require.NotNil(t, inc, "expected fixture.Counter.Increment to be collected")
	assert.Equal(t, KindMethod, inc.Kind)
}

func TestCollectDecls_RecordAndField(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": collectFixtureSrc}, "main.go")
	table := CollectDecls(tu)

	counter := declByName(table, "fixture.Counter")
	require.NotNil(t, counter)
	assert.Equal(t, KindRecord, counter.Kind)

	field := declByName(table, "fixture.Counter.Value")
	require.NotNil(t, field)
	assert.Equal(t, KindField, field.Kind)
}

func TestCollectDecls_ConstAndVar(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": collectFixtureSrc}, "main.go")
	table := CollectDecls(tu)

	maxRetries := declByName(table, "fixture.MaxRetries")
	require.NotNil(t, maxRetries)
	assert.Equal(t, KindEnumConstant, maxRetries.Kind)
	assert.True(t, maxRetries.IsGlobalConstant)

	globalName := declByName(table, "fixture.GlobalName")
	require.NotNil(t, globalName)
	assert.Equal(t, KindVar, globalName.Kind)
	assert.False(t, globalName.IsGlobalConstant)
}

func TestCollectDecls_CanonicalizesRepeatedInsert(t *testing.T) {
	tu := loadFixtureTU(t, map[string]string{"main.go": collectFixtureSrc}, "main.go")
	table := CollectDecls(tu)

	run := declByName(table, "fixture.Run")
	require.NotNil(t, run)
	// Re-inserting the same object must return the existing record, not a
	// second one — spec.md §8 invariant 1, "canonicalization".
	dup := &DeclRecord{Id: "bogus", Object: run.Object}
	got := table.Insert(dup)
	assert.Same(t, run, got)
}
