package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclIdForFunc_MethodVsPlain(t *testing.T) {
	plain := declIdForFunc("example.com/pkg", "", "DoThing", "a.go", 10, 1)
	method := declIdForFunc("example.com/pkg", "Server", "DoThing", "a.go", 10, 1)
	assert.Equal(t, DeclId("example.com/pkg::DoThing@a.go:10:1"), plain)
	assert.Equal(t, DeclId("example.com/pkg::Server.DoThing@a.go:10:1"), method)
	assert.NotEqual(t, plain, method)
}

func TestDeclIdForObject_StableAcrossCalls(t *testing.T) {
	a := declIdForObject("example.com/pkg", "Count", "a.go", 3, 5)
	b := declIdForObject("example.com/pkg", "Count", "a.go", 3, 5)
	assert.Equal(t, a, b, "same inputs must canonicalize to the same DeclId")
}

func TestExternalStubId_NamesByPackageAndFunc(t *testing.T) {
	id := externalStubId("fmt", "Println")
	assert.Equal(t, DeclId("ext::fmt.Println"), id)
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"a.go":            "a.go",
		"pkg/a.go":        "a.go",
		"/abs/path/b.go":  "b.go",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, baseName(in), "baseName(%q)", in)
	}
}
