package main

import "fmt"

// DeclId is a stable identifier for a declaration. Two ast.Ident (or
// ast.SelectorExpr) occurrences that refer to the same entity resolve, via
// go/types, to the same *types.Object; DeclId is a printable wrapper around
// that identity so every analysis set can key on a comparable string instead
// of carrying raw *types.Object pointers across phases.
type DeclId string

// declIdForFunc builds the DeclId for a function or method declaration.
// recv is "" for a plain function.
func declIdForFunc(pkgPath, recv, name, file string, line, col int) DeclId {
	if recv != "" {
		return DeclId(fmt.Sprintf("%s::%s.%s@%s:%d:%d", pkgPath, recv, name, file, line, col))
	}
	return DeclId(fmt.Sprintf("%s::%s@%s:%d:%d", pkgPath, name, file, line, col))
}

// declIdForObject builds the DeclId for any other named declaration: a var,
// const, field, typedef, or enum constant.
func declIdForObject(pkgPath, name, file string, line, col int) DeclId {
	return DeclId(fmt.Sprintf("%s::%s@%s:%d:%d", pkgPath, name, file, line, col))
}

// rootDeclId is the sentinel RCG root with edges to every externally
// reachable function (spec.md §3, "ReverseCallGraph").
const rootDeclId DeclId = "::root::"

// externalStubId names a stub node for a callee outside the analyzed
// package (no known DeclRecord, e.g. a stdlib or other-module function).
func externalStubId(pkgPath, name string) DeclId {
	return DeclId(fmt.Sprintf("ext::%s.%s", pkgPath, name))
}

// baseName extracts the filename without directory from a path.
func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
