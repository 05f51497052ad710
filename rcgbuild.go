package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"
)

// BuildReverseCallGraph implements spec.md §4.2: visit each function/method
// definition with a body, walk it collecting direct-call edges, and add a
// root edge for every externally-linked function. The bodies of generic
// (type-parameterized) function declarations are not walked, so they
// contribute no caller edges — the Go analog of "skip function templates,
// only instantiations contribute" (SPEC_FULL.md §3.2). A generic declaration
// can still become a node, as the callee of a direct call or as an
// externally-linked definition wired to root.
func BuildReverseCallGraph(tu *TranslationUnit, table *DeclTable) *ReverseCallGraph {
	g := NewReverseCallGraph()

	for _, file := range tu.Pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			if isGenericFuncDecl(fd) {
				continue
			}
			obj, _ := tu.Pkg.TypesInfo.Defs[fd.Name].(*types.Func)
			if obj == nil {
				continue
			}
			callerDecl := table.Lookup(obj)
			if callerDecl == nil {
				continue
			}
			g.GetOrInsert(callerDecl)
			collectDirectCallEdges(tu, table, g, fd.Body, callerDecl.Id)
		}
	}

	for _, decl := range table.All() {
		if decl.Kind != KindFunction && decl.Kind != KindMethod {
			continue
		}
		if !decl.IsDefinition {
			continue
		}
		name := decl.Object.Name()
		if isExternalLinkage(name) {
			g.GetOrInsert(decl)
			g.AddRootEdge(decl.Id)
		}
	}

	return g
}

func isGenericFuncDecl(fd *ast.FuncDecl) bool {
	if fd.Type.TypeParams != nil && len(fd.Type.TypeParams.List) > 0 {
		return true
	}
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return false
	}
	recvType := fd.Recv.List[0].Type
	if star, ok := recvType.(*ast.StarExpr); ok {
		recvType = star.X
	}
	switch recvType.(type) {
	case *ast.IndexExpr, *ast.IndexListExpr:
		return true
	}
	return false
}

// collectDirectCallEdges walks body for CallExpr nodes whose callee resolves
// to a direct function/concrete-method declaration present in table, adding
// a callee -> caller edge for each (spec.md §4.2). Calls through interface
// methods or func-typed values are left for the AST visitor's indirect-call
// classification (visitor.go); they contribute no RCG edge.
func collectDirectCallEdges(tu *TranslationUnit, table *DeclTable, g *ReverseCallGraph, node ast.Node, callerId DeclId) {
	ast.Inspect(node, func(n ast.Node) bool {
		ce, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		calleeObj := resolveDirectCallee(tu, ce)
		if calleeObj == nil {
			return true
		}
		calleeDecl := table.Lookup(calleeObj)
		if calleeDecl == nil {
			return true
		}
		g.GetOrInsert(calleeDecl)
		g.AddEdge(calleeDecl.Id, callerId)
		return true
	})
}

// resolveDirectCallee returns the *types.Func that ce calls directly, using
// typeutil.Callee to look through parens and implicit conversions the same
// way the visitor's classification does. A call through an interface method
// is not a direct callee: it contributes no RCG edge, left for the AST
// visitor's virtual-dispatch classification (visitor.go) instead.
func resolveDirectCallee(tu *TranslationUnit, ce *ast.CallExpr) types.Object {
	fn, ok := typeutil.Callee(tu.Pkg.TypesInfo, ce).(*types.Func)
	if !ok {
		return nil
	}
	if sel, ok := stripParens(ce.Fun).(*ast.SelectorExpr); ok {
		if s, ok := tu.Pkg.TypesInfo.Selections[sel]; ok && isInterfaceReceiver(s) {
			return nil
		}
	}
	return fn
}
