package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"
)

// FPSignature is a structural function-type fingerprint: return types,
// parameter types, and variadic flag, ignoring parameter names — the Go
// analog of spec.md §4.3's function-pointer compatibility test ("same
// return type, same arity, same parameter types, same variadic flag; a
// no-proto function type is never compatible"). Go has no no-proto function
// type, so that clause has no translation; everything else carries over.
type FPSignature struct {
	sig *types.Signature
}

func newFPSignature(sig *types.Signature) FPSignature { return FPSignature{sig: sig} }

func (a FPSignature) compatible(b FPSignature) bool {
	if a.sig == nil || b.sig == nil {
		return false
	}
	return types.Identical(a.sig, b.sig)
}

// VisitorState accumulates the mutable analysis sets built by the AST
// visitor pass (spec.md §3 "Analysis sets", §4.3). One VisitorState is
// built per translation unit and never reused.
type VisitorState struct {
	tu    *TranslationUnit
	table *DeclTable
	dlm   *DiffLineManager
	rcg   *ReverseCallGraph

	affectedVFs map[DeclId]struct{}

	GlobalConstantSet map[DeclId]struct{}
	TaintDecls        map[DeclId]struct{}
	FunctionsChanged  map[DeclId]struct{}
	AN                map[DeclId]struct{}
	TypesMayUsedByFP  []FPSignature

	AffectedIndirectCallByFP int
	AffectedIndirectCallByVF int

	functionStack []DeclId

	// constInit maps a global-constant DeclId to its initializer
	// expression, gathered once up front so taint propagation can walk it
	// without re-scanning the file.
	constInit map[DeclId]ast.Expr
}

// NewVisitorState builds the visitor with FunctionsChanged pre-seeded from
// directly-changed function definitions (spec.md §9, two-pass order step 2:
// "seed FunctionsChanged" happens before the visitor pass itself runs; here
// it is folded into construction since nothing else reads FunctionsChanged
// before the visitor does).
func NewVisitorState(tu *TranslationUnit, table *DeclTable, dlm *DiffLineManager, rcg *ReverseCallGraph, affectedVFs map[DeclId]struct{}) *VisitorState {
	v := &VisitorState{
		tu:                tu,
		table:             table,
		dlm:               dlm,
		rcg:               rcg,
		affectedVFs:       affectedVFs,
		GlobalConstantSet: make(map[DeclId]struct{}),
		TaintDecls:        make(map[DeclId]struct{}),
		FunctionsChanged:  make(map[DeclId]struct{}),
		AN:                make(map[DeclId]struct{}),
		constInit:         make(map[DeclId]ast.Expr),
	}
	v.seedFunctionsChanged()
	return v
}

// seedFunctionsChanged scans the RCG in reverse postorder for
// directly-changed function definitions (spec.md §4.5 precursor, §9 step 2).
func (v *VisitorState) seedFunctionsChanged() {
	v.rcg.ReversePostorder(func(id DeclId) {
		decl := v.table.ById(id)
		if decl == nil || decl.Object == nil {
			return
		}
		if decl.Kind != KindFunction && decl.Kind != KindMethod {
			return
		}
		if !decl.IsDefinition {
			return
		}
		if v.dlm.IsChangedDecl(decl) {
			v.FunctionsChanged[id] = struct{}{}
		}
	})
}

// Run executes the full AST visitor pass over file (spec.md §4.3): global
// constant taint propagation, affected-node tracking, then the per-function
// body walk that classifies call sites and extends FunctionsChanged.
func (v *VisitorState) Run(file *ast.File) {
	v.collectConstInitializers(file)
	v.propagateConstTaint()
	v.trackAffectedNodes()
	v.walkFunctionBodies(file)
	v.unionFunctionsChangedIntoAN()
}

// unionFunctionsChangedIntoAN folds the definition of every changed
// function/method into AN (spec.md §3: AN is the union of TaintDecls and the
// definitions of FunctionsChanged). trackAffectedNodes and walkFunctionBodies
// only add a function to AN when it was already changed before its own body
// walk began; a function added to FunctionsChanged during that walk (taint
// propagated into it, or reached through a virtual/function-pointer call)
// needs this separate pass to land in AN at all.
func (v *VisitorState) unionFunctionsChangedIntoAN() {
	for id := range v.FunctionsChanged {
		v.AN[id] = struct{}{}
	}
}

// collectConstInitializers records, for every global constant DeclRecord,
// its initializer expression (ValueSpec.Values[i], matched positionally;
// a const group may omit repeated values via implicit iota-carry, in which
// case there is no local initializer to walk and the decl is left absent
// from constInit).
func (v *VisitorState) collectConstInitializers(file *ast.File) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok.String() != "const" {
			continue
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if i >= len(vs.Values) {
					continue
				}
				obj := v.tu.Pkg.TypesInfo.Defs[name]
				d := v.table.Lookup(obj)
				if d == nil {
					continue
				}
				v.constInit[d.Id] = vs.Values[i]
			}
		}
	}
}

// propagateConstTaint implements spec.md §4.3 step 1: a changed global
// constant enters GlobalConstantSet/TaintDecls directly; an unchanged one
// enters both sets if its initializer references a decl already in
// GlobalConstantSet. Propagation runs to a fixed point since a constant may
// reference one declared later in the file.
func (v *VisitorState) propagateConstTaint() {
	for _, decl := range v.table.All() {
		if !decl.IsGlobalConstant {
			continue
		}
		if v.dlm.IsChangedDecl(decl) {
			v.GlobalConstantSet[decl.Id] = struct{}{}
			v.TaintDecls[decl.Id] = struct{}{}
		}
	}

	for changed := true; changed; {
		changed = false
		for _, decl := range v.table.All() {
			if !decl.IsGlobalConstant {
				continue
			}
			if _, already := v.GlobalConstantSet[decl.Id]; already {
				continue
			}
			init, ok := v.constInit[decl.Id]
			if !ok {
				continue
			}
			refs := v.collectInitializerRefs(init)
			for _, ref := range refs {
				if _, tainted := v.GlobalConstantSet[ref]; tainted {
					v.GlobalConstantSet[decl.Id] = struct{}{}
					v.TaintDecls[decl.Id] = struct{}{}
					changed = true
					break
				}
			}
		}
	}
}

// collectInitializerRefs walks expr collecting every DeclId it directly
// references, refusing to descend into composite-literal element values of
// struct/array/slice/map type — the Go analog of the original tool's
// DeclRefFinder, which stops at CXXConstructExpr boundaries (spec.md §4.3,
// SPEC_FULL.md §4). It still reports references appearing at the composite
// literal's own top level (its keys, and any element whose own type is not
// one of those aggregates); the literal's type expression is not walked.
func (v *VisitorState) collectInitializerRefs(expr ast.Expr) []DeclId {
	var out []DeclId
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case nil:
			return
		case *ast.Ident:
			if obj := v.tu.Pkg.TypesInfo.Uses[n]; obj != nil {
				if d := v.table.Lookup(obj); d != nil {
					out = append(out, d.Id)
				}
			}
		case *ast.SelectorExpr:
			if sel, ok := v.tu.Pkg.TypesInfo.Selections[n]; ok {
				if d := v.table.Lookup(sel.Obj()); d != nil {
					out = append(out, d.Id)
				}
			} else if obj := v.tu.Pkg.TypesInfo.Uses[n.Sel]; obj != nil {
				if d := v.table.Lookup(obj); d != nil {
					out = append(out, d.Id)
				}
			}
			walk(n.X)
		case *ast.ParenExpr:
			walk(n.X)
		case *ast.UnaryExpr:
			walk(n.X)
		case *ast.BinaryExpr:
			walk(n.X)
			walk(n.Y)
		case *ast.CallExpr:
			// A call in a const initializer is only legal for built-in
			// conversions/const functions; walk the callee and args at this
			// level but do not chase into call semantics further.
			walk(n.Fun)
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.CompositeLit:
			// Constructor-invocation analog: do not descend into elements
			// whose own type is struct/array/slice/map (arbitrarily deep nested
			// constructors); still visit scalar-typed elements and keys.
			for _, elt := range n.Elts {
				if kv, ok := elt.(*ast.KeyValueExpr); ok {
					walk(kv.Key)
					if !isAggregateTyped(v.tu, kv.Value) {
						walk(kv.Value)
					}
					continue
				}
				if !isAggregateTyped(v.tu, elt) {
					walk(elt)
				}
			}
		case *ast.IndexExpr:
			walk(n.X)
			walk(n.Index)
		}
	}
	walk(expr)
	return out
}

func isAggregateTyped(tu *TranslationUnit, e ast.Expr) bool {
	t := tu.Pkg.TypesInfo.TypeOf(e)
	if t == nil {
		return false
	}
	switch t.Underlying().(type) {
	case *types.Struct, *types.Array, *types.Map, *types.Slice:
		return true
	}
	return false
}

// trackAffectedNodes implements spec.md §4.3 step 3: for every Typedef,
// Field, Var, or Function/Method decl, if changed and not already recorded,
// insert it into AN (Affected Nodes). Redeclarations collapse onto one
// DeclRecord already (decl.go's DeclTable), so "insert all redeclarations"
// reduces to inserting the one canonical record.
func (v *VisitorState) trackAffectedNodes() {
	for _, decl := range v.table.All() {
		switch decl.Kind {
		case KindTypedef, KindField, KindVar, KindFunction, KindMethod:
		default:
			continue
		}
		if _, ok := v.AN[decl.Id]; ok {
			continue
		}
		if v.dlm.IsChangedDecl(decl) {
			v.AN[decl.Id] = struct{}{}
		}
	}
}

// walkFunctionBodies is the per-declaration traversal hook (spec.md §4.3):
// for each function/method definition with an RCG node, either mark it
// changed without descending (already changed, conservative treatment of
// its whole body) or push it and walk its body for taint/indirect-call
// classification.
func (v *VisitorState) walkFunctionBodies(file *ast.File) {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		obj, _ := v.tu.Pkg.TypesInfo.Defs[fd.Name].(*types.Func)
		if obj == nil {
			continue
		}
		d := v.table.Lookup(obj)
		if d == nil || v.rcg.GetNode(d.Id) == nil {
			continue
		}

		if _, already := v.FunctionsChanged[d.Id]; already {
			v.AN[d.Id] = struct{}{}
			continue
		}

		v.functionStack = append(v.functionStack, d.Id)
		v.walkStmt(fd.Body)
		v.functionStack = v.functionStack[:len(v.functionStack)-1]
	}
}

func (v *VisitorState) currentFunction() (DeclId, bool) {
	if len(v.functionStack) == 0 {
		return "", false
	}
	return v.functionStack[len(v.functionStack)-1], true
}

func (v *VisitorState) markChanged(fn DeclId) {
	if _, ok := v.FunctionsChanged[fn]; ok {
		return
	}
	v.FunctionsChanged[fn] = struct{}{}
}

// walkStmt and walkExpr implement the per-expression hooks from spec.md
// §4.3, active only while functionStack is non-empty. isCallee marks an
// expression appearing in the Fun position of an enclosing CallExpr, which
// exempts it from the "address taken" function-pointer rule.
func (v *VisitorState) walkStmt(s ast.Stmt) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case *ast.BlockStmt:
		for _, st := range n.List {
			v.walkStmt(st)
		}
	case *ast.ExprStmt:
		v.walkExpr(n.X, false)
	case *ast.AssignStmt:
		for _, e := range n.Lhs {
			v.walkExpr(e, false)
		}
		for _, e := range n.Rhs {
			v.walkExpr(e, false)
		}
	case *ast.DeclStmt:
		if gd, ok := n.Decl.(*ast.GenDecl); ok {
			for _, spec := range gd.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					for _, val := range vs.Values {
						v.walkExpr(val, false)
					}
				}
			}
		}
	case *ast.ReturnStmt:
		for _, e := range n.Results {
			v.walkExpr(e, false)
		}
	case *ast.IfStmt:
		v.walkStmt(n.Init)
		v.walkExpr(n.Cond, false)
		v.walkStmt(n.Body)
		v.walkStmt(n.Else)
	case *ast.ForStmt:
		v.walkStmt(n.Init)
		v.walkExpr(n.Cond, false)
		v.walkStmt(n.Post)
		v.walkStmt(n.Body)
	case *ast.RangeStmt:
		v.walkExpr(n.X, false)
		v.walkStmt(n.Body)
	case *ast.SwitchStmt:
		v.walkStmt(n.Init)
		v.walkExpr(n.Tag, false)
		v.walkStmt(n.Body)
	case *ast.TypeSwitchStmt:
		v.walkStmt(n.Init)
		v.walkStmt(n.Assign)
		v.walkStmt(n.Body)
	case *ast.CaseClause:
		for _, e := range n.List {
			v.walkExpr(e, false)
		}
		for _, st := range n.Body {
			v.walkStmt(st)
		}
	case *ast.SelectStmt:
		v.walkStmt(n.Body)
	case *ast.CommClause:
		v.walkStmt(n.Comm)
		for _, st := range n.Body {
			v.walkStmt(st)
		}
	case *ast.GoStmt:
		v.walkExpr(n.Call, false)
	case *ast.DeferStmt:
		v.walkExpr(n.Call, false)
	case *ast.LabeledStmt:
		v.walkStmt(n.Stmt)
	case *ast.SendStmt:
		v.walkExpr(n.Chan, false)
		v.walkExpr(n.Value, false)
	case *ast.IncDecStmt:
		v.walkExpr(n.X, false)
	}
}

func (v *VisitorState) walkExpr(e ast.Expr, isCallee bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Ident:
		v.visitDeclRef(n, isCallee)
	case *ast.SelectorExpr:
		v.visitMemberRef(n, isCallee)
		v.walkExpr(n.X, false)
	case *ast.CallExpr:
		v.visitCall(n)
		for _, a := range n.Args {
			v.walkExpr(a, false)
		}
	case *ast.ParenExpr:
		v.walkExpr(n.X, isCallee)
	case *ast.UnaryExpr:
		v.walkExpr(n.X, false)
	case *ast.BinaryExpr:
		v.walkExpr(n.X, false)
		v.walkExpr(n.Y, false)
	case *ast.StarExpr:
		v.walkExpr(n.X, false)
	case *ast.IndexExpr:
		v.walkExpr(n.X, false)
		v.walkExpr(n.Index, false)
	case *ast.SliceExpr:
		v.walkExpr(n.X, false)
		v.walkExpr(n.Low, false)
		v.walkExpr(n.High, false)
		v.walkExpr(n.Max, false)
	case *ast.TypeAssertExpr:
		v.walkExpr(n.X, false)
	case *ast.CompositeLit:
		for _, elt := range n.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				v.walkExpr(kv.Value, false)
			} else {
				v.walkExpr(elt, false)
			}
		}
	case *ast.FuncLit:
		// A closure's effects are attributed to its enclosing named
		// function (spec.md has no free-standing nested declarations to
		// give it its own identity against); walk its body under the same
		// functionStack top.
		v.walkStmt(n.Body)
	}
}

// visitDeclRef implements the DeclRefExpr hook: taint propagation, plus
// the "address of function" function-pointer rule for identifiers that
// name a function and are not the callee of a direct call.
func (v *VisitorState) visitDeclRef(ref *ast.Ident, isCallee bool) {
	fn, ok := v.currentFunction()
	if !ok {
		return
	}
	obj := v.tu.Pkg.TypesInfo.Uses[ref]
	if obj == nil {
		return
	}
	d := v.table.Lookup(obj)
	if d == nil {
		return
	}
	v.applyDeclRefRules(fn, d, isCallee)
}

func (v *VisitorState) visitMemberRef(sel *ast.SelectorExpr, isCallee bool) {
	fn, ok := v.currentFunction()
	if !ok {
		return
	}
	var obj types.Object
	if s, ok := v.tu.Pkg.TypesInfo.Selections[sel]; ok {
		obj = s.Obj()
	} else {
		obj = v.tu.Pkg.TypesInfo.Uses[sel.Sel]
	}
	if obj == nil {
		return
	}
	d := v.table.Lookup(obj)
	if d == nil {
		return
	}
	v.applyDeclRefRules(fn, d, isCallee)
}

func (v *VisitorState) applyDeclRefRules(fn DeclId, d *DeclRecord, isCallee bool) {
	if _, tainted := v.TaintDecls[d.Id]; tainted {
		v.markChanged(fn)
	}
	if (d.Kind == KindFunction || d.Kind == KindMethod) && !isCallee {
		if _, changed := v.FunctionsChanged[d.Id]; changed {
			if sig, ok := d.Object.Type().(*types.Signature); ok {
				v.TypesMayUsedByFP = append(v.TypesMayUsedByFP, newFPSignature(sig))
			}
		}
	}
}

// visitCall implements the CallExpr hook: classify the callee after
// stripping implicit casts/conversions (typeutil.Callee) into
// function-pointer, virtual-dispatch, or direct, per spec.md §4.3.
func (v *VisitorState) visitCall(ce *ast.CallExpr) {
	fn, ok := v.currentFunction()
	if !ok {
		v.walkExpr(ce.Fun, true)
		return
	}

	if sel, ok := ce.Fun.(*ast.SelectorExpr); ok {
		if s, ok := v.tu.Pkg.TypesInfo.Selections[sel]; ok {
			if m, ok := s.Obj().(*types.Func); ok {
				mDecl := v.table.Lookup(m)
				if mDecl != nil && mDecl.IsVirtual {
					if _, affected := v.affectedVFs[mDecl.Id]; affected {
						v.markChanged(fn)
						v.AffectedIndirectCallByVF++
					}
					v.walkExpr(ce.Fun, true)
					return
				}
			}
		}
	}

	// Direct call through a plain identifier or selector naming a
	// function/method: no RCG action needed here (the edge already carries
	// it); still visit callee subexpressions as callee position.
	if isDirectCallCallee(v.tu, ce) {
		v.walkExpr(ce.Fun, true)
		return
	}

	// Indirect call through a func-typed value (variable, field,
	// parameter): test compatibility against TypesMayUsedByFP.
	callTyp := v.tu.Pkg.TypesInfo.TypeOf(ce.Fun)
	if sig, ok := underlyingSignature(callTyp); ok {
		candidate := newFPSignature(sig)
		for _, known := range v.TypesMayUsedByFP {
			if candidate.compatible(known) {
				v.markChanged(fn)
				v.AffectedIndirectCallByFP++
				break
			}
		}
	}
	v.walkExpr(ce.Fun, true)
}

func underlyingSignature(t types.Type) (*types.Signature, bool) {
	if t == nil {
		return nil, false
	}
	sig, ok := t.Underlying().(*types.Signature)
	return sig, ok
}

// isDirectCallCallee reports whether ce calls a function or method directly:
// a package-level function, or a selector resolving to a concrete
// (non-interface) method — the direct-call case the RCG edge already
// accounts for. Resolution goes through typeutil.Callee so a call wrapped in
// parens or reached through a named function type still resolves to the
// underlying *types.Func, matching rcgbuild.go's edge-collection logic.
func isDirectCallCallee(tu *TranslationUnit, ce *ast.CallExpr) bool {
	if _, ok := typeutil.Callee(tu.Pkg.TypesInfo, ce).(*types.Func); !ok {
		return false
	}
	if sel, ok := stripParens(ce.Fun).(*ast.SelectorExpr); ok {
		if s, ok := tu.Pkg.TypesInfo.Selections[sel]; ok {
			return !isInterfaceReceiver(s)
		}
	}
	return true
}

func isInterfaceReceiver(s *types.Selection) bool {
	return types.IsInterface(s.Recv())
}

func stripParens(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
