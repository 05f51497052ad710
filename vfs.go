package main

import (
	"go/types"
)

// InterfaceTable indexes, for every interface method declaration reachable
// from the translation unit's package, the set of concrete methods that
// satisfy it and the set of interface methods (including those reached
// through embedding) it is itself satisfied by — the override chain
// spec.md §3 calls `overriddenMethods`. This is the Go analog of the
// teacher's types.go `ExtractTypeRelationships`/`emitSatisfiesMethod`, which
// walks every named type's method set and emits a `satisfies_method` edge
// to each interface it implements.
type InterfaceTable struct {
	// chain maps each linked method's DeclId (interface or concrete) to every
	// DeclId directly linked to it; links are recorded in both directions.
	chain map[DeclId]map[DeclId]struct{}
}

func newInterfaceTable() *InterfaceTable {
	return &InterfaceTable{chain: make(map[DeclId]map[DeclId]struct{})}
}

func (t *InterfaceTable) link(a, b DeclId) {
	if a == b {
		return
	}
	if t.chain[a] == nil {
		t.chain[a] = make(map[DeclId]struct{})
	}
	t.chain[a][b] = struct{}{}
	if t.chain[b] == nil {
		t.chain[b] = make(map[DeclId]struct{})
	}
	t.chain[b][a] = struct{}{}
}

// BuildInterfaceTable walks every named interface type and every named
// concrete type in the package, linking each interface method declaration
// to every concrete method satisfying it (spec.md §0 translation table,
// "virtual method / override chain"). A concrete type satisfies an
// interface when types.Implements holds; the specific method pairing comes
// from types.NewMethodSet, matched by name.
func BuildInterfaceTable(tu *TranslationUnit, table *DeclTable) *InterfaceTable {
	it := newInterfaceTable()

	var ifaces []*types.Named
	var concretes []*types.Named
	scope := tu.Pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}
		if types.IsInterface(named) {
			ifaces = append(ifaces, named)
		} else {
			concretes = append(concretes, named)
		}
	}

	for _, iface := range ifaces {
		ifaceType, ok := iface.Underlying().(*types.Interface)
		if !ok {
			continue
		}
		for i := 0; i < ifaceType.NumMethods(); i++ {
			m := ifaceType.Method(i)
			mDecl := table.Lookup(m)
			if mDecl == nil {
				continue
			}
			mDecl.IsVirtual = true
			linkEmbeddedInterfaceMethods(it, table, iface, m, mDecl)

			for _, concrete := range concretes {
				linkIfSatisfies(it, table, concrete, iface, m, mDecl)
				ptr := types.NewPointer(concrete)
				linkIfSatisfiesType(it, table, ptr, iface, m, mDecl)
			}
		}
	}

	for id, peers := range it.chain {
		decl := table.ById(id)
		if decl == nil {
			continue
		}
		decl.IsVirtual = true
		if decl.OverriddenMethods == nil {
			decl.OverriddenMethods = make(map[DeclId]struct{})
		}
		for p := range peers {
			decl.OverriddenMethods[p] = struct{}{}
		}
	}
	return it
}

// linkEmbeddedInterfaceMethods links m's declaration to the same-named
// method on every interface embedded (directly or transitively) in iface,
// covering spec.md's "transitively through embedded interfaces" clause.
func linkEmbeddedInterfaceMethods(it *InterfaceTable, table *DeclTable, iface *types.Named, m *types.Func, mDecl *DeclRecord) {
	ifaceType, ok := iface.Underlying().(*types.Interface)
	if !ok {
		return
	}
	for i := 0; i < ifaceType.NumEmbeddeds(); i++ {
		embedded := ifaceType.EmbeddedType(i)
		named, ok := embedded.(*types.Named)
		if !ok {
			continue
		}
		embType, ok := named.Underlying().(*types.Interface)
		if !ok {
			continue
		}
		for j := 0; j < embType.NumMethods(); j++ {
			em := embType.Method(j)
			if em.Name() != m.Name() {
				continue
			}
			emDecl := table.Lookup(em)
			if emDecl == nil {
				continue
			}
			emDecl.IsVirtual = true
			it.link(mDecl.Id, emDecl.Id)
		}
		linkEmbeddedInterfaceMethods(it, table, named, m, mDecl)
	}
}

func linkIfSatisfies(it *InterfaceTable, table *DeclTable, concrete *types.Named, iface *types.Named, m *types.Func, mDecl *DeclRecord) {
	if !types.Implements(concrete, iface.Underlying().(*types.Interface)) {
		return
	}
	linkConcreteMethod(it, table, concrete, m, mDecl)
}

func linkIfSatisfiesType(it *InterfaceTable, table *DeclTable, t types.Type, iface *types.Named, m *types.Func, mDecl *DeclRecord) {
	ifaceType, ok := iface.Underlying().(*types.Interface)
	if !ok || !types.Implements(t, ifaceType) {
		return
	}
	ms := types.NewMethodSet(t)
	for i := 0; i < ms.Len(); i++ {
		sel := ms.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || fn.Name() != m.Name() {
			continue
		}
		cDecl := table.Lookup(fn)
		if cDecl == nil {
			continue
		}
		cDecl.IsVirtual = true
		it.link(mDecl.Id, cDecl.Id)
	}
}

func linkConcreteMethod(it *InterfaceTable, table *DeclTable, concrete *types.Named, m *types.Func, mDecl *DeclRecord) {
	ms := types.NewMethodSet(concrete)
	for i := 0; i < ms.Len(); i++ {
		sel := ms.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || fn.Name() != m.Name() {
			continue
		}
		cDecl := table.Lookup(fn)
		if cDecl == nil {
			continue
		}
		cDecl.IsVirtual = true
		it.link(mDecl.Id, cDecl.Id)
	}
}

// ComputeAffectedVFs implements spec.md §4.4: iterate the RCG in reverse
// postorder; for every changed virtual method, insert it and every method in
// its override chain (transitively) into AffectedVFs. Run before the AST
// visitor (spec.md §9's two-pass order).
func ComputeAffectedVFs(g *ReverseCallGraph, table *DeclTable, dlm *DiffLineManager) map[DeclId]struct{} {
	affected := make(map[DeclId]struct{})

	g.ReversePostorder(func(id DeclId) {
		decl := table.ById(id)
		if decl == nil || !decl.IsVirtual {
			return
		}
		if !dlm.IsChangedDecl(decl) {
			return
		}
		insertOverrideChain(affected, table, decl)
	})

	return affected
}

// insertOverrideChain adds decl and every method transitively reachable
// through OverriddenMethods to affected.
func insertOverrideChain(affected map[DeclId]struct{}, table *DeclTable, decl *DeclRecord) {
	if _, ok := affected[decl.Id]; ok {
		return
	}
	affected[decl.Id] = struct{}{}
	for peer := range decl.OverriddenMethods {
		peerDecl := table.ById(peer)
		if peerDecl == nil {
			continue
		}
		insertOverrideChain(affected, table, peerDecl)
	}
}
