package main

import (
	"go/ast"
	"go/token"
	"go/types"
)

// DeclKind classifies a DeclRecord (spec.md §3, DeclRecord.kind).
type DeclKind int

const (
	KindOther DeclKind = iota
	KindFunction
	KindMethod
	KindVar
	KindEnumConstant
	KindField
	KindRecord
	KindTypedef
)

func (k DeclKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindVar:
		return "var"
	case KindEnumConstant:
		return "enum_constant"
	case KindField:
		return "field"
	case KindRecord:
		return "record"
	case KindTypedef:
		return "typedef"
	default:
		return "other"
	}
}

// Range is an inclusive (startLine, endLine) pair, 1-based.
type Range struct {
	Start, End int
}

func (r Range) Valid() bool { return r.Start > 0 && r.End >= r.Start }

// DeclRecord is the tagged-variant declaration model from spec.md §3. Every
// analysis set keys on its Id; everything else is descriptive payload.
type DeclRecord struct {
	Id   DeclId
	Kind DeclKind
	Name string // fully qualified printable name

	// SourceRange is the definition's range for functions (if a body is
	// present), else the declaration's own range.
	SourceRange Range
	File        string // absolute path of the file holding SourceRange
	Pos, End    token.Pos

	// IsVirtual is set for methods that are part of some interface's
	// method set, either as the interface's own abstract declaration or as
	// a concrete override. See vfs.go.
	IsVirtual bool
	// OverriddenMethods holds, for a virtual method, the DeclIds vfs.go
	// linked to it directly: for a concrete method, the interface methods it
	// satisfies; for an interface method, its implementations and the
	// same-named methods of embedded interfaces. Sibling overrides are not
	// listed here; they are reached transitively (vfs.go's
	// insertOverrideChain). Empty for non-virtual declarations.
	OverriddenMethods map[DeclId]struct{}

	IsGlobalConstant bool
	IsDefinition     bool // true only for function/method definitions

	Object types.Object // non-owning; borrowed from the type-checker
}

// DeclTable owns the canonical DeclRecord for every declaration discovered
// in a translation unit, keyed by the underlying types.Object so repeated
// references collapse onto one DeclRecord regardless of visit order (the
// Go analog of spec.md §8 invariant 1, "canonicalization").
type DeclTable struct {
	byObject map[types.Object]*DeclRecord
	byId     map[DeclId]*DeclRecord
}

func NewDeclTable() *DeclTable {
	return &DeclTable{
		byObject: make(map[types.Object]*DeclRecord),
		byId:     make(map[DeclId]*DeclRecord),
	}
}

// Lookup returns the canonical DeclRecord for obj, or nil.
func (t *DeclTable) Lookup(obj types.Object) *DeclRecord {
	if obj == nil {
		return nil
	}
	return t.byObject[obj]
}

// ById returns the canonical DeclRecord for id, or nil.
func (t *DeclTable) ById(id DeclId) *DeclRecord {
	return t.byId[id]
}

// Insert registers d, indexed by both its Object and Id. First registration
// wins if called twice for the same Object (mirrors CPG.AddNode in the
// teacher's model.go).
func (t *DeclTable) Insert(d *DeclRecord) *DeclRecord {
	if d.Object != nil {
		if existing, ok := t.byObject[d.Object]; ok {
			return existing
		}
		t.byObject[d.Object] = d
	}
	if _, ok := t.byId[d.Id]; !ok {
		t.byId[d.Id] = d
	}
	return d
}

// All returns every registered DeclRecord, in insertion order is not
// guaranteed (map iteration); callers that need determinism sort by Id.
func (t *DeclTable) All() []*DeclRecord {
	out := make([]*DeclRecord, 0, len(t.byId))
	for _, d := range t.byId {
		out = append(out, d)
	}
	return out
}

// posRange converts a node's [Pos, End) to a 1-based inclusive line Range.
func posRange(fset *token.FileSet, pos, end token.Pos) Range {
	if !pos.IsValid() {
		return Range{}
	}
	start := fset.Position(pos)
	stop := fset.Position(end)
	return Range{Start: start.Line, End: stop.Line}
}

// receiverTypeName returns the declared receiver type name for a method
// FuncDecl, stripping a leading pointer star, or "" for a plain function.
func receiverTypeName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr: // generic receiver T[P]
		if id, ok := e.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.IndexListExpr:
		if id, ok := e.X.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}

// OriginFileAndLineOfDecl maps decl's position through any //line-directive
// remapping to its physical origin file (spec.md §4.1's
// originFileAndLineOfDecl, macro-expansion analog — see SPEC_FULL.md §0).
// fset.Position follows //line directives to the logical/expanded location;
// fset.PositionFor(pos, false) gives the raw physical file, which is what we
// report as the "origin" the way the original tool walks back through macro
// expansion to where a declaration was physically spelled.
func OriginFileAndLineOfDecl(fset *token.FileSet, decl *DeclRecord) (string, Range, bool) {
	if decl == nil || !decl.Pos.IsValid() {
		return "", Range{}, false
	}
	raw := fset.PositionFor(decl.Pos, false)
	if raw.Filename == "" {
		return "", Range{}, false
	}
	rawEnd := fset.PositionFor(decl.End, false)
	return raw.Filename, Range{Start: raw.Line, End: rawEnd.Line}, true
}

// isExternalLinkage reports whether a package-level function/method is
// reachable from outside the translation unit: exported identifiers, plus
// main/init which the Go runtime calls regardless of export status. This is
// the Go analog of FunctionDecl::isGlobal() in the original clang tool.
func isExternalLinkage(name string) bool {
	if name == "main" || name == "init" {
		return true
	}
	return token.IsExported(name)
}
