package main

import (
	"go/ast"
	"go/types"
)

// CollectDecls walks every top-level declaration in the translation unit's
// package and registers a canonical DeclRecord for each function, method,
// var, const/enum-constant, field, named type, and record (struct/interface)
// declaration (spec.md §3, DeclRecord). This is the Go stand-in for the
// front end's declaration table; nothing here performs semantic analysis —
// it only reads the types.Info the front end (go/packages) already produced.
func CollectDecls(tu *TranslationUnit) *DeclTable {
	table := NewDeclTable()
	p := tu.Pkg
	info := p.TypesInfo

	for i, file := range p.Syntax {
		if i >= len(p.CompiledGoFiles) {
			continue
		}
		absFile := p.CompiledGoFiles[i]

		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				collectFuncDecl(tu, table, info, d, absFile)
			case *ast.GenDecl:
				collectGenDecl(tu, table, info, d, absFile)
			}
		}
	}
	return table
}

func collectFuncDecl(tu *TranslationUnit, table *DeclTable, info *types.Info, fd *ast.FuncDecl, absFile string) {
	obj, _ := info.Defs[fd.Name].(*types.Func)
	if obj == nil {
		return
	}
	recv := receiverTypeName(fd)
	kind := KindFunction
	if recv != "" {
		kind = KindMethod
	}

	pos := tu.Fset.Position(fd.Name.Pos())
	// Definition range: body present -> full decl range; declaration-only
	// (assembly stub, cgo forward decl) -> the signature's own range
	// (spec.md §3 DeclRecord.sourceRange).
	rangeEnd := fd.End()
	isDefinition := fd.Body != nil
	if !isDefinition {
		rangeEnd = fd.Type.End()
	}

	rec := &DeclRecord{
		Id:           declIdForFunc(tu.Pkg.PkgPath, recv, fd.Name.Name, absFile, pos.Line, pos.Column),
		Kind:         kind,
		Name:         qualifiedName(tu, recv, fd.Name.Name),
		SourceRange:  posRange(tu.Fset, fd.Pos(), rangeEnd),
		File:         absFile,
		Pos:          fd.Pos(),
		End:          rangeEnd,
		IsDefinition: isDefinition,
		Object:       obj,
	}
	table.Insert(rec)
}

func collectGenDecl(tu *TranslationUnit, table *DeclTable, info *types.Info, gd *ast.GenDecl, absFile string) {
	for _, spec := range gd.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			collectTypeSpec(tu, table, info, s, absFile)
		case *ast.ValueSpec:
			for _, name := range s.Names {
				collectValueName(tu, table, info, name, absFile)
			}
		}
	}
}

func collectTypeSpec(tu *TranslationUnit, table *DeclTable, info *types.Info, ts *ast.TypeSpec, absFile string) {
	obj, _ := info.Defs[ts.Name].(*types.TypeName)
	if obj == nil {
		return
	}
	kind := KindTypedef
	if _, ok := ts.Type.(*ast.StructType); ok {
		kind = KindRecord
	}
	if _, ok := ts.Type.(*ast.InterfaceType); ok {
		kind = KindRecord
	}
	pos := tu.Fset.Position(ts.Name.Pos())
	rec := &DeclRecord{
		Id:          declIdForObject(tu.Pkg.PkgPath, ts.Name.Name, absFile, pos.Line, pos.Column),
		Kind:        kind,
		Name:        qualifiedName(tu, "", ts.Name.Name),
		SourceRange: posRange(tu.Fset, ts.Pos(), ts.End()),
		File:        absFile,
		Pos:         ts.Pos(),
		End:         ts.End(),
		Object:      obj,
	}
	table.Insert(rec)

	// Struct fields (spec.md §3 DeclRecord.kind includes Field).
	if st, ok := ts.Type.(*ast.StructType); ok && st.Fields != nil {
		for _, field := range st.Fields.List {
			for _, fname := range field.Names {
				fobj, _ := info.Defs[fname].(*types.Var)
				if fobj == nil {
					continue
				}
				fpos := tu.Fset.Position(fname.Pos())
				frec := &DeclRecord{
					Id:               declIdForObject(tu.Pkg.PkgPath, ts.Name.Name+"."+fname.Name, absFile, fpos.Line, fpos.Column),
					Kind:             KindField,
					Name:             qualifiedName(tu, "", ts.Name.Name+"."+fname.Name),
					SourceRange:      posRange(tu.Fset, fname.Pos(), fname.End()),
					File:             absFile,
					Pos:              fname.Pos(),
					End:              fname.End(),
					IsGlobalConstant: false,
					Object:           fobj,
				}
				table.Insert(frec)
			}
		}
	}

	// Interface method declarations. vfs.go's BuildInterfaceTable looks each
	// one up by its *types.Func (ifaceType.Method(i)); without a DeclRecord
	// registered here that lookup always misses and no interface method is
	// ever marked virtual.
	if it, ok := ts.Type.(*ast.InterfaceType); ok && it.Methods != nil {
		for _, method := range it.Methods.List {
			for _, mname := range method.Names {
				mobj, _ := info.Defs[mname].(*types.Func)
				if mobj == nil {
					continue
				}
				mpos := tu.Fset.Position(mname.Pos())
				mrec := &DeclRecord{
					Id:          declIdForFunc(tu.Pkg.PkgPath, ts.Name.Name, mname.Name, absFile, mpos.Line, mpos.Column),
					Kind:        KindMethod,
					Name:        qualifiedName(tu, ts.Name.Name, mname.Name),
					SourceRange: posRange(tu.Fset, method.Pos(), method.End()),
					File:        absFile,
					Pos:         method.Pos(),
					End:         method.End(),
					Object:      mobj,
				}
				table.Insert(mrec)
			}
		}
	}
}

func collectValueName(tu *TranslationUnit, table *DeclTable, info *types.Info, name *ast.Ident, absFile string) {
	if name.Name == "_" {
		return
	}
	obj := info.Defs[name]
	if obj == nil {
		return
	}
	kind := KindVar
	isGlobalConst := false
	if _, ok := obj.(*types.Const); ok {
		kind = KindEnumConstant
		isGlobalConst = true
	}
	pos := tu.Fset.Position(name.Pos())
	rec := &DeclRecord{
		Id:               declIdForObject(tu.Pkg.PkgPath, name.Name, absFile, pos.Line, pos.Column),
		Kind:             kind,
		Name:             qualifiedName(tu, "", name.Name),
		SourceRange:      posRange(tu.Fset, name.Pos(), name.End()),
		File:             absFile,
		Pos:              name.Pos(),
		End:              name.End(),
		IsGlobalConstant: isGlobalConst,
		Object:           obj,
	}
	table.Insert(rec)
}

func qualifiedName(tu *TranslationUnit, recv, name string) string {
	pkgPath := tu.Pkg.PkgPath
	if recv != "" {
		return pkgPath + "." + recv + "." + name
	}
	return pkgPath + "." + name
}
