package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"runtime"
	"strings"

	"golang.org/x/tools/go/packages"
)

// TranslationUnit is the Go realization of spec.md's "parsed AST of the
// translation unit": one *packages.Package, loaded with full type info, plus
// the identity of the "main file" the diff record and CLI invocation center
// on (spec.md §4.1, §4.7). Everything past this point treats TranslationUnit
// as read-only, borrowed for the duration of RunAndSummarize (spec.md §5, "Shared
// resources").
type TranslationUnit struct {
	Pkg      *packages.Package
	Fset     *token.FileSet
	MainFile string // absolute path

	// ParseErr is set when the front end reported a parse or type error;
	// spec.md §4.7 requires the driver to abort without emitting anything
	// in this case.
	ParseErr error
}

// LoadTranslationUnit loads the package containing mainFile and returns it
// as a TranslationUnit. This plays the role spec.md assigns to "the front
// end" (out of scope, §1): AST construction and semantic analysis are
// delegated entirely to golang.org/x/tools/go/packages, exactly as the
// teacher's loader.go does for its own multi-module load.
func LoadTranslationUnit(mainFile string, prog *Progress) (*TranslationUnit, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo |
			packages.NeedTypesSizes,
		Fset: fset,
	}

	pattern := "file=" + mainFile
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("packages.Load %s: %w", mainFile, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package found containing %s", mainFile)
	}
	pkg := pkgs[0]

	tu := &TranslationUnit{Pkg: pkg, Fset: fset, MainFile: mainFile}

	if len(pkg.Errors) > 0 {
		var sb strings.Builder
		for i, e := range pkg.Errors {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(e.Error())
		}
		tu.ParseErr = fmt.Errorf("front end reported %d error(s): %s", len(pkg.Errors), sb.String())
		prog.Log("parse error in %s: %v", mainFile, tu.ParseErr)
	}

	return tu, nil
}

// FileOf returns the *ast.File matching absFile, or nil.
func (tu *TranslationUnit) FileOf(absFile string) *ast.File {
	for i, f := range tu.Pkg.CompiledGoFiles {
		if f == absFile && i < len(tu.Pkg.Syntax) {
			return tu.Pkg.Syntax[i]
		}
	}
	return nil
}

// goroot caches runtime.GOROOT() for isSystemFile's heuristic.
var goroot = runtime.GOROOT()

// isSystemFile reports whether absFile lives under GOROOT or a vendor/
// directory — spec.md §4.1's "system headers" analog, excluded from AN
// emission but still eligible as RCG nodes.
func isSystemFile(absFile string) bool {
	return strings.Contains(absFile, "/vendor/") || (goroot != "" && strings.HasPrefix(absFile, goroot+"/"))
}
