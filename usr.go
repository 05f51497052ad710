package main

import "fmt"

// usrForDecl builds a clang-`generateUSRForDecl`-style unified symbol name
// for decl: a stable, language-specific textual encoding of identity. Go has
// no standard USR generator, so this is a from-scratch encoding over the
// same inputs DeclId itself is built from (package path + qualified name),
// prefixed with a kind tag so the same name in two different decl kinds
// (e.g. a type and a field sharing a name) never collides.
func usrForDecl(decl *DeclRecord) string {
	return fmt.Sprintf("go:%s:%s", decl.Kind.String(), decl.Name)
}

// dumpUSRName renders decl's USR in the `<len>:<usr>` wire form spec.md §4.6
// specifies, where <len> is the USR's byte length.
func dumpUSRName(decl *DeclRecord) string {
	usr := usrForDecl(decl)
	return fmt.Sprintf("%d:%s", len(usr), usr)
}

// displayName renders decl's name per the active naming mode: printable
// qualified name, or the USR form when dumpUSR is set, with an optional
// " -> <start>-<end>" location suffix (spec.md §4.6, `printLoc`).
func displayName(decl *DeclRecord, dumpUSR, printLoc bool) string {
	name := decl.Name
	if dumpUSR {
		name = dumpUSRName(decl)
	}
	if printLoc && decl.SourceRange.Valid() {
		name = fmt.Sprintf("%s -> %d-%d", name, decl.SourceRange.Start, decl.SourceRange.End)
	}
	return name
}
