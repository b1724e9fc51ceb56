// Package builtin is the bootstrapper (component H): it registers the
// primitive types, the handful of always-available aggregate types, and
// the base-symbol-location table every derived type (array, map, chan,
// result) needs before the first real file is opened.
//
// The per-kind registration table below mirrors the shape of the
// teacher's extToLanguage/langToGrammar maps in
// internal/runtime/languages.go: a flat map keyed by name, walked once
// at startup, rather than a sequence of individual calls.
package builtin

import (
	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/store"
	"github.com/SirZenith/vls/internal/symbol"
)

// ModuleName is the auto-import alias every file sees without an
// explicit import statement (spec §6: "at minimum builtin").
const ModuleName = "builtin"

// primitive is one built-in type's registration entry.
type primitive struct {
	name string
	kind symbol.Kind
}

// primitives lists the scalar types available in every file without an
// import, plus the "never" sentinel used for functions that don't
// return (spec.md's `never` kind, distinct from the `void_sym`).
var primitives = []primitive{
	{"bool", symbol.KindStruct},
	{"string", symbol.KindStruct},
	{"rune", symbol.KindStruct},
	{"byte", symbol.KindStruct},
	{"int", symbol.KindStruct},
	{"i8", symbol.KindStruct},
	{"i16", symbol.KindStruct},
	{"i32", symbol.KindStruct},
	{"i64", symbol.KindStruct},
	{"u8", symbol.KindStruct},
	{"u16", symbol.KindStruct},
	{"u32", symbol.KindStruct},
	{"u64", symbol.KindStruct},
	{"f32", symbol.KindStruct},
	{"f64", symbol.KindStruct},
	{"none", symbol.KindStruct},
	{"never", symbol.KindNever},
	{"IError", symbol.KindInterface},
	{"array", symbol.KindStruct},
	{"map", symbol.KindStruct},
	{"chan", symbol.KindStruct},
}

// Bootstrap registers every primitive into the builtin module (file
// version -1, per §6's small allowlist so real declarations always win
// the version check), wires builtin's auto-import, and populates the
// base-symbol-location table the type-inference walker uses when
// wiring derived array/map/chan/result placeholders to their canonical
// base type.
func Bootstrap(s *store.Store) {
	filePath := ModuleName + "/builtin.vv"
	fileID := s.OpenFile(filePath)
	s.RegisterAutoImport(ModuleName, ModuleName)
	// Bare, unqualified type references (module_name == "") must also
	// reach the prelude — find_symbol step 2 looks up
	// auto_imports[module_name], so the prelude is auto-imported a
	// second time under the empty alias alongside its "builtin" one.
	s.RegisterAutoImport("", ModuleName)

	ids := make(map[string]symbol.ID, len(primitives))
	for i, p := range primitives {
		// Each primitive gets its own row, as if the prelude were a real
		// source file with one declaration per line; same-row rename
		// detection must never pair two distinct primitives.
		id, err := s.RegisterSymbol(symbol.Symbol{
			Name:        p.name,
			Kind:        p.kind,
			Range:       ast.Range{StartPoint: ast.Point{Row: uint32(i)}, EndPoint: ast.Point{Row: uint32(i)}},
			FileID:      fileID,
			FileVersion: -1,
			Language:    symbol.LangNative,
			Parent:      symbol.VoidID,
			ReturnSym:   symbol.VoidID,
			Scope:       symbol.EmptyScopeID,
			IsTopLevel:  true,
		})
		if err == nil {
			ids[p.name] = id
		}
	}

	registerSlice(s, fileID, uint32(len(primitives)), ids, "string")

	for kind, name := range map[symbol.Kind]string{
		symbol.KindArray:  "array",
		symbol.KindMap:    "map",
		symbol.KindChan:   "chan",
		symbol.KindResult: "IError",
	} {
		s.RegisterBaseSymbolLocation(kind, store.BaseSymbolLocation{ModuleName: ModuleName, SymbolName: name})
	}
}

// registerSlice registers "[]elem" (e.g. "[]string") as a builtin array
// type with its element child wired, the same structural shape the
// type-inference walker gives a synthesized array placeholder — used by
// callers that need a ready-made []string without going through a parse
// tree (e.g. os.Args-shaped APIs).
func registerSlice(s *store.Store, fileID ast.FileID, row uint32, ids map[string]symbol.ID, elem string) {
	elemID, ok := ids[elem]
	if !ok {
		return
	}
	id, err := s.RegisterSymbol(symbol.Symbol{
		Name:        "[]" + elem,
		Kind:        symbol.KindArray,
		Range:       ast.Range{StartPoint: ast.Point{Row: row}, EndPoint: ast.Point{Row: row}},
		FileID:      fileID,
		FileVersion: -1,
		Language:    symbol.LangNative,
		Parent:      symbol.VoidID,
		ReturnSym:   symbol.VoidID,
		Scope:       symbol.EmptyScopeID,
		IsTopLevel:  true,
	})
	if err != nil {
		return
	}
	_ = s.Symbols().AddChild(id, elemID)
}
