package store

import (
	"testing"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/symbol"
)

// newTestUniverse returns an empty Store wired up the same way
// newTestStore seeds the teacher's BatchedStore fixtures: no builtins
// pre-registered, so each test controls exactly what exists.
func newTestUniverse(t *testing.T) *Store {
	t.Helper()
	return New()
}

// reg is a terse Symbol builder for tests that don't care about most
// fields.
func reg(name string, kind symbol.Kind, fileID ast.FileID, row uint32, version int64) symbol.Symbol {
	return symbol.Symbol{
		Name:        name,
		Kind:        kind,
		FileID:      fileID,
		FileVersion: version,
		Language:    symbol.LangNative,
		Parent:      symbol.VoidID,
		ReturnSym:   symbol.VoidID,
		Scope:       symbol.EmptyScopeID,
		Range:       ast.Range{StartPoint: ast.Point{Row: row}},
	}
}
