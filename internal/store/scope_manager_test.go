package store

import (
	"testing"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/scope"
	"github.com/SirZenith/vls/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeManagerEnsureFileRootScopeCreatesThenWidens(t *testing.T) {
	sm := NewSymbolManager()
	m := NewScopeManager(sm)

	id := m.EnsureFileRootScope(1, 10, 20)
	assert.Equal(t, id, m.FileRootScope(1))

	wider := m.EnsureFileRootScope(1, 0, 100)
	assert.Equal(t, id, wider, "widening reuses the same scope id")
	got := m.GetScope(id)
	assert.Equal(t, uint32(0), got.StartByte)
	assert.Equal(t, uint32(100), got.EndByte)
}

func TestScopeManagerInnermostWalksToDeepestMatch(t *testing.T) {
	sm := NewSymbolManager()
	m := NewScopeManager(sm)

	root := m.EnsureFileRootScope(1, 0, 100)
	child := m.createScope(1, root, 10, 50)
	grandchild := m.createScope(1, child, 20, 30)

	assert.Equal(t, grandchild, m.Innermost(1, 22, 25))
	assert.Equal(t, child, m.Innermost(1, 15, 45))
	assert.Equal(t, root, m.Innermost(1, 5, 90))
	assert.Equal(t, scope.NoneID, m.Innermost(1, 200, 300), "no scope contains an out-of-range byte span")
	assert.Equal(t, scope.NoneID, m.Innermost(99, 0, 1), "an unopened file has no root scope")
}

func TestScopeManagerGrowLeftward(t *testing.T) {
	sm := NewSymbolManager()
	m := NewScopeManager(sm)
	root := m.EnsureFileRootScope(1, 50, 100)

	m.growLeftward(root, 30)
	assert.Equal(t, uint32(30), m.GetScope(root).StartByte)

	m.growLeftward(root, 40)
	assert.Equal(t, uint32(30), m.GetScope(root).StartByte, "growLeftward never moves the start byte rightward")
}

func TestScopeManagerRegisterSymbolUpdatesExistingLocal(t *testing.T) {
	sm := NewSymbolManager()
	m := NewScopeManager(sm)
	root := m.EnsureFileRootScope(1, 8, 100)

	first := symbol.Symbol{Name: "x", FileID: 1, FileVersion: 1, Range: ast.Range{StartByte: 10, StartPoint: ast.Point{Row: 1}}}
	id1, err := m.RegisterSymbol(root, first)
	require.NoError(t, err)

	second := symbol.Symbol{Name: "x", FileID: 1, FileVersion: 2, Range: ast.Range{StartByte: 5, StartPoint: ast.Point{Row: 1}}}
	id2, err := m.RegisterSymbol(root, second)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "same-name re-registration updates the existing local symbol in place")
	assert.Equal(t, uint32(5), m.GetScope(root).StartByte, "the scope grows leftward to the updated symbol's start byte")
}

func TestScopeManagerRegisterSymbolRejectsStaleLocal(t *testing.T) {
	sm := NewSymbolManager()
	m := NewScopeManager(sm)
	root := m.EnsureFileRootScope(1, 0, 100)

	_, err := m.RegisterSymbol(root, symbol.Symbol{Name: "x", FileID: 1, FileVersion: 2})
	require.NoError(t, err)

	_, err = m.RegisterSymbol(root, symbol.Symbol{Name: "x", FileID: 1, FileVersion: 1})
	require.Error(t, err)
}

func TestScopeManagerRemoveSymbolsByLinePrunesEmptyChildren(t *testing.T) {
	sm := NewSymbolManager()
	m := NewScopeManager(sm)
	root := m.EnsureFileRootScope(1, 0, 100)
	child := m.createScope(1, root, 10, 50)

	_, err := m.RegisterSymbol(child, symbol.Symbol{Name: "local", FileID: 1, Range: ast.Range{StartPoint: ast.Point{Row: 3}}})
	require.NoError(t, err)
	_, err = m.RegisterSymbol(root, symbol.Symbol{Name: "outer", FileID: 1, Range: ast.Range{StartPoint: ast.Point{Row: 20}}})
	require.NoError(t, err)

	emptied := m.RemoveSymbolsByLine(root, 1, 5)

	assert.False(t, emptied, "root still holds the surviving outer symbol")
	assert.Empty(t, m.GetScope(root).Children, "the now-empty child scope was pruned")
}

func TestScopeManagerGetSymbolsBeforeCollectsUpToTargetByte(t *testing.T) {
	sm := NewSymbolManager()
	m := NewScopeManager(sm)
	root := m.EnsureFileRootScope(1, 0, 100)

	before, err := m.RegisterSymbol(root, symbol.Symbol{Name: "a", FileID: 1, Range: ast.Range{EndByte: 10}})
	require.NoError(t, err)
	_, err = m.RegisterSymbol(root, symbol.Symbol{Name: "b", FileID: 1, Range: ast.Range{StartByte: 40, EndByte: 60}})
	require.NoError(t, err)

	ids := m.GetSymbolsBefore(1, 20)
	assert.Equal(t, []symbol.ID{before}, ids)
}
