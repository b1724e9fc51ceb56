package infer

import (
	"context"
	"fmt"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/builtin"
	"github.com/SirZenith/vls/internal/store"
	"github.com/SirZenith/vls/internal/symbol"
)

// parseGo parses src with the bundled Go grammar (the stand-in for the
// fictitious target language's own, unshipped grammar — see
// cmd/vls/index.go) and returns the root node plus the source bytes.
func parseGo(t *testing.T, src string) (ast.Node, ast.SourceText) {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(src))
	require.NoError(t, err)
	return ast.NewNode(tree.RootNode()), ast.SourceText(src)
}

// findFirst depth-first searches for the first descendant of root whose
// TypeName matches kind.
func findFirst(root ast.Node, src ast.SourceText, kind string) ast.Node {
	if root.IsNull() {
		return ast.Node{}
	}
	if root.TypeName() == kind {
		return root
	}
	for i := 0; i < root.NamedChildCount(); i++ {
		if found := findFirst(root.NamedChild(i), src, kind); !found.IsNull() {
			return found
		}
	}
	return ast.Node{}
}

func newWalkerWithBuiltins(t *testing.T) *Walker {
	t.Helper()
	s := store.New()
	builtin.Bootstrap(s)
	return New(s)
}

func TestSymbolNameFromNodeVoidOnNullNode(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	tuple := w.SymbolNameFromNode(ast.Node{}, nil)
	assert.Equal(t, symbol.KindVoid, tuple.Kind)
}

func TestSymbolNameFromNodePointerType(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	root, src := parseGo(t, "package p\ntype T struct { x *int }")
	node := findFirst(root, src, "pointer_type")
	require.False(t, node.IsNull())

	tuple := w.SymbolNameFromNode(node, src)
	assert.Equal(t, symbol.KindRef, tuple.Kind)
	assert.Equal(t, "&int", tuple.Name)
}

func TestSymbolNameFromNodeSliceType(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	root, src := parseGo(t, "package p\ntype T struct { xs []string }")
	node := findFirst(root, src, "slice_type")
	require.False(t, node.IsNull())

	tuple := w.SymbolNameFromNode(node, src)
	assert.Equal(t, symbol.KindArray, tuple.Kind)
	assert.Equal(t, "[]string", tuple.Name)
}

func TestSymbolNameFromNodeMapType(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	root, src := parseGo(t, "package p\ntype T struct { m map[string]int }")
	node := findFirst(root, src, "map_type")
	require.False(t, node.IsNull())

	tuple := w.SymbolNameFromNode(node, src)
	assert.Equal(t, symbol.KindMap, tuple.Kind)
	assert.Equal(t, "map[string]int", tuple.Name)
}

func TestSymbolNameFromNodeQualifiedType(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	root, src := parseGo(t, "package p\nimport \"io\"\ntype T struct { r io.Reader }")
	node := findFirst(root, src, "qualified_type")
	require.False(t, node.IsNull())

	tuple := w.SymbolNameFromNode(node, src)
	assert.Equal(t, symbol.KindPlaceholder, tuple.Kind)
	assert.Equal(t, "io", tuple.ModuleName)
	assert.Equal(t, "Reader", tuple.Name)
}

func TestFindSymbolByTypeNodeResolvesBuiltinPrimitive(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	root, src := parseGo(t, "package p\ntype T struct { n int64 }")
	node := findFirst(root, src, "field_identifier")
	_ = node
	typeNode := findFirst(root, src, "int64")
	if typeNode.IsNull() {
		// int64 is its own "type_identifier" leaf in tree-sitter-go; locate it that way.
		typeNode = findFirst(root, src, "type_identifier")
	}
	require.False(t, typeNode.IsNull())

	sym, err := w.FindSymbolByTypeNode("/app/main.go", typeNode, src)
	require.NoError(t, err)
	assert.Equal(t, "int64", sym.Name)
}

func TestFindSymbolByTypeNodeSynthesizesAndDedupesDerivedSlice(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	root, src := parseGo(t, "package p\ntype T struct { xs []string }")
	node := findFirst(root, src, "slice_type")
	require.False(t, node.IsNull())

	first, err := w.FindSymbolByTypeNode("/app/main.go", node, src)
	require.NoError(t, err)
	assert.Equal(t, symbol.KindArray, first.Kind)

	second, err := w.FindSymbolByTypeNode("/app/main.go", node, src)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-resolving the same derived type returns the same synthesized id")

	// The derived type is homed alongside its element's own module
	// (builtin), not the requesting file's module — the fix that makes
	// scenario (d)'s dedup hold for builtin-based derived types.
	matches := 0
	for _, id := range w.Store.Symbols().ModuleSymbols(builtin.ModuleName) {
		if w.Store.Symbols().GetInfo(id).Name == "[]int" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

func TestFindFnSymbolByTypeNodeDedupesBySignature(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	root, src := parseGo(t, "package p\ntype A func(x int) string\ntype B func(y int) string")
	aNode := findFirst(root.NamedChild(1), src, "function_type")
	bNode := findFirst(root.NamedChild(2), src, "function_type")
	require.False(t, aNode.IsNull())
	require.False(t, bNode.IsNull())

	first, err := w.FindFnSymbolByTypeNode("/app/main.go", aNode, src)
	require.NoError(t, err)
	second, err := w.FindFnSymbolByTypeNode("/app/main.go", bNode, src)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "identical parameter/return types dedupe regardless of parameter name")
}

func TestInferValueTypeFromNodeIdentifier(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	fileID := w.Store.OpenFile("/app/main.go")
	_, err := w.Store.RegisterSymbol(symbol.Symbol{
		Name: "count", Kind: symbol.KindVariable, FileID: fileID, FileVersion: 0,
		Language: symbol.LangNative, Parent: symbol.VoidID, ReturnSym: symbol.VoidID, Scope: symbol.EmptyScopeID,
	})
	require.NoError(t, err)

	root, src := parseGo(t, "package p\nvar count int")
	ident := findFirst(root, src, "identifier")
	require.False(t, ident.IsNull())

	got, err := w.InferValueTypeFromNode("/app/main.go", ident, src)
	require.NoError(t, err)
	assert.Equal(t, "count", got.Name)
}

func TestInferValueTypeFromNodeUnaryAddressOfWrapsRef(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	fileID := w.Store.OpenFile("/app/main.go")
	_, err := w.Store.RegisterSymbol(symbol.Symbol{
		Name: "count", Kind: symbol.KindVariable, FileID: fileID, FileVersion: 0,
		Language: symbol.LangNative, Parent: symbol.VoidID, ReturnSym: symbol.VoidID, Scope: symbol.EmptyScopeID,
	})
	require.NoError(t, err)
	// Wire count's declared type to builtin "int" the way registration
	// normally would via infer_symbol_from_node at the declaration site.
	intSym, err := w.Store.FindSymbol("/app/main.go", "", "int")
	require.NoError(t, err)
	countSym, err := w.Store.FindSymbol("/app/main.go", "", "count")
	require.NoError(t, err)
	w.Store.Symbols().Patch(countSym.ID, func(s *symbol.Symbol) { s.ReturnSym = intSym.ID })

	root, src := parseGo(t, "package p\nfunc f() { x := &count; _ = x }")
	unary := findFirst(root, src, "unary_expression")
	require.False(t, unary.IsNull())

	got, err := w.InferValueTypeFromNode("/app/main.go", unary, src)
	require.NoError(t, err)
	assert.Equal(t, symbol.KindRef, got.Kind)
	assert.Equal(t, "&int", got.Name)
	assert.Equal(t, intSym.ID, got.Parent)
}

func TestInferValueTypeFromNodeUnaryAddressOfRejectsDeepPointer(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	fileID := w.Store.OpenFile("/app/main.go")

	intSym, err := w.Store.FindSymbol("/app/main.go", "", "int")
	require.NoError(t, err)

	// Build a synthetic &&&int chain three refs deep, then wire a local
	// variable "p" to the deepest one.
	depth := intSym.ID
	for i := 0; i < 3; i++ {
		depth = w.Store.Symbols().CreateNewSymbolWith(symbol.Symbol{
			Name: fmt.Sprintf("synthRef%d", i), Kind: symbol.KindRef, FileID: fileID,
			Language: symbol.LangNative, Parent: depth, ReturnSym: symbol.VoidID, Scope: symbol.EmptyScopeID,
		})
	}

	_, err = w.Store.RegisterSymbol(symbol.Symbol{
		Name: "p", Kind: symbol.KindVariable, FileID: fileID, FileVersion: 0,
		Language: symbol.LangNative, Parent: symbol.VoidID, ReturnSym: depth, Scope: symbol.EmptyScopeID,
	})
	require.NoError(t, err)

	root, src := parseGo(t, "package p\nfunc f() { x := &p; _ = x }")
	unary := findFirst(root, src, "unary_expression")
	require.False(t, unary.IsNull())

	got, err := w.InferValueTypeFromNode("/app/main.go", unary, src)
	require.NoError(t, err)
	assert.True(t, got.IsVoid(), "pointer depth already exceeding 2 must reject further address-of wrapping")
}

func TestInferValueTypeFromNodeSelectorResolvesField(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	fileID := w.Store.OpenFile("/app/main.go")

	fieldID := w.Store.Symbols().CreateNewSymbolWith(symbol.Symbol{
		Name: "count", Kind: symbol.KindField, FileID: fileID,
		Language: symbol.LangNative, Parent: symbol.VoidID, ReturnSym: symbol.VoidID, Scope: symbol.EmptyScopeID,
	})
	typeID, err := w.Store.RegisterSymbol(symbol.Symbol{
		Name: "Box", Kind: symbol.KindStruct, FileID: fileID, FileVersion: 0,
		Range:    ast.Range{StartPoint: ast.Point{Row: 1}},
		Language: symbol.LangNative, Parent: symbol.VoidID, ReturnSym: symbol.VoidID, Scope: symbol.EmptyScopeID,
	})
	require.NoError(t, err)
	require.NoError(t, w.Store.Symbols().AddChild(typeID, fieldID))

	_, err = w.Store.RegisterSymbol(symbol.Symbol{
		Name: "box", Kind: symbol.KindVariable, FileID: fileID, FileVersion: 0,
		Range:    ast.Range{StartPoint: ast.Point{Row: 2}},
		Language: symbol.LangNative, Parent: symbol.VoidID, ReturnSym: typeID, Scope: symbol.EmptyScopeID,
	})
	require.NoError(t, err)

	root, src := parseGo(t, "package p\nfunc f() { _ = box.count }")
	sel := findFirst(root, src, "selector_expression")
	require.False(t, sel.IsNull())

	got, err := w.InferValueTypeFromNode("/app/main.go", sel, src)
	require.NoError(t, err)
	assert.Equal(t, fieldID, got.ID, "the selector resolves to the struct's own field")
}

func TestFindMemberSymbolRedirectsDerivedKindToBaseSymbol(t *testing.T) {
	w := newWalkerWithBuiltins(t)

	// Give the builtin array base type a method, the way a prelude
	// source file would declare it.
	arraySym, err := w.Store.FindSymbol("/app/main.go", builtin.ModuleName, "array")
	require.NoError(t, err)
	methodID := w.Store.Symbols().CreateNewSymbolWith(symbol.Symbol{
		Name: "first", Kind: symbol.KindFunction, FileID: arraySym.FileID,
		Language: symbol.LangNative, Parent: arraySym.ID, ReturnSym: symbol.VoidID, Scope: symbol.EmptyScopeID,
	})
	require.NoError(t, w.Store.Symbols().AddChild(arraySym.ID, methodID))

	slice, err := w.Store.FindSymbol("/app/main.go", "", "[]string")
	require.NoError(t, err)

	got, err := w.FindMemberSymbol("/app/main.go", slice, "first")
	require.NoError(t, err)
	assert.Equal(t, methodID, got.ID, "a member miss on a derived array type falls through to the builtin array base symbol")

	_, err = w.FindMemberSymbol("/app/main.go", slice, "missing")
	require.Error(t, err)
}

func TestInferValueTypeFromNodeUnknownKindReturnsVoid(t *testing.T) {
	w := newWalkerWithBuiltins(t)
	root, src := parseGo(t, "package p\nconst x = 1")
	lit := findFirst(root, src, "int_literal")
	require.False(t, lit.IsNull())

	got, err := w.InferValueTypeFromNode("/app/main.go", lit, src)
	require.NoError(t, err)
	assert.True(t, got.IsVoid())
}
