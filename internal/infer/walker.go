// Package infer implements the type-inference walker (component G): the
// AST-node-kind dispatch that turns a type node or an expression node
// into the Symbol it denotes, synthesizing placeholder symbols lazily
// the way register_symbol lets the type universe grow on demand.
//
// The walker never panics on a missing or unexpected child: every
// dispatch falls back to symbol.Void() per the malformed-AST error
// policy, leaving the decision of whether the absence is reportable to
// the caller.
package infer

import (
	"fmt"
	"path"
	"strings"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/store"
	"github.com/SirZenith/vls/internal/symbol"
)

// Walker holds the Store back-reference every inference call needs to
// resolve or synthesize symbols against.
type Walker struct {
	Store *store.Store
}

// New returns a Walker bound to s.
func New(s *store.Store) *Walker {
	return &Walker{Store: s}
}

func moduleDirOf(filePath string) string {
	return path.Dir(filePath)
}

// NameTuple is the (kind, module_name, printable_name) triple
// symbol_name_from_node computes from a type node (§4.5 step 1).
type NameTuple struct {
	Kind       symbol.Kind
	ModuleName string
	Name       string
}

// SymbolNameFromNode is the pure AST→tuple function of §4.5 step 1. It
// never resolves or synthesizes anything — it only describes what the
// node says, for find_symbol_by_type_node to act on.
func (w *Walker) SymbolNameFromNode(node ast.Node, src ast.SourceText) NameTuple {
	if node.IsNull() {
		return NameTuple{Kind: symbol.KindVoid}
	}

	switch node.TypeName() {
	case "pointer_type":
		inner := w.innerOf(node)
		return NameTuple{Kind: symbol.KindRef, ModuleName: "", Name: "&" + w.printable(inner, src)}

	case "array_type", "fixed_array_type", "slice_type":
		inner := w.innerOf(node)
		limit := ""
		if lim := node.ChildByFieldName("limit"); !lim.IsNull() {
			limit = lim.Text(src)
		}
		innerTuple := w.SymbolNameFromNode(inner, src)
		return NameTuple{Kind: symbol.KindArray, ModuleName: innerTuple.ModuleName, Name: "[" + limit + "]" + w.printable(inner, src)}

	case "map_type":
		key := node.NamedChild(0)
		val := node.NamedChild(1)
		keyTuple := w.SymbolNameFromNode(key, src)
		valTuple := w.SymbolNameFromNode(val, src)
		module := keyTuple.ModuleName
		if module == "" {
			module = valTuple.ModuleName
		}
		return NameTuple{Kind: symbol.KindMap, ModuleName: module, Name: fmt.Sprintf("map[%s]%s", w.printable(key, src), w.printable(val, src))}

	case "channel_type":
		inner := w.innerOf(node)
		innerTuple := w.SymbolNameFromNode(inner, src)
		return NameTuple{Kind: symbol.KindChan, ModuleName: innerTuple.ModuleName, Name: "chan " + w.printable(inner, src)}

	case "option_type":
		return w.wrappedInner(node, src, symbol.KindOptional, "?")

	case "result_type":
		return w.wrappedInner(node, src, symbol.KindResult, "!")

	case "variadic_type":
		inner := w.innerOf(node)
		innerTuple := w.SymbolNameFromNode(inner, src)
		return NameTuple{Kind: symbol.KindVariadic, ModuleName: innerTuple.ModuleName, Name: "..." + w.printable(inner, src)}

	case "multi_return_type":
		return NameTuple{Kind: symbol.KindMultiReturn, ModuleName: "", Name: node.Text(src)}

	case "generic_type":
		return w.SymbolNameFromNode(w.innerOf(node), src)

	case "function_type", "fn_literal":
		return NameTuple{Kind: symbol.KindFunctionType, ModuleName: "", Name: ""}

	case "call_expression":
		return w.SymbolNameFromNode(node.ChildByFieldName("function"), src)

	case "qualified_type":
		module, name := w.splitQualified(node, src)
		return NameTuple{Kind: symbol.KindPlaceholder, ModuleName: module, Name: name}

	default:
		return NameTuple{Kind: symbol.KindPlaceholder, ModuleName: "", Name: node.Text(src)}
	}
}

func (w *Walker) wrappedInner(node ast.Node, src ast.SourceText, kind symbol.Kind, sigil string) NameTuple {
	inner := w.innerOf(node)
	if inner.IsNull() || inner.TypeName() == "void_type" {
		return NameTuple{Kind: kind, ModuleName: "", Name: sigil}
	}
	innerTuple := w.SymbolNameFromNode(inner, src)
	return NameTuple{Kind: kind, ModuleName: innerTuple.ModuleName, Name: sigil + w.printable(inner, src)}
}

// innerOf returns the single wrapped type node of a unary type wrapper
// (pointer_type, array_type, channel_type, option_type, result_type,
// variadic_type, generic_type), trying the conventional "element" field
// first and falling back to the first named child.
func (w *Walker) innerOf(node ast.Node) ast.Node {
	if field := node.ChildByFieldName("element"); !field.IsNull() {
		return field
	}
	return node.NamedChild(0)
}

func (w *Walker) printable(node ast.Node, src ast.SourceText) string {
	if node.IsNull() {
		return ""
	}
	return w.SymbolNameFromNode(node, src).Name
}

func (w *Walker) splitQualified(node ast.Node, src ast.SourceText) (module, name string) {
	if m := node.ChildByFieldName("module"); !m.IsNull() {
		if n := node.ChildByFieldName("name"); !n.IsNull() {
			return m.Text(src), n.Text(src)
		}
	}
	text := node.Text(src)
	if idx := strings.LastIndex(text, "."); idx >= 0 {
		return text[:idx], text[idx+1:]
	}
	return "", text
}

// FindSymbolByTypeNode implements §4.5 steps 2–3: compute the tuple,
// special-case function_type into dedup-by-signature, otherwise ask the
// store and synthesize a placeholder on miss, wiring parent/children for
// derived kinds per the table in §4.5.
func (w *Walker) FindSymbolByTypeNode(filePath string, node ast.Node, src ast.SourceText) (symbol.Symbol, error) {
	tuple := w.SymbolNameFromNode(node, src)

	if tuple.Kind == symbol.KindVoid {
		return symbol.Void(), nil
	}

	if tuple.Kind == symbol.KindFunctionType {
		return w.FindFnSymbolByTypeNode(filePath, node, src)
	}

	if sym, err := w.Store.FindSymbol(filePath, tuple.ModuleName, tuple.Name); err == nil {
		return sym, nil
	}

	return w.synthesizePlaceholder(filePath, node, src, tuple)
}

// synthesizePlaceholder registers a new placeholder record at
// <module_path>/placeholder.vv (§6: "Special identifier conventions"),
// then wires its parent/children according to the derived-type
// construction table.
func (w *Walker) synthesizePlaceholder(filePath string, node ast.Node, src ast.SourceText, tuple NameTuple) (symbol.Symbol, error) {
	var parent symbol.ID = symbol.VoidID
	var children []symbol.ID
	allowDupChildren := false
	firstChildModule := ""

	switch tuple.Kind {
	case symbol.KindArray:
		elem, _ := w.FindSymbolByTypeNode(filePath, w.innerOf(node), src)
		children = []symbol.ID{elem.ID}
		firstChildModule = moduleDirOf(w.Store.FilePath(elem.FileID))

	case symbol.KindMap:
		key, _ := w.FindSymbolByTypeNode(filePath, node.NamedChild(0), src)
		val, _ := w.FindSymbolByTypeNode(filePath, node.NamedChild(1), src)
		children = []symbol.ID{key.ID, val.ID}
		allowDupChildren = true
		firstChildModule = moduleDirOf(w.Store.FilePath(key.FileID))

	case symbol.KindRef, symbol.KindChan, symbol.KindOptional, symbol.KindResult:
		inner, _ := w.FindSymbolByTypeNode(filePath, w.innerOf(node), src)
		parent = inner.ID
		firstChildModule = moduleDirOf(w.Store.FilePath(inner.FileID))

	case symbol.KindMultiReturn, symbol.KindVariadic:
		for i := 0; i < node.NamedChildCount(); i++ {
			part, _ := w.FindSymbolByTypeNode(filePath, node.NamedChild(i), src)
			children = append(children, part.ID)
			if firstChildModule == "" {
				firstChildModule = moduleDirOf(w.Store.FilePath(part.FileID))
			}
		}
		allowDupChildren = true
	}

	// The derived type lives alongside its element/inner type's module
	// when one is known (e.g. "[]string" joins "string" in builtin),
	// falling back to the requesting file's own module otherwise.
	modulePath := tuple.ModuleName
	if modulePath == "" {
		modulePath = firstChildModule
	}
	if modulePath == "" {
		modulePath = moduleDirOf(filePath)
	}
	fileID := w.Store.OpenFile(modulePath + "/placeholder.vv")

	id, err := w.Store.RegisterSymbol(symbol.Symbol{
		Name:        tuple.Name,
		Kind:        tuple.Kind,
		FileID:      fileID,
		FileVersion: 0,
		Language:    symbol.LangNative,
		Parent:      parent,
		ReturnSym:   symbol.VoidID,
		Scope:       symbol.EmptyScopeID,
	})
	if err != nil {
		return symbol.Void(), err
	}
	for _, childID := range children {
		if allowDupChildren {
			w.Store.Symbols().AddChildAllowDuplicated(id, childID)
		} else {
			// A void child id comes from a malformed inner node; dropping
			// it (rather than failing) keeps the never-panic fallback.
			_ = w.Store.Symbols().AddChild(id, childID)
		}
	}

	return w.Store.Symbols().GetInfo(id), nil
}

// FindFnSymbolByTypeNode extracts the parameter list and return node
// from a function_type/fn_literal node, looks for an existing anonymous
// function-type symbol with an identical signature, and otherwise
// synthesizes #anon_<n> and registers it (§4.5 step 2, §4.6's
// find_fn_symbol).
func (w *Walker) FindFnSymbolByTypeNode(filePath string, node ast.Node, src ast.SourceText) (symbol.Symbol, error) {
	paramsNode := node.ChildByFieldName("parameters")
	retNode := node.ChildByFieldName("result")

	var paramSyms []symbol.ID
	for i := 0; i < paramsNode.NamedChildCount(); i++ {
		p := paramsNode.NamedChild(i)
		typeNode := p.ChildByFieldName("type")
		if typeNode.IsNull() {
			typeNode = p
		}
		psym, _ := w.FindSymbolByTypeNode(filePath, typeNode, src)
		paramID := w.Store.Symbols().CreateNewSymbolWith(symbol.Symbol{
			Name:      p.ChildByFieldName("name").Text(src),
			Kind:      symbol.KindVariable,
			ReturnSym: psym.ID,
			Parent:    symbol.VoidID,
			Scope:     symbol.EmptyScopeID,
			FileID:    w.Store.OpenFile(filePath),
		})
		paramSyms = append(paramSyms, paramID)
	}

	retSym := symbol.Void()
	if !retNode.IsNull() {
		retSym, _ = w.FindSymbolByTypeNode(filePath, retNode, src)
	}

	modulePath := moduleDirOf(filePath)
	for _, id := range w.Store.Symbols().ModuleSymbols(modulePath) {
		cand := w.Store.Symbols().GetInfo(id)
		fnCand := cand
		if cand.Kind == symbol.KindTypedef {
			fnCand = w.Store.Symbols().GetInfo(cand.Parent)
		}
		if fnCand.Kind != symbol.KindFunctionType {
			continue
		}
		probe := symbol.Symbol{ReturnSym: retSym.ID, Children: paramSyms}
		if store.CompareParamsAndRetType(w.Store.Symbols(), fnCand, probe, false) {
			return cand, nil
		}
	}

	id, err := w.Store.RegisterSymbol(symbol.Symbol{
		Name:        w.Store.NextAnonName(),
		Kind:        symbol.KindFunctionType,
		ReturnSym:   retSym.ID,
		Children:    paramSyms,
		FileID:      w.Store.OpenFile(moduleDirOf(filePath) + "/placeholder.vv"),
		FileVersion: 0,
		Parent:      symbol.VoidID,
		Scope:       symbol.EmptyScopeID,
	})
	if err != nil {
		return symbol.Void(), err
	}
	return w.Store.Symbols().GetInfo(id), nil
}

// InferSymbolFromNode resolves the declared type at a declaration site
// (a type annotation, a field's type node, a parameter's type node): it
// is a thin synonym for FindSymbolByTypeNode, kept distinct per §4.5's
// two-entry-point contract so callers reading this package's API see
// the declared/value split spec.md names explicitly.
func (w *Walker) InferSymbolFromNode(filePath string, node ast.Node, src ast.SourceText) (symbol.Symbol, error) {
	return w.FindSymbolByTypeNode(filePath, node, src)
}

// InferValueTypeFromNode infers the type an expression node evaluates
// to, dispatching on the node's own kind rather than on a type-node
// kind. Falls back to symbol.Void() for node kinds it doesn't
// recognize, per the malformed-AST policy (§7): absence here is never a
// panic, only a signal the caller may or may not choose to report.
func (w *Walker) InferValueTypeFromNode(filePath string, node ast.Node, src ast.SourceText) (symbol.Symbol, error) {
	if node.IsNull() {
		return symbol.Void(), nil
	}

	switch node.TypeName() {
	case "identifier":
		return w.Store.FindSymbol(filePath, "", node.Text(src))

	case "selector_expression":
		operand := node.ChildByFieldName("operand")
		field := node.ChildByFieldName("field")
		if !operand.IsNull() && !field.IsNull() {
			if base, err := w.InferValueTypeFromNode(filePath, operand, src); err == nil && !base.IsVoid() {
				if member, err := w.FindMemberSymbol(filePath, base, field.Text(src)); err == nil {
					return member, nil
				}
			}
		}
		// The operand wasn't a value after all; treat the whole
		// expression as a module-qualified name (pkg.Name).
		name := node.Text(src)
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			return w.Store.FindSymbol(filePath, name[:idx], name[idx+1:])
		}
		return w.Store.FindSymbol(filePath, "", name)

	case "call_expression":
		fn, err := w.InferValueTypeFromNode(filePath, node.ChildByFieldName("function"), src)
		if err != nil || fn.IsVoid() {
			return symbol.Void(), err
		}
		return w.Store.Symbols().GetInfo(fn.ReturnSym), nil

	case "index_expression":
		base, err := w.InferValueTypeFromNode(filePath, node.ChildByFieldName("operand"), src)
		if err != nil || base.IsVoid() || len(base.Children) == 0 {
			return symbol.Void(), err
		}
		elemID := base.Children[len(base.Children)-1]
		return w.Store.Symbols().GetInfo(elemID), nil

	case "unary_expression":
		operand := node.ChildByFieldName("operand")
		operandType, err := w.InferValueTypeFromNode(filePath, operand, src)
		if err != nil || operandType.IsVoid() {
			return symbol.Void(), err
		}
		// "&x"/"*x" operate on x's declared type, not on x's own
		// variable/field/function symbol — dereference through
		// return_sym the way Resolver.ResolveWith does for a waiter's
		// dependency before inspecting its kind.
		if operandType.Kind.IsReturnable() {
			if declared := w.Store.Symbols().GetInfo(operandType.ReturnSym); !declared.IsVoid() {
				operandType = declared
			}
		}
		switch w.unaryOperator(node, operand, src) {
		case "&":
			// §9: "count_ptr depth cap is implicit in the callers: the
			// unary-& rule rejects operands whose pointer depth already
			// exceeds 2."
			if w.ptrDepth(operandType) > 2 {
				return symbol.Void(), nil
			}
			return w.refWrap(filePath, operandType)
		case "*":
			if operandType.Kind == symbol.KindRef {
				return w.Store.Symbols().GetInfo(operandType.Parent), nil
			}
			return symbol.Void(), nil
		default:
			return operandType, nil
		}

	case "composite_literal":
		return w.FindSymbolByTypeNode(filePath, node.ChildByFieldName("type"), src)

	case "type_conversion_expression", "type_assertion_expression":
		return w.FindSymbolByTypeNode(filePath, node.ChildByFieldName("type"), src)

	default:
		return symbol.Void(), nil
	}
}

// FindMemberSymbol looks up a field or method named name on base,
// dereferencing base through its declared type first when returnable.
// When the resolved type has no own member of that name and it is a
// derived container/wrapper kind, the lookup is redirected to the
// corresponding builtin base symbol per base_symbol_locations, so that
// e.g. a method call on a "[]string" value resolves against the builtin
// array type.
func (w *Walker) FindMemberSymbol(filePath string, base symbol.Symbol, name string) (symbol.Symbol, error) {
	if base.Kind.IsReturnable() {
		if declared := w.Store.Symbols().GetInfo(base.ReturnSym); !declared.IsVoid() {
			base = declared
		}
	}
	if member, _, ok := w.Store.Symbols().FindSymbolByName(base.Children, name); ok {
		return member, nil
	}
	if loc, ok := w.Store.BaseSymbolLocation(base.Kind); ok {
		if baseSym, err := w.Store.FindSymbol(filePath, loc.ModuleName, loc.SymbolName); err == nil {
			if member, _, ok := w.Store.Symbols().FindSymbolByName(baseSym.Children, name); ok {
				return member, nil
			}
		}
	}
	return symbol.Void(), &store.NotFoundError{What: fmt.Sprintf("member %s of %s", name, base.Name)}
}

// unaryOperator recovers a unary_expression's operator token: the
// grammar binds the operand to a field but leaves the operator as a
// bare leading token, so this reads the source slice before the
// operand's start byte instead of asking for a named field.
func (w *Walker) unaryOperator(node, operand ast.Node, src ast.SourceText) string {
	if node.IsNull() || operand.IsNull() {
		return ""
	}
	full := node.Text(src)
	prefixLen := int(operand.StartByte()) - int(node.StartByte())
	if prefixLen <= 0 || prefixLen > len(full) {
		return ""
	}
	return strings.TrimSpace(full[:prefixLen])
}

// ptrDepth counts how many nested "ref" wrappers sym already carries —
// 0 for a non-pointer type, 1 for "&T", 2 for "&&T", and so on.
func (w *Walker) ptrDepth(sym symbol.Symbol) int {
	depth := 0
	for sym.Kind == symbol.KindRef && depth < 64 {
		depth++
		sym = w.Store.Symbols().GetInfo(sym.Parent)
	}
	return depth
}

// refWrap returns the "&T" symbol for inner, resolving an existing one
// through find_symbol before synthesizing a new placeholder — mirroring
// synthesizePlaceholder's KindRef case, but starting from an
// already-resolved symbol rather than a type node.
func (w *Walker) refWrap(filePath string, inner symbol.Symbol) (symbol.Symbol, error) {
	name := "&" + inner.Name
	module := moduleDirOf(w.Store.FilePath(inner.FileID))

	if sym, err := w.Store.FindSymbol(filePath, module, name); err == nil {
		return sym, nil
	}

	fileID := w.Store.OpenFile(module + "/placeholder.vv")
	id, err := w.Store.RegisterSymbol(symbol.Symbol{
		Name:        name,
		Kind:        symbol.KindRef,
		FileID:      fileID,
		FileVersion: 0,
		Language:    symbol.LangNative,
		Parent:      inner.ID,
		ReturnSym:   symbol.VoidID,
		Scope:       symbol.EmptyScopeID,
	})
	if err != nil {
		return symbol.Void(), err
	}
	return w.Store.Symbols().GetInfo(id), nil
}
