// Package symbol holds the Symbol value type: an immutable-feeling
// record of one semantic entity (type, function, field, or variable),
// updated only through the manager that owns its arena. See
// internal/store for the arena and the update policy.
package symbol

import "github.com/SirZenith/vls/internal/ast"

// ID is a symbol's position in the SymbolManager arena (§3: "A valid id
// i satisfies 0 ≤ i < |symbols|").
type ID int

// VoidID is the sentinel referring to the built-in void_sym.
const VoidID ID = -1

// Language tags which front-end produced a binded (foreign) symbol.
type Language string

const (
	LangNative Language = "v"
	LangC      Language = "c"
	LangJS     Language = "js"
)

// Symbol is one semantic entity. Fields "parent" and "return_sym" are
// deliberately overloaded — see the role table in spec §3 data model:
// parent is the original type of a typedef, the receiver type of a
// method, or the inner type of ref/optional/result/chan; return_sym is
// the return type of a function or the declared type of a
// variable/field; children are type-parameters, function parameters,
// struct/interface members, enum variants, or multi-return members,
// depending on Kind.
type Symbol struct {
	ID   ID
	Name string
	Kind Kind

	Access Access
	Range  ast.Range

	Language Language

	IsTopLevel            bool
	IsConst               bool
	GenericPlaceholderLen int
	InterfaceChildrenLen  int

	FileID      ast.FileID
	FileVersion int64
	// Scope is the id of the scope that locally owns this symbol. Top
	// level symbols carry EmptyScopeID. Declared as a plain int (not
	// scope.ID) to avoid an import cycle between packages symbol and
	// scope, which both need to reference the other's id type.
	Scope int

	Docstrings []string

	Parent    ID
	ReturnSym ID
	Children  []ID
}

// EmptyScopeID is the sentinel scope id carried by top-level symbols.
const EmptyScopeID = -1

// Void returns the sentinel void symbol: the value get_info returns for
// an invalid id, and the zero-information placeholder that resolve_with
// ignores.
func Void() Symbol {
	return Symbol{ID: VoidID, Kind: KindVoid, Parent: VoidID, ReturnSym: VoidID, Scope: EmptyScopeID}
}

// IsVoid reports whether sym is the sentinel void symbol (by id or kind
// — a freshly zero-valued Symbol should also read as void).
func (s Symbol) IsVoid() bool {
	return s.ID == VoidID || s.Kind == KindVoid || s.Kind == ""
}

// HasChildNamed reports whether name already appears among s.Children,
// scanning by name only (ids are not known to the caller yet). Used by
// SymbolManager.AddChild's "children names are unique within a symbol"
// check (§3 invariants).
func (s Symbol) HasChildNamed(name string, lookup func(ID) Symbol) bool {
	for _, id := range s.Children {
		if lookup(id).Name == name {
			return true
		}
	}
	return false
}
