package symbol

import (
	"fmt"
	"strings"

	"github.com/SirZenith/vls/internal/ast"
)

// InfoLoader is the capability set Symbol (and scope.Tree) query
// helpers need from whatever owns the arena. The SymbolManager in
// internal/store provides the real one; tests can provide fakes.
type InfoLoader interface {
	GetInfo(id ID) Symbol
	GetInfos(ids []ID) []Symbol
	FindSymbolByName(ids []ID, name string) (Symbol, int, bool)
	GetSymbolName(s Symbol) string
	GetSymbolRange(id ID) ast.Range
}

// GetChildren resolves s.Children into Symbol values.
func (s Symbol) GetChildren(loader InfoLoader) []Symbol {
	return loader.GetInfos(s.Children)
}

// GetReturn resolves s.ReturnSym, yielding the void sentinel when none
// is set.
func (s Symbol) GetReturn(loader InfoLoader) Symbol {
	return loader.GetInfo(s.ReturnSym)
}

// DebugStr renders s for logs and test failure messages: kind, name,
// the resolved return type, and the children's names.
func (s Symbol) DebugStr(loader InfoLoader) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", s.Kind, loader.GetSymbolName(s))
	if ret := s.GetReturn(loader); !ret.IsVoid() {
		fmt.Fprintf(&b, " -> %s", loader.GetSymbolName(ret))
	}
	if len(s.Children) > 0 {
		names := make([]string, 0, len(s.Children))
		for _, child := range s.GetChildren(loader) {
			names = append(names, loader.GetSymbolName(child))
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(names, ", "))
	}
	return b.String()
}
