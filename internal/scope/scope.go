// Package scope holds the ScopeTree value type: a byte-range lexical
// region owning child scopes and local symbol ids. See internal/store
// for the arena (ScopeManager) that creates and mutates these.
package scope

import (
	"fmt"
	"strings"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/symbol"
)

// ID is a scope's position in the ScopeManager arena.
type ID int

// NoneID is the sentinel for "no scope" (e.g. a root scope's parent).
const NoneID ID = -1

// Tree is one lexical scope: a byte range containing local symbol ids
// and nested child scopes.
type Tree struct {
	ID       ID
	ParentID ID
	Children []ID
	Symbols  []symbol.ID

	FileID     ast.FileID
	StartByte  uint32
	EndByte    uint32
}

// DebugStr renders the scope for logs and test failure messages: its
// byte extent, local symbol names, and child count.
func (t Tree) DebugStr(loader symbol.InfoLoader) string {
	names := make([]string, 0, len(t.Symbols))
	for _, id := range t.Symbols {
		names = append(names, loader.GetSymbolName(loader.GetInfo(id)))
	}
	return fmt.Sprintf("scope [%d, %d] locals(%s) children=%d",
		t.StartByte, t.EndByte, strings.Join(names, ", "), len(t.Children))
}

// Contains reports whether byte offset p falls within [StartByte, EndByte]
// inclusive, per §4.3's containment rule.
func (t Tree) Contains(p uint32) bool {
	return t.StartByte <= p && p <= t.EndByte
}

// ContainsRange reports whether the scope's range contains both
// endpoints of [start, end].
func (t Tree) ContainsRange(start, end uint32) bool {
	return t.StartByte <= start && end <= t.EndByte
}
