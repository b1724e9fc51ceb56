package store

import (
	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/scope"
	"github.com/SirZenith/vls/internal/symbol"
)

// ScopeManager is the arena of scopes (component D): a tree per file,
// reached through a file→root-scope index, plus the range-nesting
// search the walker and the local-symbol queries need.
type ScopeManager struct {
	scopes      []scope.Tree
	fileScopes  map[ast.FileID]scope.ID
	symbolByScope *SymbolManager
}

// NewScopeManager returns an empty arena. sym is the SymbolManager used
// to register and look up local symbols.
func NewScopeManager(sym *SymbolManager) *ScopeManager {
	return &ScopeManager{
		fileScopes:    make(map[ast.FileID]scope.ID),
		symbolByScope: sym,
	}
}

func (m *ScopeManager) isValidID(id scope.ID) bool {
	return id >= 0 && int(id) < len(m.scopes)
}

// GetScope returns a copy of the scope at id, or the zero Tree (with
// ParentID/ID set to NoneID) if id is invalid.
func (m *ScopeManager) GetScope(id scope.ID) scope.Tree {
	if !m.isValidID(id) {
		return scope.Tree{ID: scope.NoneID, ParentID: scope.NoneID}
	}
	return m.scopes[id]
}

func (m *ScopeManager) createScope(fileID ast.FileID, parent scope.ID, start, end uint32) scope.ID {
	id := scope.ID(len(m.scopes))
	m.scopes = append(m.scopes, scope.Tree{
		ID: id, ParentID: parent, FileID: fileID, StartByte: start, EndByte: end,
	})
	if parent != scope.NoneID && m.isValidID(parent) {
		p := m.scopes[parent]
		p.Children = append(p.Children, id)
		m.scopes[parent] = p
	}
	return id
}

// FileRootScope returns the root scope id for fileID, or NoneID if the
// file has never been opened.
func (m *ScopeManager) FileRootScope(fileID ast.FileID) scope.ID {
	if id, ok := m.fileScopes[fileID]; ok {
		return id
	}
	return scope.NoneID
}

// EnsureFileRootScope creates fileID's root scope (or widens an
// existing one to [start, end]) without requiring a parsed ast.Node —
// used directly by GetScopeFromNode's file-root case and by callers
// (tests, virtual placeholder files) that have a byte range but no
// tree-sitter node to hand.
func (m *ScopeManager) EnsureFileRootScope(fileID ast.FileID, start, end uint32) scope.ID {
	if existing := m.FileRootScope(fileID); existing != scope.NoneID {
		s := m.scopes[existing]
		s.StartByte, s.EndByte = start, end
		m.scopes[existing] = s
		return existing
	}
	id := m.createScope(fileID, scope.NoneID, start, end)
	m.fileScopes[fileID] = id
	return id
}

// innermost recursively descends into children whose range contains
// both [start, end], returning the smallest match, or NoneID.
func (m *ScopeManager) innermost(root scope.ID, start, end uint32) scope.ID {
	if !m.isValidID(root) {
		return scope.NoneID
	}
	s := m.scopes[root]
	if !s.ContainsRange(start, end) {
		return scope.NoneID
	}
	for _, childID := range s.Children {
		if found := m.innermost(childID, start, end); found != scope.NoneID {
			return found
		}
	}
	return root
}

// Innermost is the public form of §4.3's innermost(start, end): it
// walks from fileID's root scope and returns the smallest scope
// containing [start, end], or NoneID if the file has no root scope or
// none of its scopes contain the range.
func (m *ScopeManager) Innermost(fileID ast.FileID, start, end uint32) scope.ID {
	root := m.FileRootScope(fileID)
	if root == scope.NoneID {
		return scope.NoneID
	}
	return m.innermost(root, start, end)
}

// GetScopeFromNode implements §4.3's get_scope_from_node: if node is the
// file root, the file's root scope is created (or updated) to cover the
// node's byte range; otherwise it walks from the file root via
// Innermost and either reuses the found scope or, if that scope
// strictly contains the node's range, creates a new child scope.
func (m *ScopeManager) GetScopeFromNode(fileID ast.FileID, isFileRoot bool, node ast.Node) scope.ID {
	r := node.Range()
	if isFileRoot {
		return m.EnsureFileRootScope(fileID, r.StartByte, r.EndByte)
	}

	found := m.Innermost(fileID, r.StartByte, r.EndByte)
	if found == scope.NoneID {
		// No enclosing scope registered yet (shouldn't happen once the
		// file root exists, but fall back to creating one off the root).
		root := m.FileRootScope(fileID)
		return m.createScope(fileID, root, r.StartByte, r.EndByte)
	}
	foundScope := m.scopes[found]
	if foundScope.StartByte == r.StartByte && foundScope.EndByte == r.EndByte {
		return found
	}
	if r.StartByte < foundScope.StartByte || r.EndByte > foundScope.EndByte {
		return found // defensive: node isn't actually nested, reuse
	}
	return m.createScope(fileID, found, r.StartByte, r.EndByte)
}

// RegisterSymbol implements §4.3's scope-local register_symbol: update
// an existing same-named local, or create a new symbol and push its id
// into the scope's local list, growing the scope leftward if needed.
func (m *ScopeManager) RegisterSymbol(scopeID scope.ID, info symbol.Symbol) (symbol.ID, error) {
	if !m.isValidID(scopeID) {
		return symbol.VoidID, &NotFoundError{What: "scope"}
	}
	s := m.scopes[scopeID]
	if existing, _, ok := m.symbolByScope.FindSymbolByName(s.Symbols, info.Name); ok {
		if err := m.symbolByScope.UpdateLocalSymbol(existing.ID, info); err != nil {
			return existing.ID, err
		}
		m.growLeftward(scopeID, info.Range.StartByte)
		return existing.ID, nil
	}
	info.Scope = int(scopeID)
	id := m.symbolByScope.CreateNewSymbolWith(info)
	s = m.scopes[scopeID]
	s.Symbols = append(s.Symbols, id)
	m.scopes[scopeID] = s
	m.growLeftward(scopeID, info.Range.StartByte)
	return id, nil
}

func (m *ScopeManager) growLeftward(scopeID scope.ID, startByte uint32) {
	s := m.scopes[scopeID]
	if startByte < s.StartByte {
		s.StartByte = startByte
		m.scopes[scopeID] = s
	}
}

// RemoveSymbolsByLine implements §4.3's remove_symbols_by_line: deletes
// local symbol ids whose range falls within [startLine, endLine],
// recursing into children in reverse order so in-place deletion stays
// index-safe. A child scope that becomes fully empty is pruned from its
// parent. Returns true iff scopeID itself ends up with no symbols and
// no children.
func (m *ScopeManager) RemoveSymbolsByLine(scopeID scope.ID, startLine, endLine uint32) bool {
	if !m.isValidID(scopeID) {
		return true
	}
	s := m.scopes[scopeID]

	for i := len(s.Children) - 1; i >= 0; i-- {
		childID := s.Children[i]
		if m.RemoveSymbolsByLine(childID, startLine, endLine) {
			s.Children = append(s.Children[:i], s.Children[i+1:]...)
		}
	}

	kept := s.Symbols[:0:0]
	for _, symID := range s.Symbols {
		info := m.symbolByScope.GetInfo(symID)
		row := info.Range.StartPoint.Row
		if row >= startLine && row <= endLine {
			continue
		}
		kept = append(kept, symID)
	}
	s.Symbols = kept
	// The recursive calls above only write child scopes, so the local copy
	// s (with its pruned Children) is still current and is written back.
	m.scopes[scopeID] = s

	return len(s.Symbols) == 0 && len(s.Children) == 0
}

// GetSymbolsBefore implements §4.3's get_symbols_before: starting at
// Innermost(targetByte, targetByte), walk parents to the file root
// collecting every local id whose range ends at or before targetByte.
func (m *ScopeManager) GetSymbolsBefore(fileID ast.FileID, targetByte uint32) []symbol.ID {
	cur := m.Innermost(fileID, targetByte, targetByte)
	var out []symbol.ID
	for m.isValidID(cur) {
		s := m.scopes[cur]
		for _, symID := range s.Symbols {
			info := m.symbolByScope.GetInfo(symID)
			if info.Range.EndByte <= targetByte {
				out = append(out, symID)
			}
		}
		cur = s.ParentID
	}
	return out
}
