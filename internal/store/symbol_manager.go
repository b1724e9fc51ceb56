package store

import (
	"path"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/symbol"
)

// SymbolManager is the arena of symbols (component C): an append-only
// slice, a module→ids index, and every mutation/query entry point that
// doesn't need the rest of Store. It mirrors the teacher's
// BatchedStore — an in-memory slice with map-based secondary indexes —
// generalized from per-file SQLite row buffering to the permanent,
// cycle-safe arena the quartet requires.
type SymbolManager struct {
	symbols       []symbol.Symbol
	moduleSymbols map[string][]symbol.ID

	// rowIndex supports the same-row rename detection of register_symbol
	// step 3: (file_id, start_row) -> id, populated for every top-level
	// registration regardless of kind.
	rowIndex map[rowKey]symbol.ID
}

type rowKey struct {
	fileID ast.FileID
	row    uint32
}

var _ symbol.InfoLoader = (*SymbolManager)(nil)

// NewSymbolManager returns an empty arena.
func NewSymbolManager() *SymbolManager {
	return &SymbolManager{
		moduleSymbols: make(map[string][]symbol.ID),
		rowIndex:      make(map[rowKey]symbol.ID),
	}
}

// IsValidID reports 0 ≤ id < len(symbols).
func (m *SymbolManager) IsValidID(id symbol.ID) bool {
	return id >= 0 && int(id) < len(m.symbols)
}

// GetInfo returns a copy of the symbol at id, or the void sentinel if
// id is invalid.
func (m *SymbolManager) GetInfo(id symbol.ID) symbol.Symbol {
	if !m.IsValidID(id) {
		return symbol.Void()
	}
	return m.symbols[id]
}

// GetInfoByName linearly scans module_symbols[modulePath] for name,
// returning the void sentinel when absent.
func (m *SymbolManager) GetInfoByName(modulePath, name string) symbol.Symbol {
	for _, id := range m.moduleSymbols[modulePath] {
		if s := m.GetInfo(id); s.Name == name {
			return s
		}
	}
	return symbol.Void()
}

// GetInfos resolves each id in ids through GetInfo; invalid ids read as
// the void sentinel, keeping positions aligned with the input.
func (m *SymbolManager) GetInfos(ids []symbol.ID) []symbol.Symbol {
	out := make([]symbol.Symbol, len(ids))
	for i, id := range ids {
		out[i] = m.GetInfo(id)
	}
	return out
}

// GetSymbolName returns s's display name, or "void" for the sentinel.
// Part of the symbol.InfoLoader capability set.
func (m *SymbolManager) GetSymbolName(s symbol.Symbol) string {
	if s.IsVoid() {
		return "void"
	}
	return s.Name
}

// GetSymbolRange returns the source range of the symbol at id, or the
// zero range for an invalid id.
func (m *SymbolManager) GetSymbolRange(id symbol.ID) ast.Range {
	return m.GetInfo(id).Range
}

// FindSymbolByName linearly scans the given id list, skipping invalid
// ids, for a symbol named name. ok is false when none is found.
func (m *SymbolManager) FindSymbolByName(ids []symbol.ID, name string) (sym symbol.Symbol, index int, ok bool) {
	for i, id := range ids {
		if !m.IsValidID(id) {
			continue
		}
		if s := m.symbols[id]; s.Name == name {
			return s, i, true
		}
	}
	return symbol.Symbol{}, -1, false
}

// GetSymbolsByFileID returns all top-level and transitively-reachable
// child symbol ids (by Children) in modulePath whose FileID matches,
// de-duplicating by name at each recursion level — mirrors the
// walker's filter_by_file_id helper referenced in spec §4.1.
func (m *SymbolManager) GetSymbolsByFileID(modulePath string, fileID ast.FileID) []symbol.ID {
	return m.filterByFileID(m.moduleSymbols[modulePath], fileID)
}

func (m *SymbolManager) filterByFileID(ids []symbol.ID, fileID ast.FileID) []symbol.ID {
	seen := make(map[string]bool, len(ids))
	var out []symbol.ID
	for _, id := range ids {
		s := m.GetInfo(id)
		if s.IsVoid() || seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		if s.FileID == fileID {
			out = append(out, id)
		}
		out = append(out, m.filterByFileID(s.Children, fileID)...)
	}
	return out
}

// CreateNewSymbolWith appends info as a new arena slot and returns its
// id (the previous arena length), with the id field stamped onto the
// stored copy.
func (m *SymbolManager) CreateNewSymbolWith(info symbol.Symbol) symbol.ID {
	id := symbol.ID(len(m.symbols))
	info.ID = id
	m.symbols = append(m.symbols, info)
	return id
}

// AddSymbolToModule appends id to modulePath's index, without
// deduplication — see the add_symbol_to_module dedup note in DESIGN.md.
func (m *SymbolManager) AddSymbolToModule(modulePath string, id symbol.ID) {
	m.moduleSymbols[modulePath] = append(m.moduleSymbols[modulePath], id)
}

// ModuleSymbols returns the id list registered for modulePath.
func (m *SymbolManager) ModuleSymbols(modulePath string) []symbol.ID {
	return m.moduleSymbols[modulePath]
}

// dropModule removes modulePath's index entirely (used by Store.Delete).
// Arena slots remain valid but become unreachable — dead, not reclaimed.
func (m *SymbolManager) dropModule(modulePath string) {
	delete(m.moduleSymbols, modulePath)
}

// dirOf returns the module directory of a slash-separated file path.
// Uses package "path" (not "filepath") because module/type names are
// guaranteed "/"-free logical identifiers, not OS paths.
func dirOf(filePath string) string {
	return path.Dir(filePath)
}

// GetIdent returns the resolver key for sym: "${dir(file_path)}/${name}".
func (m *SymbolManager) GetIdent(filePath func(ast.FileID) string, sym symbol.Symbol) string {
	return dirOf(filePath(sym.FileID)) + "/" + sym.Name
}

// updateSymbol copies semantic fields from info over the existing
// record at id, preserving id, is_top_level, and is_const (§4.2).
func (m *SymbolManager) updateSymbol(id symbol.ID, info symbol.Symbol) symbol.Symbol {
	existing := m.symbols[id]
	updated := info
	updated.ID = existing.ID
	updated.IsTopLevel = existing.IsTopLevel
	updated.IsConst = existing.IsConst
	m.symbols[id] = updated
	return updated
}

// updateModuleSymbol applies the update_module_symbol policy of §4.2.
func (m *SymbolManager) updateModuleSymbol(id symbol.ID, info symbol.Symbol) (symbol.Symbol, error) {
	existing := m.symbols[id]
	if existing.Kind != symbol.KindPlaceholder {
		definedLatter := existing.FileID == info.FileID && info.Range.StartPoint.Row > existing.Range.StartPoint.Row
		notSymbolUpdate := existing.Kind == info.Kind && existing.FileID == info.FileID && existing.FileVersion >= info.FileVersion
		if definedLatter {
			return existing, &ConflictError{Reason: ReasonDefinedLatter, Name: info.Name, FileID: info.FileID, Range: info.Range, Existing: existing.Name}
		}
		if notSymbolUpdate {
			return existing, &ConflictError{Reason: ReasonNotSymbolUpdate, Name: info.Name, FileID: info.FileID, Range: info.Range, Existing: existing.Name}
		}
	}
	return m.updateSymbol(id, info), nil
}

// UpdateLocalSymbol applies the update_local_symbol policy of §4.2:
// rejects stale re-registrations and otherwise updates only the local
// subset of fields, leaving kind/parent/children/scope untouched
// because local scope symbols never change those dimensions.
func (m *SymbolManager) UpdateLocalSymbol(id symbol.ID, info symbol.Symbol) error {
	existing := m.symbols[id]
	if existing.FileVersion >= info.FileVersion {
		return &ConflictError{Reason: ReasonStaleLocal, Name: info.Name, FileID: info.FileID, Range: info.Range, Existing: existing.Name}
	}
	existing.Name = info.Name
	existing.Access = info.Access
	existing.Range = info.Range
	existing.FileID = info.FileID
	existing.FileVersion = info.FileVersion
	existing.ReturnSym = info.ReturnSym
	m.symbols[id] = existing
	return nil
}

// AddChild appends childID to parentID's children, rejecting a child
// whose name already appears there: children names are unique within a
// symbol. Container type-params go through AddChildAllowDuplicated
// instead.
func (m *SymbolManager) AddChild(parentID, childID symbol.ID) error {
	if !m.IsValidID(parentID) || !m.IsValidID(childID) {
		return &NotFoundError{What: "symbol"}
	}
	parent := m.symbols[parentID]
	child := m.symbols[childID]
	if parent.HasChildNamed(child.Name, m.GetInfo) {
		return &ConflictError{Reason: ReasonDuplicateChild, Name: child.Name, FileID: child.FileID, Range: child.Range, Existing: parent.Name}
	}
	parent.Children = append(parent.Children, childID)
	m.symbols[parentID] = parent
	return nil
}

// AddChildAllowDuplicated appends childID without the name-uniqueness
// check, for container type-parameters (map key/value, multi_return and
// variadic components) where repeated names are structural, not a
// collision.
func (m *SymbolManager) AddChildAllowDuplicated(parentID, childID symbol.ID) {
	if !m.IsValidID(parentID) || !m.IsValidID(childID) {
		return
	}
	parent := m.symbols[parentID]
	parent.Children = append(parent.Children, childID)
	m.symbols[parentID] = parent
}

// Patch applies fn to the stored copy at id in place, for callers (test
// setup wiring a symbol's return_sym or children) that need direct
// structural access outside the
// update_module_symbol/update_local_symbol policies, which don't apply
// to a symbol nothing has registered a second version of yet.
func (m *SymbolManager) Patch(id symbol.ID, fn func(*symbol.Symbol)) {
	if !m.IsValidID(id) {
		return
	}
	s := m.symbols[id]
	fn(&s)
	m.symbols[id] = s
}

func (m *SymbolManager) recordRow(id symbol.ID, sym symbol.Symbol) {
	m.rowIndex[rowKey{fileID: sym.FileID, row: sym.Range.StartPoint.Row}] = id
}
