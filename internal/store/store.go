// Package store implements the persistent semantic graph: the
// SymbolManager arena (symbol_manager.go), the ScopeManager arena
// (scope_manager.go), the Resolver (resolver.go), and the Store
// coordinator in this file — components C, D, E, F of the spec.
//
// The whole package assumes single-threaded, serial access (spec §5):
// no internal locking is provided, mirroring the teacher's own
// BatchedStore id-allocation idiom but without its mutex, since the
// non-goal "no thread-parallel analysis" removes the need for one.
package store

import (
	"fmt"
	"path"
	"strings"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/diagnostic"
	"github.com/SirZenith/vls/internal/symbol"
)

// Import mirrors the importer's product (spec §6, consumed): one
// imported module as seen from every file in its importing directory.
type Import struct {
	ModuleName string
	Path       string
	// Aliases maps an importing file's base name to its alias->original map.
	Aliases map[string]map[string]string
	// Symbols maps an importing file's base name to the set of names it
	// selectively imports (empty/nil means "import everything").
	Symbols map[string]map[string]bool
	// Ranges maps an importing file's base name to the import statement's
	// source ranges, for delete_symbol_at_node's windowed pruning.
	Ranges map[string][]ast.Range
}

// BaseSymbolLocation redirects a derived-type lookup to its builtin base
// symbol, per spec §3 ("base_symbol_locations").
type BaseSymbolLocation struct {
	ModuleName string
	SymbolName string
}

// Store is the top-level coordinator (component F): the file-path
// arena, imports, auto-imports, binded-symbol table, base-symbol table,
// dependency tree, and deletion — everything SymbolManager/ScopeManager/
// Resolver need a home for but don't own themselves.
type Store struct {
	symbols *SymbolManager
	scopes  *ScopeManager
	resolver *Resolver

	filePaths []string // append-only; index is file_id. Reuse is by value.

	imports     map[string][]*Import // dir -> imports declared by files in dir
	autoImports map[string]string    // module_name -> dir

	bindedSymbolLocations map[string]string                 // foreign symbol name -> module path
	baseSymbolLocations   map[symbol.Kind]BaseSymbolLocation // derived kind -> builtin base symbol location

	depGraph *depGraph

	anonCounter int // per-store counter for #anon_<n> function types
}

// New returns an empty Store with its three arenas wired together.
func New() *Store {
	sym := NewSymbolManager()
	return &Store{
		symbols:               sym,
		scopes:                NewScopeManager(sym),
		resolver:               NewResolver(),
		imports:               make(map[string][]*Import),
		autoImports:           make(map[string]string),
		bindedSymbolLocations: make(map[string]string),
		baseSymbolLocations:   make(map[symbol.Kind]BaseSymbolLocation),
		depGraph:              newDepGraph(),
	}
}

// Symbols exposes the SymbolManager for query-surface packages
// (internal/infer, internal/builtin) that need raw arena access.
func (s *Store) Symbols() *SymbolManager { return s.symbols }

// Scopes exposes the ScopeManager for the same reason.
func (s *Store) Scopes() *ScopeManager { return s.scopes }

// ResolverTable exposes the Resolver for the same reason.
func (s *Store) ResolverTable() *Resolver { return s.resolver }

// --- file-path arena ---

// OpenFile returns the file_id for filePath, registering it (and
// creating its root scope is the caller's job via Scopes().
// GetScopeFromNode) if it hasn't been seen before. Reuse is by value:
// re-opening the same path returns the same id.
func (s *Store) OpenFile(filePath string) ast.FileID {
	for i, p := range s.filePaths {
		if p == filePath {
			return ast.FileID(i)
		}
	}
	id := ast.FileID(len(s.filePaths))
	s.filePaths = append(s.filePaths, filePath)
	return id
}

// HasFilePath reports whether filePath has been opened.
func (s *Store) HasFilePath(filePath string) bool {
	for _, p := range s.filePaths {
		if p == filePath {
			return true
		}
	}
	return false
}

// FilePath returns the path registered for fileID, or "" if invalid.
func (s *Store) FilePath(fileID ast.FileID) string {
	if fileID < 0 || int(fileID) >= len(s.filePaths) {
		return ""
	}
	return s.filePaths[fileID]
}

// IsModule reports whether dir has any registered symbols.
func (s *Store) IsModule(dir string) bool {
	return len(s.symbols.ModuleSymbols(dir)) > 0
}

// --- per-request context ---

// Context is Store.With's per-request handle: a file_id plus a
// back-reference to the store, matching spec §6's "Store.with(params)".
type Context struct {
	Store  *Store
	FileID ast.FileID
}

// With opens (or reuses) filePath and returns a Context scoped to it.
func (s *Store) With(filePath string) *Context {
	return &Context{Store: s, FileID: s.OpenFile(filePath)}
}

// --- imports / auto-imports / binded locations ---

// RegisterImport records imp under dir, the directory of the importing
// files it describes.
func (s *Store) RegisterImport(dir string, imp *Import) {
	s.imports[dir] = append(s.imports[dir], imp)
	s.depGraph.AddEdge(dir, imp.Path)
}

// RegisterAutoImport wires an automatically-available module (at
// minimum "builtin") under alias, per spec §6: "the importer must call
// Store.register_auto_import(import, alias) for bootstrap modules."
func (s *Store) RegisterAutoImport(alias string, dir string) {
	s.autoImports[alias] = dir
}

// RegisterBindedSymbolLocation records a foreign (C./JS.) symbol's home
// module, used by find_symbol step 3.
func (s *Store) RegisterBindedSymbolLocation(name, modulePath string) {
	s.bindedSymbolLocations[name] = modulePath
}

// RegisterBaseSymbolLocation records where the builtin base symbol for
// a derived kind lives (array/map/chan/IError), used by the builtin
// bootstrapper and the type-inference walker when wiring derived types.
func (s *Store) RegisterBaseSymbolLocation(kind symbol.Kind, loc BaseSymbolLocation) {
	s.baseSymbolLocations[kind] = loc
}

// BaseSymbolLocation returns the registered base location for kind, if any.
func (s *Store) BaseSymbolLocation(kind symbol.Kind) (BaseSymbolLocation, bool) {
	loc, ok := s.baseSymbolLocations[kind]
	return loc, ok
}

// IsImported reports whether moduleName resolves to some import (either
// explicit, in importingFileDir, or auto) — used by callers deciding
// whether a bare identifier could plausibly be a module-qualified type.
func (s *Store) IsImported(importingFileDir, moduleName string) bool {
	for _, imp := range s.imports[importingFileDir] {
		if imp.ModuleName == moduleName {
			return true
		}
	}
	_, ok := s.autoImports[moduleName]
	return ok
}

func (s *Store) isAutoImportTarget(dir string) bool {
	for _, d := range s.autoImports {
		if d == dir {
			return true
		}
	}
	return false
}

// --- register_symbol: central entry point (§4.1) ---

// RegisterSymbol implements the central register_symbol entry point: it
// looks up a same-named (or same-row, for renames) candidate in info's
// module, updates it in place when the update policy allows, otherwise
// inserts a new symbol — then always wakes any resolver waiters on the
// final symbol's identifier.
func (s *Store) RegisterSymbol(info symbol.Symbol) (symbol.ID, error) {
	modulePath := dirOf(s.FilePath(info.FileID))

	candidate := s.symbols.GetInfoByName(modulePath, info.Name)
	found := !candidate.IsVoid()

	if !found && info.Kind != symbol.KindPlaceholder && !info.Kind.IsDerivedType() {
		if id, ok := s.symbols.rowIndex[rowKey{fileID: info.FileID, row: info.Range.StartPoint.Row}]; ok {
			if c := s.symbols.GetInfo(id); !c.IsVoid() {
				candidate, found = c, true
			}
		}
	}

	var id symbol.ID
	var updateErr error

	if found && info.Kind != symbol.KindTypedef && candidate.Kind != symbol.KindFunctionType {
		id = candidate.ID
		_, updateErr = s.symbols.updateModuleSymbol(id, info)
		if updateErr == nil {
			s.symbols.recordRow(id, s.symbols.GetInfo(id))
		}
	} else {
		id = s.symbols.CreateNewSymbolWith(info)
		s.symbols.AddSymbolToModule(modulePath, id)
		s.symbols.recordRow(id, info)
		if info.Language != symbol.LangNative && info.Language != "" {
			s.RegisterBindedSymbolLocation(info.Name, modulePath)
		}
	}

	final := s.symbols.GetInfo(id)
	ident := s.symbols.GetIdent(s.FilePath, final)
	s.resolver.ResolveWith(s.symbols, ident, final)

	return id, updateErr
}

// GetIdentOfSymbol is the Produced-surface wrapper around
// SymbolManager.GetIdent, taking a symbol id instead of a value.
func (s *Store) GetIdentOfSymbol(id symbol.ID) string {
	return s.symbols.GetIdent(s.FilePath, s.symbols.GetInfo(id))
}

// GetSymbolsByFilePath is the Produced-surface query wrapping
// SymbolManager.GetSymbolsByFileID with path resolution.
func (s *Store) GetSymbolsByFilePath(filePath string) []symbol.ID {
	fileID := ast.NoFileID
	for i, p := range s.filePaths {
		if p == filePath {
			fileID = ast.FileID(i)
			break
		}
	}
	if fileID == ast.NoFileID {
		return nil
	}
	return s.symbols.GetSymbolsByFileID(dirOf(filePath), fileID)
}

// --- find_symbol: lookup resolution order (§4.6) ---

// FindSymbol implements the five-step lookup order of §4.6.
func (s *Store) FindSymbol(filePath, moduleName, name string) (symbol.Symbol, error) {
	fileDir := dirOf(filePath)
	fileName := path.Base(filePath)

	// Step 1: explicit import match, else same-directory module.
	modulePath := fileDir
	if moduleName != "" {
		if imp := s.matchImport(fileDir, moduleName); imp != nil {
			modulePath = imp.Path
		}
	}
	if sym := s.symbols.GetInfoByName(modulePath, name); !sym.IsVoid() {
		return sym, nil
	}

	// Step 2: auto-imports.
	if dir, ok := s.autoImports[moduleName]; ok {
		if sym := s.symbols.GetInfoByName(dir, name); !sym.IsVoid() {
			return sym, nil
		}
	}

	// Step 3: binded (C./JS.) symbols.
	if strings.HasPrefix(name, "C.") || strings.HasPrefix(name, "JS.") {
		if dir, ok := s.bindedSymbolLocations[name]; ok {
			if sym := s.symbols.GetInfoByName(dir, name); !sym.IsVoid() {
				return sym, nil
			}
		}
	}

	// Step 4: selectively-imported symbols.
	for _, imp := range s.imports[fileDir] {
		if set, ok := imp.Symbols[fileName]; ok && set[name] {
			if sym := s.symbols.GetInfoByName(imp.Path, name); !sym.IsVoid() {
				return sym, nil
			}
		}
	}

	return symbol.Symbol{}, &NotFoundError{What: fmt.Sprintf("%s (module %q) in %s", name, moduleName, filePath)}
}

func (s *Store) matchImport(dir, moduleName string) *Import {
	for _, imp := range s.imports[dir] {
		if imp.ModuleName == moduleName {
			return imp
		}
	}
	return nil
}

// --- deletion (§4.7) ---

// Delete removes dir's module symbols and import records, recursively
// deleting its now-unreferenced dependencies. No-ops when dir is an
// auto-import target or still has external dependents.
func (s *Store) Delete(dir string, excluded ...string) {
	if s.isAutoImportTarget(dir) {
		return
	}
	if s.depGraph.HasDependents(dir, excluded...) {
		return
	}
	for _, dep := range s.depGraph.GetAllDependencies(dir) {
		s.Delete(dep, append(append([]string{}, excluded...), dir)...)
	}
	s.depGraph.Delete(dir)
	s.symbols.dropModule(dir)
	delete(s.imports, dir)
}

// DeleteSymbolAtNode implements §4.7's delete_symbol_at_node: walks the
// top-level declarations of root and removes the symbols of those whose
// start row falls within [startLine, endLine]: consts, globals,
// functions, interfaces, enums, typedefs, structs, and imports. Methods
// (function declarations with a receiver) are removed from their
// receiver type's children list rather than the module index; import
// declarations prune the matching Import record's per-file entries.
func (s *Store) DeleteSymbolAtNode(filePath string, root ast.Node, src ast.SourceText, startLine, endLine uint32) {
	fileID := s.OpenFile(filePath)
	modulePath := dirOf(filePath)
	fileName := path.Base(filePath)

	for i := 0; i < root.NamedChildCount(); i++ {
		decl := root.NamedChild(i)
		row := decl.Range().StartPoint.Row
		if row < startLine || row > endLine {
			continue
		}
		switch decl.TypeName() {
		case "function_declaration", "method_declaration":
			receiver := decl.ChildByFieldName("receiver")
			if !receiver.IsNull() && receiver.NamedChildCount() > 0 {
				s.deleteMethodAtRow(fileID, row)
				continue
			}
			s.DeleteTopLevelSymbolsByRows(fileID, row, row)

		case "const_declaration", "global_var_declaration", "var_declaration",
			"interface_declaration", "enum_declaration", "struct_declaration",
			"type_declaration", "typedef_declaration":
			s.DeleteTopLevelSymbolsByRows(fileID, row, decl.Range().EndPoint.Row)

		case "import_declaration":
			s.pruneImport(modulePath, fileName, decl.Range())
		}
	}
}

// deleteMethodAtRow removes the method declared at (fileID, row) from
// its receiver type's children list, leaving the module index alone:
// methods are reachable through their receiver, not the module list.
func (s *Store) deleteMethodAtRow(fileID ast.FileID, row uint32) {
	id, ok := s.symbols.rowIndex[rowKey{fileID: fileID, row: row}]
	if !ok {
		return
	}
	sym := s.symbols.GetInfo(id)
	if sym.IsVoid() {
		return
	}
	if sym.Parent != symbol.VoidID {
		s.removeChild(sym.Parent, id)
	}
	if sym.Language != symbol.LangNative && sym.Language != "" {
		delete(s.bindedSymbolLocations, sym.Name)
	}
}

// pruneImport drops fileName's entries (ranges, aliases, selective
// symbols) from every Import record under dir whose recorded range for
// that file overlaps declRange's rows; an Import left with no ranges at
// all is removed outright, along with its dependency edge.
func (s *Store) pruneImport(dir, fileName string, declRange ast.Range) {
	var kept []*Import
	for _, imp := range s.imports[dir] {
		ranges := imp.Ranges[fileName]
		var keptRanges []ast.Range
		for _, r := range ranges {
			if r.StartPoint.Row > declRange.EndPoint.Row || r.EndPoint.Row < declRange.StartPoint.Row {
				keptRanges = append(keptRanges, r)
			}
		}
		if len(keptRanges) == len(ranges) {
			kept = append(kept, imp)
			continue
		}
		if len(keptRanges) > 0 {
			imp.Ranges[fileName] = keptRanges
			kept = append(kept, imp)
			continue
		}
		delete(imp.Ranges, fileName)
		delete(imp.Aliases, fileName)
		delete(imp.Symbols, fileName)
		if len(imp.Ranges) > 0 {
			kept = append(kept, imp)
			continue
		}
		s.depGraph.RemoveEdge(dir, imp.Path)
	}
	s.imports[dir] = kept
}

// DeleteTopLevelSymbolsByRows removes the top-level symbols of fileID
// whose start row falls within [startLine, endLine]. Methods (functions
// with a receiver, i.e. Parent != VoidID) are removed from their
// receiver type's children instead of the module index.
// Binded-symbol-location entries for removed foreign symbols are pruned
// too. DeleteSymbolAtNode dispatches here per declaration; editor-event
// handlers without a parse tree at hand may call it directly.
func (s *Store) DeleteTopLevelSymbolsByRows(fileID ast.FileID, startLine, endLine uint32) {
	modulePath := dirOf(s.FilePath(fileID))
	ids := s.symbols.ModuleSymbols(modulePath)

	var kept []symbol.ID
	for _, id := range ids {
		sym := s.symbols.GetInfo(id)
		if sym.FileID != fileID || sym.Range.StartPoint.Row < startLine || sym.Range.StartPoint.Row > endLine {
			kept = append(kept, id)
			continue
		}
		if sym.Language != symbol.LangNative && sym.Language != "" {
			delete(s.bindedSymbolLocations, sym.Name)
		}
		if sym.Kind == symbol.KindFunction && sym.Parent != symbol.VoidID {
			s.removeChild(sym.Parent, id)
			kept = append(kept, id)
		}
	}
	s.symbols.moduleSymbols[modulePath] = kept
}

func (s *Store) removeChild(parentID, childID symbol.ID) {
	parent := s.symbols.GetInfo(parentID)
	if parent.IsVoid() {
		return
	}
	var kept []symbol.ID
	for _, id := range parent.Children {
		if id != childID {
			kept = append(kept, id)
		}
	}
	parent.Children = kept
	s.symbols.updateSymbol(parentID, parent)
}

// --- anonymous function-type naming ---

// DocstringsFor returns the docstrings carried by id, or nil if id is
// invalid. A natural companion to GetIdentOfSymbol: register_symbol
// preserves Docstrings through updateSymbol the same way Name/Range are
// preserved, so this query stays live across edits instead of only
// reflecting the symbol's first registration.
func (s *Store) DocstringsFor(id symbol.ID) []string {
	return s.symbols.GetInfo(id).Docstrings
}

// NextAnonName returns the next "#anon_<n>" name, n starting at 1.
func (s *Store) NextAnonName() string {
	s.anonCounter++
	return fmt.Sprintf("#anon_%d", s.anonCounter)
}

// Reporter is re-exported for callers that only import package store.
type Reporter = diagnostic.Reporter

// Report is re-exported for the same reason.
type Report = diagnostic.Report

const (
	KindNotice  = diagnostic.KindNotice
	KindWarning = diagnostic.KindWarning
	KindError   = diagnostic.KindError
)
