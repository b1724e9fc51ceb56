package store

import (
	"fmt"

	"github.com/SirZenith/vls/internal/ast"
	"github.com/SirZenith/vls/internal/diagnostic"
	"github.com/SirZenith/vls/internal/symbol"
)

// ResolutionInfo is one pending waiter on an identifier: a symbol whose
// return_sym is still void, recorded alongside enough context to
// produce a readable diagnostic once resolution fails or succeeds.
type ResolutionInfo struct {
	Index      int // position within a tuple/multi-return the waiter expects
	Branch     string
	BranchType string
	SymID      symbol.ID
	HasErr     bool
	ErrMsg     string
}

// Resolver is the deferred-dependency registry (component E): a map
// from a global identifier to its waiter list, with no callbacks and no
// threads — register_symbol is the single wake-point (§4.4).
type Resolver struct {
	waiters map[string][]ResolutionInfo
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{waiters: make(map[string][]ResolutionInfo)}
}

// Register appends info under ident unless a waiter with the same
// SymID is already registered there.
func (r *Resolver) Register(ident string, info ResolutionInfo) error {
	for _, w := range r.waiters[ident] {
		if w.SymID == info.SymID {
			return &ResolverRegisterError{Ident: ident, SymID: int(info.SymID)}
		}
	}
	r.waiters[ident] = append(r.waiters[ident], info)
	return nil
}

// Recover clears the error flag on every waiter registered under ident,
// letting a later compatible registration retry them.
func (r *Resolver) Recover(ident string) {
	list := r.waiters[ident]
	for i := range list {
		list[i].HasErr = false
		list[i].ErrMsg = ""
	}
}

// ResolveWith wakes every non-errored waiter under ident once depended
// is (re)registered: dereferences depended through its return_sym when
// returnable, no-ops on void/never, and otherwise assigns (or projects,
// for multi_return) depended into each waiter's return_sym. Resolved
// waiters are dropped from the list; errored ones are kept so a later
// compatible registration can recover them (§4.4).
func (r *Resolver) ResolveWith(sym *SymbolManager, ident string, depended symbol.Symbol) {
	target := depended
	if target.Kind.IsReturnable() {
		inner := sym.GetInfo(target.ReturnSym)
		if !inner.IsVoid() {
			target = inner
		}
	}
	if target.IsVoid() || target.Kind == symbol.KindNever {
		return
	}

	list := r.waiters[ident]
	if len(list) == 0 {
		return
	}

	var remaining []ResolutionInfo
	for _, w := range list {
		if w.HasErr {
			remaining = append(remaining, w)
			continue
		}
		waiterSym := sym.GetInfo(w.SymID)
		if !sym.GetInfo(waiterSym.ReturnSym).IsVoid() && waiterSym.ReturnSym != target.ID {
			w.HasErr = true
			w.ErrMsg = fmt.Sprintf("type mismatch at return value #%d (%s %s): expected %s, got %s",
				w.Index+1, w.BranchType, w.Branch, sym.GetInfo(waiterSym.ReturnSym).Name, target.Name)
			remaining = append(remaining, w)
			continue
		}
		if target.Kind == symbol.KindMultiReturn {
			if w.Index < 0 || w.Index >= len(target.Children) {
				w.HasErr = true
				w.ErrMsg = fmt.Sprintf("return value #%d out of range for %s (has %d)", w.Index+1, target.Name, len(target.Children))
				remaining = append(remaining, w)
				continue
			}
			waiterSym.ReturnSym = target.Children[w.Index]
		} else {
			waiterSym.ReturnSym = target.ID
		}
		sym.updateSymbol(waiterSym.ID, waiterSym)
		// resolved — dropped from remaining.
	}
	r.waiters[ident] = remaining
}

// Report implements §4.4's report: for every waiter whose symbol lives
// in fileID, emits its error if any, otherwise (if return_sym is still
// void) emits an unresolved-symbol report.
func (r *Resolver) Report(sym *SymbolManager, reporter diagnostic.Reporter, fileID ast.FileID, filePath string) {
	for _, list := range r.waiters {
		for _, w := range list {
			waiterSym := sym.GetInfo(w.SymID)
			if waiterSym.FileID != fileID {
				continue
			}
			if w.HasErr {
				reporter.Report(diagnostic.Report{Kind: diagnostic.KindError, Message: w.ErrMsg, Range: waiterSym.Range, FilePath: filePath})
				continue
			}
			if sym.GetInfo(waiterSym.ReturnSym).IsVoid() {
				reporter.Report(diagnostic.Report{
					Kind:     diagnostic.KindError,
					Message:  fmt.Sprintf("unresolved symbol %s", waiterSym.Name),
					Range:    waiterSym.Range,
					FilePath: filePath,
				})
			}
		}
	}
}

// Waiters returns a copy of the waiter list registered under ident, for
// tests asserting the resolver's queue state.
func (r *Resolver) Waiters(ident string) []ResolutionInfo {
	out := make([]ResolutionInfo, len(r.waiters[ident]))
	copy(out, r.waiters[ident])
	return out
}
