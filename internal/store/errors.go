package store

import (
	"fmt"

	"github.com/SirZenith/vls/internal/ast"
)

// ConflictReason distinguishes the update-policy rejection paths (§4.2:
// the two update_module_symbol ones and the stale local update) and the
// duplicate-child rejection of AddChild, so callers that need to decide
// whether to retry or just report can branch without parsing the message.
type ConflictReason string

const (
	ReasonDefinedLatter   ConflictReason = "defined_latter"
	ReasonNotSymbolUpdate ConflictReason = "not_symbol_update"
	ReasonStaleLocal      ConflictReason = "stale_local_update"
	ReasonDuplicateChild  ConflictReason = "duplicate_child"
)

// ConflictError is the data-conflict report of spec §7: an
// update-policy rejection, carrying enough to hand to a Reporter.
type ConflictError struct {
	Reason   ConflictReason
	Name     string
	FileID   ast.FileID
	Range    ast.Range
	Existing string // existing symbol's name, for context when renaming
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("data conflict registering %q (%s)", e.Name, e.Reason)
}

// NotFoundError is the not-found taxonomy entry of spec §7, returned by
// APIs that are documented elsewhere as "return void/absent" but need an
// error value for Go callers that want to distinguish "no match" from a
// genuine bug (e.g. Store.Delete's dependent-module case doesn't use
// this; Store.FindSymbol does, at the top level of find_symbol).
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.What)
}

// ResolverRegisterError is returned by Resolver.Register when a waiter
// with the same symbol id is already registered under ident — the
// caller should have updated the existing waiter instead.
type ResolverRegisterError struct {
	Ident string
	SymID int
}

func (e *ResolverRegisterError) Error() string {
	return fmt.Sprintf("resolver: waiter for symbol %d already registered under %q", e.SymID, e.Ident)
}
