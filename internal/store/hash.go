package store

import (
	"crypto/sha256"
	"fmt"

	"github.com/SirZenith/vls/internal/symbol"
)

// FunctionSignature computes a deterministic digest of a function_type
// symbol's structural identity: parameter return-sym ids (and,
// optionally, names) plus the return type id. Two function_type symbols
// with the same digest are the "identical parameter types and return
// type" match compare_params_and_ret_type looks for (§4.5 step 2).
// internal/infer's FindFnSymbolByTypeNode does not use this digest: it
// matches candidates with CompareParamsAndRetType below.
//
// Adapted from the teacher's ComputeSignatureHash (internal/store/hash.go
// in the source repo), which hashes a symbol's semantic identity for
// re-registration dedup; here the identity is a type signature instead
// of a named declaration's visibility/modifiers/members.
func FunctionSignature(sym *SymbolManager, fn symbol.Symbol, includeNames bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "ret:%d\n", fn.ReturnSym)
	for _, paramID := range fn.Children {
		p := sym.GetInfo(paramID)
		if includeNames {
			fmt.Fprintf(h, "param:%s:%d\n", p.Name, p.ReturnSym)
		} else {
			fmt.Fprintf(h, "param:%d\n", p.ReturnSym)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// CompareParamsAndRetType reports whether a and b have identical
// parameter-return-sym sequences and the same return type id, optionally
// requiring identical parameter names too (§4.6's find_fn_symbol match
// rule: "same arity, same return-sym ids, same parameter return-sym ids
// (names optional)").
func CompareParamsAndRetType(sym *SymbolManager, a, b symbol.Symbol, requireNames bool) bool {
	if a.ReturnSym != b.ReturnSym {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		pa := sym.GetInfo(a.Children[i])
		pb := sym.GetInfo(b.Children[i])
		if pa.ReturnSym != pb.ReturnSym {
			return false
		}
		if requireNames && pa.Name != pb.Name {
			return false
		}
	}
	return true
}
