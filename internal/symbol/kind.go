package symbol

// Kind tags the semantic role of a Symbol. Kept as a string-backed enum,
// the same texture the teacher uses for Symbol.Kind, rather than a
// bespoke integer type with a parallel String() method.
type Kind string

const (
	KindVoid           Kind = "void"
	KindPlaceholder    Kind = "placeholder"
	KindRef            Kind = "ref"
	KindArray          Kind = "array"
	KindMap            Kind = "map"
	KindMultiReturn    Kind = "multi_return"
	KindOptional       Kind = "optional"
	KindResult         Kind = "result"
	KindChan           Kind = "chan"
	KindVariadic       Kind = "variadic"
	KindFunction       Kind = "function"
	KindStruct         Kind = "struct"
	KindEnum           Kind = "enum"
	KindTypedef        Kind = "typedef"
	KindInterface      Kind = "interface"
	KindField          Kind = "field"
	KindEmbeddedField  Kind = "embedded_field"
	KindVariable       Kind = "variable"
	KindSumType        Kind = "sumtype"
	KindFunctionType   Kind = "function_type"
	KindNever          Kind = "never"
)

// IsTypeDefiningKind reports whether a symbol of this kind introduces a
// type into the universe that other symbols can reference as their
// parent/return_sym (as opposed to being a value binding).
func (k Kind) IsTypeDefiningKind() bool {
	switch k {
	case KindStruct, KindEnum, KindTypedef, KindInterface, KindSumType,
		KindFunctionType, KindRef, KindArray, KindMap, KindOptional,
		KindResult, KindChan, KindVariadic, KindMultiReturn:
		return true
	default:
		return false
	}
}

// IsReturnable reports whether a symbol of this kind carries a
// return_sym denoting its type — variables, fields, and functions.
func (k Kind) IsReturnable() bool {
	switch k {
	case KindVariable, KindField, KindFunction:
		return true
	default:
		return false
	}
}

// IsReference reports whether a symbol of this kind wraps a single inner
// type through its parent field (ref/chan/optional/result) — the "deref"
// family referenced by the §8 quantified property.
func (k Kind) IsReference() bool {
	switch k {
	case KindRef, KindChan, KindOptional, KindResult:
		return true
	default:
		return false
	}
}

// IsDerivedType reports whether a symbol of this kind is constructed
// on the fly from other types ([]T, map[K]V, &T, ?T, !T, chan T, ...T,
// multi-return, anonymous function types). Derived types are synthesized
// into a module's shared placeholder file, where many of them share the
// zero source row, so same-row rename detection must not apply to them.
func (k Kind) IsDerivedType() bool {
	switch k {
	case KindRef, KindArray, KindMap, KindChan, KindOptional, KindResult,
		KindVariadic, KindMultiReturn, KindFunctionType:
		return true
	default:
		return false
	}
}

// IsContainerType reports whether a symbol of this kind holds its
// structural components (type-parameters, element types) as children.
// register_symbol's same-row rename lookup (step 3) excludes the wider
// IsDerivedType set, not this one.
func (k Kind) IsContainerType() bool {
	switch k {
	case KindArray, KindMap, KindMultiReturn, KindVariadic:
		return true
	default:
		return false
	}
}
