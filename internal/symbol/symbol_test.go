package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoidIsVoid(t *testing.T) {
	v := Void()
	assert.True(t, v.IsVoid())
	assert.Equal(t, VoidID, v.ID)

	var zero Symbol
	assert.True(t, zero.IsVoid(), "a freshly zero-valued Symbol reads as void")

	real := Symbol{ID: 3, Kind: KindStruct}
	assert.False(t, real.IsVoid())
}

func TestHasChildNamed(t *testing.T) {
	lookup := func(id ID) Symbol {
		switch id {
		case 1:
			return Symbol{ID: 1, Name: "x"}
		case 2:
			return Symbol{ID: 2, Name: "y"}
		default:
			return Void()
		}
	}

	s := Symbol{Children: []ID{1, 2}}
	assert.True(t, s.HasChildNamed("x", lookup))
	assert.True(t, s.HasChildNamed("y", lookup))
	assert.False(t, s.HasChildNamed("z", lookup))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindArray.IsContainerType())
	assert.True(t, KindMap.IsContainerType())
	assert.False(t, KindStruct.IsContainerType())

	assert.True(t, KindRef.IsReference())
	assert.True(t, KindOptional.IsReference())
	assert.False(t, KindStruct.IsReference())

	assert.True(t, KindVariable.IsReturnable())
	assert.True(t, KindFunction.IsReturnable())
	assert.False(t, KindStruct.IsReturnable())

	assert.True(t, KindStruct.IsTypeDefiningKind())
	assert.False(t, KindVariable.IsTypeDefiningKind())
}
