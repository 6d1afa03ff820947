package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimitiveTypeEquality(t *testing.T) {
	assert.True(t, IntType.Equal(IntType))
	assert.False(t, IntType.Equal(BoolType))
}

func TestArrayTypeStructuralEquality(t *testing.T) {
	a := NewArrayType(IntType, 10)
	b := NewArrayType(IntType, 10)
	assert.True(t, a.Equal(b), "two arrays of equal element type and length must be Equal even when built separately")

	c := NewArrayType(IntType, 11)
	assert.False(t, a.Equal(c))

	nested := NewArrayType(a, 3)
	assert.Equal(t, 3*10*4, nested.ByteSize())
}

func TestArrayByteSize(t *testing.T) {
	arr := NewArrayType(IntType, 5)
	assert.Equal(t, 20, arr.ByteSize())
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int", IntType.String())
	arr := NewArrayType(IntType, 3)
	assert.Equal(t, "array [3] of int", arr.String())
}
