package compiler

import "fmt"

// Type is SPL's closed family of semantic types: a Primitive (int, and the
// source-less bool used only as the type of comparisons) or an Array built
// lazily over an element type. Types are value-like but may be shared by
// reference; equality between two Type values must therefore be structural,
// never pointer identity (see Type.Equal).
type Type interface {
	ByteSize() int
	Equal(other Type) bool
	String() string
}

// Primitive is a named scalar type. SPL only ever constructs two of these
// at runtime (IntType and BoolType below); there is no syntax to declare a
// new primitive.
type Primitive struct {
	Name string
	Size int
}

func (p *Primitive) ByteSize() int { return p.Size }
func (p *Primitive) String() string { return p.Name }

func (p *Primitive) Equal(other Type) bool {
	o, ok := other.(*Primitive)
	return ok && o.Name == p.Name
}

// Array is a fixed-length sequence of Element. ByteSize is always
// Length*Element.ByteSize(); a length of 0 is syntactically legal and
// simply yields a zero-size array.
type Array struct {
	Element Type
	Length  int
}

func (a *Array) ByteSize() int { return a.Length * a.Element.ByteSize() }

func (a *Array) String() string {
	return fmt.Sprintf("array [%d] of %s", a.Length, a.Element.String())
}

func (a *Array) Equal(other Type) bool {
	o, ok := other.(*Array)
	return ok && o.Length == a.Length && a.Element.Equal(o.Element)
}

// Canonical process-wide type values. SPL has no source syntax to declare
// int or bool; every reference to either shares these two instances, but
// code must never rely on that sharing for correctness (Equal is always
// structural) — only for avoiding needless allocation.
var (
	IntType  Type = &Primitive{Name: "int", Size: 4}
	BoolType Type = &Primitive{Name: "bool", Size: 4}
)

// NewArrayType builds an Array type over element with the given length.
// Array types are constructed lazily, once per ArrayOf type expression that
// gets resolved; two structurally-equal array types built from different
// ArrayOf nodes are distinct values that compare Equal.
func NewArrayType(element Type, length int) Type {
	return &Array{Element: element, Length: length}
}
