package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splc/internal/goldentest"
)

func TestPrintProgramTypeDeclaration(t *testing.T) {
	interner := NewInterner()
	prog := &Program{
		Declarations: []GlobalDeclaration{
			NewTypeDeclaration(1, interner.Intern("t"),
				NewArrayTypeExpression(1, NewNamedTypeExpression(1, interner.Intern("int")), 2)),
		},
	}

	want := "Program(\n" +
		"  TypeDeclaration(\n" +
		"    t,\n" +
		"    ArrayTypeExpression(\n" +
		"      NamedTypeExpression(\n" +
		"        int),\n" +
		"      2)))\n"

	assert.Equal(t, want, PrintProgram(prog))
}

func TestPrintProgramEmptyProgram(t *testing.T) {
	prog := &Program{}
	assert.Equal(t, "Program()\n", PrintProgram(prog))
}

func TestPrintProgramProcedureRoundTripsStructure(t *testing.T) {
	src := `
proc main(ref x: int) {
	var i: int;
	i := x + 1;
	if (i = 0) {
		printi(i);
	}
}
`
	interner := NewInterner()
	tokens, err := Lex(src)
	require.NoError(t, err)
	prog, err := Parse(tokens, src, interner)
	require.NoError(t, err)

	goldentest.Assert(t, "absynprint", "procedure_with_ref_param_and_if", PrintProgram(prog))
}
