package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"splc/internal/splerr"
)

func parseSource(t *testing.T, src string) (*Program, *Interner) {
	t.Helper()
	interner := NewInterner()
	tokens, err := Lex(src)
	require.NoError(t, err)
	prog, err := Parse(tokens, src, interner)
	require.NoError(t, err)
	return prog, interner
}

func TestParseEmptyProgram(t *testing.T) {
	prog, _ := parseSource(t, "")
	require.Empty(t, prog.Declarations)
}

func TestParseTypeDeclaration(t *testing.T) {
	prog, _ := parseSource(t, "type vector = array[10] of int;")
	require.Len(t, prog.Declarations, 1)
	td, ok := prog.Declarations[0].(*TypeDeclaration)
	require.True(t, ok)
	require.Equal(t, "vector", td.Name.String)
	arr, ok := td.TypeExpression.(*ArrayTypeExpression)
	require.True(t, ok)
	require.Equal(t, 10, arr.Length)
}

func TestParseProcedureWithParamsLocalsAndStatements(t *testing.T) {
	src := `
proc main(ref x: int, y: int) {
	var i: int;
	i := 0;
	while (i < x) {
		printi(i);
		i := i + 1;
	}
	if (y # 0) {
		printi(y);
	} else {
		printi(0);
	}
}
`
	prog, _ := parseSource(t, src)
	require.Len(t, prog.Declarations, 1)
	pd, ok := prog.Declarations[0].(*ProcedureDeclaration)
	require.True(t, ok)
	require.Equal(t, "main", pd.Name.String)
	require.Len(t, pd.Parameters, 2)
	require.True(t, pd.Parameters[0].IsReference)
	require.False(t, pd.Parameters[1].IsReference)
	require.Len(t, pd.Variables, 1)
	require.Len(t, pd.Body, 3)

	_, isAssign := pd.Body[0].(*AssignStatement)
	require.True(t, isAssign)
	_, isWhile := pd.Body[1].(*WhileStatement)
	require.True(t, isWhile)
	_, isIf := pd.Body[2].(*IfStatement)
	require.True(t, isIf)
}

func TestParseCallStatement(t *testing.T) {
	src := `proc main() { printi(1 + 2, x[3]); }`
	prog, _ := parseSource(t, src)
	pd := prog.Declarations[0].(*ProcedureDeclaration)
	call, ok := pd.Body[0].(*CallStatement)
	require.True(t, ok)
	require.Equal(t, "printi", call.ProcName.String)
	require.Len(t, call.Arguments, 2)
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := `proc main() { var x: int; x := 1 + 2 * 3; }`
	prog, _ := parseSource(t, src)
	pd := prog.Declarations[0].(*ProcedureDeclaration)
	assign := pd.Body[0].(*AssignStatement)
	bin, ok := assign.Value.(*BinaryExpression)
	require.True(t, ok)
	require.Equal(t, OpAdd, bin.Op)
	_, leftIsLit := bin.LeftOperand.(*IntLiteral)
	require.True(t, leftIsLit)
	rightBin, ok := bin.RightOperand.(*BinaryExpression)
	require.True(t, ok)
	require.Equal(t, OpMul, rightBin.Op)
}

func TestParseArrayAccessChain(t *testing.T) {
	src := `proc main() { var a: int; a[1][2] := 0; }`
	prog, _ := parseSource(t, src)
	pd := prog.Declarations[0].(*ProcedureDeclaration)
	assign := pd.Body[0].(*AssignStatement)
	outer, ok := assign.Target.(*ArrayAccess)
	require.True(t, ok)
	_, ok = outer.Array.(*ArrayAccess)
	require.True(t, ok)
}

func TestParseSyntaxErrorOnMissingSemicolon(t *testing.T) {
	interner := NewInterner()
	src := `proc main() { var x: int }`
	tokens, err := Lex(src)
	require.NoError(t, err)
	_, err = Parse(tokens, src, interner)
	require.Error(t, err)
	require.Equal(t, splerr.ExitSyntax, splerr.CodeOf(err))
}

func TestParseSyntaxErrorOnUnknownGlobal(t *testing.T) {
	interner := NewInterner()
	src := `var x: int;`
	tokens, err := Lex(src)
	require.NoError(t, err)
	_, err = Parse(tokens, src, interner)
	require.Error(t, err)
	require.Equal(t, splerr.ExitSyntax, splerr.CodeOf(err))
}
