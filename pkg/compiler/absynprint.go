package compiler

import (
	"fmt"
	"strings"
)

// indentStep matches the original skeleton's INDENTATION_INCREMENT: each
// nesting level of the tree adds two spaces.
const indentStep = 2

// printer accumulates the "--absyn" rendering of a Program. It mirrors the
// original C skeleton's absyn.c pretty-printer field for field, so that
// syntactically equal programs render identical text (the round-trip
// property in spec.md §8) and so the output is recognizable to anyone who
// used the reference tool.
type printer struct {
	sb strings.Builder
}

func (p *printer) write(indent int, format string, args ...any) {
	p.sb.WriteString(strings.Repeat(" ", indent))
	fmt.Fprintf(&p.sb, format, args...)
}

// list renders `name(` then each item (rendered by show) separated by
// ",\n", then `)`. Matches the "Name()" / "Name(\n  item,\n  item)" shapes
// from spec.md §4.1 exactly.
func (p *printer) list(indent int, name string, n int, show func(i, itemIndent int)) {
	p.write(indent, "%s(", name)
	for i := 0; i < n; i++ {
		if i == 0 {
			p.sb.WriteString("\n")
		} else {
			p.sb.WriteString(",\n")
		}
		show(i, indent+indentStep)
	}
	p.sb.WriteString(")")
}

// PrintProgram renders a whole Program in the --absyn format.
func PrintProgram(prog *Program) string {
	p := &printer{}
	p.list(0, "Program", len(prog.Declarations), func(i, ind int) {
		p.showGlobalDeclaration(ind, prog.Declarations[i])
	})
	p.sb.WriteString("\n")
	return p.sb.String()
}

func (p *printer) showIdentifier(indent int, name *Identifier) {
	p.write(indent, "%s", name.String)
}

func (p *printer) showInteger(indent int, v int) {
	p.write(indent, "%d", v)
}

func (p *printer) showBoolean(indent int, v bool) {
	if v {
		p.write(indent, "true")
	} else {
		p.write(indent, "false")
	}
}

func (p *printer) showGlobalDeclaration(indent int, d GlobalDeclaration) {
	switch n := d.(type) {
	case *TypeDeclaration:
		p.write(indent, "TypeDeclaration(\n")
		p.showIdentifier(indent+indentStep, n.Name)
		p.sb.WriteString(",\n")
		p.showTypeExpression(indent+indentStep, n.TypeExpression)
		p.sb.WriteString(")")
	case *ProcedureDeclaration:
		p.write(indent, "ProcedureDeclaration(\n")
		p.showIdentifier(indent+indentStep, n.Name)
		p.sb.WriteString(",\n")

		p.list(indent+indentStep, "Parameters", len(n.Parameters), func(i, ind int) {
			param := n.Parameters[i]
			p.write(ind, "ParameterDeclaration(\n")
			p.showIdentifier(ind+indentStep, param.Name)
			p.sb.WriteString(",\n")
			p.showTypeExpression(ind+indentStep, param.TypeExpression)
			p.sb.WriteString(",\n")
			p.showBoolean(ind+indentStep, param.IsReference)
			p.sb.WriteString(")")
		})
		p.sb.WriteString(",\n")

		p.list(indent+indentStep, "Variables", len(n.Variables), func(i, ind int) {
			v := n.Variables[i]
			p.write(ind, "VariableDeclaration(\n")
			p.showIdentifier(ind+indentStep, v.Name)
			p.sb.WriteString(",\n")
			p.showTypeExpression(ind+indentStep, v.TypeExpression)
			p.sb.WriteString(")")
		})
		p.sb.WriteString(",\n")

		p.list(indent+indentStep, "Body", len(n.Body), func(i, ind int) {
			p.showStatement(ind, n.Body[i])
		})
		p.sb.WriteString(")")
	default:
		panic(fmt.Sprintf("absynprint: unknown global declaration %T", d))
	}
}

func (p *printer) showTypeExpression(indent int, te TypeExpression) {
	switch n := te.(type) {
	case *NamedTypeExpression:
		p.write(indent, "NamedTypeExpression(\n")
		p.showIdentifier(indent+indentStep, n.Name)
		p.sb.WriteString(")")
	case *ArrayTypeExpression:
		p.write(indent, "ArrayTypeExpression(\n")
		p.showTypeExpression(indent+indentStep, n.Inner)
		p.sb.WriteString(",\n")
		p.showInteger(indent+indentStep, n.Length)
		p.sb.WriteString(")")
	default:
		panic(fmt.Sprintf("absynprint: unknown type expression %T", te))
	}
}

func (p *printer) showStatement(indent int, s Statement) {
	switch n := s.(type) {
	case *EmptyStatement:
		p.write(indent, "EmptyStatement()")
	case *CompoundStatement:
		p.list(indent, "CompoundStatement", len(n.Statements), func(i, ind int) {
			p.showStatement(ind, n.Statements[i])
		})
	case *AssignStatement:
		p.write(indent, "AssignStatement(\n")
		p.showVariable(indent+indentStep, n.Target)
		p.sb.WriteString(",\n")
		p.showExpression(indent+indentStep, n.Value)
		p.sb.WriteString(")")
	case *IfStatement:
		p.write(indent, "IfStatement(\n")
		p.showExpression(indent+indentStep, n.Condition)
		p.sb.WriteString(",\n")
		p.showStatement(indent+indentStep, n.ThenPart)
		p.sb.WriteString(",\n")
		p.showStatement(indent+indentStep, n.ElsePart)
		p.sb.WriteString(")")
	case *WhileStatement:
		p.write(indent, "WhileStatement(\n")
		p.showExpression(indent+indentStep, n.Condition)
		p.sb.WriteString(",\n")
		p.showStatement(indent+indentStep, n.Body)
		p.sb.WriteString(")")
	case *CallStatement:
		p.write(indent, "CallStatement(\n")
		p.showIdentifier(indent+indentStep, n.ProcName)
		p.sb.WriteString(",\n")
		p.list(indent+indentStep, "Arguments", len(n.Arguments), func(i, ind int) {
			p.showExpression(ind, n.Arguments[i])
		})
		p.sb.WriteString(")")
	default:
		panic(fmt.Sprintf("absynprint: unknown statement %T", s))
	}
}

func (p *printer) showVariable(indent int, v Variable) {
	switch n := v.(type) {
	case *NamedVariable:
		p.write(indent, "NamedVariable(\n")
		p.showIdentifier(indent+indentStep, n.Name)
		p.sb.WriteString(")")
	case *ArrayAccess:
		p.write(indent, "ArrayAccess(\n")
		p.showVariable(indent+indentStep, n.Array)
		p.sb.WriteString(",\n")
		p.showExpression(indent+indentStep, n.Index)
		p.sb.WriteString(")")
	default:
		panic(fmt.Sprintf("absynprint: unknown variable %T", v))
	}
}

func (p *printer) showExpression(indent int, e Expression) {
	switch n := e.(type) {
	case *BinaryExpression:
		p.write(indent, "BinaryExpression(\n")
		p.write(indent+indentStep, "%s", n.Op.String())
		p.sb.WriteString(",\n")
		p.showExpression(indent+indentStep, n.LeftOperand)
		p.sb.WriteString(",\n")
		p.showExpression(indent+indentStep, n.RightOperand)
		p.sb.WriteString(")")
	case *IntLiteral:
		p.write(indent, "IntLiteral(\n")
		p.showInteger(indent+indentStep, n.Value)
		p.sb.WriteString(")")
	case *VariableExpression:
		p.write(indent, "VariableExpression(\n")
		p.showVariable(indent+indentStep, n.Variable)
		p.sb.WriteString(")")
	default:
		panic(fmt.Sprintf("absynprint: unknown expression %T", e))
	}
}
