package compiler

import "splc/internal/splerr"

// CheckProgram is the SPL analogue of the original skeleton's missing
// procedurebodycheck.c (only the header ships in original_source/): it
// walks every procedure body against its local scope, annotating each
// Expression/Variable node with its resolved Type and raising the first
// typing error it finds, per spec.md §4.6. TypeExpression nodes are
// resolved earlier, by BuildTable.
func CheckProgram(prog *Program, global *Scope) error {
	for _, d := range prog.Declarations {
		pd, ok := d.(*ProcedureDeclaration)
		if !ok {
			continue
		}
		entry := global.LookupLocal(pd.Name)
		c := &checker{local: entry.LocalScope, global: global}
		for _, stmt := range pd.Body {
			if err := c.checkStatement(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

type checker struct {
	local  *Scope
	global *Scope
}

func (c *checker) checkStatement(s Statement) error {
	switch n := s.(type) {
	case *EmptyStatement:
		return nil
	case *CompoundStatement:
		for _, stmt := range n.Statements {
			if err := c.checkStatement(stmt); err != nil {
				return err
			}
		}
		return nil
	case *AssignStatement:
		targetType, err := c.checkVariable(n.Target)
		if err != nil {
			return err
		}
		valueType, err := c.checkExpression(n.Value)
		if err != nil {
			return err
		}
		if !targetType.Equal(valueType) {
			return splerr.AssignmentHasDifferentTypes(n.Line())
		}
		if !targetType.Equal(IntType) {
			return splerr.AssignmentRequiresIntegers(n.Line())
		}
		return nil
	case *IfStatement:
		condType, err := c.checkExpression(n.Condition)
		if err != nil {
			return err
		}
		if !condType.Equal(BoolType) {
			return splerr.IfConditionMustBeBoolean(n.Line())
		}
		if err := c.checkStatement(n.ThenPart); err != nil {
			return err
		}
		return c.checkStatement(n.ElsePart)
	case *WhileStatement:
		condType, err := c.checkExpression(n.Condition)
		if err != nil {
			return err
		}
		if !condType.Equal(BoolType) {
			return splerr.WhileConditionMustBeBoolean(n.Line())
		}
		return c.checkStatement(n.Body)
	case *CallStatement:
		return c.checkCall(n)
	default:
		panic("semant: unknown statement")
	}
}

func (c *checker) checkCall(n *CallStatement) error {
	entry := c.local.Lookup(n.ProcName)
	if entry == nil {
		return splerr.UndefinedProcedure(n.Line(), n.ProcName.String)
	}
	if entry.Kind != EntryProc {
		return splerr.CallOfNonProcedure(n.Line(), n.ProcName.String)
	}

	params := entry.ParamTypes
	for i, arg := range n.Arguments {
		if i >= len(params) {
			return splerr.TooManyArguments(n.Line(), n.ProcName.String)
		}
		argType, err := c.checkExpression(arg)
		if err != nil {
			return err
		}
		param := params[i]
		if !argType.Equal(param.Type) {
			return splerr.ArgumentTypeMismatch(n.Line(), n.ProcName.String, i+1)
		}
		if param.IsRef {
			if _, isVar := arg.(*VariableExpression); !isVar {
				return splerr.ArgumentMustBeAVariable(n.Line(), n.ProcName.String, i+1)
			}
		}
	}
	if len(n.Arguments) < len(params) {
		return splerr.TooFewArguments(n.Line(), n.ProcName.String)
	}
	return nil
}

func (c *checker) checkExpression(e Expression) (Type, error) {
	switch n := e.(type) {
	case *IntLiteral:
		n.setType(IntType)
		return IntType, nil
	case *VariableExpression:
		t, err := c.checkVariable(n.Variable)
		if err != nil {
			return nil, err
		}
		n.setType(t)
		return t, nil
	case *BinaryExpression:
		return c.checkBinaryExpression(n)
	default:
		panic("semant: unknown expression")
	}
}

func (c *checker) checkBinaryExpression(n *BinaryExpression) (Type, error) {
	leftType, err := c.checkExpression(n.LeftOperand)
	if err != nil {
		return nil, err
	}
	rightType, err := c.checkExpression(n.RightOperand)
	if err != nil {
		return nil, err
	}
	if !leftType.Equal(rightType) {
		return nil, splerr.OperatorDifferentTypes(n.Line())
	}

	var result Type
	if n.Op.isComparison() {
		if !leftType.Equal(IntType) {
			return nil, splerr.ComparisonNonInteger(n.Line())
		}
		result = BoolType
	} else {
		if !leftType.Equal(IntType) {
			return nil, splerr.ArithmeticOperatorNonInteger(n.Line())
		}
		result = IntType
	}
	n.setType(result)
	return result, nil
}

func (c *checker) checkVariable(v Variable) (Type, error) {
	switch n := v.(type) {
	case *NamedVariable:
		entry := c.local.Lookup(n.Name)
		if entry == nil {
			return nil, splerr.UndefinedVariable(n.Line(), n.Name.String)
		}
		if entry.Kind != EntryVar {
			return nil, splerr.NotAVariable(n.Line(), n.Name.String)
		}
		n.setType(entry.VarType)
		return entry.VarType, nil
	case *ArrayAccess:
		baseType, err := c.checkVariable(n.Array)
		if err != nil {
			return nil, err
		}
		arr, ok := baseType.(*Array)
		if !ok {
			return nil, splerr.IndexingNonArray(n.Line())
		}
		indexType, err := c.checkExpression(n.Index)
		if err != nil {
			return nil, err
		}
		if !indexType.Equal(IntType) {
			return nil, splerr.IndexingWithNonInteger(n.Line())
		}
		n.setType(arr.Element)
		return arr.Element, nil
	default:
		panic("semant: unknown variable")
	}
}
