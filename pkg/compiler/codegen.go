package compiler

import (
	"fmt"
	"strings"

	"splc/internal/splerr"
	"splc/internal/targetdesc"
)

// codeGen walks a type-checked, variable-allocated Program and emits ECO32
// assembly text, following the teacher's CodeGen shape: a struct holding
// output-accumulation state plus line()/comment()/newLabel() helpers, and a
// tree-walking genExpression/genStatement pair. Register allocation here is
// the "simple two-register allocator" spec.md §4.8 calls for rather than the
// teacher's stack-machine style, since ECO32 is a load/store register
// machine: each expression evaluates into one of targetdesc.Desc.Scratch,
// and nothing is spilled to the stack: needing a register beyond those
// already committed to in-flight subexpressions raises
// splerr.RegisterOverflow.
type codeGen struct {
	desc      targetdesc.Desc
	global    *Scope
	out       strings.Builder
	nextLabel int
}

func newCodeGen(desc targetdesc.Desc, global *Scope) *codeGen {
	return &codeGen{desc: desc, global: global}
}

func (cg *codeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

func (cg *codeGen) comment(format string, args ...any) {
	cg.line("; "+format, args...)
}

func (cg *codeGen) newLabel(prefix string) string {
	l := fmt.Sprintf("%s%d", prefix, cg.nextLabel)
	cg.nextLabel++
	return l
}

// GenerateCode produces the full ECO32 assembly text for prog, or
// splerr.RegisterOverflow if some procedure's expression nesting exceeds
// the two-scratch-register budget.
func GenerateCode(prog *Program, global *Scope, desc targetdesc.Desc) (string, error) {
	cg := newCodeGen(desc, global)
	cg.line("\t.code")
	cg.line("\tconst\tmain")
	cg.line("\tasm\tadd\t$8, $0, $0")
	cg.line("\tjal\tmain")
	cg.line("\tasm\ttrap\t0, 0, 0")

	for _, d := range prog.Declarations {
		pd, ok := d.(*ProcedureDeclaration)
		if !ok {
			continue
		}
		if err := cg.genProcedure(pd); err != nil {
			return "", err
		}
	}
	return cg.out.String(), nil
}

func (cg *codeGen) genProcedure(pd *ProcedureDeclaration) error {
	entry := cg.global.LookupLocal(pd.Name)
	local := entry.LocalScope
	isLeaf := entry.OutgoingArea < 0
	outgoing := entry.OutgoingArea
	if outgoing < 0 {
		outgoing = 0
	}
	// fp sits where sp was at the moment of the call, so the incoming
	// argument area (pushed by the caller, read at fp+offset) lives above
	// fp rather than inside the callee's own sub-from-sp frame: frameSize
	// only covers what this procedure itself owns below fp (outgoing area
	// for its own calls, the saved return address, then local variables,
	// in that order from sp upward).
	raOffset := outgoing // RA sits directly above the outgoing area
	frameSize := entry.LocalVarArea + outgoing
	if !isLeaf {
		frameSize += cg.desc.WordSize // slot for the saved return address
	}

	cg.line("")
	cg.comment("procedure %s", pd.Name.String)
	cg.line("%s:", pd.Name.String)
	cg.comment("prologue")
	cg.line("\tasm\tsub\t%s, %s, %d", cg.desc.StackPointer, cg.desc.StackPointer, frameSize)
	if !isLeaf {
		cg.line("\tasm\tstw\t%s, %s, %d", cg.desc.ReturnAddress, cg.desc.StackPointer, raOffset)
	}
	cg.line("\tasm\tadd\t%s, %s, %d", cg.desc.FramePointer, cg.desc.StackPointer, frameSize)

	proc := &procCodeGen{codeGen: cg, local: local, entry: entry}
	for _, stmt := range pd.Body {
		if err := proc.genStatement(stmt); err != nil {
			return err
		}
	}

	cg.comment("epilogue")
	if !isLeaf {
		cg.line("\tasm\tldw\t%s, %s, %d", cg.desc.ReturnAddress, cg.desc.StackPointer, raOffset)
	}
	cg.line("\tasm\tadd\t%s, %s, %d", cg.desc.StackPointer, cg.desc.StackPointer, frameSize)
	cg.line("\tasm\tjr\t%s", cg.desc.ReturnAddress)
	return nil
}

// procCodeGen holds the per-procedure state the teacher's loopStack field
// generalizes: nothing loop-control-specific is needed here since SPL's
// while has no break/continue, but the scoped local table each statement
// resolves variables against is exactly that kind of per-procedure context.
type procCodeGen struct {
	*codeGen
	local *Scope
	entry *Entry
}

func (p *procCodeGen) genStatement(s Statement) error {
	switch n := s.(type) {
	case *EmptyStatement:
		return nil
	case *CompoundStatement:
		for _, stmt := range n.Statements {
			if err := p.genStatement(stmt); err != nil {
				return err
			}
		}
		return nil
	case *AssignStatement:
		return p.genAssign(n)
	case *IfStatement:
		return p.genIf(n)
	case *WhileStatement:
		return p.genWhile(n)
	case *CallStatement:
		return p.genCall(n)
	default:
		panic("codegen: unknown statement")
	}
}

func (p *procCodeGen) genAssign(n *AssignStatement) error {
	reg, err := p.genExpression(n.Value, 0)
	if err != nil {
		return err
	}
	p.comment("store into %s", describeVariable(n.Target))
	return p.storeVariable(n.Target, reg)
}

func (p *procCodeGen) genIf(n *IfStatement) error {
	elseLabel := p.newLabel("L")
	endLabel := p.newLabel("L")
	if err := p.genBranchIfFalse(n.Condition, elseLabel); err != nil {
		return err
	}
	if err := p.genStatement(n.ThenPart); err != nil {
		return err
	}
	p.line("\tasm\tj\t%s", endLabel)
	p.line("%s:", elseLabel)
	if err := p.genStatement(n.ElsePart); err != nil {
		return err
	}
	p.line("%s:", endLabel)
	return nil
}

func (p *procCodeGen) genWhile(n *WhileStatement) error {
	startLabel := p.newLabel("L")
	endLabel := p.newLabel("L")
	p.line("%s:", startLabel)
	if err := p.genBranchIfFalse(n.Condition, endLabel); err != nil {
		return err
	}
	if err := p.genStatement(n.Body); err != nil {
		return err
	}
	p.line("\tasm\tj\t%s", startLabel)
	p.line("%s:", endLabel)
	return nil
}

func (p *procCodeGen) genCall(n *CallStatement) error {
	calleeEntry := p.local.Lookup(n.ProcName)
	p.comment("call %s", n.ProcName.String)
	for i, arg := range n.Arguments {
		param := calleeEntry.ParamTypes[i]
		if param.IsRef {
			reg, err := p.genAddress(arg.(*VariableExpression).Variable, 0)
			if err != nil {
				return err
			}
			p.line("\tasm\tstw\t%s, %s, %d", reg, p.desc.StackPointer, param.Offset)
		} else {
			reg, err := p.genExpression(arg, 0)
			if err != nil {
				return err
			}
			p.line("\tasm\tstw\t%s, %s, %d", reg, p.desc.StackPointer, param.Offset)
		}
	}
	p.line("\tjal\t%s", n.ProcName.String)
	return nil
}

// genBranchIfFalse lowers a boolean condition directly to a conditional
// branch rather than materializing 0/1 in a register first - SPL's only
// boolean producer is a comparison, so every condition takes this path.
func (p *procCodeGen) genBranchIfFalse(cond Expression, target string) error {
	bin, ok := cond.(*BinaryExpression)
	if !ok {
		return fmt.Errorf("codegen: condition %T is not a comparison", cond)
	}
	left, err := p.genExpression(bin.LeftOperand, 0)
	if err != nil {
		return err
	}
	right, err := p.genExpression(bin.RightOperand, 1)
	if err != nil {
		return err
	}
	mnemonic, ok := inverseBranchMnemonics[bin.Op]
	if !ok {
		return fmt.Errorf("codegen: %s is not a comparison operator", bin.Op)
	}
	p.line("\tasm\t%s\t%s, %s, %s", mnemonic, left, right, target)
	return nil
}

var inverseBranchMnemonics = map[BinaryOp]string{
	OpEqu: "bne",
	OpNeq: "beq",
	OpLst: "bge",
	OpLse: "bgt",
	OpGrt: "ble",
	OpGre: "blt",
}

var arithMnemonics = map[BinaryOp]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
}

// genExpression evaluates e into one of the two scratch registers and
// returns its name. depth tracks how many scratch registers are already
// committed to an enclosing, not-yet-combined subexpression; depth
// reaching len(Scratch) means the simple allocator has run out of
// registers, per spec.md §4.8's "registerOverflow" clause.
func (p *procCodeGen) genExpression(e Expression, depth int) (string, error) {
	if depth >= len(p.desc.Scratch) {
		return "", splerr.RegisterOverflow()
	}
	reg := p.desc.Scratch[depth]

	switch n := e.(type) {
	case *IntLiteral:
		p.line("\tasm\tadd\t%s, $0, %d", reg, n.Value)
		return reg, nil
	case *VariableExpression:
		return p.loadVariable(n.Variable, depth)
	case *BinaryExpression:
		left, err := p.genExpression(n.LeftOperand, depth)
		if err != nil {
			return "", err
		}
		right, err := p.genExpression(n.RightOperand, depth+1)
		if err != nil {
			return "", err
		}
		if n.Op.isComparison() {
			return p.genComparisonValue(n.Op, left, right, depth)
		}
		mnemonic := arithMnemonics[n.Op]
		p.line("\tasm\t%s\t%s, %s, %s", mnemonic, left, left, right)
		return left, nil
	default:
		panic("codegen: unknown expression")
	}
}

// genComparisonValue materializes a comparison's boolean result as 0/1 in
// the left operand's register, for a comparison used as a plain value
// rather than directly driving a branch. The body checker rejects every
// such use (an assignment, argument, index or operand of bool type), so a
// checked program only ever reaches comparisons through genBranchIfFalse.
func (p *procCodeGen) genComparisonValue(op BinaryOp, left, right string, depth int) (string, error) {
	trueLabel := p.newLabel("L")
	endLabel := p.newLabel("L")
	mnemonic, ok := branchMnemonics[op]
	if !ok {
		return "", fmt.Errorf("codegen: %s is not a comparison operator", op)
	}
	p.line("\tasm\t%s\t%s, %s, %s", mnemonic, left, right, trueLabel)
	p.line("\tasm\tadd\t%s, $0, 0", left)
	p.line("\tasm\tj\t%s", endLabel)
	p.line("%s:", trueLabel)
	p.line("\tasm\tadd\t%s, $0, 1", left)
	p.line("%s:", endLabel)
	return left, nil
}

var branchMnemonics = map[BinaryOp]string{
	OpEqu: "beq",
	OpNeq: "bne",
	OpLst: "blt",
	OpLse: "ble",
	OpGrt: "bgt",
	OpGre: "bge",
}

// genAddress computes the effective address of a variable into a scratch
// register, used for reference-parameter passing and array-element access.
func (p *procCodeGen) genAddress(v Variable, depth int) (string, error) {
	if depth >= len(p.desc.Scratch) {
		return "", splerr.RegisterOverflow()
	}
	reg := p.desc.Scratch[depth]

	switch n := v.(type) {
	case *NamedVariable:
		entry := p.local.Lookup(n.Name)
		offset, base, err := p.resolveVariable(n.Name)
		if err != nil {
			return "", err
		}
		if entry.IsRef {
			// The slot holds a pointer value, not the referent itself;
			// its address is that pointer, loaded rather than computed.
			p.line("\tasm\tldw\t%s, %s, %d", reg, base, offset)
			return reg, nil
		}
		p.line("\tasm\tadd\t%s, %s, %d", reg, base, offset)
		return reg, nil
	case *ArrayAccess:
		baseReg, err := p.genAddress(n.Array, depth)
		if err != nil {
			return "", err
		}
		idxReg, err := p.genExpression(n.Index, depth+1)
		if err != nil {
			return "", err
		}
		elemSize := n.Type().ByteSize()
		p.line("\tasm\tmul\t%s, %s, %d", idxReg, idxReg, elemSize)
		p.line("\tasm\tadd\t%s, %s, %s", baseReg, baseReg, idxReg)
		return baseReg, nil
	default:
		panic("codegen: unknown variable")
	}
}

func (p *procCodeGen) loadVariable(v Variable, depth int) (string, error) {
	if named, ok := v.(*NamedVariable); ok {
		entry := p.local.Lookup(named.Name)
		offset, base, err := p.resolveVariable(named.Name)
		if err != nil {
			return "", err
		}
		reg := p.desc.Scratch[depth]
		if entry.IsRef {
			p.line("\tasm\tldw\t%s, %s, %d", reg, base, offset)
			p.line("\tasm\tldw\t%s, %s, 0", reg, reg)
			return reg, nil
		}
		p.line("\tasm\tldw\t%s, %s, %d", reg, base, offset)
		return reg, nil
	}
	addrReg, err := p.genAddress(v, depth)
	if err != nil {
		return "", err
	}
	p.line("\tasm\tldw\t%s, %s, 0", addrReg, addrReg)
	return addrReg, nil
}

func (p *procCodeGen) storeVariable(v Variable, valueReg string) error {
	if named, ok := v.(*NamedVariable); ok {
		entry := p.local.Lookup(named.Name)
		offset, base, err := p.resolveVariable(named.Name)
		if err != nil {
			return err
		}
		if entry.IsRef {
			scratch := p.otherScratch(valueReg)
			p.line("\tasm\tldw\t%s, %s, %d", scratch, base, offset)
			p.line("\tasm\tstw\t%s, %s, 0", valueReg, scratch)
			return nil
		}
		p.line("\tasm\tstw\t%s, %s, %d", valueReg, base, offset)
		return nil
	}
	addrReg, err := p.genAddress(v, 1)
	if err != nil {
		return err
	}
	p.line("\tasm\tstw\t%s, %s, 0", valueReg, addrReg)
	return nil
}

func (p *procCodeGen) otherScratch(used string) string {
	for _, r := range p.desc.Scratch {
		if r != used {
			return r
		}
	}
	return p.desc.Scratch[0]
}

// resolveVariable returns a named variable's frame offset and the base
// register it is addressed from: parameters and locals are fp-relative.
func (p *procCodeGen) resolveVariable(name *Identifier) (offset int, base string, err error) {
	entry := p.local.Lookup(name)
	if entry == nil {
		return 0, "", fmt.Errorf("codegen: undefined variable %s (should have been caught by semantic analysis)", name.String)
	}
	return entry.Offset, p.desc.FramePointer, nil
}

func describeVariable(v Variable) string {
	switch n := v.(type) {
	case *NamedVariable:
		return n.Name.String
	case *ArrayAccess:
		return describeVariable(n.Array) + "[...]"
	default:
		return "?"
	}
}
