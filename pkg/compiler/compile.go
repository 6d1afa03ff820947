package compiler

import "splc/internal/targetdesc"

// Result carries every artifact a caller might want out of a compilation,
// populated as far as Options lets the pipeline run. This generalizes the
// teacher's Compile, which always ran every phase and returned just the
// assembly text and machine code; SPL's CLI can stop after any of six
// phases (spec.md §6), so each stage's output has to be optionally
// retrievable rather than implicit in a full run.
type Result struct {
	Tokens   []Token
	Program  *Program
	Global   *Scope
	Assembly string
}

// Options selects how far the pipeline runs, mirroring main.c's
// optionTokens/optionParse/.../optionVars flags one for one.
type Options struct {
	StopAfterTokens bool
	StopAfterParse  bool
	StopAfterAbsyn  bool
	StopAfterTables bool
	StopAfterSemant bool
	StopAfterVars   bool
	Target          targetdesc.Desc
}

// Compile runs the six-stage pipeline of spec.md §2 over src, stopping
// early whenever opts requests it, exactly as main.c's phase gates do. The
// interner is threaded through from the caller so multiple compiles in one
// process (as in tests) can share or isolate identifier stamps as needed.
func Compile(src string, interner *Interner, opts Options) (*Result, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	res := &Result{Tokens: tokens}
	if opts.StopAfterTokens {
		return res, nil
	}

	prog, err := Parse(tokens, src, interner)
	if err != nil {
		return nil, err
	}
	res.Program = prog
	if opts.StopAfterParse || opts.StopAfterAbsyn {
		return res, nil
	}

	global, err := BuildTable(prog, interner)
	if err != nil {
		return nil, err
	}
	res.Global = global
	if opts.StopAfterTables {
		return res, nil
	}

	if err := CheckProgram(prog, global); err != nil {
		return nil, err
	}
	if opts.StopAfterSemant {
		return res, nil
	}

	AllocateVariables(prog, global)
	if opts.StopAfterVars {
		return res, nil
	}

	asm, err := GenerateCode(prog, global, opts.Target)
	if err != nil {
		return nil, err
	}
	res.Assembly = asm
	return res, nil
}
