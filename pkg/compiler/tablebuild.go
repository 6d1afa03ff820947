package compiler

import "splc/internal/splerr"

// BuildTable walks prog, resolving every TypeExpression to a Type and
// entering a Type/Var/Proc Entry for every global declaration and every
// procedure's parameters and locals. It is the Go analogue of the missing
// tablebuild.c: the original skeleton only ships tablebuild.h, leaving the
// actual build for the phase to implement, so the walk order and error
// timing below follow spec.md §4.5 directly rather than a reference .c.
//
// Resolution happens in two passes over the top-level declarations so that
// a type declared after a procedure that uses it still resolves (SPL has
// no forward-declaration requirement for types): first every TypeDeclaration
// is entered (resolving its TypeExpression against whatever is visible to
// it so far - int and earlier type decls), then every ProcedureDeclaration
// is entered (resolving parameter and variable types, which may reference
// any type declared anywhere in the program).
func BuildTable(prog *Program, interner *Interner) (*Scope, error) {
	global := InitializeGlobalScope(interner)

	for _, d := range prog.Declarations {
		td, ok := d.(*TypeDeclaration)
		if !ok {
			continue
		}
		t, err := resolveTypeExpression(td.TypeExpression, global)
		if err != nil {
			return nil, err
		}
		td.TypeExpression.setResolved(t)
		if !global.Enter(newTypeEntry(td.Name, t)) {
			return nil, splerr.RedeclarationAsType(td.Line(), td.Name.String)
		}
	}

	for _, d := range prog.Declarations {
		pd, ok := d.(*ProcedureDeclaration)
		if !ok {
			continue
		}
		if err := buildProcedureTable(pd, global); err != nil {
			return nil, err
		}
	}

	if err := checkMain(global, interner); err != nil {
		return nil, err
	}

	return global, nil
}

// resolveTypeExpression resolves a TypeExpression to a semantic Type,
// looking up named types in scope and recursing into array element types.
func resolveTypeExpression(te TypeExpression, scope *Scope) (Type, error) {
	switch n := te.(type) {
	case *NamedTypeExpression:
		entry := scope.Lookup(n.Name)
		if entry == nil {
			return nil, splerr.UndefinedType(n.Line(), n.Name.String)
		}
		if entry.Kind != EntryType {
			return nil, splerr.NotAType(n.Line(), n.Name.String)
		}
		n.setResolved(entry.DeclaredType)
		return entry.DeclaredType, nil
	case *ArrayTypeExpression:
		inner, err := resolveTypeExpression(n.Inner, scope)
		if err != nil {
			return nil, err
		}
		t := NewArrayType(inner, n.Length)
		n.setResolved(t)
		return t, nil
	default:
		panic("tablebuild: unknown type expression")
	}
}

// buildProcedureTable enters one procedure's Proc entry into global, with a
// fresh local Scope holding its parameters and variables.
func buildProcedureTable(pd *ProcedureDeclaration, global *Scope) error {
	local := NewScope(global)

	paramTypes := make([]ParamType, 0, len(pd.Parameters))
	for _, param := range pd.Parameters {
		t, err := resolveTypeExpression(param.TypeExpression, global)
		if err != nil {
			return err
		}
		if _, isArray := t.(*Array); isArray && !param.IsReference {
			return splerr.MustBeAReferenceParameter(param.Line, param.Name.String)
		}
		if local.LookupLocal(param.Name) != nil {
			return splerr.RedeclarationAsParameter(param.Line, param.Name.String)
		}
		local.Enter(newVarEntry(param.Name, t, param.IsReference))
		paramTypes = append(paramTypes, ParamType{Type: t, IsRef: param.IsReference})
	}

	for _, v := range pd.Variables {
		t, err := resolveTypeExpression(v.TypeExpression, global)
		if err != nil {
			return err
		}
		if local.LookupLocal(v.Name) != nil {
			return splerr.RedeclarationAsVariable(v.Line, v.Name.String)
		}
		local.Enter(newVarEntry(v.Name, t, false))
	}

	if global.LookupLocal(pd.Name) != nil {
		return splerr.RedeclarationAsProcedure(pd.Line(), pd.Name.String)
	}
	global.Enter(newProcEntry(pd.Name, paramTypes, local))
	return nil
}

// checkMain enforces spec.md §4.5's three program-structure invariants: a
// procedure named "main" must exist, must be a procedure (a global
// `type main = ...;` binds the name to a Type entry instead), and must take
// no parameters.
func checkMain(global *Scope, interner *Interner) error {
	mainName := interner.Intern("main")
	entry := global.LookupLocal(mainName)
	if entry == nil {
		return splerr.MainIsMissing()
	}
	if entry.Kind != EntryProc {
		return splerr.MainIsNotAProcedure()
	}
	if len(entry.ParamTypes) != 0 {
		return splerr.MainMustNotHaveParameters()
	}
	return nil
}
