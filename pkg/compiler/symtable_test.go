package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeEnterAndLookup(t *testing.T) {
	interner := NewInterner()
	scope := NewScope(nil)
	name := interner.Intern("x")
	entry := newVarEntry(name, IntType, false)

	ok := scope.Enter(entry)
	require.True(t, ok)

	found := scope.Lookup(name)
	require.NotNil(t, found)
	assert.Same(t, entry, found)
}

// Testable property 5 (spec.md §8): enter on a collision returns a
// sentinel (false) and does not mutate the scope; lookup still returns
// the pre-existing entry.
func TestScopeEnterCollisionDoesNotMutate(t *testing.T) {
	interner := NewInterner()
	scope := NewScope(nil)
	name := interner.Intern("x")
	first := newVarEntry(name, IntType, false)
	second := newVarEntry(name, BoolType, true)

	require.True(t, scope.Enter(first))
	ok := scope.Enter(second)
	assert.False(t, ok)

	found := scope.Lookup(name)
	assert.Same(t, first, found)
}

func TestScopeLookupWalksOuterScopes(t *testing.T) {
	interner := NewInterner()
	outer := NewScope(nil)
	outerName := interner.Intern("g")
	outer.Enter(newVarEntry(outerName, IntType, false))

	inner := NewScope(outer)
	innerName := interner.Intern("l")
	inner.Enter(newVarEntry(innerName, IntType, false))

	assert.NotNil(t, inner.Lookup(outerName))
	assert.NotNil(t, inner.Lookup(innerName))
	assert.Nil(t, outer.Lookup(innerName), "outer scope must not see inner bindings")
}

func TestScopeLookupLocalDoesNotWalkOuter(t *testing.T) {
	interner := NewInterner()
	outer := NewScope(nil)
	name := interner.Intern("g")
	outer.Enter(newVarEntry(name, IntType, false))

	inner := NewScope(outer)
	assert.Nil(t, inner.LookupLocal(name))
	assert.NotNil(t, inner.Lookup(name))
}

func TestInitializeGlobalScopeHasIntAndPredefinedProcs(t *testing.T) {
	interner := NewInterner()
	global := InitializeGlobalScope(interner)

	intEntry := global.LookupLocal(interner.Intern("int"))
	require.NotNil(t, intEntry)
	assert.Equal(t, EntryType, intEntry.Kind)

	for _, name := range []string{"printi", "printc", "readi", "readc", "exit", "time", "clearAll", "setPixel", "drawLine", "drawCircle"} {
		entry := global.LookupLocal(interner.Intern(name))
		require.NotNil(t, entry, "predefined procedure %q must exist", name)
		assert.Equal(t, EntryProc, entry.Kind)
	}

	readi := global.LookupLocal(interner.Intern("readi"))
	require.Len(t, readi.ParamTypes, 1)
	assert.True(t, readi.ParamTypes[0].IsRef)

	exitProc := global.LookupLocal(interner.Intern("exit"))
	assert.Empty(t, exitProc.ParamTypes)
}

func TestDumpEntryFormatsMatchOriginalSkeleton(t *testing.T) {
	interner := NewInterner()
	typeEntry := newTypeEntry(interner.Intern("t"), IntType)
	assert.Equal(t, "type: int", DumpEntry(typeEntry))

	varEntry := newVarEntry(interner.Intern("v"), IntType, true)
	assert.Equal(t, "var: ref int", DumpEntry(varEntry))

	procEntry := newProcEntry(interner.Intern("p"), []ParamType{{Type: IntType, IsRef: false}}, nil)
	assert.Equal(t, "proc: (int)", DumpEntry(procEntry))
}
