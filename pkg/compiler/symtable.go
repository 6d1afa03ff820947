package compiler

import "fmt"

// EntryKind differentiates the three things a Scope can bind a name to,
// mirroring the original skeleton's entry_kind enum (table.h).
type EntryKind int

const (
	EntryType EntryKind = iota
	EntryVar
	EntryProc
)

func (k EntryKind) String() string {
	switch k {
	case EntryType:
		return "type"
	case EntryVar:
		return "var"
	case EntryProc:
		return "proc"
	default:
		return "unknown"
	}
}

// ParamType is one entry of a procedure's parameter-type signature: just
// enough to type-check a call site without needing the full
// ParameterDeclaration (name, type expression, source line).
type ParamType struct {
	Type  Type
	IsRef bool
	// Offset is filled in by the variable allocator (stage 5); zero until
	// then. Predefined procedures have it filled in directly at table
	// initialization time, since there is no allocator pass over them.
	Offset int
}

// Entry is a scope binding: the semantic meaning behind a declared name.
// Exactly one of the Type/Var/Proc groups of fields is meaningful,
// selected by Kind - the same closed discriminated-union shape as the
// original C Entry struct, expressed as a tagged Go struct instead of a
// union, since Go has no native union type.
type Entry struct {
	Kind EntryKind
	Name *Identifier

	// EntryType
	DeclaredType Type

	// EntryVar
	VarType Type
	IsRef   bool
	// Offset is filled in by the variable allocator; zero until then.
	Offset int

	// EntryProc
	ParamTypes []ParamType
	LocalScope *Scope
	// ArgumentArea, LocalVarArea and OutgoingArea are filled in by the
	// variable allocator (stage 5). OutgoingArea is -1 for a leaf
	// procedure that calls nothing, matching spec.md §4.7.
	ArgumentArea int
	LocalVarArea int
	OutgoingArea int
}

func newTypeEntry(name *Identifier, t Type) *Entry {
	return &Entry{Kind: EntryType, Name: name, DeclaredType: t}
}

func newVarEntry(name *Identifier, t Type, isRef bool) *Entry {
	return &Entry{Kind: EntryVar, Name: name, VarType: t, IsRef: isRef}
}

func newProcEntry(name *Identifier, params []ParamType, local *Scope) *Entry {
	return &Entry{Kind: EntryProc, Name: name, ParamTypes: params, LocalScope: local, OutgoingArea: -1}
}

// newPredefinedProcEntry builds an Entry for one of the ten built-in
// procedures (spec.md §4.3): its argument area size is already known, so
// the variable allocator never has to visit it.
func newPredefinedProcEntry(name *Identifier, params []ParamType, argumentArea int) *Entry {
	return &Entry{Kind: EntryProc, Name: name, ParamTypes: params, LocalScope: nil, ArgumentArea: argumentArea, OutgoingArea: -1}
}

// bstNode is one node of the per-scope binary search tree keyed by
// Identifier.Stamp, exactly like the original skeleton's Bintree: a BST
// on the interning order gives a deterministic dump order without sorting,
// since Stamp assignment order is itself deterministic (first occurrence
// in source order).
type bstNode struct {
	key         int
	entry       *Entry
	left, right *bstNode
}

// Scope is one definition scope: the global scope, or one procedure's
// local scope. Scopes chain to their enclosing scope the way the original
// skeleton's SymbolTable.upperLevel does, so lookup can walk outward.
type Scope struct {
	tree  *bstNode
	outer *Scope
}

// NewScope creates an empty scope nested inside outer (nil for the global
// scope).
func NewScope(outer *Scope) *Scope {
	return &Scope{outer: outer}
}

// Enter binds entry.Name in scope, failing if the name is already bound in
// this exact scope (shadowing an outer scope is fine and is how
// parameters/locals hide like-named globals).
func (s *Scope) Enter(entry *Entry) bool {
	key := entry.Name.Stamp
	if s.tree == nil {
		s.tree = &bstNode{key: key, entry: entry}
		return true
	}
	node := s.tree
	for {
		switch {
		case node.key == key:
			return false
		case key < node.key:
			if node.left == nil {
				node.left = &bstNode{key: key, entry: entry}
				return true
			}
			node = node.left
		default:
			if node.right == nil {
				node.right = &bstNode{key: key, entry: entry}
				return true
			}
			node = node.right
		}
	}
}

func lookupBST(node *bstNode, key int) *Entry {
	for node != nil {
		switch {
		case node.key == key:
			return node.entry
		case key < node.key:
			node = node.left
		default:
			node = node.right
		}
	}
	return nil
}

// Lookup searches scope, then each enclosing scope in turn, and returns
// the first binding found for name (nil if none exists anywhere).
func (s *Scope) Lookup(name *Identifier) *Entry {
	for scope := s; scope != nil; scope = scope.outer {
		if e := lookupBST(scope.tree, name.Stamp); e != nil {
			return e
		}
	}
	return nil
}

// LookupLocal searches only this scope, not any enclosing one. Used by
// table building to detect redeclarations within the same scope.
func (s *Scope) LookupLocal(name *Identifier) *Entry {
	return lookupBST(s.tree, name.Stamp)
}

func forEachInOrder(node *bstNode, visit func(*Entry)) {
	if node == nil {
		return
	}
	forEachInOrder(node.left, visit)
	visit(node.entry)
	forEachInOrder(node.right, visit)
}

// ForEach visits every entry bound directly in this scope (not outer
// scopes), in ascending Stamp order - the BST's natural order, which is
// the order the names were first interned. That need not be declaration
// order: a name used before it is declared gets its Stamp at the use.
func (s *Scope) ForEach(visit func(*Entry)) {
	forEachInOrder(s.tree, visit)
}

// Outer returns the enclosing scope, or nil for the global scope.
func (s *Scope) Outer() *Scope { return s.outer }

// predefinedProcSpec describes one of the ten always-available procedures
// listed in spec.md §4.3, in argument order.
type predefinedProcSpec struct {
	name   string
	params []predefinedParamSpec
}

type predefinedParamSpec struct {
	isRef bool
}

var predefinedProcSpecs = []predefinedProcSpec{
	{"printi", []predefinedParamSpec{{false}}},
	{"printc", []predefinedParamSpec{{false}}},
	{"readi", []predefinedParamSpec{{true}}},
	{"readc", []predefinedParamSpec{{true}}},
	{"exit", nil},
	{"time", []predefinedParamSpec{{true}}},
	{"clearAll", []predefinedParamSpec{{false}}},
	{"setPixel", []predefinedParamSpec{{false}, {false}, {false}}},
	{"drawLine", []predefinedParamSpec{{false}, {false}, {false}, {false}, {false}}},
	{"drawCircle", []predefinedParamSpec{{false}, {false}, {false}, {false}}},
}

// InitializeGlobalScope builds the global scope priming it with the
// predefined "int" type and the ten predefined procedures of spec.md §4.3,
// interning every predefined name through interner so they share identity
// with any user source that refers to them.
func InitializeGlobalScope(interner *Interner) *Scope {
	global := NewScope(nil)
	global.Enter(newTypeEntry(interner.Intern("int"), IntType))

	for _, spec := range predefinedProcSpecs {
		params := make([]ParamType, len(spec.params))
		offset := 0
		argumentArea := 0
		for i, p := range spec.params {
			params[i] = ParamType{Type: IntType, IsRef: p.isRef, Offset: offset}
			offset += IntType.ByteSize()
			argumentArea += IntType.ByteSize()
		}
		global.Enter(newPredefinedProcEntry(interner.Intern(spec.name), params, argumentArea))
	}
	return global
}

// DumpEntry renders one Entry the way the original skeleton's showEntry
// does: "type: T" / "var: [ref ]T" / "proc: (T, T, ...)".
func DumpEntry(e *Entry) string {
	switch e.Kind {
	case EntryType:
		return fmt.Sprintf("type: %s", e.DeclaredType.String())
	case EntryVar:
		if e.IsRef {
			return fmt.Sprintf("var: ref %s", e.VarType.String())
		}
		return fmt.Sprintf("var: %s", e.VarType.String())
	case EntryProc:
		return fmt.Sprintf("proc: %s", dumpParamTypes(e.ParamTypes))
	default:
		panic(fmt.Sprintf("symtable: unknown entry kind %d", e.Kind))
	}
}

func dumpParamTypes(params []ParamType) string {
	s := "("
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		if p.IsRef {
			s += "ref "
		}
		s += p.Type.String()
	}
	return s + ")"
}

// DumpScope renders scope and every enclosing scope, outermost printed
// last, matching the original skeleton's showTable "level N" format used
// by the --tables CLI flag.
func DumpScope(scope *Scope) string {
	out := ""
	level := 0
	for s := scope; s != nil; s = s.outer {
		out += fmt.Sprintf("  level %d\n", level)
		s.ForEach(func(e *Entry) {
			out += fmt.Sprintf("  %-10s --> %s\n", e.Name.String, DumpEntry(e))
		})
		level++
	}
	return out
}
