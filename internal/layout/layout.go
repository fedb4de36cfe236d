package layout

import "fmt"

// Kind classifies a type the way the debuggee's debug information does.
type Kind string

const (
	KindFloat   Kind = "float"
	KindUint    Kind = "uint"
	KindPointer Kind = "pointer"
	KindStruct  Kind = "struct"
	KindArray   Kind = "array"
)

type (
	// Type describes the in-memory shape of a debuggee type.
	Type struct {
		Kind    Kind
		Name    string
		Size    uint64
		Members []Member
		Elem    *Type
		Count   int
	}

	// Member is a named field of a struct type at a fixed offset.
	Member struct {
		Name   string
		Type   *Type
		Offset uint64
	}
)

// Member returns the named member of a struct type.
func (t *Type) Member(name string) (Member, bool) {
	if t == nil || t.Kind != KindStruct {
		return Member{}, false
	}
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// ArrayOf builds an array type over elem, the way a debugger fabricates
// row types for matrix views.
func ArrayOf(elem *Type, count int) *Type {
	if elem == nil || count < 0 {
		return nil
	}
	return &Type{
		Kind:  KindArray,
		Name:  fmt.Sprintf("%s[%d]", elem.Name, count),
		Size:  elem.Size * uint64(count),
		Elem:  elem,
		Count: count,
	}
}

// Table holds the types known to a target, keyed by fully-qualified name.
type Table struct {
	types map[string]*Type
}

// NewTable returns a table preseeded with the primitive types every target
// knows, whether or not the snapshot shipped debug information.
func NewTable() *Table {
	t := &Table{types: make(map[string]*Type)}
	for _, p := range []*Type{
		{Kind: KindFloat, Name: "float", Size: 4},
		{Kind: KindFloat, Name: "double", Size: 8},
		{Kind: KindUint, Name: "unsigned int", Size: 4},
		{Kind: KindUint, Name: "unsigned long", Size: 8},
		{Kind: KindUint, Name: "usize", Size: 8},
	} {
		t.types[p.Name] = p
	}
	return t
}

// Find returns the type registered under name.
func (t *Table) Find(name string) (*Type, bool) {
	typ, ok := t.types[name]
	return typ, ok
}

// Add registers a type, replacing any previous entry with the same name.
func (t *Table) Add(typ *Type) {
	if typ == nil || typ.Name == "" {
		return
	}
	t.types[typ.Name] = typ
}
