package layout

import "fmt"

type (
	// Manifest is the JSON form of a snapshot's type information.
	Manifest map[string]TypeDesc

	TypeDesc struct {
		Kind    Kind         `json:"kind"`
		Size    uint64       `json:"size"`
		Members []MemberDesc `json:"members,omitempty"`
		Elem    string       `json:"elem,omitempty"`
		Count   int          `json:"count,omitempty"`
	}

	MemberDesc struct {
		Name   string `json:"name"`
		Type   string `json:"type"`
		Offset uint64 `json:"offset"`
	}
)

// Load resolves a manifest into the table. Types may reference each other
// and the preseeded primitives by name, in any order.
func (t *Table) Load(m Manifest) error {
	for name, desc := range m {
		switch desc.Kind {
		case KindFloat, KindUint, KindPointer, KindStruct, KindArray:
		default:
			return fmt.Errorf("type %q has unknown kind %q", name, desc.Kind)
		}
		t.types[name] = &Type{
			Kind:  desc.Kind,
			Name:  name,
			Size:  desc.Size,
			Count: desc.Count,
		}
	}
	for name, desc := range m {
		typ := t.types[name]
		if desc.Elem != "" {
			elem, ok := t.types[desc.Elem]
			if !ok {
				return fmt.Errorf("type %q references unknown element type %q", name, desc.Elem)
			}
			typ.Elem = elem
		} else if desc.Kind == KindPointer || desc.Kind == KindArray {
			return fmt.Errorf("type %q of kind %q needs an element type", name, desc.Kind)
		}
		if len(desc.Members) > 0 && desc.Kind != KindStruct {
			return fmt.Errorf("type %q of kind %q cannot have members", name, desc.Kind)
		}
		for _, md := range desc.Members {
			mt, ok := t.types[md.Type]
			if !ok {
				return fmt.Errorf("member %q of type %q references unknown type %q", md.Name, name, md.Type)
			}
			typ.Members = append(typ.Members, Member{
				Name:   md.Name,
				Type:   mt,
				Offset: md.Offset,
			})
		}
	}
	return nil
}
