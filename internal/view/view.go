// Package view projects inspected values into display trees, consulting a
// printer registry the way a debugger frontend consults its formatters.
package view

import (
	"fmt"
	"strconv"

	"github.com/alloyengine/peek/internal/layout"
	"github.com/alloyengine/peek/internal/registry"
	"github.com/alloyengine/peek/internal/valobj"
)

type Node struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Summary  string `json:"summary,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Render builds the display tree for a value. Children come from the
// registered synthetic provider when one matches, otherwise from the raw
// type layout. Absent children are skipped and failures surface as the
// printers' own placeholders, so Render never errors. maxDepth bounds the
// number of child levels below the node.
func Render(v valobj.Value, reg *registry.Registry, maxDepth int) Node {
	p, _ := reg.Lookup(v.TypeName())
	node := Node{
		Name:    v.Name(),
		Type:    v.TypeName(),
		Summary: summarize(v, p),
	}
	if maxDepth <= 0 {
		return node
	}

	if p.Synthetic != nil {
		syn := p.Synthetic(v)
		n := syn.NumChildren()
		for i := 0; i < n; i++ {
			child := syn.ChildAtIndex(i)
			if child == nil {
				continue
			}
			node.Children = append(node.Children, Render(child, reg, maxDepth-1))
		}
		return node
	}

	typ := v.Type()
	if typ == nil {
		return node
	}
	switch typ.Kind {
	case layout.KindStruct:
		for _, m := range typ.Members {
			child, err := v.ChildByName(m.Name)
			if err != nil {
				continue
			}
			node.Children = append(node.Children, Render(child, reg, maxDepth-1))
		}
	case layout.KindArray:
		node.Children = renderElements(v, typ, reg, maxDepth)
	}
	return node
}

// Summarize renders just the one-line summary for a value.
func Summarize(v valobj.Value, reg *registry.Registry) string {
	p, _ := reg.Lookup(v.TypeName())
	return summarize(v, p)
}

func summarize(v valobj.Value, p registry.Printer) string {
	if p.Summary != nil {
		return p.Summary(v)
	}
	typ := v.Type()
	if typ == nil {
		return ""
	}
	switch typ.Kind {
	case layout.KindFloat:
		f, err := v.Float()
		if err != nil {
			return ""
		}
		bits := 64
		if typ.Size == 4 {
			bits = 32
		}
		return strconv.FormatFloat(f, 'g', -1, bits)
	case layout.KindUint:
		u, err := v.Uint()
		if err != nil {
			return ""
		}
		return strconv.FormatUint(u, 10)
	case layout.KindPointer:
		u, err := v.Uint()
		if err != nil {
			return ""
		}
		return "0x" + strconv.FormatUint(u, 16)
	}
	return ""
}

func renderElements(v valobj.Value, typ *layout.Type, reg *registry.Registry, maxDepth int) []Node {
	if typ.Elem == nil || typ.Elem.Size == 0 {
		return nil
	}
	data, err := v.Data()
	if err != nil {
		return nil
	}
	count := typ.Count
	if available := len(data) / int(typ.Elem.Size); available < count {
		count = available
	}
	var children []Node
	for i := 0; i < count; i++ {
		start := uint64(i) * typ.Elem.Size
		elem := valobj.NewDataValue(fmt.Sprintf("[%d]", i), typ.Elem, data[start:start+typ.Elem.Size], v.Target())
		children = append(children, Render(elem, reg, maxDepth-1))
	}
	return children
}
