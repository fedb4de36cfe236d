package printer

import (
	"fmt"

	"github.com/alloyengine/peek/internal/valobj"
)

const colorErrSummary = "Color(...)"

// Color exposes an alloy RGBA color as r/g/b/a children. The debuggee lays
// it out exactly like a quaternion: one Vector4 member holding four floats.
type Color struct {
	r valobj.Value
	g valobj.Value
	b valobj.Value
	a valobj.Value
}

func NewColor(v valobj.Value) *Color {
	c := new(Color)
	vec, err := v.ChildByName("0")
	if err != nil {
		return c
	}
	c.r, _ = vec.ChildByName("x")
	c.g, _ = vec.ChildByName("y")
	c.b, _ = vec.ChildByName("z")
	c.a, _ = vec.ChildByName("w")
	return c
}

func (c *Color) NumChildren() int {
	return 4
}

func (c *Color) ChildAtIndex(index int) valobj.Value {
	var component valobj.Value
	var name string
	switch index {
	case 0:
		component, name = c.r, "r"
	case 1:
		component, name = c.g, "g"
	case 2:
		component, name = c.b, "b"
	case 3:
		component, name = c.a, "a"
	default:
		return nil
	}
	if component == nil {
		return nil
	}
	data, err := component.Data()
	if err != nil {
		return nil
	}
	return valobj.NewDataValue(name, component.Type(), data, component.Target())
}

func (c *Color) ChildIndex(name string) int {
	switch name {
	case "r":
		return 0
	case "g":
		return 1
	case "b":
		return 2
	case "a":
		return 3
	}
	return -1
}

// ColorSummary renders the four channels as #RRGGBBAA, each channel
// truncated from value*255.
func ColorSummary(v valobj.Value) string {
	c := NewColor(v)
	components := [4]valobj.Value{c.r, c.g, c.b, c.a}
	var channels [4]int
	for n, component := range components {
		if component == nil {
			return colorErrSummary
		}
		f, err := component.Float()
		if err != nil {
			return colorErrSummary
		}
		channels[n] = int(f * 255)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", channels[0], channels[1], channels[2], channels[3])
}
