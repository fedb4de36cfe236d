package debugmeta

import "github.com/alloyengine/peek/internal/types"

type (
	Features struct {
		HasDebugInfo bool `json:"has_debug_info"`
		HasSymbols   bool `json:"has_symbols"`
	}

	// Image describes one module loaded in the inspected process at capture
	// time. Incomplete debug information here is the usual reason a value's
	// structural lookup degrades to a placeholder.
	Image struct {
		Arch      string        `json:"arch,omitempty"`
		CodeFile  string        `json:"code_file,omitempty"`
		DebugID   string        `json:"debug_id,omitempty"`
		Features  Features      `json:"features"`
		ImageAddr types.Address `json:"image_addr"`
		ImageSize uint64        `json:"image_size"`
		Type      string        `json:"type,omitempty"`
	}
)
