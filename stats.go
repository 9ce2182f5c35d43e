package ordtree

// Stats is the diagnostic record returned by Container.GetStats. The flat array engine only
// fills Size; the B-tree engine fills everything.
type Stats struct {
	Degree int `json:"degree,omitempty"`
	Size   int `json:"size"`
	// Depth is the number of node levels, 1 for a tree made of the root leaf alone.
	Depth int `json:"depth,omitempty"`
	Nodes int `json:"nodes,omitempty"`
	// KeySlots is the key capacity of all nodes (degree-1 per node).
	KeySlots       int `json:"key_slots,omitempty"`
	FilledKeySlots int `json:"filled_key_slots,omitempty"`
	// SaturatedNodes counts nodes having all key slots filled.
	SaturatedNodes int `json:"saturated_nodes,omitempty"`
	// FillFactor is FilledKeySlots / KeySlots.
	FillFactor float64 `json:"fill_factor,omitempty"`
	// SaturationFactor is SaturatedNodes / Nodes.
	SaturationFactor float64 `json:"saturation_factor,omitempty"`
}
