package model

import (
	"sort"

	"spiritgrid.ai/internal/protocol"
)

// Capability names one spirit operation. The legal set is a pure function
// of shape: circles merge and divide, squares lock and unlock, triangles
// explode, and everything else is common to all three.
type Capability string

const (
	CapEnergize Capability = "energize"
	CapMove     Capability = "move"
	CapJump     Capability = "jump"
	CapShout    Capability = "shout"
	CapSetMark  Capability = "set_mark"
	CapMerge    Capability = "merge"
	CapDivide   Capability = "divide"
	CapLock     Capability = "lock"
	CapUnlock   Capability = "unlock"
	CapExplode  Capability = "explode"
)

var commonCaps = []Capability{CapEnergize, CapMove, CapJump, CapShout, CapSetMark}

var shapeOnlyCaps = map[Shape][]Capability{
	ShapeCircle:   {CapMerge, CapDivide},
	ShapeSquare:   {CapLock, CapUnlock},
	ShapeTriangle: {CapExplode},
}

// Can reports whether a spirit of the given shape may perform cap.
func Can(shape Shape, cap Capability) bool {
	for _, c := range commonCaps {
		if c == cap {
			return true
		}
	}
	for _, c := range shapeOnlyCaps[shape] {
		if c == cap {
			return true
		}
	}
	return false
}

// Capabilities returns the full legal set for a shape, sorted for
// deterministic diagnostics.
func Capabilities(shape Shape) []Capability {
	out := make([]Capability, 0, len(commonCaps)+2)
	out = append(out, commonCaps...)
	out = append(out, shapeOnlyCaps[shape]...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var commandCaps = map[string]Capability{
	protocol.CmdEnergize: CapEnergize,
	protocol.CmdMove:     CapMove,
	protocol.CmdJump:     CapJump,
	protocol.CmdMerge:    CapMerge,
	protocol.CmdDivide:   CapDivide,
	protocol.CmdLock:     CapLock,
	protocol.CmdUnlock:   CapUnlock,
	protocol.CmdExplode:  CapExplode,
	protocol.CmdShout:    CapShout,
	protocol.CmdSetMark:  CapSetMark,
}

// CapabilityForCommand maps a wire command type to the capability it needs.
func CapabilityForCommand(cmdType string) (Capability, bool) {
	c, ok := commandCaps[cmdType]
	return c, ok
}
