// Package simtest is a small black-box harness driving the per-tick
// pipeline the way the bot binary does: set the clock, build the world
// state, hand it to the economy engine and the gateway, and capture what
// would have been sent to the host.
package simtest

import (
	"testing"

	"spiritgrid.ai/internal/protocol"
	"spiritgrid.ai/internal/sim/economy"
	"spiritgrid.ai/internal/sim/gateway"
	"spiritgrid.ai/internal/sim/memory"
	"spiritgrid.ai/internal/sim/snapshot"
	"spiritgrid.ai/internal/sim/tuning"
)

type FakeHost struct {
	Sent []protocol.Command
}

func (f *FakeHost) Send(cmd protocol.Command) error {
	f.Sent = append(f.Sent, cmd)
	return nil
}

type Harness struct {
	T     *testing.T
	Clock *snapshot.Clock
	Eco   economy.Engine
	G     *gateway.Gateway
	Host  *FakeHost
	Mem   *memory.Store

	PlayerID string

	ws *snapshot.WorldState
}

func NewHarness(t *testing.T) *Harness {
	t.Helper()
	host := &FakeHost{}
	return &Harness{
		T:        t,
		Clock:    &snapshot.Clock{},
		Eco:      economy.New(tuning.Default()),
		G:        gateway.New(host, nil),
		Host:     host,
		Mem:      memory.NewStore(),
		PlayerID: "P1",
	}
}

// Step advances the clock one tick, rebuilds the world state from the
// payload and begins a gateway tick against it.
func (h *Harness) Step(p protocol.TickPayload) *snapshot.WorldState {
	h.T.Helper()
	h.Clock.Set(h.Clock.Now() + 1)
	ws, err := snapshot.Build(h.Clock, h.PlayerID, p)
	if err != nil {
		h.T.Fatalf("snapshot build: %v", err)
	}
	h.ws = ws
	h.G.BeginTick(ws)
	return ws
}

func (h *Harness) World() *snapshot.WorldState { return h.ws }

// Spirit is a payload record builder with playable defaults.
func Spirit(id, player, shape string, x, y float64, energy int) protocol.SpiritRecord {
	return protocol.SpiritRecord{
		ID: id, Player: player, Pos: [2]float64{x, y},
		Size: 1, Energy: energy, Capacity: 10, HP: 1, Shape: shape,
	}
}

func Base(id, control string, x, y float64, energy, cost int) protocol.StructureRecord {
	return protocol.StructureRecord{
		ID: id, Kind: "base", Pos: [2]float64{x, y},
		Energy: energy, Capacity: 400, Control: control, SpiritCost: cost,
		Sight: &protocol.Sight{},
	}
}

func Star(id string, x, y float64, energy int, highYield bool) protocol.StructureRecord {
	return protocol.StructureRecord{
		ID: id, Kind: "star", Pos: [2]float64{x, y},
		Energy: energy, Capacity: 1000, HighYield: highYield,
	}
}

func Outpost(id, control string, x, y float64, energy int) protocol.StructureRecord {
	return protocol.StructureRecord{
		ID: id, Kind: "outpost", Pos: [2]float64{x, y},
		Energy: energy, Capacity: 1000, Control: control,
		Sight: &protocol.Sight{},
	}
}

func Pylon(id, control string, x, y float64, energy int) protocol.StructureRecord {
	return protocol.StructureRecord{
		ID: id, Kind: "pylon", Pos: [2]float64{x, y},
		Energy: energy, Capacity: 200, Control: control,
		Sight: &protocol.Sight{},
	}
}
