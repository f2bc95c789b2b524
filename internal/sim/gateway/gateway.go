// Package gateway is the single choke point between decision logic and
// the host. Every mutating command passes through Dispatch, which checks
// shape capability, target existence and the one-command-per-spirit-per-
// tick rule before forwarding. Failed validation suppresses the host call
// and returns a structured rule error; nothing is retried within the tick.
package gateway

import (
	"fmt"
	"log"
	"math"
	"sync"

	"spiritgrid.ai/internal/protocol"
	"spiritgrid.ai/internal/sim/model"
	"spiritgrid.ai/internal/sim/snapshot"
)

// Host is the command sink. The websocket client implements it by
// buffering commands into one ACT per tick; tests implement it with an
// in-memory fake.
type Host interface {
	Send(cmd protocol.Command) error
}

// TickStats summarizes one tick of gateway traffic for the recorder.
type TickStats struct {
	Tick     uint64
	Issued   []protocol.Command
	Rejected map[string]int // error code -> count
}

type Gateway struct {
	host Host
	log  *log.Logger

	// Dispatch may be called from parallel evaluators; the tracker and
	// stats are serialized here before anything reaches the host.
	mu    sync.Mutex
	ws    *snapshot.WorldState
	acted map[string]string // spirit id -> command type dispatched this tick
	stats TickStats
}

func New(host Host, logger *log.Logger) *Gateway {
	return &Gateway{host: host, log: logger}
}

// BeginTick swaps in the fresh world state and resets the per-tick
// action tracker.
func (g *Gateway) BeginTick(ws *snapshot.WorldState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ws = ws
	g.acted = make(map[string]string)
	g.stats = TickStats{Tick: ws.Tick(), Rejected: make(map[string]int)}
}

// Stats returns a copy of the running tallies for the current tick.
func (g *Gateway) Stats() TickStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := TickStats{
		Tick:     g.stats.Tick,
		Issued:   append([]protocol.Command(nil), g.stats.Issued...),
		Rejected: make(map[string]int, len(g.stats.Rejected)),
	}
	for code, n := range g.stats.Rejected {
		out.Rejected[code] = n
	}
	return out
}

// Dispatch validates cmd against the current world state and forwards it
// to the host exactly once. The host's own response is not re-validated;
// a rejected command is simply never sent.
func (g *Gateway) Dispatch(cmd protocol.Command) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.validateLocked(cmd); err != nil {
		if code := model.CodeOf(err); code != "" {
			g.stats.Rejected[code]++
		}
		if g.log != nil {
			g.log.Printf("rejected %s for %s: %v", cmd.Type, cmd.Spirit, err)
		}
		return err
	}

	if err := g.host.Send(cmd); err != nil {
		return model.NewRuleError(protocol.ErrInternal, cmd.Spirit, fmt.Sprintf("host send: %v", err))
	}
	g.acted[cmd.Spirit] = cmd.Type
	g.stats.Issued = append(g.stats.Issued, cmd)
	return nil
}

func (g *Gateway) validateLocked(cmd protocol.Command) error {
	if g.ws == nil {
		return model.NewRuleError(protocol.ErrInternal, cmd.Spirit, "no world state; call BeginTick first")
	}
	if err := g.ws.Guard(); err != nil {
		return err
	}

	needed, ok := model.CapabilityForCommand(cmd.Type)
	if !ok {
		return model.NewRuleError(protocol.ErrBadRequest, cmd.Spirit, fmt.Sprintf("unknown command type %q", cmd.Type))
	}

	sp, err := g.ws.Spirit(cmd.Spirit)
	if err != nil {
		return err
	}
	if sp == nil {
		return model.NewRuleError(protocol.ErrUnknownTarget, cmd.Spirit, "acting spirit not in current snapshot")
	}

	if !model.Can(sp.Shape, needed) {
		return model.NewRuleError(protocol.ErrCapability, cmd.Spirit,
			fmt.Sprintf("%s cannot %s", sp.Shape, needed))
	}

	if err := g.validateParamsLocked(sp, cmd); err != nil {
		return err
	}

	if prev, acted := g.acted[cmd.Spirit]; acted {
		return model.NewRuleError(protocol.ErrDoubleAction, cmd.Spirit,
			fmt.Sprintf("already dispatched %s this tick", prev))
	}
	return nil
}

func (g *Gateway) validateParamsLocked(sp *model.Spirit, cmd protocol.Command) error {
	switch cmd.Type {
	case protocol.CmdEnergize:
		// Range checking is host-enforced; we only reject targets the
		// snapshot has never heard of.
		ok, err := g.ws.Has(cmd.Target)
		if err != nil {
			return err
		}
		if !ok {
			return model.NewRuleError(protocol.ErrUnknownTarget, cmd.Spirit,
				fmt.Sprintf("energize target %q not in current snapshot", cmd.Target))
		}

	case protocol.CmdMerge:
		target, err := g.ws.Spirit(cmd.Target)
		if err != nil {
			return err
		}
		if target == nil {
			return model.NewRuleError(protocol.ErrUnknownTarget, cmd.Spirit,
				fmt.Sprintf("merge target %q not in current snapshot", cmd.Target))
		}
		if target.Player != sp.Player || target.Shape != model.ShapeCircle {
			return model.NewRuleError(protocol.ErrBadRequest, cmd.Spirit,
				"merge target must be a friendly circle")
		}
		if target.ID == sp.ID {
			return model.NewRuleError(protocol.ErrBadRequest, cmd.Spirit, "cannot merge into self")
		}

	case protocol.CmdMove, protocol.CmdJump:
		if cmd.To == nil {
			return model.NewRuleError(protocol.ErrBadRequest, cmd.Spirit, "missing destination")
		}
		for _, v := range cmd.To {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return model.NewRuleError(protocol.ErrBadRequest, cmd.Spirit, "non-finite destination")
			}
		}
	}
	return nil
}
