package main

import (
	"fmt"
	"log"
	"math"

	"spiritgrid.ai/internal/sim/economy"
	"spiritgrid.ai/internal/sim/gateway"
	"spiritgrid.ai/internal/sim/memory"
	"spiritgrid.ai/internal/sim/model"
	"spiritgrid.ai/internal/sim/snapshot"
	"spiritgrid.ai/internal/sim/tuning"
)

// energizeRange is the host's transfer range; moving closer than this is
// wasted travel.
const energizeRange = 200.0

// policy is a deliberately simple harvest-and-retreat strategy. It exists
// to exercise the pipeline end to end; real decision logic is expected to
// replace it wholesale, consuming the same snapshot, economy and gateway
// surfaces.
type policy struct {
	eco economy.Engine
	mem *memory.Store
	tun tuning.Tuning
}

func (p *policy) run(world *snapshot.WorldState, gw *gateway.Gateway, logger *log.Logger) {
	rep, err := p.eco.Report(world)
	if err != nil {
		logger.Printf("economy report: %v", err)
		return
	}

	own, err := world.OwnSpirits()
	if err != nil {
		return
	}
	stars, err := world.Stars()
	if err != nil {
		return
	}
	bases, err := world.Bases()
	if err != nil {
		return
	}

	var home *model.Structure
	for _, b := range bases {
		if b.Control == world.PlayerID() {
			home = b
			break
		}
	}
	p.trackProduction(home, rep)

	for _, sp := range own {
		view, err := gw.For(sp)
		if err != nil {
			continue
		}

		sight, err := world.ResolveSight(sp.Sight)
		if err != nil {
			return
		}
		if len(sight.Enemies) > len(sight.Friends)+1 && home != nil {
			// Outnumbered: fall back toward the base. Dispatch errors are
			// already tallied by the gateway; a suppressed retreat is
			// simply retried by next tick's evaluation.
			_ = view.Move(home.Pos)
			continue
		}

		if sp.Energy < sp.Capacity {
			star := nearestStructure(sp.Pos, stars)
			if star == nil {
				continue
			}
			if model.Dist(sp.Pos, star.Pos) <= energizeRange {
				_ = view.Energize(sp.ID) // harvest: pull star energy into self
			} else {
				_ = view.Move(star.Pos)
			}
			continue
		}

		if home == nil {
			continue
		}
		if model.Dist(sp.Pos, home.Pos) <= energizeRange {
			_ = view.Energize(home.ID)
		} else {
			_ = view.Move(home.Pos)
		}
	}
}

// trackProduction remembers the base's spirit cost across ticks so the
// strategy can react to cost growth.
func (p *policy) trackProduction(home *model.Structure, rep *economy.Report) {
	if home == nil {
		return
	}
	key := fmt.Sprintf("base/%s/cost", home.ID)
	prev := p.mem.GetInt(key)
	if prev != 0 && home.SpiritCost > prev {
		p.mem.Set("base/cost_rising", true)
	}
	p.mem.Set(key, home.SpiritCost)
	p.mem.Set(fmt.Sprintf("base/%s/producing", home.ID), rep.Production[home.ID])
}

func nearestStructure(from model.Vec2, structures []*model.Structure) *model.Structure {
	var best *model.Structure
	bestDist := math.Inf(1)
	for _, st := range structures {
		d := model.Dist(from, st.Pos)
		if d < bestDist {
			best = st
			bestDist = d
		}
	}
	return best
}
