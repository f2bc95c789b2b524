// Package economy computes the derived economic quantities of a tick:
// star regeneration, base production gating, outpost damage tiers and
// pylon healing. Every function is pure over the given snapshot values;
// nothing is memoized across ticks. The engine predicts host behavior,
// it never mutates it.
package economy

import (
	"math"
	"sort"

	"spiritgrid.ai/internal/sim/model"
	"spiritgrid.ai/internal/sim/snapshot"
	"spiritgrid.ai/internal/sim/tuning"
)

type Engine struct {
	tun tuning.Tuning
}

func New(tun tuning.Tuning) Engine {
	return Engine{tun: tun}
}

// StarIncome returns the energy a star gains this tick: round half-up of
// base_rate + energy_factor*energy, using the high-yield constants for the
// designated star, clamped so the star never exceeds capacity.
func (e Engine) StarIncome(star *model.Structure) int {
	rate := e.tun.Star.BaseRate + e.tun.Star.EnergyFactor*float64(star.Energy)
	if star.HighYield {
		rate = e.tun.Star.HighYieldBaseRate + e.tun.Star.HighYieldEnergyFactor*float64(star.Energy)
	}
	income := int(math.Floor(rate + 0.5))
	if income < 0 {
		income = 0
	}
	if room := star.Capacity - star.Energy; income > room {
		income = room
	}
	return income
}

// BaseCanProduce reports whether a base spawns a spirit this tick: it must
// afford the current spirit cost and see no enemy, since a threatened base
// reserves all energy for self-defense.
func (e Engine) BaseCanProduce(base *model.Structure) bool {
	if base.Sight != nil && len(base.Sight.Enemies) > 0 {
		return false
	}
	return base.Energy >= base.SpiritCost
}

// OutpostTier returns the range/cost/damage tier the outpost fires at this
// tick. The upgrade boundary is inclusive: at exactly the threshold the
// outpost already fires upgraded shots.
func (e Engine) OutpostTier(outpost *model.Structure) tuning.TierTuning {
	if outpost.Energy >= e.tun.Outpost.UpgradeThreshold {
		return e.tun.Outpost.High
	}
	return e.tun.Outpost.Low
}

// OutpostCanFire reports whether the outpost can afford one shot at its
// current tier.
func (e Engine) OutpostCanFire(outpost *model.Structure) bool {
	return outpost.Energy >= e.OutpostTier(outpost).Cost
}

// SimulateOutpostShot picks the enemy the outpost would hit this tick:
// the nearest in-range spirit not owned by the controlling player, ties
// broken by ascending id. Returns ok=false when nothing is in range or
// the shot is unaffordable.
func (e Engine) SimulateOutpostShot(outpost *model.Structure, spirits []*model.Spirit) (targetID string, damage int, ok bool) {
	tier := e.OutpostTier(outpost)
	if outpost.Energy < tier.Cost {
		return "", 0, false
	}
	best := ""
	bestDist := math.Inf(1)
	for _, sp := range spirits {
		if sp.Player == outpost.Control {
			continue
		}
		d := model.Dist(outpost.Pos, sp.Pos)
		if d > tier.Range {
			continue
		}
		if d < bestDist || (d == bestDist && sp.ID < best) {
			best = sp.ID
			bestDist = d
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, tier.Damage, true
}

// PylonHealTargets returns the ids of the friendly spirits the pylon heals
// this tick, ascending id, truncated once the pylon's own energy runs out,
// plus the energy actually spent. Spirits inside the inner radius or past
// the outer radius receive nothing.
func (e Engine) PylonHealTargets(pylon *model.Structure, friendlies []*model.Spirit) (healed []string, spent int) {
	inRange := make([]string, 0, len(friendlies))
	for _, sp := range friendlies {
		d := model.Dist(pylon.Pos, sp.Pos)
		if d < e.tun.Pylon.InnerRadius || d > e.tun.Pylon.OuterRadius {
			continue
		}
		inRange = append(inRange, sp.ID)
	}
	sort.Strings(inRange)

	per := e.tun.Pylon.HealPerSpirit
	if per <= 0 {
		return nil, 0
	}
	affordable := pylon.Energy / per
	if len(inRange) > affordable {
		inRange = inRange[:affordable]
	}
	if len(inRange) == 0 {
		return nil, 0
	}
	return inRange, len(inRange) * per
}

// Report is the full set of derived quantities for one tick, keyed by
// entity id. Decision logic reads it instead of recomputing rules inline.
type Report struct {
	Tick uint64

	StarIncome  map[string]int
	Production  map[string]bool
	Tiers       map[string]tuning.TierTuning
	HealTargets map[string][]string
}

func (e Engine) Report(ws *snapshot.WorldState) (*Report, error) {
	stars, err := ws.Stars()
	if err != nil {
		return nil, err
	}
	bases, err := ws.Bases()
	if err != nil {
		return nil, err
	}
	outposts, err := ws.Outposts()
	if err != nil {
		return nil, err
	}
	pylons, err := ws.Pylons()
	if err != nil {
		return nil, err
	}
	spirits, err := ws.Spirits()
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Tick:        ws.Tick(),
		StarIncome:  make(map[string]int, len(stars)),
		Production:  make(map[string]bool, len(bases)),
		Tiers:       make(map[string]tuning.TierTuning, len(outposts)),
		HealTargets: make(map[string][]string, len(pylons)),
	}
	for _, st := range stars {
		rep.StarIncome[st.ID] = e.StarIncome(st)
	}
	for _, b := range bases {
		rep.Production[b.ID] = e.BaseCanProduce(b)
	}
	for _, o := range outposts {
		rep.Tiers[o.ID] = e.OutpostTier(o)
	}
	for _, p := range pylons {
		var friendlies []*model.Spirit
		for _, sp := range spirits {
			if p.Control != "" && sp.Player == p.Control {
				friendlies = append(friendlies, sp)
			}
		}
		healed, _ := e.PylonHealTargets(p, friendlies)
		rep.HealTargets[p.ID] = healed
	}
	return rep, nil
}
