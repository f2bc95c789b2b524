package snapshot

import (
	"errors"
	"fmt"
	"sort"

	"spiritgrid.ai/internal/protocol"
	"spiritgrid.ai/internal/sim/model"
)

// WorldState is the immutable per-tick view of everything the host showed
// us: own and visible spirits, the four bases and stars, and any visible
// outposts and pylons. It must be rebuilt every tick; every accessor
// guards against reads from a past tick.
type WorldState struct {
	clock    *Clock
	tick     uint64
	playerID string

	spirits    []*model.Spirit
	structures []*model.Structure

	spiritsByID map[string]*model.Spirit
	structsByID map[string]*model.Structure

	diags []*model.RuleError
}

// ResolvedSight is a sight list with ids resolved to snapshot objects.
// Ids the snapshot does not contain are dropped; the raw ids stay on the
// entity's Sight for message passing.
type ResolvedSight struct {
	Friends    []*model.Spirit
	Enemies    []*model.Spirit
	Structures []*model.Structure
}

// Build assembles a WorldState for the clock's current tick. Malformed
// records and out-of-range energies never fail the whole build: the entity
// is skipped or clamped and a diagnostic is collected, since one desynced
// record must not stall the roster's turn.
func Build(clock *Clock, playerID string, p protocol.TickPayload) (*WorldState, error) {
	if clock == nil {
		return nil, errors.New("nil clock")
	}
	ws := &WorldState{
		clock:       clock,
		tick:        clock.Now(),
		playerID:    playerID,
		spiritsByID: make(map[string]*model.Spirit, len(p.Spirits)),
		structsByID: make(map[string]*model.Structure),
	}

	for _, r := range p.Spirits {
		sp, err := model.SpiritFromRecord(r)
		if err != nil {
			ws.diags = append(ws.diags, model.NewRuleError(protocol.ErrProtoBadRequest, r.ID, err.Error()))
			continue
		}
		ws.clampEnergy(sp.ID, &sp.Energy, sp.Capacity)
		ws.spirits = append(ws.spirits, sp)
		ws.spiritsByID[sp.ID] = sp
	}

	for _, group := range [][]protocol.StructureRecord{p.Bases, p.Stars, p.Outposts, p.Pylons} {
		for _, r := range group {
			st, err := model.StructureFromRecord(r)
			if err != nil {
				ws.diags = append(ws.diags, model.NewRuleError(protocol.ErrProtoBadRequest, r.ID, err.Error()))
				continue
			}
			ws.clampEnergy(st.ID, &st.Energy, st.Capacity)
			ws.structures = append(ws.structures, st)
			ws.structsByID[st.ID] = st
		}
	}

	// Deterministic order so rebuilding from the same payload is
	// structurally equal regardless of host record order.
	sort.Slice(ws.spirits, func(i, j int) bool { return ws.spirits[i].ID < ws.spirits[j].ID })
	sort.Slice(ws.structures, func(i, j int) bool { return ws.structures[i].ID < ws.structures[j].ID })

	return ws, nil
}

func (ws *WorldState) clampEnergy(id string, energy *int, capacity int) {
	if *energy >= 0 && *energy <= capacity {
		return
	}
	ws.diags = append(ws.diags, model.NewRuleError(
		protocol.ErrEconomyInvariant, id,
		fmt.Sprintf("energy %d outside [0, %d]", *energy, capacity)))
	if *energy < 0 {
		*energy = 0
	} else {
		*energy = capacity
	}
}

// Tick returns the tick this snapshot was built for. Unguarded: reading
// the tick number of a stale snapshot is how staleness gets reported.
func (ws *WorldState) Tick() uint64 { return ws.tick }

// PlayerID returns the owning player this snapshot was built for.
func (ws *WorldState) PlayerID() string { return ws.playerID }

// Diagnostics returns the build-time rule violations (desynced energies,
// unparseable records). Unguarded for the same reason as Tick.
func (ws *WorldState) Diagnostics() []*model.RuleError { return ws.diags }

func (ws *WorldState) guard() error {
	if now := ws.clock.Now(); now != ws.tick {
		return model.NewRuleError(protocol.ErrStaleSnapshot, "",
			fmt.Sprintf("world state from tick %d read at tick %d", ws.tick, now))
	}
	return nil
}

// Guard exposes the staleness check for callers that hold the state across
// function boundaries.
func (ws *WorldState) Guard() error { return ws.guard() }

func (ws *WorldState) Spirits() ([]*model.Spirit, error) {
	if err := ws.guard(); err != nil {
		return nil, err
	}
	return ws.spirits, nil
}

func (ws *WorldState) OwnSpirits() ([]*model.Spirit, error) {
	if err := ws.guard(); err != nil {
		return nil, err
	}
	out := make([]*model.Spirit, 0, len(ws.spirits))
	for _, sp := range ws.spirits {
		if sp.Player == ws.playerID {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (ws *WorldState) Spirit(id string) (*model.Spirit, error) {
	if err := ws.guard(); err != nil {
		return nil, err
	}
	return ws.spiritsByID[id], nil
}

func (ws *WorldState) Structure(id string) (*model.Structure, error) {
	if err := ws.guard(); err != nil {
		return nil, err
	}
	return ws.structsByID[id], nil
}

// Has reports whether any entity with the given id is in this snapshot.
func (ws *WorldState) Has(id string) (bool, error) {
	if err := ws.guard(); err != nil {
		return false, err
	}
	if _, ok := ws.spiritsByID[id]; ok {
		return true, nil
	}
	_, ok := ws.structsByID[id]
	return ok, nil
}

func (ws *WorldState) Bases() ([]*model.Structure, error)    { return ws.byKind(model.KindBase) }
func (ws *WorldState) Stars() ([]*model.Structure, error)    { return ws.byKind(model.KindStar) }
func (ws *WorldState) Outposts() ([]*model.Structure, error) { return ws.byKind(model.KindOutpost) }
func (ws *WorldState) Pylons() ([]*model.Structure, error)   { return ws.byKind(model.KindPylon) }

func (ws *WorldState) byKind(kind model.StructureKind) ([]*model.Structure, error) {
	if err := ws.guard(); err != nil {
		return nil, err
	}
	out := make([]*model.Structure, 0, len(ws.structures))
	for _, st := range ws.structures {
		if st.Kind == kind {
			out = append(out, st)
		}
	}
	return out, nil
}

// ResolveSight maps a raw sight list to snapshot objects, dropping ids
// that left visibility between the host writing the list and this tick.
func (ws *WorldState) ResolveSight(s model.Sight) (ResolvedSight, error) {
	if err := ws.guard(); err != nil {
		return ResolvedSight{}, err
	}
	var out ResolvedSight
	for _, id := range s.Friends {
		if sp, ok := ws.spiritsByID[id]; ok {
			out.Friends = append(out.Friends, sp)
		}
	}
	for _, id := range s.Enemies {
		if sp, ok := ws.spiritsByID[id]; ok {
			out.Enemies = append(out.Enemies, sp)
		}
	}
	for _, id := range s.Structures {
		if st, ok := ws.structsByID[id]; ok {
			out.Structures = append(out.Structures, st)
		}
	}
	return out, nil
}
