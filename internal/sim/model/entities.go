package model

import (
	"fmt"

	"spiritgrid.ai/internal/protocol"
)

type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeSquare   Shape = "square"
	ShapeTriangle Shape = "triangle"
)

func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case ShapeCircle, ShapeSquare, ShapeTriangle:
		return Shape(s), nil
	}
	return "", fmt.Errorf("unknown shape %q", s)
}

type StructureKind string

const (
	KindBase    StructureKind = "base"
	KindStar    StructureKind = "star"
	KindOutpost StructureKind = "outpost"
	KindPylon   StructureKind = "pylon"
)

func ParseStructureKind(s string) (StructureKind, error) {
	switch StructureKind(s) {
	case KindBase, KindStar, KindOutpost, KindPylon:
		return StructureKind(s), nil
	}
	return "", fmt.Errorf("unknown structure kind %q", s)
}

// Sight is the raw id view an entity currently has. Resolution to object
// references happens at snapshot build time; the raw ids stay available for
// message passing (shout targets and the like).
type Sight struct {
	Friends    []string
	Enemies    []string
	Structures []string
}

// Spirit mirrors one host spirit record for the current tick. Shape never
// changes for a live spirit; energy is host-clamped to [0, Capacity].
type Spirit struct {
	ID            string
	Player        string
	Pos           Vec2
	Size          int
	Energy        int
	Capacity      int
	HP            int
	Shape         Shape
	Mark          string
	LastEnergized string
	Sight         Sight
}

func (s *Spirit) Alive() bool { return s != nil && s.HP > 0 }

// Structure mirrors one host structure record for the current tick.
// Kind-specific fields are only meaningful for the matching kind.
type Structure struct {
	ID       string
	Kind     StructureKind
	Pos      Vec2
	Energy   int
	Capacity int
	Control  string

	// KindBase: energy required to spawn the next spirit.
	SpiritCost int

	// KindStar: the designated high-yield star regenerates faster.
	HighYield bool

	// Nil for stars; they see nothing.
	Sight *Sight
}

func SpiritFromRecord(r protocol.SpiritRecord) (*Spirit, error) {
	shape, err := ParseShape(r.Shape)
	if err != nil {
		return nil, fmt.Errorf("spirit %s: %w", r.ID, err)
	}
	return &Spirit{
		ID:            r.ID,
		Player:        r.Player,
		Pos:           Vec2{X: r.Pos[0], Y: r.Pos[1]},
		Size:          r.Size,
		Energy:        r.Energy,
		Capacity:      r.Capacity,
		HP:            r.HP,
		Shape:         shape,
		Mark:          r.Mark,
		LastEnergized: r.LastEnergized,
		Sight:         sightFromRecord(r.Sight),
	}, nil
}

func StructureFromRecord(r protocol.StructureRecord) (*Structure, error) {
	kind, err := ParseStructureKind(r.Kind)
	if err != nil {
		return nil, fmt.Errorf("structure %s: %w", r.ID, err)
	}
	st := &Structure{
		ID:         r.ID,
		Kind:       kind,
		Pos:        Vec2{X: r.Pos[0], Y: r.Pos[1]},
		Energy:     r.Energy,
		Capacity:   r.Capacity,
		Control:    r.Control,
		SpiritCost: r.SpiritCost,
		HighYield:  r.HighYield,
	}
	if r.Sight != nil && kind != KindStar {
		s := sightFromRecord(*r.Sight)
		st.Sight = &s
	}
	return st, nil
}

func sightFromRecord(r protocol.Sight) Sight {
	return Sight{
		Friends:    append([]string(nil), r.Friends...),
		Enemies:    append([]string(nil), r.Enemies...),
		Structures: append([]string(nil), r.Structures...),
	}
}
