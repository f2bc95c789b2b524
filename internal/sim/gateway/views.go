package gateway

import (
	"fmt"

	"spiritgrid.ai/internal/protocol"
	"spiritgrid.ai/internal/sim/model"
)

// SpiritActions is the capability surface every shape shares. The
// shape-specific views embed it and add only the operations legal for
// that shape, so decision logic written against a concrete view cannot
// express an illegal command. Everything still funnels through Dispatch,
// which re-checks dynamically for callers building raw commands.
type SpiritActions interface {
	Energize(targetID string) error
	Move(to model.Vec2) error
	Jump(to model.Vec2) error
	Shout(text string) error
	SetMark(mark string) error
}

type spiritActions struct {
	g  *Gateway
	id string
}

func (a spiritActions) Energize(targetID string) error {
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdEnergize, Spirit: a.id, Target: targetID})
}

func (a spiritActions) Move(to model.Vec2) error {
	dst := to.ToArray()
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdMove, Spirit: a.id, To: &dst})
}

func (a spiritActions) Jump(to model.Vec2) error {
	dst := to.ToArray()
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdJump, Spirit: a.id, To: &dst})
}

func (a spiritActions) Shout(text string) error {
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdShout, Spirit: a.id, Text: text})
}

func (a spiritActions) SetMark(mark string) error {
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdSetMark, Spirit: a.id, Mark: mark})
}

// CircleActions adds merge and divide; circles cannot lock or explode.
type CircleActions struct{ spiritActions }

func (a CircleActions) Merge(targetID string) error {
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdMerge, Spirit: a.id, Target: targetID})
}

func (a CircleActions) Divide() error {
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdDivide, Spirit: a.id})
}

// SquareActions adds lock and unlock; squares cannot merge or explode.
type SquareActions struct{ spiritActions }

func (a SquareActions) Lock() error {
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdLock, Spirit: a.id})
}

func (a SquareActions) Unlock() error {
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdUnlock, Spirit: a.id})
}

// TriangleActions adds explode; triangles cannot merge or lock.
type TriangleActions struct{ spiritActions }

func (a TriangleActions) Explode() error {
	return a.g.Dispatch(protocol.Command{Type: protocol.CmdExplode, Spirit: a.id})
}

// For narrows a spirit into its shape's capability view. Callers needing
// the shape-specific operations type-assert to the concrete view.
func (g *Gateway) For(sp *model.Spirit) (SpiritActions, error) {
	if sp == nil {
		return nil, model.NewRuleError(protocol.ErrUnknownTarget, "", "nil spirit")
	}
	base := spiritActions{g: g, id: sp.ID}
	switch sp.Shape {
	case model.ShapeCircle:
		return CircleActions{base}, nil
	case model.ShapeSquare:
		return SquareActions{base}, nil
	case model.ShapeTriangle:
		return TriangleActions{base}, nil
	}
	return nil, model.NewRuleError(protocol.ErrBadRequest, sp.ID, fmt.Sprintf("unknown shape %q", sp.Shape))
}

// Circle returns the circle view or a capability error for other shapes.
func (g *Gateway) Circle(sp *model.Spirit) (CircleActions, error) {
	v, err := g.For(sp)
	if err != nil {
		return CircleActions{}, err
	}
	c, ok := v.(CircleActions)
	if !ok {
		return CircleActions{}, model.NewRuleError(protocol.ErrCapability, sp.ID,
			fmt.Sprintf("%s is not a circle", sp.Shape))
	}
	return c, nil
}

// Square returns the square view or a capability error for other shapes.
func (g *Gateway) Square(sp *model.Spirit) (SquareActions, error) {
	v, err := g.For(sp)
	if err != nil {
		return SquareActions{}, err
	}
	s, ok := v.(SquareActions)
	if !ok {
		return SquareActions{}, model.NewRuleError(protocol.ErrCapability, sp.ID,
			fmt.Sprintf("%s is not a square", sp.Shape))
	}
	return s, nil
}

// Triangle returns the triangle view or a capability error for other shapes.
func (g *Gateway) Triangle(sp *model.Spirit) (TriangleActions, error) {
	v, err := g.For(sp)
	if err != nil {
		return TriangleActions{}, err
	}
	tr, ok := v.(TriangleActions)
	if !ok {
		return TriangleActions{}, model.NewRuleError(protocol.ErrCapability, sp.ID,
			fmt.Sprintf("%s is not a triangle", sp.Shape))
	}
	return tr, nil
}
