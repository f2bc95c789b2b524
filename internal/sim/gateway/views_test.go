package gateway

import (
	"testing"

	"spiritgrid.ai/internal/protocol"
	"spiritgrid.ai/internal/sim/model"
)

func TestFor_NarrowsByShape(t *testing.T) {
	g, host, _ := newGateway(t)

	circle, _ := g.ws.Spirit("P1_c")
	square, _ := g.ws.Spirit("P1_s")
	triangle, _ := g.ws.Spirit("P1_t")

	cv, err := g.For(circle)
	if err != nil {
		t.Fatalf("circle view: %v", err)
	}
	if _, ok := cv.(CircleActions); !ok {
		t.Fatalf("circle narrowed to %T", cv)
	}
	if _, ok := cv.(interface{ Explode() error }); ok {
		t.Fatalf("circle view must not expose Explode")
	}
	if _, ok := cv.(interface{ Lock() error }); ok {
		t.Fatalf("circle view must not expose Lock")
	}

	sv, _ := g.For(square)
	if _, ok := sv.(interface{ Merge(string) error }); ok {
		t.Fatalf("square view must not expose Merge")
	}
	tv, _ := g.For(triangle)
	if _, ok := tv.(interface{ Lock() error }); ok {
		t.Fatalf("triangle view must not expose Lock")
	}

	// The narrowed methods go through the same validation path.
	if err := cv.(CircleActions).Merge("P1_c2"); err != nil {
		t.Fatalf("merge via view: %v", err)
	}
	if err := tv.(TriangleActions).Explode(); err != nil {
		t.Fatalf("explode via view: %v", err)
	}
	if len(host.sent) != 2 {
		t.Fatalf("host received: %v", host.sent)
	}
}

func TestShapeAccessors_RejectWrongShape(t *testing.T) {
	g, _, _ := newGateway(t)

	square, _ := g.ws.Spirit("P1_s")
	if _, err := g.Circle(square); !model.IsCode(err, protocol.ErrCapability) {
		t.Fatalf("Circle(square): got %v", err)
	}
	circle, _ := g.ws.Spirit("P1_c")
	if _, err := g.Triangle(circle); !model.IsCode(err, protocol.ErrCapability) {
		t.Fatalf("Triangle(circle): got %v", err)
	}
	if _, err := g.Square(circle); !model.IsCode(err, protocol.ErrCapability) {
		t.Fatalf("Square(circle): got %v", err)
	}

	sq, err := g.Square(square)
	if err != nil {
		t.Fatalf("Square(square): %v", err)
	}
	if err := sq.Lock(); err != nil {
		t.Fatalf("lock via view: %v", err)
	}
}
