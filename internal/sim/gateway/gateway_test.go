package gateway

import (
	"errors"
	"testing"

	"spiritgrid.ai/internal/protocol"
	"spiritgrid.ai/internal/sim/model"
	"spiritgrid.ai/internal/sim/snapshot"
)

type fakeHost struct {
	sent []protocol.Command
	err  error
}

func (f *fakeHost) Send(cmd protocol.Command) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, cmd)
	return nil
}

func testWorld(t *testing.T, clock *snapshot.Clock) *snapshot.WorldState {
	t.Helper()
	ws, err := snapshot.Build(clock, "P1", protocol.TickPayload{
		Spirits: []protocol.SpiritRecord{
			{ID: "P1_c", Player: "P1", Pos: [2]float64{10, 10}, Size: 1, Energy: 5, Capacity: 10, HP: 1, Shape: "circle"},
			{ID: "P1_c2", Player: "P1", Pos: [2]float64{12, 10}, Size: 1, Energy: 5, Capacity: 10, HP: 1, Shape: "circle"},
			{ID: "P1_s", Player: "P1", Pos: [2]float64{20, 10}, Size: 1, Energy: 5, Capacity: 10, HP: 1, Shape: "square"},
			{ID: "P1_t", Player: "P1", Pos: [2]float64{30, 10}, Size: 1, Energy: 5, Capacity: 10, HP: 1, Shape: "triangle"},
			{ID: "P2_c", Player: "P2", Pos: [2]float64{90, 10}, Size: 1, Energy: 5, Capacity: 10, HP: 1, Shape: "circle"},
		},
		Stars: []protocol.StructureRecord{
			{ID: "star_a", Kind: "star", Pos: [2]float64{200, 200}, Energy: 500, Capacity: 1000},
		},
	})
	if err != nil {
		t.Fatalf("build world: %v", err)
	}
	return ws
}

func newGateway(t *testing.T) (*Gateway, *fakeHost, *snapshot.Clock) {
	t.Helper()
	clock := &snapshot.Clock{}
	clock.Set(1)
	host := &fakeHost{}
	g := New(host, nil)
	g.BeginTick(testWorld(t, clock))
	return g, host, clock
}

func TestDispatch_ForwardsValidCommand(t *testing.T) {
	g, host, _ := newGateway(t)

	dst := [2]float64{50, 50}
	if err := g.Dispatch(protocol.Command{Type: protocol.CmdMove, Spirit: "P1_s", To: &dst}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(host.sent) != 1 || host.sent[0].Type != protocol.CmdMove {
		t.Fatalf("host received: %v", host.sent)
	}

	stats := g.Stats()
	if len(stats.Issued) != 1 || len(stats.Rejected) != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestDispatch_RejectsCapabilityViolations(t *testing.T) {
	g, host, _ := newGateway(t)

	cases := []protocol.Command{
		{Type: protocol.CmdExplode, Spirit: "P1_c"}, // circles cannot explode
		{Type: protocol.CmdLock, Spirit: "P1_c"},
		{Type: protocol.CmdMerge, Spirit: "P1_s", Target: "P1_c"}, // squares cannot merge
		{Type: protocol.CmdExplode, Spirit: "P1_s"},
		{Type: protocol.CmdMerge, Spirit: "P1_t", Target: "P1_c"},
		{Type: protocol.CmdLock, Spirit: "P1_t"},
	}
	for _, cmd := range cases {
		err := g.Dispatch(cmd)
		if !model.IsCode(err, protocol.ErrCapability) {
			t.Fatalf("Dispatch(%s for %s): got %v, want %s", cmd.Type, cmd.Spirit, err, protocol.ErrCapability)
		}
	}
	if len(host.sent) != 0 {
		t.Fatalf("suppressed commands reached host: %v", host.sent)
	}
	if g.Stats().Rejected[protocol.ErrCapability] != len(cases) {
		t.Fatalf("rejection tally: %+v", g.Stats().Rejected)
	}
}

func TestDispatch_RejectsUnknownActorsAndTargets(t *testing.T) {
	g, host, _ := newGateway(t)

	err := g.Dispatch(protocol.Command{Type: protocol.CmdShout, Spirit: "ghost", Text: "boo"})
	if !model.IsCode(err, protocol.ErrUnknownTarget) {
		t.Fatalf("unknown actor: got %v", err)
	}

	err = g.Dispatch(protocol.Command{Type: protocol.CmdEnergize, Spirit: "P1_c", Target: "ghost"})
	if !model.IsCode(err, protocol.ErrUnknownTarget) {
		t.Fatalf("unknown energize target: got %v", err)
	}

	err = g.Dispatch(protocol.Command{Type: protocol.CmdMerge, Spirit: "P1_c", Target: "ghost"})
	if !model.IsCode(err, protocol.ErrUnknownTarget) {
		t.Fatalf("unknown merge target: got %v", err)
	}
	if len(host.sent) != 0 {
		t.Fatalf("suppressed commands reached host: %v", host.sent)
	}
}

func TestDispatch_MergeTargetMustBeFriendlyCircle(t *testing.T) {
	g, _, _ := newGateway(t)

	err := g.Dispatch(protocol.Command{Type: protocol.CmdMerge, Spirit: "P1_c", Target: "P2_c"})
	if !model.IsCode(err, protocol.ErrBadRequest) {
		t.Fatalf("enemy merge target: got %v", err)
	}
	err = g.Dispatch(protocol.Command{Type: protocol.CmdMerge, Spirit: "P1_c", Target: "P1_s"})
	if !model.IsCode(err, protocol.ErrBadRequest) {
		t.Fatalf("square merge target: got %v", err)
	}
	err = g.Dispatch(protocol.Command{Type: protocol.CmdMerge, Spirit: "P1_c", Target: "P1_c"})
	if !model.IsCode(err, protocol.ErrBadRequest) {
		t.Fatalf("self merge: got %v", err)
	}
	if err := g.Dispatch(protocol.Command{Type: protocol.CmdMerge, Spirit: "P1_c", Target: "P1_c2"}); err != nil {
		t.Fatalf("legal merge rejected: %v", err)
	}
}

func TestDispatch_OneCommandPerSpiritPerTick(t *testing.T) {
	g, host, clock := newGateway(t)

	if err := g.Dispatch(protocol.Command{Type: protocol.CmdEnergize, Spirit: "P1_c", Target: "star_a"}); err != nil {
		t.Fatalf("first command: %v", err)
	}
	err := g.Dispatch(protocol.Command{Type: protocol.CmdShout, Spirit: "P1_c", Text: "again"})
	if !model.IsCode(err, protocol.ErrDoubleAction) {
		t.Fatalf("second command: got %v, want %s", err, protocol.ErrDoubleAction)
	}
	if len(host.sent) != 1 {
		t.Fatalf("host received %d commands, want 1", len(host.sent))
	}

	// A different spirit may still act this tick.
	if err := g.Dispatch(protocol.Command{Type: protocol.CmdShout, Spirit: "P1_s", Text: "hi"}); err != nil {
		t.Fatalf("other spirit: %v", err)
	}

	// The tracker resets at the next tick.
	clock.Set(2)
	g.BeginTick(testWorld(t, clock))
	if err := g.Dispatch(protocol.Command{Type: protocol.CmdShout, Spirit: "P1_c", Text: "new tick"}); err != nil {
		t.Fatalf("next tick: %v", err)
	}
}

func TestDispatch_RejectsStaleWorldState(t *testing.T) {
	g, host, clock := newGateway(t)

	clock.Set(7)
	err := g.Dispatch(protocol.Command{Type: protocol.CmdShout, Spirit: "P1_c", Text: "late"})
	if !model.IsCode(err, protocol.ErrStaleSnapshot) {
		t.Fatalf("stale dispatch: got %v", err)
	}
	if len(host.sent) != 0 {
		t.Fatalf("stale command reached host")
	}
}

func TestDispatch_RejectsBadDestinations(t *testing.T) {
	g, _, _ := newGateway(t)

	err := g.Dispatch(protocol.Command{Type: protocol.CmdMove, Spirit: "P1_c"})
	if !model.IsCode(err, protocol.ErrBadRequest) {
		t.Fatalf("missing destination: got %v", err)
	}
}

func TestDispatch_HostErrorDoesNotMarkActed(t *testing.T) {
	g, host, _ := newGateway(t)

	host.err = errors.New("socket closed")
	err := g.Dispatch(protocol.Command{Type: protocol.CmdShout, Spirit: "P1_c", Text: "x"})
	if !model.IsCode(err, protocol.ErrInternal) {
		t.Fatalf("host failure: got %v", err)
	}

	host.err = nil
	if err := g.Dispatch(protocol.Command{Type: protocol.CmdShout, Spirit: "P1_c", Text: "x"}); err != nil {
		t.Fatalf("retry after host failure should not be a double action: %v", err)
	}
}
