package teleport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/safeport/server/block"
	"github.com/df-mc/safeport/server/journal"
	"github.com/df-mc/safeport/server/safety"
	"github.com/df-mc/safeport/server/schedule"
	"github.com/df-mc/safeport/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

var (
	bedrock = world.Material{Name: "minecraft:bedrock", Solid: true}
	rail    = world.Material{Name: "minecraft:rail"}
)

type fakeEntity struct {
	id     uuid.UUID
	name   string
	pos    world.Point
	refuse bool

	moves      []world.Point
	velocities []mgl64.Vec3
}

func newEntity(name string) *fakeEntity {
	return &fakeEntity{id: uuid.New(), name: name, pos: world.PointOf("world", 0.5, 64, 0.5)}
}

func (e *fakeEntity) UUID() uuid.UUID { return e.id }
func (e *fakeEntity) Name() string { return e.name }
func (e *fakeEntity) Position() world.Point { return e.pos }
func (e *fakeEntity) SetVelocity(v mgl64.Vec3) { e.velocities = append(e.velocities, v) }

func (e *fakeEntity) Teleport(p world.Point) bool {
	if e.refuse {
		return false
	}
	e.pos = p
	e.moves = append(e.moves, p)
	return true
}

type fakePlayer struct {
	*fakeEntity
	messages []string
}

func newPlayer(name string) *fakePlayer {
	return &fakePlayer{fakeEntity: newEntity(name)}
}

func (p *fakePlayer) Message(a ...any) { p.messages = append(p.messages, fmt.Sprint(a...)) }

type fakeCart struct {
	*fakeEntity
	rider    Entity
	velocity mgl64.Vec3
}

func (c *fakeCart) Passenger() (Entity, bool) { return c.rider, c.rider != nil }
func (c *fakeCart) Velocity() mgl64.Vec3 { return c.velocity }

type fakeJournal struct {
	entries []journal.Entry
	err     error
}

func (j *fakeJournal) Record(e journal.Entry) error {
	j.entries = append(j.entries, e)
	return j.err
}

type testEnv struct {
	mem     *world.Memory
	queue   *schedule.Queue
	journal *fakeJournal
	metrics *Metrics
	c       *Coordinator
}

// newEnv returns a Coordinator over a world filled with bedrock.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := world.NewMemory()
	mem.SetFill("world", bedrock)
	env := &testEnv{mem: mem, queue: schedule.NewQueue(nil), journal: &fakeJournal{}, metrics: NewMetrics()}
	env.c = NewCoordinator(Options{
		Evaluator: safety.New(block.NewClassifier(mem, nil, nil)),
		Scheduler: env.queue,
		Registry:  NewRegistry(0),
		Journal:   env.journal,
		Metrics:   env.metrics,
	})
	return env
}

func (env *testEnv) carve(x, y, z int) {
	env.mem.Set("world", cube.Pos{x, y, z}, world.Air)
	env.mem.Set("world", cube.Pos{x, y + 1, z}, world.Air)
}

func TestTeleportInvalidDestination(t *testing.T) {
	env := newEnv(t)
	other, target, requester := newEntity("other"), newPlayer("target"), newPlayer("requester")
	env.c.Registry().Put(requester, other.UUID())

	for _, dest := range []Destination{nil, Invalid{}, &Invalid{}} {
		if o := env.c.Teleport(requester, target, dest); o != FailInvalidDestination {
			t.Fatalf("expected FailInvalidDestination for %T, got %v", dest, o)
		}
	}
	if _, ok := env.c.Registry().Lookup(other.UUID()); !ok {
		t.Fatal("expected unrelated request to be kept")
	}
	if _, ok := env.c.Registry().Lookup(target.UUID()); ok {
		t.Fatal("expected invalid destination not to register a request")
	}
	if len(target.moves) != 0 || len(env.journal.entries) != 0 {
		t.Fatal("expected no move and no journal entry for an invalid destination")
	}
}

func TestTeleportFindsSafeLocationTwoRingsOut(t *testing.T) {
	env := newEnv(t)
	env.carve(-2, 64, 1)
	target, requester := newPlayer("target"), newPlayer("requester")

	o := env.c.Teleport(requester, target, Location{Target: world.PointOf("world", 0.3, 64, 0.8)})
	if o != Success {
		t.Fatalf("expected Success, got %v", o)
	}
	if len(target.moves) != 1 {
		t.Fatalf("expected a single move, got %v", target.moves)
	}
	got := target.moves[0].Pos
	if want := (mgl64.Vec3{-1.5, 64, 1.5}); got != want {
		t.Fatalf("unexpected safe point: got %v, want %v", got, want)
	}
	if len(env.journal.entries) != 1 || env.journal.entries[0].Outcome != "success" || env.journal.entries[0].RequesterName != "requester" {
		t.Fatalf("unexpected journal: %+v", env.journal.entries)
	}
	snap := env.metrics.Snapshot()
	if snap.Outcomes[Success] != 1 || snap.Searches != 1 || snap.Probes == 0 {
		t.Fatalf("unexpected metrics: %+v", snap)
	}
}

func TestTeleportDuplicateRequestsOverwrite(t *testing.T) {
	env := newEnv(t)
	env.carve(0, 64, 0)
	target, first, second := newPlayer("target"), newPlayer("first"), newPlayer("second")
	dest := Location{Target: world.PointOf("world", 0.5, 64, 0.5)}

	env.c.Teleport(first, target, dest)
	env.c.Teleport(second, target, dest)

	req, ok := env.c.Registry().Lookup(target.UUID())
	if !ok {
		t.Fatal("expected a pending request")
	}
	if req.Requester != second.UUID() || req.RequesterName != "second" {
		t.Fatalf("expected the most recent requester, got %+v", req)
	}
	if n := env.c.Registry().Len(); n != 1 {
		t.Fatalf("expected one request, got %d", n)
	}
}

func TestTeleportUnsafeNotifiesTarget(t *testing.T) {
	env := newEnv(t)
	target := newPlayer("target")

	if o := env.c.Teleport(target, target, Location{Target: world.PointOf("world", 0.5, 64, 0.5)}); o != FailUnsafe {
		t.Fatalf("expected FailUnsafe, got %v", o)
	}
	if len(target.messages) != 1 || target.messages[0] != env.c.notice {
		t.Fatalf("expected a single no safe location notice, got %q", target.messages)
	}
	if len(target.moves) != 0 {
		t.Fatal("expected the target not to be moved")
	}
	if len(env.journal.entries) != 1 || env.journal.entries[0].Outcome != "unsafe" {
		t.Fatalf("unexpected journal: %+v", env.journal.entries)
	}
}

func TestTeleportUnsafeNotifiesRider(t *testing.T) {
	env := newEnv(t)
	rider := newPlayer("rider")
	cart := &fakeCart{fakeEntity: newEntity("cart"), rider: rider}

	if o := env.c.Teleport(rider, cart, Location{Target: world.PointOf("world", 0.5, 64, 0.5)}); o != FailUnsafe {
		t.Fatalf("expected FailUnsafe, got %v", o)
	}
	if len(rider.messages) != 1 {
		t.Fatalf("expected the rider to be notified, got %q", rider.messages)
	}
}

func TestTeleportHostRefusal(t *testing.T) {
	env := newEnv(t)
	env.carve(0, 64, 0)
	target := newPlayer("target")
	target.refuse = true
	env.journal.err = errors.New("disk full")

	if o := env.c.Teleport(nil, target, Location{Target: world.PointOf("world", 0.5, 64, 0.5)}); o != FailOther {
		t.Fatalf("expected FailOther, got %v", o)
	}
	if got := env.metrics.Snapshot().Outcomes[FailOther]; got != 1 {
		t.Fatalf("expected one FailOther, got %d", got)
	}
}

func TestTeleportVelocityAppliedNextTick(t *testing.T) {
	env := newEnv(t)
	env.carve(0, 64, 0)
	target := newPlayer("target")
	launch := mgl64.Vec3{0, 1.5, 0}

	if o := env.c.Teleport(target, target, Location{Target: world.PointOf("world", 0.5, 64, 0.5), Launch: launch}); o != Success {
		t.Fatalf("expected Success, got %v", o)
	}
	if len(target.velocities) != 0 {
		t.Fatal("expected velocity to wait for the next tick")
	}
	env.queue.Tick()
	if len(target.velocities) != 1 || target.velocities[0] != launch {
		t.Fatalf("expected launch velocity after one tick, got %v", target.velocities)
	}
	env.queue.Tick()
	if len(target.velocities) != 1 {
		t.Fatal("expected velocity to be applied once")
	}

	// Zero velocity is never scheduled.
	env.c.Teleport(target, target, Location{Target: world.PointOf("world", 0.5, 64, 0.5)})
	if env.queue.Pending() != 0 {
		t.Fatal("expected no scheduled velocity for a zero launch")
	}
}

func TestTeleportToUnchecked(t *testing.T) {
	env := newEnv(t)
	target := newPlayer("target")
	p := world.PointOf("world", 0.2, 64, 0.7)

	if o := env.c.TeleportTo(target, target, p, false); o != Success {
		t.Fatalf("expected Success, got %v", o)
	}
	if target.moves[0] != p {
		t.Fatalf("expected the exact point, got %v", target.moves[0])
	}
	if env.metrics.Snapshot().Searches != 0 {
		t.Fatal("expected no search for an unchecked teleport")
	}
	if o := env.c.TeleportTo(target, target, p, true); o != FailUnsafe {
		t.Fatalf("expected FailUnsafe for a checked teleport into bedrock, got %v", o)
	}
}

func TestTeleportCartOffset(t *testing.T) {
	env := newEnv(t)
	env.carve(1, 64, 0)
	// The cart itself hovers above air.
	env.mem.Set("world", cube.Pos{0, 99, 0}, world.Air)
	cart := &fakeCart{fakeEntity: newEntity("cart")}
	cart.pos = world.PointOf("world", 0.5, 100, 0.5)

	if o := env.c.Teleport(nil, cart, Location{Target: world.PointOf("world", 0.5, 64, 0.5)}); o != Success {
		t.Fatalf("expected Success, got %v", o)
	}
	if got := cart.moves[0].Pos; got != (mgl64.Vec3{1.5, 64.5, 0.5}) {
		t.Fatalf("expected cart to be lifted off the ground, got %v", got)
	}

	env.mem.Set("world", cube.Pos{1, 64, 0}, rail)
	cart.pos = world.PointOf("world", 0.5, 100, 0.5)
	o := env.c.Teleport(nil, cart, Location{Target: world.PointOf("world", 0.5, 64, 0.5)})
	if o != Success {
		t.Fatalf("expected Success, got %v", o)
	}
	if got := cart.moves[1].Pos; got != (mgl64.Vec3{1.5, 64, 0.5}) {
		t.Fatalf("expected cart on a track to stay at rail height, got %v", got)
	}
}

func TestTeleportCartUnsafeSpawn(t *testing.T) {
	env := newEnv(t)
	env.carve(1, 64, 0)
	// Not above air and not heading onto a rail.
	cart := &fakeCart{fakeEntity: newEntity("cart")}

	if o := env.c.Teleport(nil, cart, Location{Target: world.PointOf("world", 0.5, 64, 0.5)}); o != FailUnsafe {
		t.Fatalf("expected FailUnsafe, got %v", o)
	}
	if env.metrics.Snapshot().Searches != 0 {
		t.Fatal("expected the search to be skipped")
	}

	env.mem.Set("world", cube.Pos{1, 64, 1}, rail)
	if o := env.c.Teleport(nil, cart, Location{Target: world.PointOf("world", 0.5, 64, 0.5)}); o != Success {
		t.Fatalf("expected a cart heading onto a rail to be teleported, got %v", o)
	}
}

func TestTeleportPortalDestination(t *testing.T) {
	mem := world.NewMemory()
	mem.Fill("world", cube.Pos{-4, 63, -4}, cube.Pos{4, 63, 4}, bedrock)
	mem.Set("world", cube.Pos{1, 64, 0}, world.Material{Name: "minecraft:nether_portal", Properties: map[string]any{"portal_axis": "z"}})
	c := NewCoordinator(Options{Evaluator: safety.New(block.NewClassifier(mem, nil, nil))})
	target := newPlayer("target")

	if p, ok := c.NearestPortalAdjacent(world.PointOf("world", 0.5, 64, 0.5)); !ok || p.Pos != (mgl64.Vec3{1.5, 64, 0.5}) {
		t.Fatalf("unexpected adjacent portal: %v (%v)", p, ok)
	}
	dest := Portal{Locator: c.locator, Near: world.PointOf("world", 0.5, 64, 0.5)}
	if o := c.Teleport(target, target, dest); o != Success {
		t.Fatalf("expected Success, got %v", o)
	}
	if got := target.moves[0].Pos; got != (mgl64.Vec3{1.5, 64, 0.5}) {
		t.Fatalf("unexpected point: %v", got)
	}
	if o := c.Teleport(target, target, Portal{Locator: c.locator, Near: world.PointOf("world", -3.5, 64, -3.5)}); o != FailInvalidDestination {
		t.Fatalf("expected FailInvalidDestination without a portal, got %v", o)
	}
}

func TestFindSafeLocationWithin(t *testing.T) {
	env := newEnv(t)
	env.carve(4, 64, 0)
	origin := world.PointOf("world", 0.5, 64, 0.5)

	if _, ok := env.c.FindSafeLocationWithin(origin, 0, 7); ok {
		t.Fatal("expected a radius of 7 not to reach four blocks out")
	}
	p, ok := env.c.FindSafeLocation(origin)
	if !ok || p.Pos != (mgl64.Vec3{4.5, 64, 0.5}) {
		t.Fatalf("unexpected safe location: %v (%v)", p, ok)
	}
	if !env.c.IsSafe(p) || env.c.Check(origin) != safety.UnsafeSolid {
		t.Fatal("unexpected safety verdicts")
	}
}

func TestFindSafeLocationWithinLiteralBounds(t *testing.T) {
	env := newEnv(t)
	env.carve(1, 67, 0)
	origin := world.PointOf("world", 0.5, 64, 0.5)

	if _, ok := env.c.FindSafeLocationWithin(origin, 0, 3); ok {
		t.Fatal("expected a tolerance of 0 to search the origin altitude only")
	}
	before := env.metrics.Snapshot().Probes
	if _, ok := env.c.FindSafeLocationWithin(origin, 2, 0); ok {
		t.Fatal("expected a radius of 0 to find nothing")
	}
	if probes := env.metrics.Snapshot().Probes - before; probes != 0 {
		t.Fatalf("expected a radius of 0 to check no columns, checked %d", probes)
	}
	p, ok := env.c.FindSafeLocationWithin(origin, 6, 3)
	if !ok || p.Pos != (mgl64.Vec3{1.5, 67, 0.5}) {
		t.Fatalf("unexpected safe location: %v (%v)", p, ok)
	}
}

func TestTeleportToSearchesRingOnly(t *testing.T) {
	env := newEnv(t)
	env.carve(1, 64, 0)
	// Resting on bedrock and not heading onto a rail, so Teleport refuses it.
	cart := &fakeCart{fakeEntity: newEntity("cart")}
	origin := world.PointOf("world", 0.5, 64, 0.5)

	if o := env.c.Teleport(nil, cart, Location{Target: origin}); o != FailUnsafe {
		t.Fatalf("expected Teleport to refuse the cart, got %v", o)
	}
	if o := env.c.TeleportTo(nil, cart, origin, true); o != Success {
		t.Fatalf("expected Success, got %v", o)
	}
	if got := cart.moves[0].Pos; got != (mgl64.Vec3{1.5, 64, 0.5}) {
		t.Fatalf("expected the first point of the ring, got %v", got)
	}
}
