package teleport

import (
	"log/slog"
	"time"

	"github.com/df-mc/safeport/server/journal"
	"github.com/df-mc/safeport/server/portal"
	"github.com/df-mc/safeport/server/safety"
	"github.com/df-mc/safeport/server/search"
	"github.com/df-mc/safeport/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sandertv/gophertunnel/minecraft/text"
)

// Recorder receives an entry for every teleport decided by a Coordinator.
// *journal.DB implements Recorder.
type Recorder interface {
	Record(e journal.Entry) error
}

// Options holds the dependencies of a Coordinator. Evaluator is required.
type Options struct {
	Log       *slog.Logger
	Evaluator *safety.Evaluator
	// Locator is used by NearestPortalAdjacent. If nil, a Locator over the
	// classifier of Evaluator is used.
	Locator   *portal.Locator
	Scheduler Scheduler
	Registry  *Registry
	Journal   Recorder
	Metrics   *Metrics
	// Search bounds the ring search around unsafe destinations. If zero,
	// search.Default() is used.
	Search search.Ring
	// NoSafeLocation is sent to the player affected by a teleport that found
	// no safe point.
	NoSafeLocation string
}

// Coordinator decides and performs teleports, moving targets to a safe point
// near their destination. Teleport must be called from the goroutine that
// owns the world of the target.
type Coordinator struct {
	log       *slog.Logger
	eval      *safety.Evaluator
	locator   *portal.Locator
	scheduler Scheduler
	registry  *Registry
	journal   Recorder
	metrics   *Metrics
	ring      search.Ring
	notice    string
}

// NewCoordinator creates a Coordinator from opts, filling in defaults for
// every optional dependency.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Evaluator == nil {
		panic("teleport: coordinator requires an evaluator")
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Locator == nil {
		opts.Locator = portal.NewLocator(opts.Evaluator.Classifier())
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry(0)
	}
	if opts.Search == (search.Ring{}) {
		opts.Search = search.Default()
	}
	if opts.NoSafeLocation == "" {
		opts.NoSafeLocation = text.Colourf("<red>No safe locations found!</red>")
	}
	return &Coordinator{
		log:       opts.Log.With("component", "teleport"),
		eval:      opts.Evaluator,
		locator:   opts.Locator,
		scheduler: opts.Scheduler,
		registry:  opts.Registry,
		journal:   opts.Journal,
		metrics:   opts.Metrics,
		ring:      opts.Search,
		notice:    opts.NoSafeLocation,
	}
}

// Evaluator returns the safety.Evaluator used to judge points.
func (c *Coordinator) Evaluator() *safety.Evaluator {
	return c.eval
}

// Registry returns the Registry holding the pending requests.
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Teleport moves target to dest on behalf of requester. Safety checked
// destinations that are not safe are replaced by the first safe point found
// around them. If dest has a velocity, it is applied to target one tick
// after a successful move.
func (c *Coordinator) Teleport(requester Actor, target Entity, dest Destination) Outcome {
	if target == nil || invalid(dest) {
		c.log.Debug("teleport to invalid destination", "requester", actorName(requester))
		c.metrics.IncOutcome(FailInvalidDestination)
		return FailInvalidDestination
	}
	c.registry.Put(requester, target.UUID())

	raw, ok := dest.Point(target)
	if !ok {
		return c.finish(requester, target, raw, FailInvalidDestination)
	}
	p := raw
	if dest.SafetyChecked() {
		if p, ok = c.safeLocation(target, raw); !ok {
			c.notifyUnsafe(target)
			return c.finish(requester, target, raw, FailUnsafe)
		}
	}

	return c.move(requester, target, p, dest.Velocity())
}

// TeleportTo moves target to p on behalf of requester. If safely is true,
// target is moved to the first safe point the ring search finds around p.
// Unlike Teleport, p itself and the vehicle of target are not checked
// beforehand. If safely is false, the target is moved to p as is.
func (c *Coordinator) TeleportTo(requester Actor, target Entity, p world.Point, safely bool) Outcome {
	if target == nil {
		c.metrics.IncOutcome(FailInvalidDestination)
		return FailInvalidDestination
	}
	c.registry.Put(requester, target.UUID())
	if safely {
		safe, ok := c.FindSafeLocation(p)
		if !ok {
			c.log.Debug("no safe location found", "origin", p.String())
			c.notifyUnsafe(target)
			return c.finish(requester, target, p, FailUnsafe)
		}
		p = safe
	}
	return c.move(requester, target, p, mgl64.Vec3{})
}

func (c *Coordinator) move(requester Actor, target Entity, p world.Point, v mgl64.Vec3) Outcome {
	if !target.Teleport(p) {
		c.log.Warn("host refused teleport", "target", target.Name(), "point", p.String())
		return c.finish(requester, target, p, FailOther)
	}
	if v != (mgl64.Vec3{}) {
		c.launch(target, v)
	}
	return c.finish(requester, target, p, Success)
}

// SafeLocationFor resolves dest for e and returns the point e would be moved
// to by Teleport. It returns false if dest has no point or no safe point was
// found near it.
func (c *Coordinator) SafeLocationFor(e Entity, dest Destination) (world.Point, bool) {
	if invalid(dest) {
		return world.Point{}, false
	}
	p, ok := dest.Point(e)
	if !ok || !dest.SafetyChecked() {
		return p, ok
	}
	return c.safeLocation(e, p)
}

func (c *Coordinator) safeLocation(e Entity, p world.Point) (world.Point, bool) {
	if c.eval.Safe(p) {
		c.log.Debug("destination is safe", "point", p.String())
		return p, true
	}
	cart, isCart := e.(Cart)
	switch {
	case isCart:
		if !c.eval.CartSafe(cart.Position(), cart.Velocity()) {
			c.log.Debug("cart cannot be spawned safely", "target", e.Name())
			return world.Point{}, false
		}
	case isVehicle(e):
		if !c.eval.VehicleSafe(e.Position()) {
			c.log.Debug("vehicle cannot be spawned safely", "target", e.Name())
			return world.Point{}, false
		}
	}

	res := c.ring.Search(c.eval, p)
	c.metrics.AddSearch(res.Probes)
	if !res.Found {
		c.log.Debug("no safe location found", "origin", p.String(), "probes", res.Probes)
		return world.Point{}, false
	}
	safe := res.Point
	if isCart && !c.eval.OnTrack(safe) {
		// Carts are lifted off the ground when not placed on a track.
		safe.Pos[1] = float64(safe.Block()[1]) + 0.5
	}
	c.log.Debug("found safe location", "origin", p.String(), "point", safe.String(), "probes", res.Probes)
	return safe, true
}

// FindSafeLocation returns the first safe point around p using the search
// bounds of the Coordinator.
func (c *Coordinator) FindSafeLocation(p world.Point) (world.Point, bool) {
	return c.FindSafeLocationWithin(p, c.ring.Tolerance, c.ring.Radius)
}

// FindSafeLocationWithin returns the first safe point around p, searching
// tolerance blocks vertically and radius blocks horizontally. Both bounds are
// used as passed: a tolerance of 0 searches the altitude of p only.
func (c *Coordinator) FindSafeLocationWithin(p world.Point, tolerance, radius int) (world.Point, bool) {
	res := search.Ring{Tolerance: tolerance, Radius: radius}.Search(c.eval, p)
	c.metrics.AddSearch(res.Probes)
	return res.Point, res.Found
}

// IsSafe reports if an entity may be placed at p.
func (c *Coordinator) IsSafe(p world.Point) bool {
	return c.eval.Safe(p)
}

// Check returns the safety verdict of p.
func (c *Coordinator) Check(p world.Point) safety.Verdict {
	return c.eval.Check(p)
}

// NearestPortalAdjacent returns the portal block at or next to p.
func (c *Coordinator) NearestPortalAdjacent(p world.Point) (world.Point, bool) {
	return c.locator.NearestAdjacent(p)
}

func (c *Coordinator) launch(target Entity, v mgl64.Vec3) {
	if c.scheduler == nil {
		target.SetVelocity(v)
		return
	}
	c.scheduler.After(1, func() {
		target.SetVelocity(v)
	})
}

// notifyUnsafe tells the player affected by an unsafe teleport that no safe
// point was found: the target itself, or the player riding it.
func (c *Coordinator) notifyUnsafe(target Entity) {
	if m, ok := target.(Messenger); ok {
		m.Message(c.notice)
		return
	}
	if v, ok := target.(Vehicle); ok {
		if passenger, ok := v.Passenger(); ok {
			if m, ok := passenger.(Messenger); ok {
				m.Message(c.notice)
			}
		}
	}
}

func (c *Coordinator) finish(requester Actor, target Entity, p world.Point, o Outcome) Outcome {
	c.metrics.IncOutcome(o)
	c.log.Debug("teleport decided", "requester", actorName(requester), "target", target.Name(), "outcome", o.String())
	if c.journal == nil {
		return o
	}
	e := journal.Entry{
		Target:  target.UUID(),
		World:   p.World,
		X:       p.Pos[0],
		Y:       p.Pos[1],
		Z:       p.Pos[2],
		Outcome: o.String(),
		Time:    time.Now(),
	}
	if requester != nil {
		e.Requester, e.RequesterName = requester.UUID(), requester.Name()
	}
	if err := c.journal.Record(e); err != nil {
		c.log.Warn("record teleport", "target", target.Name(), "err", err)
	}
	return o
}

func isVehicle(e Entity) bool {
	_, ok := e.(Vehicle)
	return ok
}

func actorName(a Actor) string {
	if a == nil {
		return ""
	}
	return a.Name()
}
