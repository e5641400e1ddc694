package teleport

import (
	"math"

	"github.com/df-mc/safeport/server/portal"
	"github.com/df-mc/safeport/server/safety"
	"github.com/df-mc/safeport/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// Destination is where a teleport request sends its target.
type Destination interface {
	// Point resolves the destination for the entity passed. It returns false
	// if the destination currently has no point.
	Point(e Entity) (world.Point, bool)
	// SafetyChecked reports if the point must pass the safety checks, and be
	// replaced by a safe point nearby if it does not.
	SafetyChecked() bool
	// Velocity returns the velocity applied to the target after arriving. A
	// zero velocity is not applied.
	Velocity() mgl64.Vec3
}

// Invalid is a Destination that never resolves. Teleports towards it fail
// with FailInvalidDestination before any other work is done.
type Invalid struct{}

// Point ...
func (Invalid) Point(Entity) (world.Point, bool) { return world.Point{}, false }

// SafetyChecked ...
func (Invalid) SafetyChecked() bool { return false }

// Velocity ...
func (Invalid) Velocity() mgl64.Vec3 { return mgl64.Vec3{} }

// invalid reports if d is nil or Invalid.
func invalid(d Destination) bool {
	if d == nil {
		return true
	}
	switch d.(type) {
	case Invalid, *Invalid:
		return true
	}
	return false
}

// Location is a Destination at a fixed point.
type Location struct {
	// Target is the point teleported to.
	Target world.Point
	// Launch is applied as velocity one tick after arriving.
	Launch mgl64.Vec3
	// Unchecked skips the safety checks and moves the target to Target as is.
	Unchecked bool
}

// Point ...
func (l Location) Point(Entity) (world.Point, bool) { return l.Target, true }

// SafetyChecked ...
func (l Location) SafetyChecked() bool { return !l.Unchecked }

// Velocity ...
func (l Location) Velocity() mgl64.Vec3 { return l.Launch }

// Cannon returns a Location at p that launches the target in the direction
// of yaw and pitch, in degrees, at speed blocks per tick.
func Cannon(p world.Point, yaw, pitch, speed float64) Location {
	y, pt := mgl64.DegToRad(yaw), mgl64.DegToRad(pitch)
	dir := mgl64.Vec3{
		-math.Sin(y) * math.Cos(pt),
		-math.Sin(pt),
		math.Cos(y) * math.Cos(pt),
	}
	return Location{Target: p, Launch: dir.Mul(speed)}
}

// Follow is a Destination at the current position of another entity.
type Follow struct {
	Of Entity
}

// Point ...
func (f Follow) Point(Entity) (world.Point, bool) {
	if f.Of == nil {
		return world.Point{}, false
	}
	return f.Of.Position(), true
}

// SafetyChecked ...
func (Follow) SafetyChecked() bool { return true }

// Velocity ...
func (Follow) Velocity() mgl64.Vec3 { return mgl64.Vec3{} }

// Bed is a Destination next to a bed. Point fails if no bed is found at Pos
// or if no spot around it is safe.
type Bed struct {
	Evaluator *safety.Evaluator
	Pos       world.Point
}

// Point ...
func (b Bed) Point(Entity) (world.Point, bool) {
	if b.Evaluator == nil {
		return world.Point{}, false
	}
	return b.Evaluator.BedSpawn(b.Pos)
}

// SafetyChecked returns false: the spot returned by Point was already found
// safe.
func (Bed) SafetyChecked() bool { return false }

// Velocity ...
func (Bed) Velocity() mgl64.Vec3 { return mgl64.Vec3{} }

// Portal is a Destination at the portal next to Near. If the portal is part
// of a complete nether portal frame, the target is placed at the bottom in
// the middle of the frame.
type Portal struct {
	Locator *portal.Locator
	Near    world.Point
}

// Point ...
func (p Portal) Point(Entity) (world.Point, bool) {
	if p.Locator == nil {
		return world.Point{}, false
	}
	pt, ok := p.Locator.NearestAdjacent(p.Near)
	if !ok {
		return world.Point{}, false
	}
	if f, ok := p.Locator.Frame(pt); ok {
		return f.Bottom(), true
	}
	return pt, true
}

// SafetyChecked ...
func (Portal) SafetyChecked() bool { return true }

// Velocity ...
func (Portal) Velocity() mgl64.Vec3 { return mgl64.Vec3{} }
