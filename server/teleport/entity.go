package teleport

import (
	"github.com/df-mc/safeport/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Actor is anything that can request or undergo a teleport.
type Actor interface {
	UUID() uuid.UUID
	Name() string
}

// Entity is an Actor with a position in a world that can be moved.
type Entity interface {
	Actor
	// Position returns the current position of the entity.
	Position() world.Point
	// Teleport moves the entity to p. It returns false if the host refused
	// the move.
	Teleport(p world.Point) bool
	SetVelocity(v mgl64.Vec3)
}

// Vehicle is an Entity that may carry a passenger.
type Vehicle interface {
	Entity
	Passenger() (Entity, bool)
}

// Cart is a Vehicle that runs on tracks, such as a minecart.
type Cart interface {
	Vehicle
	Velocity() mgl64.Vec3
}

// Messenger is an Actor that can receive messages, typically a player.
type Messenger interface {
	Message(a ...any)
}

// Scheduler runs deferred callbacks on the host's logic goroutine.
type Scheduler interface {
	After(ticks int, f func())
}
