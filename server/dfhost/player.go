package dfhost

import (
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/safeport/server/internal/txguard"
	spworld "github.com/df-mc/safeport/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Player adapts a Dragonfly player inside a transaction so that it may be
// teleported and notified by a teleport.Coordinator.
type Player struct {
	p      *player.Player
	tx     *world.Tx
	worlds func(name string) (*world.World, bool)
}

// NewPlayer returns a Player for p in tx. worlds resolves world names for
// teleports into other worlds. If worlds is nil, such teleports are refused.
func NewPlayer(tx *world.Tx, p *player.Player, worlds func(name string) (*world.World, bool)) *Player {
	return &Player{p: p, tx: tx, worlds: worlds}
}

// UUID ...
func (pl *Player) UUID() uuid.UUID { return pl.p.UUID() }

// Name ...
func (pl *Player) Name() string { return pl.p.Name() }

// Position ...
func (pl *Player) Position() spworld.Point {
	return spworld.Point{World: pl.tx.World().Name(), Pos: pl.p.Position()}
}

// Teleport moves the player to pt. Moving into another world removes the
// player from the transaction and adds it to the other world once that world
// runs the transaction scheduled, after which the player is placed at pt.
func (pl *Player) Teleport(pt spworld.Point) bool {
	current := pl.tx.World()
	if pt.World == current.Name() {
		pl.p.Teleport(pt.Pos)
		return true
	}
	if pl.worlds == nil {
		return false
	}
	dest, ok := pl.worlds(pt.World)
	if !ok || dest == current {
		return false
	}
	handle := pl.tx.RemoveEntity(pl.p)
	if handle == nil {
		return false
	}
	pos := pt.Pos
	dest.Exec(func(tx *world.Tx) {
		if ent, ok := tx.AddEntity(handle).(interface{ Teleport(mgl64.Vec3) }); ok {
			ent.Teleport(pos)
		}
	})
	return true
}

// SetVelocity sets the velocity of the player. Velocity is usually set a
// tick after the teleport, when the transaction of the Player has finished,
// in which case the velocity is set through a new transaction.
func (pl *Player) SetVelocity(v mgl64.Vec3) {
	if txguard.Run(pl.tx, func() { pl.p.SetVelocity(v) }) == nil {
		return
	}
	pl.p.H().ExecWorld(func(_ *world.Tx, e world.Entity) {
		if p, ok := e.(*player.Player); ok {
			p.SetVelocity(v)
		}
	})
}

// Message ...
func (pl *Player) Message(a ...any) {
	if txguard.Run(pl.tx, func() { pl.p.Message(a...) }) == nil {
		return
	}
	pl.p.H().ExecWorld(func(_ *world.Tx, e world.Entity) {
		if p, ok := e.(*player.Player); ok {
			p.Message(a...)
		}
	})
}
