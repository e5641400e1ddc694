package txguard

import (
	"errors"

	"github.com/df-mc/dragonfly/server/world"
)

// closedPanicMessage is the panic raised by a world.Tx used after its
// transaction finished.
const closedPanicMessage = "world.Tx: use of transaction after transaction finishes is not permitted"

// ErrClosed is returned when fn used a transaction that already finished.
var ErrClosed = errors.New("txguard: transaction closed")

// Run runs fn, which operates on tx. If tx is nil or fn panics because tx
// was already finished, ErrClosed is returned. Other panics are not
// recovered.
func Run(tx *world.Tx, fn func()) (err error) {
	if tx == nil {
		return ErrClosed
	}
	defer func() {
		if r := recover(); r != nil {
			if msg, ok := r.(string); ok && msg == closedPanicMessage {
				err = ErrClosed
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}
