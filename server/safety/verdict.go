package safety

// Verdict is the result of evaluating a single point as a landing spot.
type Verdict uint8

const (
	// Safe means an entity may be placed at the point.
	Safe Verdict = iota
	// UnsafeSolid means the entity would suffocate, or would land on a hard
	// floor after a fall.
	UnsafeSolid
	// UnsafeLava means there is lava directly below the point.
	UnsafeLava
	// UnsafeFire means there is fire directly below the point.
	UnsafeFire
	// UnsafeVoid means the entity would fall out of the world.
	UnsafeVoid
)

// String ...
func (v Verdict) String() string {
	switch v {
	case Safe:
		return "safe"
	case UnsafeSolid:
		return "unsafe_solid"
	case UnsafeLava:
		return "unsafe_lava"
	case UnsafeFire:
		return "unsafe_fire"
	case UnsafeVoid:
		return "unsafe_void"
	}
	return "unknown"
}
