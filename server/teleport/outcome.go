package teleport

// Outcome is the result of a teleport request.
type Outcome uint8

const (
	// Success means the target was moved to its destination.
	Success Outcome = iota
	// FailInvalidDestination means the destination could not be resolved to a
	// point. No search was performed.
	FailInvalidDestination
	// FailUnsafe means no safe point was found near the destination.
	FailUnsafe
	// FailOther means the host refused to move the target.
	FailOther
)

// String ...
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case FailInvalidDestination:
		return "invalid_destination"
	case FailUnsafe:
		return "unsafe"
	case FailOther:
		return "other"
	}
	return "unknown"
}
