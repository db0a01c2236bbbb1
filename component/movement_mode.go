package component

// MovementMode is the locomotion mode of a character. Climbing is layered on
// top of the walk/fall modes.
type MovementMode uint8

const (
	ModeNone MovementMode = iota
	ModeWalking
	ModeFalling
	ModeClimbing
)

func (m MovementMode) String() string {
	switch m {
	case ModeWalking:
		return "walking"
	case ModeFalling:
		return "falling"
	case ModeClimbing:
		return "climbing"
	default:
		return "none"
	}
}
