package engine

// Mode gates everything the engine does.
type Mode uint8

const (
	ModeNavigation Mode = iota
	ModeTyping
)

func (m Mode) String() string {
	if m == ModeTyping {
		return "typing"
	}
	return "navigation"
}

// Direction is one of the four navigation directions.
type Direction uint8

const (
	DirLeft Direction = iota
	DirDown
	DirUp
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	}
	return "unknown"
}
