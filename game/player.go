package game

import "fmt"

// Player is the side to move. Yellow moves first.
type Player int

const (
	Yellow Player = iota
	Red
)

func (p Player) Other() Player {
	return 1 - p
}

func (p Player) String() string {
	switch p {
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	default:
		return fmt.Sprintf("player(%d)", int(p))
	}
}

// ParsePlayer accepts the colour names used by the c4i protocol.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "yellow":
		return Yellow, nil
	case "red":
		return Red, nil
	default:
		return 0, fmt.Errorf("unknown player %q", s)
	}
}
