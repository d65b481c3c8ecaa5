package state

import (
	"errors"
	"fmt"
	"strings"
)

type Point struct{ X, Y float32 }

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Mode is the active drawing tool.
type Mode int

const (
	ModePencil Mode = iota
	ModeEraser
)

var (
	ErrUnknownMode  = errors.New("unknown tool mode")
	ErrInvalidColor = errors.New("invalid color")
)

func (m Mode) String() string {
	switch m {
	case ModePencil:
		return "pencil"
	case ModeEraser:
		return "eraser"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pencil":
		return ModePencil, nil
	case "eraser":
		return ModeEraser, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
