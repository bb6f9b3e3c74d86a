package board

import (
	"errors"
	"fmt"
)

// Move carries its deltas so that every rule is a pattern match over
// (Rows, Cols) instead of re-deriving them.
type Move struct {
	From Pos
	To   Pos
	Rows int
	Cols int
}

func NewMove(from, to Pos) Move {
	return Move{
		From: from,
		To:   to,
		Rows: to.Row - from.Row,
		Cols: to.Col - from.Col,
	}
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

var ErrNotation = errors.New("invalid square notation")

// ParsePos reads a square name such as "e2".
func ParsePos(s string) (Pos, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Pos{}, fmt.Errorf("%w: %q", ErrNotation, s)
	}
	return Pos{Row: Size - int(s[1]-'0'), Col: int(s[0] - 'a')}, nil
}

// ParseMove reads "e2e4" or "e2 e4".
func ParseMove(s string) (Move, error) {
	if len(s) == 5 && s[2] == ' ' {
		s = s[:2] + s[3:]
	}
	if len(s) != 4 {
		return Move{}, fmt.Errorf("%w: %q", ErrNotation, s)
	}
	from, err := ParsePos(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParsePos(s[2:])
	if err != nil {
		return Move{}, err
	}
	return NewMove(from, to), nil
}

type EffectKind uint8

const (
	EffectDelete EffectKind = iota + 1
	EffectMove
	EffectSetAt
)

// Effect is one board mutation produced by a rule or by the executor.
//
//	EffectDelete: remove the cell at Pos (Cell is what the rule expected there)
//	EffectMove:   relocate whatever sits at Move.From to Move.To
//	EffectSetAt:  write Cell at Pos
type Effect struct {
	Kind EffectKind
	Pos  Pos
	Cell Cell
	Move Move
}

func Delete(p Pos, c Cell) Effect {
	return Effect{Kind: EffectDelete, Pos: p, Cell: c}
}

func Relocate(m Move) Effect {
	return Effect{Kind: EffectMove, Move: m}
}

func SetAt(p Pos, c Cell) Effect {
	return Effect{Kind: EffectSetAt, Pos: p, Cell: c}
}

func (e Effect) String() string {
	switch e.Kind {
	case EffectDelete:
		return fmt.Sprintf("delete %s@%s", e.Cell, e.Pos)
	case EffectMove:
		return "move " + e.Move.String()
	case EffectSetAt:
		return fmt.Sprintf("set %s@%s", e.Cell, e.Pos)
	}
	return "unknown effect"
}

type Relocated struct {
	Cell Cell
	Move Move
}

type Placed struct {
	Cell Cell
	Pos  Pos
}

// Result reports what an applied move did to the board.
type Result struct {
	Deleted []Cell
	Moved   []Relocated
	Set     []Placed
}

// KingTaken reports whether a king of the given color was deleted.
func (r Result) KingTaken(c Color) bool {
	for _, cell := range r.Deleted {
		if cell.Is(c, King) {
			return true
		}
	}
	return false
}
