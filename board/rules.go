package board

// Rule inspects a move of the piece standing on m.From and returns the
// side effects it implies, or false if the move is illegal for that piece.
// The executor has already checked bounds, from != to and that the target
// is not an own piece.
type Rule func(m Move, b *Board) ([]Effect, bool)

// RuleFor is the dispatch table keyed by (color, kind).
func RuleFor(owner Color, kind Kind) Rule {
	switch kind {
	case Pawn:
		return pawnRule(owner)
	case Bishop:
		return bishop
	case Knight:
		return knight
	case Rook:
		return rook
	case Queen:
		return queen
	case King:
		return king
	}
	return reject
}

func reject(Move, *Board) ([]Effect, bool) {
	return nil, false
}

func pawnRule(owner Color) Rule {
	dir, home := -1, 6
	if owner == Black {
		dir, home = 1, 1
	}
	enemy := owner.Opponent()
	after := NewCell(owner, Piece{Kind: Pawn, Pawn: PawnAfter})

	return func(m Move, b *Board) ([]Effect, bool) {
		target, _ := b.At(m.To)
		switch {
		case m.Rows == dir && abs(m.Cols) == 1:
			if target.Owner == enemy {
				return []Effect{SetAt(m.To, after)}, true
			}
			// en-passant: the victim sits beside the origin, in the target column
			side := Pos{Row: m.From.Row, Col: m.To.Col}
			victim, _ := b.At(side)
			if target.IsEmpty() && victim.Is(enemy, Pawn) && victim.Piece.Pawn == PawnRightNow {
				return []Effect{Delete(side, victim), SetAt(m.To, after)}, true
			}
			return nil, false

		case m.Rows == dir && m.Cols == 0:
			if target.IsEmpty() {
				return []Effect{SetAt(m.To, after)}, true
			}
			return nil, false

		case m.Rows == 2*dir && m.Cols == 0 && m.From.Row == home:
			if target.IsEmpty() {
				return []Effect{SetAt(m.To, NewCell(owner, Piece{Kind: Pawn, Pawn: PawnRightNow}))}, true
			}
			return nil, false
		}
		return nil, false
	}
}

func bishop(m Move, b *Board) ([]Effect, bool) {
	if abs(m.Rows) != abs(m.Cols) {
		return nil, false
	}
	rows, cols := between(m.Rows), between(m.Cols)
	for i := range rows {
		if !emptyAt(b, Pos{m.From.Row + rows[i], m.From.Col + cols[i]}) {
			return nil, false
		}
	}
	return nil, true
}

func rook(m Move, b *Board) ([]Effect, bool) {
	switch {
	case m.Cols == 0:
		for _, r := range between(m.Rows) {
			if !emptyAt(b, Pos{m.From.Row + r, m.From.Col}) {
				return nil, false
			}
		}
		return nil, true
	case m.Rows == 0:
		for _, c := range between(m.Cols) {
			if !emptyAt(b, Pos{m.From.Row, m.From.Col + c}) {
				return nil, false
			}
		}
		return nil, true
	}
	return nil, false
}

func knight(m Move, _ *Board) ([]Effect, bool) {
	r, c := abs(m.Rows), abs(m.Cols)
	return nil, (r == 1 && c == 2) || (r == 2 && c == 1)
}

func queen(m Move, b *Board) ([]Effect, bool) {
	if _, ok := bishop(m, b); ok {
		return nil, true
	}
	if _, ok := rook(m, b); ok {
		return nil, true
	}
	return nil, false
}

// castle describes one of the four castling moves by its fixed coordinates.
type castle struct {
	owner Color
	king  Move
	rook  Move
}

var castles = []castle{
	{White, NewMove(Pos{7, 4}, Pos{7, 6}), NewMove(Pos{7, 7}, Pos{7, 5})},
	{White, NewMove(Pos{7, 4}, Pos{7, 2}), NewMove(Pos{7, 0}, Pos{7, 3})},
	{Black, NewMove(Pos{0, 4}, Pos{0, 6}), NewMove(Pos{0, 7}, Pos{0, 5})},
	{Black, NewMove(Pos{0, 4}, Pos{0, 2}), NewMove(Pos{0, 0}, Pos{0, 3})},
}

func king(m Move, b *Board) ([]Effect, bool) {
	self, _ := b.At(m.From)
	moved := NewCell(self.Owner, Piece{Kind: King, Moved: true})

	if abs(m.Rows) <= 1 && abs(m.Cols) <= 1 {
		return []Effect{SetAt(m.To, moved)}, true
	}
	if self.Piece.Moved {
		return nil, false
	}
	for _, c := range castles {
		if c.owner != self.Owner || c.king.From != m.From || c.king.To != m.To {
			continue
		}
		corner, _ := b.At(c.rook.From)
		if !corner.Is(self.Owner, Rook) {
			return nil, false
		}
		corridor := NewMove(m.From, c.rook.From)
		for _, col := range between(corridor.Cols) {
			if !emptyAt(b, Pos{m.From.Row, m.From.Col + col}) {
				return nil, false
			}
		}
		return []Effect{Relocate(c.rook), SetAt(m.To, moved)}, true
	}
	return nil, false
}

// steps walks from 0 toward delta, including 0 and excluding delta:
// steps(3) = [0 1 2], steps(-2) = [0 -1], steps(0) = [].
func steps(delta int) []int {
	var out []int
	switch {
	case delta > 0:
		for i := 0; i < delta; i++ {
			out = append(out, i)
		}
	case delta < 0:
		for i := 0; i > delta; i-- {
			out = append(out, i)
		}
	}
	return out
}

// between is the offsets strictly between origin and destination.
func between(delta int) []int {
	s := steps(delta)
	if len(s) == 0 {
		return nil
	}
	return s[1:]
}

func emptyAt(b *Board, p Pos) bool {
	c, ok := b.At(p)
	return ok && c.IsEmpty()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
