package board

import "log"

// Debug makes MovePiece log every effect it applies.
var Debug bool

// ValidateMove checks m against the board and returns the effects that
// applying it would perform, in push order: rule effects first, then the
// move of the piece itself, then the removal of a captured piece.
func (b *Board) ValidateMove(m Move) ([]Effect, bool) {
	if m.From == m.To {
		return nil, false
	}
	mover, ok := b.At(m.From)
	if !ok || mover.IsEmpty() {
		return nil, false
	}
	target, ok := b.At(m.To)
	if !ok || target.Owner == mover.Owner {
		return nil, false
	}

	effects, ok := RuleFor(mover.Owner, mover.Piece.Kind)(m, b)
	if !ok {
		return nil, false
	}
	effects = append(effects, Relocate(m))
	if !target.IsEmpty() {
		effects = append(effects, Delete(m.To, target))
	}
	return effects, true
}

// MovePiece validates m and, if legal, applies it. An illegal move leaves
// the board untouched.
func (b *Board) MovePiece(m Move) (Result, bool) {
	effects, ok := b.ValidateMove(m)
	if !ok {
		return Result{}, false
	}
	mover, _ := b.At(m.From)

	res := b.applyReversed(effects)
	b.expireEnPassant(mover.Owner.Opponent())
	return res, true
}

// applyReversed applies effects last-pushed first. The captured piece is
// removed before the mover lands, and the mover lands before a SetAt
// rewrites its identity on the destination square.
func (b *Board) applyReversed(effects []Effect) Result {
	var res Result
	for i := len(effects) - 1; i >= 0; i-- {
		e := effects[i]
		if Debug {
			log.Printf("board: %s", e)
		}
		switch e.Kind {
		case EffectDelete:
			if c, ok := b.TakeFrom(e.Pos); ok {
				res.Deleted = append(res.Deleted, c)
			}
		case EffectMove:
			c, ok := b.TakeFrom(e.Move.From)
			if !ok {
				continue
			}
			if err := b.PlaceAt(e.Move.To, c); err != nil {
				continue
			}
			res.Moved = append(res.Moved, Relocated{Cell: c, Move: e.Move})
		case EffectSetAt:
			if err := b.PlaceAt(e.Pos, e.Cell); err != nil {
				continue
			}
			res.Set = append(res.Set, Placed{Cell: e.Cell, Pos: e.Pos})
		}
	}
	return res
}

// expireEnPassant closes the en-passant window of the given color's pawns
// once the other side has replied.
func (b *Board) expireEnPassant(c Color) {
	for i, cell := range b.cells {
		if cell.Is(c, Pawn) && cell.Piece.Pawn == PawnRightNow {
			b.cells[i].Piece.Pawn = PawnAfter
		}
	}
}
