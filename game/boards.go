package game

import "github.com/dulchik/pawn-hearts/board"

// Boards is the authoritative board plus an optional speculation. Only the
// client speculates: it tries its own move on the scratch copy and commits
// to Real once the host has answered.
type Boards struct {
	Real    board.Board
	scratch *board.Board
}

func NewBoards() Boards {
	return Boards{Real: board.NewFull()}
}

// Scratch returns the speculation board, copying Real the first time.
func (b *Boards) Scratch() *board.Board {
	if b.scratch == nil {
		s := b.Real
		b.scratch = &s
	}
	return b.scratch
}

func (b *Boards) Speculating() bool {
	return b.scratch != nil
}

// Drop discards the speculation.
func (b *Boards) Drop() {
	b.scratch = nil
}

// View is the board to show: the speculation while there is one.
func (b *Boards) View() *board.Board {
	if b.scratch != nil {
		return b.scratch
	}
	return &b.Real
}
