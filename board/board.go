// Package board holds the 8x8 board model, the per-piece move rules and the
// executor that applies a validated move together with its side effects.
package board

import (
	"errors"
	"strings"

	"github.com/corentings/chess/v2"
)

// Size is the number of rows and of columns.
const Size = 8

// ErrOutOfBounds is returned by PlaceAt for a position off the board.
var ErrOutOfBounds = errors.New("position out of bounds")

// Pos is a board position. Row 0 is Black's back rank, row 7 is White's.
type Pos struct {
	Row int
	Col int
}

func (p Pos) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Pos) index() int {
	return p.Row*Size + p.Col
}

// String names the square the way the rest of the chess world does (e2, g8...).
func (p Pos) String() string {
	if !p.InBounds() {
		return "??"
	}
	return chess.Square(p.Col + 8*(Size-1-p.Row)).String()
}

// Color owns a piece. The zero value owns nothing (an empty cell).
type Color uint8

const (
	White Color = iota + 1
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Kind is a piece type; the zero value is no piece.
type Kind uint8

const (
	Pawn Kind = iota + 1
	Bishop
	Knight
	Rook
	Queen
	King
)

// PawnState gates the double step and en-passant.
type PawnState uint8

const (
	PawnBefore   PawnState = iota // never moved
	PawnRightNow                  // just advanced two squares
	PawnAfter
)

// Piece is a piece kind plus its auxiliary state. Pawn is only meaningful
// for pawns, Moved only for kings (has castled or moved).
type Piece struct {
	Kind  Kind
	Pawn  PawnState
	Moved bool
}

// Cell is White(piece), Black(piece) or Empty. The zero value is Empty.
type Cell struct {
	Owner Color
	Piece Piece
}

var Empty = Cell{}

func (c Cell) IsEmpty() bool {
	return c.Owner == 0
}

func (c Cell) Is(owner Color, kind Kind) bool {
	return c.Owner == owner && c.Piece.Kind == kind
}

func NewCell(owner Color, p Piece) Cell {
	return Cell{Owner: owner, Piece: p}
}

func (c Cell) String() string {
	if c.IsEmpty() {
		return "."
	}
	letter := pieceLetters[c.Piece.Kind]
	if c.Owner == Black {
		return strings.ToLower(letter)
	}
	return letter
}

var pieceLetters = map[Kind]string{
	Pawn:   "P",
	Bishop: "B",
	Knight: "N",
	Rook:   "R",
	Queen:  "Q",
	King:   "K",
}

// Board is a value type: assigning it copies all 64 cells, which is how the
// client gets its scratch board. Two boards compare equal with ==.
type Board struct {
	cells [Size * Size]Cell
}

func NewEmpty() Board {
	return Board{}
}

func NewFull() Board {
	var b Board
	backRank := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, k := range backRank {
		b.cells[Pos{0, col}.index()] = NewCell(Black, Piece{Kind: k})
		b.cells[Pos{7, col}.index()] = NewCell(White, Piece{Kind: k})
	}
	for col := 0; col < Size; col++ {
		b.cells[Pos{1, col}.index()] = NewCell(Black, Piece{Kind: Pawn})
		b.cells[Pos{6, col}.index()] = NewCell(White, Piece{Kind: Pawn})
	}
	return b
}

// At returns the cell at p, or false when p is off the board.
func (b *Board) At(p Pos) (Cell, bool) {
	if !p.InBounds() {
		return Empty, false
	}
	return b.cells[p.index()], true
}

// TakeFrom removes and returns the cell at p, leaving it Empty.
func (b *Board) TakeFrom(p Pos) (Cell, bool) {
	if !p.InBounds() {
		return Empty, false
	}
	c := b.cells[p.index()]
	b.cells[p.index()] = Empty
	return c, true
}

func (b *Board) PlaceAt(p Pos, c Cell) error {
	if !p.InBounds() {
		return ErrOutOfBounds
	}
	b.cells[p.index()] = c
	return nil
}

// Cells returns a copy of the cells in row-major order.
func (b *Board) Cells() [Size * Size]Cell {
	return b.cells
}

// String prints the board with Black on top, one rank per line.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		sb.WriteByte(byte('8' - row))
		for col := 0; col < Size; col++ {
			sb.WriteByte(' ')
			sb.WriteString(b.cells[Pos{row, col}.index()].String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
