package board

import (
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fromTo struct{ from, to Pos }

func posFromSquare(sq chess.Square) Pos {
	return Pos{Row: Size - 1 - int(sq.Rank()), Col: int(sq.File())}
}

func legalFromOracle(t *testing.T, fen string) map[fromTo]bool {
	t.Helper()
	opt, err := chess.FEN(fen)
	require.NoError(t, err)
	g := chess.NewGame(opt)

	out := make(map[fromTo]bool)
	for _, m := range g.Position().ValidMoves() {
		out[fromTo{posFromSquare(m.S1()), posFromSquare(m.S2())}] = true
	}
	return out
}

func legalFromRules(b *Board, side Color) map[fromTo]bool {
	out := make(map[fromTo]bool)
	for from := 0; from < Size*Size; from++ {
		fp := Pos{from / Size, from % Size}
		c, _ := b.At(fp)
		if c.Owner != side {
			continue
		}
		for to := 0; to < Size*Size; to++ {
			tp := Pos{to / Size, to % Size}
			if _, ok := b.ValidateMove(NewMove(fp, tp)); ok {
				out[fromTo{fp, tp}] = true
			}
		}
	}
	return out
}

func TestInitialPositionMatchesOracle(t *testing.T) {
	tests := []struct {
		name string
		side Color
		fen  string
	}{
		{"White", White, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"},
		{"Black", Black, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFull()
			got := legalFromRules(&b, tt.side)
			want := legalFromOracle(t, tt.fen)

			assert.Len(t, got, 20)
			assert.Equal(t, want, got)
		})
	}
}

func TestOutOfRangeMovesRejected(t *testing.T) {
	b := NewFull()
	cases := []Move{
		NewMove(Pos{6, 4}, Pos{8, 4}),
		NewMove(Pos{7, 6}, Pos{9, 7}),
		NewMove(Pos{1, 0}, Pos{-1, 0}),
		NewMove(Pos{8, 0}, Pos{7, 0}),
		NewMove(Pos{-1, -1}, Pos{0, 0}),
		NewMove(Pos{0, 1}, Pos{2, -1}),
	}
	for _, m := range cases {
		_, ok := b.ValidateMove(m)
		assert.False(t, ok, "move %+v", m)
	}
}

func TestPawnRules(t *testing.T) {
	tests := []struct {
		name   string
		setup  map[Pos]Cell
		move   Move
		legal  bool
		effect []Effect
	}{
		{
			name:  "single step",
			setup: map[Pos]Cell{{6, 0}: NewCell(White, Piece{Kind: Pawn})},
			move:  NewMove(Pos{6, 0}, Pos{5, 0}),
			legal: true,
			effect: []Effect{
				SetAt(Pos{5, 0}, NewCell(White, Piece{Kind: Pawn, Pawn: PawnAfter})),
			},
		},
		{
			name:  "double step from home row",
			setup: map[Pos]Cell{{1, 3}: NewCell(Black, Piece{Kind: Pawn})},
			move:  NewMove(Pos{1, 3}, Pos{3, 3}),
			legal: true,
			effect: []Effect{
				SetAt(Pos{3, 3}, NewCell(Black, Piece{Kind: Pawn, Pawn: PawnRightNow})),
			},
		},
		{
			name:  "double step away from home row",
			setup: map[Pos]Cell{{5, 3}: NewCell(White, Piece{Kind: Pawn, Pawn: PawnAfter})},
			move:  NewMove(Pos{5, 3}, Pos{3, 3}),
		},
		{
			name: "straight step blocked",
			setup: map[Pos]Cell{
				{6, 2}: NewCell(White, Piece{Kind: Pawn}),
				{5, 2}: NewCell(Black, Piece{Kind: Knight}),
			},
			move: NewMove(Pos{6, 2}, Pos{5, 2}),
		},
		{
			name:  "backwards",
			setup: map[Pos]Cell{{4, 2}: NewCell(White, Piece{Kind: Pawn, Pawn: PawnAfter})},
			move:  NewMove(Pos{4, 2}, Pos{5, 2}),
		},
		{
			name:  "diagonal onto empty",
			setup: map[Pos]Cell{{4, 2}: NewCell(Black, Piece{Kind: Pawn, Pawn: PawnAfter})},
			move:  NewMove(Pos{4, 2}, Pos{5, 3}),
		},
		{
			name: "diagonal capture",
			setup: map[Pos]Cell{
				{4, 2}: NewCell(Black, Piece{Kind: Pawn, Pawn: PawnAfter}),
				{5, 3}: NewCell(White, Piece{Kind: Bishop}),
			},
			move:  NewMove(Pos{4, 2}, Pos{5, 3}),
			legal: true,
			effect: []Effect{
				SetAt(Pos{5, 3}, NewCell(Black, Piece{Kind: Pawn, Pawn: PawnAfter})),
				Relocate(NewMove(Pos{4, 2}, Pos{5, 3})),
				Delete(Pos{5, 3}, NewCell(White, Piece{Kind: Bishop})),
			},
		},
		{
			name: "en-passant needs a pawn that just double stepped",
			setup: map[Pos]Cell{
				{3, 5}: NewCell(White, Piece{Kind: Pawn, Pawn: PawnAfter}),
				{3, 4}: NewCell(Black, Piece{Kind: Pawn, Pawn: PawnAfter}),
			},
			move: NewMove(Pos{3, 5}, Pos{2, 4}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewEmpty()
			for p, c := range tt.setup {
				require.NoError(t, b.PlaceAt(p, c))
			}
			effects, ok := b.ValidateMove(tt.move)
			require.Equal(t, tt.legal, ok)
			if !tt.legal {
				return
			}
			want := append([]Effect{}, tt.effect...)
			if len(want) == 1 {
				want = append(want, Relocate(tt.move))
			}
			assert.Equal(t, want, effects)
		})
	}
}

func TestEnPassant(t *testing.T) {
	b := NewEmpty()
	victim := NewCell(Black, Piece{Kind: Pawn, Pawn: PawnRightNow})
	require.NoError(t, b.PlaceAt(Pos{3, 4}, victim))
	require.NoError(t, b.PlaceAt(Pos{3, 5}, NewCell(White, Piece{Kind: Pawn, Pawn: PawnAfter})))

	res, ok := b.MovePiece(NewMove(Pos{3, 5}, Pos{2, 4}))
	require.True(t, ok)
	assert.Equal(t, []Cell{victim}, res.Deleted)

	gone, _ := b.At(Pos{3, 4})
	assert.True(t, gone.IsEmpty(), "captured pawn must leave (3,4)")
	landed, _ := b.At(Pos{2, 4})
	assert.True(t, landed.Is(White, Pawn))
	origin, _ := b.At(Pos{3, 5})
	assert.True(t, origin.IsEmpty())
}

func TestEnPassantWindowCloses(t *testing.T) {
	b := NewEmpty()
	require.NoError(t, b.PlaceAt(Pos{1, 4}, NewCell(Black, Piece{Kind: Pawn})))
	require.NoError(t, b.PlaceAt(Pos{3, 5}, NewCell(White, Piece{Kind: Pawn, Pawn: PawnAfter})))
	require.NoError(t, b.PlaceAt(Pos{7, 0}, NewCell(White, Piece{Kind: Rook})))
	require.NoError(t, b.PlaceAt(Pos{0, 0}, NewCell(Black, Piece{Kind: Rook})))

	_, ok := b.MovePiece(NewMove(Pos{1, 4}, Pos{3, 4}))
	require.True(t, ok)
	_, ok = b.ValidateMove(NewMove(Pos{3, 5}, Pos{2, 4}))
	require.True(t, ok, "white may take en-passant right after the double step")

	_, ok = b.MovePiece(NewMove(Pos{7, 0}, Pos{6, 0}))
	require.True(t, ok)
	_, ok = b.MovePiece(NewMove(Pos{0, 0}, Pos{0, 1}))
	require.True(t, ok)

	_, ok = b.ValidateMove(NewMove(Pos{3, 5}, Pos{2, 4}))
	assert.False(t, ok, "en-passant is only available on the next move")
}

func TestSliders(t *testing.T) {
	tests := []struct {
		name  string
		piece Kind
		to    Pos
		block *Pos
		legal bool
	}{
		{"bishop diagonal", Bishop, Pos{1, 6}, nil, true},
		{"bishop blocked", Bishop, Pos{1, 6}, &Pos{2, 5}, false},
		{"bishop landing on blocker square captures", Bishop, Pos{2, 5}, &Pos{2, 5}, true},
		{"bishop straight", Bishop, Pos{4, 7}, nil, false},
		{"rook file", Rook, Pos{0, 3}, nil, true},
		{"rook rank", Rook, Pos{4, 0}, nil, true},
		{"rook blocked", Rook, Pos{4, 7}, &Pos{4, 5}, false},
		{"rook diagonal", Rook, Pos{1, 6}, nil, false},
		{"queen diagonal", Queen, Pos{7, 0}, nil, true},
		{"queen file", Queen, Pos{7, 3}, nil, true},
		{"queen blocked", Queen, Pos{7, 0}, &Pos{6, 1}, false},
		{"queen knight jump", Queen, Pos{6, 4}, nil, false},
		{"knight", Knight, Pos{6, 4}, nil, true},
		{"knight over blockers", Knight, Pos{2, 2}, &Pos{3, 3}, true},
		{"knight straight", Knight, Pos{4, 5}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewEmpty()
			from := Pos{4, 3}
			require.NoError(t, b.PlaceAt(from, NewCell(White, Piece{Kind: tt.piece})))
			if tt.block != nil {
				require.NoError(t, b.PlaceAt(*tt.block, NewCell(Black, Piece{Kind: Pawn, Pawn: PawnAfter})))
			}
			_, ok := b.ValidateMove(NewMove(from, tt.to))
			assert.Equal(t, tt.legal, ok)
		})
	}
}

func TestOwnPieceCannotBeCaptured(t *testing.T) {
	b := NewFull()
	_, ok := b.ValidateMove(NewMove(Pos{7, 0}, Pos{6, 0}))
	assert.False(t, ok)
}

func TestKingStep(t *testing.T) {
	b := NewEmpty()
	require.NoError(t, b.PlaceAt(Pos{4, 4}, NewCell(Black, Piece{Kind: King})))

	_, ok := b.ValidateMove(NewMove(Pos{4, 4}, Pos{4, 6}))
	assert.False(t, ok)

	res, ok := b.MovePiece(NewMove(Pos{4, 4}, Pos{5, 5}))
	require.True(t, ok)
	k, _ := b.At(Pos{5, 5})
	assert.Equal(t, NewCell(Black, Piece{Kind: King, Moved: true}), k)
	assert.Equal(t, []Placed{{Cell: k, Pos: Pos{5, 5}}}, res.Set)
}

func castlingBoard(t *testing.T) Board {
	t.Helper()
	b := NewEmpty()
	require.NoError(t, b.PlaceAt(Pos{7, 4}, NewCell(White, Piece{Kind: King})))
	require.NoError(t, b.PlaceAt(Pos{7, 7}, NewCell(White, Piece{Kind: Rook})))
	require.NoError(t, b.PlaceAt(Pos{7, 0}, NewCell(White, Piece{Kind: Rook})))
	require.NoError(t, b.PlaceAt(Pos{0, 4}, NewCell(Black, Piece{Kind: King})))
	require.NoError(t, b.PlaceAt(Pos{0, 0}, NewCell(Black, Piece{Kind: Rook})))
	return b
}

func TestCastlingKingside(t *testing.T) {
	b := castlingBoard(t)
	m := NewMove(Pos{7, 4}, Pos{7, 6})
	castled := NewCell(White, Piece{Kind: King, Moved: true})

	effects, ok := b.ValidateMove(m)
	require.True(t, ok)
	assert.Equal(t, []Effect{
		Relocate(NewMove(Pos{7, 7}, Pos{7, 5})),
		SetAt(Pos{7, 6}, castled),
		Relocate(m),
	}, effects)

	_, ok = b.MovePiece(m)
	require.True(t, ok)
	k, _ := b.At(Pos{7, 6})
	r, _ := b.At(Pos{7, 5})
	corner, _ := b.At(Pos{7, 7})
	assert.Equal(t, castled, k)
	assert.True(t, r.Is(White, Rook))
	assert.True(t, corner.IsEmpty())

	_, ok = b.ValidateMove(NewMove(Pos{7, 6}, Pos{7, 4}))
	assert.False(t, ok, "castling is a one-time transition")
}

func TestCastlingRequiresRook(t *testing.T) {
	b := castlingBoard(t)
	_, ok := b.TakeFrom(Pos{7, 7})
	require.True(t, ok)

	_, ok = b.ValidateMove(NewMove(Pos{7, 4}, Pos{7, 6}))
	assert.False(t, ok)
}

func TestCastlingQueensideAndBlack(t *testing.T) {
	b := castlingBoard(t)

	res, ok := b.MovePiece(NewMove(Pos{7, 4}, Pos{7, 2}))
	require.True(t, ok)
	assert.Len(t, res.Moved, 2)
	r, _ := b.At(Pos{7, 3})
	assert.True(t, r.Is(White, Rook))

	_, ok = b.MovePiece(NewMove(Pos{0, 4}, Pos{0, 2}))
	require.True(t, ok)
	r, _ = b.At(Pos{0, 3})
	assert.True(t, r.Is(Black, Rook))
}

func TestCastlingBlockedCorridor(t *testing.T) {
	b := castlingBoard(t)
	require.NoError(t, b.PlaceAt(Pos{7, 1}, NewCell(White, Piece{Kind: Knight})))

	_, ok := b.ValidateMove(NewMove(Pos{7, 4}, Pos{7, 2}))
	assert.False(t, ok, "b1 is between king and rook")
}

func TestCastlingAfterKingMoved(t *testing.T) {
	b := castlingBoard(t)
	_, ok := b.MovePiece(NewMove(Pos{7, 4}, Pos{7, 5}))
	require.True(t, ok)
	_, ok = b.MovePiece(NewMove(Pos{7, 5}, Pos{7, 4}))
	require.True(t, ok)

	_, ok = b.ValidateMove(NewMove(Pos{7, 4}, Pos{7, 6}))
	assert.False(t, ok)
}

func TestSteps(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, steps(3))
	assert.Equal(t, []int{0, -1}, steps(-2))
	assert.Empty(t, steps(0))
	assert.Empty(t, between(1))
	assert.Equal(t, []int{-1, -2, -3}, between(-4))
}
