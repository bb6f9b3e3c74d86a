package main

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/corentings/chess/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"github.com/dulchik/pawn-hearts/board"
	"github.com/dulchik/pawn-hearts/game"
)

const (
	tileSize     = 100
	boardSize    = tileSize * board.Size // 800
	panelWidth   = 240
	screenWidth  = boardSize + panelWidth
	screenHeight = boardSize
)

var boardColors = [2]color.RGBA{
	{R: 237, G: 214, B: 176, A: 255}, // light
	{R: 184, G: 135, B: 98, A: 255},  // dark
}

var boardImage *ebiten.Image

// boardBackground renders the empty chessboard once.
func boardBackground() *ebiten.Image {
	if boardImage != nil {
		return boardImage
	}
	img := image.NewRGBA(image.Rect(0, 0, boardSize, boardSize))
	uniform := &image.Uniform{}
	for s := 0; s < board.Size*board.Size; s++ {
		x := s / board.Size
		y := s % board.Size
		x0, y0 := x*tileSize, y*tileSize
		uniform.C = boardColors[(x+y)%2]
		draw.Draw(img, image.Rect(x0, y0, x0+tileSize, y0+tileSize), uniform, image.Point{}, draw.Src)
	}
	boardImage = ebiten.NewImageFromImage(img)
	return boardImage
}

var pieceTypes = map[board.Kind]chess.PieceType{
	board.Pawn:   chess.Pawn,
	board.Bishop: chess.Bishop,
	board.Knight: chess.Knight,
	board.Rook:   chess.Rook,
	board.Queen:  chess.Queen,
	board.King:   chess.King,
}

// glyph is the figurine for c, or its letter when no piece font is loaded.
func glyph(c board.Cell) string {
	if !figurines {
		return c.String()
	}
	col := chess.White
	if c.Owner == board.Black {
		col = chess.Black
	}
	return chess.NewPiece(pieceTypes[c.Piece.Kind], col).String()
}

func drawPiece(screen *ebiten.Image, c board.Cell, x, y int) {
	if figurines {
		text.Draw(screen, glyph(c), pieceFace, x+10, y+80, color.Black)
		return
	}
	text.Draw(screen, glyph(c), pieceFace, x+tileSize/2-4, y+tileSize/2+4, color.Black)
}

func (a *App) Draw(screen *ebiten.Image) {
	ebitenutil.DrawRect(screen, boardSize, 0, panelWidth, boardSize, color.RGBA{30, 30, 30, 255})

	if a.mode == ModeMenu {
		a.drawMenu(screen)
		return
	}

	switch a.game.Phase() {
	case game.PhaseConnectingHost, game.PhaseConnectingClient:
		text.Draw(screen, a.game.Status(), textFace, boardSize/2-100, boardSize/2, color.White)
		a.drawPanel(screen)
		return
	}

	a.drawBoard(screen)
	a.drawPanel(screen)

	if a.game.Phase().Over() {
		ebitenutil.DrawRect(screen, 0, 0, boardSize, boardSize, color.RGBA{0, 0, 0, 180})
		text.Draw(screen, a.game.Status(), textFace, boardSize/2-60, boardSize/2, color.White)
		text.Draw(screen, "Press Esc for the menu", textFace, boardSize/2-110, boardSize/2+40, color.White)
	}
}

func (a *App) drawBoard(screen *ebiten.Image) {
	screen.DrawImage(boardBackground(), nil)

	sel, holding := a.game.Selected()
	if holding {
		x, y := squareOrigin(sel.From, a.reversed)
		ebitenutil.DrawRect(screen, float64(x), float64(y), tileSize, tileSize, color.RGBA{0, 255, 0, 80})
	}

	view := a.game.View()
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			p := board.Pos{Row: row, Col: col}
			c, _ := view.At(p)
			if c.IsEmpty() || (holding && p == sel.From) {
				continue
			}
			x, y := squareOrigin(p, a.reversed)
			drawPiece(screen, c, x, y)
		}
	}

	// rank and file notation on the left and bottom edges
	for i := 0; i < board.Size; i++ {
		rank, file := board.Size-i, i
		if a.reversed {
			rank, file = i+1, board.Size-1-i
		}
		text.Draw(screen, strconv.Itoa(rank), textFace, 4, i*tileSize+22, boardColors[1-i%2])
		text.Draw(screen, string(rune('a'+file)), textFace, i*tileSize+tileSize-16, boardSize-6,
			boardColors[1-(i+board.Size-1)%2])
	}

	if holding {
		mx, my := ebiten.CursorPosition()
		drawPiece(screen, sel.Cell, mx-tileSize/2, my-tileSize/2)
	}
}

func (a *App) drawPanel(screen *ebiten.Image) {
	side := "White"
	if a.game.Role() == game.RoleClient {
		side = "Black"
	}
	text.Draw(screen, "Playing "+side, textFace, boardSize+20, 40, color.White)
	text.Draw(screen, a.game.Status(), textFace, boardSize+20, 80, color.White)
	if st := a.game.State(); st.Phase == game.PhaseWaitReply {
		text.Draw(screen, "Sent "+st.Move.String(), textFace, boardSize+20, 120, color.White)
	}
}

func (a *App) drawMenu(screen *ebiten.Image) {
	text.Draw(screen, "Pawn Hearts", textFace, 40, 100, color.White)
	text.Draw(screen, "Address (ip:port)", textFace, 40, 185, color.White)
	a.addr.draw(screen)
	drawButton(screen, connectBtn, "Connect", false)
	drawButton(screen, hostBtn, "Host", false)
	if a.status != "" {
		text.Draw(screen, a.status, textFace, 40, 360, color.RGBA{230, 90, 90, 255})
	}
}
