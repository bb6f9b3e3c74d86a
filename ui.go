package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"

	"github.com/dulchik/pawn-hearts/board"
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (r rect) hovered() bool {
	return r.contains(ebiten.CursorPosition())
}

func drawButton(screen *ebiten.Image, r rect, label string, active bool) {
	bg := color.RGBA{80, 80, 80, 255}
	if active || r.hovered() {
		bg = color.RGBA{120, 120, 120, 255}
	}
	ebitenutil.DrawRect(screen, float64(r.x), float64(r.y), float64(r.w), float64(r.h), bg)
	text.Draw(screen, label, textFace, r.x+12, r.y+r.h/2+7, color.White)
}

func buttonClicked(r rect) bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && r.hovered()
}

// textField is a single line input for an ip:port address.
type textField struct {
	rect    rect
	value   []rune
	focused bool
}

func (f *textField) update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		f.focused = f.rect.hovered()
	}
	if !f.focused {
		return
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if addressRune(r) && len(f.value) < 64 {
			f.value = append(f.value, r)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(f.value) > 0 {
		f.value = f.value[:len(f.value)-1]
	}
}

func (f *textField) draw(screen *ebiten.Image) {
	bg := color.RGBA{50, 50, 50, 255}
	if f.focused {
		bg = color.RGBA{70, 70, 90, 255}
	}
	ebitenutil.DrawRect(screen, float64(f.rect.x), float64(f.rect.y), float64(f.rect.w), float64(f.rect.h), bg)
	s := string(f.value)
	if f.focused {
		s += "_"
	}
	text.Draw(screen, s, textFace, f.rect.x+10, f.rect.y+f.rect.h/2+7, color.White)
}

func (f *textField) String() string {
	return string(f.value)
}

func addressRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	}
	return r == '.' || r == ':' || r == '[' || r == ']'
}

// squareFromMouse maps a cursor position to a board square. A reversed board
// is drawn rotated half a turn.
func squareFromMouse(x, y int, reversed bool) (board.Pos, bool) {
	if x < 0 || y < 0 || x >= boardSize || y >= boardSize {
		return board.Pos{}, false
	}
	p := board.Pos{Row: y / tileSize, Col: x / tileSize}
	if reversed {
		p = board.Pos{Row: board.Size - 1 - p.Row, Col: board.Size - 1 - p.Col}
	}
	return p, p.InBounds()
}

// squareOrigin is the top-left pixel of p on screen.
func squareOrigin(p board.Pos, reversed bool) (int, int) {
	if reversed {
		p = board.Pos{Row: board.Size - 1 - p.Row, Col: board.Size - 1 - p.Col}
	}
	return p.Col * tileSize, p.Row * tileSize
}
