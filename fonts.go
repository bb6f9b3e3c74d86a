package main

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/dulchik/pawn-hearts/config"
)

var (
	pieceFace font.Face
	textFace  font.Face = basicfont.Face7x13

	// figurines is false when the piece font could not be loaded; pieces
	// are then drawn as letters.
	figurines bool
)

func loadFace(path string, size float64) (font.Face, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ttf, err := truetype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size}), nil
}

// loadFonts loads both faces from the asset directory. Whatever fails to
// load falls back to the built-in bitmap face and is reported.
func loadFonts(cfg config.Config) error {
	pieceFace = basicfont.Face7x13
	textFace = basicfont.Face7x13
	figurines = false

	var firstErr error
	if f, err := loadFace(cfg.Asset(cfg.PieceFont), tileSize*0.8); err == nil {
		pieceFace = f
		figurines = true
	} else {
		firstErr = err
	}
	if f, err := loadFace(cfg.Asset(cfg.TextFont), 20); err == nil {
		textFace = f
	} else if firstErr == nil {
		firstErr = err
	}
	return firstErr
}
