package main

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/dulchik/pawn-hearts/config"
	"github.com/dulchik/pawn-hearts/game"
	"github.com/dulchik/pawn-hearts/network"
)

type Mode int

const (
	ModeMenu Mode = iota
	ModePlaying
)

// App is the ebiten.Game: the connection menu and, once a match is running,
// input and rendering around a game.Game.
type App struct {
	cfg  config.Config
	mode Mode

	addr   textField
	status string

	game     *game.Game
	reversed bool
}

var (
	addrField  = rect{40, 200, 420, 44}
	connectBtn = rect{40, 270, 200, 44}
	hostBtn    = rect{260, 270, 200, 44}
)

func NewApp(cfg config.Config) *App {
	a := &App{
		cfg:  cfg,
		mode: ModeMenu,
		addr: textField{rect: addrField, value: []rune(cfg.Address), focused: true},
	}
	if cfg.Address != "" {
		a.start(cfg.Address, cfg.Host)
	}
	return a
}

func (a *App) updateMenu() {
	a.addr.update()
	switch {
	case buttonClicked(connectBtn):
		a.start(a.addr.String(), false)
	case buttonClicked(hostBtn):
		a.start(a.addr.String(), true)
	}
}

// start opens the connection and enters the match. The handshake runs in
// later ticks.
func (a *App) start(addr string, host bool) {
	if err := config.ValidateAddress(addr); err != nil {
		log.Printf("menu: %v", err)
		a.status = "Invalid ip address"
		return
	}

	opts := network.Options{PollTimeout: a.cfg.PollTimeout}
	var (
		conn network.Connection
		role game.Role
		err  error
	)
	if host {
		role = game.RoleHost
		conn, err = listen(addr, opts)
	} else {
		role = game.RoleClient
		conn = network.Dial(addr, opts)
	}
	if err != nil {
		log.Printf("menu: %v", err)
		a.status = err.Error()
		return
	}

	a.game = game.New(role, conn)
	a.reversed = role == game.RoleClient
	a.status = ""
	a.mode = ModePlaying
}

// listen keeps a failed *Host from becoming a non-nil Connection.
func listen(addr string, opts network.Options) (network.Connection, error) {
	h, err := network.Listen(addr, opts)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (a *App) leave() {
	if err := a.game.Close(); err != nil {
		log.Printf("closing connection: %v", err)
	}
	a.game = nil
	a.mode = ModeMenu
}

func (a *App) updatePlaying() {
	if err := a.game.Tick(); err != nil {
		if errors.Is(err, network.ErrClosed) {
			a.status = "Opponent left"
		} else {
			a.status = "Connection lost: " + err.Error()
		}
		a.game = nil
		a.mode = ModeMenu
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.leave()
		return
	}
	if a.game.Phase().Over() {
		return
	}

	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if p, ok := squareFromMouse(x, y, a.reversed); ok {
			a.game.Select(p)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if _, held := a.game.Selected(); !held {
			return
		}
		if p, ok := squareFromMouse(x, y, a.reversed); ok {
			if !a.game.Place(p) {
				log.Printf("move to %s not played", p)
			}
		} else {
			a.game.Cancel()
		}
	}
}

func (a *App) Update() error {
	if a.mode == ModeMenu {
		a.updateMenu()
		return nil
	}
	a.updatePlaying()
	return nil
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// Close releases the connection of a running match.
func (a *App) Close() {
	if a.game != nil {
		a.leave()
	}
}
