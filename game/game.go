// Package game drives one networked match: it owns the boards, turns local
// input into moves, and reconciles them with the peer's messages.
package game

import (
	"errors"
	"log"

	"github.com/gammazero/deque"

	"github.com/dulchik/pawn-hearts/board"
	"github.com/dulchik/pawn-hearts/network"
)

// Selection is a piece picked up by the local player. The board is not
// touched until the piece is placed.
type Selection struct {
	From board.Pos
	Cell board.Cell
}

type Game struct {
	role   Role
	conn   network.Connection
	state  State
	boards Boards

	selected *Selection
	outbox   deque.Deque[network.Message]
	err      error
}

// New starts a match over conn, which may still be handshaking.
func New(role Role, conn network.Connection) *Game {
	g := &Game{
		role:   role,
		conn:   conn,
		boards: NewBoards(),
	}
	if role == RoleHost {
		g.state.Phase = PhaseConnectingHost
	} else {
		g.state.Phase = PhaseConnectingClient
	}
	return g
}

func (g *Game) Role() Role {
	return g.role
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) Phase() Phase {
	return g.state.Phase
}

// Err is the error that tore the connection down, if any.
func (g *Game) Err() error {
	return g.err
}

// View is the board to render.
func (g *Game) View() *board.Board {
	return g.boards.View()
}

// Real is the authoritative board.
func (g *Game) Real() board.Board {
	return g.boards.Real
}

func (g *Game) Selected() (Selection, bool) {
	if g.selected == nil {
		return Selection{}, false
	}
	return *g.selected, true
}

func (g *Game) Status() string {
	switch g.state.Phase {
	case PhaseConnectingHost:
		return "Waiting for client"
	case PhaseConnectingClient:
		return "Connecting to host"
	case PhaseMove:
		return "Your move"
	case PhaseMovePending, PhaseWaitReply, PhaseWaitMove:
		return "Waiting for opponent"
	case PhaseWon:
		return "You won"
	case PhaseLost:
		return "You lost"
	}
	return ""
}

// Tick runs one step of the loop: poll the connection, handle what
// arrived, send what the local player produced. A connection failure tears
// the game down to PhaseSetup and is returned, unless the game is already
// over, in which case the connection is just closed.
func (g *Game) Tick() error {
	if g.conn == nil {
		return nil
	}
	if err := g.conn.Poll(); err != nil {
		if g.state.Phase.Over() {
			// the result stays on screen; the peer leaving is expected now
			log.Printf("game: connection ended after the game: %v", err)
			if cerr := g.Close(); cerr != nil {
				log.Printf("game: close: %v", cerr)
			}
			return nil
		}
		g.teardown(err)
		return err
	}

	switch {
	case g.state.Phase == PhaseConnectingHost && g.conn.Connected():
		log.Printf("game: client connected, host moves first")
		g.setPhase(PhaseMove)
	case g.state.Phase == PhaseConnectingClient && g.conn.Connected():
		log.Printf("game: connected to host")
		g.setPhase(PhaseWaitMove)
	}

	for {
		msg, ok := g.conn.Recv()
		if !ok {
			break
		}
		log.Printf("game: received %s in %s", msg, g.state)
		if g.role == RoleHost {
			g.handleHost(msg)
		} else {
			g.handleClient(msg)
		}
	}

	if g.state.Phase == PhaseMovePending {
		m := g.state.Move
		g.outbox.PushBack(network.MovedMessage(m))
		if g.role == RoleHost {
			g.setPhase(PhaseWaitMove)
		} else {
			g.state = State{Phase: PhaseWaitReply, Move: m}
		}
	}

	for g.outbox.Len() > 0 {
		msg := g.outbox.PopFront()
		log.Printf("game: sending %s", msg)
		g.conn.Send(msg)
	}
	return nil
}

func (g *Game) handleHost(msg network.Message) {
	if msg.Kind != network.Moved {
		log.Printf("game: host ignores %s", msg)
		return
	}
	if g.state.Phase != PhaseWaitMove {
		log.Printf("game: move %s out of turn", msg.Move)
		g.outbox.PushBack(network.Message{Kind: network.Rejected})
		return
	}

	m := msg.Move
	if c, ok := g.boards.Real.At(m.From); !ok || c.Owner != RoleClient.Color() {
		log.Printf("game: rejecting %s, not a client piece", m)
		g.outbox.PushBack(network.Message{Kind: network.Rejected})
		g.setPhase(PhaseMove)
		return
	}
	res, ok := g.boards.Real.MovePiece(m)
	if !ok {
		log.Printf("game: rejecting illegal move %s", m)
		g.outbox.PushBack(network.Message{Kind: network.Rejected})
		g.setPhase(PhaseMove)
		return
	}

	g.outbox.PushBack(network.Message{Kind: network.Accepted})
	if end, over := Outcome(g.role.Color(), res); over {
		g.outbox.PushBack(network.Message{Kind: network.GameDone})
		g.setPhase(end)
		return
	}
	g.setPhase(PhaseMove)
}

func (g *Game) handleClient(msg network.Message) {
	switch msg.Kind {
	case network.Moved:
		if g.state.Phase != PhaseWaitMove {
			log.Printf("game: unexpected move %s in %s", msg.Move, g.state)
			return
		}
		res, ok := g.boards.Real.MovePiece(msg.Move)
		if !ok {
			log.Printf("game: host move %s is illegal here, boards may have diverged", msg.Move)
			g.setPhase(PhaseMove)
			return
		}
		if end, over := Outcome(g.role.Color(), res); over {
			g.setPhase(end)
			return
		}
		g.setPhase(PhaseMove)

	case network.Rejected:
		if g.state.Phase.Over() {
			return
		}
		g.boards.Drop()
		g.selected = nil
		g.setPhase(PhaseWaitMove)

	case network.Accepted, network.GameDone:
		if g.state.Phase != PhaseWaitReply {
			log.Printf("game: %s ignored in %s", msg, g.state)
			return
		}
		g.commit(msg.Kind)
	}
}

// commit replays the speculated move on the real board after the host's
// verdict and drops the scratch copy.
func (g *Game) commit(verdict network.Kind) {
	m := g.state.Move
	g.boards.Drop()
	res, ok := g.boards.Real.MovePiece(m)
	if !ok {
		log.Printf("game: accepted move %s does not apply, boards may have diverged", m)
		g.setPhase(PhaseWaitMove)
		return
	}
	if end, over := Outcome(g.role.Color(), res); over {
		g.setPhase(end)
		return
	}
	if verdict == network.GameDone {
		log.Printf("game: host ended the game but %s took no king", m)
	}
	g.setPhase(PhaseWaitMove)
}

// Select picks up the local player's piece at p. It only succeeds on the
// local player's turn with nothing already selected.
func (g *Game) Select(p board.Pos) bool {
	if g.state.Phase != PhaseMove || g.selected != nil {
		return false
	}
	c, ok := g.boards.Real.At(p)
	if !ok || c.Owner != g.role.Color() {
		return false
	}
	g.selected = &Selection{From: p, Cell: c}
	return true
}

// Cancel puts the selected piece back where it came from.
func (g *Game) Cancel() {
	g.selected = nil
}

// Place drops the selected piece on p. The host plays the move on its
// board at once; the client first tries it on the scratch board. Either way
// an illegal move returns the piece to its origin and nothing is sent.
func (g *Game) Place(p board.Pos) bool {
	if g.selected == nil {
		return false
	}
	sel := *g.selected
	g.selected = nil
	if g.state.Phase != PhaseMove || sel.From == p {
		return false
	}
	m := board.NewMove(sel.From, p)

	if g.role == RoleClient {
		if _, ok := g.boards.Scratch().MovePiece(m); !ok {
			g.boards.Drop()
			return false
		}
		g.state = State{Phase: PhaseMovePending, Move: m}
		return true
	}

	res, ok := g.boards.Real.MovePiece(m)
	if !ok {
		return false
	}
	if end, over := Outcome(g.role.Color(), res); over {
		g.outbox.PushBack(network.MovedMessage(m))
		g.outbox.PushBack(network.Message{Kind: network.GameDone})
		g.setPhase(end)
		return true
	}
	g.state = State{Phase: PhaseMovePending, Move: m}
	return true
}

// Close ends the match and releases the connection.
func (g *Game) Close() error {
	if g.conn == nil {
		return nil
	}
	err := g.conn.Close()
	g.conn = nil
	return err
}

func (g *Game) teardown(err error) {
	var cerr *network.ConnectionError
	if errors.As(err, &cerr) {
		log.Printf("game: connection lost during %s: %v", cerr.Phase, cerr.Err)
	} else {
		log.Printf("game: connection lost: %v", err)
	}
	if cerr := g.Close(); cerr != nil {
		log.Printf("game: close: %v", cerr)
	}
	g.err = err
	g.boards = NewBoards()
	g.selected = nil
	g.outbox.Clear()
	g.state = State{Phase: PhaseSetup}
}

func (g *Game) setPhase(p Phase) {
	if p.Over() {
		log.Printf("game: %s", p)
	}
	g.state = State{Phase: p}
}
