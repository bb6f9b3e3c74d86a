package game

import (
	"fmt"

	"github.com/dulchik/pawn-hearts/board"
)

type Role int

const (
	RoleHost Role = iota
	RoleClient
)

// Color is the side a role plays. The host always has the white pieces.
func (r Role) Color() board.Color {
	if r == RoleHost {
		return board.White
	}
	return board.Black
}

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "client"
}

type Phase int

const (
	PhaseSetup Phase = iota
	PhaseConnectingHost
	PhaseConnectingClient
	PhaseMove
	PhaseMovePending
	PhaseWaitReply
	PhaseWaitMove
	PhaseWon
	PhaseLost
)

var phaseNames = map[Phase]string{
	PhaseSetup:            "setup",
	PhaseConnectingHost:   "connecting (host)",
	PhaseConnectingClient: "connecting (client)",
	PhaseMove:             "move",
	PhaseMovePending:      "move pending",
	PhaseWaitReply:        "wait reply",
	PhaseWaitMove:         "wait move",
	PhaseWon:              "won",
	PhaseLost:             "lost",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Over reports whether the game has ended.
func (p Phase) Over() bool {
	return p == PhaseWon || p == PhaseLost
}

// State is the turn-taking state. Move is only meaningful in
// PhaseMovePending and PhaseWaitReply.
type State struct {
	Phase Phase
	Move  board.Move
}

func (s State) String() string {
	switch s.Phase {
	case PhaseMovePending, PhaseWaitReply:
		return fmt.Sprintf("%s(%s)", s.Phase, s.Move)
	}
	return s.Phase.String()
}

// Outcome maps the pieces deleted by a move to an end of game for the
// given side. ok is false when no king was taken.
func Outcome(local board.Color, res board.Result) (Phase, bool) {
	switch {
	case res.KingTaken(local.Opponent()):
		return PhaseWon, true
	case res.KingTaken(local):
		return PhaseLost, true
	}
	return 0, false
}
