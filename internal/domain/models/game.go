package models

import "strings"

// Move is a sign-game move. The zero value is invalid; the wire protocol
// reserves 0 for "not yet revealed".
type Move uint8

const (
	Rock     Move = 1
	Paper    Move = 2
	Scissors Move = 3
)

// Moves lists all valid sign-game moves in wire order.
var Moves = [3]Move{Rock, Paper, Scissors}

// Valid reports whether m is one of the three sign-game moves.
func (m Move) Valid() bool {
	return m >= Rock && m <= Scissors
}

// Counter returns the move that beats m. Counter of an invalid move is
// the invalid move itself so corrupt input cannot masquerade as a signal.
func (m Move) Counter() Move {
	switch m {
	case Rock:
		return Paper
	case Paper:
		return Scissors
	case Scissors:
		return Rock
	}
	return m
}

// Beats reports whether m wins a round against other.
func (m Move) Beats(other Move) bool {
	return other.Counter() == m
}

// ParseMove maps a move name to its wire value. Unknown names return
// the invalid zero move.
func ParseMove(s string) Move {
	switch strings.ToLower(s) {
	case "rock":
		return Rock
	case "paper":
		return Paper
	case "scissors":
		return Scissors
	}
	return 0
}

func (m Move) String() string {
	switch m {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	}
	return "none"
}

// RoundPair is one completed sign-game round: our move and theirs.
type RoundPair struct {
	Mine   Move `json:"mine"`
	Theirs Move `json:"theirs"`
}

// Valid reports whether both components are sign-game moves. Card-game
// hand values and auction bids arrive through the same round channel and
// must never reach the frequency/Markov statistics.
func (p RoundPair) Valid() bool {
	return p.Mine.Valid() && p.Theirs.Valid()
}

// TheirWin reports whether the opponent took this round.
func (p RoundPair) TheirWin() bool { return p.Theirs.Beats(p.Mine) }

// MyWin reports whether we took this round.
func (p RoundPair) MyWin() bool { return p.Mine.Beats(p.Theirs) }

// GameKind identifies which of the three wagered games an event or
// result belongs to.
type GameKind string

const (
	GameSign    GameKind = "sign"
	GameCards   GameKind = "cards"
	GameAuction GameKind = "auction"
)

// Valid reports whether k names a supported game.
func (k GameKind) Valid() bool {
	switch k {
	case GameSign, GameCards, GameAuction:
		return true
	}
	return false
}

// OpponentMoves projects the opponent side of a round history.
func OpponentMoves(rounds []RoundPair) []Move {
	out := make([]Move, len(rounds))
	for i, r := range rounds {
		out[i] = r.Theirs
	}
	return out
}
