package models

import "time"

// ArenaEventType enumerates the phase events the session gateway
// streams to the bot.
type ArenaEventType string

const (
	EventChallengeOpen ArenaEventType = "challenge_open"
	EventRoundStart    ArenaEventType = "round_start"
	EventCardStreet    ArenaEventType = "card_street"
	EventAuctionOpen   ArenaEventType = "auction_open"
	EventGameSettled   ArenaEventType = "game_settled"
	EventLeaderboard   ArenaEventType = "leaderboard"
)

// ArenaEvent is one frame from the session gateway. Fields are
// populated per event type; the gateway owns all on-ledger mechanics
// (hashing, signing, confirmation) and only surfaces state.
type ArenaEvent struct {
	Type     ArenaEventType `json:"type"`
	GameID   string         `json:"game_id,omitempty"`
	Game     GameKind       `json:"game,omitempty"`
	Opponent string         `json:"opponent,omitempty"`

	// Sign game: rounds completed so far in this game.
	Round       int         `json:"round,omitempty"`
	TotalRounds int         `json:"total_rounds,omitempty"`
	Rounds      []RoundPair `json:"rounds,omitempty"`

	// Card game street state.
	HandValue       int    `json:"hand_value,omitempty"`
	CurrentBetWei   uint64 `json:"current_bet_wei,omitempty"`
	PotWei          uint64 `json:"pot_wei,omitempty"`
	RemainingBudget int    `json:"remaining_budget,omitempty"`
	RoundsRemaining int    `json:"rounds_remaining,omitempty"`
	MyScore         int64  `json:"my_score,omitempty"`
	OppScore        int64  `json:"opp_score,omitempty"`

	// Wager context.
	WagerWei    uint64 `json:"wager_wei,omitempty"`
	MinWagerWei uint64 `json:"min_wager_wei,omitempty"`
	MaxWagerWei uint64 `json:"max_wager_wei,omitempty"`
	BalanceWei  uint64 `json:"balance_wei,omitempty"`

	// Settlement.
	Won *bool `json:"won,omitempty"`
	// Card-game opponent tendencies observed by the gateway this game.
	HandsPlayed  int `json:"hands_played,omitempty"`
	OppFolds     int `json:"opp_folds,omitempty"`
	OppExtraBets int `json:"opp_extra_bets,omitempty"`
	// Auction: the fraction of true value the opponent bid.
	OppShadePct float64 `json:"opp_shade_pct,omitempty"`

	// Leaderboard snapshot.
	Agents []AgentRating `json:"agents,omitempty"`
	OurElo int           `json:"our_elo,omitempty"`

	// Deadline is when the gateway needs our action on-ledger; the
	// fighter truncates any psychology delay against it.
	Deadline time.Time `json:"deadline,omitempty"`
}

// AgentRating is one leaderboard row.
type AgentRating struct {
	Addr string `json:"addr"`
	Elo  int    `json:"elo"`
}

// MatchEvent is the record emitted to the configured backend after each
// settled game. It is the long-term analytics schema, distinct from the
// per-opponent profile files.
type MatchEvent struct {
	Timestamp int64    `json:"ts"`
	Opponent  string   `json:"opponent"`
	Game      GameKind `json:"game"`
	Won       bool     `json:"won"`
	MyScore   int64    `json:"my_score"`
	OppScore  int64    `json:"opp_score"`
	WagerWei  uint64   `json:"wager_wei"`
	Strategy  Strategy `json:"strategy"`
}
