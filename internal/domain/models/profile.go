package models

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// ProfileSchemaVersion is bumped whenever the on-disk profile layout
// changes shape. Loaders tolerate older versions by defaulting missing
// fields to empty structures.
const ProfileSchemaVersion = 1

// MatchResult is one completed game of any kind against an opponent.
type MatchResult struct {
	Won       bool  `json:"won"`
	MyScore   int64 `json:"my_score"`
	OppScore  int64 `json:"opp_score"`
	Timestamp int64 `json:"timestamp"`
}

// RoundOutcome classifies a single sign-game round from our side.
type RoundOutcome uint8

const (
	OutcomeDraw RoundOutcome = iota
	OutcomeWin
	OutcomeLoss
)

// Judge returns the outcome of a round pair from our side.
func Judge(p RoundPair) RoundOutcome {
	switch {
	case p.MyWin():
		return OutcomeWin
	case p.TheirWin():
		return OutcomeLoss
	}
	return OutcomeDraw
}

// StrategyRecord tracks how a predictor performed against one opponent.
type StrategyRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// PokerStats accumulates card-game tendencies for one opponent.
// TotalExtraBets counts the opponent's voluntary raises/bets beyond the
// base wager; FoldRate and Aggression are derived and recomputed on
// every update.
type PokerStats struct {
	HandsSeen      int     `json:"hands_seen"`
	FoldCount      int     `json:"fold_count"`
	GameCount      int     `json:"game_count"`
	TotalExtraBets int     `json:"total_extra_bets"`
	FoldRate       float64 `json:"fold_rate"`
	Aggression     float64 `json:"aggression"`
}

// AuctionSample is one observed sealed-bid outcome for an opponent.
type AuctionSample struct {
	ShadePct float64 `json:"shade_pct"`
	Won      bool    `json:"won"`
}

// AuctionStats accumulates auction shading behaviour for one opponent.
type AuctionStats struct {
	Samples     []AuctionSample `json:"samples"`
	AvgShadePct float64         `json:"avg_shade_pct"`
}

// OpponentProfile is the persistent statistical model for a single
// opponent address. It only ever grows: entries are appended or
// incremented, never removed.
//
// RoundHistory and the frequency/Markov counters hold sign-game rounds
// only. Transitions are accumulated over the history concatenated
// across all games against the opponent, with no per-game boundary;
// intra-game and cross-game adjacency are deliberately conflated (see
// DESIGN.md).
type OpponentProfile struct {
	SchemaVersion int    `json:"schema_version"`
	Addr          string `json:"addr"`

	MoveCounts   map[Move]int          `json:"move_counts"`
	Transitions  map[Move]map[Move]int `json:"transitions"`
	MatchResults []MatchResult         `json:"match_results"`
	RoundHistory []RoundPair           `json:"round_history"`

	StrategyPerformance map[Strategy]*StrategyRecord `json:"strategy_performance"`
	PokerStats          PokerStats                   `json:"poker_stats"`
	AuctionStats        AuctionStats                 `json:"auction_stats"`
	StrategyCooldowns   map[Strategy]int             `json:"strategy_cooldowns"`

	LastUpdated int64 `json:"last_updated"`

	// mu guards every stats field. The fighter loop mutates the cached
	// instance while API handlers read it from their own goroutines.
	mu sync.RWMutex
}

// NewOpponentProfile returns an empty profile for the address. Addresses
// are case-insensitive; the lower-cased form is the canonical key.
func NewOpponentProfile(addr string) *OpponentProfile {
	p := &OpponentProfile{
		SchemaVersion: ProfileSchemaVersion,
		Addr:          strings.ToLower(addr),
	}
	p.Normalize()
	return p
}

// Normalize allocates any nil maps/slices so a profile decoded from an
// older or partial JSON document behaves like a fresh one.
func (p *OpponentProfile) Normalize() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SchemaVersion == 0 {
		p.SchemaVersion = ProfileSchemaVersion
	}
	p.Addr = strings.ToLower(p.Addr)
	if p.MoveCounts == nil {
		p.MoveCounts = make(map[Move]int)
	}
	if p.Transitions == nil {
		p.Transitions = make(map[Move]map[Move]int)
	}
	if p.StrategyPerformance == nil {
		p.StrategyPerformance = make(map[Strategy]*StrategyRecord)
	}
	if p.StrategyCooldowns == nil {
		p.StrategyCooldowns = make(map[Strategy]int)
	}
}

// Update folds a completed game into the profile.
//
// rounds is the game's ordered (mine, theirs) list; pairs outside the
// sign-game move domain are filtered out before they can touch the
// frequency or Markov statistics. A match result is appended whenever
// won is non-nil, even if no valid round survived the filter; the
// card-game and auction callers pass empty or non-sign round lists.
func (p *OpponentProfile) Update(rounds []RoundPair, won *bool, myScore, oppScore int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	valid := rounds[:0:0]
	for _, r := range rounds {
		if r.Valid() {
			valid = append(valid, r)
		}
	}

	if len(valid) > 0 {
		for _, r := range valid {
			p.MoveCounts[r.Theirs]++
		}

		// Transition counts run over the opponent's concatenated move
		// sequence: the last move of the previous game chains into the
		// first move of this one.
		prev := Move(0)
		if n := len(p.RoundHistory); n > 0 {
			prev = p.RoundHistory[n-1].Theirs
		}
		for _, r := range valid {
			if prev.Valid() {
				row := p.Transitions[prev]
				if row == nil {
					row = make(map[Move]int)
					p.Transitions[prev] = row
				}
				row[r.Theirs]++
			}
			prev = r.Theirs
		}

		p.RoundHistory = append(p.RoundHistory, valid...)
	}

	if won != nil {
		p.MatchResults = append(p.MatchResults, MatchResult{
			Won:       *won,
			MyScore:   myScore,
			OppScore:  oppScore,
			Timestamp: time.Now().Unix(),
		})
	}

	if len(valid) > 0 || won != nil {
		p.LastUpdated = time.Now().Unix()
	}
}

// RecordStrategyResult updates a predictor's per-opponent tally after a
// round it decided was settled.
func (p *OpponentProfile) RecordStrategyResult(s Strategy, outcome RoundOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec := p.StrategyPerformance[s]
	if rec == nil {
		rec = &StrategyRecord{}
		p.StrategyPerformance[s] = rec
	}
	switch outcome {
	case OutcomeWin:
		rec.Wins++
	case OutcomeLoss:
		rec.Losses++
	default:
		rec.Draws++
	}
	p.LastUpdated = time.Now().Unix()
}

// StrategyAccuracy scores a predictor against this opponent: wins count
// full, draws half. 0.5 with no data, so an untested predictor is
// weighted neutrally.
func (p *OpponentProfile) StrategyAccuracy(s Strategy) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec := p.StrategyPerformance[s]
	if rec == nil {
		return 0.5
	}
	total := rec.Wins + rec.Losses + rec.Draws
	if total == 0 {
		return 0.5
	}
	return (float64(rec.Wins) + 0.5*float64(rec.Draws)) / float64(total)
}

// UpdatePokerStats folds one completed card game into the running
// tendencies. hands is how many hands the game ran, folds how many the
// opponent folded, extraBets how many voluntary raises/bets beyond the
// base wager they made.
func (p *OpponentProfile) UpdatePokerStats(hands, folds, extraBets int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := &p.PokerStats
	s.HandsSeen += hands
	s.FoldCount += folds
	s.TotalExtraBets += extraBets
	s.GameCount++
	if s.HandsSeen > 0 {
		s.FoldRate = float64(s.FoldCount) / float64(s.HandsSeen)
		s.Aggression = float64(s.TotalExtraBets) / float64(s.HandsSeen)
	}
	p.LastUpdated = time.Now().Unix()
}

// UpdateAuctionStats appends one observed auction and refreshes the
// average shading fraction.
func (p *OpponentProfile) UpdateAuctionStats(shadePct float64, won bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a := &p.AuctionStats
	a.Samples = append(a.Samples, AuctionSample{ShadePct: shadePct, Won: won})
	var sum float64
	for _, s := range a.Samples {
		sum += s.ShadePct
	}
	a.AvgShadePct = sum / float64(len(a.Samples))
	p.LastUpdated = time.Now().Unix()
}

// WinRate is the observed match win rate, 0.5 with no data.
func (p *OpponentProfile) WinRate() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.MatchResults) == 0 {
		return 0.5
	}
	wins := 0
	for _, r := range p.MatchResults {
		if r.Won {
			wins++
		}
	}
	return float64(wins) / float64(len(p.MatchResults))
}

// TotalGames is the number of completed games of any kind recorded.
func (p *OpponentProfile) TotalGames() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.MatchResults)
}

// LastResult returns a copy of the most recent match result, or nil.
func (p *OpponentProfile) LastResult() *MatchResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.MatchResults) == 0 {
		return nil
	}
	last := p.MatchResults[len(p.MatchResults)-1]
	return &last
}

// AllRounds returns a copy of the cumulative cross-game round history.
func (p *OpponentProfile) AllRounds() []RoundPair {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]RoundPair, len(p.RoundHistory))
	copy(out, p.RoundHistory)
	return out
}

// PokerSnapshot returns a copy of the card-game tendencies.
func (p *OpponentProfile) PokerSnapshot() PokerStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.PokerStats
}

// AuctionSnapshot returns a copy of the auction tendencies.
func (p *OpponentProfile) AuctionSnapshot() AuctionStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := p.AuctionStats
	out.Samples = make([]AuctionSample, len(p.AuctionStats.Samples))
	copy(out.Samples, p.AuctionStats.Samples)
	return out
}

// EncodeJSON marshals the profile under its lock so a save racing an
// update cannot tear the document.
func (p *OpponentProfile) EncodeJSON() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	type persisted OpponentProfile
	return json.MarshalIndent((*persisted)(p), "", "  ")
}

// SetCooldown benches a predictor for the given number of decisions.
func (p *OpponentProfile) SetCooldown(s Strategy, rounds int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rounds <= 0 {
		delete(p.StrategyCooldowns, s)
		return
	}
	p.StrategyCooldowns[s] = rounds
}

// OnCooldown reports whether a predictor is currently benched.
func (p *OpponentProfile) OnCooldown(s Strategy) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.StrategyCooldowns[s] > 0
}

// TickCooldowns advances all cooldown counters by one decision.
func (p *OpponentProfile) TickCooldowns() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for s, n := range p.StrategyCooldowns {
		if n <= 1 {
			delete(p.StrategyCooldowns, s)
		} else {
			p.StrategyCooldowns[s] = n - 1
		}
	}
}
