// Package bankroll sizes wagers and tournament entries with a
// half-Kelly criterion under hard risk caps. Fractions are carried in
// basis points so wei amounts come out exact.
package bankroll

import (
	"fmt"
	"math"

	"ArenaFighter/internal/domain/models"
)

const (
	// priorGames is the pseudo-count pulling the observed win rate
	// toward the 0.5 prior while the sample is small.
	priorGames = 5

	// maxKellyBps caps any single wager at 5% of bankroll.
	maxKellyBps = 500

	// ruinMultiple: below this many minimum wagers of bankroll, always
	// bet the minimum regardless of edge.
	ruinMultiple = 10

	// Tournament economics: share of the entry pool paid to the winner
	// and the ceiling on worst-case cost as a bankroll fraction.
	prizeShare      = 0.60
	worstCaseCapBps = 2000
)

// Manager computes bankroll-aware sizing. Stateless; one per process.
type Manager struct{}

// NewManager creates a bankroll manager.
func NewManager() *Manager { return &Manager{} }

// EstimateWinProb shrinks the observed match win rate toward 0.5 with
// weight games/(games+priorGames): 0.5 with no history, converging to
// the observed rate as games accumulate.
func (m *Manager) EstimateWinProb(profile *models.OpponentProfile) float64 {
	if profile == nil || profile.TotalGames() == 0 {
		return 0.5
	}
	games := float64(profile.TotalGames())
	weight := games / (games + priorGames)
	return weight*profile.WinRate() + (1-weight)*0.5
}

// RecommendWager sizes an even-money wager. For even odds the Kelly
// fraction is the edge 2p-1; we bet half of it, capped at 5% of
// bankroll, clamped into the contract's [min,max]. No edge, or a
// bankroll under ten minimum wagers, always returns the minimum.
func (m *Manager) RecommendWager(balanceWei uint64, winProb float64, minWei, maxWei uint64) uint64 {
	if balanceWei < ruinMultiple*minWei {
		return minWei
	}

	edge := 2*winProb - 1
	if edge <= 0 {
		return minWei
	}

	bps := uint64(math.Round(edge / 2 * 10000))
	if bps > maxKellyBps {
		bps = maxKellyBps
	}

	wager := balanceWei / 10000 * bps
	if wager < minWei {
		return minWei
	}
	if wager > maxWei {
		return maxWei
	}
	return wager
}

// EntryAdvice is the tournament-entry recommendation.
type EntryAdvice struct {
	Enter        bool    `json:"enter"`
	EV           float64 `json:"ev_wei"`
	WorstCasePct float64 `json:"worst_case_pct"`
	Reason       string  `json:"reason"`
}

// RecommendTournamentEntry weighs a tournament by expected value.
// Wagers double each round; the cost of round r is discounted by the
// probability avgWinProb^r of reaching it, and the prize is the pool
// share discounted by the probability of winning out. Entry requires
// positive EV and a worst-case cost under 20% of bankroll.
func (m *Manager) RecommendTournamentEntry(
	balanceWei, entryFeeWei, baseWagerWei uint64,
	rounds, fieldSize int,
	avgWinProb float64,
) EntryAdvice {
	worstCase := entryFeeWei
	expectedCost := float64(entryFeeWei)
	for r := 0; r < rounds; r++ {
		roundWager := baseWagerWei << uint(r)
		worstCase += roundWager
		expectedCost += float64(roundWager) * math.Pow(avgWinProb, float64(r))
	}

	expectedPrize := float64(fieldSize) * float64(entryFeeWei) * prizeShare * math.Pow(avgWinProb, float64(rounds))
	ev := expectedPrize - expectedCost

	worstPct := 0.0
	if balanceWei > 0 {
		worstPct = float64(worstCase) / float64(balanceWei)
	}
	withinCap := worstCase < balanceWei/10000*worstCaseCapBps

	advice := EntryAdvice{EV: ev, WorstCasePct: worstPct}
	switch {
	case ev <= 0 && !withinCap:
		advice.Reason = fmt.Sprintf("negative EV (%.4g wei) and worst case %.1f%% of bankroll exceeds the 20%% cap", ev, worstPct*100)
	case ev <= 0:
		advice.Reason = fmt.Sprintf("negative EV (%.4g wei)", ev)
	case !withinCap:
		advice.Reason = fmt.Sprintf("worst case %.1f%% of bankroll exceeds the 20%% cap", worstPct*100)
	default:
		advice.Enter = true
		advice.Reason = fmt.Sprintf("positive EV (%.4g wei) with worst case %.1f%% of bankroll", ev, worstPct*100)
	}
	return advice
}
