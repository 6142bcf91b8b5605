package bankroll

import (
	"testing"

	"ArenaFighter/internal/domain/models"
)

func boolPtr(b bool) *bool { return &b }

func TestEstimateWinProbNoHistory(t *testing.T) {
	m := NewManager()
	if got := m.EstimateWinProb(nil); got != 0.5 {
		t.Fatalf("nil profile: got %v want 0.5", got)
	}
	if got := m.EstimateWinProb(models.NewOpponentProfile("opp")); got != 0.5 {
		t.Fatalf("empty profile: got %v want 0.5", got)
	}
}

func TestEstimateWinProbShrinksTowardPrior(t *testing.T) {
	m := NewManager()
	p := models.NewOpponentProfile("opp")
	// 5 wins out of 5: weight 5/10, so 0.5*1.0 + 0.5*0.5 = 0.75.
	for i := 0; i < 5; i++ {
		p.Update(nil, boolPtr(true), 3, 0)
	}
	if got := m.EstimateWinProb(p); got != 0.75 {
		t.Fatalf("got %v want 0.75", got)
	}
}

func TestRecommendWagerHalfKelly(t *testing.T) {
	m := NewManager()
	// Edge 0.4, half-Kelly 2000 bps, capped at 500 bps of 1e18.
	got := m.RecommendWager(1_000_000_000_000_000_000, 0.7, 1_000_000_000_000_000, 100_000_000_000_000_000)
	if got != 50_000_000_000_000_000 {
		t.Fatalf("got %d want 5e16", got)
	}
}

func TestRecommendWagerNoEdge(t *testing.T) {
	m := NewManager()
	got := m.RecommendWager(1_000_000_000_000_000_000, 0.5, 1_000_000_000_000_000, 100_000_000_000_000_000)
	if got != 1_000_000_000_000_000 {
		t.Fatalf("got %d want the minimum", got)
	}
}

func TestRecommendWagerRuinGuard(t *testing.T) {
	m := NewManager()
	// Bankroll under ten minimum wagers: always the minimum.
	got := m.RecommendWager(9_000, 0.9, 1_000, 100_000)
	if got != 1_000 {
		t.Fatalf("got %d want the minimum", got)
	}
}

func TestRecommendWagerClampsToMax(t *testing.T) {
	m := NewManager()
	got := m.RecommendWager(1_000_000_000_000_000_000, 0.7, 1_000_000_000_000_000, 10_000_000_000_000_000)
	if got != 10_000_000_000_000_000 {
		t.Fatalf("got %d want the contract max", got)
	}
}

func TestTournamentEntryPositiveEV(t *testing.T) {
	m := NewManager()
	advice := m.RecommendTournamentEntry(
		1_000_000_000_000_000_000, // balance
		1_000_000_000_000_000,     // entry fee
		1_000_000_000_000_000,     // base wager
		2, 8, 0.9,
	)
	if !advice.Enter {
		t.Fatalf("expected entry: %+v", advice)
	}
	if advice.EV <= 0 {
		t.Fatalf("EV not positive: %v", advice.EV)
	}
}

func TestTournamentEntryNegativeEV(t *testing.T) {
	m := NewManager()
	advice := m.RecommendTournamentEntry(
		1_000_000_000_000_000_000,
		1_000_000_000_000_000,
		1_000_000_000_000_000,
		2, 8, 0.3,
	)
	if advice.Enter {
		t.Fatalf("expected rejection: %+v", advice)
	}
}

func TestTournamentEntryWorstCaseCap(t *testing.T) {
	m := NewManager()
	// Worst case 4e15 against a 2e15 cap (20% of 1e16).
	advice := m.RecommendTournamentEntry(
		10_000_000_000_000_000,
		1_000_000_000_000_000,
		1_000_000_000_000_000,
		2, 8, 0.9,
	)
	if advice.Enter {
		t.Fatalf("worst case over cap should block entry: %+v", advice)
	}
	if advice.WorstCasePct < 0.39 || advice.WorstCasePct > 0.41 {
		t.Fatalf("worst case pct: got %v want 0.4", advice.WorstCasePct)
	}
}
