package strategy

import (
	"testing"

	"ArenaFighter/internal/domain/models"
)

func TestChooseBidUnknownOpponent(t *testing.T) {
	e := testEngine()
	wager := uint64(1_000_000_000_000_000_000)
	for i := 0; i < 100; i++ {
		d := e.ChooseBid(nil, wager)
		if d.Fraction < 0.55*0.9 || d.Fraction > 0.55*1.1 {
			t.Fatalf("fraction %v outside jittered equilibrium band", d.Fraction)
		}
		if d.AmountWei == 0 || d.AmountWei > wager {
			t.Fatalf("amount %d out of range", d.AmountWei)
		}
	}
}

func TestChooseBidEdgesKnownShader(t *testing.T) {
	e := testEngine()
	p := models.NewOpponentProfile("opp")
	p.UpdateAuctionStats(0.80, true)
	p.UpdateAuctionStats(0.80, false)

	for i := 0; i < 100; i++ {
		d := e.ChooseBid(p, 1000)
		// 0.83 jittered down at most 10%.
		if d.Fraction < 0.83*0.9 || d.Fraction > 0.95 {
			t.Fatalf("fraction %v not edging the observed 0.80 shade", d.Fraction)
		}
		if d.Style != models.BidAggressive {
			t.Fatalf("expected aggressive style at fraction %v", d.Fraction)
		}
	}
}

func TestChooseBidFractionClamped(t *testing.T) {
	e := testEngine()
	p := models.NewOpponentProfile("opp")
	p.UpdateAuctionStats(0.99, true)

	for i := 0; i < 100; i++ {
		d := e.ChooseBid(p, 1000)
		if d.Fraction > 0.95 {
			t.Fatalf("fraction %v above clamp", d.Fraction)
		}
	}
}

func TestChooseBidTinyWagerFloorsAtOneWei(t *testing.T) {
	e := testEngine()
	d := e.ChooseBid(nil, 1)
	if d.AmountWei < 1 {
		t.Fatalf("amount below 1 wei floor")
	}
}
