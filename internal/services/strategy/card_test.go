package strategy

import (
	"testing"

	"ArenaFighter/internal/domain/models"
)

func TestOpenStrongHandBets(t *testing.T) {
	e := testEngine()
	d := e.ChooseCardAction(nil, CardContext{
		HandValue: 90,
		WagerWei:  100_000_000_000_000_000,
	})
	if d.Action != models.ActBet {
		t.Fatalf("expected bet, got %v", d.Action)
	}
	if d.AmountWei != 50_000_000_000_000_000 {
		t.Fatalf("amount: got %d want half the wager", d.AmountWei)
	}
	if d.Confidence != 0.85 {
		t.Fatalf("confidence: got %v want 0.85", d.Confidence)
	}
}

func TestFacingBetStrongHandRaises(t *testing.T) {
	e := testEngine()
	d := e.ChooseCardAction(nil, CardContext{
		HandValue:     95,
		CurrentBetWei: 10_000_000_000_000_000,
		PotWei:        20_000_000_000_000_000,
		WagerWei:      100_000_000_000_000_000,
	})
	if d.Action != models.ActRaise {
		t.Fatalf("expected raise, got %v", d.Action)
	}
	if d.AmountWei != 20_000_000_000_000_000 {
		t.Fatalf("amount: got %d want double the bet", d.AmountWei)
	}
}

func TestFacingBetRaiseCappedAtTwiceWager(t *testing.T) {
	e := testEngine()
	d := e.ChooseCardAction(nil, CardContext{
		HandValue:     95,
		CurrentBetWei: 300,
		PotWei:        600,
		WagerWei:      100,
	})
	if d.Action != models.ActRaise {
		t.Fatalf("expected raise, got %v", d.Action)
	}
	if d.AmountWei != 200 {
		t.Fatalf("amount: got %d want raise cap 200", d.AmountWei)
	}
}

func TestFacingBetMidHandCallsOnPotOdds(t *testing.T) {
	e := testEngine()
	d := e.ChooseCardAction(nil, CardContext{
		HandValue:     50,
		CurrentBetWei: 10_000_000_000_000_000,
		PotWei:        90_000_000_000_000_000,
		WagerWei:      100_000_000_000_000_000,
	})
	// Pot odds 0.1 against hand strength 0.5.
	if d.Action != models.ActCall {
		t.Fatalf("expected call, got %v", d.Action)
	}
	if d.AmountWei != 10_000_000_000_000_000 {
		t.Fatalf("amount: got %d want the bet", d.AmountWei)
	}
}

func TestFacingBetMidHandFoldsOnBadOdds(t *testing.T) {
	e := testEngine()
	d := e.ChooseCardAction(nil, CardContext{
		HandValue:     35,
		CurrentBetWei: 80,
		PotWei:        20,
		WagerWei:      100,
	})
	// Pot odds 0.8 against hand strength 0.35.
	if d.Action != models.ActFold {
		t.Fatalf("expected fold, got %v", d.Action)
	}
}

func TestAggressiveOpponentGetsBiggerValueBets(t *testing.T) {
	e := testEngine()
	p := models.NewOpponentProfile("opp")
	p.UpdatePokerStats(10, 1, 5) // aggression 0.5, fold rate 0.1

	d := e.ChooseCardAction(p, CardContext{HandValue: 90, WagerWei: 1000})
	if d.Action != models.ActBet {
		t.Fatalf("expected bet, got %v", d.Action)
	}
	// 50% of wager scaled by 13/10.
	if d.AmountWei != 650 {
		t.Fatalf("amount: got %d want 650", d.AmountWei)
	}
}

func TestPickHandValueRespectsBudget(t *testing.T) {
	e := testEngine()
	// Three rounds left on a budget of three: must commit exactly 1.
	if v := e.PickHandValue(3, 3, 0, 0); v != 1 {
		t.Fatalf("got %d want 1", v)
	}
	for i := 0; i < 50; i++ {
		v := e.PickHandValue(200, 2, 0, 0)
		if v < 1 || v > 100 {
			t.Fatalf("hand value %d out of range", v)
		}
	}
}

func TestPickHandValuePressesWhenBehind(t *testing.T) {
	e := testEngine()
	behindTotal, aheadTotal := 0, 0
	for i := 0; i < 200; i++ {
		behindTotal += e.PickHandValue(100, 5, 0, 3)
		aheadTotal += e.PickHandValue(100, 5, 3, 0)
	}
	if behindTotal <= aheadTotal {
		t.Fatalf("expected bigger commitments when behind: behind=%d ahead=%d", behindTotal, aheadTotal)
	}
}
