package models

import (
	"encoding/json"
	"sync"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestMoveCounter(t *testing.T) {
	cases := []struct{ in, want Move }{
		{Rock, Paper},
		{Paper, Scissors},
		{Scissors, Rock},
	}
	for _, c := range cases {
		if got := c.in.Counter(); got != c.want {
			t.Fatalf("counter of %v: got %v want %v", c.in, got, c.want)
		}
	}
	// Invalid moves must not produce a valid counter.
	if got := Move(0).Counter(); got.Valid() {
		t.Fatalf("counter of invalid move is valid: %v", got)
	}
}

func TestJudge(t *testing.T) {
	if got := Judge(RoundPair{Mine: Rock, Theirs: Scissors}); got != OutcomeWin {
		t.Fatalf("expected win, got %v", got)
	}
	if got := Judge(RoundPair{Mine: Rock, Theirs: Paper}); got != OutcomeLoss {
		t.Fatalf("expected loss, got %v", got)
	}
	if got := Judge(RoundPair{Mine: Rock, Theirs: Rock}); got != OutcomeDraw {
		t.Fatalf("expected draw, got %v", got)
	}
}

func TestUpdateFiltersInvalidPairs(t *testing.T) {
	p := NewOpponentProfile("0xAbC")
	rounds := []RoundPair{
		{Mine: Rock, Theirs: Paper},
		{Mine: Move(42), Theirs: Paper}, // card hand leaking through
		{Mine: Rock, Theirs: Move(0)},
		{Mine: Scissors, Theirs: Paper},
	}
	p.Update(rounds, boolPtr(true), 3, 1)

	if p.Addr != "0xabc" {
		t.Fatalf("address not canonicalized: %q", p.Addr)
	}
	if got := p.MoveCounts[Paper]; got != 2 {
		t.Fatalf("paper count: got %d want 2", got)
	}
	if len(p.RoundHistory) != 2 {
		t.Fatalf("history length: got %d want 2", len(p.RoundHistory))
	}
	if p.TotalGames() != 1 {
		t.Fatalf("total games: got %d want 1", p.TotalGames())
	}
}

func TestUpdateChainsTransitionsAcrossGames(t *testing.T) {
	p := NewOpponentProfile("opp")
	p.Update([]RoundPair{{Mine: Rock, Theirs: Rock}, {Mine: Rock, Theirs: Paper}}, boolPtr(false), 1, 3)
	p.Update([]RoundPair{{Mine: Rock, Theirs: Scissors}}, boolPtr(true), 3, 0)

	if got := p.Transitions[Rock][Paper]; got != 1 {
		t.Fatalf("rock->paper: got %d want 1", got)
	}
	// Last move of game one chains into game two.
	if got := p.Transitions[Paper][Scissors]; got != 1 {
		t.Fatalf("paper->scissors across games: got %d want 1", got)
	}
}

func TestUpdateRecordsResultWithoutRounds(t *testing.T) {
	p := NewOpponentProfile("opp")
	p.Update(nil, boolPtr(true), 2, 1)
	if p.TotalGames() != 1 {
		t.Fatalf("expected result recorded with empty rounds")
	}
	last := p.LastResult()
	if last == nil || !last.Won {
		t.Fatalf("unexpected last result %+v", last)
	}
}

func TestStrategyAccuracy(t *testing.T) {
	p := NewOpponentProfile("opp")
	if got := p.StrategyAccuracy(StrategyMarkov); got != 0.5 {
		t.Fatalf("empty accuracy: got %v want 0.5", got)
	}
	p.RecordStrategyResult(StrategyMarkov, OutcomeWin)
	p.RecordStrategyResult(StrategyMarkov, OutcomeWin)
	p.RecordStrategyResult(StrategyMarkov, OutcomeLoss)
	p.RecordStrategyResult(StrategyMarkov, OutcomeDraw)
	// (2 + 0.5) / 4
	if got := p.StrategyAccuracy(StrategyMarkov); got != 0.625 {
		t.Fatalf("accuracy: got %v want 0.625", got)
	}
}

func TestPokerStatsDerived(t *testing.T) {
	p := NewOpponentProfile("opp")
	p.UpdatePokerStats(10, 4, 3)
	if p.PokerStats.FoldRate != 0.4 {
		t.Fatalf("fold rate: got %v want 0.4", p.PokerStats.FoldRate)
	}
	if p.PokerStats.Aggression != 0.3 {
		t.Fatalf("aggression: got %v want 0.3", p.PokerStats.Aggression)
	}
	p.UpdatePokerStats(10, 0, 1)
	if p.PokerStats.FoldRate != 0.2 {
		t.Fatalf("fold rate after second game: got %v want 0.2", p.PokerStats.FoldRate)
	}
	if p.PokerStats.GameCount != 2 {
		t.Fatalf("game count: got %d want 2", p.PokerStats.GameCount)
	}
}

func TestAuctionStatsAverage(t *testing.T) {
	p := NewOpponentProfile("opp")
	p.UpdateAuctionStats(0.5, true)
	p.UpdateAuctionStats(0.7, false)
	if p.AuctionStats.AvgShadePct != 0.6 {
		t.Fatalf("avg shade: got %v want 0.6", p.AuctionStats.AvgShadePct)
	}
}

func TestCooldowns(t *testing.T) {
	p := NewOpponentProfile("opp")
	p.SetCooldown(StrategyFrequency, 2)
	if !p.OnCooldown(StrategyFrequency) {
		t.Fatalf("expected cooldown active")
	}
	p.TickCooldowns()
	if !p.OnCooldown(StrategyFrequency) {
		t.Fatalf("cooldown expired one tick early")
	}
	p.TickCooldowns()
	if p.OnCooldown(StrategyFrequency) {
		t.Fatalf("cooldown should have expired")
	}
}

func TestProfileJSONRoundTrip(t *testing.T) {
	p := NewOpponentProfile("0xDEF")
	p.Update([]RoundPair{{Mine: Rock, Theirs: Paper}}, boolPtr(false), 0, 3)
	p.RecordStrategyResult(StrategySequence, OutcomeWin)
	p.UpdatePokerStats(5, 1, 2)

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got OpponentProfile
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got.Normalize()

	if got.Addr != "0xdef" {
		t.Fatalf("addr: got %q", got.Addr)
	}
	if got.MoveCounts[Paper] != 1 {
		t.Fatalf("move counts lost on round trip")
	}
	if got.StrategyPerformance[StrategySequence].Wins != 1 {
		t.Fatalf("strategy record lost on round trip")
	}
	if got.PokerStats.HandsSeen != 5 {
		t.Fatalf("poker stats lost on round trip")
	}
}

func TestNormalizeOldDocument(t *testing.T) {
	var p OpponentProfile
	if err := json.Unmarshal([]byte(`{"addr":"OPP"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p.Normalize()
	if p.SchemaVersion != ProfileSchemaVersion {
		t.Fatalf("schema version not defaulted")
	}
	if p.MoveCounts == nil || p.Transitions == nil || p.StrategyPerformance == nil || p.StrategyCooldowns == nil {
		t.Fatalf("nil maps survived Normalize")
	}
	// Must be usable immediately.
	p.Update([]RoundPair{{Mine: Rock, Theirs: Rock}}, nil, 0, 0)
	if p.MoveCounts[Rock] != 1 {
		t.Fatalf("profile unusable after Normalize")
	}
}

func TestProfileConcurrentUpdateAndRead(t *testing.T) {
	p := NewOpponentProfile("opp")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			p.Update([]RoundPair{{Mine: Rock, Theirs: Paper}}, boolPtr(true), 3, 1)
			p.UpdatePokerStats(3, 1, 2)
			p.UpdateAuctionStats(0.4, true)
			p.RecordStrategyResult(StrategyMarkov, OutcomeWin)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = p.WinRate()
			_ = p.TotalGames()
			_ = p.StrategyAccuracy(StrategyMarkov)
			_ = p.AllRounds()
			_ = p.PokerSnapshot()
			_ = p.AuctionSnapshot()
			if last := p.LastResult(); last != nil && !last.Won {
				t.Error("only wins were recorded")
			}
			if _, err := p.EncodeJSON(); err != nil {
				t.Errorf("encode: %v", err)
			}
		}
	}()
	wg.Wait()

	if p.TotalGames() != 500 {
		t.Fatalf("got %d results want 500", p.TotalGames())
	}
	if got := p.PokerSnapshot(); got.HandsSeen != 1500 {
		t.Fatalf("hands seen: got %d want 1500", got.HandsSeen)
	}
}

func TestParseMove(t *testing.T) {
	cases := []struct {
		in   string
		want Move
	}{
		{"rock", Rock},
		{"Paper", Paper},
		{"SCISSORS", Scissors},
		{"lizard", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := ParseMove(c.in); got != c.want {
			t.Fatalf("ParseMove(%q): got %v want %v", c.in, got, c.want)
		}
	}
}
