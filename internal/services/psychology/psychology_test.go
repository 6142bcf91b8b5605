package psychology

import (
	"math/rand"
	"testing"
	"time"

	"ArenaFighter/internal/domain/models"
)

func boolPtr(b bool) *bool { return &b }

func testModule() *Module {
	return New(Config{}, rand.New(rand.NewSource(1)))
}

func TestShouldSeedWindow(t *testing.T) {
	m := testModule()
	// 10 rounds at 0.35: rounds 0-2 seed, 3 onwards don't.
	for round := 0; round < 3; round++ {
		if !m.ShouldSeed(round, 10) {
			t.Fatalf("round %d should seed", round)
		}
	}
	if m.ShouldSeed(3, 10) {
		t.Fatalf("round 3 should not seed")
	}
}

func TestShouldSeedShortGames(t *testing.T) {
	m := testModule()
	if m.ShouldSeed(0, 2) {
		t.Fatalf("two-round game should never seed")
	}
	// Three rounds still get one seeded round.
	if !m.ShouldSeed(0, 3) {
		t.Fatalf("first round of a three-round game should seed")
	}
	if m.ShouldSeed(1, 3) {
		t.Fatalf("second round of a three-round game should not seed")
	}
}

func TestExploitMoveRationalAssumption(t *testing.T) {
	m := testModule()
	// No data: assume they counter the rock seed with paper, so play
	// scissors.
	if got := m.ExploitMove(nil); got != models.Scissors {
		t.Fatalf("got %v want scissors", got)
	}
}

func TestExploitMoveUsesObservedResponses(t *testing.T) {
	m := testModule()
	p := models.NewOpponentProfile("opp")
	// They answer our rock with scissors twice: counter with rock.
	p.Update([]models.RoundPair{
		{Mine: models.Rock, Theirs: models.Scissors},
		{Mine: models.Rock, Theirs: models.Scissors},
	}, nil, 0, 0)
	if got := m.ExploitMove(p); got != models.Rock {
		t.Fatalf("got %v want rock", got)
	}
}

func TestTiltChallengeAfterWin(t *testing.T) {
	m := testModule()
	p := models.NewOpponentProfile("opp")
	p.Update(nil, boolPtr(true), 3, 0)
	p.Update(nil, boolPtr(false), 1, 3)
	p.Update(nil, boolPtr(true), 3, 1)
	p.Update(nil, boolPtr(true), 3, 2)

	advice := m.TiltChallenge(p, 1_000_000_000_000_000_000)
	if !advice.Recommend {
		t.Fatalf("expected re-challenge: %+v", advice)
	}
	// 75% win rate pushes the stake to the 10% bankroll cap.
	if advice.WagerWei != 100_000_000_000_000_000 {
		t.Fatalf("stake: got %d want 1e17", advice.WagerWei)
	}
}

func TestTiltChallengeSuppressedAfterLoss(t *testing.T) {
	m := testModule()
	p := models.NewOpponentProfile("opp")
	p.Update(nil, boolPtr(true), 3, 0)
	p.Update(nil, boolPtr(false), 0, 3)

	if advice := m.TiltChallenge(p, 1_000_000_000_000_000_000); advice.Recommend {
		t.Fatalf("last match was a loss, no tilt play: %+v", advice)
	}
}

func TestTiltChallengeSuppressedWithoutEdge(t *testing.T) {
	m := testModule()
	p := models.NewOpponentProfile("opp")
	p.Update(nil, boolPtr(false), 0, 3)
	p.Update(nil, boolPtr(true), 3, 0)

	if advice := m.TiltChallenge(p, 1_000_000_000_000_000_000); advice.Recommend {
		t.Fatalf("50%% win rate is no edge: %+v", advice)
	}
}

func TestTiltChallengeSuppressedWhenStakeNegligible(t *testing.T) {
	m := testModule()
	p := models.NewOpponentProfile("opp")
	p.Update(nil, boolPtr(true), 3, 0)
	p.Update(nil, boolPtr(true), 3, 1)

	// A tiny bankroll produces a stake below the minimum worth gas.
	if advice := m.TiltChallenge(p, 1_000_000_000); advice.Recommend {
		t.Fatalf("negligible stake should not fire: %+v", advice)
	}
}

func TestWeakTargetsRanking(t *testing.T) {
	m := testModule()
	agents := []models.AgentRating{
		{Addr: "a", Elo: 1480}, // gap 20, too close
		{Addr: "b", Elo: 1400}, // gap 100
		{Addr: "c", Elo: 1300}, // gap 200
		{Addr: "d", Elo: 1600}, // above us
	}
	targets := m.WeakTargets(agents, 1500)
	if len(targets) != 2 {
		t.Fatalf("got %d targets want 2", len(targets))
	}
	if targets[0].Addr != "c" || targets[1].Addr != "b" {
		t.Fatalf("ranking wrong: %+v", targets)
	}
	if targets[0].Gap != 200 {
		t.Fatalf("gap: got %d want 200", targets[0].Gap)
	}
}

func TestCommitDelayEscalates(t *testing.T) {
	m := testModule()
	st := GameState{Mode: TimingEscalating, picked: true}
	d0 := m.CommitDelay(&st, 0)
	d3 := m.CommitDelay(&st, 3)
	if d3 != d0+3*700*time.Millisecond {
		t.Fatalf("escalation: round0=%v round3=%v", d0, d3)
	}
}

func TestCommitDelayModeSticksForGame(t *testing.T) {
	m := testModule()
	var st GameState
	m.CommitDelay(&st, 0)
	mode := st.Mode
	for round := 1; round < 10; round++ {
		m.CommitDelay(&st, round)
		if st.Mode != mode {
			t.Fatalf("timing mode changed mid-game")
		}
	}
}

func TestCommitDelayBounded(t *testing.T) {
	m := testModule()
	for i := 0; i < 100; i++ {
		var st GameState
		d := m.CommitDelay(&st, 2)
		if d <= 0 {
			t.Fatalf("non-positive delay %v in mode %v", d, st.Mode)
		}
		if st.Mode != TimingEscalating && d > 8*time.Second {
			t.Fatalf("delay %v too long for mode %v", d, st.Mode)
		}
	}
}
