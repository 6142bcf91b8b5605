package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"ArenaFighter/internal/domain/models"
	drepo "ArenaFighter/internal/domain/repository"
	internalrepo "ArenaFighter/internal/repository"
	"ArenaFighter/internal/services/bankroll"
	"ArenaFighter/internal/services/psychology"
	"ArenaFighter/internal/services/strategy"
)

func testFighter(t *testing.T, stream drepo.ArenaStream) *Fighter {
	t.Helper()
	log := testLogger(t)
	rng := rand.New(rand.NewSource(1))
	profiles := internalrepo.NewFileProfileStore(t.TempDir(), nil)
	rec := NewResultRecorder(profiles, NewBackendEmitter(&fakePublisher{}, nil, "kafka"), nil, nopMetrics{})
	disp := NewDirectDispatcher(stream, nopMetrics{}, log)
	return NewFighter(
		stream,
		strategy.New(rng),
		bankroll.NewManager(),
		psychology.New(psychology.Config{}, rng),
		rec,
		disp,
		nopMetrics{},
		log,
	)
}

func TestLeaderboardChallengesWeakestTarget(t *testing.T) {
	stream := &fakeStream{}
	f := testFighter(t, stream)

	ev := &models.ArenaEvent{
		Type: models.EventLeaderboard,
		Agents: []models.AgentRating{
			{Addr: "close", Elo: 1490},
			{Addr: "weak", Elo: 1200},
			{Addr: "weaker-ish", Elo: 1400},
		},
		OurElo:      1500,
		BalanceWei:  1_000_000_000_000_000_000,
		MinWagerWei: 1_000_000_000_000_000,
		MaxWagerWei: 100_000_000_000_000_000,
	}
	if err := f.handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	targets := f.Targets()
	if len(targets) != 2 {
		t.Fatalf("got %d targets want 2", len(targets))
	}
	if targets[0].Addr != "weak" {
		t.Fatalf("weakest first: got %+v", targets)
	}

	if len(stream.challenges) != 1 {
		t.Fatalf("expected one challenge, got %d", len(stream.challenges))
	}
	if stream.challenges[0].Opponent != "weak" {
		t.Fatalf("challenged %q, want the weakest", stream.challenges[0].Opponent)
	}
	// Unknown opponent means no edge: wager is the contract minimum.
	if stream.challenges[0].WagerWei != ev.MinWagerWei {
		t.Fatalf("wager: got %d want the minimum", stream.challenges[0].WagerWei)
	}
}

func TestLeaderboardWithoutTargetsIsQuiet(t *testing.T) {
	stream := &fakeStream{}
	f := testFighter(t, stream)

	ev := &models.ArenaEvent{
		Type:       models.EventLeaderboard,
		Agents:     []models.AgentRating{{Addr: "strong", Elo: 1600}},
		OurElo:     1500,
		BalanceWei: 1_000_000_000_000_000_000,
	}
	if err := f.handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(stream.challenges) != 0 {
		t.Fatalf("no weak targets, no challenge")
	}
}

func TestScoreCompletedRounds(t *testing.T) {
	f := testFighter(t, &fakeStream{})
	p := models.NewOpponentProfile("opp")
	st := &gameState{pending: &models.MoveDecision{Strategy: models.StrategyMarkov}}

	rounds := []models.RoundPair{
		{Mine: models.Rock, Theirs: models.Scissors}, // win
		{Mine: models.Rock, Theirs: models.Paper},    // loss
	}
	f.scoreCompletedRounds(st, p, rounds)

	rec := p.StrategyPerformance[models.StrategyMarkov]
	if rec == nil || rec.Wins != 1 || rec.Losses != 1 {
		t.Fatalf("strategy ledger wrong: %+v", rec)
	}
	if st.scored != 2 || st.pending != nil {
		t.Fatalf("game state not advanced: %+v", st)
	}
}

func TestScoreCompletedRoundsNoPending(t *testing.T) {
	f := testFighter(t, &fakeStream{})
	p := models.NewOpponentProfile("opp")
	st := &gameState{}

	f.scoreCompletedRounds(st, p, []models.RoundPair{{Mine: models.Rock, Theirs: models.Paper}})
	if len(p.StrategyPerformance) != 0 {
		t.Fatalf("nothing pending, nothing to score")
	}
	if st.scored != 1 {
		t.Fatalf("scored cursor must still advance")
	}
}

// flakyStream refuses the first failures reconnect attempts before
// letting the stream come back.
type flakyStream struct {
	fakeStream
	evCh  chan *models.ArenaEvent
	errCh chan error

	mu       sync.Mutex
	failures int
	attempts int
}

func (s *flakyStream) Read(context.Context) (<-chan *models.ArenaEvent, <-chan error) {
	return s.evCh, s.errCh
}

func (s *flakyStream) Reconnect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.attempts <= s.failures {
		return errors.New("gateway unavailable")
	}
	return nil
}

func (s *flakyStream) reconnects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func TestConsumeRetriesFailedReconnect(t *testing.T) {
	stream := &flakyStream{
		evCh:     make(chan *models.ArenaEvent, 1),
		errCh:    make(chan error, 1),
		failures: 2,
	}
	f := testFighter(t, stream)
	f.reconnectWait = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.consume(ctx, stream.evCh, stream.errCh)

	stream.errCh <- errors.New("read: connection reset")

	deadline := time.Now().Add(2 * time.Second)
	for stream.reconnects() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("reconnect attempts stalled at %d, want 3", stream.reconnects())
		}
		time.Sleep(time.Millisecond)
	}

	// The loop must drain events again once the stream is back.
	stream.evCh <- &models.ArenaEvent{
		Type:   models.EventLeaderboard,
		Agents: []models.AgentRating{{Addr: "weak", Elo: 1200}},
		OurElo: 1500,
	}
	for len(f.Targets()) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("event not consumed after reconnect")
		}
		time.Sleep(time.Millisecond)
	}
}
