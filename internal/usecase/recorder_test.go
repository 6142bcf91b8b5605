package usecase

import (
	"context"
	"errors"
	"testing"

	"ArenaFighter/internal/domain/models"
	internalrepo "ArenaFighter/internal/repository"
)

type fakePublisher struct {
	events []*models.MatchEvent
	fail   bool
}

func (f *fakePublisher) Publish(_ context.Context, e *models.MatchEvent) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) PublishBatch(_ context.Context, events []*models.MatchEvent) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.events = append(f.events, events...)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func boolPtr(b bool) *bool { return &b }

func TestRecordUpdatesProfileAndEmits(t *testing.T) {
	profiles := internalrepo.NewFileProfileStore(t.TempDir(), nil)
	pub := &fakePublisher{}
	rec := NewResultRecorder(profiles, NewBackendEmitter(pub, nil, "kafka"), nil, nopMetrics{})

	ev := &models.ArenaEvent{
		Type:     models.EventGameSettled,
		Game:     models.GameSign,
		Opponent: "0xOPP",
		Rounds:   []models.RoundPair{{Mine: models.Rock, Theirs: models.Paper}},
		Won:      boolPtr(true),
		MyScore:  3,
		OppScore: 1,
		WagerWei: 1000,
	}
	p, err := rec.Record(context.Background(), ev, models.StrategyMarkov)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if p.TotalGames() != 1 {
		t.Fatalf("profile not updated")
	}
	if len(pub.events) != 1 {
		t.Fatalf("match event not published")
	}
	e := pub.events[0]
	if e.Opponent != "0xopp" || !e.Won || e.Strategy != models.StrategyMarkov || e.WagerWei != 1000 {
		t.Fatalf("unexpected match event %+v", e)
	}
}

func TestRecordCardGameFoldsPokerStats(t *testing.T) {
	profiles := internalrepo.NewFileProfileStore(t.TempDir(), nil)
	rec := NewResultRecorder(profiles, NewBackendEmitter(&fakePublisher{}, nil, "kafka"), nil, nopMetrics{})

	ev := &models.ArenaEvent{
		Type:        models.EventGameSettled,
		Game:        models.GameCards,
		Opponent:    "opp",
		Won:         boolPtr(false),
		HandsPlayed: 10,
		OppFolds:    2,
	}
	p, err := rec.Record(context.Background(), ev, models.StrategyRandom)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if p.PokerStats.HandsSeen != 10 || p.PokerStats.FoldCount != 2 {
		t.Fatalf("poker stats not folded in: %+v", p.PokerStats)
	}
}

func TestRecordUnsettledGameSkipsEmit(t *testing.T) {
	profiles := internalrepo.NewFileProfileStore(t.TempDir(), nil)
	pub := &fakePublisher{}
	rec := NewResultRecorder(profiles, NewBackendEmitter(pub, nil, "kafka"), nil, nopMetrics{})

	// No verdict yet: profile rounds update but nothing is emitted.
	ev := &models.ArenaEvent{
		Type:     models.EventGameSettled,
		Game:     models.GameSign,
		Opponent: "opp",
		Rounds:   []models.RoundPair{{Mine: models.Rock, Theirs: models.Rock}},
	}
	if _, err := rec.Record(context.Background(), ev, models.StrategyRandom); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("unsettled game must not emit")
	}
}

func TestRecordRejectsMissingOpponent(t *testing.T) {
	profiles := internalrepo.NewFileProfileStore(t.TempDir(), nil)
	rec := NewResultRecorder(profiles, NewBackendEmitter(&fakePublisher{}, nil, "kafka"), nil, nopMetrics{})

	if _, err := rec.Record(context.Background(), &models.ArenaEvent{Type: models.EventGameSettled}, models.StrategyRandom); err == nil {
		t.Fatalf("expected error without opponent")
	}
	if _, err := rec.Record(context.Background(), nil, models.StrategyRandom); err == nil {
		t.Fatalf("expected error on nil event")
	}
}

func TestBackendEmitterRoutes(t *testing.T) {
	pub := &fakePublisher{}
	e := &models.MatchEvent{Timestamp: 1, Opponent: "opp", Game: models.GameSign}

	if err := NewBackendEmitter(pub, nil, "kafka").Emit(context.Background(), e); err != nil {
		t.Fatalf("kafka route: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("event not routed to publisher")
	}

	if err := NewBackendEmitter(pub, nil, "postgres").Emit(context.Background(), e); err == nil {
		t.Fatalf("unknown backend must error")
	}
}
