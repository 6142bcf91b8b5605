package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ArenaFighter/internal/domain/models"
)

type nopMetrics struct{}

func (nopMetrics) RecordGame(string, bool)       {}
func (nopMetrics) RecordDecision(string)         {}
func (nopMetrics) RecordWager(string, float64)   {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

type fakeEmitter struct {
	mu     sync.Mutex
	fail   bool
	events []*models.MatchEvent
}

func (f *fakeEmitter) Emit(_ context.Context, e *models.MatchEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backend down")
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEmitter) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *fakeEmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func validMatchEvent() *models.MatchEvent {
	return &models.MatchEvent{
		Timestamp: time.Now().Unix(),
		Opponent:  "opp",
		Game:      models.GameSign,
		Won:       true,
	}
}

func TestPipelineForwardsValidEvents(t *testing.T) {
	em := &fakeEmitter{}
	p := NewEmitPipeline(em, nopMetrics{})
	if err := p.Process(context.Background(), validMatchEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if em.count() != 1 {
		t.Fatalf("event not forwarded")
	}
}

func TestPipelineRejectsInvalidEvents(t *testing.T) {
	em := &fakeEmitter{}
	p := NewEmitPipeline(em, nopMetrics{})

	cases := []*models.MatchEvent{
		nil,
		{Timestamp: time.Now().Unix(), Game: models.GameSign},             // no opponent
		{Opponent: "opp", Game: models.GameSign},                          // no timestamp
		{Timestamp: time.Now().Unix(), Opponent: "opp", Game: "roulette"}, // unknown game
	}
	for i, e := range cases {
		if err := p.Process(context.Background(), e); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if em.count() != 0 {
		t.Fatalf("invalid event reached the backend")
	}
}

func TestPipelineBuffersAndFlushesOnRecovery(t *testing.T) {
	em := &fakeEmitter{fail: true}
	p := NewEmitPipeline(em, nopMetrics{}, WithBufferSize(10))
	p.Start(context.Background())
	defer p.Stop()

	if err := p.Process(context.Background(), validMatchEvent()); err == nil {
		t.Fatalf("expected downstream error while backend is down")
	}

	em.setFail(false)
	deadline := time.Now().Add(2 * time.Second)
	for em.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("buffered event never flushed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPipelineStopIsIdempotentBeforeStart(t *testing.T) {
	p := NewEmitPipeline(&fakeEmitter{}, nopMetrics{})
	p.Stop() // never started; must not panic
}
