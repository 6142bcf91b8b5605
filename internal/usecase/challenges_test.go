package usecase

import (
	"context"
	"testing"

	"ArenaFighter/internal/domain/models"
	"ArenaFighter/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordGame(string, bool)       {}
func (nopMetrics) RecordDecision(string)         {}
func (nopMetrics) RecordWager(string, float64)   {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

type fakeStream struct {
	challenges []ChallengeRequest
}

func (f *fakeStream) Connect(context.Context) error   { return nil }
func (f *fakeStream) Subscribe(context.Context) error { return nil }
func (f *fakeStream) Read(context.Context) (<-chan *models.ArenaEvent, <-chan error) {
	return nil, nil
}
func (f *fakeStream) SendMove(context.Context, string, models.MoveDecision) error       { return nil }
func (f *fakeStream) SendCardAction(context.Context, string, models.CardDecision) error { return nil }
func (f *fakeStream) SendBid(context.Context, string, models.BidDecision) error         { return nil }
func (f *fakeStream) Challenge(_ context.Context, opponent string, wagerWei uint64) error {
	f.challenges = append(f.challenges, ChallengeRequest{Opponent: opponent, WagerWei: wagerWei})
	return nil
}
func (f *fakeStream) Reconnect(context.Context) error { return nil }
func (f *fakeStream) Close() error                    { return nil }
func (f *fakeStream) IsConnected() bool               { return true }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestDirectDispatcherSendsChallenge(t *testing.T) {
	stream := &fakeStream{}
	d := NewDirectDispatcher(stream, nopMetrics{}, testLogger(t))

	req := ChallengeRequest{Opponent: "opp", WagerWei: 1000}
	if err := d.Dispatch(context.Background(), req); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(stream.challenges) != 1 || stream.challenges[0] != req {
		t.Fatalf("challenge not forwarded: %+v", stream.challenges)
	}
}

func TestDirectDispatcherRejectsEmptyOpponent(t *testing.T) {
	d := NewDirectDispatcher(&fakeStream{}, nopMetrics{}, testLogger(t))
	if err := d.Dispatch(context.Background(), ChallengeRequest{WagerWei: 1}); err == nil {
		t.Fatalf("expected error for empty opponent")
	}
}

func TestDirectDispatcherThrottlesPerOpponent(t *testing.T) {
	stream := &fakeStream{}
	d := NewDirectDispatcher(stream, nopMetrics{}, testLogger(t))

	for i := 0; i < 10; i++ {
		if err := d.Dispatch(context.Background(), ChallengeRequest{Opponent: "spam", WagerWei: 1}); err != nil {
			t.Fatalf("throttled dispatch must not error: %v", err)
		}
	}
	// Token bucket holds three challenges per opponent.
	if len(stream.challenges) != 3 {
		t.Fatalf("got %d challenges through, want 3", len(stream.challenges))
	}

	// A different opponent has its own bucket.
	if err := d.Dispatch(context.Background(), ChallengeRequest{Opponent: "other", WagerWei: 1}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(stream.challenges) != 4 {
		t.Fatalf("per-opponent buckets not independent")
	}
}
