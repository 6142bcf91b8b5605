package repository

import (
	"context"

	"ArenaFighter/internal/domain/models"
)

// ProfileStore hands out per-opponent statistical profiles. Get never
// fails: an unknown or unreadable opponent yields a fresh empty
// profile, because a decision must not be blocked by a storage fault.
type ProfileStore interface {
	Get(addr string) *models.OpponentProfile
	Save(addr string) error
	SaveAll() error
}

// ArenaStream is the session-layer connection: phase events in, signed
// actions out. Everything on-ledger (hashing, signing, confirmation)
// lives behind it.
type ArenaStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.ArenaEvent, <-chan error)
	SendMove(ctx context.Context, gameID string, d models.MoveDecision) error
	SendCardAction(ctx context.Context, gameID string, d models.CardDecision) error
	SendBid(ctx context.Context, gameID string, d models.BidDecision) error
	Challenge(ctx context.Context, opponent string, wagerWei uint64) error
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher emits settled-match events to the message backend.
type Publisher interface {
	Publish(ctx context.Context, e *models.MatchEvent) error
	PublishBatch(ctx context.Context, events []*models.MatchEvent) error
	Close() error
}

// Archive is long-term storage for settled-match events.
type Archive interface {
	Store(ctx context.Context, e *models.MatchEvent) error
	StoreBatch(ctx context.Context, events []*models.MatchEvent) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational counters; implemented by pkg/metrics.
type Metrics interface {
	RecordGame(game string, won bool)
	RecordDecision(strategy string)
	RecordWager(opponent string, wei float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
