package usecase

import (
	"context"
	"fmt"
	"time"

	"ArenaFighter/internal/domain/models"
	drepo "ArenaFighter/internal/domain/repository"
	mid "ArenaFighter/internal/middleware"
)

// BackendEmitter routes match events to the configured analytics
// backend.
type BackendEmitter struct {
	pub     drepo.Publisher
	arch    drepo.Archive
	backend string
}

// NewBackendEmitter creates a backend router for match events.
func NewBackendEmitter(pub drepo.Publisher, arch drepo.Archive, backend string) *BackendEmitter {
	return &BackendEmitter{pub: pub, arch: arch, backend: backend}
}

func (b *BackendEmitter) Emit(ctx context.Context, e *models.MatchEvent) error {
	switch b.backend {
	case "kafka":
		return b.pub.Publish(ctx, e)
	case "clickhouse":
		return b.arch.Store(ctx, e)
	default:
		return fmt.Errorf("unknown backend: %s", b.backend)
	}
}

// EmitBatch routes a batch of match events.
func (b *BackendEmitter) EmitBatch(ctx context.Context, events []*models.MatchEvent) error {
	switch b.backend {
	case "kafka":
		return b.pub.PublishBatch(ctx, events)
	case "clickhouse":
		return b.arch.StoreBatch(ctx, events)
	default:
		return fmt.Errorf("unknown backend: %s", b.backend)
	}
}

// Close closes underlying resources if available.
func (b *BackendEmitter) Close() {
	if b.pub != nil {
		_ = b.pub.Close()
	}
	if b.arch != nil {
		_ = b.arch.Close()
	}
}

// ResultRecorder applies a settled game to the opponent's profile and
// emits the match event, through the buffering pipeline when one is
// wired.
type ResultRecorder struct {
	profiles drepo.ProfileStore
	emitter  *BackendEmitter
	pipe     *mid.EmitPipeline
	metrics  drepo.Metrics
}

// NewResultRecorder creates a new ResultRecorder instance.
func NewResultRecorder(
	profiles drepo.ProfileStore,
	emitter *BackendEmitter,
	pipe *mid.EmitPipeline,
	metrics drepo.Metrics,
) *ResultRecorder {
	return &ResultRecorder{
		profiles: profiles,
		emitter:  emitter,
		pipe:     pipe,
		metrics:  metrics,
	}
}

// Record folds one settlement into the opponent profile, persists it,
// and emits the match event. The profile write comes first: losing the
// analytics event is recoverable, losing model data is not.
func (r *ResultRecorder) Record(ctx context.Context, ev *models.ArenaEvent, strat models.Strategy) (*models.OpponentProfile, error) {
	if ev == nil {
		return nil, fmt.Errorf("settlement event is nil")
	}
	if ev.Opponent == "" {
		return nil, fmt.Errorf("settlement without opponent")
	}

	p := r.profiles.Get(ev.Opponent)
	p.Update(ev.Rounds, ev.Won, ev.MyScore, ev.OppScore)

	switch ev.Game {
	case models.GameCards:
		p.UpdatePokerStats(ev.HandsPlayed, ev.OppFolds, ev.OppExtraBets)
	case models.GameAuction:
		if ev.Won != nil {
			p.UpdateAuctionStats(ev.OppShadePct, *ev.Won)
		}
	}

	if err := r.profiles.Save(ev.Opponent); err != nil {
		r.metrics.RecordError("profile_save")
		return p, fmt.Errorf("save profile: %w", err)
	}

	if ev.Won == nil {
		return p, nil
	}
	r.metrics.RecordGame(string(ev.Game), *ev.Won)

	e := &models.MatchEvent{
		Timestamp: time.Now().Unix(),
		Opponent:  p.Addr,
		Game:      ev.Game,
		Won:       *ev.Won,
		MyScore:   ev.MyScore,
		OppScore:  ev.OppScore,
		WagerWei:  ev.WagerWei,
		Strategy:  strat,
	}

	start := time.Now()
	var err error
	if r.pipe != nil {
		err = r.pipe.Process(ctx, e)
	} else {
		err = r.emitter.Emit(ctx, e)
	}
	if err != nil {
		r.metrics.RecordError("record")
		return p, fmt.Errorf("emit match event: %w", err)
	}
	r.metrics.RecordLatency("emit", time.Since(start).Seconds())
	return p, nil
}

// Profiles exposes the profile store for decision paths that read the
// model before a settlement exists.
func (r *ResultRecorder) Profiles() drepo.ProfileStore { return r.profiles }

// Close closes underlying resources if available.
func (r *ResultRecorder) Close() {
	if r.pipe != nil {
		r.pipe.Stop()
	}
	if r.emitter != nil {
		r.emitter.Close()
	}
}
