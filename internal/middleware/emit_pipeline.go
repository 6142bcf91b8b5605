package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ArenaFighter/internal/domain/models"
	domrepo "ArenaFighter/internal/domain/repository"
)

// Emitter is the minimal downstream interface the pipeline needs.
type Emitter interface {
	Emit(ctx context.Context, e *models.MatchEvent) error
}

// EmitPipeline sits between settlement handling and the analytics
// backend. It validates events and buffers them when the backend is
// unavailable, flushing in the background with capped backoff, so a
// Kafka or ClickHouse outage never loses a settled match.
type EmitPipeline struct {
	emitter Emitter
	metrics domrepo.Metrics
	bufSize int
	bufCh   chan *models.MatchEvent
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*EmitPipeline)

// WithBufferSize sets the buffer size used while the backend is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *EmitPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewEmitPipeline creates a new pipeline.
func NewEmitPipeline(emitter Emitter, metrics domrepo.Metrics, opts ...PipelineOption) *EmitPipeline {
	p := &EmitPipeline{
		emitter: emitter,
		metrics: metrics,
		bufSize: 1000,
		bufCh:   make(chan *models.MatchEvent, 1000),
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.MatchEvent, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered events.
func (p *EmitPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case e := <-p.bufCh:
				if e == nil {
					continue
				}
				if err := p.emitter.Emit(ctx, e); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- e:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *EmitPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and forwards an event downstream, buffering on errors.
func (p *EmitPipeline) Process(ctx context.Context, e *models.MatchEvent) error {
	start := time.Now()
	if err := validateEvent(e); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}

	if err := p.emitter.Emit(ctx, e); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- e:
			p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateEvent(e *models.MatchEvent) error {
	if e == nil {
		return fmt.Errorf("event nil")
	}
	if e.Opponent == "" {
		return fmt.Errorf("opponent empty")
	}
	if e.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if !e.Game.Valid() {
		return fmt.Errorf("unknown game kind %q", e.Game)
	}
	return nil
}
