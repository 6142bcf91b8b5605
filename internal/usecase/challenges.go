package usecase

import (
	"context"
	"fmt"

	drepo "ArenaFighter/internal/domain/repository"
	"ArenaFighter/internal/service/ratelimit"
	"ArenaFighter/pkg/logger"
	"ArenaFighter/pkg/queue"
)

// ChallengeRequest asks for a wagered challenge against one opponent.
type ChallengeRequest struct {
	Opponent string `json:"opponent"`
	WagerWei uint64 `json:"wager_wei"`
}

// ChallengeDispatcher issues challenge requests. The direct dispatcher
// sends them straight to the arena; the queue dispatcher defers them to
// a Redis-backed worker so bursts of leaderboard targets don't flood
// the gateway.
type ChallengeDispatcher interface {
	Dispatch(ctx context.Context, req ChallengeRequest) error
}

// challengeBurst and challengeRefill bound how fast we open challenges
// against a single opponent. Repeated challenges read as bot behavior
// and some gateways penalize them.
const (
	challengeBurst  = 3.0
	challengeRefill = 1.0 / 30.0
)

// DirectDispatcher sends challenges straight to the arena stream with
// a per-opponent token bucket in front.
type DirectDispatcher struct {
	stream  drepo.ArenaStream
	rl      *ratelimit.Limiter
	metrics drepo.Metrics
	log     *logger.Logger
}

// NewDirectDispatcher creates a rate-limited challenge dispatcher.
func NewDirectDispatcher(stream drepo.ArenaStream, metrics drepo.Metrics, log *logger.Logger) *DirectDispatcher {
	return &DirectDispatcher{stream: stream, rl: ratelimit.New(), metrics: metrics, log: log}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, req ChallengeRequest) error {
	if req.Opponent == "" {
		return fmt.Errorf("challenge without opponent")
	}
	if !d.rl.Allow("challenge:"+req.Opponent, challengeBurst, challengeRefill) {
		d.metrics.RecordError("challenge_throttle")
		d.log.Debug("challenge throttled", logger.String("opponent", req.Opponent))
		return nil
	}
	return d.stream.Challenge(ctx, req.Opponent, req.WagerWei)
}

// QueueDispatcher enqueues challenge requests to the Redis queue.
type QueueDispatcher struct {
	q queue.QueueService
}

// NewQueueDispatcher creates a queue-backed challenge dispatcher.
func NewQueueDispatcher(q queue.QueueService) *QueueDispatcher {
	return &QueueDispatcher{q: q}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, req ChallengeRequest) error {
	return d.q.PublishMessage(ctx, ChallengeMessageType, req)
}

// ChallengeMessageType is the queue message type for challenge requests.
const ChallengeMessageType = "challenge"

// ChallengeJob drains queued challenge requests and issues them through
// the direct dispatcher.
type ChallengeJob struct {
	direct *DirectDispatcher
}

// NewChallengeJob creates the queue job for challenge dispatch.
func NewChallengeJob(direct *DirectDispatcher) *ChallengeJob {
	return &ChallengeJob{direct: direct}
}

func (j *ChallengeJob) Name() string { return "challenge_dispatch" }

func (j *ChallengeJob) Type() string { return ChallengeMessageType }

func (j *ChallengeJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[ChallengeRequest](payload)
	if err != nil {
		return fmt.Errorf("challenge payload: %w", err)
	}
	return j.direct.Dispatch(ctx, *req)
}

var _ queue.Job = (*ChallengeJob)(nil)
