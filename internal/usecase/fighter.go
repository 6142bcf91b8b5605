package usecase

import (
	"context"
	"sync"
	"time"

	"ArenaFighter/internal/domain/models"
	drepo "ArenaFighter/internal/domain/repository"
	"ArenaFighter/internal/services/bankroll"
	"ArenaFighter/internal/services/psychology"
	"ArenaFighter/internal/services/strategy"
	"ArenaFighter/pkg/logger"
)

// deadlineMargin is shaved off the gateway deadline so a delayed commit
// still lands on-ledger in time.
const deadlineMargin = 200 * time.Millisecond

// reconnectWaitCap bounds the exponential backoff between reconnect
// attempts while the gateway stays down.
const reconnectWaitCap = 30 * time.Second

// gameState is the fighter's per-game working memory: the timing
// persona picked for this game, the last move decision awaiting a
// verdict, and how many completed rounds we have already scored.
type gameState struct {
	timing  psychology.GameState
	pending *models.MoveDecision
	scored  int
}

// Fighter reads phase events from the arena stream and answers each
// with a decision. It is the only writer of game state; events for one
// connection arrive in order, so no locking beyond the games map.
type Fighter struct {
	stream  drepo.ArenaStream
	strat   *strategy.Engine
	bank    *bankroll.Manager
	psy     *psychology.Module
	rec     *ResultRecorder
	disp    ChallengeDispatcher
	metrics drepo.Metrics
	log     *logger.Logger

	reconnectWait time.Duration

	mu    sync.Mutex
	games map[string]*gameState

	targetsMu sync.RWMutex
	targets   []psychology.Target
}

// NewFighter creates a new Fighter instance.
func NewFighter(
	stream drepo.ArenaStream,
	strat *strategy.Engine,
	bank *bankroll.Manager,
	psy *psychology.Module,
	rec *ResultRecorder,
	disp ChallengeDispatcher,
	metrics drepo.Metrics,
	log *logger.Logger,
) *Fighter {
	return &Fighter{
		stream:        stream,
		strat:         strat,
		bank:          bank,
		psy:           psy,
		rec:           rec,
		disp:          disp,
		metrics:       metrics,
		log:           log,
		reconnectWait: time.Second,
		games:         make(map[string]*gameState),
	}
}

// IsConnected returns true if the arena stream is connected.
func (f *Fighter) IsConnected() bool {
	return f.stream.IsConnected()
}

// Start connects, subscribes, and launches the event loop.
func (f *Fighter) Start(ctx context.Context) error {
	if err := f.stream.Connect(ctx); err != nil {
		return err
	}
	if err := f.stream.Subscribe(ctx); err != nil {
		return err
	}
	evCh, errCh := f.stream.Read(ctx)
	go f.consume(ctx, evCh, errCh)
	return nil
}

func (f *Fighter) consume(ctx context.Context, evCh <-chan *models.ArenaEvent, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				f.metrics.RecordError("stream")
				f.log.Warn("arena stream error, reconnecting", logger.Error(err))
				evCh, errCh = f.reconnect(ctx)
			}
		case ev := <-evCh:
			if ev == nil {
				continue
			}
			if err := f.handle(ctx, ev); err != nil {
				f.metrics.RecordError("handle")
				f.log.Warn("event handling failed",
					logger.String("type", string(ev.Type)),
					logger.String("game_id", ev.GameID),
					logger.Error(err))
			}
		}
	}
}

// reconnect re-establishes the stream, retrying with exponential
// backoff until it succeeds. A cancelled context returns nil channels;
// the event loop then parks on ctx.Done.
func (f *Fighter) reconnect(ctx context.Context) (<-chan *models.ArenaEvent, <-chan error) {
	wait := f.reconnectWait
	for {
		err := f.stream.Reconnect(ctx)
		if err == nil {
			return f.stream.Read(ctx)
		}
		f.metrics.RecordError("reconnect")
		f.log.Warn("reconnect failed",
			logger.Error(err),
			logger.Duration("retry_in", wait))

		select {
		case <-ctx.Done():
			return nil, nil
		case <-time.After(wait):
		}
		if wait < reconnectWaitCap {
			wait *= 2
		}
	}
}

func (f *Fighter) handle(ctx context.Context, ev *models.ArenaEvent) error {
	switch ev.Type {
	case models.EventChallengeOpen:
		return f.onChallengeOpen(ctx, ev)
	case models.EventRoundStart:
		return f.onRoundStart(ctx, ev)
	case models.EventCardStreet:
		return f.onCardStreet(ctx, ev)
	case models.EventAuctionOpen:
		return f.onAuctionOpen(ctx, ev)
	case models.EventGameSettled:
		return f.onGameSettled(ctx, ev)
	case models.EventLeaderboard:
		return f.onLeaderboard(ctx, ev)
	default:
		return nil
	}
}

// onChallengeOpen sizes a wager for the challenging opponent and
// accepts by counter-committing it.
func (f *Fighter) onChallengeOpen(ctx context.Context, ev *models.ArenaEvent) error {
	p := f.rec.Profiles().Get(ev.Opponent)
	winProb := f.bank.EstimateWinProb(p)
	wager := f.bank.RecommendWager(ev.BalanceWei, winProb, ev.MinWagerWei, ev.MaxWagerWei)

	f.metrics.RecordWager(p.Addr, float64(wager))
	f.log.Info("accepting challenge",
		logger.String("opponent", p.Addr),
		logger.Uint64("wager_wei", wager),
		logger.Float64("win_prob", winProb))
	return f.disp.Dispatch(ctx, ChallengeRequest{Opponent: ev.Opponent, WagerWei: wager})
}

// onRoundStart scores the previous round's prediction, picks the next
// move, and commits it after the timing persona's delay.
func (f *Fighter) onRoundStart(ctx context.Context, ev *models.ArenaEvent) error {
	st := f.state(ev.GameID)
	p := f.rec.Profiles().Get(ev.Opponent)

	f.scoreCompletedRounds(st, p, ev.Rounds)

	var d models.MoveDecision
	switch {
	case f.psy.ShouldSeed(ev.Round, ev.TotalRounds):
		d = models.MoveDecision{
			Move:       f.psy.SeedMove(),
			Strategy:   models.StrategySeed,
			Confidence: 1,
		}
	case ev.Round > 0 && f.psy.ShouldSeed(ev.Round-1, ev.TotalRounds):
		// First round after the seed window: cash in on whatever the
		// opponent learned from the pattern.
		d = models.MoveDecision{
			Move:       f.psy.ExploitMove(p),
			Strategy:   models.StrategyExploit,
			Confidence: 1,
		}
	default:
		d = f.strat.ChooseMove(p, ev.Rounds)
	}

	st.pending = &d
	f.metrics.RecordDecision(string(d.Strategy))

	f.wait(ctx, f.psy.CommitDelay(&st.timing, ev.Round), ev.Deadline)
	return f.stream.SendMove(ctx, ev.GameID, d)
}

// scoreCompletedRounds settles the accuracy ledger for predictions
// whose rounds have since resolved.
func (f *Fighter) scoreCompletedRounds(st *gameState, p *models.OpponentProfile, rounds []models.RoundPair) {
	if st.pending == nil {
		st.scored = len(rounds)
		return
	}
	for _, pair := range rounds[st.scored:] {
		if !pair.Valid() {
			continue
		}
		p.RecordStrategyResult(st.pending.Strategy, models.Judge(pair))
	}
	st.scored = len(rounds)
	st.pending = nil
}

func (f *Fighter) onCardStreet(ctx context.Context, ev *models.ArenaEvent) error {
	st := f.state(ev.GameID)
	p := f.rec.Profiles().Get(ev.Opponent)

	hand := ev.HandValue
	if hand == 0 {
		hand = f.strat.PickHandValue(ev.RemainingBudget, ev.RoundsRemaining, ev.MyScore, ev.OppScore)
	}

	d := f.strat.ChooseCardAction(p, strategy.CardContext{
		HandValue:     hand,
		CurrentBetWei: ev.CurrentBetWei,
		PotWei:        ev.PotWei,
		WagerWei:      ev.WagerWei,
	})
	f.metrics.RecordDecision("card_" + d.Action.String())

	f.wait(ctx, f.psy.CommitDelay(&st.timing, ev.Round), ev.Deadline)
	return f.stream.SendCardAction(ctx, ev.GameID, d)
}

func (f *Fighter) onAuctionOpen(ctx context.Context, ev *models.ArenaEvent) error {
	st := f.state(ev.GameID)
	p := f.rec.Profiles().Get(ev.Opponent)

	d := f.strat.ChooseBid(p, ev.WagerWei)
	f.metrics.RecordDecision("bid_" + string(d.Style))

	f.wait(ctx, f.psy.CommitDelay(&st.timing, ev.Round), ev.Deadline)
	return f.stream.SendBid(ctx, ev.GameID, d)
}

// onGameSettled records the result and, after a win, weighs an
// immediate re-challenge against the loser at raised stakes.
func (f *Fighter) onGameSettled(ctx context.Context, ev *models.ArenaEvent) error {
	st := f.state(ev.GameID)
	strat := models.StrategyFrequency
	if st.pending != nil {
		strat = st.pending.Strategy
	}

	p, err := f.rec.Record(ctx, ev, strat)

	f.mu.Lock()
	delete(f.games, ev.GameID)
	f.mu.Unlock()

	if err != nil {
		return err
	}

	advice := f.psy.TiltChallenge(p, ev.BalanceWei)
	if !advice.Recommend {
		return nil
	}
	f.metrics.RecordWager(p.Addr, float64(advice.WagerWei))
	f.log.Info("tilt re-challenge",
		logger.String("opponent", p.Addr),
		logger.Uint64("wager_wei", advice.WagerWei),
		logger.String("reason", advice.Reason))
	return f.disp.Dispatch(ctx, ChallengeRequest{Opponent: ev.Opponent, WagerWei: advice.WagerWei})
}

// onLeaderboard picks the weakest rated opponent below our elo and
// opens a wager-sized challenge.
func (f *Fighter) onLeaderboard(ctx context.Context, ev *models.ArenaEvent) error {
	targets := f.psy.WeakTargets(ev.Agents, ev.OurElo)

	f.targetsMu.Lock()
	f.targets = targets
	f.targetsMu.Unlock()

	if len(targets) == 0 || ev.BalanceWei == 0 {
		return nil
	}

	t := targets[0]
	p := f.rec.Profiles().Get(t.Addr)
	wager := f.bank.RecommendWager(ev.BalanceWei, f.bank.EstimateWinProb(p), ev.MinWagerWei, ev.MaxWagerWei)

	f.metrics.RecordWager(t.Addr, float64(wager))
	f.log.Info("challenging weak target",
		logger.String("opponent", t.Addr),
		logger.Int("elo_gap", t.Gap),
		logger.Uint64("wager_wei", wager))
	return f.disp.Dispatch(ctx, ChallengeRequest{Opponent: t.Addr, WagerWei: wager})
}

// Targets returns the weak-opponent ranking from the latest
// leaderboard snapshot.
func (f *Fighter) Targets() []psychology.Target {
	f.targetsMu.RLock()
	defer f.targetsMu.RUnlock()
	out := make([]psychology.Target, len(f.targets))
	copy(out, f.targets)
	return out
}

// wait sleeps for the psychology delay, truncated to the gateway
// deadline and the context.
func (f *Fighter) wait(ctx context.Context, delay time.Duration, deadline time.Time) {
	if !deadline.IsZero() {
		if budget := time.Until(deadline) - deadlineMargin; budget < delay {
			delay = budget
		}
	}
	if delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func (f *Fighter) state(gameID string) *gameState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.games[gameID]
	if !ok {
		st = &gameState{}
		f.games[gameID] = st
	}
	return st
}

// Stop closes the stream.
func (f *Fighter) Stop() error { return f.stream.Close() }

// Recorder returns the underlying ResultRecorder for lifecycle management.
func (f *Fighter) Recorder() *ResultRecorder { return f.rec }

// Shutdown flushes profiles and closes the stream.
func (f *Fighter) Shutdown(ctx context.Context) error {
	if err := f.rec.Profiles().SaveAll(); err != nil {
		f.log.Warn("profile flush failed", logger.Error(err))
	}
	return f.stream.Close()
}
