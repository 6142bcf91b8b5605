package strategy

import (
	"sort"

	"ArenaFighter/internal/domain/models"
)

const (
	// Acceptance thresholds for the best candidate: weighted when a
	// profile backs the accuracy weighting, raw otherwise.
	weightedThreshold = 0.3
	rawThreshold      = 0.4

	// Anti-exploitation trigger: rolling win rate over the last
	// antiExploitWindow rounds, checked once the current game is past
	// antiExploitMinRounds completed rounds.
	antiExploitWindow    = 5
	antiExploitMinRounds = 5
	antiExploitRate      = 0.35

	// An abandoned predictor sits out this many decisions.
	exploitCooldown = 3
)

type candidate struct {
	strategy models.Strategy
	move     models.Move
	raw      float64
	weighted float64
}

// ChooseMove runs all three predictors over the opponent's cumulative
// history concatenated with the in-progress game, re-weights each raw
// confidence by per-opponent predictor accuracy, and picks the
// strongest signal. Weak signals fall back to a uniform random move.
//
// When the opponent appears to have read us (more than five rounds
// into the game with a sub-0.35 rolling win rate) the best candidate
// is deliberately abandoned in favour of the second-best and put on
// cooldown.
func (e *Engine) ChooseMove(profile *models.OpponentProfile, gameRounds []models.RoundPair) models.MoveDecision {
	history := gameRounds
	if profile != nil {
		history = append(profile.AllRounds(), gameRounds...)
	}

	cands := make([]candidate, 0, len(models.Predictors))
	for _, s := range models.Predictors {
		if profile != nil && profile.OnCooldown(s) {
			continue
		}
		var move models.Move
		var raw float64
		switch s {
		case models.StrategyFrequency:
			move, raw = e.predictFrequency(history)
		case models.StrategyMarkov:
			move, raw = e.predictMarkov(history)
		case models.StrategySequence:
			move, raw = e.predictSequence(history)
		}
		weighted := raw
		if profile != nil {
			weighted = raw * (0.5 + profile.StrategyAccuracy(s))
		}
		cands = append(cands, candidate{strategy: s, move: move, raw: raw, weighted: weighted})
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].weighted > cands[j].weighted })

	if profile != nil {
		profile.TickCooldowns()
	}

	if exploited(gameRounds) {
		if len(cands) < 2 {
			return e.randomDecision()
		}
		if profile != nil {
			profile.SetCooldown(cands[0].strategy, exploitCooldown)
		}
		second := cands[1]
		return models.MoveDecision{Move: second.move, Strategy: second.strategy, Confidence: second.weighted}
	}

	threshold := rawThreshold
	if profile != nil {
		threshold = weightedThreshold
	}
	if len(cands) > 0 && cands[0].weighted >= threshold {
		best := cands[0]
		return models.MoveDecision{Move: best.move, Strategy: best.strategy, Confidence: best.weighted}
	}
	return e.randomDecision()
}

func (e *Engine) randomDecision() models.MoveDecision {
	return models.MoveDecision{Move: e.randomMove(), Strategy: models.StrategyRandom, Confidence: 0}
}

// exploited reports whether the current game shows us being read.
func exploited(gameRounds []models.RoundPair) bool {
	if len(gameRounds) <= antiExploitMinRounds {
		return false
	}
	return recentWinRate(gameRounds, antiExploitWindow) < antiExploitRate
}

// recentWinRate is the fraction of the last window rounds we won
// outright; draws count against us. 0.5 with no data.
func recentWinRate(rounds []models.RoundPair, window int) float64 {
	if len(rounds) == 0 {
		return 0.5
	}
	recent := rounds
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	wins := 0
	for _, r := range recent {
		if r.MyWin() {
			wins++
		}
	}
	return float64(wins) / float64(len(recent))
}
