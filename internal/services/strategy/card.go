package strategy

import "ArenaFighter/internal/domain/models"

// Hand-value tiers for the budgeted card game.
const (
	tierWeakMax   = 30
	tierMediumMax = 60
	tierStrongMax = 80
)

// Default bluff probabilities when only overall win rate is known.
const (
	bluffLosing  = 0.25
	bluffNeutral = 0.15
	bluffWinning = 0.05
)

// CardContext carries the street state the gateway supplies with a
// card-game decision request.
type CardContext struct {
	HandValue     int
	CurrentBetWei uint64
	PotWei        uint64
	WagerWei      uint64
}

// PickHandValue chooses this round's private hand commitment in
// [1,100]. It budgets so every remaining round can still commit at
// least 1, spends around the per-round baseline, presses when behind
// and conserves when ahead, and jitters ±20% so the sequence can't be
// read.
func (e *Engine) PickHandValue(remainingBudget, roundsRemaining int, myScore, oppScore int64) int {
	if roundsRemaining < 1 {
		roundsRemaining = 1
	}
	maxCommit := remainingBudget - (roundsRemaining - 1)
	if maxCommit > 100 {
		maxCommit = 100
	}
	if maxCommit < 1 {
		maxCommit = 1
	}

	baseline := float64(remainingBudget) / float64(roundsRemaining)
	switch {
	case myScore < oppScore:
		baseline *= 1.3
	case myScore > oppScore:
		baseline *= 0.7
	}
	baseline *= 0.8 + e.rng.Float64()*0.4

	v := int(baseline)
	if v < 1 {
		v = 1
	}
	if v > maxCommit {
		v = maxCommit
	}
	return v
}

// ChooseCardAction maps (hand tier, street state, opponent profile) to
// a card-game action. Bluff propensity and bet sizing come from the
// opponent's detailed card stats when available, falling back to
// overall win rate.
func (e *Engine) ChooseCardAction(profile *models.OpponentProfile, c CardContext) models.CardDecision {
	bluffProb, multNum, multDen := cardTendency(profile)

	if c.CurrentBetWei == 0 {
		return e.openAction(c, bluffProb, multNum, multDen)
	}
	return e.facingBetAction(c, bluffProb)
}

// cardTendency returns the bluff probability and a bet-size multiplier
// expressed as a rational (num/den) so wei arithmetic stays exact.
func cardTendency(profile *models.OpponentProfile) (bluff float64, multNum, multDen uint64) {
	multNum, multDen = 1, 1
	if profile == nil {
		return bluffNeutral, multNum, multDen
	}

	ps := profile.PokerSnapshot()
	if ps.HandsSeen > 0 {
		switch {
		case ps.FoldRate > 0.4:
			// They give up often: lean on bluffs.
			return 0.35, 1, 1
		case ps.Aggression > 0.3:
			// They punish bluffs; value-bet bigger instead.
			return 0, 13, 10
		case ps.Aggression < 0.1 && ps.FoldRate < 0.2:
			// Passive station: bluffing is wasted, size down.
			return 0.05, 7, 10
		}
		return bluffNeutral, 1, 1
	}

	switch wr := profile.WinRate(); {
	case wr < 0.4:
		return bluffLosing, 1, 1
	case wr > 0.6:
		return bluffWinning, 1, 1
	}
	return bluffNeutral, 1, 1
}

func (e *Engine) openAction(c CardContext, bluffProb float64, multNum, multDen uint64) models.CardDecision {
	switch {
	case c.HandValue > tierStrongMax:
		return models.CardDecision{Action: models.ActBet, AmountWei: pct(c.WagerWei, 50) * multNum / multDen, Confidence: 0.85}
	case c.HandValue > tierMediumMax:
		return models.CardDecision{Action: models.ActBet, AmountWei: pct(c.WagerWei, 30) * multNum / multDen, Confidence: 0.70}
	case c.HandValue <= tierWeakMax && e.rng.Float64() < bluffProb:
		return models.CardDecision{Action: models.ActBet, AmountWei: pct(c.WagerWei, 40), Confidence: 0.30}
	}
	return models.CardDecision{Action: models.ActCheck, Confidence: 0.50}
}

func (e *Engine) facingBetAction(c CardContext, bluffProb float64) models.CardDecision {
	bet := c.CurrentBetWei
	raiseCap := 2 * c.WagerWei

	switch {
	case c.HandValue > tierStrongMax:
		amount := 2 * bet
		if amount > raiseCap {
			amount = raiseCap
		}
		return models.CardDecision{Action: models.ActRaise, AmountWei: amount, Confidence: 0.90}

	case c.HandValue > tierMediumMax:
		if e.rng.Float64() < 0.3 {
			amount := bet + bet/2
			if amount > raiseCap {
				amount = raiseCap
			}
			return models.CardDecision{Action: models.ActRaise, AmountWei: amount, Confidence: 0.55}
		}
		return models.CardDecision{Action: models.ActCall, AmountWei: bet, Confidence: 0.65}

	case c.HandValue > tierWeakMax:
		potOdds := float64(bet) / float64(c.PotWei+bet)
		if float64(c.HandValue)/100 > potOdds {
			return models.CardDecision{Action: models.ActCall, AmountWei: bet, Confidence: 0.60}
		}
		return models.CardDecision{Action: models.ActFold, Confidence: 0.55}
	}

	if e.rng.Float64() < bluffProb/2 {
		amount := 2 * bet
		if amount > raiseCap {
			amount = raiseCap
		}
		return models.CardDecision{Action: models.ActRaise, AmountWei: amount, Confidence: 0.25}
	}
	return models.CardDecision{Action: models.ActFold, Confidence: 0.60}
}

// pct takes an exact integer percentage of a wei amount.
func pct(wei uint64, percent uint64) uint64 {
	return wei / 100 * percent
}
