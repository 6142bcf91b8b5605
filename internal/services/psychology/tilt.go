package psychology

import (
	"fmt"
	"math"

	"ArenaFighter/internal/domain/models"
)

// TiltAdvice is the post-win re-challenge recommendation.
type TiltAdvice struct {
	Recommend bool   `json:"recommend"`
	WagerWei  uint64 `json:"wager_wei"`
	Reason    string `json:"reason"`
}

// TiltChallenge decides whether to immediately re-challenge a just
// beaten opponent at raised stakes, on the theory that a fresh loser
// plays worse. It fires only when the most recent recorded result was
// a win for us and the overall win rate shows an edge; the stake is
// the half-Kelly wager times the tilt multiplier, capped at the
// bankroll-fraction limit, and suppressed when economically negligible.
func (m *Module) TiltChallenge(profile *models.OpponentProfile, balanceWei uint64) TiltAdvice {
	if profile == nil || profile.TotalGames() < 1 {
		return TiltAdvice{Reason: "no model data to evaluate a tilt opportunity"}
	}

	last := profile.LastResult()
	if last == nil || !last.Won {
		return TiltAdvice{Reason: "last match was not a win"}
	}

	wr := profile.WinRate()
	if wr <= 0.5 {
		return TiltAdvice{Reason: fmt.Sprintf("no edge at %.0f%% win rate", wr*100)}
	}

	edge := 2*wr - 1
	kellyBps := uint64(math.Round(edge / 2 * 10000))
	if kellyBps > m.cfg.TiltMaxBankrollBps {
		kellyBps = m.cfg.TiltMaxBankrollBps
	}
	safe := balanceWei / 10000 * kellyBps

	stake := uint64(float64(safe) * m.cfg.TiltMultiplier)
	if cap := balanceWei / 10000 * m.cfg.TiltMaxBankrollBps; stake > cap {
		stake = cap
	}
	if stake < 1 {
		stake = 1
	}

	if stake < m.cfg.TiltMinStakeWei {
		return TiltAdvice{WagerWei: stake, Reason: "tilt stake too small to matter"}
	}

	return TiltAdvice{
		Recommend: true,
		WagerWei:  stake,
		Reason: fmt.Sprintf("%.0f%% win rate over %d games, opponent likely tilted; re-challenge at %.0fx",
			wr*100, profile.TotalGames(), m.cfg.TiltMultiplier),
	}
}
