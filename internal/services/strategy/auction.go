package strategy

import "ArenaFighter/internal/domain/models"

// Sealed-bid shading constants. 0.55 is the two-bidder first-price
// equilibrium fraction with a small edge margin.
const (
	baseShade = 0.55
	maxShade  = 0.95
	minShade  = 0.01

	// Adjustments when only the match win rate is known.
	shadeVsDominator = 0.70
	shadeVsDominated = 0.45
)

// ChooseBid sizes a sealed bid as a fraction of the wager. The fraction
// starts at the two-bidder optimum, shifts to just above the opponent's
// observed average shading when we have auction history on them,
// otherwise leans on the overall win rate, then jitters ±10% and clamps
// to [0.01, 0.95] of the wager with a 1 wei floor.
func (e *Engine) ChooseBid(profile *models.OpponentProfile, wagerWei uint64) models.BidDecision {
	frac := baseShade

	if profile != nil {
		switch as := profile.AuctionSnapshot(); {
		case len(as.Samples) > 0:
			// Outbid their habit by three points; a low average still
			// only needs to be edged, not doubled.
			frac = as.AvgShadePct + 0.03
			if frac > maxShade {
				frac = maxShade
			}
		case profile.TotalGames() > 0:
			switch wr := profile.WinRate(); {
			case wr < 0.4:
				frac = shadeVsDominator
			case wr > 0.6:
				frac = shadeVsDominated
			}
		}
	}

	frac *= 0.9 + e.rng.Float64()*0.2
	if frac < minShade {
		frac = minShade
	}
	if frac > maxShade {
		frac = maxShade
	}

	amount := uint64(float64(wagerWei) * frac)
	if amount < 1 {
		amount = 1
	}

	style := models.BidConservative
	switch {
	case frac > 0.70:
		style = models.BidAggressive
	case frac > 0.50:
		style = models.BidBalanced
	}
	return models.BidDecision{AmountWei: amount, Fraction: frac, Style: style}
}
