package psychology

import "ArenaFighter/internal/domain/models"

// minSeedResponses is how many observed reactions to the seed move we
// need before trusting them over the rational-opponent assumption.
const minSeedResponses = 2

// ShouldSeed reports whether this round is still in the seeding window:
// the first SeedFraction of rounds, with at least one seeded round in
// any game of three or more. Shorter games skip seeding entirely.
func (m *Module) ShouldSeed(round, totalRounds int) bool {
	if totalRounds < 3 {
		return false
	}
	cutoff := int(float64(totalRounds) * m.cfg.SeedFraction)
	if cutoff < 1 {
		cutoff = 1
	}
	return round < cutoff
}

// SeedMove is the deliberate bait played during the seeding window.
func (m *Module) SeedMove() models.Move { return m.cfg.SeedMove }

// ExploitMove predicts the opponent's adjustment to our seeded pattern
// and counters it. With enough profile data the prediction is their
// modal observed response to the seed move; otherwise a rational
// opponent is assumed to counter the seed, so we counter that counter.
func (m *Module) ExploitMove(profile *models.OpponentProfile) models.Move {
	seed := m.cfg.SeedMove

	if profile != nil {
		responses := make(map[models.Move]int, 3)
		total := 0
		for _, r := range profile.AllRounds() {
			if r.Mine == seed {
				responses[r.Theirs]++
				total++
			}
		}
		if total >= minSeedResponses {
			var modal models.Move
			best := 0
			for _, mv := range models.Moves {
				if responses[mv] > best {
					modal, best = mv, responses[mv]
				}
			}
			return modal.Counter()
		}
	}

	return seed.Counter().Counter()
}
