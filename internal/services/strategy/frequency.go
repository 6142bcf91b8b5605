package strategy

import "ArenaFighter/internal/domain/models"

// predictFrequency counters the opponent's globally most frequent move.
// Confidence is that move's share of all observed opponent moves; an
// empty history yields a uniform random move at confidence 0.
func (e *Engine) predictFrequency(history []models.RoundPair) (models.Move, float64) {
	if len(history) == 0 {
		return e.randomMove(), 0
	}

	counts := make(map[models.Move]int, 3)
	for _, r := range history {
		counts[r.Theirs]++
	}

	mode, n, _ := modalMove(counts)
	conf := float64(n) / float64(len(history))
	return mode.Counter(), conf
}
