package strategy

import "ArenaFighter/internal/domain/models"

// markovMinHistory is the fewest rounds at which first-order transition
// counts say anything useful.
const markovMinHistory = 5

// predictMarkov builds first-order transition counts over the
// opponent's move sequence and counters the modal move following their
// most recent one. Confidence is the modal transition's share of all
// transitions out of that state; too little history or an unseen
// last-move state yields a random move at confidence 0.
func (e *Engine) predictMarkov(history []models.RoundPair) (models.Move, float64) {
	if len(history) < markovMinHistory {
		return e.randomMove(), 0
	}

	moves := models.OpponentMoves(history)
	transitions := make(map[models.Move]map[models.Move]int, 3)
	for i := 0; i < len(moves)-1; i++ {
		row := transitions[moves[i]]
		if row == nil {
			row = make(map[models.Move]int, 3)
			transitions[moves[i]] = row
		}
		row[moves[i+1]]++
	}

	last := moves[len(moves)-1]
	row := transitions[last]
	if len(row) == 0 {
		return e.randomMove(), 0
	}

	total := 0
	for _, c := range row {
		total += c
	}
	predicted, n, _ := modalMove(row)
	return predicted.Counter(), float64(n) / float64(total)
}
