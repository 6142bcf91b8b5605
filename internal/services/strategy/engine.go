// Package strategy is the decision core for the three wagered games:
// multi-signal sign-game prediction, budgeted card-game action
// selection, and sealed-bid shading. Pure computation over profile
// state; all randomness comes from the injected source so decisions are
// reproducible under test.
package strategy

import (
	"math/rand"

	"ArenaFighter/internal/domain/models"
)

// Engine holds the shared random source. One engine per bot process;
// construct test engines with rand.New(rand.NewSource(seed)).
type Engine struct {
	rng *rand.Rand
}

// New creates a strategy engine around the given random source.
func New(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// randomMove picks a uniform sign-game move.
func (e *Engine) randomMove() models.Move {
	return models.Moves[e.rng.Intn(len(models.Moves))]
}

// modalMove returns the move with the highest count, scanning in fixed
// move order so ties resolve deterministically. ok is false when the
// map is empty.
func modalMove(counts map[models.Move]int) (best models.Move, n int, ok bool) {
	for _, m := range models.Moves {
		if c := counts[m]; c > n {
			best, n, ok = m, c, true
		}
	}
	return best, n, ok
}
