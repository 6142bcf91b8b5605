package strategy

import "ArenaFighter/internal/domain/models"

// wslsMinTransitions is the fewest win/loss transitions needed before
// the win-stay/lose-shift score means anything.
const wslsMinTransitions = 3

// predictSequence runs two pattern sub-detectors, repeating cycles and
// win-stay/lose-shift, and returns whichever scores higher. Neither
// qualifying yields a random move at confidence 0.
func (e *Engine) predictSequence(history []models.RoundPair) (models.Move, float64) {
	if len(history) < 4 {
		return e.randomMove(), 0
	}

	cycleMove, cycleConf := detectCycle(models.OpponentMoves(history))
	wsMove, wsConf := detectWinStayLoseShift(history)

	switch {
	case cycleConf > wsConf && cycleConf > 0:
		return cycleMove, cycleConf
	case wsConf > 0:
		return wsMove, wsConf
	}
	return e.randomMove(), 0
}

// detectCycle checks window sizes 2-4 for the last w opponent moves
// repeating the w before them. On a match it predicts the move that
// starts the window; confidence grows with how many times that window
// repeats across the whole history, capped at 0.9.
func detectCycle(moves []models.Move) (models.Move, float64) {
	var bestMove models.Move
	bestConf := 0.0

	for _, w := range []int{2, 3, 4} {
		if len(moves) < w*2 {
			continue
		}
		if !windowsEqual(moves[len(moves)-w:], moves[len(moves)-2*w:len(moves)-w]) {
			continue
		}

		predicted := moves[len(moves)-w]
		recent := moves[len(moves)-w:]
		repeats := 0
		for off := 0; off < len(moves)-w; off += w {
			if windowsEqual(moves[off:off+w], recent) {
				repeats++
			}
		}
		conf := 0.5 + 0.1*float64(repeats)
		if conf > 0.9 {
			conf = 0.9
		}
		if conf > bestConf {
			bestConf = conf
			bestMove = predicted.Counter()
		}
	}
	return bestMove, bestConf
}

func windowsEqual(a, b []models.Move) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// detectWinStayLoseShift scores how consistently the opponent repeats
// their move after winning a round and switches after losing one. Draws
// don't qualify. The prediction keys off the last round: a win means
// they likely repeat, a loss means they likely switch to their
// historically modal switch target.
func detectWinStayLoseShift(history []models.RoundPair) (models.Move, float64) {
	consistent, checked := 0, 0
	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		switch {
		case prev.TheirWin():
			if cur.Theirs == prev.Theirs {
				consistent++
			}
			checked++
		case prev.MyWin():
			if cur.Theirs != prev.Theirs {
				consistent++
			}
			checked++
		}
	}
	if checked < wslsMinTransitions {
		return 0, 0
	}
	conf := float64(consistent) / float64(checked)

	last := history[len(history)-1]
	if last.TheirWin() {
		// Win-stay: they repeat, so counter the repeat.
		return last.Theirs.Counter(), conf
	}

	// Lose-shift: counter their most common post-loss switch target.
	targets := make(map[models.Move]int, 3)
	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		if prev.MyWin() && cur.Theirs != prev.Theirs {
			targets[cur.Theirs]++
		}
	}
	predicted, _, ok := modalMove(targets)
	if !ok {
		return 0, 0
	}
	return predicted.Counter(), conf
}
