package psychology

import "time"

// TimingMode is the per-game commit tempo.
type TimingMode string

const (
	TimingFast       TimingMode = "fast"
	TimingSlow       TimingMode = "slow"
	TimingErratic    TimingMode = "erratic"
	TimingEscalating TimingMode = "escalating"
)

var timingModes = [4]TimingMode{TimingFast, TimingSlow, TimingErratic, TimingEscalating}

// GameState carries the mutable per-game timing state. One per game;
// the mode is picked on first use and sticks for the whole game.
type GameState struct {
	Mode   TimingMode
	picked bool
}

// CommitDelay returns how long to hold a commit this round. It never
// sleeps; the fighter loop truncates the returned duration against the
// phase deadline, so a slow draw can't forfeit a game.
func (m *Module) CommitDelay(state *GameState, round int) time.Duration {
	if !state.picked {
		state.Mode = timingModes[m.rng.Intn(len(timingModes))]
		state.picked = true
	}

	switch state.Mode {
	case TimingFast:
		return m.cfg.FastDelay
	case TimingSlow:
		return m.between(m.cfg.SlowDelayMin, m.cfg.SlowDelayMax)
	case TimingErratic:
		return m.between(m.cfg.ErraticDelayMin, m.cfg.ErraticDelayMax)
	case TimingEscalating:
		return m.cfg.EscalatingBase + time.Duration(round)*m.cfg.EscalatingIncrement
	}
	return m.cfg.FastDelay
}

func (m *Module) between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(m.rng.Int63n(int64(hi-lo)))
}
