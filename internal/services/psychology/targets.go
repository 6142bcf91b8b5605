package psychology

import (
	"sort"

	"ArenaFighter/internal/domain/models"
)

// Target is a rated opponent sitting far enough below our elo to be an
// easy fight, ranked by gap.
type Target struct {
	Addr string `json:"addr"`
	Elo  int    `json:"elo"`
	Gap  int    `json:"gap"`
}

// WeakTargets filters a leaderboard to opponents at least MinEloGap
// below our rating, weakest first.
func (m *Module) WeakTargets(agents []models.AgentRating, ourElo int) []Target {
	targets := make([]Target, 0, len(agents))
	for _, a := range agents {
		gap := ourElo - a.Elo
		if gap >= m.cfg.MinEloGap {
			targets = append(targets, Target{Addr: a.Addr, Elo: a.Elo, Gap: gap})
		}
	}
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Gap > targets[j].Gap })
	return targets
}
