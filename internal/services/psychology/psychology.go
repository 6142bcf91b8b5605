// Package psychology implements the tactical layer that sits on top of
// the predictors: commit-timing variance, pattern seeding, post-win
// tilt re-challenges, and weak-opponent ranking. Everything here is a
// pure computation; delays are returned as durations for the caller
// to honour (or truncate against a phase deadline), never slept on.
package psychology

import (
	"math/rand"
	"time"

	"ArenaFighter/internal/domain/models"
)

// Config holds every psychology knob. Zero values fall back to the
// built-in defaults, so a partial config section is fine.
type Config struct {
	FastDelay           time.Duration
	SlowDelayMin        time.Duration
	SlowDelayMax        time.Duration
	ErraticDelayMin     time.Duration
	ErraticDelayMax     time.Duration
	EscalatingBase      time.Duration
	EscalatingIncrement time.Duration

	SeedFraction float64
	SeedMove     models.Move

	TiltMultiplier     float64
	TiltMaxBankrollBps uint64
	TiltMinStakeWei    uint64

	MinEloGap int
}

// DefaultConfig returns the built-in tactical defaults.
func DefaultConfig() Config {
	return Config{
		FastDelay:           500 * time.Millisecond,
		SlowDelayMin:        3 * time.Second,
		SlowDelayMax:        8 * time.Second,
		ErraticDelayMin:     500 * time.Millisecond,
		ErraticDelayMax:     5 * time.Second,
		EscalatingBase:      500 * time.Millisecond,
		EscalatingIncrement: 700 * time.Millisecond,
		SeedFraction:        0.35,
		SeedMove:            models.Rock,
		TiltMultiplier:      2.0,
		TiltMaxBankrollBps:  1000,
		TiltMinStakeWei:     1_000_000_000_000_000, // 0.001 MON
		MinEloGap:           50,
	}
}

// Module is the psychology tactic engine.
type Module struct {
	cfg Config
	rng *rand.Rand
}

// New creates a psychology module, filling unset config fields with
// defaults.
func New(cfg Config, rng *rand.Rand) *Module {
	def := DefaultConfig()
	if cfg.FastDelay <= 0 {
		cfg.FastDelay = def.FastDelay
	}
	if cfg.SlowDelayMin <= 0 {
		cfg.SlowDelayMin = def.SlowDelayMin
	}
	if cfg.SlowDelayMax <= cfg.SlowDelayMin {
		cfg.SlowDelayMax = cfg.SlowDelayMin + (def.SlowDelayMax - def.SlowDelayMin)
	}
	if cfg.ErraticDelayMin <= 0 {
		cfg.ErraticDelayMin = def.ErraticDelayMin
	}
	if cfg.ErraticDelayMax <= cfg.ErraticDelayMin {
		cfg.ErraticDelayMax = cfg.ErraticDelayMin + (def.ErraticDelayMax - def.ErraticDelayMin)
	}
	if cfg.EscalatingBase <= 0 {
		cfg.EscalatingBase = def.EscalatingBase
	}
	if cfg.EscalatingIncrement <= 0 {
		cfg.EscalatingIncrement = def.EscalatingIncrement
	}
	if cfg.SeedFraction <= 0 || cfg.SeedFraction >= 1 {
		cfg.SeedFraction = def.SeedFraction
	}
	if !cfg.SeedMove.Valid() {
		cfg.SeedMove = def.SeedMove
	}
	if cfg.TiltMultiplier <= 0 {
		cfg.TiltMultiplier = def.TiltMultiplier
	}
	if cfg.TiltMaxBankrollBps == 0 {
		cfg.TiltMaxBankrollBps = def.TiltMaxBankrollBps
	}
	if cfg.TiltMinStakeWei == 0 {
		cfg.TiltMinStakeWei = def.TiltMinStakeWei
	}
	if cfg.MinEloGap <= 0 {
		cfg.MinEloGap = def.MinEloGap
	}
	return &Module{cfg: cfg, rng: rng}
}
