package di

import (
	"math/rand"
	"testing"
	"time"

	"ArenaFighter/internal/domain/models"
	"ArenaFighter/pkg/config"
)

func TestProvidePsychologyModuleMapsConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Psychology.SeedMove = "scissors"
	cfg.Psychology.SeedFraction = 0.2
	cfg.Psychology.FastDelay = 250 * time.Millisecond

	m := ProvidePsychologyModule(cfg, rand.New(rand.NewSource(1)))
	if got := m.SeedMove(); got != models.Scissors {
		t.Fatalf("seed move: got %v want scissors", got)
	}
}

func TestProvidePsychologyModuleDefaultsSeedMove(t *testing.T) {
	cfg := &config.Config{}

	m := ProvidePsychologyModule(cfg, rand.New(rand.NewSource(1)))
	if got := m.SeedMove(); got != models.Rock {
		t.Fatalf("seed move default: got %v want rock", got)
	}
}
