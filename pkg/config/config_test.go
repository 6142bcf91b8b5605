package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
backend:
  type: kafka
kafka:
  brokers:
    - localhost:9092
arena:
  gateway_url: ws://localhost:9944/arena
  wallet: "0x01"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("server port default: got %d", cfg.Server.Port)
	}
	if cfg.Kafka.Topic != "arena.matches" {
		t.Fatalf("kafka topic default: got %q", cfg.Kafka.Topic)
	}
	if cfg.ClickHouse.Database != "arena" || cfg.ClickHouse.Table != "matches" {
		t.Fatalf("clickhouse defaults: got %q.%q", cfg.ClickHouse.Database, cfg.ClickHouse.Table)
	}
	if cfg.Profiles.Dir != "data/opponents" {
		t.Fatalf("profiles dir default: got %q", cfg.Profiles.Dir)
	}
	if cfg.Psychology.SeedFraction != 0.35 {
		t.Fatalf("seed fraction default: got %v", cfg.Psychology.SeedFraction)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: postgres
arena:
  gateway_url: ws://localhost:9944/arena
  wallet: "0x01"
`))
	if err == nil {
		t.Fatalf("expected backend validation error")
	}
}

func TestLoadRequiresArenaSettings(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
backend:
  type: kafka
`))
	if err == nil {
		t.Fatalf("expected missing gateway_url error")
	}
}

func TestLoadRejectsBadSeedFraction(t *testing.T) {
	_, err := Load(writeConfig(t, minimalYAML+`
psychology:
  seed_fraction: 1.5
`))
	if err == nil {
		t.Fatalf("expected seed fraction validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ARENA_WALLET", "0xff")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Arena.Wallet != "0xff" {
		t.Fatalf("wallet override: got %q", cfg.Arena.Wallet)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers override: got %v", cfg.Kafka.Brokers)
	}
}

func TestLoadPsychologyTimings(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML+`
psychology:
  fast_delay: 250ms
  slow_delay_min: 2s
  slow_delay_max: 6s
  escalating_increment: 1s
  seed_move: scissors
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Psychology.FastDelay != 250*time.Millisecond {
		t.Fatalf("fast delay: got %v", cfg.Psychology.FastDelay)
	}
	if cfg.Psychology.SlowDelayMin != 2*time.Second || cfg.Psychology.SlowDelayMax != 6*time.Second {
		t.Fatalf("slow window: got [%v, %v]", cfg.Psychology.SlowDelayMin, cfg.Psychology.SlowDelayMax)
	}
	if cfg.Psychology.EscalatingIncrement != time.Second {
		t.Fatalf("escalating increment: got %v", cfg.Psychology.EscalatingIncrement)
	}
	if cfg.Psychology.SeedMove != "scissors" {
		t.Fatalf("seed move: got %q", cfg.Psychology.SeedMove)
	}
	// Untouched knobs keep their defaults.
	if cfg.Psychology.ErraticDelayMax != 5*time.Second {
		t.Fatalf("erratic max default: got %v", cfg.Psychology.ErraticDelayMax)
	}
	if cfg.Psychology.EscalatingBase != 500*time.Millisecond {
		t.Fatalf("escalating base default: got %v", cfg.Psychology.EscalatingBase)
	}
}

func TestLoadRejectsBadSeedMove(t *testing.T) {
	_, err := Load(writeConfig(t, minimalYAML+`
psychology:
  seed_move: lizard
`))
	if err == nil {
		t.Fatalf("expected seed move validation error")
	}
}

func TestLoadWithEnvNumericOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CLICKHOUSE_PORT", "garbled")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("server port override: got %d", cfg.Server.Port)
	}
	// Unparseable values fall back to the YAML/default value.
	if cfg.ClickHouse.Port != 9000 {
		t.Fatalf("clickhouse port: got %d", cfg.ClickHouse.Port)
	}
}
