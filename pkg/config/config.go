package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ArenaFighter/pkg/util"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"arena.matches"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"arenafighter"`
			Workers    int           `yaml:"workers" default:"1"`
			BufferSize int           `yaml:"buffer_size" default:"10"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"50ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes" default:"10000"`
			MaxBytes   int           `yaml:"max_bytes" default:"10000000"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"arena"`
		Table            string        `yaml:"table" default:"matches"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Arena struct {
		GatewayURL     string        `yaml:"gateway_url"`
		Wallet         string        `yaml:"wallet"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"3s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
	} `yaml:"arena"`
	Profiles struct {
		Dir string `yaml:"dir" default:"data/opponents"`
	} `yaml:"profiles"`
	Psychology struct {
		FastDelay           time.Duration `yaml:"fast_delay" default:"500ms"`
		SlowDelayMin        time.Duration `yaml:"slow_delay_min" default:"3s"`
		SlowDelayMax        time.Duration `yaml:"slow_delay_max" default:"8s"`
		ErraticDelayMin     time.Duration `yaml:"erratic_delay_min" default:"500ms"`
		ErraticDelayMax     time.Duration `yaml:"erratic_delay_max" default:"5s"`
		EscalatingBase      time.Duration `yaml:"escalating_base" default:"500ms"`
		EscalatingIncrement time.Duration `yaml:"escalating_increment" default:"700ms"`
		SeedFraction        float64       `yaml:"seed_fraction" default:"0.35"`
		SeedMove            string        `yaml:"seed_move" default:"rock"`
		TiltMultiplier      float64       `yaml:"tilt_multiplier" default:"2.0"`
		TiltMaxBankrollBps  uint64        `yaml:"tilt_max_bankroll_bps" default:"1000"`
		TiltMinStakeWei     uint64        `yaml:"tilt_min_stake_wei" default:"1000000000000000"`
		MinEloGap           int           `yaml:"min_elo_gap" default:"50"`
	} `yaml:"psychology"`
	Cache struct {
		TargetsTTL time.Duration `yaml:"targets_ttl" default:"30s"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("ARENA_GATEWAY_URL"); v != "" {
		c.Arena.GatewayURL = v
	}
	if v := os.Getenv("ARENA_WALLET"); v != "" {
		c.Arena.Wallet = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("PROFILES_DIR"); v != "" {
		c.Profiles.Dir = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("CLICKHOUSE_PORT"); v != "" {
		c.ClickHouse.Port = util.ParseIntDefault(v, c.ClickHouse.Port)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type == "" {
		return fmt.Errorf("backend.type is required")
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "clickhouse" {
		return fmt.Errorf("backend.type must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if c.Arena.GatewayURL == "" {
		return fmt.Errorf("arena.gateway_url is required")
	}
	if c.Arena.Wallet == "" {
		return fmt.Errorf("arena.wallet is required")
	}
	if c.Psychology.SeedFraction < 0 || c.Psychology.SeedFraction > 1 {
		return fmt.Errorf("psychology.seed_fraction must be within [0, 1]")
	}
	switch c.Psychology.SeedMove {
	case "", "rock", "paper", "scissors":
	default:
		return fmt.Errorf("psychology.seed_move must be rock, paper, or scissors, got '%s'", c.Psychology.SeedMove)
	}
	return nil
}
