package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load loads the configuration. Files are decoded over DefaultConfig, so a
// file only needs the keys it changes.
// Search order: customPath -> ~/.pong/configs/pong.yaml -> ./configs/pong.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("pong.yaml"); userCfgPath != "" {
		if parsed, ok := tryFile(userCfgPath); ok {
			return parsed, nil
		}
	}

	// Try local configs directory
	if parsed, ok := tryFile(filepath.Join("configs", "pong.yaml")); ok {
		return parsed, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultPongYAML, &cfg); err != nil {
		return DefaultConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadWithEnv loads an optional .env file, then the configuration, then
// applies PONG_* environment overrides.
func LoadWithEnv(customPath string) (Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(customPath)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func tryFile(path string) (Config, bool) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pong", "configs", filename)
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with any PONG_* variables that lookup finds.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var firstErr error
	parse := func(key string, set func(string) error) {
		v, ok := lookup(key)
		if !ok || v == "" || firstErr != nil {
			return
		}
		if err := set(v); err != nil {
			firstErr = fmt.Errorf("config: invalid %s=%q: %w", key, v, err)
		}
	}

	parse("PONG_SEED", func(v string) error {
		n, err := strconv.ParseUint(v, 0, 64)
		cfg.Game.Seed = n
		return err
	})
	parse("PONG_TICK_HZ", func(v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		cfg.Game.TickHz = uint32(n)
		return err
	})
	parse("PONG_MAX_SCORE", func(v string) error {
		n, err := strconv.ParseUint(v, 10, 8)
		cfg.Game.MaxScore = uint8(n)
		return err
	})
	str("PONG_LISTEN", &cfg.Net.Listen)
	parse("PONG_DIAL_TIMEOUT", func(v string) error {
		d, err := time.ParseDuration(v)
		cfg.Net.DialTimeout = d
		return err
	})
	parse("PONG_BUFFER_CAPACITY", func(v string) error {
		n, err := strconv.Atoi(v)
		cfg.Net.BufferCapacity = n
		return err
	})
	str("PONG_INPUT_MODE", &cfg.Input.Mode)
	parse("PONG_HOLD_TICKS", func(v string) error {
		n, err := strconv.Atoi(v)
		cfg.Input.HoldTicks = n
		return err
	})
	parse("PONG_BOT_DIFFICULTY", func(v string) error {
		p, ok := ParseDifficulty(v)
		if !ok {
			return fmt.Errorf("unknown preset")
		}
		cfg.Bot.Difficulty = p
		return nil
	})
	str("PONG_SSH_ADDRESS", &cfg.SSH.Address)
	str("PONG_SSH_HOST_KEY", &cfg.SSH.HostKeyPath)
	str("PONG_LOG_LEVEL", &cfg.Log.Level)

	return firstErr
}
