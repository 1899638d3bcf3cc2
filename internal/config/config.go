// Package config provides YAML-based configuration loading for the pong
// client, host and server commands.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/lockstep-pong/internal/fx"
	"github.com/vovakirdan/lockstep-pong/internal/input"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// Config is the full application configuration.
type Config struct {
	Game  GameConfig  `yaml:"game"`
	Net   NetConfig   `yaml:"net"`
	Input InputConfig `yaml:"input"`
	Bot   BotConfig   `yaml:"bot"`
	SSH   SSHConfig   `yaml:"ssh"`
	Log   LogConfig   `yaml:"log"`
}

// GameConfig holds the match tunables in human-readable units. Both peers
// of an online match must load identical values.
type GameConfig struct {
	PaddleHalfHeight float64 `yaml:"paddle_half_height"` // field units, field is 1.0 tall
	PaddleSpeed      float64 `yaml:"paddle_speed"`       // field units per second
	BallSpeed        float64 `yaml:"ball_speed"`         // serve speed, field units per second
	BallSpeedUp      float64 `yaml:"ball_speed_up"`      // multiplier per paddle hit
	WallThickness    float64 `yaml:"wall_thickness"`
	PaddleX          float64 `yaml:"paddle_x"` // paddle distance from its edge
	BallRadius       float64 `yaml:"ball_radius"`
	PaddleWidth      float64 `yaml:"paddle_width"`
	MaxScore         uint8   `yaml:"max_score"`
	Seed             uint64  `yaml:"seed"`
	TickHz           uint32  `yaml:"tick_hz"`
}

// NetConfig defines the online match transport.
type NetConfig struct {
	Listen            string        `yaml:"listen"`
	DialTimeout       time.Duration `yaml:"dial_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	BufferCapacity    int           `yaml:"buffer_capacity"`     // lockstep input window in ticks
	PingIntervalTicks int           `yaml:"ping_interval_ticks"` // 0 disables pings
}

// InputConfig defines how key presses become paddle inputs.
type InputConfig struct {
	Mode      string `yaml:"mode"` // "hold" or "momentum"
	HoldTicks int    `yaml:"hold_ticks"`
}

// BotConfig tunes the computer player used by headless peers.
type BotConfig struct {
	Difficulty DifficultyPreset `yaml:"difficulty"`
	Skill      float64          `yaml:"skill"` // overrides the preset when > 0
}

// SSHConfig defines the hotseat SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// LogConfig defines the log output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Pong converts the game section into a validated simulation config.
func (g GameConfig) Pong() (pong.Config, error) {
	cfg := pong.Config{
		PaddleHalfH:   fx.FromFloat(g.PaddleHalfHeight),
		PaddleSpeed:   fx.FromFloat(g.PaddleSpeed),
		BallSpeed:     fx.FromFloat(g.BallSpeed),
		BallSpeedUp:   fx.FromFloat(g.BallSpeedUp),
		WallThickness: fx.FromFloat(g.WallThickness),
		PaddleX:       fx.FromFloat(g.PaddleX),
		MaxScore:      g.MaxScore,
		Seed:          g.Seed,
		TickHz:        g.TickHz,
		BallRadius:    fx.FromFloat(g.BallRadius),
		PaddleWidth:   fx.FromFloat(g.PaddleWidth),
	}
	if err := cfg.Validate(); err != nil {
		return pong.Config{}, err
	}
	return cfg, nil
}

// InputMode parses the configured input mode.
func (c Config) InputMode() (input.Mode, error) {
	return input.ParseMode(c.Input.Mode)
}

// BotSkill returns the tracker skill, from Skill when set or the preset otherwise.
func (c Config) BotSkill() float64 {
	if c.Bot.Skill > 0 {
		return min(c.Bot.Skill, 1)
	}
	return SkillForPreset(c.Bot.Difficulty)
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.Game.Pong(); err != nil {
		return err
	}
	if _, err := c.InputMode(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !c.Bot.Difficulty.Valid() {
		return fmt.Errorf("config: unknown bot difficulty %q", c.Bot.Difficulty)
	}
	if c.Net.BufferCapacity < 0 {
		return fmt.Errorf("config: buffer_capacity must not be negative")
	}
	if c.Net.PingIntervalTicks < 0 {
		return fmt.Errorf("config: ping_interval_ticks must not be negative")
	}
	return nil
}
