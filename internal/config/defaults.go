package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/lockstep-pong/internal/input"
	"github.com/vovakirdan/lockstep-pong/internal/lockstep"
)

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

// DefaultConfig returns the hardcoded configuration. It matches the embedded
// defaults/pong.yaml.
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			PaddleHalfHeight: 0.125,
			PaddleSpeed:      3.0,
			BallSpeed:        0.5,
			BallSpeedUp:      1.05,
			WallThickness:    0,
			PaddleX:          0.05,
			BallRadius:       1.0 / 32,
			PaddleWidth:      0.025,
			MaxScore:         11,
			Seed:             0xC0FFEE,
			TickHz:           60,
		},
		Net: NetConfig{
			Listen:            ":7777",
			DialTimeout:       5 * time.Second,
			ReadTimeout:       30 * time.Second,
			BufferCapacity:    lockstep.DefaultBufferCapacity,
			PingIntervalTicks: 60,
		},
		Input: InputConfig{
			Mode:      input.ModeHold.String(),
			HoldTicks: input.DefaultHoldTicks,
		},
		Bot: BotConfig{
			Difficulty: DifficultyNormal,
		},
		SSH: SSHConfig{
			Address:     ":23234",
			HostKeyPath: ".ssh/pong_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultPongYAML
}
