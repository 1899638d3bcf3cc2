package config

import "strings"

// DifficultyPreset represents a named computer player strength.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty parses a preset name, case-insensitively. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, bool) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DifficultyNormal, true
	}
	return p, p.Valid()
}

// Valid reports whether p names a known preset. Empty counts as normal.
func (p DifficultyPreset) Valid() bool {
	switch p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	default:
		return false
	}
}

// SkillForPreset returns the tracker skill for a preset.
func SkillForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.5
	case DifficultyHard:
		return 0.95
	default:
		return 0.8
	}
}
