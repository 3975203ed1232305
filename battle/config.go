package battle

import "time"

// Config tunes the combat core.
type Config struct {
	// MaxDrawAttempts bounds enemy deck retries during one refill.
	MaxDrawAttempts int `yaml:"max_draw_attempts" env:"SLOTBATTLER_MAX_DRAW_ATTEMPTS" env-default:"3"`
	// TurnEffectTimeout caps the wait on a timed status visual.
	TurnEffectTimeout time.Duration `yaml:"turn_effect_timeout" env:"SLOTBATTLER_TURN_EFFECT_TIMEOUT" env-default:"1.5s"`
	// FatalHitDelay is the minimum pause between a lethal hit and cleanup.
	FatalHitDelay time.Duration `yaml:"fatal_hit_delay" env:"SLOTBATTLER_FATAL_HIT_DELAY" env-default:"500ms"`
	// FatalHitCap bounds how long the presenter may hold up cleanup.
	FatalHitCap time.Duration `yaml:"fatal_hit_cap" env:"SLOTBATTLER_FATAL_HIT_CAP" env-default:"3s"`
	// ReviveHPPercent of max health is restored by a revive item.
	ReviveHPPercent int `yaml:"revive_hp_percent" env:"SLOTBATTLER_REVIVE_HP_PERCENT" env-default:"50"`
	HandSize        int `yaml:"hand_size" env:"SLOTBATTLER_HAND_SIZE" env-default:"4"`
	// MaxTransitionsPerTick bounds chained transitions processed in one Tick.
	MaxTransitionsPerTick int `yaml:"max_transitions_per_tick" env:"SLOTBATTLER_MAX_TRANSITIONS_PER_TICK" env-default:"8"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		MaxDrawAttempts:       3,
		TurnEffectTimeout:     1500 * time.Millisecond,
		FatalHitDelay:         500 * time.Millisecond,
		FatalHitCap:           3 * time.Second,
		ReviveHPPercent:       50,
		HandSize:              4,
		MaxTransitionsPerTick: 8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxDrawAttempts <= 0 {
		c.MaxDrawAttempts = d.MaxDrawAttempts
	}
	if c.TurnEffectTimeout <= 0 {
		c.TurnEffectTimeout = d.TurnEffectTimeout
	}
	if c.FatalHitDelay < 0 {
		c.FatalHitDelay = 0
	}
	if c.FatalHitCap <= 0 {
		c.FatalHitCap = d.FatalHitCap
	}
	if c.ReviveHPPercent <= 0 || c.ReviveHPPercent > 100 {
		c.ReviveHPPercent = d.ReviveHPPercent
	}
	if c.HandSize <= 0 {
		c.HandSize = d.HandSize
	}
	if c.MaxTransitionsPerTick <= 0 {
		c.MaxTransitionsPerTick = d.MaxTransitionsPerTick
	}
	return c
}
