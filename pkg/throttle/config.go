package throttle

import "time"

// Floors below which configuration values are not allowed. Values under
// these are raised silently so a typo in an env var cannot disable
// throttling.
const (
	MinWindow      = time.Minute
	MinMaxAttempts = 3
	MinLockout     = time.Minute
)

// Defaults applied when configuration values are left at zero.
const (
	DefaultWindow      = 15 * time.Minute
	DefaultMaxAttempts = 5
	DefaultLockout     = 15 * time.Minute
)

// Config holds throttle configuration with environment variable support.
type Config struct {
	// Window is the sliding interval inside which failures are counted.
	Window time.Duration `env:"LOGIN_THROTTLE_WINDOW" envDefault:"15m"`

	// MaxAttempts is the number of failures within Window that triggers a lockout.
	MaxAttempts int `env:"LOGIN_THROTTLE_MAX_ATTEMPTS" envDefault:"5"`

	// Lockout is how long a key stays blocked after the threshold is reached.
	Lockout time.Duration `env:"LOGIN_THROTTLE_LOCKOUT" envDefault:"15m"`
}

// normalize applies defaults and floors.
func (c Config) normalize() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Lockout <= 0 {
		c.Lockout = DefaultLockout
	}

	c.Window = max(c.Window, MinWindow)
	c.MaxAttempts = max(c.MaxAttempts, MinMaxAttempts)
	c.Lockout = max(c.Lockout, MinLockout)
	return c
}
