// Package meta implements the engine orchestrator that picks the cheapest way
// to decide a whole-string match.
//
// The engine coordinates three pieces:
//   - Exact literal set: decides the match alone when the pattern's language
//     is a small finite set of strings
//   - Required-literal prefilter: rejects texts missing every literal that a
//     match must contain (Aho-Corasick, optional)
//   - NFA (PikeVM): the general matcher, always available
//
// Strategy selection happens once at compile time from the extracted literals.
package meta

// Config controls engine behavior.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnablePrefilter = false // Force NFA-only execution
//	engine, err := meta.CompileWithConfig("a(b|c)*d", config)
type Config struct {
	// EnablePrefilter enables literal-based prefiltering.
	// When false, every search runs the NFA.
	// Default: true
	EnablePrefilter bool `yaml:"enable_prefilter"`

	// TrackPrefilter retires a required-literal prefilter that rejects too
	// few texts to pay for itself.
	// Default: true
	TrackPrefilter bool `yaml:"track_prefilter"`

	// MaxStates caps the number of NFA states a pattern may compile to.
	// Default: 10000
	MaxStates int `yaml:"max_states"`

	// MaxLiterals limits the size of extracted literal sets.
	// Default: 64
	MaxLiterals int `yaml:"max_literals"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter: true,
		TrackPrefilter:  true,
		MaxStates:       10000,
		MaxLiterals:     64,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxStates: 1 to 1,000,000
//   - MaxLiterals: 1 to 1,000 (only checked when the prefilter is enabled)
func (c Config) Validate() error {
	if c.MaxStates < 1 || c.MaxStates > 1_000_000 {
		return &ConfigError{
			Field:   "MaxStates",
			Message: "must be between 1 and 1,000,000",
		}
	}

	if c.EnablePrefilter {
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "thompson: invalid config: " + e.Field + ": " + e.Message
}
