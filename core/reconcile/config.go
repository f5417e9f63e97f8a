package reconcile

import "time"

// DefaultIdentifierPattern matches a job number: nine digits followed by "CL".
const DefaultIdentifierPattern = `^[0-9]{9}CL$`

// DefaultMinExecutionTime is the shortest time a Runner takes to deliver an outcome.
const DefaultMinExecutionTime = 400 * time.Millisecond

// Config holds the tunables of the reconciliation core.
type Config struct {
	// MinExecutionTime pads fast runs so a loading indicator does not flicker.
	MinExecutionTime time.Duration `mapstructure:"min_execution_time" default:"400ms"`
	// IdentifierPattern is the regular expression a cell must match to be
	// treated as a per-row identifier.
	IdentifierPattern string `mapstructure:"identifier_pattern" default:"^[0-9]{9}CL$"`
	// Delimiter is the field separator of the snapshot files.
	Delimiter string `mapstructure:"delimiter" default:","`
	// StrictWidth rejects snapshots whose rows do not match the header width.
	StrictWidth bool `mapstructure:"strict_width" default:"false"`
	// CacheTTL keeps results for unchanged file pairs. Zero disables caching.
	CacheTTL time.Duration `mapstructure:"cache_ttl" default:"0s"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		MinExecutionTime:  DefaultMinExecutionTime,
		IdentifierPattern: DefaultIdentifierPattern,
		Delimiter:         ",",
	}
}

// delimiterRune returns the first rune of Delimiter, or a comma.
func (c Config) delimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}
