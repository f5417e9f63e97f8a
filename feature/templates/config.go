package templates

// Config holds configuration for the column-selection templates.
type Config struct {
	// File is the JSON file the templates are persisted to.
	File string `mapstructure:"file" default:"templates.json"`
	// DefaultSelect is the initial selection state of every column.
	DefaultSelect bool `mapstructure:"default_select" default:"false"`
}
