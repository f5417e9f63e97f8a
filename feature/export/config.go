package export

// Config holds configuration for spreadsheet exports.
type Config struct {
	// AddedColor is the fill of rows only present in the second snapshot.
	AddedColor string `mapstructure:"added_color" default:"#248046"`
	// RemovedColor is the fill of rows only present in the first snapshot.
	RemovedColor string `mapstructure:"removed_color" default:"#DA373C"`
	// SheetName is the name of the worksheet.
	SheetName string `mapstructure:"sheet_name" default:"Comparison"`
}

// DefaultConfig returns the export configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		AddedColor:   "#248046",
		RemovedColor: "#DA373C",
		SheetName:    "Comparison",
	}
}
