// FILE: sensormerge/src/internal/config/config.go
package config

// Config is the complete sensormerge configuration
type Config struct {
	// Suppress all console output, including errors
	Quiet bool `toml:"quiet"`

	// Input files
	Inputs InputsConfig `toml:"inputs"`

	// Merge behavior
	Merge MergeConfig `toml:"merge"`

	// Pre-merge entry selection, applied to both inputs
	Filters []FilterConfig `toml:"filters"`

	// Default encoding for console and file sinks
	Output OutputConfig `toml:"output"`

	// Optional delivery targets for the merged result
	Sinks []SinkConfig `toml:"sinks"`

	// Run statistics export
	Metrics MetricsConfig `toml:"metrics"`

	// Application logging
	Logging *LogConfig `toml:"logging"`
}

type InputsConfig struct {
	// First required JSON array of entries
	Primary string `toml:"primary"`

	// Second required JSON array of entries
	Secondary string `toml:"secondary"`

	// Optional expected result used for self-verification
	Expected string `toml:"expected"`
}

// Missing timestamp policies
const (
	MissingTimestampKeep = "keep"
	MissingTimestampDrop = "drop"
)

type MergeConfig struct {
	// "keep": entries without timestamp sort last; "drop": they are not emitted
	MissingTimestamp string `toml:"missing_timestamp"`

	// Normalization parallelism; 1 runs inline
	Workers int64 `toml:"workers"`
}

type OutputConfig struct {
	// Format: "json", "ndjson", "yaml"
	Format string `toml:"format"`

	// Indent JSON output
	Pretty bool `toml:"pretty"`
}

type MetricsConfig struct {
	// Path of a node-exporter textfile; empty disables export
	Textfile string `toml:"textfile"`

	// Metric name prefix
	Namespace string `toml:"namespace"`
}

func defaults() *Config {
	return &Config{
		Inputs: InputsConfig{
			Primary:   "data-1.json",
			Secondary: "data-2.json",
			Expected:  "data-result.json",
		},
		Merge: MergeConfig{
			MissingTimestamp: MissingTimestampKeep,
			Workers:          1,
		},
		Output: OutputConfig{
			Format: "json",
			Pretty: true,
		},
		Metrics: MetricsConfig{
			Namespace: "sensormerge",
		},
		Logging: DefaultLogConfig(),
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return defaults()
}
