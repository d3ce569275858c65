// FILE: sensormerge/src/internal/config/sink.go
package config

// SinkConfig represents an output destination for the merged result
type SinkConfig struct {
	// Sink type: "console", "file", "archive", "http", "kafka", "mqtt"
	Type string `toml:"type"`

	// Type-specific options, only the one matching Type is read
	Console *ConsoleSinkOptions `toml:"console"`
	File    *FileSinkOptions    `toml:"file"`
	Archive *ArchiveSinkOptions `toml:"archive"`
	HTTP    *HTTPSinkOptions    `toml:"http"`
	Kafka   *KafkaSinkOptions   `toml:"kafka"`
	MQTT    *MQTTSinkOptions    `toml:"mqtt"`
}

// Console pretty modes
const (
	PrettyAuto   = "auto"
	PrettyAlways = "always"
	PrettyNever  = "never"
)

type ConsoleSinkOptions struct {
	Target string `toml:"target"` // "stdout" or "stderr"
	Pretty string `toml:"pretty"` // "auto" indents only when writing to a terminal
}

type FileSinkOptions struct {
	Path   string `toml:"path"`
	Format string `toml:"format"` // overrides [output].format
}

// ArchiveSinkOptions configures a rotating NDJSON archive
type ArchiveSinkOptions struct {
	Directory      string  `toml:"directory"`
	Name           string  `toml:"name"`
	MaxSizeMB      int64   `toml:"max_size_mb"`
	MaxTotalSizeMB int64   `toml:"max_total_size_mb"`
	MinDiskFreeMB  int64   `toml:"min_disk_free_mb"`
	RetentionHours float64 `toml:"retention_hours"`
}

type HTTPSinkOptions struct {
	URL                string            `toml:"url"`
	BatchSize          int64             `toml:"batch_size"`
	Timeout            int64             `toml:"timeout_seconds"`
	MaxRetries         *int64            `toml:"max_retries"` // unset defaults to 3, 0 disables retries
	RetryDelayMS       int64             `toml:"retry_delay_ms"`
	RetryBackoff       float64           `toml:"retry_backoff"`
	RequestsPerSecond  float64           `toml:"requests_per_second"` // 0 = unlimited
	Burst              int64             `toml:"burst"`
	InsecureSkipVerify bool              `toml:"insecure_skip_verify"`
	Headers            map[string]string `toml:"headers"`
	JWT                *JWTOptions       `toml:"jwt"`
}

// JWTOptions signs an HS256 bearer token for each request
type JWTOptions struct {
	Secret     string `toml:"secret"`
	Issuer     string `toml:"issuer"`
	Subject    string `toml:"subject"`
	Audience   string `toml:"audience"`
	TTLSeconds int64  `toml:"ttl_seconds"`
}

type KafkaSinkOptions struct {
	Brokers        []string `toml:"brokers"`
	Topic          string   `toml:"topic"`
	BatchSize      int64    `toml:"batch_size"`
	WriteTimeoutMS int64    `toml:"write_timeout_ms"`
}

type MQTTSinkOptions struct {
	Broker    string `toml:"broker"`
	ClientID  string `toml:"client_id"`
	Topic     string `toml:"topic"` // "{sensor}" is replaced by the entry's sensor
	QoS       int64  `toml:"qos"`
	Retained  bool   `toml:"retained"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	TimeoutMS int64  `toml:"timeout_ms"`
}

// ApplyDefaults fills unset numeric options with working values
func (s *SinkConfig) ApplyDefaults() {
	switch s.Type {
	case "console":
		if s.Console == nil {
			s.Console = &ConsoleSinkOptions{}
		}
		if s.Console.Target == "" {
			s.Console.Target = "stdout"
		}
		if s.Console.Pretty == "" {
			s.Console.Pretty = PrettyAuto
		}

	case "archive":
		if s.Archive == nil {
			s.Archive = &ArchiveSinkOptions{}
		}
		if s.Archive.Directory == "" {
			s.Archive.Directory = "./archive"
		}
		if s.Archive.Name == "" {
			s.Archive.Name = "sensormerge"
		}
		if s.Archive.MaxSizeMB == 0 {
			s.Archive.MaxSizeMB = 100
		}
		if s.Archive.MaxTotalSizeMB == 0 {
			s.Archive.MaxTotalSizeMB = 1000
		}
		if s.Archive.RetentionHours == 0 {
			s.Archive.RetentionHours = 720
		}

	case "http":
		if s.HTTP == nil {
			return
		}
		if s.HTTP.BatchSize == 0 {
			s.HTTP.BatchSize = 500
		}
		if s.HTTP.Timeout == 0 {
			s.HTTP.Timeout = 30
		}
		if s.HTTP.MaxRetries == nil {
			retries := int64(3)
			s.HTTP.MaxRetries = &retries
		}
		if s.HTTP.RetryDelayMS == 0 {
			s.HTTP.RetryDelayMS = 1000
		}
		if s.HTTP.RetryBackoff == 0 {
			s.HTTP.RetryBackoff = 2.0
		}
		if s.HTTP.Burst == 0 {
			s.HTTP.Burst = 1
		}
		if s.HTTP.JWT != nil && s.HTTP.JWT.TTLSeconds == 0 {
			s.HTTP.JWT.TTLSeconds = 300
		}

	case "kafka":
		if s.Kafka == nil {
			return
		}
		if s.Kafka.BatchSize == 0 {
			s.Kafka.BatchSize = 100
		}
		if s.Kafka.WriteTimeoutMS == 0 {
			s.Kafka.WriteTimeoutMS = 10000
		}

	case "mqtt":
		if s.MQTT == nil {
			return
		}
		if s.MQTT.ClientID == "" {
			s.MQTT.ClientID = "sensormerge"
		}
		if s.MQTT.Topic == "" {
			s.MQTT.Topic = "sensors/{sensor}"
		}
		if s.MQTT.TimeoutMS == 0 {
			s.MQTT.TimeoutMS = 5000
		}
	}
}
