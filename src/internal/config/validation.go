// FILE: sensormerge/src/internal/config/validation.go
package config

import (
	"fmt"
	"net/url"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// ValidateConfig is the centralized validator for the entire configuration.
// Sink defaults are applied before their options are checked.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateInputs(&cfg.Inputs); err != nil {
		return fmt.Errorf("inputs: %w", err)
	}

	if err := validateMerge(&cfg.Merge); err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	for i := range cfg.Filters {
		if err := validateFilter(i, &cfg.Filters[i]); err != nil {
			return err
		}
	}

	if err := validateFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if cfg.Logging == nil {
		return fmt.Errorf("logging config is nil")
	}
	if err := validateLogConfig(cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	for i := range cfg.Sinks {
		cfg.Sinks[i].ApplyDefaults()
		if err := validateSinkConfig(i, &cfg.Sinks[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateInputs(in *InputsConfig) error {
	if err := lconfig.NonEmpty(in.Primary); err != nil {
		return fmt.Errorf("primary input path is required")
	}
	if err := lconfig.NonEmpty(in.Secondary); err != nil {
		return fmt.Errorf("secondary input path is required")
	}
	// Expected is optional
	return nil
}

func validateMerge(m *MergeConfig) error {
	switch m.MissingTimestamp {
	case MissingTimestampKeep, MissingTimestampDrop:
	default:
		return fmt.Errorf("invalid missing_timestamp '%s' (must be '%s' or '%s')",
			m.MissingTimestamp, MissingTimestampKeep, MissingTimestampDrop)
	}

	if m.Workers < 1 {
		return fmt.Errorf("workers must be at least 1: %d", m.Workers)
	}
	return nil
}

func validateFormat(name string) error {
	switch name {
	case "json", "ndjson", "yaml", "":
		return nil
	default:
		return fmt.Errorf("unknown format '%s' (valid: json, ndjson, yaml)", name)
	}
}

// validateSinkConfig validates typed sink configuration
func validateSinkConfig(index int, s *SinkConfig) error {
	if err := lconfig.NonEmpty(s.Type); err != nil {
		return fmt.Errorf("sink[%d]: missing type", index)
	}

	switch s.Type {
	case "console":
		return validateConsoleSink(index, s.Console)
	case "file":
		if s.File == nil {
			return fmt.Errorf("sink[%d]: file sink requires [sinks.file] options", index)
		}
		return validateFileSink(index, s.File)
	case "archive":
		return validateArchiveSink(index, s.Archive)
	case "http":
		if s.HTTP == nil {
			return fmt.Errorf("sink[%d]: http sink requires [sinks.http] options", index)
		}
		return validateHTTPSink(index, s.HTTP)
	case "kafka":
		if s.Kafka == nil {
			return fmt.Errorf("sink[%d]: kafka sink requires [sinks.kafka] options", index)
		}
		return validateKafkaSink(index, s.Kafka)
	case "mqtt":
		if s.MQTT == nil {
			return fmt.Errorf("sink[%d]: mqtt sink requires [sinks.mqtt] options", index)
		}
		return validateMQTTSink(index, s.MQTT)
	default:
		return fmt.Errorf("sink[%d]: unknown type '%s'", index, s.Type)
	}
}

func validateConsoleSink(index int, opts *ConsoleSinkOptions) error {
	switch opts.Target {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("sink[%d]: invalid console target '%s'", index, opts.Target)
	}

	switch opts.Pretty {
	case PrettyAuto, PrettyAlways, PrettyNever:
	default:
		return fmt.Errorf("sink[%d]: invalid pretty mode '%s' (valid: auto, always, never)", index, opts.Pretty)
	}
	return nil
}

func validateFileSink(index int, opts *FileSinkOptions) error {
	if err := lconfig.NonEmpty(opts.Path); err != nil {
		return fmt.Errorf("sink[%d]: file requires 'path'", index)
	}
	if err := validateFormat(opts.Format); err != nil {
		return fmt.Errorf("sink[%d]: %w", index, err)
	}
	return nil
}

func validateArchiveSink(index int, opts *ArchiveSinkOptions) error {
	if err := lconfig.NonEmpty(opts.Directory); err != nil {
		return fmt.Errorf("sink[%d]: archive requires 'directory'", index)
	}

	if err := lconfig.NonEmpty(opts.Name); err != nil {
		return fmt.Errorf("sink[%d]: archive requires 'name'", index)
	}

	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("sink[%d]: max_size_mb cannot be negative", index)
	}

	if opts.MaxTotalSizeMB < 0 {
		return fmt.Errorf("sink[%d]: max_total_size_mb cannot be negative", index)
	}

	if opts.MinDiskFreeMB < 0 {
		return fmt.Errorf("sink[%d]: min_disk_free_mb cannot be negative", index)
	}

	if opts.RetentionHours < 0 {
		return fmt.Errorf("sink[%d]: retention_hours cannot be negative", index)
	}

	return nil
}

func validateHTTPSink(index int, opts *HTTPSinkOptions) error {
	if err := lconfig.NonEmpty(opts.URL); err != nil {
		return fmt.Errorf("sink[%d]: http requires 'url'", index)
	}

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return fmt.Errorf("sink[%d]: invalid URL: %w", index, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("sink[%d]: URL must use http or https scheme", index)
	}

	if opts.BatchSize < 1 {
		return fmt.Errorf("sink[%d]: batch_size must be positive", index)
	}
	if opts.Timeout < 1 {
		return fmt.Errorf("sink[%d]: timeout_seconds must be positive", index)
	}
	if opts.MaxRetries != nil && *opts.MaxRetries < 0 {
		return fmt.Errorf("sink[%d]: max_retries cannot be negative", index)
	}
	if opts.RetryBackoff < 1.0 {
		return fmt.Errorf("sink[%d]: retry_backoff must be >= 1.0", index)
	}
	if opts.RequestsPerSecond < 0 {
		return fmt.Errorf("sink[%d]: requests_per_second cannot be negative", index)
	}
	if opts.Burst < 1 {
		return fmt.Errorf("sink[%d]: burst must be positive", index)
	}

	if opts.JWT != nil {
		if err := lconfig.NonEmpty(opts.JWT.Secret); err != nil {
			return fmt.Errorf("sink[%d]: jwt requires 'secret'", index)
		}
		if opts.JWT.TTLSeconds < 1 {
			return fmt.Errorf("sink[%d]: jwt ttl_seconds must be positive", index)
		}
	}

	return nil
}

func validateKafkaSink(index int, opts *KafkaSinkOptions) error {
	if len(opts.Brokers) == 0 {
		return fmt.Errorf("sink[%d]: kafka requires at least one broker", index)
	}
	for j, broker := range opts.Brokers {
		if err := lconfig.NonEmpty(broker); err != nil {
			return fmt.Errorf("sink[%d]: kafka broker[%d] is empty", index, j)
		}
	}
	if err := lconfig.NonEmpty(opts.Topic); err != nil {
		return fmt.Errorf("sink[%d]: kafka requires 'topic'", index)
	}
	if opts.BatchSize < 1 {
		return fmt.Errorf("sink[%d]: batch_size must be positive", index)
	}
	if opts.WriteTimeoutMS < 1 {
		return fmt.Errorf("sink[%d]: write_timeout_ms must be positive", index)
	}
	return nil
}

func validateMQTTSink(index int, opts *MQTTSinkOptions) error {
	if err := lconfig.NonEmpty(opts.Broker); err != nil {
		return fmt.Errorf("sink[%d]: mqtt requires 'broker'", index)
	}
	if !strings.Contains(opts.Broker, "://") {
		return fmt.Errorf("sink[%d]: mqtt broker must include a scheme (tcp://, ssl://, ws://)", index)
	}
	if opts.QoS < 0 || opts.QoS > 2 {
		return fmt.Errorf("sink[%d]: qos must be 0, 1 or 2", index)
	}
	if strings.ContainsAny(opts.Topic, "#+") {
		return fmt.Errorf("sink[%d]: mqtt topic cannot contain wildcards", index)
	}
	if opts.TimeoutMS < 1 {
		return fmt.Errorf("sink[%d]: timeout_ms must be positive", index)
	}
	return nil
}
