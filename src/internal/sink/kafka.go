// FILE: sensormerge/src/internal/sink/kafka.go
package sink

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer used by the sink
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes one message per entry, keyed by sensor so that a
// sensor's readings land on one partition in merged order
type KafkaSink struct {
	config    *config.KafkaSinkOptions
	run       RunInfo
	writer    messageWriter
	logger    *log.Logger
	startTime time.Time

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewKafkaSink creates a Kafka producer sink; connections are opened on first write
func NewKafkaSink(opts *config.KafkaSinkOptions, run RunInfo, logger *log.Logger) (*KafkaSink, error) {
	if opts == nil {
		return nil, fmt.Errorf("kafka sink options cannot be nil")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(opts.Brokers...),
		Topic:                  opts.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		BatchSize:              int(opts.BatchSize),
		WriteTimeout:           time.Duration(opts.WriteTimeoutMS) * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return newKafkaSink(opts, run, writer, logger), nil
}

func newKafkaSink(opts *config.KafkaSinkOptions, run RunInfo, writer messageWriter, logger *log.Logger) *KafkaSink {
	ks := &KafkaSink{
		config:    opts,
		run:       run,
		writer:    writer,
		logger:    logger,
		startTime: time.Now(),
	}
	ks.lastProcessed.Store(time.Time{})
	return ks
}

func (ks *KafkaSink) Write(ctx context.Context, entries []core.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	msgs, err := ks.buildMessages(entries)
	if err != nil {
		ks.totalFailed.Add(uint64(len(entries)))
		return fmt.Errorf("kafka sink: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, time.Duration(ks.config.WriteTimeoutMS)*time.Millisecond)
	defer cancel()

	if err := ks.writer.WriteMessages(writeCtx, msgs...); err != nil {
		ks.totalFailed.Add(uint64(len(entries)))
		ks.logger.Error("msg", "Failed to publish to Kafka",
			"component", "kafka_sink",
			"topic", ks.config.Topic,
			"messages", len(msgs),
			"error", err)
		return fmt.Errorf("kafka sink: %w", err)
	}

	ks.totalProcessed.Add(uint64(len(entries)))
	ks.lastProcessed.Store(time.Now())

	ks.logger.Info("msg", "Result published to Kafka",
		"component", "kafka_sink",
		"topic", ks.config.Topic,
		"messages", len(msgs))
	return nil
}

// buildMessages maps entries to messages; the message time is taken from a
// millisecond timestamp when the entry has one
func (ks *KafkaSink) buildMessages(entries []core.Entry) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(entries))
	for i, entry := range entries {
		value, err := entry.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		msg := kafka.Message{Value: value}
		if sensor, err := entry.Sensor(); err == nil {
			msg.Key = []byte(sensor)
		}
		if ts := entry.Timestamp(); ts.Kind == core.TimestampMillis {
			msg.Time = time.UnixMilli(ts.Millis).UTC()
		}
		if ks.run.RunID != "" {
			msg.Headers = append(msg.Headers, kafka.Header{Key: "run_id", Value: []byte(ks.run.RunID)})
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (ks *KafkaSink) Stop() {
	if err := ks.writer.Close(); err != nil {
		ks.logger.Error("msg", "Error closing Kafka writer",
			"component", "kafka_sink",
			"error", err)
	}
	ks.logger.Debug("msg", "Kafka sink stopped", "component", "kafka_sink")
}

func (ks *KafkaSink) GetStats() SinkStats {
	lastProc, _ := ks.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "kafka",
		TotalProcessed: ks.totalProcessed.Load(),
		TotalFailed:    ks.totalFailed.Load(),
		StartTime:      ks.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"brokers": ks.config.Brokers,
			"topic":   ks.config.Topic,
		},
	}
}
