// FILE: sensormerge/src/internal/sink/mqtt.go
package sink

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/lixenwraith/log"
)

// SensorPlaceholder is substituted in MQTT topic templates
const SensorPlaceholder = "{sensor}"

// publisher is the subset of mqtt.Client used by the sink
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink publishes each merged entry to a per-sensor topic
type MQTTSink struct {
	config    *config.MQTTSinkOptions
	run       RunInfo
	client    mqtt.Client
	publisher publisher
	logger    *log.Logger
	startTime time.Time

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewMQTTSink creates an MQTT sink; the broker connection is made on first write
func NewMQTTSink(opts *config.MQTTSinkOptions, run RunInfo, logger *log.Logger) (*MQTTSink, error) {
	if opts == nil {
		return nil, fmt.Errorf("mqtt sink options cannot be nil")
	}

	clientOpts := mqtt.NewClientOptions().AddBroker(opts.Broker)
	clientOpts.SetClientID(opts.ClientID)
	clientOpts.SetConnectTimeout(time.Duration(opts.TimeoutMS) * time.Millisecond)
	clientOpts.SetAutoReconnect(false)
	clientOpts.SetOrderMatters(true)
	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
		clientOpts.SetPassword(opts.Password)
	}

	ms := &MQTTSink{
		config:    opts,
		run:       run,
		client:    mqtt.NewClient(clientOpts),
		logger:    logger,
		startTime: time.Now(),
	}
	ms.lastProcessed.Store(time.Time{})

	return ms, nil
}

func (ms *MQTTSink) connect() error {
	if ms.publisher != nil {
		return nil
	}

	timeout := time.Duration(ms.config.TimeoutMS) * time.Millisecond
	token := ms.client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("connect to %s timed out", ms.config.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to %s: %w", ms.config.Broker, err)
	}

	ms.publisher = ms.client
	ms.logger.Debug("msg", "Connected to MQTT broker",
		"component", "mqtt_sink",
		"broker", ms.config.Broker,
		"client_id", ms.config.ClientID)
	return nil
}

func (ms *MQTTSink) Write(ctx context.Context, entries []core.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	if err := ms.connect(); err != nil {
		ms.totalFailed.Add(uint64(len(entries)))
		ms.logger.Error("msg", "MQTT connection failed",
			"component", "mqtt_sink",
			"error", err)
		return fmt.Errorf("mqtt sink: %w", err)
	}

	timeout := time.Duration(ms.config.TimeoutMS) * time.Millisecond
	failed := 0
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			unsent := len(entries) - i
			ms.totalFailed.Add(uint64(failed + unsent))
			ms.logger.Warn("msg", "Publishing cancelled",
				"component", "mqtt_sink",
				"unsent", unsent,
				"error", err)
			return fmt.Errorf("mqtt sink: %d of %d entries not published: %w",
				failed+unsent, len(entries), err)
		}

		payload, err := entry.MarshalJSON()
		if err != nil {
			failed++
			ms.logger.Warn("msg", "Failed to encode entry",
				"component", "mqtt_sink",
				"index", i,
				"error", err)
			continue
		}

		sensor, _ := entry.Sensor()
		topic := ms.topicFor(sensor)

		token := ms.publisher.Publish(topic, byte(ms.config.QoS), ms.config.Retained, payload)
		if !token.WaitTimeout(timeout) {
			err = fmt.Errorf("publish timed out")
		} else {
			err = token.Error()
		}
		if err != nil {
			failed++
			ms.logger.Warn("msg", "Failed to publish entry",
				"component", "mqtt_sink",
				"index", i,
				"topic", topic,
				"error", err)
			continue
		}
		ms.totalProcessed.Add(1)
	}
	ms.lastProcessed.Store(time.Now())

	if failed > 0 {
		ms.totalFailed.Add(uint64(failed))
		return fmt.Errorf("mqtt sink: %d of %d entries not published", failed, len(entries))
	}

	ms.logger.Info("msg", "Result published to MQTT",
		"component", "mqtt_sink",
		"broker", ms.config.Broker,
		"messages", len(entries),
		"run_id", ms.run.RunID)
	return nil
}

// topicFor renders the topic template; entries without a sensor use "unknown"
func (ms *MQTTSink) topicFor(sensor string) string {
	if sensor == "" {
		sensor = "unknown"
	}
	// Wildcards and separators are not valid inside a topic level
	sensor = strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(sensor)
	return strings.ReplaceAll(ms.config.Topic, SensorPlaceholder, sensor)
}

func (ms *MQTTSink) Stop() {
	if ms.client != nil && ms.client.IsConnected() {
		ms.client.Disconnect(250)
	}
	ms.logger.Debug("msg", "MQTT sink stopped", "component", "mqtt_sink")
}

func (ms *MQTTSink) GetStats() SinkStats {
	lastProc, _ := ms.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:           "mqtt",
		TotalProcessed: ms.totalProcessed.Load(),
		TotalFailed:    ms.totalFailed.Load(),
		StartTime:      ms.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"broker": ms.config.Broker,
			"topic":  ms.config.Topic,
			"qos":    ms.config.QoS,
		},
	}
}
