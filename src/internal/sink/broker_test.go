// FILE: sensormerge/src/internal/sink/broker_test.go
package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"sensormerge/src/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKafkaWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeKafkaWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_Write(t *testing.T) {
	opts := &config.KafkaSinkOptions{Brokers: []string{"localhost:9092"}, Topic: "merged", WriteTimeoutMS: 1000}
	w := &fakeKafkaWriter{}
	ks := newKafkaSink(opts, RunInfo{RunID: "run-7"}, w, newTestLogger())

	require.NoError(t, ks.Write(context.Background(), testEntries(t)))
	require.Len(t, w.msgs, 2)

	assert.Equal(t, "B2", string(w.msgs[0].Key))
	assert.Equal(t, `{"sensor":"B2","timestamp":1704067201000}`, string(w.msgs[0].Value))
	assert.Equal(t, time.UnixMilli(1704067201000).UTC(), w.msgs[0].Time)
	require.Len(t, w.msgs[0].Headers, 1)
	assert.Equal(t, "run-7", string(w.msgs[0].Headers[0].Value))

	ks.Stop()
	assert.True(t, w.closed)
	assert.Equal(t, uint64(2), ks.GetStats().TotalProcessed)
}

func TestKafkaSink_WriteError(t *testing.T) {
	opts := &config.KafkaSinkOptions{Topic: "merged", WriteTimeoutMS: 1000}
	ks := newKafkaSink(opts, RunInfo{}, &fakeKafkaWriter{err: errors.New("broker down")}, newTestLogger())

	err := ks.Write(context.Background(), testEntries(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Equal(t, uint64(2), ks.GetStats().TotalFailed)
}

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type publishCall struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

type fakePublisher struct {
	calls     []publishCall
	fail      map[string]error
	onPublish func()
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.calls = append(p.calls, publishCall{topic: topic, qos: qos, retained: retained, payload: string(payload.([]byte))})
	if p.onPublish != nil {
		p.onPublish()
	}
	return &fakeToken{err: p.fail[topic]}
}

func newTestMQTTSink(t *testing.T, opts *config.MQTTSinkOptions, pub publisher) *MQTTSink {
	t.Helper()
	cfg := config.SinkConfig{Type: "mqtt", MQTT: opts}
	cfg.ApplyDefaults()
	ms, err := NewMQTTSink(cfg.MQTT, RunInfo{RunID: "run-9"}, newTestLogger())
	require.NoError(t, err)
	ms.publisher = pub
	return ms
}

func TestMQTTSink_Write(t *testing.T) {
	pub := &fakePublisher{}
	ms := newTestMQTTSink(t, &config.MQTTSinkOptions{Broker: "tcp://localhost:1883", QoS: 1, Retained: true}, pub)

	require.NoError(t, ms.Write(context.Background(), testEntries(t)))
	require.Len(t, pub.calls, 2)

	assert.Equal(t, "sensors/B2", pub.calls[0].topic)
	assert.Equal(t, byte(1), pub.calls[0].qos)
	assert.True(t, pub.calls[0].retained)
	assert.Equal(t, `{"sensor":"B2","timestamp":1704067201000}`, pub.calls[0].payload)
	assert.Equal(t, "sensors/A1", pub.calls[1].topic)

	ms.Stop()
	assert.Equal(t, uint64(2), ms.GetStats().TotalProcessed)
}

func TestMQTTSink_PartialFailure(t *testing.T) {
	pub := &fakePublisher{fail: map[string]error{"sensors/A1": errors.New("not authorized")}}
	ms := newTestMQTTSink(t, &config.MQTTSinkOptions{Broker: "tcp://localhost:1883"}, pub)

	err := ms.Write(context.Background(), testEntries(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 entries not published")

	stats := ms.GetStats()
	assert.Equal(t, uint64(1), stats.TotalProcessed)
	assert.Equal(t, uint64(1), stats.TotalFailed)
}

func TestMQTTSink_CancelledCountsUnsent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &fakePublisher{onPublish: cancel}
	ms := newTestMQTTSink(t, &config.MQTTSinkOptions{Broker: "tcp://localhost:1883"}, pub)

	err := ms.Write(ctx, testEntries(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "1 of 2 entries not published")
	assert.Len(t, pub.calls, 1)

	stats := ms.GetStats()
	assert.Equal(t, uint64(1), stats.TotalProcessed)
	assert.Equal(t, uint64(1), stats.TotalFailed)
}

func TestMQTTSink_TopicFor(t *testing.T) {
	ms := newTestMQTTSink(t, &config.MQTTSinkOptions{Broker: "tcp://localhost:1883", Topic: "plant/{sensor}/readings"}, &fakePublisher{})

	assert.Equal(t, "plant/A1/readings", ms.topicFor("A1"))
	assert.Equal(t, "plant/unknown/readings", ms.topicFor(""))
	assert.Equal(t, "plant/a_b_c/readings", ms.topicFor("a/b#c"))
}
