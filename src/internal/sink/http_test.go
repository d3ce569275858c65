// FILE: sensormerge/src/internal/sink/http_test.go
package sink

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"
	"sensormerge/src/internal/version"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type capturedRequest struct {
	body    string
	headers map[string]string
}

type collector struct {
	mu       sync.Mutex
	requests []capturedRequest
	statuses []int // status per call; the last one repeats
}

func (c *collector) handle(ctx *fasthttp.RequestCtx) {
	c.mu.Lock()
	defer c.mu.Unlock()

	headers := make(map[string]string)
	for _, name := range []string{"User-Agent", "Content-Type", "Authorization", HeaderRunID, HeaderDigest, HeaderBatchIndex, HeaderBatchCount, "X-Site"} {
		headers[name] = string(ctx.Request.Header.Peek(name))
	}
	c.requests = append(c.requests, capturedRequest{body: string(ctx.PostBody()), headers: headers})

	status := fasthttp.StatusOK
	if len(c.statuses) > 0 {
		idx := min(len(c.requests)-1, len(c.statuses)-1)
		status = c.statuses[idx]
	}
	ctx.SetStatusCode(status)
}

func startCollector(t *testing.T, c *collector) *fasthttputil.InmemoryListener {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	go func() {
		_ = fasthttp.Serve(ln, c.handle)
	}()
	t.Cleanup(func() { ln.Close() })
	return ln
}

func newTestHTTPSink(t *testing.T, ln *fasthttputil.InmemoryListener, opts *config.HTTPSinkOptions) *HTTPSink {
	t.Helper()
	cfg := config.SinkConfig{Type: "http", HTTP: opts}
	cfg.ApplyDefaults()

	h, err := NewHTTPSink(cfg.HTTP, RunInfo{RunID: "run-42", Digest: "abcd"}, newTestLogger())
	require.NoError(t, err)
	h.client.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
	return h
}

func TestHTTPSink_SendsBatches(t *testing.T) {
	c := &collector{}
	ln := startCollector(t, c)

	h := newTestHTTPSink(t, ln, &config.HTTPSinkOptions{
		URL:       "http://collector/ingest",
		BatchSize: 1,
		Headers:   map[string]string{"X-Site": "lab"},
	})

	require.NoError(t, h.Write(context.Background(), testEntries(t)))
	h.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	require.Len(t, c.requests, 2)

	first := c.requests[0]
	assert.Equal(t, `[{"sensor":"B2","timestamp":1704067201000}]`+"\n", first.body)
	assert.Equal(t, version.UserAgent(), first.headers["User-Agent"])
	assert.Equal(t, "application/json", first.headers["Content-Type"])
	assert.Equal(t, "run-42", first.headers[HeaderRunID])
	assert.Equal(t, "blake2b-256=abcd", first.headers[HeaderDigest])
	assert.Equal(t, "0", first.headers[HeaderBatchIndex])
	assert.Equal(t, "2", first.headers[HeaderBatchCount])
	assert.Equal(t, "lab", first.headers["X-Site"])
	assert.Empty(t, first.headers["Authorization"])

	assert.Equal(t, "1", c.requests[1].headers[HeaderBatchIndex])

	stats := h.GetStats()
	assert.Equal(t, uint64(2), stats.TotalProcessed)
	assert.Equal(t, uint64(2), stats.Details["total_batches"])
}

func TestHTTPSink_RetriesServerErrors(t *testing.T) {
	c := &collector{statuses: []int{fasthttp.StatusServiceUnavailable, fasthttp.StatusOK}}
	ln := startCollector(t, c)

	h := newTestHTTPSink(t, ln, &config.HTTPSinkOptions{
		URL:          "http://collector/ingest",
		RetryDelayMS: 1,
	})

	require.NoError(t, h.Write(context.Background(), testEntries(t)))

	c.mu.Lock()
	assert.Len(t, c.requests, 2)
	c.mu.Unlock()
	assert.Equal(t, uint64(1), h.GetStats().Details["total_retries"])
}

func TestHTTPSink_NoRetryOnClientError(t *testing.T) {
	c := &collector{statuses: []int{fasthttp.StatusBadRequest}}
	ln := startCollector(t, c)

	h := newTestHTTPSink(t, ln, &config.HTTPSinkOptions{
		URL:          "http://collector/ingest",
		RetryDelayMS: 1,
	})

	err := h.Write(context.Background(), testEntries(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 batches failed")

	c.mu.Lock()
	assert.Len(t, c.requests, 1)
	c.mu.Unlock()

	stats := h.GetStats()
	assert.Equal(t, uint64(2), stats.TotalFailed)
	assert.Equal(t, uint64(1), stats.Details["failed_batches"])
}

func TestHTTPSink_ZeroRetriesDisablesRetry(t *testing.T) {
	c := &collector{statuses: []int{fasthttp.StatusServiceUnavailable, fasthttp.StatusOK}}
	ln := startCollector(t, c)

	noRetries := int64(0)
	h := newTestHTTPSink(t, ln, &config.HTTPSinkOptions{
		URL:          "http://collector/ingest",
		MaxRetries:   &noRetries,
		RetryDelayMS: 1,
	})

	err := h.Write(context.Background(), testEntries(t))
	require.Error(t, err)

	c.mu.Lock()
	assert.Len(t, c.requests, 1)
	c.mu.Unlock()
	assert.Equal(t, uint64(0), h.GetStats().Details["total_retries"])
}

func TestHTTPSink_BearerToken(t *testing.T) {
	c := &collector{}
	ln := startCollector(t, c)

	h := newTestHTTPSink(t, ln, &config.HTTPSinkOptions{
		URL: "http://collector/ingest",
		JWT: &config.JWTOptions{
			Secret:   "test-secret",
			Issuer:   "sensormerge",
			Audience: "collector",
		},
		RequestsPerSecond: 100,
	})

	require.NoError(t, h.Write(context.Background(), testEntries(t)))

	c.mu.Lock()
	auth := c.requests[0].headers["Authorization"]
	c.mu.Unlock()
	require.True(t, strings.HasPrefix(auth, "Bearer "))

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims,
		func(token *jwt.Token) (any, error) { return []byte("test-secret"), nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience("collector"),
		jwt.WithIssuer("sensormerge"))
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "run-42", claims.ID)
}

func TestHTTPSink_EmptyResultSendsNothing(t *testing.T) {
	c := &collector{}
	ln := startCollector(t, c)

	h := newTestHTTPSink(t, ln, &config.HTTPSinkOptions{URL: "http://collector/ingest"})
	require.NoError(t, h.Write(context.Background(), []core.Entry{}))

	c.mu.Lock()
	assert.Empty(t, c.requests)
	c.mu.Unlock()
}

func TestHTTPSink_BodyIsJSONArray(t *testing.T) {
	c := &collector{}
	ln := startCollector(t, c)

	h := newTestHTTPSink(t, ln, &config.HTTPSinkOptions{URL: "http://collector/ingest"})
	require.NoError(t, h.Write(context.Background(), testEntries(t)))

	c.mu.Lock()
	body := c.requests[0].body
	c.mu.Unlock()

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Len(t, decoded, 2)
	assert.Equal(t, "A1", decoded[1]["sensor"])
}
