// FILE: sensormerge/src/internal/sink/http.go
package sink

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"
	"sensormerge/src/internal/format"
	"sensormerge/src/internal/version"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// HTTP headers attached to every batch
const (
	HeaderRunID      = "X-Run-ID"
	HeaderDigest     = "X-Content-Digest"
	HeaderBatchIndex = "X-Batch-Index"
	HeaderBatchCount = "X-Batch-Count"
)

// HTTPSink posts the merged result to a collector as JSON array batches.
type HTTPSink struct {
	// Configuration
	config     *config.HTTPSinkOptions
	run        RunInfo
	maxRetries int64

	// Network
	client  *fasthttp.Client
	limiter *rate.Limiter

	// Application
	formatter format.Formatter
	logger    *log.Logger
	startTime time.Time

	// Statistics
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	totalBatches   atomic.Uint64
	failedBatches  atomic.Uint64
	totalRetries   atomic.Uint64
	lastProcessed  atomic.Value // time.Time
	lastBatchSent  atomic.Value // time.Time
}

// NewHTTPSink creates a new HTTP sink.
func NewHTTPSink(opts *config.HTTPSinkOptions, run RunInfo, logger *log.Logger) (*HTTPSink, error) {
	if opts == nil {
		return nil, fmt.Errorf("HTTP sink options cannot be nil")
	}

	h := &HTTPSink{
		config:    opts,
		run:       run,
		formatter: format.NewJSONFormatter(false, logger),
		logger:    logger,
		startTime: time.Now(),
	}
	h.lastProcessed.Store(time.Time{})
	h.lastBatchSent.Store(time.Time{})

	if opts.MaxRetries != nil {
		h.maxRetries = *opts.MaxRetries
	}

	h.client = &fasthttp.Client{
		MaxConnsPerHost:               10,
		MaxIdleConnDuration:           10 * time.Second,
		ReadTimeout:                   time.Duration(opts.Timeout) * time.Second,
		WriteTimeout:                  time.Duration(opts.Timeout) * time.Second,
		DisableHeaderNamesNormalizing: true,
	}

	if strings.HasPrefix(opts.URL, "https://") && opts.InsecureSkipVerify {
		h.client.TLSConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
		logger.Warn("msg", "TLS verification disabled for HTTP sink",
			"component", "http_sink",
			"url", opts.URL)
	}

	if opts.RequestsPerSecond > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), int(opts.Burst))
	}

	return h, nil
}

// Write splits entries into batches and sends them in order. Every batch is
// attempted; the returned error reports how many were not delivered.
func (h *HTTPSink) Write(ctx context.Context, entries []core.Entry) error {
	batchSize := int(h.config.BatchSize)
	if batchSize < 1 {
		batchSize = len(entries)
	}

	batchCount := 0
	if len(entries) > 0 {
		batchCount = (len(entries) + batchSize - 1) / batchSize
	}

	h.logger.Debug("msg", "HTTP sink delivering result",
		"component", "http_sink",
		"url", h.config.URL,
		"entries", len(entries),
		"batches", batchCount,
		"run_id", h.run.RunID)

	failed := 0
	for i := 0; i < batchCount; i++ {
		start := i * batchSize
		batch := entries[start:min(start+batchSize, len(entries))]

		if h.limiter != nil {
			if err := h.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("http sink: %w", err)
			}
		}

		if err := h.sendBatch(ctx, batch, i, batchCount); err != nil {
			failed++
			h.failedBatches.Add(1)
			h.totalFailed.Add(uint64(len(batch)))
			continue
		}
		h.totalProcessed.Add(uint64(len(batch)))
		h.lastProcessed.Store(time.Now())
	}

	if failed > 0 {
		return fmt.Errorf("http sink: %d of %d batches failed", failed, batchCount)
	}
	return nil
}

// sendBatch sends one batch with retry logic.
func (h *HTTPSink) sendBatch(ctx context.Context, batch []core.Entry, index, count int) error {
	h.totalBatches.Add(1)
	h.lastBatchSent.Store(time.Now())

	body, err := h.formatter.Format(batch)
	if err != nil {
		h.logger.Error("msg", "Failed to format batch",
			"component", "http_sink",
			"error", err,
			"batch_size", len(batch))
		return err
	}

	var lastErr error
	timeout := time.Duration(h.config.Timeout) * time.Second
	retryDelay := time.Duration(h.config.RetryDelayMS) * time.Millisecond

	for attempt := int64(0); attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			h.totalRetries.Add(1)

			// Wait before retry
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}

			// Calculate new delay with overflow protection
			newDelay := time.Duration(float64(retryDelay) * h.config.RetryBackoff)
			if newDelay > timeout || newDelay < retryDelay {
				retryDelay = timeout
			} else {
				retryDelay = newDelay
			}
		}

		// Acquire resources inside loop, release immediately after use
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()

		if err := h.prepareRequest(req, body, index, count); err != nil {
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
			return err
		}

		err := h.client.DoTimeout(req, resp, timeout)

		// Capture response before releasing
		statusCode := resp.StatusCode()
		var responseBody []byte
		if len(resp.Body()) > 0 {
			responseBody = make([]byte, len(resp.Body()))
			copy(responseBody, resp.Body())
		}

		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			h.logger.Warn("msg", "HTTP request failed",
				"component", "http_sink",
				"attempt", attempt+1,
				"max_retries", h.maxRetries,
				"error", err)
			continue
		}

		if statusCode >= 200 && statusCode < 300 {
			h.logger.Debug("msg", "Batch sent successfully",
				"component", "http_sink",
				"batch_index", index,
				"batch_size", len(batch),
				"status_code", statusCode,
				"attempt", attempt+1)
			return nil
		}

		lastErr = fmt.Errorf("server returned status %d: %s", statusCode, responseBody)

		// Don't retry on 4xx errors (client errors)
		if statusCode >= 400 && statusCode < 500 {
			h.logger.Error("msg", "Batch rejected by server",
				"component", "http_sink",
				"status_code", statusCode,
				"response", string(responseBody),
				"batch_size", len(batch))
			return lastErr
		}

		h.logger.Warn("msg", "Server returned error status",
			"component", "http_sink",
			"attempt", attempt+1,
			"status_code", statusCode,
			"response", string(responseBody))
	}

	h.logger.Error("msg", "Failed to send batch after all retries",
		"component", "http_sink",
		"batch_size", len(batch),
		"retries", h.maxRetries,
		"last_error", lastErr)
	return lastErr
}

func (h *HTTPSink) prepareRequest(req *fasthttp.Request, body []byte, index, count int) error {
	req.SetRequestURI(h.config.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(h.formatter.ContentType())
	req.SetBody(body)

	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(HeaderBatchIndex, strconv.Itoa(index))
	req.Header.Set(HeaderBatchCount, strconv.Itoa(count))
	if h.run.RunID != "" {
		req.Header.Set(HeaderRunID, h.run.RunID)
	}
	if h.run.Digest != "" {
		req.Header.Set(HeaderDigest, "blake2b-256="+h.run.Digest)
	}

	for k, v := range h.config.Headers {
		req.Header.Set(k, v)
	}

	if h.config.JWT != nil {
		token, err := h.signToken(time.Now())
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// signToken issues a short-lived HS256 token bound to the run ID
func (h *HTTPSink) signToken(now time.Time) (string, error) {
	opts := h.config.JWT
	claims := jwt.RegisteredClaims{
		Issuer:    opts.Issuer,
		Subject:   opts.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(opts.TTLSeconds) * time.Second)),
		ID:        h.run.RunID,
	}
	if opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{opts.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(opts.Secret))
}

func (h *HTTPSink) Stop() {
	h.client.CloseIdleConnections()
	h.logger.Debug("msg", "HTTP sink stopped",
		"component", "http_sink",
		"total_processed", h.totalProcessed.Load(),
		"total_batches", h.totalBatches.Load(),
		"failed_batches", h.failedBatches.Load())
}

// GetStats returns the sink's statistics.
func (h *HTTPSink) GetStats() SinkStats {
	lastProc, _ := h.lastProcessed.Load().(time.Time)
	lastBatch, _ := h.lastBatchSent.Load().(time.Time)

	return SinkStats{
		Type:           "http",
		TotalProcessed: h.totalProcessed.Load(),
		TotalFailed:    h.totalFailed.Load(),
		StartTime:      h.startTime,
		LastProcessed:  lastProc,
		Details: map[string]any{
			"url":             h.config.URL,
			"batch_size":      h.config.BatchSize,
			"total_batches":   h.totalBatches.Load(),
			"failed_batches":  h.failedBatches.Load(),
			"total_retries":   h.totalRetries.Load(),
			"last_batch_sent": lastBatch,
			"rate_limited":    h.limiter != nil,
			"run_id":          h.run.RunID,
		},
	}
}
