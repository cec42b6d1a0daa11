// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package ai

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/aerowatch/aerowatch/internal/config"
	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/metrics"
)

// Completer produces assistant replies for chat prompts. Stream invokes fn
// for each text chunk as it arrives and returns the assembled reply;
// Generate waits for the full reply.
type Completer interface {
	Stream(ctx context.Context, prompt string, fn func(chunk string) error) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient talks to the Gemini streaming REST API. Calls run behind a
// circuit breaker so a completion API outage fails fast.
type GeminiClient struct {
	cfg    *config.AIConfig
	client *http.Client
	cb     *gobreaker.CircuitBreaker[string]
	name   string
}

// NewGeminiClient creates a completion client from configuration.
func NewGeminiClient(cfg *config.AIConfig) *GeminiClient {
	cbName := "gemini"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("Completion API circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &GeminiClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cb:     cb,
		name:   cbName,
	}
}

// Request and response shapes for the generateContent REST API.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Stream sends the prompt to the model and feeds each reply chunk to fn as
// it arrives over the SSE response. Returns the full assembled reply.
func (c *GeminiClient) Stream(ctx context.Context, prompt string, fn func(chunk string) error) (string, error) {
	start := time.Now()
	reply, err := c.cb.Execute(func() (string, error) {
		return c.stream(ctx, prompt, fn)
	})
	switch {
	case err == nil:
		metrics.RecordUpstreamRequest(c.name, "success", time.Since(start))
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordUpstreamRequest(c.name, "rejected", time.Since(start))
	default:
		metrics.RecordUpstreamRequest(c.name, "failure", time.Since(start))
	}
	return reply, err
}

// Generate returns the full reply without incremental delivery.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Stream(ctx, prompt, nil)
}

func (c *GeminiClient) stream(ctx context.Context, prompt string, fn func(chunk string) error) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.cfg.Temperature,
			TopK:            c.cfg.TopK,
			TopP:            c.cfg.TopP,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?alt=sse",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach completion API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return readSSE(resp.Body, fn)
}

// readSSE consumes an SSE stream of generateContent chunks, invoking fn per
// text chunk and returning the concatenated reply.
func readSSE(r io.Reader, fn func(chunk string) error) (string, error) {
	var reply strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk generateResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return reply.String(), fmt.Errorf("failed to decode completion chunk: %w", err)
		}
		text := chunkText(&chunk)
		if text == "" {
			continue
		}
		reply.WriteString(text)
		if fn != nil {
			if err := fn(text); err != nil {
				return reply.String(), err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return reply.String(), fmt.Errorf("failed to read completion stream: %w", err)
	}
	return reply.String(), nil
}

func chunkText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
