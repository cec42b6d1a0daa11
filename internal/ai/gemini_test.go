// Aerowatch - Air Quality and Health Monitoring Backend
// Copyright 2026 Aerowatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aerowatch/aerowatch

package ai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/aerowatch/aerowatch/internal/config"
	"github.com/aerowatch/aerowatch/internal/logging"
	"github.com/aerowatch/aerowatch/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGeminiClient(&config.AIConfig{
		APIKey:          "test-key",
		Model:           "gemini-2.0-flash",
		BaseURL:         server.URL,
		Timeout:         2 * time.Second,
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.9,
		MaxOutputTokens: 512,
	})
}

func TestStreamAssemblesChunks(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, `data: {"candidates":[{"content":{"parts":[{"text":"Air quality "}]}}]}`+"\n\n")
		_, _ = io.WriteString(w, `data: {"candidates":[{"content":{"parts":[{"text":"is good."}]}}]}`+"\n\n")
	})

	var chunks []string
	reply, err := client.Stream(context.Background(), "Is the air safe?", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if reply != "Air quality is good." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:streamGenerateContent" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if gotReq.GenerationConfig.Temperature != 0.7 || gotReq.GenerationConfig.MaxOutputTokens != 512 {
		t.Fatalf("unexpected generation config %+v", gotReq.GenerationConfig)
	}
	if len(gotReq.Contents) != 1 || !strings.Contains(gotReq.Contents[0].Parts[0].Text, "Is the air safe?") {
		t.Fatalf("expected prompt in request contents, got %+v", gotReq.Contents)
	}
}

func TestStreamAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":"quota exceeded"}`)
	})

	_, err := client.Stream(context.Background(), "hello", nil)
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestStreamCallbackErrorStopsStream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `data: {"candidates":[{"content":{"parts":[{"text":"first"}]}}]}`+"\n\n")
		_, _ = io.WriteString(w, `data: {"candidates":[{"content":{"parts":[{"text":"second"}]}}]}`+"\n\n")
	})

	_, err := client.Stream(context.Background(), "hello", func(chunk string) error {
		return io.ErrClosedPipe
	})
	if err == nil {
		t.Fatal("expected callback error to propagate")
	}
}

func TestReadSSESkipsEmptyAndDone(t *testing.T) {
	stream := strings.NewReader(
		": comment\n" +
			"data:\n" +
			`data: {"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}` + "\n" +
			"data: [DONE]\n")

	reply, err := readSSE(stream, nil)
	if err != nil {
		t.Fatalf("readSSE: %v", err)
	}
	if reply != "hello" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Should I go outside?", PromptContext{
		Reading: &models.SensorReading{CO2: 450.5, NH3: 0.8, CO: 1.1, Smoke: 0.2},
		User: &models.User{Diseases: []models.Disease{
			{Name: "asthma"},
			{Name: "copd"},
		}},
		Vitals: &models.WearableReading{HeartRate: 72, SpO2: 97, BodyTemperature: 36.7},
	})

	for _, want := range []string{
		"CO2: 450.50 ppm",
		"asthma, copd",
		"Heart rate: 72 bpm",
		"User question: Should I go outside?",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptNoContext(t *testing.T) {
	prompt := BuildPrompt("What is PM2.5?", PromptContext{})
	if strings.Contains(prompt, "Current air quality readings") {
		t.Fatal("expected no sensor section without a reading")
	}
	if !strings.Contains(prompt, "What is PM2.5?") {
		t.Fatal("expected question in prompt")
	}
}
