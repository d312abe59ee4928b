package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
)

// Classifier is the external text-classification service contract. It is
// best-effort only: implementations may return malformed or incomplete
// text at any time, and callers must treat any error as a fallback case.
type Classifier interface {
	// Classify sends a prompt and returns the raw response text
	Classify(ctx context.Context, prompt string) (string, error)
	// Ready reports whether the classifier credential is configured
	Ready() error
}

const (
	classificationAPI = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent"
	maxRetries        = 3
	initialBackoff    = time.Second
	maxPromptLength   = 30000
)

// ErrMissingAPIKey indicates the classifier credential is not configured
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not set")

// GeminiClassifier calls the Gemini generateContent API over HTTP.
// The genai client is held for SDK-level setup; generation itself goes
// through the raw HTTP endpoint.
type GeminiClassifier struct {
	client     *genai.Client
	apiKey     string
	httpClient *http.Client
}

// NewGeminiClassifier creates a Gemini-backed classifier
func NewGeminiClassifier(client *genai.Client, apiKey string) *GeminiClassifier {
	return &GeminiClassifier{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Ready reports whether the API key is configured
func (g *GeminiClassifier) Ready() error {
	if g.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Classify sends the prompt to Gemini with retry and backoff, returning
// the concatenated candidate text
func (g *GeminiClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	if err := g.Ready(); err != nil {
		return "", err
	}

	// Truncate very long prompts to stay under context limits
	if len(prompt) > maxPromptLength {
		log.Printf("Warning: Prompt too long (%d chars), truncating to %d chars", len(prompt), maxPromptLength)
		prompt = prompt[:maxPromptLength] + "\n\n[Content truncated due to length...]"
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff *= 2
		}

		text, retryable, err := g.call(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", fmt.Errorf("classification failed after %d attempts: %w", maxRetries, lastErr)
}

// call performs one generateContent request. The second return value
// indicates whether the failure is worth retrying.
func (g *GeminiClassifier) call(ctx context.Context, prompt string) (string, bool, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", classificationAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// Client errors won't improve on retry
		retryable := resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusUnauthorized
		return "", retryable, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", true, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", true, fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}
	if apiResp.PromptFeedback.BlockReason != "" {
		return "", false, fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}
	if len(apiResp.Candidates) == 0 {
		return "", true, fmt.Errorf("API returned no candidates")
	}

	var responseText strings.Builder
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}
		for _, part := range candidate.Content.Parts {
			responseText.WriteString(part.Text)
		}
	}

	result := responseText.String()
	if result == "" {
		return "", true, fmt.Errorf("API returned empty content")
	}

	return result, false, nil
}
