package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeminiClassifierReady(t *testing.T) {
	withKey := NewGeminiClassifier(nil, "test-key")
	assert.NoError(t, withKey.Ready())

	withoutKey := NewGeminiClassifier(nil, "")
	assert.ErrorIs(t, withoutKey.Ready(), ErrMissingAPIKey)
}

func TestGeminiClassifierClassifyRequiresKey(t *testing.T) {
	c := NewGeminiClassifier(nil, "")

	_, err := c.Classify(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
