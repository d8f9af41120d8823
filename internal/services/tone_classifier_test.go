package services

import (
	"testing"

	"solace/internal/models"
)

// TestClassifyTone covers keyword precedence and the neutral default
func TestClassifyTone(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected models.Tone
	}{
		{
			name:     "Empathetic keyword",
			message:  "I'm feeling really down today",
			expected: models.ToneEmpathetic,
		},
		{
			name:     "Empathetic phrase",
			message:  "Honestly things are not good right now",
			expected: models.ToneEmpathetic,
		},
		{
			name:     "Playful keyword",
			message:  "tell me a joke",
			expected: models.TonePlayful,
		},
		{
			name:     "Playful laughter",
			message:  "haha that was great",
			expected: models.TonePlayful,
		},
		{
			name:     "Neutral default",
			message:  "what's the weather",
			expected: models.ToneNeutral,
		},
		{
			name:     "Empathetic beats playful",
			message:  "I'm sad, tell me a joke",
			expected: models.ToneEmpathetic,
		},
		{
			name:     "Case insensitive",
			message:  "I AM SO WORRIED",
			expected: models.ToneEmpathetic,
		},
		{
			name:     "Keyword containment counts",
			message:  "the download finished",
			expected: models.ToneEmpathetic,
		},
		{
			name:     "Empty message",
			message:  "",
			expected: models.ToneNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyTone(tt.message)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}
