package services

import (
	"regexp"

	"solace/internal/models"
)

// Keyword containment, not word matching: "download" counts as "down".
// That is the deployed behavior and the tests pin it.
var (
	empatheticPattern = regexp.MustCompile(`(?i)sad|depressed|unhappy|down|not good|worried`)
	playfulPattern    = regexp.MustCompile(`(?i)joke|roast|funny|lol|haha`)
)

// ClassifyTone maps a raw user message to a tone label. Empathetic keywords
// win over playful ones; anything else is neutral.
func ClassifyTone(message string) models.Tone {
	switch {
	case empatheticPattern.MatchString(message):
		return models.ToneEmpathetic
	case playfulPattern.MatchString(message):
		return models.TonePlayful
	default:
		return models.ToneNeutral
	}
}
