package models

// Tone is the coarse emotional register classified from a user message.
// It steers both the prompt guidance sentence and the offline reply choice.
type Tone string

const (
	ToneEmpathetic Tone = "empathetic"
	TonePlayful    Tone = "playful"
	ToneNeutral    Tone = "neutral"
)

// Valid reports whether t is one of the three known tone labels.
func (t Tone) Valid() bool {
	switch t {
	case ToneEmpathetic, TonePlayful, ToneNeutral:
		return true
	}
	return false
}
