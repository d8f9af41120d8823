package services

import (
	"fmt"
	"sort"
	"strings"

	"solace/internal/models"
)

// Built-in tone guidance. The empathetic and playful sentences deliberately
// contain the words "empathetic" and "playful": the offline generator keys
// off those substrings.
var defaultGuidance = map[models.Tone]string{
	models.ToneEmpathetic: "Respond in a warm, empathetic tone and gently acknowledge the user's feelings.",
	models.TonePlayful:    "Respond in a playful, light-hearted tone with a touch of humor.",
	models.ToneNeutral:    "Respond in a friendly, conversational tone.",
}

// BuildPrompt assembles the full provider prompt: persona sentence, known
// facts, tone guidance, the literal user message, and the assistant-turn
// marker. No truncation or token budgeting.
func BuildPrompt(persona models.Persona, facts map[string]string, tone models.Tone, message string) string {
	var sb strings.Builder

	sb.WriteString(persona.Intro)
	sb.WriteString("\n")

	if len(facts) > 0 {
		keys := make([]string, 0, len(facts))
		for k := range facts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s: %s", k, facts[k]))
		}
		sb.WriteString("Here is what you know about the user: ")
		sb.WriteString(strings.Join(pairs, "; "))
		sb.WriteString(".\n")
	} else {
		sb.WriteString("You don't know anything about the user yet.\n")
	}

	sb.WriteString(GuidanceFor(persona, tone))
	sb.WriteString("\n")

	sb.WriteString("User: ")
	sb.WriteString(message)
	sb.WriteString("\n")

	sb.WriteString(persona.Name)
	sb.WriteString(":")

	return sb.String()
}

// GuidanceFor returns the tone-guidance sentence, preferring a persona
// override when one is configured.
func GuidanceFor(persona models.Persona, tone models.Tone) string {
	if !tone.Valid() {
		tone = models.ToneNeutral
	}
	if override, ok := persona.Guidance[tone]; ok && override != "" {
		return override
	}
	return defaultGuidance[tone]
}
