package models

// Persona describes the assistant identity used when assembling prompts.
// Loaded from persona.yaml when present, otherwise the compiled-in defaults.
type Persona struct {
	Name  string `yaml:"name"`
	Intro string `yaml:"intro"`

	// Optional per-tone guidance overrides. Empty entries fall back to the
	// built-in guidance sentences.
	Guidance map[Tone]string `yaml:"guidance,omitempty"`
}

// DefaultPersona returns the built-in Solace persona.
func DefaultPersona() Persona {
	return Persona{
		Name:  "Solace",
		Intro: "You are Solace, a caring AI companion who remembers personal details and adapts to the user's mood.",
	}
}
