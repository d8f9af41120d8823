package services

import (
	"os"
	"path/filepath"
	"testing"

	"solace/internal/models"
)

func TestPersonaDefaultsWhenFileMissing(t *testing.T) {
	service := NewPersonaService(filepath.Join(t.TempDir(), "nope.yaml"))

	persona := service.Current()
	if persona.Name != "Solace" {
		t.Errorf("Expected default name, got %q", persona.Name)
	}
	if persona.Intro == "" {
		t.Error("Expected a default intro sentence")
	}
}

func TestPersonaLoadsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	content := `name: Aria
intro: You are Aria, a concise assistant.
guidance:
  neutral: Keep it brief.
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write persona file: %v", err)
	}

	service := NewPersonaService(path)
	persona := service.Current()

	if persona.Name != "Aria" {
		t.Errorf("Expected loaded name, got %q", persona.Name)
	}
	if persona.Guidance[models.ToneNeutral] != "Keep it brief." {
		t.Errorf("Expected guidance override, got %v", persona.Guidance)
	}
}

func TestPersonaReloadSwapsAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	if err := os.WriteFile(path, []byte("name: First\n"), 0o644); err != nil {
		t.Fatalf("Failed to write persona file: %v", err)
	}

	service := NewPersonaService(path)
	if service.Current().Name != "First" {
		t.Fatalf("Expected initial persona, got %q", service.Current().Name)
	}

	if err := os.WriteFile(path, []byte("name: Second\n"), 0o644); err != nil {
		t.Fatalf("Failed to rewrite persona file: %v", err)
	}
	if err := service.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if service.Current().Name != "Second" {
		t.Errorf("Expected reloaded persona, got %q", service.Current().Name)
	}
	// Empty fields fall back to defaults
	if service.Current().Intro == "" {
		t.Error("Expected default intro after partial file")
	}
}
