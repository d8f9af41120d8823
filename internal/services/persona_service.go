package services

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"solace/internal/models"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// PersonaService owns the assistant persona used for prompt assembly.
// The persona file is optional; missing or broken files leave the
// compiled-in defaults in place.
type PersonaService struct {
	mu      sync.RWMutex
	persona models.Persona
	path    string
}

// NewPersonaService loads the persona from path (if present) and returns
// the service. It never fails: any load problem falls back to defaults.
func NewPersonaService(path string) *PersonaService {
	s := &PersonaService{
		persona: models.DefaultPersona(),
		path:    path,
	}

	if err := s.Reload(); err != nil {
		log.Printf("⚠️  [PERSONA] Using default persona: %v", err)
	}

	return s
}

// Current returns the active persona.
func (s *PersonaService) Current() models.Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona
}

// Reload re-reads the persona file and swaps the active persona. Fields
// left empty in the file keep their default values.
func (s *PersonaService) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	loaded := models.DefaultPersona()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded.Name == "" {
		loaded.Name = models.DefaultPersona().Name
	}
	if loaded.Intro == "" {
		loaded.Intro = models.DefaultPersona().Intro
	}

	s.mu.Lock()
	s.persona = loaded
	s.mu.Unlock()

	log.Printf("✅ [PERSONA] Loaded persona %q from %s", loaded.Name, s.path)
	return nil
}

// Watch watches the persona file for changes and hot-reloads it.
// Blocks; run in a goroutine.
func (s *PersonaService) Watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  [PERSONA] Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(s.path)
	if err != nil {
		log.Printf("⚠️  [PERSONA] Failed to resolve %s: %v", s.path, err)
		return
	}

	// Watch the directory containing the file (more reliable than watching
	// the file directly).
	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  [PERSONA] Failed to watch directory %s: %v", dir, err)
		return
	}

	log.Printf("👁️  [PERSONA] Watching %s for changes (hot-reload enabled)", s.path)

	// Debounce to avoid multiple reloads for rapid file changes
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}

				debounceTimer = time.AfterFunc(debounceDuration, func() {
					if err := s.Reload(); err != nil {
						log.Printf("❌ [PERSONA] Failed to reload persona: %v", err)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  [PERSONA] File watcher error: %v", err)
		}
	}
}
