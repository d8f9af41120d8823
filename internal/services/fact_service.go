package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"solace/internal/database"

	cache "github.com/patrickmn/go-cache"
)

// FactService handles the durable per-user fact store. Writes are
// last-write-wins on (user_id, fact_key).
type FactService struct {
	db *database.DB

	// TTL cache of per-user fact maps, invalidated on every write
	factCache *cache.Cache
}

// NewFactService creates a new fact service
func NewFactService(db *database.DB) *FactService {
	return &FactService{
		db:        db,
		factCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// SaveFact upserts a fact, overwriting any prior value for (user, key).
func (s *FactService) SaveFact(ctx context.Context, userID, key, value string) error {
	if userID == "" || key == "" {
		return fmt.Errorf("user ID and fact key are required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO facts (user_id, fact_key, fact_value, updated_at_ms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, fact_key) DO UPDATE SET
			fact_value = excluded.fact_value,
			updated_at_ms = excluded.updated_at_ms
	`, userID, key, value, time.Now().UnixMilli())
	if err != nil {
		log.Printf("❌ [FACTS] Failed to save fact %q for user %s: %v", key, userID, err)
		return fmt.Errorf("failed to save fact: %w", err)
	}

	s.factCache.Delete(userID)

	if m := GetMetrics(); m != nil {
		m.RecordFactSaved()
	}

	log.Printf("✅ [FACTS] Saved fact %q for user %s", key, userID)
	return nil
}

// GetFacts returns all facts for a user as a key→value map. The map is
// empty, never nil, when the user has no facts.
func (s *FactService) GetFacts(ctx context.Context, userID string) (map[string]string, error) {
	if cached, found := s.factCache.Get(userID); found {
		// Copy so callers can mutate their view without poisoning the cache.
		facts := make(map[string]string, len(cached.(map[string]string)))
		for k, v := range cached.(map[string]string) {
			facts[k] = v
		}
		return facts, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT fact_key, fact_value FROM facts WHERE user_id = ?`, userID)
	if err != nil {
		log.Printf("❌ [FACTS] Failed to load facts for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to load facts: %w", err)
	}
	defer rows.Close()

	facts := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Printf("❌ [FACTS] Failed to scan fact row for user %s: %v", userID, err)
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate facts: %w", err)
	}

	cachedCopy := make(map[string]string, len(facts))
	for k, v := range facts {
		cachedCopy[k] = v
	}
	s.factCache.Set(userID, cachedCopy, cache.DefaultExpiration)

	return facts, nil
}

// CountFacts returns the total number of fact rows across all users.
func (s *FactService) CountFacts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count facts: %w", err)
	}
	return count, nil
}
