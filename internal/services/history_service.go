package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"solace/internal/database"
	"solace/internal/models"

	"github.com/google/uuid"
)

// HistoryService appends chat exchanges to the durable history log.
// The chat pipeline only ever writes; reads exist for the UI endpoint.
type HistoryService struct {
	db *database.DB
}

// NewHistoryService creates a new history service
func NewHistoryService(db *database.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Append records one chat exchange. Entries are never mutated afterwards.
func (s *HistoryService) Append(ctx context.Context, userID, message, reply string, tone models.Tone) (*models.HistoryEntry, error) {
	entry := &models.HistoryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Reply:     reply,
		Tone:      tone,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, user_id, message, reply, tone, created_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.UserID, entry.Message, entry.Reply, string(entry.Tone), entry.CreatedAt.UnixMilli())
	if err != nil {
		log.Printf("❌ [HISTORY] Failed to append entry for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	return entry, nil
}

// RecentByUser returns the latest entries for a user, newest first.
func (s *HistoryService) RecentByUser(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message, reply, tone, created_at_ms
		FROM history
		WHERE user_id = ?
		ORDER BY created_at_ms DESC, id
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.HistoryEntry, 0, limit)
	for rows.Next() {
		var e models.HistoryEntry
		var tone string
		var createdMS int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Message, &e.Reply, &tone, &createdMS); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Tone = models.Tone(tone)
		e.CreatedAt = time.UnixMilli(createdMS).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return entries, nil
}

// CountByUser returns the number of history rows for a user.
func (s *HistoryService) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM history WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// CountAll returns the total number of history rows.
func (s *HistoryService) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}
