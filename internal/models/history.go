package models

import "time"

// HistoryEntry is one logged chat exchange. Entries are append-only and
// never mutated or deleted.
type HistoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Tone      Tone      `json:"tone"`
	CreatedAt time.Time `json:"created_at"`
}
