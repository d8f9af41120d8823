package handlers

import (
	"time"

	"solace/internal/database"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	store := "reachable"
	if err := h.db.Ping(); err != nil {
		store = "unreachable"
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"store":     store,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
