package handlers

import (
	"context"
	"time"

	"solace/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MemoryHandler exposes the stored facts, read-only.
type MemoryHandler struct {
	factService *services.FactService
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(factService *services.FactService) *MemoryHandler {
	return &MemoryHandler{factService: factService}
}

// GetFacts returns the full facts mapping for a user. A user without facts
// gets {}, and a storage failure is masked the same way.
// GET /memory/:user_id
func (h *MemoryHandler) GetFacts(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	facts, err := h.factService.GetFacts(ctx, userID)
	if err != nil {
		facts = map[string]string{}
	}

	return c.JSON(facts)
}
