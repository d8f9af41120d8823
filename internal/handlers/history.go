package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"solace/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HistoryHandler exposes recent chat history for the bundled UI.
type HistoryHandler struct {
	historyService *services.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// Recent returns the latest exchanges for a user, newest first.
// GET /history/:user_id?limit=20
func (h *HistoryHandler) Recent(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := h.historyService.RecentByUser(ctx, userID, limit)
	if err != nil {
		log.Printf("❌ [HISTORY-API] Failed to list history: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve history",
		})
	}

	return c.JSON(fiber.Map{
		"history": entries,
		"count":   len(entries),
	})
}
