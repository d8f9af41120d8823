package handlers

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"solace/internal/logging"
	"solace/internal/models"
	"solace/internal/services"

	"github.com/gofiber/fiber/v2"
)

var (
	// "my name is <letters and spaces, 1-40 chars>"
	namePattern = regexp.MustCompile(`(?i)\bmy name is ([a-zA-Z][a-zA-Z ]{0,39})`)

	// "what is my name" / "what's my name"
	nameQuestionPattern = regexp.MustCompile(`(?i)what(?:'s| is) my name`)
)

// ChatHandler handles the chat endpoint
type ChatHandler struct {
	factService    *services.FactService
	historyService *services.HistoryService
	personaService *services.PersonaService
	generator      *services.GenerationService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	factService *services.FactService,
	historyService *services.HistoryService,
	personaService *services.PersonaService,
	generator *services.GenerationService,
) *ChatHandler {
	return &ChatHandler{
		factService:    factService,
		historyService: historyService,
		personaService: personaService,
		generator:      generator,
	}
}

// Handle processes one chat request: load facts, classify tone, capture a
// stated name, short-circuit name-recall questions, otherwise build the
// prompt, generate a reply, and log the exchange.
// POST /chat
func (h *ChatHandler) Handle(c *fiber.Ctx) error {
	start := time.Now()

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id and message are required",
		})
	}

	if m := services.GetMetrics(); m != nil {
		m.RecordChatRequest()
		defer func() {
			m.RecordChatLatency(time.Since(start).Seconds())
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	// Storage read failures are masked as "no facts known"; the service
	// already logged the cause.
	facts, err := h.factService.GetFacts(ctx, req.UserID)
	if err != nil {
		facts = map[string]string{}
	}

	tone := services.ClassifyTone(req.Message)
	if m := services.GetMetrics(); m != nil {
		m.RecordTone(string(tone))
	}

	// Opportunistic name capture: persist it and reflect it in the
	// in-memory view immediately so this same request can use it.
	if match := namePattern.FindStringSubmatch(req.Message); match != nil {
		name := strings.TrimSpace(match[1])
		if name != "" {
			if err := h.factService.SaveFact(ctx, req.UserID, "name", name); err != nil {
				log.Printf("⚠️  [CHAT] Dropped name fact for user %s: %v", req.UserID, err)
			}
			facts["name"] = name
		}
	}

	// Name-recall short-circuit: no generation call, no history entry.
	if nameQuestionPattern.MatchString(req.Message) {
		reply := "I don't think you've told me your name yet."
		if name, ok := facts["name"]; ok {
			reply = fmt.Sprintf("Your name is %s, of course I remember! 😊", name)
		}
		if m := services.GetMetrics(); m != nil {
			m.RecordSimulatedReply()
		}
		return c.JSON(models.ChatResponse{
			Reply:     reply,
			Tone:      tone,
			Simulated: true,
		})
	}

	prompt := services.BuildPrompt(h.personaService.Current(), facts, tone, req.Message)

	reply, simulated, err := h.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("❌ [CHAT] Generation failed for user %s: %v", req.UserID, err)
		if m := services.GetMetrics(); m != nil {
			m.RecordChatError("generation")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Failed to generate response",
			"detail": err.Error(),
		})
	}

	if simulated {
		if m := services.GetMetrics(); m != nil {
			m.RecordSimulatedReply()
		}
	}

	// The reply is already produced; a failed history write is logged by
	// the service and never surfaced.
	if _, err := h.historyService.Append(ctx, req.UserID, req.Message, reply, tone); err != nil {
		log.Printf("⚠️  [CHAT] Dropped history entry for user %s: %v", req.UserID, err)
	}

	logging.WithChat(req.UserID, string(tone)).Debug("Chat exchange completed",
		"simulated", simulated,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return c.JSON(models.ChatResponse{
		Reply:     reply,
		Tone:      tone,
		Simulated: simulated,
	})
}
