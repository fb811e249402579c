package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type chatRequest struct {
	Message        string `json:"message" validate:"required"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	Intent         string `json:"intent"`
	Language       string `json:"language"`
	ConversationID string `json:"conversation_id"`
}

func (s *Server) registerRoutes(app *fiber.App) {
	app.Post("/chat", s.handleChat)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}

	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	reply, err := s.processor.ProcessMessage(c.UserContext(), req.ConversationID, req.Message)
	if err != nil {
		return err
	}

	return c.JSON(chatResponse{
		Reply:          reply.Text,
		Intent:         string(reply.Intent),
		Language:       reply.Language,
		ConversationID: req.ConversationID,
	})
}
