package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-maker/internal/models"
	"alfredoptarigan/interview-maker/internal/services"
)

// sessionResponse projects a session snapshot into the API shape. The
// preview block is derived fresh on every call; nothing is cached.
func sessionResponse(s services.Session) models.SessionResponse {
	resp := models.SessionResponse{
		ID:      s.ID.String(),
		Kind:    s.Kind,
		State:   s.State,
		Draft:   s.Draft,
		Summary: s.Summary,
	}

	switch s.State {
	case models.StatePreviewing, models.StateSubmitting, models.StateSucceeded, models.StateFailed:
		preview := services.SummarizeDraft(s.Draft)
		resp.Preview = &preview
	}

	if s.LastError != "" {
		msg := s.LastError
		resp.Error = &msg
	}
	if s.DebitError != "" {
		msg := s.DebitError
		resp.DebitError = &msg
	}

	return resp
}

func renderSession(c *fiber.Ctx, status int, s services.Session) error {
	return c.Status(status).JSON(sessionResponse(s))
}

// renderError maps the workflow error taxonomy onto HTTP statuses. External
// call failures never arrive here; they surface through session state.
func renderError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	}

	var transitionErr *services.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": transitionErr.Error(),
			"state": string(transitionErr.From),
		})
	}

	if errors.Is(err, services.ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
