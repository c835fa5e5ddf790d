package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-maker/internal/models"
	"alfredoptarigan/interview-maker/internal/services"
)

type SessionHandler struct {
	workflows *services.WorkflowManager
}

func NewSessionHandler(workflows *services.WorkflowManager) *SessionHandler {
	return &SessionHandler{
		workflows: workflows,
	}
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid session ID format")
	}
	return id, nil
}

// HandleCreate handles POST /sessions
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateSessionRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.workflows.CreateSession(req.Kind, req.Job)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusCreated, session)
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.Get(id)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleChooseKind handles POST /sessions/:id/type
func (h *SessionHandler) HandleChooseKind(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	var req models.ChooseKindRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.workflows.ChooseKind(id, req.Kind)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleCancel handles POST /sessions/:id/cancel. Allowed from any state;
// the draft is discarded and reseeded.
func (h *SessionHandler) HandleCancel(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.Cancel(id)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleEdit handles POST /sessions/:id/edit, reopening the draft from the
// preview or after a failed submission.
func (h *SessionHandler) HandleEdit(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.BackToEditing(id)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleDelete handles DELETE /sessions/:id
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	if err := h.workflows.Delete(id); err != nil {
		return renderError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
