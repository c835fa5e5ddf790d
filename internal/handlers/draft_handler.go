package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-maker/internal/models"
	"alfredoptarigan/interview-maker/internal/services"
)

// DraftHandler exposes the draft-store mutations. Every operation goes
// through the workflow manager so the drafting-state guard applies.
type DraftHandler struct {
	workflows *services.WorkflowManager
}

func NewDraftHandler(workflows *services.WorkflowManager) *DraftHandler {
	return &DraftHandler{
		workflows: workflows,
	}
}

func parseIndex(c *fiber.Ctx) (int, error) {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid index format")
	}
	return index, nil
}

// HandleSetField handles PATCH /sessions/:id/draft
func (h *DraftHandler) HandleSetField(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	var req models.FieldUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.workflows.SetField(id, req.Field, req.Value)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleAddMark handles POST /sessions/:id/draft/marks
func (h *DraftHandler) HandleAddMark(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.AddMark(id)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleSetMark handles PUT /sessions/:id/draft/marks/:index
func (h *DraftHandler) HandleSetMark(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	var req models.MarkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.workflows.SetMark(id, index, req.Value)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleRemoveMark handles DELETE /sessions/:id/draft/marks/:index. Removing
// the last remaining mark is a no-op, not an error.
func (h *DraftHandler) HandleRemoveMark(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.RemoveMark(id, index)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleAddQuestion handles POST /sessions/:id/draft/questions
func (h *DraftHandler) HandleAddQuestion(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.AddQuestion(id)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleSetQuestion handles PUT /sessions/:id/draft/questions/:index
func (h *DraftHandler) HandleSetQuestion(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	var req models.QuestionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.workflows.SetQuestion(id, index, req.Field, req.Value)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleRemoveQuestion handles DELETE /sessions/:id/draft/questions/:index
func (h *DraftHandler) HandleRemoveQuestion(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	index, err := parseIndex(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.RemoveQuestion(id, index)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}
