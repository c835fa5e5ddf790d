package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-maker/internal/repositories"
	"alfredoptarigan/interview-maker/internal/services"
)

// SubmitHandler drives the generation and submission transitions, plus the
// reconciliation view over the submission ledger.
type SubmitHandler struct {
	workflows *services.WorkflowManager
	records   repositories.SubmissionRepository
}

func NewSubmitHandler(
	workflows *services.WorkflowManager,
	records repositories.SubmissionRepository,
) *SubmitHandler {
	return &SubmitHandler{
		workflows: workflows,
		records:   records,
	}
}

// HandleGenerate handles POST /sessions/:id/generate. Returns 202; the
// session suspends in generating until the worker finishes the call.
func (h *SubmitHandler) HandleGenerate(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.StartGeneration(id)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusAccepted, session)
}

// HandlePreview handles POST /sessions/:id/preview for custom drafts.
func (h *SubmitHandler) HandlePreview(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.RequestPreview(id)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusOK, session)
}

// HandleSubmit handles POST /sessions/:id/submit. Returns 202; the outcome
// lands on the session as succeeded or failed.
func (h *SubmitHandler) HandleSubmit(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return err
	}

	session, err := h.workflows.StartSubmission(id)
	if err != nil {
		return renderError(c, err)
	}

	return renderSession(c, fiber.StatusAccepted, session)
}

// HandleDebitFailures handles GET /submissions/debit-failures: interviews
// persisted without a confirmed token debit, for reconciliation.
func (h *SubmitHandler) HandleDebitFailures(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	records, err := h.records.FindDebitFailures(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch debit failures",
		})
	}

	return c.JSON(fiber.Map{
		"count":   len(records),
		"records": records,
	})
}
