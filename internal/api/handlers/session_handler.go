package handlers

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/internal/api/presenters"
	"StockCount-Backend/pkg/audit"
	"StockCount-Backend/pkg/session"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SessionHandler interface {
		CreateSession(c *fiber.Ctx) error
		GetSessions(c *fiber.Ctx) error
		GetSessionDetails(c *fiber.Ctx) error
		CompleteSession(c *fiber.Ctx) error
		PrefillSession(c *fiber.Ctx) error
		GetDifferences(c *fiber.Ctx) error
		ValidateExport(c *fiber.Ctx) error
		GetSessionAudit(c *fiber.Ctx) error
	}

	sessionHandler struct {
		sessionService session.SessionService
		auditService   audit.AuditService
		validator      *validator.Validate
	}
)

func NewSessionHandler(sessionService session.SessionService, auditService audit.AuditService, validator *validator.Validate) SessionHandler {
	return &sessionHandler{
		sessionService: sessionService,
		auditService:   auditService,
		validator:      validator,
	}
}

func (h *sessionHandler) CreateSession(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateSessionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateSession, err)
	}

	res, err := h.sessionService.CreateSession(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedCreateSession, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateSession)
}

func (h *sessionHandler) GetSessions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	locationID := c.Query("location_id")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	sessions, count, err := h.sessionService.GetSessions(c.Context(), userID, locationID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetSessions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"sessions": sessions,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetSessions)
}

func (h *sessionHandler) GetSessionDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	res, err := h.sessionService.GetSessionByID(c.Context(), sessionID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetSessions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSessions)
}

func (h *sessionHandler) CompleteSession(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	res, err := h.sessionService.CompleteSession(c.Context(), sessionID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedCompleteSession, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCompleteSession)
}

func (h *sessionHandler) PrefillSession(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	items, err := h.sessionService.PrefillFromPrevious(c.Context(), sessionID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedPrefillSession, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"items": items}, fiber.StatusOK, domain.MessageSuccessPrefillSession)
}

func (h *sessionHandler) GetDifferences(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	records, err := h.sessionService.ComputeDifferences(c.Context(), sessionID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetDifferences, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"differences": records}, fiber.StatusOK, domain.MessageSuccessGetDifferences)
}

func (h *sessionHandler) ValidateExport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	res, err := h.sessionService.ValidateForExport(c.Context(), sessionID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedValidateExport, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessValidateExport)
}

func (h *sessionHandler) GetSessionAudit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	// Ownership is checked through the session service before reading the log.
	if _, err := h.sessionService.GetSessionByID(c.Context(), sessionID, userID); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetSessionAudit, err)
	}

	entries, err := h.auditService.GetSessionAudit(c.Context(), sessionID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetSessionAudit, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"entries": entries}, fiber.StatusOK, domain.MessageSuccessGetSessionAudit)
}
