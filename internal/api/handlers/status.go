package handlers

import (
	"StockCount-Backend/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps domain errors onto HTTP statuses so clients can tell
// a merge prompt (409) from a plain bad request.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrScanNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrLocationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateConflict),
		errors.Is(err, domain.ErrSessionClosed),
		errors.Is(err, domain.ErrSessionAlreadyCompleted),
		errors.Is(err, domain.ErrSessionNotEmpty),
		errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrCredentialsInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrRecognitionUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusBadRequest
	}
}
