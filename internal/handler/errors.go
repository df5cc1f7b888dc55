package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-service/internal/store"
)

// statusForKind maps store error kinds to fixed HTTP status codes.
func statusForKind(kind store.Kind) int {
	switch kind {
	case store.KindNotFound:
		return http.StatusNotFound
	case store.KindConflict:
		return http.StatusConflict
	case store.KindInvalidReference,
		store.KindInvalidState,
		store.KindInsufficientStock,
		store.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates a store failure into the JSON error payload. Store
// errors are business-rule failures and logged as warnings; anything else is a
// storage fault and logged as an error.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	kind := store.KindOf(err)
	if kind == store.KindUnknown {
		log.Error("Storage operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "internal server error",
		})
	}

	log.Warn("Request rejected", zap.String("reason", err.Error()))
	return c.JSON(statusForKind(kind), echo.Map{
		"error": err.Error(),
	})
}
