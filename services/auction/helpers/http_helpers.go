package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-engine/internal/auctionerrors"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload", nil)
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps engine errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, auctionerrors.ErrBidderNotFound):
		return http.StatusNotFound, "bidder not found"
	case errors.Is(err, auctionerrors.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrInsufficientBalance):
		return http.StatusConflict, "insufficient balance"
	case errors.Is(err, auctionerrors.ErrSameBidder):
		return http.StatusConflict, "bidder already leads this session"
	case errors.Is(err, auctionerrors.ErrStaleSession):
		return http.StatusConflict, "session is not accepting bids"
	case errors.Is(err, auctionerrors.ErrInvalidState):
		return http.StatusConflict, "operation not valid in current state"
	case errors.Is(err, auctionerrors.ErrGroupBusy):
		return http.StatusConflict, "group already has an active session"
	case errors.Is(err, auctionerrors.ErrNoBidsToUndo):
		return http.StatusConflict, "no bids to undo"
	case errors.Is(err, auctionerrors.ErrSessionQuarantined):
		return http.StatusConflict, "session quarantined, admin intervention required"
	case errors.Is(err, auctionerrors.ErrTimeout):
		return http.StatusServiceUnavailable, "bid decision timed out, retry"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
