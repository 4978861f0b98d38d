package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"insure-service/internal/models"
	"insure-service/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternal       = "INTERNAL_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
)

// MapErrorToHTTPStatus picks the response for an engine error. Store detail
// never reaches the client.
func MapErrorToHTTPStatus(err error) (code string, status int, message string) {
	switch {
	case errors.Is(err, models.ErrInvalidRequest):
		return CodeInvalidRequest, http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrNotFound):
		return CodeNotFound, http.StatusNotFound, "resource not found"
	default:
		return CodeInternal, http.StatusInternalServerError, "internal server error"
	}
}

func respondError(c *gin.Context, err error) {
	code, status, message := MapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", RequestIDFrom(c),
			"error", err)
	} else {
		slog.Info("Request rejected",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err)
	}
	c.JSON(status, utils.NewErrorResponse(code, message, RequestIDFrom(c)))
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, utils.NewSuccessResponse(data, RequestIDFrom(c)))
}

// errMalformedBody is what the client sees for any body that fails to
// decode. The decoder text names internal types, so it only goes to the log.
var errMalformedBody = fmt.Errorf("%w: malformed request body", models.ErrInvalidRequest)

func bindJSON(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		slog.Info("Rejected request body",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", RequestIDFrom(c),
			"error", err)
		return errMalformedBody
	}
	return nil
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad %s %q", models.ErrInvalidRequest, name, raw)
	}
	return id, nil
}
