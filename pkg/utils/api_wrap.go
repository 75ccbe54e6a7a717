package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status    string `json:"status"`
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func RespondSuccess(c *gin.Context, data any, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data any, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data any, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	respondError(c, code, errorCodeFor(code), message, nil)
}

func respondError(c *gin.Context, code int, errorCode, message string, details any) {
	c.JSON(code, APIResponse{
		Status:    "error",
		Code:      code,
		ErrorCode: errorCode,
		Error:     message,
		TraceID:   c.GetString("trace_id"),
		Details:   details,
	})
}

func errorCodeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusBadGateway:
		return "upstream_error"
	default:
		return "internal_error"
	}
}

func HandleServiceError(c *gin.Context, err error) {
	message := ""
	var details any
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		details = appErr.Details
	}

	var status int
	switch {
	case errors.Is(err, ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ErrUpstream):
		zap.L().Warn("upstream failure", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		status = http.StatusBadGateway
		if message == "" {
			message = "AI service unavailable, please retry"
		}
	default:
		zap.L().Error("unhandled service error", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	if message == "" {
		message = http.StatusText(status)
	}
	respondError(c, status, errorCodeFor(status), message, details)
}
