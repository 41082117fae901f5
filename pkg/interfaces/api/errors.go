package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/blendtrack/pkg/application/services"
	"github.com/vsinha/blendtrack/pkg/domain/entities"
	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	domain "github.com/vsinha/blendtrack/pkg/domain/services"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
	"github.com/vsinha/blendtrack/pkg/sorting"
)

// Error codes
const (
	ErrBadRequestCode = "BAD_REQUEST"
	ErrNotFoundCode   = "NOT_FOUND"
	ErrConflictCode   = "CONFLICT"
	ErrInternalCode   = "INTERNAL_ERROR"
)

// ErrorInfo is the body of every failed request
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, sorting.ErrUnknownField),
		errors.Is(err, sorting.ErrInvalidDirection),
		errors.Is(err, sorting.ErrDuplicateField),
		errors.Is(err, sorting.ErrIndexOutOfRange):
		return http.StatusBadRequest, ErrBadRequestCode
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound, ErrNotFoundCode
	case errors.Is(err, repositories.ErrAlreadyExists),
		errors.Is(err, repositories.ErrInUse),
		errors.Is(err, repositories.ErrStaleStatus),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, ErrConflictCode
	default:
		return http.StatusInternalServerError, ErrInternalCode
	}
}

func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	info := ErrorInfo{Code: code, Message: http.StatusText(status), Details: err.Error()}
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("Request failed", "path", c.FullPath(), "error", err)
		info.Details = ""
	}
	c.AbortWithStatusJSON(status, info)
}

func respondBadRequest(c *gin.Context, message string, err error) {
	info := ErrorInfo{Code: ErrBadRequestCode, Message: message}
	if err != nil {
		info.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, info)
}
