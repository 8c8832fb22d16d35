package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"poextract/internal/domain"
	"poextract/internal/llm"
	"poextract/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rateLimited *llm.RateLimitError
	switch {
	case errors.Is(err, domain.ErrMissingUpload):
		return http.StatusBadRequest, "MISSING_UPLOAD", "Please upload PO, GRN and MRN PDFs"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrInvalidPDF):
		return http.StatusUnprocessableEntity, "INVALID_PDF", "file is not a readable PDF"
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", "inference service is rate limiting requests; try again later"
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway, "MALFORMED_MODEL_RESPONSE", "model response could not be decoded as JSON"
	case errors.Is(err, domain.ErrInferenceFailed):
		return http.StatusBadGateway, "INFERENCE_FAILED", "inference call failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	logError(c, status, err)
	setRetryAfter(c, err)
	RespondError(c, status, code, msg)
}

func logError(c *gin.Context, status int, err error) {
	if status < http.StatusInternalServerError {
		return
	}
	zap.L().Error("request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Int("status", status),
		zap.Error(err),
	)
}

func setRetryAfter(c *gin.Context, err error) {
	var rateLimited *llm.RateLimitError
	if errors.As(err, &rateLimited) {
		c.Header("Retry-After", strconv.Itoa(int(rateLimited.RetryAfter.Seconds())))
	}
}
