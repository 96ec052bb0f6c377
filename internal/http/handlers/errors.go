package handlers

import (
	"net/http"

	"github.com/WayneCarlG/meet-a-vet/internal/domain"
	"github.com/WayneCarlG/meet-a-vet/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	payload := gin.H{
		"error": message,
		"code":  code,
	}
	if reqID := middleware.GetRequestID(c); reqID != "" {
		payload["request_id"] = reqID
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses. Upstream
// provider failures surface as 500 to the initiating client; detail stays
// in the logs.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case domain.IsUpstreamAuth(err):
		respondError(c, http.StatusInternalServerError, "upstream_auth_error", "payment provider authentication failed")
	case domain.IsUpstreamRequest(err):
		respondError(c, http.StatusInternalServerError, "upstream_request_error", "payment provider request failed")
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
