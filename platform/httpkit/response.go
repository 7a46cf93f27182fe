// Package httpkit holds the HTTP plumbing shared by every module handler:
// response helpers, error mapping, auth identity, and middleware.
package httpkit

import (
	"errors"
	"net/http"

	"clinicdesk/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error body every endpoint returns.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes the payload with an explicit status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error writes an ErrorResponse with the given status.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK writes the payload with 200.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError writes the response for a service-layer error and reports
// whether it did. Typed *apperr.Error values (including wrapped ones) map
// through their Kind to a status code; anything untyped is treated as a
// bad request so internals never leak a 500 for caller mistakes. Handlers
// use it as a guard: if HandleError(c, err) { return }.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	return true
}
