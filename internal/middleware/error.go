package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler maps domain errors attached to the context onto HTTP
// responses: caller-input errors are 400s, missing records 404s,
// everything else a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		lastErr := c.Errors.Last().Err
		status := statusFor(lastErr)
		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: lastErr.Error(),
			TraceID: requestID,
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.IsInputError(err):
		return http.StatusBadRequest
	case errors.HasCode(err, errors.ErrEventNotFound),
		errors.HasCode(err, errors.ErrDestinationUnresolvable):
		return http.StatusNotFound
	case errors.HasCode(err, errors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
