package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// APIError is a non-2xx response. The server message is kept for display
// and the status maps onto a domain sentinel through Unwrap, so callers
// branch with errors.Is without seeing transport details.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return domain.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return domain.ErrConflict
	case e.StatusCode >= 500:
		return domain.ErrUnavailable
	}
	return nil
}

// parseAPIError extracts the message from the error envelope. Both the
// {"error": ...} and the {"detail": ...} envelope are understood; anything
// else is kept verbatim.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		switch {
		case envelope.Error != "":
			apiErr.Message = envelope.Error
		case envelope.Detail != "":
			apiErr.Message = envelope.Detail
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}
