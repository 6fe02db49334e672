package workflow

import (
	"errors"
	"net/http"

	"linklet/internal/service/automation"
	"linklet/internal/service/n8n"
)

// errStatus maps service errors to HTTP status codes and API messages.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, automation.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, automation.ErrNotFound):
		return http.StatusNotFound, "Workflow not found"
	case errors.Is(err, automation.ErrNotActive):
		return http.StatusConflict, "Workflow is not active"
	case errors.Is(err, n8n.ErrUnavailable):
		return http.StatusBadGateway, "Automation engine unavailable"
	case errors.Is(err, n8n.ErrRejected):
		return http.StatusBadGateway, "Automation engine rejected the request"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}
