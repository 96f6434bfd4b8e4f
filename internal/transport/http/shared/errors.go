package shared

import (
	"errors"
	"net/http"

	"ems/internal/domain/directory"
	"ems/internal/domain/messaging"
	"ems/internal/domain/rbac"
	"ems/internal/domain/tasks"
	"ems/internal/transport/http/api"
)

// WriteDomainError maps domain errors onto the response envelope. Denials
// always carry the same code and message so responses never reveal whether a
// target exists.
func WriteDomainError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, rbac.ErrDenied):
		api.Fail(w, http.StatusForbidden, "forbidden", rbac.DenyReason, requestID)
	case errors.Is(err, messaging.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, directory.ErrNotFound), errors.Is(err, tasks.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	case errors.Is(err, directory.ErrInvalidHierarchy):
		api.Fail(w, http.StatusBadRequest, "invalid_hierarchy", err.Error(), requestID)
	case errors.Is(err, directory.ErrHasActiveDependents):
		api.Fail(w, http.StatusConflict, "has_active_dependents", err.Error(), requestID)
	case errors.Is(err, tasks.ErrTaskAlreadyClosed):
		api.Fail(w, http.StatusConflict, "task_already_closed", err.Error(), requestID)
	case errors.Is(err, tasks.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, tasks.ErrDuplicateReport):
		api.Fail(w, http.StatusConflict, "duplicate_report", err.Error(), requestID)
	case errors.Is(err, tasks.ErrOutOfScope):
		api.Fail(w, http.StatusBadRequest, "out_of_scope", err.Error(), requestID)
	case errors.Is(err, tasks.ErrScopeViolation):
		api.Fail(w, http.StatusBadRequest, "scope_violation", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
