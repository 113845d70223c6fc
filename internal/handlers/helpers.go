package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/faculty-records/internal/auth"
	"github.com/diewo77/faculty-records/internal/httpx"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/services"
)

// resolveActor turns the session user into an authorization actor. Handlers
// behind RequireAuth can still miss a user id if wired without the auth
// middleware, so the check stays.
func resolveActor(w http.ResponseWriter, r *http.Request, resolver policy.ActorResolver) (policy.Actor, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return policy.Actor{}, false
	}
	actor, err := resolver.Resolve(r.Context(), uid)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return policy.Actor{}, false
	}
	return actor, true
}

// pathID parses the named path segment as a row id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id64, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id64 == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(id64), true
}

// writeServiceError maps service and policy errors onto HTTP statuses,
// reusing the sentinel's message as the error code.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case errors.Is(err, policy.ErrDenied):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrInactive):
		status, code = http.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrEditBlocked),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrProfileExists),
		errors.Is(err, services.ErrDuplicateUsername),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrDuplicateRegdno),
		errors.Is(err, services.ErrDuplicateCode),
		errors.Is(err, services.ErrDepartmentInUse):
		status, code = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidRecord),
		errors.Is(err, services.ErrUnknownRole):
		status, code = http.StatusBadRequest, err.Error()
	}
	httpx.JSONError(w, status, code, nil)
}
