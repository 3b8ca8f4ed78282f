package httpapi

import (
	"encoding/json"
	"net/http"

	"govsim.ai/internal/protocol"
)

type apiError struct {
	status int
	code   string
	msg    string
}

func (e apiError) Error() string { return e.msg }

func newAPIError(status int, code, msg string) apiError {
	return apiError{status: status, code: code, msg: msg}
}

var (
	errBadRequest   = newAPIError(http.StatusBadRequest, protocol.ErrBadRequest, "bad request")
	errNotFound     = newAPIError(http.StatusNotFound, protocol.ErrNotFound, "not found")
	errUnauthorized = newAPIError(http.StatusUnauthorized, protocol.ErrUnauthorized, "invalid or missing auth")
	errWrongPhase   = newAPIError(http.StatusConflict, protocol.ErrWrongPhase, "server not accepting actions")
	errServerFull   = newAPIError(http.StatusForbidden, protocol.ErrServerFull, "server full")
	errWrongRole    = newAPIError(http.StatusForbidden, protocol.ErrWrongRole, "action not allowed for role")
	errRateLimited  = newAPIError(http.StatusTooManyRequests, protocol.ErrRateLimited, "too many pending actions")
	errInternal     = newAPIError(http.StatusInternalServerError, protocol.ErrInternal, "internal error")
)

func writeError(w http.ResponseWriter, err apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.code, "message": err.msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
