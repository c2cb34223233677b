package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"gadgetry.org/internal/auth"
	"gadgetry.org/internal/gadget"
	"gadgetry.org/internal/obs"
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		case errors.As(err, &maxErr):
			return errors.New("request body too large")
		}
		return errors.New("request body must be valid JSON")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidRole):
		writeError(w, r, http.StatusBadRequest, "Invalid role. Role must be 'BASIC' or 'ADMIN'.")
	case errors.Is(err, auth.ErrDuplicateUsername):
		writeError(w, r, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, strings.TrimPrefix(err.Error(), auth.ErrInvalidInput.Error()+": "))
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "Invalid login credentials")
	default:
		internalError(w, r, "auth operation failed", err)
	}
}

func handleGadgetError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, gadget.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Gadget not found")
	case errors.Is(err, gadget.ErrNoValidFields):
		writeError(w, r, http.StatusBadRequest, "Invalid fields provided. You can only update: name, successProbability, status.")
	case errors.Is(err, gadget.ErrInvalidFilter),
		errors.Is(err, gadget.ErrInvalidStatus),
		errors.Is(err, gadget.ErrInvalidProbability),
		errors.Is(err, gadget.ErrInvalidName):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		internalError(w, r, "gadget operation failed", err)
	}
}

// internalError logs err and answers with a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	obs.Error(msg, err, map[string]any{
		"request_id": RequestIDFromContext(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	})
	writeError(w, r, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
