package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/todo-api/internal/auth"
	"github.com/Tomlord1122/todo-api/internal/service"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string               `json:"error"`
	Details []service.FieldError `json:"details,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal JSON response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithServiceError maps the service error taxonomy onto status
// codes. Unexpected errors are logged and answered with fallback.
func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Validation failed", Details: verr.Fields})
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Not authorized to perform this action.")
	default:
		s.log.ErrorContext(r.Context(), fallback,
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// authFailed answers requests the identity verifier turned away.
// Provider faults are logged but their details are not returned.
func (s *Server) authFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		s.metrics.RecordAuthFailure("missing_token")
		w.Header().Set("WWW-Authenticate", "Bearer")
		respondWithError(w, http.StatusUnauthorized, "Authentication token missing.")
	case errors.Is(err, auth.ErrInvalidToken):
		s.metrics.RecordAuthFailure("invalid_token")
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		respondWithError(w, http.StatusUnauthorized, "Invalid or expired token.")
	default:
		s.metrics.RecordAuthFailure("provider_error")
		s.log.ErrorContext(r.Context(), "identity verification failed", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Authentication error.")
	}
}

// decodeJSON reads a single JSON object into dst. On failure it writes a
// 400 describing the problem and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err == nil {
		if decoder.Decode(&struct{}{}) != io.EOF {
			respondWithError(w, http.StatusBadRequest, "Request body must only contain a single JSON object")
			return false
		}
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset))
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	case errors.Is(err, io.EOF):
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	case errors.As(err, &maxBytesError):
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body must not be larger than %d bytes", maxBytesError.Limit))
	default:
		respondWithError(w, http.StatusBadRequest, "Request body contains an invalid value: "+err.Error())
	}
	return false
}

// parseID reads the {id} URL parameter. Ids start at 1.
func parseID(w http.ResponseWriter, r *http.Request, resource string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID provided", resource))
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the verified caller. Routes without RequireUser
// never call it.
func currentUser(r *http.Request) string {
	user, _ := auth.UserFromContext(r.Context())
	return user.UID
}
