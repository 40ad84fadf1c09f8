package http

import (
	"encoding/json"
	"net/http"

	apperrors "labslot/pkg/errors"
)

// ErrorResponse matches the error body shape of the public API:
// a single "error" string, plus optional structured details.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// MessageResponse is the body of operations that confirm with prose,
// e.g. DELETE /reservations/{id}.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps an error to its HTTP status and the API error body.
// Uncategorized errors are reported as a generic 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	message := appErr.Message
	if appErr.Code == apperrors.CodeInternal {
		message = "An unexpected error occurred."
	}

	return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Error:   message,
		Details: appErr.Details,
	})
}

// WriteSuccess writes the payload as-is with 200. The public API returns
// bare objects and arrays, not envelopes.
func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}
