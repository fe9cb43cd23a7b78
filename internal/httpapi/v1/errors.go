package v1

import (
    "errors"
    "net/http"

    "costbook/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
    Error string `json:"error"`
    Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
    toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }
func unprocessable(w http.ResponseWriter, msg, code string) {
    writeErr(w, http.StatusUnprocessableEntity, msg, code)
}

// domainError maps service-layer sentinel errors onto HTTP responses.
func domainError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, errs.ErrNotFound):
        notFound(w)
    case errors.Is(err, errs.ErrInvalidAmount):
        unprocessable(w, "invalid_amount", "invalid_amount")
    case errors.Is(err, errs.ErrMissingProject):
        badRequest(w, "project is required")
    case errors.Is(err, errs.ErrMissingDate):
        badRequest(w, "date is required")
    case errors.Is(err, errs.ErrMissingRange):
        badRequest(w, "start and end are required")
    case errors.Is(err, errs.ErrInvalid):
        badRequest(w, "invalid request")
    default:
        writeErr(w, http.StatusInternalServerError, "internal_error", "")
    }
}
