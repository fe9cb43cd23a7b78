package v1

import (
    "context"
    "encoding/json"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
)

type ctxKey string

const ctxKeyPostProject ctxKey = "validatedPostProject"
const ctxKeyPostPayment ctxKey = "validatedPostPayment"
const ctxKeySaveDay ctxKey = "validatedSaveDay"

// dateLayouts accepted for date-valued query params and the save-day body.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(raw string) (time.Time, bool) {
    raw = strings.TrimSpace(raw)
    for _, layout := range dateLayouts {
        if t, err := time.Parse(layout, raw); err == nil {
            return t, true
        }
    }
    return time.Time{}, false
}

// userIDFromQuery parses the required user_id query param.
func userIDFromQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
    raw := r.URL.Query().Get("user_id")
    if raw == "" {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
        return uuid.Nil, false
    }
    userID, err := uuid.Parse(raw)
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
        return uuid.Nil, false
    }
    return userID, true
}

// validatePostProject parses and validates POST /projects body and stores the
// request struct in the context for the handler to use.
func (s *Server) validatePostProject() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            if !requireJSON(w, r) { return }
            var req postProjectRequest
            dec := json.NewDecoder(r.Body)
            dec.DisallowUnknownFields()
            if err := dec.Decode(&req); err != nil {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
                return
            }
            if req.UserID == uuid.Nil {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
                return
            }
            if strings.TrimSpace(req.Name) == "" {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
                return
            }
            if strings.TrimSpace(req.Currency) == "" {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "currency is required"})
                return
            }
            ctx := context.WithValue(r.Context(), ctxKeyPostProject, req)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

// validatePostPayment parses and validates POST /payments body.
func (s *Server) validatePostPayment() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            if !requireJSON(w, r) { return }
            var req postPaymentRequest
            dec := json.NewDecoder(r.Body)
            dec.DisallowUnknownFields()
            if err := dec.Decode(&req); err != nil {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
                return
            }
            if req.UserID == uuid.Nil || req.ProjectID == uuid.Nil {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id and project_id are required"})
                return
            }
            if req.Date.IsZero() {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "date is required"})
                return
            }
            ctx := context.WithValue(r.Context(), ctxKeyPostPayment, req)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

// validateSaveDay parses POST /projects/{id}/expenses/save body. An empty
// items list is valid and clears the day.
func (s *Server) validateSaveDay() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            if !requireJSON(w, r) { return }
            var req saveDayRequest
            dec := json.NewDecoder(r.Body)
            dec.DisallowUnknownFields()
            if err := dec.Decode(&req); err != nil {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
                return
            }
            if req.UserID == uuid.Nil {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
                return
            }
            if req.Date == "" {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "date is required"})
                return
            }
            if _, ok := parseDate(req.Date); !ok {
                toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date"})
                return
            }
            ctx := context.WithValue(r.Context(), ctxKeySaveDay, req)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}
