package v1

import (
    "net/http"

    chi "github.com/go-chi/chi/v5"
    "github.com/google/uuid"

    "costbook/internal/books"
    "costbook/internal/service/daysheet"
)

// expenseTemplate handles GET /v1/projects/{id}/expenses/template?date=...
// Returns the saved day verbatim, else a skeleton from the nearest prior
// day, else the starter catalogue. Never writes.
func (s *Server) expenseTemplate(w http.ResponseWriter, r *http.Request) {
    projectID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
        return
    }
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    date, okDate := parseDate(r.URL.Query().Get("date"))
    if !okDate {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "date is required"})
        return
    }
    items, err := s.sheetSvc.TemplateForDate(r.Context(), userID, projectID, date)
    if err != nil {
        domainError(w, err)
        return
    }
    resp := make([]lineItemResponse, 0, len(items))
    for _, it := range items {
        resp = append(resp, toLineItemResponse(it))
    }
    toJSON(w, http.StatusOK, resp)
}

// saveDay handles POST /v1/projects/{id}/expenses/save. The submitted rows
// replace the day's rows wholesale; an empty list clears the day.
func (s *Server) saveDay(w http.ResponseWriter, r *http.Request) {
    req, ok := r.Context().Value(ctxKeySaveDay).(saveDayRequest)
    if !ok {
        writeErr(w, http.StatusInternalServerError, "request not validated", "")
        return
    }
    projectID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
        return
    }
    date, _ := parseDate(req.Date)
    items := make([]daysheet.ItemInput, 0, len(req.Items))
    for _, it := range req.Items {
        items = append(items, daysheet.ItemInput{
            Category: it.Category,
            ItemName: it.ItemName,
            Price:    it.Price,
            Count:    it.Count,
            Other:    it.Other,
        })
    }
    if err := s.sheetSvc.SaveDay(r.Context(), req.UserID, projectID, date, items); err != nil {
        domainError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}

// listExpenses handles GET /v1/projects/{id}/expenses?from=...&to=...
func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
    projectID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
        return
    }
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    q := r.URL.Query()
    from, okFrom := parseDate(q.Get("from"))
    to, okTo := parseDate(q.Get("to"))
    if !okFrom || !okTo {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "from and to are required dates"})
        return
    }
    expenses, err := s.sheetSvc.ExpensesInRange(r.Context(), userID, projectID, from, to)
    if err != nil {
        domainError(w, err)
        return
    }
    resp := make([]expenseResponse, 0, len(expenses))
    for _, e := range expenses {
        resp = append(resp, toExpenseResponse(e))
    }
    toJSON(w, http.StatusOK, resp)
}

type categoryResponse struct {
    Code  string             `json:"code"`
    Label books.Category     `json:"label"`
    Kind  books.CategoryKind `json:"kind"`
}

// getCategories handles GET /v1/categories?kind=quantity|flat_amount.
func (s *Server) getCategories(w http.ResponseWriter, r *http.Request) {
    var kind *books.CategoryKind
    if raw := r.URL.Query().Get("kind"); raw != "" {
        k := books.CategoryKind(raw)
        if k != books.KindQuantity && k != books.KindFlatAmount {
            toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid kind"})
            return
        }
        kind = &k
    }
    defs := books.Categories(kind)
    resp := make([]categoryResponse, 0, len(defs))
    for _, def := range defs {
        resp = append(resp, categoryResponse{Code: def.Code, Label: def.Label, Kind: def.Kind})
    }
    toJSON(w, http.StatusOK, resp)
}
