package v1

import (
    "encoding/json"
    "errors"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    "github.com/google/uuid"

    "costbook/internal/errs"
)

// postPayment handles POST /v1/payments. The project's owner-paid figure is
// adjusted in the same transaction as the insert.
func (s *Server) postPayment(w http.ResponseWriter, r *http.Request) {
    req, ok := r.Context().Value(ctxKeyPostPayment).(postPaymentRequest)
    if !ok {
        writeErr(w, http.StatusInternalServerError, "request not validated", "")
        return
    }
    payment, err := s.paymentSvc.Add(r.Context(), req.UserID, req.ProjectID, req.Date, req.AmountMinor, req.Description)
    if err != nil {
        if errors.Is(err, errs.ErrInvalidAmount) { unprocessable(w, "amount must be non-zero", "invalid_amount"); return }
        domainError(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

// updatePayment handles PATCH /v1/payments/{id}.
func (s *Server) updatePayment(w http.ResponseWriter, r *http.Request) {
    if !requireJSON(w, r) { return }
    paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment id"})
        return
    }
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    var payload updatePaymentRequest
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&payload); err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
        return
    }
    payment, err := s.paymentSvc.Update(r.Context(), userID, paymentID, payload.AmountMinor, payload.Date, payload.Description)
    if err != nil {
        if errors.Is(err, errs.ErrInvalidAmount) { unprocessable(w, "amount must be non-zero", "invalid_amount"); return }
        if errors.Is(err, errs.ErrMissingDate) { badRequest(w, "date is required"); return }
        domainError(w, err)
        return
    }
    toJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// deletePayment handles DELETE /v1/payments/{id}.
func (s *Server) deletePayment(w http.ResponseWriter, r *http.Request) {
    paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment id"})
        return
    }
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    payment, err := s.paymentSvc.Delete(r.Context(), userID, paymentID)
    if err != nil {
        domainError(w, err)
        return
    }
    toJSON(w, http.StatusOK, toPaymentResponse(payment))
}

// listPayments handles GET /v1/projects/{id}/payments, newest first.
func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
    projectID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
        return
    }
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    payments, err := s.paymentSvc.List(r.Context(), userID, projectID)
    if err != nil {
        domainError(w, err)
        return
    }
    resp := make([]paymentResponse, 0, len(payments))
    for _, p := range payments {
        resp = append(resp, toPaymentResponse(p))
    }
    toJSON(w, http.StatusOK, resp)
}

// sumPayments handles GET /v1/projects/{id}/payments/sum?from=...&to=...
// Both bounds are inclusive at day granularity.
func (s *Server) sumPayments(w http.ResponseWriter, r *http.Request) {
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
    total, err := s.paymentSvc.SumInRange(r.Context(), userID, projectID, from, to)
    if err != nil {
        if errors.Is(err, errs.ErrMissingRange) { badRequest(w, "from and to are required dates"); return }
        domainError(w, err)
        return
    }
    minor, _ := total.MinorUnits()
    toJSON(w, http.StatusOK, paymentSumResponse{ProjectID: projectID, Currency: total.Curr().Code(), TotalMinor: minor})
}
