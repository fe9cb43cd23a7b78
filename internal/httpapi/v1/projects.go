package v1

import (
    "encoding/json"
    "errors"
    "net/http"

    chi "github.com/go-chi/chi/v5"
    "github.com/google/uuid"

    "costbook/internal/errs"
    "costbook/internal/meta"
)

// postProject handles POST /v1/projects.
func (s *Server) postProject(w http.ResponseWriter, r *http.Request) {
    req, ok := r.Context().Value(ctxKeyPostProject).(postProjectRequest)
    if !ok {
        writeErr(w, http.StatusInternalServerError, "request not validated", "")
        return
    }
    project, err := s.projectSvc.Create(r.Context(), req.UserID, req.Name, req.Currency, req.TotalBudgetMinor, meta.New(req.Metadata))
    if err != nil {
        if errors.Is(err, errs.ErrInvalid) { badRequest(w, "invalid project"); return }
        domainError(w, err)
        return
    }
    toJSON(w, http.StatusCreated, toProjectResponse(project))
}

// listProjects handles GET /v1/projects. Each project carries its expense
// total alongside the materialised owner-paid figure.
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    summaries, err := s.projectSvc.List(r.Context(), userID)
    if err != nil {
        domainError(w, err)
        return
    }
    resp := make([]projectResponse, 0, len(summaries))
    for _, sum := range summaries {
        resp = append(resp, toSummaryResponse(sum))
    }
    toJSON(w, http.StatusOK, resp)
}

// getProject handles GET /v1/projects/{id}.
func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
    projectID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
        return
    }
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    summary, err := s.projectSvc.Get(r.Context(), userID, projectID)
    if err != nil {
        domainError(w, err)
        return
    }
    toJSON(w, http.StatusOK, toSummaryResponse(summary))
}

// updateProjectBudget handles PATCH /v1/projects/{id}/budget.
func (s *Server) updateProjectBudget(w http.ResponseWriter, r *http.Request) {
    if !requireJSON(w, r) { return }
    projectID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
        return
    }
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    var payload updateBudgetRequest
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&payload); err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
        return
    }
    if payload.TotalBudgetMinor == nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "total_budget_minor is required"})
        return
    }
    project, err := s.projectSvc.UpdateBudget(r.Context(), userID, projectID, *payload.TotalBudgetMinor)
    if err != nil {
        domainError(w, err)
        return
    }
    toJSON(w, http.StatusOK, toProjectResponse(project))
}

// deleteProject handles DELETE /v1/projects/{id}. Payments and expenses go
// with the project.
func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
    projectID, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project id"})
        return
    }
    userID, ok := userIDFromQuery(w, r)
    if !ok { return }
    if err := s.projectSvc.Delete(r.Context(), userID, projectID); err != nil {
        domainError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}
