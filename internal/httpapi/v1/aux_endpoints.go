package v1

import (
    "context"
    "net/http"
    "time"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
    // If the underlying store implements ReadyChecker, call it with a short timeout
    deadline := 800 * time.Millisecond
    ctx, cancel := context.WithTimeout(r.Context(), deadline)
    defer cancel()
    if rc, ok := any(s.repo).(ReadyChecker); ok {
        if err := rc.Ready(ctx); err != nil { w.WriteHeader(http.StatusServiceUnavailable); return }
    }
    w.WriteHeader(http.StatusOK)
}
