package handler

import (
	"net/http"

	"github.com/tabletalk/rules-qa/internal/api/response"
	"github.com/tabletalk/rules-qa/internal/index"
	"github.com/tabletalk/rules-qa/internal/store"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck reports which session backend is active and whether a
// persisted index exists
func ReadyCheck(turns store.StoreHandle, indexSvc *index.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"status":          "ready",
			"session_backend": string(turns.Backend),
			"index_exists":    indexSvc.Status(r.Context(), false).Exists,
		})
	}
}
