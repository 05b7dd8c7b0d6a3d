package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tabletalk/rules-qa/internal/api/response"
	"github.com/tabletalk/rules-qa/internal/domain"
	"github.com/tabletalk/rules-qa/internal/service"
)

// RAGHandler handles ingestion and grounded-query endpoints
type RAGHandler struct {
	ragService *service.RAGService
}

// NewRAGHandler creates a new RAG handler
func NewRAGHandler(ragService *service.RAGService) *RAGHandler {
	return &RAGHandler{ragService: ragService}
}

// Ingest loads the configured docs directory into the vector index
func (h *RAGHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	count, err := h.ragService.IngestDocs(r.Context())
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"ok":       true,
		"ingested": count,
	})
}

// Query answers a question grounded in the indexed documents
func (h *RAGHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question" validate:"required"`
		K        int    `json:"k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "missing question")
		return
	}

	result, err := h.ragService.Query(r.Context(), req.Question, req.K)
	if err != nil {
		// "nothing to search yet" is a state error, not a broken backend
		if errors.Is(err, domain.ErrIndexNotInitialized) {
			response.Conflict(w, err.Error())
			return
		}
		response.BadGateway(w, err.Error())
		return
	}

	response.OK(w, result)
}

// Status reports the persisted index state, optionally forcing a load
func (h *RAGHandler) Status(w http.ResponseWriter, r *http.Request) {
	forceLoad := r.URL.Query().Get("load") == "true"
	response.OK(w, h.ragService.Status(r.Context(), forceLoad))
}
