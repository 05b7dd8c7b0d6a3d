package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tabletalk/rules-qa/internal/api/response"
	"github.com/tabletalk/rules-qa/internal/service"
)

var validate = validator.New()

// ChatHandler handles conversational endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat handles one conversational exchange
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message   string `json:"message" validate:"required"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "empty message")
		return
	}

	result, err := h.chatService.Ask(r.Context(), req.SessionID, req.Message)
	if err != nil {
		response.BadGateway(w, err.Error())
		return
	}

	response.OK(w, result)
}

// History returns the stored conversation window for a session
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "missing session_id")
		return
	}

	turns, err := h.chatService.History(r.Context(), req.SessionID)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"session_id": req.SessionID,
		"messages":   turns,
	})
}

// Reset clears all stored turns for a session
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, "missing session_id")
		return
	}

	if err := h.chatService.Reset(r.Context(), req.SessionID); err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]bool{"ok": true})
}
