package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lingobuddy/backend/internal/model/chat"
	"github.com/lingobuddy/backend/internal/ratelimit"
	"github.com/lingobuddy/backend/internal/service/ai"
	chatservice "github.com/lingobuddy/backend/internal/service/chat"
	"github.com/lingobuddy/backend/pkg/utils"
)

// Responder is the slice of the AI service the handler needs.
type Responder interface {
	Respond(ctx context.Context, settings chat.Settings, history []chat.Turn, userMessage string) (string, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	store   chatservice.Store
	aiSvc   Responder
	limiter ratelimit.Limiter
}

// New 创建聊天处理器
func New(store chatservice.Store, aiSvc Responder, limiter ratelimit.Limiter) *Handler {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	return &Handler{store: store, aiSvc: aiSvc, limiter: limiter}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleSendMessage)
	r.Get("/chat", h.handleGetHistory)
	r.Delete("/chat", h.handleDeleteSession)
	r.Get("/sessions", h.handleListSessions)
	r.Put("/title", h.handleUpdateTitle)
}

type chatRequest struct {
	SessionID   string        `json:"session_id"`
	UserID      string        `json:"user_id"`
	UserMessage string        `json:"user_message"`
	Settings    chat.Settings `json:"settings"`
}

// handleSendMessage 执行一次完整的对话交换：取历史、调用模型、落库。
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Some frontends double-encode these fields; strip stray quotes.
	userID := strings.Trim(payload.UserID, `"`)
	sessionID := strings.Trim(payload.SessionID, `"`)
	userMessage := strings.Trim(payload.UserMessage, `"`)

	if sessionID == "" || userID == "" || userMessage == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id, user_id and user_message are required")
		return
	}

	allowed, err := h.limiter.Allow(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "rate limit check failed")
		return
	}
	if !allowed {
		utils.RespondError(w, http.StatusTooManyRequests, "daily usage limit reached")
		return
	}

	history, err := h.store.History(r.Context(), userID, sessionID)
	if err != nil {
		log.Printf("[chat] history lookup failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}

	reply, err := h.aiSvc.Respond(r.Context(), payload.Settings, history, userMessage)
	if err != nil {
		var provErr *ai.ProviderError
		if errors.As(err, &provErr) {
			utils.RespondError(w, http.StatusBadGateway, provErr.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.store.AppendExchange(r.Context(), userID, sessionID, userMessage, reply); err != nil {
		log.Printf("[chat] failed to persist exchange for session=%s: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to store chat")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"llm_response": reply})
}

// handleGetHistory 返回指定会话的全部历史消息。
func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	userID := r.URL.Query().Get("user_id")
	if sessionID == "" || userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id and user_id query parameters are required")
		return
	}

	history, err := h.store.History(r.Context(), userID, sessionID)
	if err != nil {
		log.Printf("[chat] history lookup failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, history)
}

// handleListSessions 按最近活跃排序返回用户的会话列表。
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	sessions, err := h.store.ListSessions(r.Context(), userID)
	if err != nil {
		log.Printf("[chat] session listing failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// handleDeleteSession 删除会话及其全部历史。
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id query parameter is required")
		return
	}

	if err := h.store.DeleteSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, chatservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("[chat] session delete failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type titleUpdate struct {
	SessionID string `json:"session_id"`
	NewTitle  string `json:"new_title"`
}

// handleUpdateTitle 重命名会话。
func (h *Handler) handleUpdateTitle(w http.ResponseWriter, r *http.Request) {
	var payload titleUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.store.RenameSession(r.Context(), payload.SessionID, payload.NewTitle); err != nil {
		if errors.Is(err, chatservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("[chat] session rename failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to update title")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
