package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/relaykit/quoterelay/internal/store"
)

// SessionsHandler manages the per-shop offline credentials. Install callbacks
// register a shop's token here; uninstall removes it.
type SessionsHandler struct {
	sessions store.SessionStore
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(sessions store.SessionStore) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// HandleUpsertSession stores or refreshes a shop's Admin API credential.
func (h *SessionsHandler) HandleUpsertSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Shop        string `json:"shop"`
		AccessToken string `json:"accessToken"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "invalid JSON payload"})
		return
	}
	if strings.TrimSpace(in.Shop) == "" || strings.TrimSpace(in.AccessToken) == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop and accessToken are required"})
		return
	}

	if _, err := h.sessions.UpsertShopSession(r.Context(), in.Shop, in.AccessToken, in.Scope); err != nil {
		slog.Error("failed to store shop session", "shop", in.Shop, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "could not store session"})
		return
	}

	slog.Info("stored shop session", "shop", in.Shop)
	writeJSON(w, http.StatusOK, jsonResponse{Success: true})
}

// HandleDeleteSession removes a shop's credential, e.g. on uninstall.
func (h *SessionsHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop is required"})
		return
	}

	if err := h.sessions.DeleteShopSession(r.Context(), shop); err != nil {
		slog.Error("failed to delete shop session", "shop", shop, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "could not delete session"})
		return
	}

	slog.Info("deleted shop session", "shop", shop)
	writeJSON(w, http.StatusOK, jsonResponse{Success: true})
}
