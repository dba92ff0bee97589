package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/relaykit/quoterelay/internal/models"
	"github.com/relaykit/quoterelay/internal/provision"
	"github.com/relaykit/quoterelay/internal/settings"
)

// SettingsHandler serves the public settings read and the admin settings API.
type SettingsHandler struct {
	settings *settings.Service
	clients  ClientProvider
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc *settings.Service, clients ClientProvider) *SettingsHandler {
	return &SettingsHandler{settings: svc, clients: clients}
}

// publicSettingsResponse is the storefront-visible slice of the settings.
// The notification email is deliberately not exposed.
type publicSettingsResponse struct {
	PhoneNumber     string `json:"phoneNumber"`
	FormTitle       string `json:"formTitle"`
	FormDescription string `json:"formDescription"`
	SuccessMessage  string `json:"successMessage"`
}

// HandlePublicSettings returns the form copy for a shop. It never errors to
// the caller: any failure degrades to the hardcoded defaults.
func (h *SettingsHandler) HandlePublicSettings(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop is required"})
		return
	}

	st := models.DefaultSettings()
	if client, err := h.clients.ClientFor(r.Context(), shop); err == nil {
		st = h.settings.Get(r.Context(), client, shop)
	}

	writeJSON(w, http.StatusOK, publicSettingsResponse{
		PhoneNumber:     st.PhoneNumber,
		FormTitle:       st.FormTitle,
		FormDescription: st.FormDescription,
		SuccessMessage:  st.SuccessMessage,
	})
}

// adminSettings is the full settings payload for the dashboard.
type adminSettings struct {
	NotificationEmail string `json:"notificationEmail"`
	PhoneNumber       string `json:"phoneNumber"`
	FormTitle         string `json:"formTitle"`
	FormDescription   string `json:"formDescription"`
	SuccessMessage    string `json:"successMessage"`
}

// HandleGetSettings returns the shop's full settings for the dashboard.
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop is required"})
		return
	}

	client, err := h.clients.ClientFor(r.Context(), shop)
	if err != nil {
		h.writeClientError(w, shop, err)
		return
	}

	st := h.settings.Get(r.Context(), client, shop)
	writeJSON(w, http.StatusOK, adminSettings{
		NotificationEmail: st.NotificationEmail,
		PhoneNumber:       st.PhoneNumber,
		FormTitle:         st.FormTitle,
		FormDescription:   st.FormDescription,
		SuccessMessage:    st.SuccessMessage,
	})
}

// HandleSaveSettings upserts the shop's settings record.
func (h *SettingsHandler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop is required"})
		return
	}

	var in adminSettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "invalid JSON payload"})
		return
	}

	client, err := h.clients.ClientFor(r.Context(), shop)
	if err != nil {
		h.writeClientError(w, shop, err)
		return
	}

	err = h.settings.Save(r.Context(), client, shop, models.AppSettings{
		NotificationEmail: in.NotificationEmail,
		PhoneNumber:       in.PhoneNumber,
		FormTitle:         in.FormTitle,
		FormDescription:   in.FormDescription,
		SuccessMessage:    in.SuccessMessage,
	})
	if err != nil {
		if errors.Is(err, provision.ErrSetup) {
			slog.Error("settings schema provisioning failed", "shop", shop, "error", err)
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "could not prepare settings storage"})
			return
		}
		slog.Error("failed to save settings", "shop", shop, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "could not save settings"})
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{Success: true})
}

func (h *SettingsHandler) writeClientError(w http.ResponseWriter, shop string, err error) {
	if errors.Is(err, ErrShopNotInstalled) {
		writeJSON(w, http.StatusNotFound, jsonResponse{Error: "app is not installed for this shop"})
		return
	}
	slog.Error("failed to resolve shop session", "shop", shop, "error", err)
	writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
}
