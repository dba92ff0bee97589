package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/relaykit/quoterelay/internal/provision"
)

// SetupHandler provisions a shop's remote schemas on demand. The intake and
// settings paths provision lazily anyway; this endpoint lets the dashboard
// front-load the work right after install.
type SetupHandler struct {
	prov    *provision.Provisioner
	clients ClientProvider
}

// NewSetupHandler creates a new SetupHandler.
func NewSetupHandler(prov *provision.Provisioner, clients ClientProvider) *SetupHandler {
	return &SetupHandler{prov: prov, clients: clients}
}

// HandleProvision ensures every schema definition exists for the shop.
func (h *SetupHandler) HandleProvision(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop is required"})
		return
	}

	client, err := h.clients.ClientFor(r.Context(), shop)
	if err != nil {
		if errors.Is(err, ErrShopNotInstalled) {
			writeJSON(w, http.StatusNotFound, jsonResponse{Error: "app is not installed for this shop"})
			return
		}
		slog.Error("failed to resolve shop session", "shop", shop, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
		return
	}

	if err := h.prov.EnsureAll(r.Context(), client, shop); err != nil {
		slog.Error("schema provisioning failed", "shop", shop, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "could not provision schemas"})
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{Success: true, Message: "schemas provisioned"})
}
