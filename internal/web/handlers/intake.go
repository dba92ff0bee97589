package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/relaykit/quoterelay/internal/intake"
	"github.com/relaykit/quoterelay/internal/provision"
)

// IntakeHandler serves the public storefront submission API.
type IntakeHandler struct {
	intake  *intake.Service
	clients ClientProvider
}

// NewIntakeHandler creates a new IntakeHandler.
func NewIntakeHandler(svc *intake.Service, clients ClientProvider) *IntakeHandler {
	return &IntakeHandler{intake: svc, clients: clients}
}

// HandleSubmitQuote accepts a quote request from the storefront form.
//
// Expected form fields:
//
//	shop            (required, myshopify domain)
//	customerName    (required)
//	customerEmail   (required)
//	productTitle, variantTitle, customerPhone, customerCompany,
//	quantity, requestDetails (optional)
func (h *IntakeHandler) HandleSubmitQuote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "invalid form data"})
		return
	}

	req := intake.SubmitRequest{
		Shop:            r.FormValue("shop"),
		ProductTitle:    r.FormValue("productTitle"),
		VariantTitle:    r.FormValue("variantTitle"),
		CustomerName:    r.FormValue("customerName"),
		CustomerEmail:   r.FormValue("customerEmail"),
		CustomerPhone:   r.FormValue("customerPhone"),
		CustomerCompany: r.FormValue("customerCompany"),
		Quantity:        r.FormValue("quantity"),
		RequestDetails:  r.FormValue("requestDetails"),
	}

	// Required fields are checked before session resolution so a bad request
	// is always a 400, installed shop or not.
	if strings.TrimSpace(req.Shop) == "" ||
		strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerEmail) == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "missing required fields"})
		return
	}

	client, err := h.clients.ClientFor(r.Context(), req.Shop)
	if err != nil {
		if errors.Is(err, ErrShopNotInstalled) {
			writeJSON(w, http.StatusNotFound, jsonResponse{Error: "app is not installed for this shop"})
			return
		}
		slog.Error("failed to resolve shop session", "shop", req.Shop, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
		return
	}

	receipt, err := h.intake.Submit(r.Context(), client, req)
	if err != nil {
		switch {
		case errors.Is(err, intake.ErrInvalidEmail):
			writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "invalid email format"})
		case errors.Is(err, intake.ErrValidation):
			writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "missing required fields"})
		case errors.Is(err, intake.ErrRateLimited):
			writeJSON(w, http.StatusTooManyRequests, jsonResponse{Error: "rate limit exceeded"})
		case errors.Is(err, provision.ErrSetup):
			slog.Error("schema provisioning failed", "shop", req.Shop, "error", err)
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "could not prepare submission storage"})
		case errors.Is(err, intake.ErrPersist):
			slog.Error("failed to store submission", "shop", req.Shop, "error", err)
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "could not store submission"})
		default:
			slog.Error("failed to submit quote", "shop", req.Shop, "error", err)
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{Success: true, Message: receipt.Message})
}
