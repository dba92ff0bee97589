package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/relaykit/quoterelay/internal/models"
	"github.com/relaykit/quoterelay/internal/quotes"
	"github.com/relaykit/quoterelay/internal/records"
)

// QuotesHandler serves the dashboard submission API.
type QuotesHandler struct {
	quotes  *quotes.Service
	clients ClientProvider
}

// NewQuotesHandler creates a new QuotesHandler.
func NewQuotesHandler(svc *quotes.Service, clients ClientProvider) *QuotesHandler {
	return &QuotesHandler{quotes: svc, clients: clients}
}

type submissionResponse struct {
	Handle          string    `json:"handle"`
	ProductTitle    string    `json:"productTitle,omitempty"`
	VariantTitle    string    `json:"variantTitle,omitempty"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerPhone   string    `json:"customerPhone,omitempty"`
	CustomerCompany string    `json:"customerCompany,omitempty"`
	Quantity        string    `json:"quantity,omitempty"`
	RequestDetails  string    `json:"requestDetails,omitempty"`
	Status          string    `json:"status"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toSubmissionResponse(sub *models.QuoteSubmission) submissionResponse {
	return submissionResponse{
		Handle:          sub.Handle,
		ProductTitle:    sub.ProductTitle,
		VariantTitle:    sub.VariantTitle,
		CustomerName:    sub.CustomerName,
		CustomerEmail:   sub.CustomerEmail,
		CustomerPhone:   sub.CustomerPhone,
		CustomerCompany: sub.CustomerCompany,
		Quantity:        sub.Quantity,
		RequestDetails:  sub.RequestDetails,
		Status:          string(sub.Status),
		UpdatedAt:       sub.UpdatedAt,
	}
}

// HandleListQuotes returns a page of the shop's submissions.
//
// Query parameters: shop (required), status, first, after.
func (h *QuotesHandler) HandleListQuotes(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop is required"})
		return
	}

	first, _ := strconv.Atoi(r.URL.Query().Get("first"))
	status := models.SubmissionStatus(r.URL.Query().Get("status"))
	after := r.URL.Query().Get("after")

	client, err := h.clients.ClientFor(r.Context(), shop)
	if err != nil {
		h.writeClientError(w, shop, err)
		return
	}

	page, err := h.quotes.List(r.Context(), client, shop, status, first, after)
	if err != nil {
		if errors.Is(err, quotes.ErrInvalidStatus) {
			writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "invalid status"})
			return
		}
		slog.Error("failed to list submissions", "shop", shop, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
		return
	}

	subs := make([]submissionResponse, 0, len(page.Submissions))
	for i := range page.Submissions {
		subs = append(subs, toSubmissionResponse(&page.Submissions[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": subs,
		"endCursor":   page.EndCursor,
		"hasNextPage": page.HasNextPage,
	})
}

// HandleGetQuote returns one submission by handle.
func (h *QuotesHandler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	handle := chi.URLParam(r, "handle")
	if shop == "" || handle == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop and handle are required"})
		return
	}

	client, err := h.clients.ClientFor(r.Context(), shop)
	if err != nil {
		h.writeClientError(w, shop, err)
		return
	}

	sub, err := h.quotes.Get(r.Context(), client, shop, handle)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, jsonResponse{Error: "submission not found"})
			return
		}
		slog.Error("failed to load submission", "shop", shop, "handle", handle, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(sub))
}

// HandleUpdateStatus replaces the status of one submission.
func (h *QuotesHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	handle := chi.URLParam(r, "handle")
	if shop == "" || handle == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop and handle are required"})
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "invalid JSON payload"})
		return
	}

	client, err := h.clients.ClientFor(r.Context(), shop)
	if err != nil {
		h.writeClientError(w, shop, err)
		return
	}

	sub, err := h.quotes.UpdateStatus(r.Context(), client, shop, handle, models.SubmissionStatus(payload.Status))
	if err != nil {
		switch {
		case errors.Is(err, quotes.ErrInvalidStatus):
			writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "invalid status"})
		case errors.Is(err, records.ErrNotFound):
			writeJSON(w, http.StatusNotFound, jsonResponse{Error: "submission not found"})
		default:
			slog.Error("failed to update submission status", "shop", shop, "handle", handle, "error", err)
			writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(sub))
}

// HandleDeleteQuote removes one submission.
func (h *QuotesHandler) HandleDeleteQuote(w http.ResponseWriter, r *http.Request) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	handle := chi.URLParam(r, "handle")
	if shop == "" || handle == "" {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Error: "shop and handle are required"})
		return
	}

	client, err := h.clients.ClientFor(r.Context(), shop)
	if err != nil {
		h.writeClientError(w, shop, err)
		return
	}

	if err := h.quotes.Delete(r.Context(), client, shop, handle); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, jsonResponse{Error: "submission not found"})
			return
		}
		slog.Error("failed to delete submission", "shop", shop, "handle", handle, "error", err)
		writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{Success: true})
}

func (h *QuotesHandler) writeClientError(w http.ResponseWriter, shop string, err error) {
	if errors.Is(err, ErrShopNotInstalled) {
		writeJSON(w, http.StatusNotFound, jsonResponse{Error: "app is not installed for this shop"})
		return
	}
	slog.Error("failed to resolve shop session", "shop", shop, "error", err)
	writeJSON(w, http.StatusInternalServerError, jsonResponse{Error: "internal server error"})
}
