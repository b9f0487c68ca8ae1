package http

import (
	"net/http"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/internal/service"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// PublicHandler serves the customer-facing endpoints: the one-click
// unsubscribe link embedded in every recovery email and the active-recovery
// lookup used by the storefront.
type PublicHandler struct {
	unsubscribeService *service.UnsubscribeService
	statusService      *service.RecoveryStatusService
	logger             logger.Logger
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(
	unsubscribeService *service.UnsubscribeService,
	statusService *service.RecoveryStatusService,
	logger logger.Logger,
) *PublicHandler {
	return &PublicHandler{
		unsubscribeService: unsubscribeService,
		statusService:      statusService,
		logger:             logger,
	}
}

// RegisterRoutes registers the public routes
func (h *PublicHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/unsubscribe", http.HandlerFunc(h.Unsubscribe))
	mux.Handle("/recovery/status", http.HandlerFunc(h.RecoveryStatus))
}

// Unsubscribe processes an unsubscribe link click. GET is allowed because
// the link lands straight from an email client.
func (h *PublicHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		WriteJSONError(w, "token is required", http.StatusBadRequest)
		return
	}

	if err := h.unsubscribeService.Unsubscribe(r.Context(), token); err != nil {
		WriteJSONError(w, "Invalid unsubscribe link", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<html><body><p>You have been unsubscribed from cart reminders.</p></body></html>"))
}

// RecoveryStatus answers whether a recovery is underway for a customer
func (h *PublicHandler) RecoveryStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.RecoveryStatusRequest
	if err := req.FromURLValues(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.statusService.GetStatus(r.Context(), &req)
	if err != nil {
		WriteJSONError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
