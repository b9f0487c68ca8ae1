package http

import (
	"io"
	"net/http"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/internal/service"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// maxWebhookBody caps webhook payloads at 1 MiB
const maxWebhookBody = 1 << 20

// WebhookHandler receives checkout and order webhooks relayed by the
// platform gateway. The gateway authenticates the platform and resolves the
// store before forwarding, so payloads here are trusted.
type WebhookHandler struct {
	ingestService *service.CheckoutIngestService
	orchestrator  *service.RecoveryOrchestrator
	logger        logger.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	ingestService *service.CheckoutIngestService,
	orchestrator *service.RecoveryOrchestrator,
	logger logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		ingestService: ingestService,
		orchestrator:  orchestrator,
		logger:        logger,
	}
}

// RegisterRoutes registers the webhook routes
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/webhooks/checkout", http.HandlerFunc(h.HandleCheckout))
	mux.Handle("/webhooks/order", http.HandlerFunc(h.HandleOrder))
}

// HandleCheckout ingests a checkout created/updated webhook
func (h *WebhookHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storeID := r.URL.Query().Get("store_id")
	if storeID == "" {
		WriteJSONError(w, "store_id is required", http.StatusBadRequest)
		return
	}
	eventKind := r.URL.Query().Get("event")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	result, err := h.ingestService.Ingest(r.Context(), storeID, eventKind, body)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to ingest checkout webhook")
		WriteJSONError(w, "Failed to ingest checkout", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
	})
}

// HandleOrder processes an order completed webhook
func (h *WebhookHandler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storeID := r.URL.Query().Get("store_id")
	if storeID == "" {
		WriteJSONError(w, "store_id is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	event := h.ingestService.ParseOrderCompleted(storeID, body)
	if event.OrderID == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"result": domain.OrderCompletedIgnored,
		})
		return
	}

	result, err := h.orchestrator.HandleOrderCompleted(r.Context(), event)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to process order webhook")
		WriteJSONError(w, "Failed to process order", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
	})
}
