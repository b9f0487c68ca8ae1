package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/internal/service"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// RecoveryHandler serves the dashboard API: checkout and sequence views,
// analytics and the store policy.
type RecoveryHandler struct {
	checkoutService  *service.CheckoutService
	sequenceService  *service.SequenceService
	analyticsService *service.RecoveryAnalyticsService
	settingsService  *service.StoreSettingsService
	logger           logger.Logger
}

// NewRecoveryHandler creates a new recovery handler
func NewRecoveryHandler(
	checkoutService *service.CheckoutService,
	sequenceService *service.SequenceService,
	analyticsService *service.RecoveryAnalyticsService,
	settingsService *service.StoreSettingsService,
	logger logger.Logger,
) *RecoveryHandler {
	return &RecoveryHandler{
		checkoutService:  checkoutService,
		sequenceService:  sequenceService,
		analyticsService: analyticsService,
		settingsService:  settingsService,
		logger:           logger,
	}
}

// RegisterRoutes registers the RPC-style dashboard endpoints
func (h *RecoveryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/checkouts.list", http.HandlerFunc(h.ListCheckouts))
	mux.Handle("/api/checkouts.get", http.HandlerFunc(h.GetCheckout))
	mux.Handle("/api/sequences.list", http.HandlerFunc(h.ListSequences))
	mux.Handle("/api/sequences.get", http.HandlerFunc(h.GetSequence))
	mux.Handle("/api/sequences.events", http.HandlerFunc(h.GetSequenceEvents))
	mux.Handle("/api/sequences.stop", http.HandlerFunc(h.StopSequence))
	mux.Handle("/api/analytics.summary", http.HandlerFunc(h.GetSummary))
	mux.Handle("/api/analytics.trend", http.HandlerFunc(h.GetDailyTrend))
	mux.Handle("/api/settings.get", http.HandlerFunc(h.GetSettings))
	mux.Handle("/api/settings.update", http.HandlerFunc(h.UpdateSettings))
}

// ListCheckouts returns a filtered page of checkouts
func (h *RecoveryHandler) ListCheckouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ListCheckoutsRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.checkoutService.ListCheckouts(r.Context(), &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list checkouts")
		WriteJSONError(w, "Failed to list checkouts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetCheckout returns one checkout
func (h *RecoveryHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storeID := r.URL.Query().Get("store_id")
	checkoutID := r.URL.Query().Get("id")
	if storeID == "" || checkoutID == "" {
		WriteJSONError(w, "store_id and id are required", http.StatusBadRequest)
		return
	}

	checkout, err := h.checkoutService.GetCheckout(r.Context(), storeID, checkoutID)
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutNotFound) {
			WriteJSONError(w, "Checkout not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get checkout")
		WriteJSONError(w, "Failed to get checkout", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"checkout": checkout,
	})
}

// ListSequences returns a filtered page of sequences
func (h *RecoveryHandler) ListSequences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ListSequencesRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.sequenceService.ListSequences(r.Context(), &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list sequences")
		WriteJSONError(w, "Failed to list sequences", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetSequence returns one sequence
func (h *RecoveryHandler) GetSequence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storeID := r.URL.Query().Get("store_id")
	sequenceID := r.URL.Query().Get("id")
	if storeID == "" || sequenceID == "" {
		WriteJSONError(w, "store_id and id are required", http.StatusBadRequest)
		return
	}

	sequence, err := h.sequenceService.GetSequence(r.Context(), storeID, sequenceID)
	if err != nil {
		if errors.Is(err, domain.ErrSequenceNotFound) {
			WriteJSONError(w, "Sequence not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get sequence")
		WriteJSONError(w, "Failed to get sequence", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sequence": sequence,
	})
}

// GetSequenceEvents returns the audit log of a sequence
func (h *RecoveryHandler) GetSequenceEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storeID := r.URL.Query().Get("store_id")
	sequenceID := r.URL.Query().Get("id")
	if storeID == "" || sequenceID == "" {
		WriteJSONError(w, "store_id and id are required", http.StatusBadRequest)
		return
	}

	events, err := h.sequenceService.GetSequenceEvents(r.Context(), storeID, sequenceID)
	if err != nil {
		if errors.Is(err, domain.ErrSequenceNotFound) {
			WriteJSONError(w, "Sequence not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get sequence events")
		WriteJSONError(w, "Failed to get sequence events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// StopSequence stops a sequence manually
func (h *RecoveryHandler) StopSequence(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.StopSequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.sequenceService.StopSequence(r.Context(), &req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to stop sequence")
		WriteJSONError(w, "Failed to stop sequence", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// GetSummary returns the recovery funnel aggregates
func (h *RecoveryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SummaryRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.analyticsService.GetSummary(r.Context(), &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to get recovery summary")
		WriteJSONError(w, "Failed to get summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// GetDailyTrend returns the per-day abandoned vs recovered trend
func (h *RecoveryHandler) GetDailyTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SummaryRequest
	if err := req.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	trend, err := h.analyticsService.GetDailyTrend(r.Context(), &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to get daily trend")
		WriteJSONError(w, "Failed to get trend", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trend": trend,
	})
}

// GetSettings returns the store recovery policy
func (h *RecoveryHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storeID := r.URL.Query().Get("store_id")
	if storeID == "" {
		WriteJSONError(w, "store_id is required", http.StatusBadRequest)
		return
	}

	settings, err := h.settingsService.GetSettings(r.Context(), storeID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			WriteJSONError(w, "Store not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get settings")
		WriteJSONError(w, "Failed to get settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings": settings,
	})
}

// UpdateSettings patches the store recovery policy
func (h *RecoveryHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.UpdateRecoverySettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	settings, err := h.settingsService.UpdateSettings(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			WriteJSONError(w, "Store not found", http.StatusNotFound)
			return
		}
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings": settings,
	})
}
