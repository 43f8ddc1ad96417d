package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/repository"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/service"
)

// EventLog buffers the campaign console feed. Events are appended in emission
// order and served newest-first. Cleared at the start of every run.
type EventLog struct {
	mu     sync.Mutex
	events []model.LogEvent
}

func (l *EventLog) Append(ev model.LogEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// NewestFirst returns a copy of the feed in display order.
func (l *EventLog) NewestFirst() []model.LogEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.LogEvent, len(l.events))
	for i, ev := range l.events {
		out[len(l.events)-1-i] = ev
	}
	return out
}

// CampaignHandler exposes the orchestrator and the history store over HTTP.
type CampaignHandler struct {
	Orchestrator *service.Orchestrator
	CustomerRepo repository.CustomerRepositoryInterface
	ProductRepo  repository.ProductRepositoryInterface
	HistoryRepo  repository.HistoryRepositoryInterface
	Events       *EventLog
	Logger       *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

type launchRequest struct {
	Channel   string `json:"channel"`
	BrandName string `json:"brand_name"`
	DailyMode bool   `json:"daily_mode"`
}

// LaunchRun starts a campaign over the current selection. One run at a time:
// a second launch while one is active returns 409.
func (h *CampaignHandler) LaunchRun(w http.ResponseWriter, r *http.Request) {
	var body launchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	channel := model.Channel(body.Channel)
	if !channel.Valid() {
		http.Error(w, "unknown channel: "+body.Channel, http.StatusBadRequest)
		return
	}

	recipients, err := h.CustomerRepo.ListSelected()
	if err != nil {
		http.Error(w, "failed to load recipients: "+err.Error(), http.StatusInternalServerError)
		return
	}
	products, err := h.ProductRepo.ListSelected()
	if err != nil {
		http.Error(w, "failed to load products: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Claim the run slot synchronously; checking Progress().Running would
	// race with the goroutine below reaching Run.
	h.mu.Lock()
	if !h.Orchestrator.TryStart() {
		h.mu.Unlock()
		http.Error(w, "a campaign run is already active", http.StatusConflict)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.mu.Unlock()

	h.Events.Reset()

	params := service.RunParams{
		Recipients: recipients,
		Products:   products,
		Channel:    channel,
		BrandName:  body.BrandName,
		DailyMode:  body.DailyMode,
	}

	go func() {
		defer cancel()
		if err := h.Orchestrator.Run(ctx, params); err != nil {
			h.Logger.Warn("campaign run ended with error", zap.Error(err))
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "started",
		"channel":    channel,
		"recipients": len(recipients),
		"products":   len(products),
		"daily_mode": body.DailyMode,
	})
}

// CancelRun requests cooperative cancellation of the active run.
func (h *CampaignHandler) CancelRun(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()

	if cancel == nil || !h.Orchestrator.Progress().Running {
		http.Error(w, "no active campaign run", http.StatusConflict)
		return
	}
	cancel()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "cancelling"})
}

// GetProgress returns the live counters of the current (or last) run.
func (h *CampaignHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Orchestrator.Progress())
}

// GetLogs returns the console feed, newest-first.
func (h *CampaignHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"logs": h.Events.NewestFirst(),
	})
}

// ListHistory returns a paginated list of finalized campaign records.
func (h *CampaignHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	page := 1
	pageSize := 20

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}
	channel := r.URL.Query().Get("channel")

	records, total, err := h.HistoryRepo.List((page-1)*pageSize, pageSize, channel)
	if err != nil {
		http.Error(w, "failed to fetch history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": records,
		"pagination": map[string]int{
			"page":        page,
			"page_size":   pageSize,
			"total_count": total,
			"total_pages": totalPages,
		},
	})
}

// GetHistoryRecord returns one campaign record by ID.
func (h *CampaignHandler) GetHistoryRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.HistoryRepo.GetByID(id)
	if err != nil {
		http.Error(w, "failed to fetch record: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

type selectionRequest struct {
	CustomerIDs []string `json:"customer_ids"`
	ProductIDs  []string `json:"product_ids"`
}

// UpdateSelection replaces the current recipient and product selection.
func (h *CampaignHandler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	var body selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.CustomerRepo.ReplaceSelection(body.CustomerIDs); err != nil {
		http.Error(w, "failed to update customer selection: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.ProductRepo.ReplaceSelection(body.ProductIDs); err != nil {
		http.Error(w, "failed to update product selection: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"customers_selected": len(body.CustomerIDs),
		"products_selected":  len(body.ProductIDs),
	})
}

// ListCustomers returns all imported customers.
func (h *CampaignHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.CustomerRepo.ListAll()
	if err != nil {
		http.Error(w, "failed to fetch customers: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": customers})
}

// ListProducts returns all imported products.
func (h *CampaignHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductRepo.ListAll()
	if err != nil {
		http.Error(w, "failed to fetch products: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": products})
}
