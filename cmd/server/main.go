package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/config"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/creative"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/db"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/delivery"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/handler"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/logging"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/queue"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/repository"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogFile, os.Getenv("VERBOSE") != "")
	if err != nil {
		os.Stderr.WriteString("logger error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer conn.Close()

	customerRepo := &repository.CustomerRepository{DB: conn}
	productRepo := &repository.ProductRepository{DB: conn}
	historyRepo := &repository.HistoryRepository{DB: conn}

	generator, err := creative.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		logger.Fatal("creative generator init failed", zap.Error(err))
	}

	events := &handler.EventLog{}
	orchestrator := &service.Orchestrator{
		Creative: generator,
		Senders: map[model.Channel]delivery.Sender{
			model.ChannelWhatsApp: delivery.NewWhatsAppSender(cfg.WhatsApp),
			model.ChannelEmail:    delivery.NewGmailSender(cfg.Gmail),
		},
		OnEvent:    events.Append,
		OnFinished: appendHistory(historyRepo, logger),
		Logger:     logger,
		Config: service.OrchestratorConfig{
			MaxBatch:      cfg.MaxBatch,
			WhatsAppDelay: cfg.WhatsAppDelay,
			EmailDelay:    cfg.EmailDelay,
			PhaseDelay:    cfg.PhaseDelay,
		},
	}

	// Deferred daily phases go through RabbitMQ when a broker is reachable;
	// otherwise the in-memory queue executes them in-process, best-effort.
	if phaseQueue, err := queue.NewAMQPPhaseQueue(cfg.AMQPURL); err != nil {
		logger.Warn("RabbitMQ unavailable, deferred phases run in-process", zap.Error(err))
		runner := &service.PhaseRunner{
			Orchestrator: orchestrator,
			Customers:    customerRepo,
			Products:     productRepo,
			Logger:       logger,
		}
		mem := queue.NewInMemoryQueue()
		if err := mem.Subscribe(queue.PhaseTopic, runner.Handle); err != nil {
			logger.Fatal("failed to subscribe phase runner", zap.Error(err))
		}
		orchestrator.Scheduler = mem
	} else {
		defer phaseQueue.Close()
		orchestrator.Scheduler = phaseQueue
	}

	campaignHandler := &handler.CampaignHandler{
		Orchestrator: orchestrator,
		CustomerRepo: customerRepo,
		ProductRepo:  productRepo,
		HistoryRepo:  historyRepo,
		Events:       events,
		Logger:       logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/campaigns/run", campaignHandler.LaunchRun)
	r.Post("/campaigns/run/cancel", campaignHandler.CancelRun)
	r.Get("/campaigns/run/progress", campaignHandler.GetProgress)
	r.Get("/campaigns/run/logs", campaignHandler.GetLogs)
	r.Get("/campaigns/history", campaignHandler.ListHistory)
	r.Get("/campaigns/history/{id}", campaignHandler.GetHistoryRecord)
	r.Post("/selection", campaignHandler.UpdateSelection)
	r.Get("/customers", campaignHandler.ListCustomers)
	r.Get("/products", campaignHandler.ListProducts)
	r.Handle("/metrics", promhttp.Handler())

	logger.Info("server running", zap.String("addr", cfg.ServerAddr))
	if err := http.ListenAndServe(cfg.ServerAddr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// appendHistory persists finalized records. Fire-and-forget from the
// orchestrator's point of view; a storage failure is logged, never bubbled
// back into the run.
func appendHistory(repo repository.HistoryRepositoryInterface, logger *zap.Logger) service.HistorySink {
	return func(rec model.CampaignRecord) {
		if err := repo.Append(&rec); err != nil {
			logger.Error("failed to persist campaign record",
				zap.String("record_id", rec.ID), zap.Error(err))
		}
	}
}
