package main

import (
	"context"
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/config"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/creative"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/db"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/delivery"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/logging"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/queue"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/repository"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/service"
)

const maxRetries = 3

// The worker executes deferred daily-mode phases: each queued job is one
// product dispatched to the currently selected recipients.
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

	phaseQueue, err := queue.NewAMQPPhaseQueue(cfg.AMQPURL)
	if err != nil {
		logger.Fatal("RabbitMQ connection failed", zap.Error(err))
	}
	defer phaseQueue.Close()

	orchestrator := &service.Orchestrator{
		Creative: generator,
		Senders: map[model.Channel]delivery.Sender{
			model.ChannelWhatsApp: delivery.NewWhatsAppSender(cfg.WhatsApp),
			model.ChannelEmail:    delivery.NewGmailSender(cfg.Gmail),
		},
		OnFinished: func(rec model.CampaignRecord) {
			if err := historyRepo.Append(&rec); err != nil {
				logger.Error("failed to persist campaign record", zap.Error(err))
			}
		},
		Logger: logger,
		Config: service.OrchestratorConfig{
			MaxBatch:      cfg.MaxBatch,
			WhatsAppDelay: cfg.WhatsAppDelay,
			EmailDelay:    cfg.EmailDelay,
			PhaseDelay:    cfg.PhaseDelay,
		},
	}

	runner := &service.PhaseRunner{
		Orchestrator: orchestrator,
		Customers:    customerRepo,
		Products:     productRepo,
		Logger:       logger,
	}

	msgs, err := phaseQueue.Consume()
	if err != nil {
		logger.Fatal("failed to register consumer", zap.Error(err))
	}

	logger.Info("worker running, waiting for deferred phases")

	for d := range msgs {
		var job queue.PhaseJob
		if err := json.Unmarshal(d.Body, &job); err != nil {
			logger.Warn("invalid phase job", zap.Error(err))
			d.Ack(false)
			continue
		}

		if err := runner.Run(context.Background(), job); err != nil {
			logger.Warn("phase execution failed",
				zap.String("product_id", job.ProductID), zap.Error(err))

			// Republish with an incremented counter; Nack redelivery would
			// loop forever since it never touches headers.
			retry := queue.RetryCount(d.Headers)
			if retry < maxRetries {
				if err := phaseQueue.Requeue(d.Body, retry+1); err != nil {
					logger.Error("failed to requeue phase", zap.Error(err))
				}
			} else {
				logger.Error("phase dropped after retries",
					zap.String("product_id", job.ProductID), zap.Error(err))
			}
		}
		d.Ack(false)
	}
}
