package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/queue"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/repository"
)

// PhaseRunner executes deferred phase jobs against the current selection.
// cmd/worker drives it from RabbitMQ; cmd/server drives it from the
// in-memory queue when no broker is reachable.
type PhaseRunner struct {
	Orchestrator *Orchestrator
	Customers    repository.CustomerRepositoryInterface
	Products     repository.ProductRepositoryInterface
	Logger       *zap.Logger
}

// Handle adapts Run to the in-memory queue's subscriber signature. A busy
// orchestrator surfaces as an error so the queue's retry backoff reschedules
// the job instead of two campaigns dispatching at once.
func (r *PhaseRunner) Handle(payload any) error {
	job, ok := payload.(queue.PhaseJob)
	if !ok {
		return fmt.Errorf("unexpected phase payload type %T", payload)
	}
	return r.Run(context.Background(), job)
}

// Run executes one deferred product phase as an immediate single-product
// campaign against the currently selected recipients.
func (r *PhaseRunner) Run(ctx context.Context, job queue.PhaseJob) error {
	product, err := r.Products.GetByID(job.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		// Product deselected or deleted since the job was queued; drop it.
		if r.Logger != nil {
			r.Logger.Info("deferred product no longer exists, skipping",
				zap.String("product_id", job.ProductID))
		}
		return nil
	}

	recipients, err := r.Customers.ListSelected()
	if err != nil {
		return err
	}

	if !r.Orchestrator.TryStart() {
		return fmt.Errorf("a campaign run is active, deferring product %s", job.ProductID)
	}
	return r.Orchestrator.Run(ctx, RunParams{
		Recipients: recipients,
		Products:   []model.Product{*product},
		Channel:    job.Channel,
		BrandName:  job.BrandName,
	})
}
