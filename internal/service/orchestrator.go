package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/creative"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/delivery"
	appErrors "github.com/uttu25/AdGenius-AI-Campaigner/internal/errors"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/metrics"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/queue"
)

// EventSink receives every log event as it is emitted. The run is long-lived,
// so progress is pushed through callbacks rather than returned.
type EventSink func(model.LogEvent)

// HistorySink receives one finalized record per product phase. Fire-and-forget
// from the orchestrator's point of view.
type HistorySink func(model.CampaignRecord)

// RunParams describes one campaign run. Recipients and products are processed
// in the order given.
type RunParams struct {
	Recipients []model.Customer
	Products   []model.Product
	Channel    model.Channel
	BrandName  string
	DailyMode  bool
}

type OrchestratorConfig struct {
	// MaxBatch caps the recipients attempted per phase. Account protection:
	// messaging gateways classify bursty senders as abusive.
	MaxBatch int

	// WhatsApp needs on the order of seconds between messages; email can go
	// much faster.
	WhatsAppDelay time.Duration
	EmailDelay    time.Duration

	// Cooldown between product phases in immediate mode.
	PhaseDelay time.Duration
}

func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		MaxBatch:      1000,
		WhatsAppDelay: 1500 * time.Millisecond,
		EmailDelay:    200 * time.Millisecond,
		PhaseDelay:    time.Second,
	}
}

// Orchestrator drives one campaign end to end: validation, per-product
// creative generation, sequential per-recipient dispatch, counters, and
// record emission. Dispatch is deliberately sequential — concurrent sends
// would defeat the rate-limiting protection, not just complicate bookkeeping.
type Orchestrator struct {
	Creative   creative.Generator
	Senders    map[model.Channel]delivery.Sender
	OnEvent    EventSink
	OnFinished HistorySink
	Scheduler  queue.PhasePublisher // optional; carries deferred daily phases
	Logger     *zap.Logger
	Config     OrchestratorConfig

	running      atomic.Bool
	currentPhase atomic.Int64
	completed    atomic.Int64
	failed       atomic.Int64
	skipped      atomic.Int64
}

// ProgressSnapshot is a point-in-time view of the live counters, safe to read
// while a run is in flight.
type ProgressSnapshot struct {
	Running      bool `json:"running"`
	CurrentPhase int  `json:"current_phase"`
	Completed    int  `json:"completed"`
	Failed       int  `json:"failed"`
	Skipped      int  `json:"skipped"`
}

// TryStart claims the single-run slot without starting work, so launchers
// can reject a concurrent run before the Run goroutine is even scheduled.
// The slot is released when Run returns.
func (o *Orchestrator) TryStart() bool {
	return o.running.CompareAndSwap(false, true)
}

func (o *Orchestrator) Progress() ProgressSnapshot {
	return ProgressSnapshot{
		Running:      o.running.Load(),
		CurrentPhase: int(o.currentPhase.Load()),
		Completed:    int(o.completed.Load()),
		Failed:       int(o.failed.Load()),
		Skipped:      int(o.skipped.Load()),
	}
}

// Run executes one campaign. It either completes the whole product loop or
// aborts early on the first fatal error; there is no paused state. ctx is the
// cooperative cancellation token, checked between recipients and between
// phases, never mid-delivery-call.
func (o *Orchestrator) Run(ctx context.Context, p RunParams) error {
	o.running.Store(true) // no-op when the slot was claimed via TryStart
	defer o.running.Store(false)
	o.resetProgress()
	metrics.RunsStarted.Inc()

	// Preconditions, in order, before any side effect. The first failing
	// check aborts the entire run with a single Manager error event.
	if len(p.Products) == 0 {
		return o.abort("No products selected. Select at least one product before launching.",
			appErrors.NewValidation("no products selected"))
	}
	if len(p.Recipients) == 0 {
		return o.abort("No recipients selected. Use the filters to select target recipients.",
			appErrors.NewValidation("no recipients selected"))
	}
	sender := o.Senders[p.Channel]
	if sender == nil {
		return o.abort(fmt.Sprintf("Unknown delivery channel %q.", p.Channel),
			appErrors.NewValidation("channel not configured"))
	}
	if err := sender.Configured(); err != nil {
		return o.abort(fmt.Sprintf("%s API credentials missing. Configure them in settings.", p.Channel),
			appErrors.NewValidation("channel not configured"))
	}

	// Protective cap. Truncation is silent-by-policy: the advisory event is
	// emitted for the caller to surface, the run never blocks on confirmation.
	targets := p.Recipients
	if len(targets) > o.Config.MaxBatch {
		targets = targets[:o.Config.MaxBatch]
		o.emit(model.AgentManager,
			fmt.Sprintf("Account protection: %d recipients selected, batch capped at %d.", len(p.Recipients), o.Config.MaxBatch),
			model.StatusCompleted)
	}

	for i, product := range p.Products {
		if err := ctx.Err(); err != nil {
			return o.cancelled(err)
		}

		if p.DailyMode && i > 0 {
			o.deferPhase(i, product, p)
			continue
		}

		if err := o.runPhase(ctx, i, product, targets, sender, p); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return o.cancelled(err)
			}
			o.emit(model.AgentManager, "SYSTEM FAILURE: "+err.Error(), model.StatusError)
			metrics.RunsAborted.Inc()
			return err
		}

		if i < len(p.Products)-1 && !p.DailyMode {
			o.emit(model.AgentManager, "Cooling down before next phase.", model.StatusProcessing)
			if err := o.sleep(ctx, o.Config.PhaseDelay); err != nil {
				return o.cancelled(err)
			}
		}
	}

	o.emit(model.AgentManager, "All campaign phases complete.", model.StatusCompleted)
	return nil
}

// deferPhase records a daily-mode placeholder: a zero-valued history entry
// representing a future run, plus a job on the phase queue for the scheduled
// worker to pick up.
func (o *Orchestrator) deferPhase(idx int, product model.Product, p RunParams) {
	o.emit(model.AgentManager,
		fmt.Sprintf("Product %q scheduled for day %d.", product.Name, idx+1),
		model.StatusPending)

	o.finish(model.CampaignRecord{
		ID:          recordID(idx),
		Timestamp:   time.Now(),
		ProductName: product.Name,
		Channel:     p.Channel,
	})

	if o.Scheduler != nil {
		job := queue.PhaseJob{
			ProductID: product.ID,
			Channel:   p.Channel,
			BrandName: p.BrandName,
			DayOffset: idx,
		}
		if err := o.Scheduler.PublishPhase(job); err != nil {
			o.logWarn("failed to enqueue deferred phase", err)
		}
	}
}

func (o *Orchestrator) runPhase(ctx context.Context, idx int, product model.Product, targets []model.Customer, sender delivery.Sender, p RunParams) error {
	o.currentPhase.Store(int64(idx))

	o.emit(model.AgentManager,
		fmt.Sprintf("Orchestration phase %d started. Product: %s. Target count: %d.", idx+1, product.Name, len(targets)),
		model.StatusProcessing)
	o.emit(model.AgentCreative,
		fmt.Sprintf("Generating ad copy and visual assets for %s...", product.Name),
		model.StatusProcessing)

	adCopy, imageURL, err := o.generateCreativePack(ctx, product, p.BrandName)
	if err != nil {
		o.emit(model.AgentCreative, "Creative generation failed: "+err.Error(), model.StatusError)
		return err
	}
	o.emit(model.AgentCreative, "Creative pack finalized. Transferring to Delivery Agent.", model.StatusCompleted)

	agent := model.DeliveryAgentFor(p.Channel)
	o.emit(agent, fmt.Sprintf("Beginning sequential dispatch to %d recipients.", len(targets)), model.StatusProcessing)

	var success, failed, skipped int
	reasons := []string{}
	seen := map[string]struct{}{}
	subject := subjectFor(product, p.BrandName)

	for i, customer := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Eligibility: explicit opt-out or a missing contact field excludes
		// the recipient without counting as a failure.
		addr := customer.Address(p.Channel)
		if addr == "" || model.OptedOut(customer.OptInFor(p.Channel)) {
			skipped++
			o.skipped.Add(1)
			metrics.RecipientsSkipped.WithLabelValues(string(p.Channel)).Inc()
			continue
		}

		message := Personalize(adCopy, customer)
		outcome := sender.Send(ctx, addr, subject, message)
		if outcome.Success {
			success++
			o.completed.Add(1)
			metrics.MessagesSent.WithLabelValues(string(p.Channel)).Inc()
		} else {
			failed++
			o.failed.Add(1)
			metrics.MessagesFailed.WithLabelValues(string(p.Channel)).Inc()
			if _, dup := seen[outcome.Error]; !dup {
				seen[outcome.Error] = struct{}{}
				reasons = append(reasons, outcome.Error)
			}
			o.emit(agent, fmt.Sprintf("Failed [%s]: %s", customer.Name, outcome.Error), model.StatusError)
		}

		if i < len(targets)-1 {
			if err := o.sleep(ctx, o.messageDelay(p.Channel)); err != nil {
				return err
			}
		}
	}

	o.emit(agent,
		fmt.Sprintf("Dispatch cycle complete: success=%d failed=%d skipped=%d.", success, failed, skipped),
		model.StatusCompleted)

	o.finish(model.CampaignRecord{
		ID:             recordID(idx),
		Timestamp:      time.Now(),
		ProductName:    product.Name,
		TotalRecords:   len(targets),
		SuccessCount:   success,
		FailureCount:   failed,
		SkippedCount:   skipped,
		AdCopy:         adCopy,
		ImageURL:       imageURL,
		Channel:        p.Channel,
		FailureReasons: reasons,
	})
	o.emit(model.AgentManager, fmt.Sprintf("Campaign phase finished for %s. Results logged.", product.Name), model.StatusCompleted)
	return nil
}

// generateCreativePack runs copy and image generation concurrently; both
// complete before dispatch begins. A copy failure is fatal to the run, an
// image failure degrades the phase to text-only delivery.
func (o *Orchestrator) generateCreativePack(ctx context.Context, product model.Product, brandName string) (string, string, error) {
	var (
		wg       sync.WaitGroup
		adCopy   string
		imageURL string
		copyErr  error
		imgErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		adCopy, copyErr = o.Creative.GenerateAdCopy(ctx, product, brandName)
	}()
	go func() {
		defer wg.Done()
		imageURL, imgErr = o.Creative.GenerateProductImage(ctx, product, brandName)
	}()
	wg.Wait()

	if copyErr != nil {
		var ce *appErrors.CreativeGenerationError
		if !errors.As(copyErr, &ce) {
			copyErr = appErrors.NewCreativeGeneration(copyErr)
		}
		return "", "", copyErr
	}
	if imgErr != nil {
		o.emit(model.AgentCreative, "Image generation failed; continuing with text-only creative.", model.StatusError)
		imageURL = ""
	}
	return adCopy, imageURL, nil
}

func (o *Orchestrator) abort(msg string, err error) error {
	o.emit(model.AgentManager, "ABORTED: "+msg, model.StatusError)
	metrics.RunsAborted.Inc()
	return err
}

func (o *Orchestrator) cancelled(err error) error {
	o.emit(model.AgentManager, "Run cancelled.", model.StatusError)
	metrics.RunsAborted.Inc()
	return fmt.Errorf("campaign run cancelled: %w", err)
}

func (o *Orchestrator) emit(agent model.Agent, msg string, status model.EventStatus) {
	ev := model.LogEvent{Agent: agent, Message: msg, Status: status, Timestamp: time.Now()}
	if o.OnEvent != nil {
		o.OnEvent(ev)
	}
	if o.Logger != nil {
		if status == model.StatusError {
			o.Logger.Warn(msg, zap.String("agent", string(agent)))
		} else {
			o.Logger.Info(msg, zap.String("agent", string(agent)))
		}
	}
}

func (o *Orchestrator) finish(rec model.CampaignRecord) {
	if o.OnFinished != nil {
		o.OnFinished(rec)
	}
}

func (o *Orchestrator) logWarn(msg string, err error) {
	if o.Logger != nil {
		o.Logger.Warn(msg, zap.Error(err))
	}
}

func (o *Orchestrator) messageDelay(ch model.Channel) time.Duration {
	if ch == model.ChannelEmail {
		return o.Config.EmailDelay
	}
	return o.Config.WhatsAppDelay
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (o *Orchestrator) resetProgress() {
	o.currentPhase.Store(0)
	o.completed.Store(0)
	o.failed.Store(0)
	o.skipped.Store(0)
}

func subjectFor(product model.Product, brandName string) string {
	if brandName != "" {
		return fmt.Sprintf("%s: %s", brandName, product.Name)
	}
	return product.Name
}

func recordID(idx int) string {
	return fmt.Sprintf("campaign-%d-%d", time.Now().UnixMilli(), idx)
}
