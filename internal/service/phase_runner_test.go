package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/delivery"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/queue"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/service"
)

type stubCustomerSource struct{ selected []model.Customer }

func (s *stubCustomerSource) GetByID(id string) (*model.Customer, error) { return nil, nil }
func (s *stubCustomerSource) ListAll() ([]model.Customer, error)         { return s.selected, nil }
func (s *stubCustomerSource) ListSelected() ([]model.Customer, error)    { return s.selected, nil }
func (s *stubCustomerSource) ReplaceSelection(ids []string) error        { return nil }
func (s *stubCustomerSource) Insert(c *model.Customer) error             { return nil }

type stubProductSource struct{ byID map[string]model.Product }

func (s *stubProductSource) GetByID(id string) (*model.Product, error) {
	if p, ok := s.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}
func (s *stubProductSource) ListAll() ([]model.Product, error)      { return nil, nil }
func (s *stubProductSource) ListSelected() ([]model.Product, error) { return nil, nil }
func (s *stubProductSource) ReplaceSelection(ids []string) error    { return nil }
func (s *stubProductSource) Insert(p *model.Product) error          { return nil }

// Daily mode with the in-memory queue as scheduler: the deferred product must
// actually be dispatched in-process once the first phase's run finishes.
func TestDeferredPhasesExecuteThroughInMemoryQueue(t *testing.T) {
	sender := &fakeSender{}

	var mu sync.Mutex
	var records []model.CampaignRecord

	orch := &service.Orchestrator{
		Creative: &fakeGenerator{},
		Senders: map[model.Channel]delivery.Sender{
			model.ChannelWhatsApp: sender,
			model.ChannelEmail:    sender,
		},
		OnFinished: func(rec model.CampaignRecord) {
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
		},
		Config: service.OrchestratorConfig{MaxBatch: 1000},
	}

	recipients := customers(2)
	runner := &service.PhaseRunner{
		Orchestrator: orch,
		Customers:    &stubCustomerSource{selected: recipients},
		Products:     &stubProductSource{byID: map[string]model.Product{"p2": {ID: "p2", Name: "Hats"}}},
	}
	mem := queue.NewInMemoryQueue()
	require.NoError(t, mem.Subscribe(queue.PhaseTopic, runner.Handle))
	orch.Scheduler = mem

	err := orch.Run(context.Background(), service.RunParams{
		Recipients: recipients,
		Products:   products("Shoes", "Hats"),
		Channel:    model.ChannelWhatsApp,
		DailyMode:  true,
	})
	require.NoError(t, err)

	// Phase 1's record and the placeholder land synchronously; the queued
	// phase retries past the still-active run and emits a third record.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(records) == 3
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, 4, sender.sentCount())

	mu.Lock()
	defer mu.Unlock()
	deferred := records[2]
	assert.Equal(t, "Hats", deferred.ProductName)
	assert.Equal(t, 2, deferred.TotalRecords)
	assert.Equal(t, 2, deferred.SuccessCount)
}

func TestPhaseRunnerDropsMissingProduct(t *testing.T) {
	sender := &fakeSender{}
	orch := &service.Orchestrator{
		Creative: &fakeGenerator{},
		Senders:  map[model.Channel]delivery.Sender{model.ChannelWhatsApp: sender},
		Config:   service.OrchestratorConfig{MaxBatch: 1000},
	}
	runner := &service.PhaseRunner{
		Orchestrator: orch,
		Customers:    &stubCustomerSource{selected: customers(2)},
		Products:     &stubProductSource{},
	}

	err := runner.Run(context.Background(), queue.PhaseJob{ProductID: "gone", Channel: model.ChannelWhatsApp})
	require.NoError(t, err)
	assert.Zero(t, sender.sentCount())
}

func TestPhaseRunnerYieldsToActiveRun(t *testing.T) {
	sender := &fakeSender{}
	orch := &service.Orchestrator{
		Creative: &fakeGenerator{},
		Senders:  map[model.Channel]delivery.Sender{model.ChannelWhatsApp: sender},
		Config:   service.OrchestratorConfig{MaxBatch: 1000},
	}
	require.True(t, orch.TryStart(), "slot free initially")

	runner := &service.PhaseRunner{
		Orchestrator: orch,
		Customers:    &stubCustomerSource{selected: customers(1)},
		Products:     &stubProductSource{byID: map[string]model.Product{"p1": {ID: "p1", Name: "Shoes"}}},
	}

	err := runner.Run(context.Background(), queue.PhaseJob{ProductID: "p1", Channel: model.ChannelWhatsApp})
	require.Error(t, err, "busy orchestrator defers the job to the queue's retry")
	assert.Zero(t, sender.sentCount())
}
