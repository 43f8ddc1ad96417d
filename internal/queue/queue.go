package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
)

// PhaseJob describes one deferred campaign phase. In daily mode only the
// first product runs immediately; the rest are queued as jobs the scheduled
// worker picks up on later days. Credentials are never part of the job — the
// worker reads its own from the environment.
type PhaseJob struct {
	ProductID string        `json:"product_id"`
	Channel   model.Channel `json:"channel"`
	BrandName string        `json:"brand_name,omitempty"`
	DayOffset int           `json:"day_offset"`
}

// PhasePublisher is the narrow interface the orchestrator needs.
type PhasePublisher interface {
	PublishPhase(job PhaseJob) error
}

// Queue is a minimal topic-based pub/sub abstraction.
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used in tests and when no
// broker is configured.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

type job struct {
	payload    any
	retryCount int
	maxRetries int
}

// Publish sends a message to all subscribers.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	j := job{payload: payload, maxRetries: 3}
	for _, handler := range handlers {
		go q.processJob(handler, j)
	}
	return nil
}

// processJob retries with linear backoff, then drops the job.
func (q *InMemoryQueue) processJob(handler func(payload any) error, j job) {
	for j.retryCount <= j.maxRetries {
		if err := handler(j.payload); err == nil {
			return
		}
		j.retryCount++
		if j.retryCount > j.maxRetries {
			return
		}
		time.Sleep(time.Duration(j.retryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// PhaseTopic is the topic deferred phases travel on, regardless of backend.
const PhaseTopic = "campaign_phases"

// PublishPhase lets the in-memory queue satisfy PhasePublisher.
func (q *InMemoryQueue) PublishPhase(j PhaseJob) error {
	return q.Publish(PhaseTopic, j)
}

var _ PhasePublisher = (*InMemoryQueue)(nil)
