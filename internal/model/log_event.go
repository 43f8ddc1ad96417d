package model

import "time"

// Agent tags the emitter of a log event. The delivery agent variant depends
// on the active channel so the UI can render them distinctly.
type Agent string

const (
	AgentManager  Agent = "Manager"
	AgentCreative Agent = "Creative Agent"
	AgentWhatsApp Agent = "WhatsApp Agent"
	AgentEmail    Agent = "Email Agent"
)

// DeliveryAgentFor maps a channel to its delivery agent tag.
func DeliveryAgentFor(ch Channel) Agent {
	if ch == ChannelEmail {
		return AgentEmail
	}
	return AgentWhatsApp
}

type EventStatus string

const (
	StatusPending    EventStatus = "pending"
	StatusProcessing EventStatus = "processing"
	StatusCompleted  EventStatus = "completed"
	StatusError      EventStatus = "error"
)

// LogEvent is one entry in the campaign console feed. Events are appended in
// emission order; the UI displays them newest-first.
type LogEvent struct {
	Agent     Agent       `json:"agent"`
	Message   string      `json:"message"`
	Status    EventStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}
