package delivery

import "context"

// Outcome is the result of one delivery attempt. Failures are values, not
// errors: the dispatch loop must keep going whatever happens to a single
// recipient, so adapters convert every transport problem into a failed
// Outcome instead of returning a Go error.
type Outcome struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Outcome { return Outcome{Success: true} }

func failed(reason string) Outcome { return Outcome{Success: false, Error: reason} }

// Sender performs one delivery attempt on a single channel. Subject is only
// meaningful for email; the WhatsApp adapter ignores it.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) Outcome

	// Configured reports whether the adapter holds complete credentials.
	// The orchestrator checks this before any side effect.
	Configured() error
}
