// Package notify carries the best-effort transactional email channel. A send
// failure is logged and retried by the queue; it never fails the business
// operation that requested it.
package notify

import "context"

// Kind names a recognized transactional message.
type Kind string

const (
	KindDemoReceived     Kind = "demo-received"
	KindPaymentLink      Kind = "payment-link"
	KindWelcome          Kind = "welcome"
	KindContactRelay     Kind = "contact-form-relay"
	KindCoachCredentials Kind = "coach-credentials"
)

// Message is one outbound email.
type Message struct {
	Kind     Kind
	To       string
	ToName   string
	Subject  string
	TextBody string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
