// Package mail abstracts outbound email delivery behind a small transport
// interface so the digest pipeline can be tested without a provider account.
package mail

import "context"

// Message is a fully rendered email ready for delivery.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers rendered messages. Implementations must be safe for
// concurrent use.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
