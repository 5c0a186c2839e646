package mail

import (
	"context"
	"log"
)

// LogTransport writes messages to the application log instead of sending
// them. Used in development when no SendGrid API key is configured.
type LogTransport struct{}

func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

func (t *LogTransport) Send(_ context.Context, msg Message) error {
	log.Printf("Email (not sent, log transport): to=%s subject=%q bytes=%d", msg.To, msg.Subject, len(msg.HTML))
	return nil
}
