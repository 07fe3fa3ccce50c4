package email

import "context"

// Attachment is a file carried on an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Provider delivers mail. It is an explicitly constructed, injected
// collaborator; nothing in the billing core holds transport state.
type Provider interface {
	Send(ctx context.Context, to []string, subject, htmlBody string, attachments ...Attachment) error
}

// NoOpProvider is used when SMTP is disabled and in tests.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject, htmlBody string, attachments ...Attachment) error {
	return nil
}
