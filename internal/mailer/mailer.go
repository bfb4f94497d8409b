// Package mailer delivers confirmation-link mail for sign-in and sign-up flows.
package mailer

import (
	"context"
	"sync"

	"github.com/leapwind/serverless-auth/internal/verification/domain"
)

// Mailer sends a confirmation link to a recipient. Fire-and-forget from the
// caller's perspective: a non-nil error is the only signal, and the caller
// performs no retries or rollback.
type Mailer interface {
	Send(ctx context.Context, to string, mode domain.Mode, confirmationURL, projectTag string) error
}

// SentMail records one delivery captured by the Mock mailer.
type SentMail struct {
	To              string
	Mode            domain.Mode
	ConfirmationURL string
	ProjectTag      string
}

// Mock is an in-memory Mailer for tests. If Err is set, Send fails with it
// after recording the mail.
type Mock struct {
	mu   sync.Mutex
	Err  error
	sent []SentMail
}

func (m *Mock) Send(ctx context.Context, to string, mode domain.Mode, confirmationURL, projectTag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Mode: mode, ConfirmationURL: confirmationURL, ProjectTag: projectTag})
	return m.Err
}

// Sent returns a copy of all recorded deliveries.
func (m *Mock) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
