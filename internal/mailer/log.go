package mailer

import (
	"context"
	"log"

	"github.com/leapwind/serverless-auth/internal/verification/domain"
)

// LogMailer writes confirmation links to the process log instead of sending
// mail. Used in development when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to string, mode domain.Mode, confirmationURL, projectTag string) error {
	log.Printf("mailer: %s mail for %s (%s): %s", mode, to, projectTag, confirmationURL)
	return nil
}
