// Package mail sends transactional onboarding email.
package mail

import (
	"context"
	"log/slog"

	"github.com/talentwire/onboard/pkg/slogx"
)

// Message is a single outbound email.
type Message struct {
	To       string
	Subject  string
	BodyText string
	BodyHTML string
}

// Dispatcher delivers messages. Implementations must be safe for
// concurrent use.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// LogDispatcher writes messages to the log instead of delivering them.
// Used in development and tests where no mail backend is configured.
type LogDispatcher struct{}

func (LogDispatcher) Send(ctx context.Context, msg Message) error {
	slogx.FromContext(ctx).Info("mail suppressed, no dispatcher configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
