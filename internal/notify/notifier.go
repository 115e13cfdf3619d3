// Package notify fans notification intents out to in-app storage,
// the message bus, and email. Delivery is best effort; failures are
// logged and never propagated to the caller.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/repository"
	"github.com/campushq/projectdesk-api/pkg/mailer"
)

// SubjectNotifications is the NATS subject notification events are published to.
const SubjectNotifications = "projectdesk.notifications"

// Intent describes one notification to deliver to one user.
type Intent struct {
	UserID  uint
	Email   string
	Kind    string
	Title   string
	Message string
	// EmailOnly skips the in-app record, used for messages that carry
	// secrets such as OTP codes.
	EmailOnly bool
}

// Notifier delivers notification intents.
type Notifier interface {
	Dispatch(ctx context.Context, intent Intent)
}

type event struct {
	UserID    uint      `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

type notifier struct {
	repo   repository.NotificationRepository
	nc     *nats.Conn
	mail   mailer.Mailer
	logger zerolog.Logger
	now    func() time.Time
}

// New builds a Notifier. Any of nc or mail may be nil, in which case
// the corresponding channel is skipped.
func New(repo repository.NotificationRepository, nc *nats.Conn, mail mailer.Mailer, logger zerolog.Logger) Notifier {
	return &notifier{
		repo:   repo,
		nc:     nc,
		mail:   mail,
		logger: logger.With().Str("component", "notifier").Logger(),
		now:    time.Now,
	}
}

func (n *notifier) Dispatch(ctx context.Context, intent Intent) {
	if !intent.EmailOnly && intent.UserID != 0 {
		record := models.Notification{
			UserID:  intent.UserID,
			Title:   intent.Title,
			Message: intent.Message,
			Kind:    intent.Kind,
		}
		if err := n.repo.Create(ctx, &record); err != nil {
			n.logger.Warn().Err(err).Uint("user_id", intent.UserID).Str("kind", intent.Kind).
				Msg("failed to persist notification")
		}
	}

	if n.nc != nil {
		payload, err := json.Marshal(event{
			UserID:    intent.UserID,
			Kind:      intent.Kind,
			Title:     intent.Title,
			Timestamp: n.now().UTC(),
		})
		if err == nil {
			err = n.nc.Publish(SubjectNotifications, payload)
		}
		if err != nil {
			n.logger.Warn().Err(err).Str("kind", intent.Kind).Msg("failed to publish notification event")
		}
	}

	if n.mail != nil && intent.Email != "" {
		if err := n.mail.Send(intent.Email, intent.Title, intent.Message); err != nil {
			n.logger.Warn().Err(err).Str("kind", intent.Kind).Msg("failed to send notification email")
		}
	}
}
