package notify

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campushq/projectdesk-api/internal/models"
)

type recordingRepo struct {
	created []models.Notification
	err     error
}

func (r *recordingRepo) Create(_ context.Context, notification *models.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, *notification)
	return nil
}

func (r *recordingRepo) ListByUser(context.Context, uint, int, int) ([]models.Notification, error) {
	return nil, nil
}

func (r *recordingRepo) MarkRead(context.Context, uint, uint) (models.Notification, error) {
	return models.Notification{}, nil
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func TestDispatchPersistsAndEmails(t *testing.T) {
	repo := &recordingRepo{}
	mail := &recordingMailer{}
	n := New(repo, nil, mail, zerolog.New(io.Discard))

	n.Dispatch(context.Background(), Intent{
		UserID:  7,
		Email:   "jane@uni.edu",
		Kind:    models.NotificationKindTeamInvitation,
		Title:   "You were invited",
		Message: "Join team falcons",
	})

	require.Len(t, repo.created, 1)
	require.Equal(t, uint(7), repo.created[0].UserID)
	require.Equal(t, "Join team falcons", repo.created[0].Message)
	require.Equal(t, []string{"jane@uni.edu"}, mail.sent)
}

func TestDispatchEmailOnlySkipsTheInAppRecord(t *testing.T) {
	repo := &recordingRepo{}
	mail := &recordingMailer{}
	n := New(repo, nil, mail, zerolog.New(io.Discard))

	n.Dispatch(context.Background(), Intent{
		UserID:    7,
		Email:     "jane@uni.edu",
		Kind:      models.NotificationKindOTP,
		Title:     "Your login code",
		Message:   "123456",
		EmailOnly: true,
	})

	require.Empty(t, repo.created, "secrets never land in the notification table")
	require.Len(t, mail.sent, 1)
}

func TestDispatchSkipsUnknownRecipients(t *testing.T) {
	repo := &recordingRepo{}
	n := New(repo, nil, nil, zerolog.New(io.Discard))

	n.Dispatch(context.Background(), Intent{
		Email:   "stranger@uni.edu",
		Kind:    models.NotificationKindTeamInvitation,
		Title:   "You were invited",
		Message: "Join team falcons",
	})

	require.Empty(t, repo.created, "no account means no in-app row")
}

func TestDispatchNeverPropagatesDeliveryFailures(t *testing.T) {
	repo := &recordingRepo{err: errors.New("db down")}
	mail := &recordingMailer{err: errors.New("smtp down")}
	n := New(repo, nil, mail, zerolog.New(io.Discard))

	n.Dispatch(context.Background(), Intent{
		UserID:  7,
		Email:   "jane@uni.edu",
		Kind:    models.NotificationKindTeamInvitation,
		Title:   "You were invited",
		Message: "Join team falcons",
	})
}
