package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, msg Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func contactInput(message string) models.ContactInput {
	return models.ContactInput{
		Name:    " Ann ",
		Email:   "Ann@Example.com",
		Subject: "Project idea",
		Message: message,
	}
}

func TestContactSubmitMessageLength(t *testing.T) {
	_, repos := testutil.Repos(t)
	notifier := &recordingNotifier{}
	s := NewContactService(repos.Contacts, notifier, "admin@example.com", time.Second, testutil.Logger())
	ctx := context.Background()

	_, err := s.Submit(ctx, contactInput("123456789"), models.Origin{})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Contains(t, ae.Fields, "message")

	msg, err := s.Submit(ctx, contactInput("1234567890"), models.Origin{IP: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", msg.Name)
	assert.Equal(t, "ann@example.com", msg.Email)
	assert.Equal(t, models.StatusNew, msg.Status)
	assert.Equal(t, models.PriorityNormal, msg.Priority)
	assert.Equal(t, "10.0.0.1", msg.IPAddress)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "admin@example.com", notifier.sent[0].To)
	assert.Equal(t, "ann@example.com", notifier.sent[0].ReplyTo)

	n, err := s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestContactSubmitSurvivesNotifierFailure(t *testing.T) {
	_, repos := testutil.Repos(t)
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	s := NewContactService(repos.Contacts, notifier, "admin@example.com", time.Second, testutil.Logger())

	msg, err := s.Submit(context.Background(), contactInput("hello there, a longer message"), models.Origin{})
	require.NoError(t, err)

	stored, err := s.Get(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, stored.ID)
	assert.Len(t, notifier.sent, 1)
}

func TestContactStatusTransitions(t *testing.T) {
	_, repos := testutil.Repos(t)
	s := NewContactService(repos.Contacts, nil, "", time.Second, testutil.Logger())
	ctx := context.Background()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	msg, err := s.Submit(ctx, contactInput("please get in touch soon"), models.Origin{})
	require.NoError(t, err)

	read, err := s.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRead, read.Status)
	require.NotNil(t, read.ReadAt)
	firstRead := read.ReadAt.UTC()

	// reading again keeps the first stamp
	clock = clock.Add(time.Hour)
	again, err := s.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRead, again.Status)
	assert.True(t, firstRead.Equal(again.ReadAt.UTC()))

	replied, err := s.MarkAsReplied(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReplied, replied.Status)
	require.NotNil(t, replied.RepliedAt)

	// read never moves a message backwards
	stillReplied, err := s.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReplied, stillReplied.Status)

	archived, err := s.Archive(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, archived.Status)

	updated, err := s.Update(ctx, msg.ID, models.ContactUpdate{Priority: ptrTo("high"), AdminNotes: ptrTo(" call back ")})
	require.NoError(t, err)
	assert.Equal(t, "high", updated.Priority)
	assert.Equal(t, "call back", updated.AdminNotes)

	_, err = s.Update(ctx, msg.ID, models.ContactUpdate{Priority: ptrTo("whenever")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, s.Delete(ctx, msg.ID))
	_, err = s.MarkAsRead(ctx, msg.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func ptrTo[T any](v T) *T { return &v }

func TestNewsletterSubscribeLifecycle(t *testing.T) {
	db, repos := testutil.Repos(t)
	s := NewNewsletterService(db, repos.Newsletters, testutil.Logger())
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, models.SubscribeInput{Email: "Reader@Example.com", Name: "Reader"})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", sub.Email)
	assert.True(t, sub.IsActive)
	assert.False(t, sub.IsVerified)
	assert.Equal(t, "monthly", sub.Frequency)
	firstToken := sub.VerificationToken
	require.NotEmpty(t, firstToken)

	_, err = s.Subscribe(ctx, models.SubscribeInput{Email: "READER@example.com"})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, "This email is already subscribed to our newsletter.", ae.Fields["email"])

	verified, err := s.Verify(ctx, firstToken)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	out, err := s.Unsubscribe(ctx, models.UnsubscribeInput{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	require.NotNil(t, out.UnsubscribedAt)

	// unsubscribing twice changes nothing
	twice, err := s.Unsubscribe(ctx, models.UnsubscribeInput{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.False(t, twice.IsActive)
	assert.True(t, out.UnsubscribedAt.Equal(*twice.UnsubscribedAt))

	back, err := s.Subscribe(ctx, models.SubscribeInput{Email: "reader@example.com", Frequency: "weekly"})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, back.ID, "resubscribing reuses the row")
	assert.True(t, back.IsActive)
	assert.False(t, back.IsVerified)
	assert.Nil(t, back.UnsubscribedAt)
	assert.Equal(t, "weekly", back.Frequency)
	assert.NotEqual(t, firstToken, back.VerificationToken)

	subs, total, err := s.List(ctx, models.NewsletterFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, subs, 1)

	_, err = s.Unsubscribe(ctx, models.UnsubscribeInput{Email: "nobody@example.com"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestNewsletterAdminActions(t *testing.T) {
	db, repos := testutil.Repos(t)
	s := NewNewsletterService(db, repos.Newsletters, testutil.Logger())
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, models.SubscribeInput{Email: "reader@example.com"})
	require.NoError(t, err)

	v, err := s.SetVerified(ctx, sub.ID)
	require.NoError(t, err)
	assert.True(t, v.IsVerified)

	d, err := s.Deactivate(ctx, sub.ID)
	require.NoError(t, err)
	assert.False(t, d.IsActive)

	active := true
	subs, total, err := s.List(ctx, models.NewsletterFilter{Active: &active})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, subs)
}
