package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type mockMessageRepo struct {
	messages  map[string]*models.Message
	createErr error
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{messages: map[string]*models.Message{}}
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	msg.ID = uuid.NewString()
	copy := *msg
	m.messages[msg.ID] = &copy
	return nil
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id string) (*models.MessageDetail, error) {
	if msg, ok := m.messages[id]; ok {
		return &models.MessageDetail{Message: *msg}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMessageRepo) List(ctx context.Context, userID string, box models.MessageBox) ([]models.MessageDetail, error) {
	var out []models.MessageDetail
	for _, msg := range m.messages {
		if (box == models.BoxInbox && msg.ReceiverID == userID) || (box == models.BoxSent && msg.SenderID == userID) {
			out = append(out, models.MessageDetail{Message: *msg})
		}
	}
	return out, nil
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, id, receiverID string) error {
	msg, ok := m.messages[id]
	if !ok || msg.ReceiverID != receiverID {
		return sql.ErrNoRows
	}
	msg.Read = true
	return nil
}

func (m *mockMessageRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.messages[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.messages, id)
	return nil
}

type mockDirectory struct {
	*mockUserRepo
	searches []string
}

func (d *mockDirectory) Search(ctx context.Context, term, excludeID string, limit int) ([]models.UserSummary, error) {
	d.searches = append(d.searches, term)
	var out []models.UserSummary
	for _, u := range d.users {
		if u.ID != excludeID && len(out) < limit {
			out = append(out, models.UserSummary{ID: u.ID, Name: u.FullName, Email: u.Email})
		}
	}
	return out, nil
}

const (
	fxSenderID   = "11111111-1111-4111-8111-111111111111"
	fxReceiverID = "22222222-2222-4222-8222-222222222222"
	fxOutsiderID = "33333333-3333-4333-8333-333333333333"
)

func newMessageFixture() (*MessageService, *mockMessageRepo, *mockDirectory) {
	dir := &mockDirectory{mockUserRepo: newMockUserRepo(
		&models.User{ID: fxSenderID, FullName: "Sender"},
		&models.User{ID: fxReceiverID, FullName: "Receiver"},
		&models.User{ID: fxOutsiderID, FullName: "Outsider"},
	)}
	repo := newMockMessageRepo()
	return NewMessageService(repo, dir, nil, nil), repo, dir
}

func TestMessageServiceSendAndVisibility(t *testing.T) {
	svc, _, _ := newMessageFixture()
	ctx := context.Background()

	msg, err := svc.Send(ctx, fxSenderID, SendMessageRequest{ReceiverID: fxReceiverID, Subject: " Hi ", Content: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", msg.Subject)

	_, err = svc.Get(ctx, fxReceiverID, msg.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, fxOutsiderID, msg.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	inbox, err := svc.Inbox(ctx, fxReceiverID)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
	sent, err := svc.Sent(ctx, fxSenderID)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	reply, err := svc.Send(ctx, fxReceiverID, SendMessageRequest{ReceiverID: fxSenderID, Subject: "Re: Hi", Content: "Hey", ParentMessageID: &msg.ID})
	require.NoError(t, err)
	assert.Equal(t, msg.ID, *reply.ParentMessageID)

	_, err = svc.Send(ctx, fxOutsiderID, SendMessageRequest{ReceiverID: fxSenderID, Subject: "x", Content: "y", ParentMessageID: &msg.ID})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Send(ctx, fxSenderID, SendMessageRequest{ReceiverID: uuid.NewString(), Subject: "x", Content: "y"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestMessageServiceSendMapsForeignKeyFailureToNotFound(t *testing.T) {
	svc, repo, _ := newMessageFixture()
	repo.createErr = &pq.Error{Code: "23503", Constraint: "messages_receiver_id_fkey"}

	_, err := svc.Send(context.Background(), fxSenderID, SendMessageRequest{ReceiverID: fxReceiverID, Subject: "x", Content: "y"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestMessageServiceMarkReadOnlyByReceiver(t *testing.T) {
	svc, _, _ := newMessageFixture()
	ctx := context.Background()
	msg, err := svc.Send(ctx, fxSenderID, SendMessageRequest{ReceiverID: fxReceiverID, Subject: "s", Content: "c"})
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, fxSenderID, msg.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	read, err := svc.MarkRead(ctx, fxReceiverID, msg.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	assert.ErrorIs(t, svc.Delete(ctx, fxOutsiderID, msg.ID), appErrors.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, fxSenderID, msg.ID))
}

func TestMessageServiceSearchUsersExcludesCaller(t *testing.T) {
	svc, _, dir := newMessageFixture()

	users, err := svc.SearchUsers(context.Background(), fxSenderID, "  rec ")
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotEqual(t, fxSenderID, u.ID)
	}
	assert.Equal(t, []string{"rec"}, dir.searches)
}
