package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
	"github.com/dmitrymomot/mailgate/pkg/mailer/postmark"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, body string, isHTML bool, args *mailer.Args) error {
	return m.Called(ctx, to, subject, body, isHTML, args).Error(0)
}

func newTestWorker(sender mailer.Sender) *sendEmailWorker {
	return &sendEmailWorker{
		sender:    sender,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		permanent: IsPermanent,
	}
}

func newJob(args SendEmailArgs) *river.Job[SendEmailArgs] {
	return &river.Job[SendEmailArgs]{
		JobRow: &rivertype.JobRow{ID: 42, Attempt: 1},
		Args:   args,
	}
}

func TestWorker_Success(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send",
		mock.MatchedBy(func(ctx context.Context) bool {
			return mailer.TenantFromContext(ctx) == "acme"
		}),
		"user@example.com", "Hi", "<p>hi</p>", true,
		mock.MatchedBy(func(a *mailer.Args) bool {
			return a.Properties[postmark.PropertyTemplateID] == json.Number("777")
		}),
	).Return(nil).Once()

	err := newTestWorker(sender).Work(context.Background(), newJob(SendEmailArgs{
		To:         "user@example.com",
		Subject:    "Hi",
		Body:       "<p>hi</p>",
		IsHTML:     true,
		TenantID:   "acme",
		Properties: []byte(`{"PostmarkTemplateId":777}`),
	}))

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestWorker_TransientErrorRetries(t *testing.T) {
	t.Parallel()

	sendErr := errors.Join(postmark.ErrProvider, errors.New("503"))
	sender := &MockSender{}
	sender.On("Send", mock.Anything, "user@example.com", "s", "b", false, mock.Anything).Return(sendErr)

	err := newTestWorker(sender).Work(context.Background(), newJob(SendEmailArgs{
		To: "user@example.com", Subject: "s", Body: "b",
	}))

	require.Error(t, err)
	assert.Equal(t, sendErr, err)
}

func TestWorker_PermanentErrorCancels(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(postmark.ErrConfiguration)

	err := newTestWorker(sender).Work(context.Background(), newJob(SendEmailArgs{
		To: "user@example.com", Subject: "s", Body: "b",
	}))

	require.Error(t, err)
	assert.NotEqual(t, postmark.ErrConfiguration, err)
	assert.ErrorIs(t, err, postmark.ErrConfiguration)
}

func TestWorker_InvalidPayloadCancels(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}

	err := newTestWorker(sender).Work(context.Background(), newJob(SendEmailArgs{
		To:         "user@example.com",
		Properties: []byte(`[1,2]`),
	}))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	sender.AssertNotCalled(t, "Send")
}

func TestIsPermanent(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPermanent(mailer.ErrNoRecipient))
	assert.True(t, IsPermanent(errors.Join(postmark.ErrConfiguration, errors.New("x"))))
	assert.True(t, IsPermanent(ErrInvalidPayload))
	assert.False(t, IsPermanent(postmark.ErrProvider))
	assert.False(t, IsPermanent(errors.New("timeout")))
}
