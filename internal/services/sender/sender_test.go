package sender_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/competition-registration/internal/lib/smtp"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/sender"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
	written bytes.Buffer
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

type captureWriteCloser struct {
	buf *bytes.Buffer
}

func (w *captureWriteCloser) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *captureWriteCloser) Close() error                { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func happyClient(t *testing.T, transport *MockTransport, buf *bytes.Buffer) *MockSMTPClient {
	t.Helper()
	client := new(MockSMTPClient)
	transport.On("Connect").Return(client, nil)
	transport.On("GetSMTPUser").Return("noreply@lomba.example.com")
	client.On("Mail", "noreply@lomba.example.com").Return(nil)
	client.On("Rcpt", mock.AnythingOfType("string")).Return(nil)
	client.On("Data").Return(&captureWriteCloser{buf: buf}, nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)
	return client
}

func TestSendPasswordReset(t *testing.T) {
	transport := new(MockTransport)
	var buf bytes.Buffer
	client := happyClient(t, transport, &buf)
	svc := sender.New(transport, "https://lomba.example.com/reset", discardLogger())

	body, err := json.Marshal(models.ResetMail{
		Email:    "budi@example.com",
		FullName: "Budi Santoso",
		Token:    "token-abc",
	})
	require.NoError(t, err)

	err = svc.SendPasswordReset(body)
	require.NoError(t, err)

	msg := buf.String()
	assert.Contains(t, msg, "To: budi@example.com")
	assert.Contains(t, msg, "https://lomba.example.com/reset?token=token-abc")
	assert.Contains(t, msg, "Budi Santoso")
	client.AssertCalled(t, "Rcpt", "budi@example.com")
}

func TestSendRegistrationStatus(t *testing.T) {
	transport := new(MockTransport)
	var buf bytes.Buffer
	happyClient(t, transport, &buf)
	svc := sender.New(transport, "https://lomba.example.com/reset", discardLogger())

	body, err := json.Marshal(models.StatusMail{
		Email:       "siti@example.com",
		FullName:    "Siti Rahma",
		Competition: "Olimpiade Matematika",
		Status:      models.StatusApproved,
	})
	require.NoError(t, err)

	err = svc.SendRegistrationStatus(body)
	require.NoError(t, err)

	msg := buf.String()
	assert.Contains(t, msg, "Olimpiade Matematika")
	assert.Contains(t, msg, "Diterima")
}

func TestSendPasswordReset_BadBody(t *testing.T) {
	transport := new(MockTransport)
	svc := sender.New(transport, "https://lomba.example.com/reset", discardLogger())

	err := svc.SendPasswordReset([]byte("not-json"))
	require.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSendRegistrationStatus_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@lomba.example.com")
	transport.On("Connect").Return(nil, errors.New("smtp unavailable"))
	svc := sender.New(transport, "https://lomba.example.com/reset", discardLogger())

	body, err := json.Marshal(models.StatusMail{Email: "x@example.com", Status: models.StatusRejected})
	require.NoError(t, err)

	err = svc.SendRegistrationStatus(body)
	require.Error(t, err)
}
