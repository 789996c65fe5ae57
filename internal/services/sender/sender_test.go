package sender

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/donation-gateway/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/smtp"
	"github.com/magabrotheeeer/donation-gateway/internal/models"
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

type MockWriteCloser struct {
	mock.Mock
	written []byte
}

func (m *MockWriteCloser) Write(p []byte) (int, error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return len(p), args.Error(0)
}

func (m *MockWriteCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func receiptBody(t *testing.T, receipt models.DonationReceipt) []byte {
	t.Helper()
	body, err := json.Marshal(receipt)
	assert.NoError(t, err)
	return body
}

func TestSendDonationReceipt_Success(t *testing.T) {
	transport := new(MockTransport)
	client := new(MockSMTPClient)
	wc := new(MockWriteCloser)

	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(client, nil).Once()
	client.On("Mail", "noreply@example.com").Return(nil).Once()
	client.On("Rcpt", "donor@example.com").Return(nil).Once()
	client.On("Data").Return(wc, nil).Once()
	wc.On("Write", mock.Anything).Return(nil)
	wc.On("Close").Return(nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	service := NewSenderService(newNoopLogger(), transport)

	body := receiptBody(t, models.DonationReceipt{
		ID:        "rcpt-1",
		UserUID:   "user123",
		Email:     "donor@example.com",
		Reference: "ref_1",
		Amount:    500,
		PaidAt:    "2026-08-01T12:00:00Z",
	})

	err := service.SendDonationReceipt(body)
	assert.NoError(t, err)

	msg := string(wc.written)
	assert.Contains(t, msg, "To: donor@example.com")
	assert.Contains(t, msg, "Thank you for your donation")
	assert.Contains(t, msg, "500.00 NGN")
	assert.Contains(t, msg, "ref_1")

	transport.AssertExpectations(t)
	client.AssertExpectations(t)
	wc.AssertExpectations(t)
}

// Нечитаемое сообщение не должно возвращаться в очередь: ошибка обязана
// нести ErrRejected, иначе консьюмер будет доставлять его вечно.
func TestSendDonationReceipt_InvalidJSON(t *testing.T) {
	transport := new(MockTransport)
	service := NewSenderService(newNoopLogger(), transport)

	err := service.SendDonationReceipt([]byte("not a json"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, rabbitmq.ErrRejected)
	transport.AssertNotCalled(t, "Connect")
}

func TestSendDonationReceipt_NoEmailSkips(t *testing.T) {
	transport := new(MockTransport)
	service := NewSenderService(newNoopLogger(), transport)

	body := receiptBody(t, models.DonationReceipt{Reference: "ref_2", Amount: 100})

	err := service.SendDonationReceipt(body)
	assert.NoError(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSendDonationReceipt_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(nil, errors.New("dial failed")).Once()

	service := NewSenderService(newNoopLogger(), transport)

	body := receiptBody(t, models.DonationReceipt{
		Email:     "donor@example.com",
		Reference: "ref_3",
		Amount:    100,
	})

	err := service.SendDonationReceipt(body)
	assert.Error(t, err)
	transport.AssertExpectations(t)
}
