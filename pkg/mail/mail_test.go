package mail

import (
	"context"
	"errors"
	"net/smtp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSMTP_RequiresHostPort(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "smtp.example.com"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)
}

func TestSMTP_Send(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotRaw []byte
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotRaw = addr, from, to, msg
		return nil
	}

	err = s.Send(context.Background(), Message{
		To:       []string{"a@x.com"},
		Subject:  "Verify your email",
		TextBody: "Your verification OTP is 482193",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, string(gotRaw), "Subject: Verify your email\r\n")
	assert.Contains(t, string(gotRaw), "\r\n\r\nYour verification OTP is 482193")
}

func TestSMTP_SendErrors(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrSMTPNoRecipients)
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: []string{"a@x.com"}}), ErrSMTPNoSender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, Message{To: []string{"a@x.com"}, From: "f@x.com"}), context.Canceled)
}

type recordingMail struct {
	mu     sync.Mutex
	sent   []Message
	err    error
	closed bool
}

func (m *recordingMail) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMail) Close() error {
	m.closed = true
	return nil
}

func TestDispatcher_DeliversAndDrainsOnClose(t *testing.T) {
	rm := &recordingMail{}
	d := NewDispatcher(rm, zap.NewNop())

	d.Dispatch(Message{To: []string{"a@x.com"}, Subject: "one"})
	d.Dispatch(Message{To: []string{"b@x.com"}, Subject: "two"})

	require.NoError(t, d.Close())
	assert.Len(t, rm.sent, 2)
	assert.True(t, rm.closed)
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	rm := &recordingMail{err: errors.New("relay down")}
	d := NewDispatcher(rm, zap.NewNop())

	d.Dispatch(Message{To: []string{"a@x.com"}, Subject: "welcome"})

	require.NoError(t, d.Close())
	assert.Len(t, rm.sent, 1)
}

func TestLogMail_DropsMessage(t *testing.T) {
	m := NewLogMail(zap.NewNop())

	require.NoError(t, m.Send(context.Background(), Message{To: []string{"a@x.com"}, Subject: "Verify your email"}))
	require.NoError(t, m.Close())
}
