package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/athena-api/internal/config"
)

type capturedMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(t *testing.T, sendErr error) (*Service, *[]capturedMail) {
	t.Helper()

	s := NewService(config.EmailConfig{
		SMTPHost:    "smtp.test",
		SMTPPort:    "2525",
		SMTPUser:    "mailer@athena.test",
		FromAddress: "Athena <no-reply@athena.test>",
		PublicURL:   "https://athena.test",
	})

	var sent []capturedMail
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, capturedMail{addr: addr, from: from, to: to, msg: string(msg)})
		return sendErr
	}
	return s, &sent
}

func TestLinks(t *testing.T) {
	s, _ := newTestService(t, nil)

	assert.Equal(t, "https://athena.test/confirmation/abc", s.ConfirmationLink("abc"))
	assert.Equal(t, "https://athena.test/reset/abc", s.ResetLink("abc"))
}

func TestSendConfirmationEmail(t *testing.T) {
	s, sent := newTestService(t, nil)

	require.NoError(t, s.SendConfirmationEmail(context.Background(), "u1@example.com", "tok123"))

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, "smtp.test:2525", mail.addr)
	assert.Equal(t, "no-reply@athena.test", mail.from)
	assert.Equal(t, []string{"u1@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Confirm your Athena account")
	assert.Contains(t, mail.msg, "From: Athena <no-reply@athena.test>")
	assert.Contains(t, mail.msg, `href="https://athena.test/confirmation/tok123"`)
	assert.Contains(t, mail.msg, "Confirm your email address")
}

func TestSendPasswordResetEmail(t *testing.T) {
	s, sent := newTestService(t, nil)

	require.NoError(t, s.SendPasswordResetEmail(context.Background(), "u1@example.com", "tok456"))

	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].msg, "https://athena.test/reset/tok456")
	assert.Contains(t, (*sent)[0].msg, "Reset your password")
}

func TestSend_PropagatesTransportError(t *testing.T) {
	s, _ := newTestService(t, errors.New("connection refused"))

	err := s.SendConfirmationEmail(context.Background(), "u1@example.com", "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
