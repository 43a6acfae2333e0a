package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickynote/internal/config"
	"stickynote/internal/logging"
)

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(logging.New(&buf, time.UTC, slog.LevelInfo))

	require.NoError(t, m.Send(context.Background(), "root@example.com", "Your OTP Code", "<p>1234</p>"))

	out := buf.String()
	assert.Contains(t, out, `"to":"root@example.com"`)
	assert.Contains(t, out, `"component":"mail"`)
}

func TestNewSMTP_RequiresHostAndSender(t *testing.T) {
	_, err := NewSMTP(config.MailConfig{From: "noreply@example.com"})
	assert.Error(t, err)

	_, err = NewSMTP(config.MailConfig{Host: "smtp.example.com", Port: 587})
	assert.Error(t, err)

	m, err := NewSMTP(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestSMTPMailer_Send_RejectsBadRecipient(t *testing.T) {
	m, err := NewSMTP(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	require.NoError(t, err)

	err = m.Send(context.Background(), "not an address", "s", "b")
	assert.ErrorContains(t, err, "mail: to")
}
