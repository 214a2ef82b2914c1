package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/planzo/planzo-api/internal/config"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func summary() SummaryData {
	return SummaryData{
		ProjectName:          "Apollo <beta>",
		TotalTasks:           4,
		CompletedTasks:       1,
		InProgressTasks:      2,
		TodoTasks:            1,
		CompletionPercentage: "25",
		GeneratedAt:          time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	t.Run("summary escapes html", func(t *testing.T) {
		body, err := Render(TemplateSummary, summary())
		require.NoError(t, err)
		assert.Contains(t, body, "Apollo &lt;beta&gt;")
		assert.Contains(t, body, "25%")
		assert.Contains(t, body, "2024-01-01 09:00 UTC")
	})

	t.Run("reminder lists tasks", func(t *testing.T) {
		body, err := Render(TemplateDueReminder, ReminderData{
			UserName: "Ada",
			Tasks: []ReminderTask{
				{Title: "Write report", ProjectName: "Apollo", DueDate: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
				{Title: "Review", ProjectName: "Gemini", DueDate: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)},
			},
		})
		require.NoError(t, err)
		assert.Contains(t, body, "Hello Ada")
		assert.Contains(t, body, "Write report")
		assert.Contains(t, body, "Gemini")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := Render("missing", nil)
		assert.ErrorIs(t, err, ErrUnknownTemplate)
	})
}

func TestSMTPSender_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("builds message", func(t *testing.T) {
		dialer := &fakeDialer{}
		sender := NewSMTPSenderWithDialer(dialer, "Planzo <no-reply@planzo.local>", zap.NewNop().Sugar())

		err := sender.Send(ctx, Message{
			To:       []string{"a@example.com", "b@example.com"},
			Subject:  "Summary",
			Template: TemplateSummary,
			Data:     summary(),
		})
		require.NoError(t, err)
		require.Len(t, dialer.sent, 1)
		assert.Equal(t, []string{"a@example.com", "b@example.com"}, dialer.sent[0].GetHeader("To"))
		assert.Equal(t, []string{"Summary"}, dialer.sent[0].GetHeader("Subject"))
	})

	t.Run("no recipients", func(t *testing.T) {
		dialer := &fakeDialer{}
		sender := NewSMTPSenderWithDialer(dialer, "from@example.com", zap.NewNop().Sugar())

		err := sender.Send(ctx, Message{Subject: "x", Template: TemplateSummary, Data: summary()})
		assert.ErrorIs(t, err, ErrNoRecipients)
		assert.Empty(t, dialer.sent)
	})

	t.Run("dial failure wrapped", func(t *testing.T) {
		smtpErr := errors.New("connection refused")
		sender := NewSMTPSenderWithDialer(&fakeDialer{err: smtpErr}, "from@example.com", zap.NewNop().Sugar())

		err := sender.Send(ctx, Message{To: []string{"a@example.com"}, Template: TemplateSummary, Data: summary()})
		assert.ErrorIs(t, err, smtpErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		dialer := &fakeDialer{}
		sender := NewSMTPSenderWithDialer(dialer, "from@example.com", zap.NewNop().Sugar())
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := sender.Send(cancelled, Message{To: []string{"a@example.com"}, Template: TemplateSummary, Data: summary()})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, dialer.sent)
	})
}

func TestNew(t *testing.T) {
	logger := zap.NewNop().Sugar()

	_, ok := New(config.MailConfig{}, logger).(*LogSender)
	assert.True(t, ok)

	_, ok = New(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "x@example.com"}, logger).(*SMTPSender)
	assert.True(t, ok)
}

func TestLogSender_Send(t *testing.T) {
	sender := NewLogSender(zap.NewNop().Sugar())

	assert.NoError(t, sender.Send(context.Background(), Message{
		To: []string{"a@example.com"}, Template: TemplateSummary, Data: summary(),
	}))
	assert.ErrorIs(t, sender.Send(context.Background(), Message{Template: TemplateSummary}), ErrNoRecipients)
}
