package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// LogNotifier writes reminders to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(ctx context.Context, r Reminder) error {
	n.logger.InfoContext(ctx, "Bill reminder",
		"kind", r.Kind(),
		"user_id", r.UserID,
		"username", r.Username,
		"bill_id", r.BillID,
		"bill", r.BillName,
		"amount", r.Amount,
		"due_date", r.DueDate.Format("2006-01-02"),
	)
	return nil
}

// SMTPSettings configures EmailNotifier.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailNotifier sends reminders over SMTP.
type EmailNotifier struct {
	settings SMTPSettings
	send     func(e *email.Email) error
}

func NewEmailNotifier(settings SMTPSettings) *EmailNotifier {
	n := &EmailNotifier{settings: settings}
	n.send = n.sendSMTP
	return n
}

func (n *EmailNotifier) Name() string { return "email" }

// Notify returns ErrNoRecipient when the user has no email address.
func (n *EmailNotifier) Notify(ctx context.Context, r Reminder) error {
	if r.Email == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := n.compose(r)
	if err := n.send(e); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	slog.Info("Reminder email sent", "to", r.Email, "subject", e.Subject)
	return nil
}

func (n *EmailNotifier) compose(r Reminder) *email.Email {
	e := email.NewEmail()
	e.From = n.settings.From
	e.To = []string{r.Email}

	due := r.DueDate.Format("2006-01-02")
	body := fmt.Sprintf("Hi %s,\n\n", r.Username)
	if r.Overdue {
		e.Subject = fmt.Sprintf("Overdue bill: %s", r.BillName)
		body += fmt.Sprintf("Your bill %q of %.2f was due on %s and has not been paid.\n", r.BillName, r.Amount, due)
	} else {
		e.Subject = fmt.Sprintf("Upcoming bill: %s", r.BillName)
		body += fmt.Sprintf("Your bill %q of %.2f is due on %s.\n", r.BillName, r.Amount, due)
	}
	body += "\nRecord the payment against this bill to stop these reminders.\n\nmefinance"
	e.Text = []byte(body)
	return e
}

func (n *EmailNotifier) sendSMTP(e *email.Email) error {
	addr := fmt.Sprintf("%s:%d", n.settings.Host, n.settings.Port)
	var auth smtp.Auth
	if n.settings.Username != "" {
		auth = smtp.PlainAuth("", n.settings.Username, n.settings.Password, n.settings.Host)
	}
	return e.Send(addr, auth)
}
