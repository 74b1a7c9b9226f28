// Package mail renders and delivers account notification mail.
package mail

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// ErrMailDisabled is returned by DisabledSender. Callers treat it as a soft failure.
var ErrMailDisabled = errors.New("mail sending is disabled")

// Message is one outgoing plain text mail.
type Message struct {
	ID       string `json:"id"`
	Template string `json:"template"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// DisabledSender drops every message.
type DisabledSender struct{}

func (DisabledSender) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "mail sending is disabled, message dropped",
		slog.String("mail_id", msg.ID),
		slog.String("template", msg.Template),
	)
	return ErrMailDisabled
}

// Observer receives the result of every delivery attempt.
type Observer interface {
	RecordMail(template, result string)
}

// Notifier renders the account templates and hands them to a Sender.
type Notifier struct {
	sender    Sender
	templates *Templates
	observer  Observer
}

func NewNotifier(sender Sender, templates *Templates, observer Observer) *Notifier {
	return &Notifier{sender: sender, templates: templates, observer: observer}
}

// Welcome greets a newly registered user.
func (n *Notifier) Welcome(ctx context.Context, to, username, baseURL string) error {
	return n.send(ctx, TemplateWelcome, to, TemplateData{
		Username: username,
		Email:    to,
		BaseURL:  baseURL,
	})
}

// ResetLink sends the password reset link.
func (n *Notifier) ResetLink(ctx context.Context, to, baseURL, token string) error {
	return n.send(ctx, TemplateForgot, to, TemplateData{
		Email:   to,
		BaseURL: baseURL,
		Token:   token,
	})
}

// ResetConfirmation tells the user their password was changed.
func (n *Notifier) ResetConfirmation(ctx context.Context, to, baseURL string) error {
	return n.send(ctx, TemplateReset, to, TemplateData{
		Email:   to,
		BaseURL: baseURL,
	})
}

func (n *Notifier) send(ctx context.Context, template, to string, data TemplateData) error {
	subject, body, err := n.templates.Render(template, data)
	if err != nil {
		n.record(template, "render_error")
		return err
	}

	msg := Message{
		ID:       uuid.NewString(),
		Template: template,
		To:       to,
		Subject:  subject,
		Body:     body,
	}

	err = n.sender.Send(ctx, msg)
	switch {
	case errors.Is(err, ErrMailDisabled):
		n.record(template, "disabled")
	case err != nil:
		n.record(template, "error")
	default:
		n.record(template, "sent")
	}
	return err
}

func (n *Notifier) record(template, result string) {
	if n.observer != nil {
		n.observer.RecordMail(template, result)
	}
}
