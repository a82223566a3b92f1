// Package email delivers transactional mail over SMTP via go-mail.
package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	FileName string
	Content  []byte
}

// Sender delivers the emails this service produces.
type Sender interface {
	SendRosterExportEmail(ctx context.Context, toEmail, recipientName string, attachments ...Attachment) error
}

// NoopSender satisfies Sender without delivering anything. Used when email
// is disabled in configuration.
type NoopSender struct{}

func (NoopSender) SendRosterExportEmail(ctx context.Context, toEmail, recipientName string, attachments ...Attachment) error {
	return nil
}

// SMTPSender implements the Sender interface using a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendRosterExportEmail delivers the roster PDF to the requesting user.
func (s *SMTPSender) SendRosterExportEmail(ctx context.Context, toEmail, recipientName string, attachments ...Attachment) error {
	content, err := renderEmailTemplate("roster_export.html", rosterExportEmailData{
		baseEmailData: baseEmailData{
			Title:   "Your people roster export",
			Heading: "Your people roster export",
		},
		RecipientName:  recipientName,
		GeneratedAt:    time.Now().Format("2006-01-02 15:04"),
		HasAttachments: len(attachments) > 0,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRosterExport, content, attachments...)
}
