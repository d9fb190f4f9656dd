package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"time"
)

// smtpDialTimeout bounds the outbound connection so a dead relay cannot hang
// the calling request.
const smtpDialTimeout = 10 * time.Second

// Notifier dispatches a human-readable message to a recipient. Deliveries are
// best-effort: callers log failures and never roll back the primary mutation.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// SMTPNotifier sends mail through a plain SMTP relay, upgrading to STARTTLS
// when the server offers it.
type SMTPNotifier struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPNotifier builds an SMTP-backed notifier.
func NewSMTPNotifier(host, port, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Notify implements Notifier.
func (n *SMTPNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	addr := net.JoinHostPort(n.host, n.port)

	dialer := &net.Dialer{Timeout: smtpDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: n.host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if n.username != "" {
		auth := smtp.PlainAuth("", n.username, n.password, n.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(n.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		n.from, recipient, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}

// LogNotifier is used when no SMTP relay is configured. It records the
// delivery locally so development environments still show outbound mail.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, recipient, subject, _ string) error {
	log.Printf("notify (no smtp configured): to=%s subject=%q", recipient, subject)
	return nil
}
