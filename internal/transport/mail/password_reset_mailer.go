package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/url"
	"strings"
)

// PasswordResetMailer delivers reset links over SMTP. This is the only place
// a raw reset token appears outside the requesting user's mailbox.
type PasswordResetMailer struct {
	host         string
	port         string
	username     string
	password     string
	from         string
	resetBaseURL string
}

func NewPasswordResetMailer(host, port, username, password, from, resetBaseURL string) *PasswordResetMailer {
	return &PasswordResetMailer{
		host:         strings.TrimSpace(host),
		port:         strings.TrimSpace(port),
		username:     username,
		password:     password,
		from:         strings.TrimSpace(from),
		resetBaseURL: strings.TrimRight(strings.TrimSpace(resetBaseURL), "/"),
	}
}

func (m *PasswordResetMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" || m.resetBaseURL == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", m.resetBaseURL, url.QueryEscape(token))

	subject := "Reset your password"
	body := fmt.Sprintf("Follow this link to choose a new password:\n\n%s\n\nThe link expires shortly and works once. If you did not request this, ignore this email.", link)

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", email))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	message.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")
	message.WriteString(body)
	message.WriteString("\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{email}, []byte(message.String()))
}
