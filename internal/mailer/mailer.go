package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends plain-text mail through a single SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func New(host, port, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}
}

func (that *SMTPMailer) Send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", that.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	if err := smtp.SendMail(that.addr, that.auth, that.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
