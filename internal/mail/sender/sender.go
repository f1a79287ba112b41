// Package sender delivers mail over SMTP.
package sender

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender is the delivery interface the mail service depends on.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTP sends through a plain SMTP relay, authenticating only when
// credentials are configured.
type SMTP struct {
	addr string
	host string
	from string
	auth smtp.Auth
}

func NewSMTP(host string, port int, user, pass, from string) *SMTP {
	s := &SMTP{
		addr: fmt.Sprintf("%s:%d", host, port),
		host: host,
		from: from,
	}
	if user != "" {
		s.auth = smtp.PlainAuth("", user, pass, host)
	}
	return s
}

func (s *SMTP) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
}
