package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// smtpSendMail is swapped out in tests.
var smtpSendMail = smtp.SendMail

const altBoundary = "quoterelay-alt-boundary"

// SMTPClient wraps net/smtp to send multipart text+HTML emails.
type SMTPClient struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPClient creates a new SMTPClient with the given SMTP server configuration.
func NewSMTPClient(host string, port int, user, pass, from string) *SMTPClient {
	return &SMTPClient{
		host: host,
		port: port,
		user: user,
		pass: pass,
		from: from,
	}
}

// Send delivers a multipart/alternative email to the specified recipient.
// Authentication is skipped entirely when both credentials are blank;
// supplying only one of them is a configuration error.
func (c *SMTPClient) Send(to, subject, htmlBody, textBody string) error {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	var auth smtp.Auth
	switch {
	case c.user == "" && c.pass == "":
		auth = nil
	case c.user == "" || c.pass == "":
		return errors.New("mail: incomplete SMTP credentials")
	default:
		auth = smtp.PlainAuth("", c.user, c.pass, c.host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", c.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", altBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", altBoundary)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", altBoundary)
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", altBoundary)

	return smtpSendMail(addr, auth, c.from, []string{to}, []byte(b.String()))
}
