package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/relaykit/quoterelay/internal/models"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  []byte
}

func withStubSendMail(t *testing.T, err error) *sentMail {
	t.Helper()
	var got sentMail
	orig := smtpSendMail
	smtpSendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		got = sentMail{addr: addr, auth: a, from: from, to: to, msg: msg}
		return err
	}
	t.Cleanup(func() { smtpSendMail = orig })
	return &got
}

func TestSendComposesMultipartMessage(t *testing.T) {
	got := withStubSendMail(t, nil)
	c := NewSMTPClient("smtp.example.com", 587, "user", "pass", "noreply@example.com")

	err := c.Send("owner@example.com", "New quote request", "<p>hello</p>", "hello")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if got.addr != "smtp.example.com:587" {
		t.Fatalf("unexpected address: %s", got.addr)
	}
	if got.from != "noreply@example.com" {
		t.Fatalf("unexpected sender: %s", got.from)
	}
	if len(got.to) != 1 || got.to[0] != "owner@example.com" {
		t.Fatalf("unexpected recipients: %v", got.to)
	}
	if got.auth == nil {
		t.Fatal("expected plain auth with full credentials")
	}

	msg := string(got.msg)
	for _, want := range []string{
		"Subject: New quote request\r\n",
		"Content-Type: multipart/alternative",
		"Content-Type: text/plain",
		"Content-Type: text/html",
		"<p>hello</p>",
		"--" + altBoundary + "--",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSendSkipsAuthWithBlankCredentials(t *testing.T) {
	got := withStubSendMail(t, nil)
	c := NewSMTPClient("localhost", 1025, "", "", "noreply@example.com")

	if err := c.Send("owner@example.com", "subject", "<p>x</p>", "x"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if got.auth != nil {
		t.Fatal("expected nil auth when both credentials are blank")
	}
}

func TestSendRejectsIncompleteCredentials(t *testing.T) {
	withStubSendMail(t, nil)

	for _, c := range []*SMTPClient{
		NewSMTPClient("smtp.example.com", 587, "user", "", "noreply@example.com"),
		NewSMTPClient("smtp.example.com", 587, "", "pass", "noreply@example.com"),
	} {
		if err := c.Send("owner@example.com", "subject", "<p>x</p>", "x"); err == nil {
			t.Fatal("expected an error for incomplete credentials")
		}
	}
}

func TestSendPropagatesTransportError(t *testing.T) {
	withStubSendMail(t, errors.New("connection refused"))
	c := NewSMTPClient("smtp.example.com", 587, "", "", "noreply@example.com")

	if err := c.Send("owner@example.com", "subject", "<p>x</p>", "x"); err == nil {
		t.Fatal("expected the transport error to surface")
	}
}

type recordingSender struct {
	to, subject, htmlBody, textBody string
	err                             error
	calls                           int
}

func (r *recordingSender) Send(to, subject, htmlBody, textBody string) error {
	r.calls++
	r.to, r.subject, r.htmlBody, r.textBody = to, subject, htmlBody, textBody
	return r.err
}

func testSubmission() *models.QuoteSubmission {
	return &models.QuoteSubmission{
		Handle:         "quote-abc",
		Shop:           "test.myshopify.com",
		ProductTitle:   "Bulk Widget",
		CustomerName:   "Jane <Doe>",
		CustomerEmail:  "jane@example.com",
		RequestDetails: "Volume pricing please",
	}
}

func TestNotifyNewQuoteSendsComposedEmail(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender)

	if err := svc.NotifyNewQuote(context.Background(), "owner@example.com", testSubmission()); err != nil {
		t.Fatalf("NotifyNewQuote returned error: %v", err)
	}
	if sender.to != "owner@example.com" {
		t.Fatalf("unexpected recipient: %s", sender.to)
	}
	if sender.subject != "New quote request for Bulk Widget" {
		t.Fatalf("unexpected subject: %s", sender.subject)
	}
	if !strings.Contains(sender.htmlBody, "Jane &lt;Doe&gt;") {
		t.Fatal("customer name must be HTML-escaped")
	}
	if !strings.Contains(sender.textBody, "Volume pricing please") {
		t.Fatalf("text body missing details:\n%s", sender.textBody)
	}
}

func TestNotifyNewQuoteSkipsEmptyRecipient(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender)

	if err := svc.NotifyNewQuote(context.Background(), "", testSubmission()); err != nil {
		t.Fatalf("NotifyNewQuote returned error: %v", err)
	}
	if sender.calls != 0 {
		t.Fatal("no send should happen without a recipient")
	}
}

func TestNotifyNewQuoteWrapsSendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("connection refused")}
	svc := NewService(sender)

	err := svc.NotifyNewQuote(context.Background(), "owner@example.com", testSubmission())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped send failure, got %v", err)
	}
}

func TestSubjectFallsBackToCustomerName(t *testing.T) {
	sub := testSubmission()
	sub.ProductTitle = ""

	if got := QuoteNotificationSubject(sub); got != "New quote request from Jane <Doe>" {
		t.Fatalf("unexpected subject: %q", got)
	}
}
