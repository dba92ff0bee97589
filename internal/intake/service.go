// Package intake implements the quote submission pipeline: validate, rate
// limit, ensure schema, persist, load settings, notify. Validation and rate
// limiting run before any remote call so abuse is cheap to reject; the
// notification is fire-and-forget because the stored submission, not the
// email, is the source of truth.
package intake

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/relaykit/quoterelay/internal/models"
	"github.com/relaykit/quoterelay/internal/observability"
	"github.com/relaykit/quoterelay/internal/provision"
	"github.com/relaykit/quoterelay/internal/ratelimit"
	"github.com/relaykit/quoterelay/internal/records"
	"github.com/relaykit/quoterelay/internal/settings"
)

// Sentinel errors returned by Submit, in the order the pipeline can fail.
var (
	ErrValidation    = errors.New("validation failed")
	ErrMissingFields = fmt.Errorf("%w: missing required fields", ErrValidation)
	ErrInvalidEmail  = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrPersist       = errors.New("could not store submission")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// SubmitRequest is an inbound quote request from the storefront form.
type SubmitRequest struct {
	Shop            string
	ProductTitle    string
	VariantTitle    string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerCompany string
	Quantity        string
	RequestDetails  string
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	Handle  string
	Message string
}

// Notifier sends the merchant notification for a new submission.
type Notifier interface {
	NotifyNewQuote(ctx context.Context, to string, sub *models.QuoteSubmission) error
}

// NoopNotifier is a Notifier that does nothing.
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewQuote(_ context.Context, _ string, _ *models.QuoteSubmission) error {
	return nil
}

// Service is the intake pipeline.
type Service struct {
	limiter  *ratelimit.Window
	prov     *provision.Provisioner
	settings *settings.Service
	notifier Notifier
	now      func() time.Time
}

// NewService creates the intake pipeline. now is the clock used for handle
// generation; pass nil for time.Now.
func NewService(limiter *ratelimit.Window, prov *provision.Provisioner, st *settings.Service, notifier Notifier, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Service{
		limiter:  limiter,
		prov:     prov,
		settings: st,
		notifier: notifier,
		now:      now,
	}
}

// Submit runs the pipeline for one request against the shop's authorized
// client. On success the returned receipt carries the merchant's configured
// success message.
func (s *Service) Submit(ctx context.Context, client records.Client, req SubmitRequest) (*Receipt, error) {
	if strings.TrimSpace(req.Shop) == "" ||
		strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerEmail) == "" {
		observability.Submissions.WithLabelValues("invalid").Inc()
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.CustomerEmail)) {
		observability.Submissions.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidEmail
	}

	if !s.limiter.Allow(req.CustomerEmail) {
		observability.Submissions.WithLabelValues("rate_limited").Inc()
		return nil, ErrRateLimited
	}

	if err := s.prov.EnsureSubmissionSchema(ctx, client, req.Shop); err != nil {
		observability.Submissions.WithLabelValues("setup_error").Inc()
		return nil, err
	}

	handle := newHandle(s.now())
	rec, err := client.CreateRecord(ctx, provision.SubmissionType, handle, submissionFields(req))
	if err != nil {
		observability.Submissions.WithLabelValues("persist_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	st := s.settings.Get(ctx, client, req.Shop)

	sub := &models.QuoteSubmission{
		ID:              rec.ID,
		Handle:          handle,
		Shop:            req.Shop,
		ProductTitle:    req.ProductTitle,
		VariantTitle:    req.VariantTitle,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerCompany: req.CustomerCompany,
		Quantity:        req.Quantity,
		RequestDetails:  req.RequestDetails,
		Status:          models.StatusPending,
		UpdatedAt:       rec.UpdatedAt,
	}

	if st.NotificationEmail != "" {
		// Fire-and-forget: the submission is already durably recorded, so a
		// lost email only costs the merchant a dashboard visit.
		notifyCtx := context.WithoutCancel(ctx)
		go func() {
			if err := s.notifier.NotifyNewQuote(notifyCtx, st.NotificationEmail, sub); err != nil {
				slog.Error("failed to send quote notification",
					"shop", sub.Shop,
					"handle", sub.Handle,
					"error", err,
				)
				observability.NotificationFailures.Inc()
			}
		}()
	}

	msg := st.SuccessMessage
	if msg == "" {
		msg = models.DefaultSettings().SuccessMessage
	}

	observability.Submissions.WithLabelValues("accepted").Inc()
	slog.InfoContext(ctx, "accepted quote submission", "shop", req.Shop, "handle", handle)
	return &Receipt{Handle: handle, Message: msg}, nil
}

func submissionFields(req SubmitRequest) map[string]string {
	fields := map[string]string{
		provision.FieldCustomerName:  strings.TrimSpace(req.CustomerName),
		provision.FieldCustomerEmail: strings.TrimSpace(req.CustomerEmail),
		provision.FieldStatus:        string(models.StatusPending),
	}
	optional := map[string]string{
		provision.FieldProductTitle:    req.ProductTitle,
		provision.FieldVariantTitle:    req.VariantTitle,
		provision.FieldCustomerPhone:   req.CustomerPhone,
		provision.FieldCustomerCompany: req.CustomerCompany,
		provision.FieldQuantity:        req.Quantity,
		provision.FieldRequestDetails:  req.RequestDetails,
	}
	for k, v := range optional {
		if v = strings.TrimSpace(v); v != "" {
			fields[k] = v
		}
	}
	return fields
}

// newHandle builds a unique record handle: a time-ordered ULID plus a short
// random suffix, unique within the shop's record space.
func newHandle(t time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(t), rand.Reader)
	return "quote-" + strings.ToLower(id.String()) + "-" + uuid.NewString()[:8]
}
