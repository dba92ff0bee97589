// Package quotes is the admin-side surface over stored submissions: listing
// with cursor pagination, status updates, and deletion.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/relaykit/quoterelay/internal/models"
	"github.com/relaykit/quoterelay/internal/provision"
	"github.com/relaykit/quoterelay/internal/records"
)

// ErrInvalidStatus is returned when a status update names an unknown status.
var ErrInvalidStatus = errors.New("invalid status")

const defaultPageSize = 25

// ListPage is one page of submissions.
type ListPage struct {
	Submissions []models.QuoteSubmission
	EndCursor   string
	HasNextPage bool
}

// Service provides submission management for the dashboard.
type Service struct {
	pageSize int
}

// NewService creates a quotes Service.
func NewService() *Service {
	return &Service{pageSize: defaultPageSize}
}

// List returns a page of the shop's submissions, newest first, optionally
// filtered by status.
func (s *Service) List(ctx context.Context, store records.Store, shop string, status models.SubmissionStatus, first int, after string) (*ListPage, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if first <= 0 {
		first = s.pageSize
	}

	opts := records.ListOptions{
		Type:  provision.SubmissionType,
		First: first,
		After: after,
	}
	if status != "" {
		opts.Query = provision.FieldStatus + ":" + string(status)
	}

	page, err := store.ListRecords(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing submissions for %s: %w", shop, err)
	}

	out := &ListPage{
		Submissions: make([]models.QuoteSubmission, 0, len(page.Records)),
		EndCursor:   page.EndCursor,
		HasNextPage: page.HasNextPage,
	}
	for i := range page.Records {
		out.Submissions = append(out.Submissions, *submissionFromRecord(shop, &page.Records[i]))
	}
	return out, nil
}

// Get returns one submission by handle.
func (s *Service) Get(ctx context.Context, store records.Store, shop, handle string) (*models.QuoteSubmission, error) {
	rec, err := store.GetRecordByHandle(ctx, provision.SubmissionType, handle)
	if err != nil {
		return nil, err
	}
	return submissionFromRecord(shop, rec), nil
}

// UpdateStatus replaces the submission's status. Any status may replace any
// other; only enum membership is checked.
func (s *Service) UpdateStatus(ctx context.Context, store records.Store, shop, handle string, status models.SubmissionStatus) (*models.QuoteSubmission, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	rec, err := store.GetRecordByHandle(ctx, provision.SubmissionType, handle)
	if err != nil {
		return nil, err
	}

	updated, err := store.UpdateRecord(ctx, rec.ID, map[string]string{
		provision.FieldStatus: string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("updating status of %s: %w", handle, err)
	}

	slog.InfoContext(ctx, "updated submission status", "shop", shop, "handle", handle, "status", status)
	return submissionFromRecord(shop, updated), nil
}

// Delete removes a submission by handle.
func (s *Service) Delete(ctx context.Context, store records.Store, shop, handle string) error {
	rec, err := store.GetRecordByHandle(ctx, provision.SubmissionType, handle)
	if err != nil {
		return err
	}
	if err := store.DeleteRecord(ctx, rec.ID); err != nil {
		return fmt.Errorf("deleting submission %s: %w", handle, err)
	}

	slog.InfoContext(ctx, "deleted submission", "shop", shop, "handle", handle)
	return nil
}

func submissionFromRecord(shop string, rec *records.Record) *models.QuoteSubmission {
	return &models.QuoteSubmission{
		ID:              rec.ID,
		Handle:          rec.Handle,
		Shop:            shop,
		ProductTitle:    rec.Field(provision.FieldProductTitle),
		VariantTitle:    rec.Field(provision.FieldVariantTitle),
		CustomerName:    rec.Field(provision.FieldCustomerName),
		CustomerEmail:   rec.Field(provision.FieldCustomerEmail),
		CustomerPhone:   rec.Field(provision.FieldCustomerPhone),
		CustomerCompany: rec.Field(provision.FieldCustomerCompany),
		Quantity:        rec.Field(provision.FieldQuantity),
		RequestDetails:  rec.Field(provision.FieldRequestDetails),
		Status:          models.SubmissionStatus(rec.Field(provision.FieldStatus)),
		UpdatedAt:       rec.UpdatedAt,
	}
}
