package models

import "time"

// SubmissionStatus is the workflow state of a quote submission. Any status may
// replace any other; the dashboard drives transitions freely.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusContacted SubmissionStatus = "contacted"
	StatusQuoted    SubmissionStatus = "quoted"
	StatusCompleted SubmissionStatus = "completed"
	StatusCancelled SubmissionStatus = "cancelled"
)

// Valid reports whether s is one of the known submission statuses.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusContacted, StatusQuoted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// QuoteSubmission is a shopper's request for a quote, stored as a metaobject
// in the shop's own record space. ID is assigned by the remote platform, the
// handle by the intake pipeline.
type QuoteSubmission struct {
	ID              string
	Handle          string
	Shop            string
	ProductTitle    string
	VariantTitle    string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerCompany string
	Quantity        string
	RequestDetails  string
	Status          SubmissionStatus
	UpdatedAt       time.Time
}

// AppSettings is the per-shop settings singleton. Every field has a hardcoded
// default so the public form keeps working before the merchant saves anything.
type AppSettings struct {
	NotificationEmail string
	PhoneNumber       string
	FormTitle         string
	FormDescription   string
	SuccessMessage    string
}

// DefaultSettings returns the settings used until a merchant saves their own.
func DefaultSettings() AppSettings {
	return AppSettings{
		PhoneNumber:     "+353 (0)1 8118920",
		FormTitle:       "Request a Quote",
		FormDescription: "Fill out the form below and we'll get back to you with pricing.",
		SuccessMessage:  "Thank you! We will get back to you shortly.",
	}
}

// ShopSession is the locally persisted offline credential for a shop. It is
// written during app install and consumed to build an authorized Admin API
// client for that shop.
type ShopSession struct {
	ID          int64
	Shop        string
	AccessToken string
	Scope       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
