// Package records defines the contract with the remote record store: typed
// records addressed by opaque ID or handle, plus the definition-management
// calls used to provision record types before first use. The Shopify Admin
// API client implements these interfaces; tests substitute mocks.
package records

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the given ID or handle.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidRecord is returned when the remote store rejects a create or
	// update with a validation error.
	ErrInvalidRecord = errors.New("record rejected by remote store")

	// ErrDefinitionTaken is returned when a definition create conflicts with
	// one that already exists. Callers treat it as a benign race.
	ErrDefinitionTaken = errors.New("definition already exists")
)

// Record is a named collection of string fields held by the remote store.
type Record struct {
	ID        string
	Handle    string
	Type      string
	Fields    map[string]string
	UpdatedAt time.Time
}

// Field returns the value for key, or "" when absent.
func (r *Record) Field(key string) string {
	return r.Fields[key]
}

// ListOptions selects records of one type, optionally filtered by a simple
// field-equality query string, paginated by opaque cursor.
type ListOptions struct {
	Type  string
	Query string
	First int
	After string
}

// Page is one page of list results.
type Page struct {
	Records     []Record
	EndCursor   string
	HasNextPage bool
}

// Store is the generic create/query/update/delete surface over typed records.
type Store interface {
	CreateRecord(ctx context.Context, typeName, handle string, fields map[string]string) (*Record, error)
	GetRecordByHandle(ctx context.Context, typeName, handle string) (*Record, error)
	ListRecords(ctx context.Context, opts ListOptions) (*Page, error)
	UpdateRecord(ctx context.Context, id string, fields map[string]string) (*Record, error)
	UpsertRecord(ctx context.Context, typeName, handle string, fields map[string]string) (*Record, error)
	DeleteRecord(ctx context.Context, id string) error
}

// FieldDefinition describes one field of a record type.
type FieldDefinition struct {
	Key      string
	Name     string
	Type     string
	Required bool
	// Choices constrains the field to an enumerated set when non-empty.
	Choices []string
}

// MetaobjectDefinition describes a record type to provision remotely.
type MetaobjectDefinition struct {
	Type   string
	Name   string
	Fields []FieldDefinition
	// PublicRead exposes the records to the storefront API.
	PublicRead bool
}

// MetafieldDefinition describes a per-resource flag to provision remotely.
type MetafieldDefinition struct {
	Namespace  string
	Key        string
	Name       string
	Type       string
	OwnerType  string
	PublicRead bool
}

// Definitions is the definition-management surface of the remote store. The
// Exists calls are cheap lookups; the Create calls return ErrDefinitionTaken
// on a lost creation race.
type Definitions interface {
	MetaobjectDefinitionExists(ctx context.Context, typeName string) (bool, error)
	CreateMetaobjectDefinition(ctx context.Context, def MetaobjectDefinition) error
	MetafieldDefinitionExists(ctx context.Context, namespace, key, ownerType string) (bool, error)
	CreateMetafieldDefinition(ctx context.Context, def MetafieldDefinition) error
}

// Client is the full authorized handle to one shop's remote record space.
type Client interface {
	Store
	Definitions
}
