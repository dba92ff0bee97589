package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/relaykit/quoterelay/internal/provision"
	"github.com/relaykit/quoterelay/internal/records"
)

// stubProvider resolves every shop to the same client, or fails.
type stubProvider struct {
	client records.Client
	err    error
}

func (p *stubProvider) ClientFor(_ context.Context, _ string) (records.Client, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.client, nil
}

// stubClient is an in-memory records.Client for handler tests.
type stubClient struct {
	mu sync.Mutex

	defExists   bool
	defCheckErr error
	createErr   error

	created       []map[string]string
	settingsRec   *records.Record
	submissionRec *records.Record

	upsertedType   string
	upsertedHandle string
	upserted       map[string]string

	updatedID     string
	updatedFields map[string]string
	deletedID     string
}

func (c *stubClient) CreateRecord(_ context.Context, typeName, handle string, fields map[string]string) (*records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return nil, c.createErr
	}
	c.created = append(c.created, fields)
	return &records.Record{
		ID:        "gid://shopify/Metaobject/1",
		Handle:    handle,
		Type:      typeName,
		Fields:    fields,
		UpdatedAt: time.Now(),
	}, nil
}

func (c *stubClient) GetRecordByHandle(_ context.Context, typeName, handle string) (*records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if typeName == provision.SettingsType && c.settingsRec != nil {
		return c.settingsRec, nil
	}
	if typeName == provision.SubmissionType && c.submissionRec != nil && c.submissionRec.Handle == handle {
		return c.submissionRec, nil
	}
	return nil, records.ErrNotFound
}

func (c *stubClient) ListRecords(_ context.Context, _ records.ListOptions) (*records.Page, error) {
	return &records.Page{}, nil
}

func (c *stubClient) UpdateRecord(_ context.Context, id string, fields map[string]string) (*records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updatedID = id
	c.updatedFields = fields
	rec := &records.Record{ID: id, Fields: fields, UpdatedAt: time.Now()}
	if c.submissionRec != nil {
		rec.Handle = c.submissionRec.Handle
	}
	return rec, nil
}

func (c *stubClient) UpsertRecord(_ context.Context, typeName, handle string, fields map[string]string) (*records.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upsertedType = typeName
	c.upsertedHandle = handle
	c.upserted = fields
	return &records.Record{ID: "gid://shopify/Metaobject/2", Handle: handle, Type: typeName, Fields: fields}, nil
}

func (c *stubClient) DeleteRecord(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletedID = id
	return nil
}

func (c *stubClient) MetaobjectDefinitionExists(_ context.Context, _ string) (bool, error) {
	return c.defExists, c.defCheckErr
}

func (c *stubClient) CreateMetaobjectDefinition(_ context.Context, _ records.MetaobjectDefinition) error {
	return nil
}

func (c *stubClient) MetafieldDefinitionExists(_ context.Context, _, _, _ string) (bool, error) {
	return true, nil
}

func (c *stubClient) CreateMetafieldDefinition(_ context.Context, _ records.MetafieldDefinition) error {
	return nil
}
