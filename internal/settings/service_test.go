package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/relaykit/quoterelay/internal/models"
	"github.com/relaykit/quoterelay/internal/provision"
	"github.com/relaykit/quoterelay/internal/records"
)

type mockStore struct {
	rec    *records.Record
	getErr error

	upserted       map[string]string
	upsertedType   string
	upsertedHandle string
	upsertErr      error

	defExists bool
}

func (m *mockStore) CreateRecord(_ context.Context, _, _ string, _ map[string]string) (*records.Record, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) GetRecordByHandle(_ context.Context, _, _ string) (*records.Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.rec, nil
}

func (m *mockStore) ListRecords(_ context.Context, _ records.ListOptions) (*records.Page, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) UpdateRecord(_ context.Context, _ string, _ map[string]string) (*records.Record, error) {
	return nil, errors.New("not implemented")
}

func (m *mockStore) UpsertRecord(_ context.Context, typeName, handle string, fields map[string]string) (*records.Record, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.upsertedType = typeName
	m.upsertedHandle = handle
	m.upserted = fields
	return &records.Record{ID: "gid://shopify/Metaobject/1", Handle: handle, Type: typeName, Fields: fields}, nil
}

func (m *mockStore) DeleteRecord(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

func (m *mockStore) MetaobjectDefinitionExists(_ context.Context, _ string) (bool, error) {
	return m.defExists, nil
}

func (m *mockStore) CreateMetaobjectDefinition(_ context.Context, _ records.MetaobjectDefinition) error {
	return nil
}

func (m *mockStore) MetafieldDefinitionExists(_ context.Context, _, _, _ string) (bool, error) {
	return false, errors.New("not implemented")
}

func (m *mockStore) CreateMetafieldDefinition(_ context.Context, _ records.MetafieldDefinition) error {
	return errors.New("not implemented")
}

func TestGetReturnsDefaultsWhenRecordMissing(t *testing.T) {
	svc := NewService(provision.NewProvisioner())
	store := &mockStore{getErr: records.ErrNotFound}

	got := svc.Get(context.Background(), store, "test.myshopify.com")
	if got != models.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestGetReturnsDefaultsOnRemoteFailure(t *testing.T) {
	svc := NewService(provision.NewProvisioner())
	store := &mockStore{getErr: errors.New("502 from admin api")}

	got := svc.Get(context.Background(), store, "test.myshopify.com")
	if got != models.DefaultSettings() {
		t.Fatalf("expected defaults on failure, got %+v", got)
	}
}

func TestGetOverlaysStoredValues(t *testing.T) {
	svc := NewService(provision.NewProvisioner())
	store := &mockStore{rec: &records.Record{
		ID:     "gid://shopify/Metaobject/1",
		Handle: settingsHandle,
		Type:   provision.SettingsType,
		Fields: map[string]string{
			provision.FieldNotificationEmail: "owner@example.com",
			provision.FieldFormTitle:         "Get a Custom Price",
		},
	}}

	got := svc.Get(context.Background(), store, "test.myshopify.com")
	if got.NotificationEmail != "owner@example.com" {
		t.Fatalf("unexpected notification email: %q", got.NotificationEmail)
	}
	if got.FormTitle != "Get a Custom Price" {
		t.Fatalf("unexpected form title: %q", got.FormTitle)
	}

	// Unset fields keep their defaults.
	defaults := models.DefaultSettings()
	if got.PhoneNumber != defaults.PhoneNumber {
		t.Fatalf("unexpected phone number: %q", got.PhoneNumber)
	}
	if got.SuccessMessage != defaults.SuccessMessage {
		t.Fatalf("unexpected success message: %q", got.SuccessMessage)
	}
}

func TestGetKeepsEmptyNotificationEmail(t *testing.T) {
	svc := NewService(provision.NewProvisioner())
	store := &mockStore{rec: &records.Record{
		ID:     "gid://shopify/Metaobject/1",
		Handle: settingsHandle,
		Type:   provision.SettingsType,
		Fields: map[string]string{
			provision.FieldNotificationEmail: "",
			provision.FieldFormTitle:         "Get a Custom Price",
		},
	}}

	got := svc.Get(context.Background(), store, "test.myshopify.com")
	if got.NotificationEmail != "" {
		t.Fatalf("empty stored email must stay empty, got %q", got.NotificationEmail)
	}
}

func TestSaveProvisionsSchemaAndUpserts(t *testing.T) {
	svc := NewService(provision.NewProvisioner())
	store := &mockStore{}

	in := models.AppSettings{
		NotificationEmail: "owner@example.com",
		PhoneNumber:       "+1 555 0100",
		FormTitle:         "Request Pricing",
		FormDescription:   "Tell us what you need.",
		SuccessMessage:    "Thanks!",
	}
	if err := svc.Save(context.Background(), store, "test.myshopify.com", in); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if store.upsertedType != provision.SettingsType {
		t.Fatalf("unexpected upsert type: %s", store.upsertedType)
	}
	if store.upsertedHandle != settingsHandle {
		t.Fatalf("unexpected upsert handle: %s", store.upsertedHandle)
	}
	if store.upserted[provision.FieldNotificationEmail] != "owner@example.com" {
		t.Fatalf("unexpected upserted email: %q", store.upserted[provision.FieldNotificationEmail])
	}
	if store.upserted[provision.FieldSuccessMessage] != "Thanks!" {
		t.Fatalf("unexpected upserted message: %q", store.upserted[provision.FieldSuccessMessage])
	}
}

func TestSaveSurfacesUpsertFailure(t *testing.T) {
	svc := NewService(provision.NewProvisioner())
	store := &mockStore{defExists: true, upsertErr: errors.New("boom")}

	if err := svc.Save(context.Background(), store, "test.myshopify.com", models.DefaultSettings()); err == nil {
		t.Fatal("expected an error from a failed upsert")
	}
}
