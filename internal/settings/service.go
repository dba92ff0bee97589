// Package settings manages the per-shop settings singleton. Reads never fail:
// any remote error degrades to the hardcoded defaults so the public form
// stays available.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/relaykit/quoterelay/internal/models"
	"github.com/relaykit/quoterelay/internal/observability"
	"github.com/relaykit/quoterelay/internal/provision"
	"github.com/relaykit/quoterelay/internal/records"
)

// Handle of the one logical settings record per shop.
const settingsHandle = "app-settings"

// Service reads and saves app settings.
type Service struct {
	prov *provision.Provisioner
}

// NewService creates a settings Service.
func NewService(prov *provision.Provisioner) *Service {
	return &Service{prov: prov}
}

// Get returns the shop's settings, overlaying stored values on the defaults.
// It never returns an error: a missing record or any remote failure yields
// the defaults.
func (s *Service) Get(ctx context.Context, store records.Store, shop string) models.AppSettings {
	out := models.DefaultSettings()

	rec, err := store.GetRecordByHandle(ctx, provision.SettingsType, settingsHandle)
	if err != nil {
		if !errors.Is(err, records.ErrNotFound) {
			slog.WarnContext(ctx, "settings read failed, using defaults", "shop", shop, "error", err)
			observability.SettingsFallbacks.Inc()
		}
		return out
	}

	// Notification email is taken verbatim: empty means "do not notify".
	out.NotificationEmail = rec.Field(provision.FieldNotificationEmail)
	if v := rec.Field(provision.FieldPhoneNumber); v != "" {
		out.PhoneNumber = v
	}
	if v := rec.Field(provision.FieldFormTitle); v != "" {
		out.FormTitle = v
	}
	if v := rec.Field(provision.FieldFormDescription); v != "" {
		out.FormDescription = v
	}
	if v := rec.Field(provision.FieldSuccessMessage); v != "" {
		out.SuccessMessage = v
	}
	return out
}

// Save upserts the shop's settings record, provisioning the settings schema
// first. The record is created lazily on the first save.
func (s *Service) Save(ctx context.Context, client records.Client, shop string, in models.AppSettings) error {
	if err := s.prov.EnsureSettingsSchema(ctx, client, shop); err != nil {
		return err
	}

	fields := map[string]string{
		provision.FieldNotificationEmail: in.NotificationEmail,
		provision.FieldPhoneNumber:       in.PhoneNumber,
		provision.FieldFormTitle:         in.FormTitle,
		provision.FieldFormDescription:   in.FormDescription,
		provision.FieldSuccessMessage:    in.SuccessMessage,
	}
	if _, err := client.UpsertRecord(ctx, provision.SettingsType, settingsHandle, fields); err != nil {
		return fmt.Errorf("saving settings for %s: %w", shop, err)
	}

	slog.InfoContext(ctx, "saved settings", "shop", shop)
	return nil
}
