// Package provision lazily creates the remote record schemas this app relies
// on. Ensure calls run on hot paths, so successful provisioning is memoized
// per shop and creation races are tolerated: a "taken" conflict from the
// remote side means another caller won the race and the schema exists.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/relaykit/quoterelay/internal/observability"
	"github.com/relaykit/quoterelay/internal/records"
)

// ErrSetup marks a provisioning failure. It is fatal to the operation that
// needed the schema and maps to a 500 at the API boundary.
var ErrSetup = errors.New("schema provisioning failed")

// Provisioner ensures remote schema definitions exist before use.
type Provisioner struct {
	mu   sync.Mutex
	done map[string]bool
}

// NewProvisioner creates a Provisioner with an empty memo.
func NewProvisioner() *Provisioner {
	return &Provisioner{done: make(map[string]bool)}
}

func (p *Provisioner) memoized(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done[key]
}

func (p *Provisioner) memoize(key string) {
	p.mu.Lock()
	p.done[key] = true
	p.mu.Unlock()
}

// EnsureSubmissionSchema guarantees the quote submission type exists for shop.
func (p *Provisioner) EnsureSubmissionSchema(ctx context.Context, defs records.Definitions, shop string) error {
	return p.ensureMetaobject(ctx, defs, shop, SubmissionDefinition())
}

// EnsureSettingsSchema guarantees the settings type exists for shop.
func (p *Provisioner) EnsureSettingsSchema(ctx context.Context, defs records.Definitions, shop string) error {
	return p.ensureMetaobject(ctx, defs, shop, SettingsDefinition())
}

func (p *Provisioner) ensureMetaobject(ctx context.Context, defs records.Definitions, shop string, def records.MetaobjectDefinition) error {
	key := shop + "|" + def.Type
	if p.memoized(key) {
		return nil
	}

	exists, err := defs.MetaobjectDefinitionExists(ctx, def.Type)
	if err != nil {
		observability.Provisioning.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: checking definition %q for %s: %v", ErrSetup, def.Type, shop, err)
	}
	if exists {
		observability.Provisioning.WithLabelValues("exists").Inc()
		p.memoize(key)
		return nil
	}

	switch err := defs.CreateMetaobjectDefinition(ctx, def); {
	case err == nil:
		observability.Provisioning.WithLabelValues("created").Inc()
		slog.InfoContext(ctx, "created metaobject definition", "shop", shop, "type", def.Type)
	case errors.Is(err, records.ErrDefinitionTaken):
		// Lost a creation race; the definition exists.
		observability.Provisioning.WithLabelValues("conflict").Inc()
	default:
		observability.Provisioning.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: creating definition %q for %s: %v", ErrSetup, def.Type, shop, err)
	}

	p.memoize(key)
	return nil
}

// EnsureAll provisions everything the app depends on for one shop: both
// metaobject types and the per-product flags. Called on demand from the
// dashboard after install.
func (p *Provisioner) EnsureAll(ctx context.Context, defs records.Definitions, shop string) error {
	if err := p.EnsureSubmissionSchema(ctx, defs, shop); err != nil {
		return err
	}
	if err := p.EnsureSettingsSchema(ctx, defs, shop); err != nil {
		return err
	}
	return p.EnsureProductFlags(ctx, defs, shop)
}

// EnsureProductFlags guarantees both per-product flag definitions exist for
// shop. The two flags are unrelated, so they are provisioned in parallel.
func (p *Provisioner) EnsureProductFlags(ctx context.Context, defs records.Definitions, shop string) error {
	flagDefs := ProductFlagDefinitions()
	errs := make([]error, len(flagDefs))

	var wg sync.WaitGroup
	for i, def := range flagDefs {
		wg.Add(1)
		go func(i int, def records.MetafieldDefinition) {
			defer wg.Done()
			errs[i] = p.ensureMetafield(ctx, defs, shop, def)
		}(i, def)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Provisioner) ensureMetafield(ctx context.Context, defs records.Definitions, shop string, def records.MetafieldDefinition) error {
	key := shop + "|" + def.Namespace + "." + def.Key
	if p.memoized(key) {
		return nil
	}

	exists, err := defs.MetafieldDefinitionExists(ctx, def.Namespace, def.Key, def.OwnerType)
	if err != nil {
		observability.Provisioning.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: checking metafield %s.%s for %s: %v", ErrSetup, def.Namespace, def.Key, shop, err)
	}
	if exists {
		observability.Provisioning.WithLabelValues("exists").Inc()
		p.memoize(key)
		return nil
	}

	switch err := defs.CreateMetafieldDefinition(ctx, def); {
	case err == nil:
		observability.Provisioning.WithLabelValues("created").Inc()
		slog.InfoContext(ctx, "created metafield definition", "shop", shop, "namespace", def.Namespace, "key", def.Key)
	case errors.Is(err, records.ErrDefinitionTaken):
		observability.Provisioning.WithLabelValues("conflict").Inc()
	default:
		observability.Provisioning.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: creating metafield %s.%s for %s: %v", ErrSetup, def.Namespace, def.Key, shop, err)
	}

	p.memoize(key)
	return nil
}
