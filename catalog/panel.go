package catalog

import (
	"context"

	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// Toggle is one row of the admin feature panel. Stored is the raw switch;
// Effective is the projected value after parent gating.
type Toggle struct {
	Definition  CapabilityDefinition
	Label       string
	Description string
	Stored      bool
	Effective   bool
}

// Panel lists a toggle for every catalog entry backed by a stored switch.
func Panel(ctx context.Context, cat Catalog, features tenant.Features, resolver MessageResolver, locale string) ([]Toggle, error) {
	if cat == nil {
		return nil, nil
	}
	if resolver == nil {
		resolver = PlainResolver{}
	}
	caps := tenant.Project(features)
	defs := cat.List()
	out := make([]Toggle, 0, len(defs))
	for _, def := range defs {
		stored, ok := features.Flag(def.Key)
		if !ok {
			continue
		}
		label, err := resolver.Resolve(ctx, locale, def.Label)
		if err != nil {
			return nil, err
		}
		description, err := resolver.Resolve(ctx, locale, def.Description)
		if err != nil {
			return nil, err
		}
		out = append(out, Toggle{
			Definition:  def,
			Label:       label,
			Description: description,
			Stored:      stored,
			Effective:   caps.Enabled(def.Key),
		})
	}
	return out, nil
}
