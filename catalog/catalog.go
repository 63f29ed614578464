package catalog

import (
	"context"
	"strings"

	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// Message represents a human-friendly string with optional localization data.
type Message struct {
	Key  string
	Text string
	Args map[string]any
}

// CapabilityDefinition describes one tenant capability for the admin toggle
// panel. Parent names the switch that gates it, if any.
type CapabilityDefinition struct {
	Key         tenant.Capability
	Group       string
	Label       Message
	Description Message
	Parent      tenant.Capability
}

// Catalog exposes capability definitions by key.
type Catalog interface {
	Get(key tenant.Capability) (CapabilityDefinition, bool)
	List() []CapabilityDefinition
}

// MessageResolver resolves a Message to a display string.
type MessageResolver interface {
	Resolve(ctx context.Context, locale string, msg Message) (string, error)
}

// PlainResolver returns the Message text or key without localization.
type PlainResolver struct{}

// Resolve implements MessageResolver.
func (PlainResolver) Resolve(_ context.Context, _ string, msg Message) (string, error) {
	if msg.Text != "" {
		return msg.Text, nil
	}
	return msg.Key, nil
}

// StaticCatalog provides an in-memory catalog.
type StaticCatalog struct {
	defs  map[tenant.Capability]CapabilityDefinition
	order []tenant.Capability
}

// NewStatic builds an in-memory catalog. Keys are normalized and anything
// that is not a known capability is dropped. List follows the capability
// projection order.
func NewStatic(defs map[string]CapabilityDefinition) *StaticCatalog {
	out := make(map[tenant.Capability]CapabilityDefinition, len(defs))
	for key, def := range defs {
		normalized := tenant.NormalizeCapability(key)
		if !tenant.IsKnownCapability(normalized) {
			continue
		}
		def.Key = normalized
		def.Group = strings.TrimSpace(def.Group)
		def.Parent = tenant.NormalizeCapability(string(def.Parent))
		def.Label = normalizeMessage(def.Label)
		def.Description = normalizeMessage(def.Description)
		out[normalized] = def
	}
	order := make([]tenant.Capability, 0, len(out))
	for _, key := range tenant.KnownCapabilities() {
		if _, ok := out[key]; ok {
			order = append(order, key)
		}
	}
	return &StaticCatalog{defs: out, order: order}
}

// Get implements Catalog.
func (c *StaticCatalog) Get(key tenant.Capability) (CapabilityDefinition, bool) {
	if c == nil || len(c.defs) == 0 {
		return CapabilityDefinition{}, false
	}
	normalized := tenant.NormalizeCapability(string(key))
	if normalized == "" {
		return CapabilityDefinition{}, false
	}
	def, ok := c.defs[normalized]
	return def, ok
}

// List implements Catalog.
func (c *StaticCatalog) List() []CapabilityDefinition {
	if c == nil || len(c.defs) == 0 {
		return nil
	}
	out := make([]CapabilityDefinition, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.defs[key])
	}
	return out
}

func normalizeMessage(msg Message) Message {
	msg.Key = strings.TrimSpace(msg.Key)
	msg.Text = strings.TrimSpace(msg.Text)
	if len(msg.Args) == 0 {
		msg.Args = nil
	}
	return msg
}
