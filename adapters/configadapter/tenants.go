package configadapter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-config/config"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/store"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

type configOptions struct {
	delimiter string
}

// Option configures configadapter parsing.
type Option func(*configOptions)

// WithDelimiter sets the key delimiter used when flattening nested maps.
func WithDelimiter(delimiter string) Option {
	return func(cfg *configOptions) {
		if cfg == nil {
			return
		}
		cfg.delimiter = delimiter
	}
}

func newConfigOptions(opts []Option) configOptions {
	cfg := configOptions{delimiter: "."}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.delimiter == "" {
		cfg.delimiter = "."
	}
	return cfg
}

// Tenants is a store.Reader over tenant configs decoded from a config map.
type Tenants struct {
	configs []tenant.Config
}

// NewTenants decodes tenants keyed by id. Each entry may hold name, tagline,
// logoUrl, loginBackgroundUrl, colors and features. Feature values accept
// bool, *bool, strings and go-config OptionalBool; an unset OptionalBool
// leaves an optional flag absent. Nested maps such as "visits" are flattened
// with the delimiter.
func NewTenants(data map[string]any, opts ...Option) (*Tenants, error) {
	cfg := newConfigOptions(opts)
	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := &Tenants{}
	var errs []error
	for _, rawID := range ids {
		id := strings.TrimSpace(rawID)
		if id == "" {
			errs = append(errs, ferrors.WrapSentinel(ferrors.ErrTenantIDRequired, "", map[string]any{
				ferrors.MetaAdapter: "config",
			}))
			continue
		}
		entry, ok := asMap(data[rawID])
		if !ok {
			errs = append(errs, invalid(id, "tenant entry must be a map"))
			continue
		}
		parsed, err := tenantFromMap(id, entry, cfg.delimiter)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.configs = append(out.configs, parsed)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// List implements store.Reader.
func (t *Tenants) List(context.Context) ([]tenant.Config, error) {
	if t == nil {
		return nil, nil
	}
	out := make([]tenant.Config, 0, len(t.configs))
	for _, cfg := range t.configs {
		out = append(out, cfg.Clone())
	}
	return out, nil
}

func tenantFromMap(id string, data map[string]any, delim string) (tenant.Config, error) {
	cfg := tenant.Config{
		ID:                 id,
		Name:               stringValue(data["name"]),
		Tagline:            stringValue(data["tagline"]),
		LogoURL:            stringValue(data["logoUrl"]),
		LoginBackgroundURL: stringValue(data["loginBackgroundUrl"]),
	}
	if cfg.Name == "" {
		cfg.Name = id
	}
	if raw, ok := data["colors"]; ok {
		colors, ok := asMap(raw)
		if !ok {
			return tenant.Config{}, invalid(id, "colors must be a map")
		}
		for token, value := range colors {
			if !setColor(&cfg.Colors, strings.TrimSpace(token), stringValue(value)) {
				return tenant.Config{}, invalid(id, fmt.Sprintf("unknown color token %q", token))
			}
		}
	}
	if raw, ok := data["features"]; ok {
		features, ok := asMap(raw)
		if !ok {
			return tenant.Config{}, invalid(id, "features must be a map")
		}
		if err := applyFeatures(id, "", features, delim, &cfg.Features); err != nil {
			return tenant.Config{}, err
		}
	}
	return cfg, nil
}

func applyFeatures(id, prefix string, data map[string]any, delim string, out *tenant.Features) error {
	for key, value := range data {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		path := trimmed
		if prefix != "" {
			path = prefix + "." + trimmed
		}
		if nested, ok := asMap(value); ok {
			if err := applyFeatures(id, path, nested, delim, out); err != nil {
				return err
			}
			continue
		}
		set, enabled, ok := boolFromValue(value)
		if !ok {
			return invalid(id, fmt.Sprintf("feature %q must be a boolean", path))
		}
		if !set {
			continue
		}
		capability := tenant.NormalizeCapability(strings.ReplaceAll(path, delim, "."))
		if !out.SetFlag(capability, enabled) {
			return invalid(id, fmt.Sprintf("unknown feature %q", path))
		}
	}
	return nil
}

type optionalBool interface {
	IsSet() bool
	Value() bool
}

func boolFromValue(value any) (set bool, enabled bool, ok bool) {
	switch typed := value.(type) {
	case bool:
		return true, typed, true
	case *bool:
		if typed == nil {
			return false, false, true
		}
		return true, *typed, true
	case config.OptionalBool:
		return typed.IsSet(), typed.Value(), true
	case *config.OptionalBool:
		if typed == nil {
			return false, false, true
		}
		return typed.IsSet(), typed.Value(), true
	case optionalBool:
		return typed.IsSet(), typed.Value(), true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return false, false, false
		}
		return true, parsed, true
	case nil:
		return false, false, true
	default:
		return false, false, false
	}
}

func setColor(colors *tenant.Colors, token, value string) bool {
	switch token {
	case tenant.TokenPrimary:
		colors.Primary = value
	case tenant.TokenSecondary:
		colors.Secondary = value
	case tenant.TokenBackground:
		colors.Background = value
	case tenant.TokenSurface:
		colors.Surface = value
	case tenant.TokenText:
		colors.Text = value
	case tenant.TokenTextMuted:
		colors.TextMuted = value
	case tenant.TokenBorder:
		colors.Border = value
	default:
		return false
	}
	return true
}

func asMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = val
		}
		return out, true
	case map[string]bool:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func invalid(id, message string) error {
	return ferrors.WrapSentinel(ferrors.ErrConfigInvalid, message, map[string]any{
		ferrors.MetaTenantID: id,
		ferrors.MetaAdapter:  "config",
	})
}

var _ store.Reader = (*Tenants)(nil)
