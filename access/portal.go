package access

import (
	"strings"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// Portal binds a role table to the path layout and overrides of one portal.
type Portal[K ~string] struct {
	Name          string
	Prefix        string
	Home          string
	Default       K
	AlwaysAllowed []K
	Table         *Table[K]
	Predicates    map[K]tenant.Predicate
}

// Validate checks that the portal's keys belong to its table.
func (p *Portal[K]) Validate() error {
	if p == nil || p.Table == nil {
		return ferrors.WrapSentinel(ferrors.ErrPortalInvalid, "portal role table is required", nil)
	}
	meta := map[string]any{ferrors.MetaPortal: p.Name}
	if strings.TrimSpace(p.Name) == "" {
		return ferrors.WrapSentinel(ferrors.ErrPortalInvalid, "portal name is required", meta)
	}
	if !p.Table.Known(p.Default) {
		return ferrors.WrapSentinel(ferrors.ErrModuleUnknown, "portal default module is unknown", withKey(meta, p.Default))
	}
	for _, key := range p.AlwaysAllowed {
		if !p.Table.Known(key) {
			return ferrors.WrapSentinel(ferrors.ErrModuleUnknown, "always allowed module is unknown", withKey(meta, key))
		}
	}
	for key := range p.Predicates {
		if !p.Table.Known(key) {
			return ferrors.WrapSentinel(ferrors.ErrModuleUnknown, "predicate module is unknown", withKey(meta, key))
		}
	}
	return nil
}

func withKey[K ~string](meta map[string]any, key K) map[string]any {
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out[ferrors.MetaModuleKey] = string(key)
	return out
}

// HomePath returns the redirect target for denied routes.
func (p *Portal[K]) HomePath() string {
	if p == nil {
		return "/"
	}
	if p.Home != "" {
		return p.Home
	}
	return gate.NormalizePath(p.Prefix)
}

// ModuleKey maps a path to the module it represents: the portal prefix is
// stripped at a segment boundary and the first remaining segment is the key.
// An empty remainder maps to the default key. The role table is not consulted.
func (p *Portal[K]) ModuleKey(path string) K {
	if p == nil {
		return ""
	}
	clean := gate.NormalizePath(path)
	prefix := gate.NormalizePath(p.Prefix)
	rest := clean
	switch {
	case prefix == "/":
	case clean == prefix:
		rest = ""
	case strings.HasPrefix(clean, prefix+"/"):
		rest = clean[len(prefix):]
	}
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return p.Default
	}
	segment := rest
	if idx := strings.Index(rest, "/"); idx >= 0 {
		segment = rest[:idx]
	}
	key := gate.NormalizeModuleKey(segment)
	if key == "" {
		return p.Default
	}
	return K(key)
}

// IsAlwaysAllowed reports whether key bypasses the role table.
func (p *Portal[K]) IsAlwaysAllowed(key K) bool {
	if p == nil {
		return false
	}
	for _, allowed := range p.AlwaysAllowed {
		if allowed == key {
			return true
		}
	}
	return false
}

// Predicate returns the tenant feature predicate declared for key.
func (p *Portal[K]) Predicate(key K) tenant.Predicate {
	if p == nil {
		return tenant.Predicate{}
	}
	return p.Predicates[key]
}

// RouteDecision applies the route guard order: always-allowed list, then the
// role table. Denials carry the portal home as redirect target.
func (p *Portal[K]) RouteDecision(role gate.Role, path string) gate.Decision {
	key := p.ModuleKey(path)
	decision := gate.Decision{
		Kind:   gate.KindRoute,
		Portal: p.name(),
		Role:   role,
		Path:   gate.NormalizePath(path),
		Module: string(key),
		Known:  p.known(key),
	}
	if p.IsAlwaysAllowed(key) {
		decision.Allowed = true
		decision.Source = gate.SourceAlwaysAllowed
		return decision
	}
	decision.Source = gate.SourceRoleTable
	decision.Allowed = p != nil && p.Table.Allowed(role, key)
	if !decision.Allowed {
		decision.RedirectTo = p.HomePath()
	}
	return decision
}

// EnforceFeature applies the module predicate to a granted route decision.
// A failing predicate turns the grant into a redirect.
func (p *Portal[K]) EnforceFeature(decision gate.Decision, tenantID string, features tenant.Features) gate.Decision {
	if !decision.Allowed {
		return decision
	}
	pred := p.Predicate(K(decision.Module))
	decision.Feature = featureTrace(pred, tenantID, features)
	if decision.Feature.Declared && !decision.Feature.Value {
		decision.Allowed = false
		decision.Source = gate.SourceFeature
		decision.RedirectTo = p.HomePath()
	}
	return decision
}

// NavDecision decides navigation visibility. A declared predicate that fails
// hides the item regardless of role; otherwise the always-allowed list and
// the role table decide between visible_allowed and visible_blocked.
func (p *Portal[K]) NavDecision(role gate.Role, key K, pred tenant.Predicate, tenantID string, features tenant.Features) gate.Decision {
	decision := gate.Decision{
		Kind:    gate.KindNav,
		Portal:  p.name(),
		Role:    role,
		Module:  string(key),
		Known:   p.known(key),
		Feature: featureTrace(pred, tenantID, features),
	}
	if decision.Feature.Declared && !decision.Feature.Value {
		decision.Source = gate.SourceFeature
		decision.State = gate.NavHidden
		return decision
	}
	switch {
	case p.IsAlwaysAllowed(key):
		decision.Allowed = true
		decision.Source = gate.SourceAlwaysAllowed
	default:
		decision.Source = gate.SourceRoleTable
		decision.Allowed = p != nil && p.Table.Allowed(role, key)
	}
	if decision.Allowed {
		decision.State = gate.NavAllowed
	} else {
		decision.State = gate.NavBlocked
	}
	return decision
}

func featureTrace(pred tenant.Predicate, tenantID string, features tenant.Features) gate.FeatureTrace {
	if !pred.Declared() {
		return gate.FeatureTrace{Value: true, TenantID: tenantID}
	}
	caps := pred.Capabilities()
	names := make([]string, 0, len(caps))
	for _, capability := range caps {
		names = append(names, string(capability))
	}
	return gate.FeatureTrace{
		Declared:     true,
		Value:        pred.Eval(features),
		TenantID:     tenantID,
		Capabilities: names,
	}
}

func (p *Portal[K]) name() string {
	if p == nil {
		return ""
	}
	return p.Name
}

func (p *Portal[K]) known(key K) bool {
	return p != nil && p.Table.Known(key)
}
