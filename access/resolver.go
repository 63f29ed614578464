package access

import (
	"context"
	"sync/atomic"

	"github.com/normanwashere/patient-portal-prototype-sub001/cache"
	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// FeatureSource supplies the active tenant's features. The registry
// implements it; the three values come from one consistent read.
type FeatureSource interface {
	ActiveFeatures() (tenantID string, features tenant.Features, revision uint64)
}

// FeatureSourceFunc adapts a function to FeatureSource.
type FeatureSourceFunc func() (string, tenant.Features, uint64)

// ActiveFeatures implements FeatureSource.
func (fn FeatureSourceFunc) ActiveFeatures() (string, tenant.Features, uint64) {
	if fn == nil {
		return "", tenant.Features{}, 0
	}
	return fn()
}

// Checker is the portal-agnostic view of a Resolver used by guards,
// middleware and templates.
type Checker interface {
	PortalName() string
	Route(ctx context.Context, role gate.Role, path string) gate.Decision
	VisibleKey(ctx context.Context, role gate.Role, key string) bool
}

type options struct {
	hooks   []gate.ResolveHook
	cache   cache.Cache
	enforce bool
	logger  logger.Logger
}

// Option configures a Resolver.
type Option func(*options)

// WithResolveHook registers hooks notified after each decision.
func WithResolveHook(hooks ...gate.ResolveHook) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		for _, hook := range hooks {
			if hook != nil {
				o.hooks = append(o.hooks, hook)
			}
		}
	}
}

// WithCache sets the decision cache.
func WithCache(c cache.Cache) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.cache = c
	}
}

// WithFeatureEnforcement makes the route guard apply module predicates too.
// By default a feature-hidden module stays reachable by direct URL.
func WithFeatureEnforcement(enabled bool) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.enforce = enabled
	}
}

// WithLogger sets the resolver logger.
func WithLogger(lgr logger.Logger) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.logger = lgr
	}
}

// Resolver evaluates portal decisions against the active tenant. Every call
// re-reads the feature source; cached decisions are keyed by tenant and
// revision, never by role alone.
type Resolver[K ~string] struct {
	portal  *Portal[K]
	source  FeatureSource
	hooks   []gate.ResolveHook
	cache   cache.Cache
	enforce bool
	logger  logger.Logger
	owner   uint64
}

var resolverSeq atomic.Uint64

// NewResolver validates portal and binds it to source.
func NewResolver[K ~string](portal *Portal[K], source FeatureSource, opts ...Option) (*Resolver[K], error) {
	if err := portal.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ferrors.WrapSentinel(ferrors.ErrResolverRequired, "feature source is required", map[string]any{
			ferrors.MetaPortal: portal.Name,
		})
	}
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.cache == nil {
		cfg.cache = cache.NoopCache{}
	}
	return &Resolver[K]{
		portal:  portal,
		source:  source,
		hooks:   cfg.hooks,
		cache:   cfg.cache,
		enforce: cfg.enforce,
		logger:  logger.Or(cfg.logger),
		owner:   resolverSeq.Add(1),
	}, nil
}

// Portal returns the bound portal.
func (r *Resolver[K]) Portal() *Portal[K] {
	if r == nil {
		return nil
	}
	return r.portal
}

// PortalName implements Checker.
func (r *Resolver[K]) PortalName() string {
	if r == nil || r.portal == nil {
		return ""
	}
	return r.portal.Name
}

// Route decides whether path may be rendered for role.
func (r *Resolver[K]) Route(ctx context.Context, role gate.Role, path string) gate.Decision {
	if r == nil || r.portal == nil {
		return gate.Decision{Kind: gate.KindRoute, Role: role, Path: gate.NormalizePath(path), RedirectTo: "/"}
	}
	tenantID, features, revision := r.source.ActiveFeatures()
	key := cache.Key{
		Owner:    r.owner,
		Portal:   r.portal.Name,
		Kind:     gate.KindRoute,
		Role:     role,
		Subject:  gate.NormalizePath(path),
		TenantID: tenantID,
		Revision: revision,
	}
	if decision, ok := r.cached(ctx, key); ok {
		return decision
	}
	decision := r.portal.RouteDecision(role, path)
	if r.enforce {
		decision = r.portal.EnforceFeature(decision, tenantID, features)
	} else {
		decision.Feature.TenantID = tenantID
	}
	r.cache.Set(ctx, key, cache.Entry{Decision: decision})
	r.emit(ctx, decision, revision)
	return decision
}

// RouteAllowed is Route reduced to its verdict.
func (r *Resolver[K]) RouteAllowed(ctx context.Context, role gate.Role, path string) bool {
	return r.Route(ctx, role, path).Allowed
}

// Nav decides the navigation state of key using the item's own predicate.
func (r *Resolver[K]) Nav(ctx context.Context, role gate.Role, key K, pred tenant.Predicate) gate.Decision {
	if r == nil || r.portal == nil {
		return gate.Decision{Kind: gate.KindNav, Role: role, Module: string(key), State: gate.NavHidden}
	}
	tenantID, features, revision := r.source.ActiveFeatures()
	cacheKey := cache.Key{
		Owner:    r.owner,
		Portal:   r.portal.Name,
		Kind:     gate.KindNav,
		Role:     role,
		Subject:  string(key) + "|" + pred.String(),
		TenantID: tenantID,
		Revision: revision,
	}
	if decision, ok := r.cached(ctx, cacheKey); ok {
		return decision
	}
	decision := r.portal.NavDecision(role, key, pred, tenantID, features)
	r.cache.Set(ctx, cacheKey, cache.Entry{Decision: decision})
	r.emit(ctx, decision, revision)
	return decision
}

// Visible reports whether key renders, using the portal's declared predicate.
func (r *Resolver[K]) Visible(ctx context.Context, role gate.Role, key K) bool {
	if r == nil || r.portal == nil {
		return false
	}
	return r.Nav(ctx, role, key, r.portal.Predicate(key)).Render()
}

// VisibleKey implements Checker.
func (r *Resolver[K]) VisibleKey(ctx context.Context, role gate.Role, key string) bool {
	return r.Visible(ctx, role, K(gate.NormalizeModuleKey(key)))
}

func (r *Resolver[K]) cached(ctx context.Context, key cache.Key) (gate.Decision, bool) {
	entry, ok := r.cache.Get(ctx, key)
	if !ok {
		return gate.Decision{}, false
	}
	decision := entry.Decision
	decision.CacheHit = true
	r.emit(ctx, decision, key.Revision)
	return decision, true
}

func (r *Resolver[K]) emit(ctx context.Context, decision gate.Decision, revision uint64) {
	if !decision.Allowed && decision.Kind == gate.KindRoute {
		r.logger.WithContext(ctx).Debug("route denied",
			"portal", decision.Portal,
			"role", decision.Role,
			"module", decision.Module,
			"redirect_to", decision.RedirectTo,
		)
	}
	if len(r.hooks) == 0 {
		return
	}
	event := gate.ResolveEvent{Decision: decision, Revision: revision}
	for _, hook := range r.hooks {
		hook.OnResolve(ctx, event)
	}
}

var _ Checker = (*Resolver[string])(nil)
