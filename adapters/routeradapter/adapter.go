package routeradapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-router"

	"github.com/normanwashere/patient-portal-prototype-sub001/access"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate/guard"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/scope"
)

// DefaultTenantParam is the query parameter read by TenantSelector.
const DefaultTenantParam = "tenant"

// requestContext is the part of router.Context the middleware relies on.
type requestContext interface {
	Context() context.Context
	SetContext(context.Context)
	Query(name string, defaultValue ...string) string
	Path() string
	Redirect(location string, status ...int) error
}

// TenantSwitcher selects the active tenant. The registry implements it.
type TenantSwitcher interface {
	SelectedID() string
	SetActive(ctx context.Context, id string, actor gate.ActorRef)
}

// RoleSource reports the session's staff role.
type RoleSource interface {
	Role(ctx context.Context) (gate.Role, bool)
}

// RoleSourceFunc adapts a function to RoleSource.
type RoleSourceFunc func(ctx context.Context) (gate.Role, bool)

// Role implements RoleSource.
func (fn RoleSourceFunc) Role(ctx context.Context) (gate.Role, bool) {
	if fn == nil {
		return "", false
	}
	return fn(ctx)
}

// Scoper enriches a request context, e.g. with the authenticated actor.
type Scoper interface {
	Scope(ctx context.Context) context.Context
}

type options struct {
	param     string
	roles     RoleSource
	guardOpts []guard.Option
	logger    logger.Logger
}

// Option configures the middleware.
type Option func(*options)

// WithTenantParam overrides the tenant query parameter name.
func WithTenantParam(name string) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.param = strings.TrimSpace(name)
	}
}

// WithRoleSource sets where Guard reads the staff role. Without it the role
// comes from the scope package.
func WithRoleSource(roles RoleSource) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.roles = roles
	}
}

// WithGuardOptions forwards options to the route guard.
func WithGuardOptions(opts ...guard.Option) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.guardOpts = append(o.guardOpts, opts...)
	}
}

// WithLogger sets the middleware logger.
func WithLogger(lgr logger.Logger) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.logger = lgr
	}
}

func newOptions(opts []Option) options {
	cfg := options{param: DefaultTenantParam}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.param == "" {
		cfg.param = DefaultTenantParam
	}
	cfg.logger = logger.Or(cfg.logger)
	return cfg
}

// Context extracts the standard context from a router context.
func Context(ctx router.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx.Context()
}

// Scope returns middleware that runs scoper over each request context.
func Scope(scoper Scoper) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if scoper != nil && c != nil {
				c.SetContext(scoper.Scope(c.Context()))
			}
			return next(c)
		}
	}
}

// TenantSelector returns middleware that switches the active tenant when the
// request carries the tenant query parameter. Unknown ids are stored as
// given; the registry resolves them to the default tenant on read.
//
// The selection is process-wide, not per request: it calls SetActive on the
// shared registry, so every later request sees the chosen tenant until
// another request selects a different one. Serve one tenant per process.
func TenantSelector(tenants TenantSwitcher, opts ...Option) router.MiddlewareFunc {
	cfg := newOptions(opts)
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			selectTenant(c, tenants, cfg)
			return next(c)
		}
	}
}

func selectTenant(c requestContext, tenants TenantSwitcher, cfg options) {
	if c == nil || tenants == nil {
		return
	}
	id := strings.TrimSpace(c.Query(cfg.param))
	if id == "" || id == tenants.SelectedID() {
		return
	}
	ctx := c.Context()
	tenants.SetActive(ctx, id, scope.Actor(ctx))
	c.SetContext(scope.WithTenantID(ctx, id))
	cfg.logger.WithContext(ctx).Debug("tenant selected from query", "tenant_id", id, "param", cfg.param)
}

// Guard returns middleware that redirects denied requests to the portal
// home instead of rendering them.
func Guard(checker access.Checker, opts ...Option) router.MiddlewareFunc {
	cfg := newOptions(opts)
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			allowed, err := guardRequest(c, checker, cfg)
			if err != nil || !allowed {
				return err
			}
			return next(c)
		}
	}
}

func guardRequest(c requestContext, checker access.Checker, cfg options) (bool, error) {
	if c == nil {
		return false, nil
	}
	ctx := c.Context()
	role := sessionRole(ctx, cfg.roles)
	var resolver guard.RouteResolver
	if checker != nil {
		resolver = checker
	}
	return guard.Enforce(ctx, resolver, role, c.Path(), func(target string) error {
		return c.Redirect(target)
	}, cfg.guardOpts...)
}

func sessionRole(ctx context.Context, roles RoleSource) gate.Role {
	if roles != nil {
		if role, ok := roles.Role(ctx); ok {
			return role
		}
	}
	role, _ := scope.Role(ctx)
	return role
}
