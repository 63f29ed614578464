package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/urlbuilder"
)

// ErrRouteDenied is returned when a route is denied and no custom error is provided.
var ErrRouteDenied = errors.New("route denied")

// RouteResolver decides route access. access.Resolver implements it.
type RouteResolver interface {
	Route(ctx context.Context, role gate.Role, path string) gate.Decision
}

// DeniedError carries the denied module and the redirect target. It unwraps
// to ErrRouteDenied.
type DeniedError struct {
	Portal     string
	Module     string
	RedirectTo string
}

func (e DeniedError) Error() string {
	if e.Module == "" {
		return ErrRouteDenied.Error()
	}
	return fmt.Sprintf("%s: %s/%s", ErrRouteDenied.Error(), e.Portal, e.Module)
}

func (e DeniedError) Unwrap() error {
	return ErrRouteDenied
}

// Option configures guard behavior.
type Option func(*config)

type config struct {
	deniedErr  error
	builder    urlbuilder.Builder
	group      string
	route      string
	onRedirect func(ctx context.Context, decision gate.Decision)
}

// WithDeniedError sets the error Require returns on denial.
func WithDeniedError(err error) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.deniedErr = err
	}
}

// WithRedirectRoute resolves the redirect target through a URL builder
// instead of the portal home path. Resolution failures keep the home path.
func WithRedirectRoute(builder urlbuilder.Builder, group, route string) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.builder = builder
		c.group = group
		c.route = route
	}
}

// WithRedirectObserver is called with every decision that redirects.
func WithRedirectObserver(fn func(ctx context.Context, decision gate.Decision)) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.onRedirect = fn
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// Check resolves the decision for path with the configured redirect target.
// A nil resolver denies everything and redirects to the site root.
func Check(ctx context.Context, resolver RouteResolver, role gate.Role, path string, opts ...Option) gate.Decision {
	return check(ctx, resolver, role, path, newConfig(opts))
}

func check(ctx context.Context, resolver RouteResolver, role gate.Role, path string, cfg *config) gate.Decision {
	if resolver == nil {
		return gate.Decision{Kind: gate.KindRoute, Role: role, Path: gate.NormalizePath(path), RedirectTo: "/"}
	}
	decision := resolver.Route(ctx, role, path)
	if decision.Allowed || cfg.builder == nil {
		return decision
	}
	target, err := cfg.builder.Resolve(cfg.group, cfg.route, nil, nil)
	if err == nil && target != "" {
		decision.RedirectTo = target
	}
	return decision
}

// Require returns nil when path is allowed and a DeniedError otherwise.
func Require(ctx context.Context, resolver RouteResolver, role gate.Role, path string, opts ...Option) error {
	if resolver == nil {
		return ferrors.WrapSentinel(ferrors.ErrResolverRequired, "", map[string]any{
			ferrors.MetaPath: path,
		})
	}
	cfg := newConfig(opts)
	decision := check(ctx, resolver, role, path, cfg)
	if decision.Allowed {
		return nil
	}
	if cfg.deniedErr != nil {
		return cfg.deniedErr
	}
	return DeniedError{Portal: decision.Portal, Module: decision.Module, RedirectTo: decision.RedirectTo}
}

// Enforce calls redirect with the fallback target when path is denied. A
// plain denial is not an error; only a failing redirect is returned.
func Enforce(ctx context.Context, resolver RouteResolver, role gate.Role, path string, redirect func(target string) error, opts ...Option) (bool, error) {
	cfg := newConfig(opts)
	decision := check(ctx, resolver, role, path, cfg)
	if decision.Allowed {
		return true, nil
	}
	if cfg.onRedirect != nil {
		cfg.onRedirect(ctx, decision)
	}
	if redirect == nil {
		return false, nil
	}
	return false, redirect(decision.RedirectTo)
}

// RedirectTarget extracts the redirect target from a Require error.
func RedirectTarget(err error) (string, bool) {
	var denied DeniedError
	if errors.As(err, &denied) && denied.RedirectTo != "" {
		return denied.RedirectTo, true
	}
	return "", false
}
