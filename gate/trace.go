package gate

import "context"

// DecisionKind distinguishes navigation visibility from route guarding.
type DecisionKind string

const (
	KindRoute DecisionKind = "route"
	KindNav   DecisionKind = "nav"
)

// DecisionSource captures which layer produced the final value.
type DecisionSource string

const (
	SourceAlwaysAllowed DecisionSource = "always_allowed"
	SourceRoleTable     DecisionSource = "role_table"
	SourceFeature       DecisionSource = "feature"
)

// NavState is the per-module navigation state evaluated on every render.
type NavState string

const (
	NavHidden  NavState = "hidden"
	NavBlocked NavState = "visible_blocked"
	NavAllowed NavState = "visible_allowed"
)

// FeatureTrace captures the tenant feature predicate evaluation.
type FeatureTrace struct {
	Declared     bool
	Value        bool
	TenantID     string
	Capabilities []string
}

// Decision describes one access resolution and how it was reached.
type Decision struct {
	Kind       DecisionKind
	Portal     string
	Role       Role
	Path       string
	Module     string
	Known      bool
	Allowed    bool
	Source     DecisionSource
	State      NavState
	RedirectTo string
	Feature    FeatureTrace
	CacheHit   bool
}

// Render reports whether a navigation entry should be drawn.
func (d Decision) Render() bool {
	return d.Kind == KindNav && d.State == NavAllowed
}

// Redirect reports whether a route decision requires a redirect.
func (d Decision) Redirect() bool {
	return d.Kind == KindRoute && !d.Allowed && d.RedirectTo != ""
}

// ResolveEvent is emitted after each decision for hooks.
type ResolveEvent struct {
	Decision Decision
	Revision uint64
}

// ResolveHook receives resolution events.
type ResolveHook interface {
	OnResolve(ctx context.Context, event ResolveEvent)
}

// ResolveHookFunc wraps a function as a ResolveHook.
type ResolveHookFunc func(context.Context, ResolveEvent)

// OnResolve implements ResolveHook.
func (fn ResolveHookFunc) OnResolve(ctx context.Context, event ResolveEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}
