// Package oteladapter records access decisions and tenant updates on
// OpenTelemetry spans.
package oteladapter

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/normanwashere/patient-portal-prototype-sub001/activity"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
)

const instrumentationName = "portalgate"

const (
	EventResolve      = "portalgate.resolve"
	SpanTenantUpdate  = "portalgate.tenant_update"
	AttrPortal        = "portalgate.portal"
	AttrKind          = "portalgate.decision.kind"
	AttrRole          = "portalgate.role"
	AttrModule        = "portalgate.module"
	AttrAllowed       = "portalgate.allowed"
	AttrSource        = "portalgate.decision.source"
	AttrNavState      = "portalgate.nav_state"
	AttrRedirectTo    = "portalgate.redirect_to"
	AttrCacheHit      = "portalgate.cache_hit"
	AttrTenantID      = "portalgate.tenant_id"
	AttrRevision      = "portalgate.revision"
	AttrAction        = "portalgate.tenant.action"
	AttrActiveID      = "portalgate.tenant.active_id"
	AttrActiveChanged = "portalgate.tenant.active_changed"
)

// Hook adds a span event per decision to the span already in ctx and
// opens a short span per tenant update.
type Hook struct {
	tracer trace.Tracer
}

// Option configures the hook.
type Option func(*Hook)

// WithTracer injects a tracer; the global provider is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(h *Hook) {
		if h == nil {
			return
		}
		h.tracer = tracer
	}
}

// New builds a tracing hook.
func New(opts ...Option) *Hook {
	h := &Hook{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(instrumentationName)
	}
	return h
}

// OnResolve implements gate.ResolveHook. Decisions outside a recording span
// are dropped.
func (h *Hook) OnResolve(ctx context.Context, event gate.ResolveEvent) {
	if h == nil || ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	decision := event.Decision
	attrs := []attribute.KeyValue{
		attribute.String(AttrPortal, decision.Portal),
		attribute.String(AttrKind, string(decision.Kind)),
		attribute.String(AttrRole, string(decision.Role)),
		attribute.String(AttrModule, decision.Module),
		attribute.Bool(AttrAllowed, decision.Allowed),
		attribute.String(AttrSource, string(decision.Source)),
		attribute.Bool(AttrCacheHit, decision.CacheHit),
		attribute.String(AttrTenantID, decision.Feature.TenantID),
		attribute.Int64(AttrRevision, int64(event.Revision)),
	}
	if decision.Kind == gate.KindNav {
		attrs = append(attrs, attribute.String(AttrNavState, string(decision.State)))
	}
	if decision.RedirectTo != "" {
		attrs = append(attrs, attribute.String(AttrRedirectTo, decision.RedirectTo))
	}
	span.AddEvent(EventResolve, trace.WithAttributes(attrs...))
}

// OnUpdate implements activity.Hook.
func (h *Hook) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if h == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, span := h.tracer.Start(ctx, SpanTenantUpdate, trace.WithAttributes(
		attribute.String(AttrAction, string(event.Action)),
		attribute.String(AttrTenantID, event.TenantID),
		attribute.String(AttrActiveID, event.ActiveID),
		attribute.Bool(AttrActiveChanged, event.ActiveChanged),
		attribute.Int64(AttrRevision, int64(event.Revision)),
	))
	span.End()
}

var _ gate.ResolveHook = (*Hook)(nil)
var _ activity.Hook = (*Hook)(nil)
