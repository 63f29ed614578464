// Package promadapter exports access decisions and tenant updates as
// Prometheus metrics.
package promadapter

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/normanwashere/patient-portal-prototype-sub001/activity"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "portalgate"

// Hook counts decisions and tenant updates.
type Hook struct {
	Decisions      *prometheus.CounterVec
	CacheHits      *prometheus.CounterVec
	Updates        *prometheus.CounterVec
	Revision       prometheus.Gauge
	ActiveTenant   *prometheus.GaugeVec
	ActiveSwitches prometheus.Counter
}

type options struct {
	registerer prometheus.Registerer
	namespace  string
}

// Option configures the metrics hook.
type Option func(*options)

// WithRegisterer sets where metrics are registered. A nil registerer
// leaves them unregistered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.registerer = reg
	}
}

// WithNamespace overrides the metric namespace.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		if o == nil {
			return
		}
		o.namespace = namespace
	}
}

// New registers the metrics and returns the hook.
func New(opts ...Option) *Hook {
	cfg := options{registerer: prometheus.DefaultRegisterer, namespace: DefaultNamespace}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	factory := promauto.With(cfg.registerer)
	return &Hook{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "decisions_total",
			Help:      "Access decisions by portal, kind, outcome and deciding layer",
		}, []string{"portal", "kind", "outcome", "source"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "decision_cache_hits_total",
			Help:      "Access decisions served from the decision cache",
		}, []string{"portal", "kind"}),
		Updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "tenant_updates_total",
			Help:      "Tenant registry mutations by action",
		}, []string{"action"}),
		Revision: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "tenant_revision",
			Help:      "Current tenant registry revision",
		}),
		ActiveTenant: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "active_tenant",
			Help:      "Set to 1 for the tenant currently in effect",
		}, []string{"tenant_id"}),
		ActiveSwitches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "active_tenant_switches_total",
			Help:      "Times the tenant in effect changed",
		}),
	}
}

// Outcome labels a decision: allowed or denied for routes, the navigation
// state for nav entries.
func Outcome(decision gate.Decision) string {
	if decision.Kind == gate.KindNav && decision.State != "" {
		return string(decision.State)
	}
	if decision.Allowed {
		return "allowed"
	}
	return "denied"
}

// OnResolve implements gate.ResolveHook.
func (h *Hook) OnResolve(_ context.Context, event gate.ResolveEvent) {
	if h == nil {
		return
	}
	decision := event.Decision
	if decision.CacheHit {
		h.CacheHits.WithLabelValues(decision.Portal, string(decision.Kind)).Inc()
	}
	h.Decisions.WithLabelValues(decision.Portal, string(decision.Kind), Outcome(decision), string(decision.Source)).Inc()
}

// OnUpdate implements activity.Hook.
func (h *Hook) OnUpdate(_ context.Context, event activity.UpdateEvent) {
	if h == nil {
		return
	}
	h.Updates.WithLabelValues(string(event.Action)).Inc()
	h.Revision.Set(float64(event.Revision))
	if event.ActiveID != event.PreviousActiveID {
		h.ActiveSwitches.Inc()
	}
	if event.ActiveID != "" {
		h.ActiveTenant.Reset()
		h.ActiveTenant.WithLabelValues(event.ActiveID).Set(1)
	}
}

var _ gate.ResolveHook = (*Hook)(nil)
var _ activity.Hook = (*Hook)(nil)
