package gologgeradapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-logger/glog"

	"github.com/normanwashere/patient-portal-prototype-sub001/activity"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
)

// Hook logs access decisions and tenant updates using go-logger.
type Hook struct {
	logger         glog.Logger
	resolveLevel   string
	updateLevel    string
	resolveMessage string
	updateMessage  string
}

// Option customizes the logger hook.
type Option func(*Hook)

// New builds a logging hook for resolve/update events.
func New(logger glog.Logger, opts ...Option) *Hook {
	hook := &Hook{
		logger:         logger,
		resolveLevel:   "debug",
		updateLevel:    "info",
		resolveMessage: "portalgate.resolve",
		updateMessage:  "portalgate.tenant_update",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hook)
		}
	}
	return hook
}

// WithResolveLevel sets the log level for resolve events.
func WithResolveLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.resolveLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithUpdateLevel sets the log level for update events.
func WithUpdateLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithResolveMessage overrides the resolve log message.
func WithResolveMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.resolveMessage = message
	}
}

// WithUpdateMessage overrides the update log message.
func WithUpdateMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateMessage = message
	}
}

// OnResolve implements gate.ResolveHook.
func (h *Hook) OnResolve(ctx context.Context, event gate.ResolveEvent) {
	if h == nil || h.logger == nil {
		return
	}
	decision := event.Decision
	fields := map[string]any{
		"portal":           decision.Portal,
		"decision_kind":    decision.Kind,
		"role":             decision.Role,
		"module_key":       decision.Module,
		"allowed":          decision.Allowed,
		"decision_source":  decision.Source,
		"cache_hit":        decision.CacheHit,
		"tenant_id":        decision.Feature.TenantID,
		"tenant_revision":  event.Revision,
		"feature_declared": decision.Feature.Declared,
		"feature_value":    decision.Feature.Value,
	}
	if decision.Kind == gate.KindNav {
		fields["nav_state"] = decision.State
	}
	if decision.Path != "" {
		fields["path"] = decision.Path
	}
	if decision.RedirectTo != "" {
		fields["redirect_to"] = decision.RedirectTo
	}
	h.log(ctx, h.resolveLevel, h.resolveMessage, fields)
}

// OnUpdate implements activity.Hook.
func (h *Hook) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if h == nil || h.logger == nil {
		return
	}
	fields := map[string]any{
		"tenant_id":          event.TenantID,
		"tenant_action":      event.Action,
		"tenant_revision":    event.Revision,
		"active_tenant_id":   event.ActiveID,
		"previous_tenant_id": event.PreviousActiveID,
		"active_changed":     event.ActiveChanged,
		"actor_id":           event.Actor.ID,
		"actor_type":         event.Actor.Type,
		"actor_name":         event.Actor.Name,
	}
	h.log(ctx, h.updateLevel, h.updateMessage, fields)
}

func (h *Hook) log(ctx context.Context, level string, message string, fields map[string]any) {
	logger := h.logger
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(glog.FieldsLogger); ok && len(fields) > 0 {
		logger = fieldsLogger.WithFields(fields)
	}
	switch level {
	case "trace":
		logger.Trace(message)
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error", "fatal":
		// Fatal would exit the process from inside a hook.
		logger.Error(message)
	default:
		logger.Info(message)
	}
}

var _ gate.ResolveHook = (*Hook)(nil)
var _ activity.Hook = (*Hook)(nil)
