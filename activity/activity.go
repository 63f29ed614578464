package activity

import (
	"context"

	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// Action describes a tenant registry mutation.
type Action string

const (
	ActionAdd      Action = "add"
	ActionReplace  Action = "replace"
	ActionRemove   Action = "remove"
	ActionActivate Action = "activate"
	ActionFeatures Action = "features"
	ActionLoad     Action = "load"
)

// UpdateEvent captures a registry mutation. Active is the tenant the active
// selector resolves to after the mutation; ActiveChanged is set when that
// resolution points at a different tenant or the active config was replaced.
type UpdateEvent struct {
	TenantID         string
	Action           Action
	Actor            gate.ActorRef
	Config           *tenant.Config
	PreviousActiveID string
	ActiveID         string
	Active           tenant.Config
	ActiveChanged    bool
	Revision         uint64
}

// Hook receives update events.
type Hook interface {
	OnUpdate(ctx context.Context, event UpdateEvent)
}

// HookFunc wraps a function as a Hook.
type HookFunc func(context.Context, UpdateEvent)

// OnUpdate implements Hook.
func (fn HookFunc) OnUpdate(ctx context.Context, event UpdateEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}

// NoopHook ignores updates.
type NoopHook struct{}

// OnUpdate implements Hook.
func (NoopHook) OnUpdate(context.Context, UpdateEvent) {}
