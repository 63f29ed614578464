package scope

import (
	"context"
	"strings"

	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
)

type contextKey string

const (
	tenantIDKey contextKey = "portalgate.tenant_id"
	roleKey     contextKey = "portalgate.role"
	actorKey    contextKey = "portalgate.actor"
)

// MetadataTenantID is the scope metadata key carrying a tenant id.
const MetadataTenantID = "tenant_id"

// WithTenantID stores a tenant identifier in context. Blank values are ignored.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return ctx
	}
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// ClearTenantID removes the tenant identifier from context.
func ClearTenantID(ctx context.Context) context.Context {
	return context.WithValue(ctx, tenantIDKey, "")
}

// TenantID extracts the tenant identifier from context.
func TenantID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	return toString(ctx.Value(tenantIDKey))
}

// WithRole stores the session staff role. Unknown roles are ignored.
func WithRole(ctx context.Context, role gate.Role) context.Context {
	if !role.Valid() {
		return ctx
	}
	return context.WithValue(ctx, roleKey, role)
}

// ClearRole removes the staff role from context.
func ClearRole(ctx context.Context) context.Context {
	return context.WithValue(ctx, roleKey, gate.Role(""))
}

// Role extracts the staff role from context.
func Role(ctx context.Context) (gate.Role, bool) {
	if ctx == nil {
		return "", false
	}
	role, ok := ctx.Value(roleKey).(gate.Role)
	if !ok || !role.Valid() {
		return "", false
	}
	return role, true
}

// WithActor stores the acting identity used for registry mutations.
func WithActor(ctx context.Context, actor gate.ActorRef) context.Context {
	if strings.TrimSpace(actor.ID) == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey, actor)
}

// Actor extracts the acting identity from context.
func Actor(ctx context.Context) gate.ActorRef {
	if ctx == nil {
		return gate.ActorRef{}
	}
	actor, _ := ctx.Value(actorKey).(gate.ActorRef)
	return actor
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
