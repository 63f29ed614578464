package goauthadapter

import (
	"context"
	"testing"

	"github.com/goliatone/go-auth"

	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/scope"
)

func fixedActor(actor *auth.ActorContext) ActorExtractor {
	return func(context.Context) (*auth.ActorContext, bool) {
		return actor, actor != nil
	}
}

func TestRoleFromActor(t *testing.T) {
	resolver := NewRoleResolver(WithActorExtractor(fixedActor(&auth.ActorContext{
		ActorID: "u-1",
		Role:    "Lab-Tech",
	})))
	role, ok := resolver.Role(context.Background())
	if !ok || role != gate.RoleLabTech {
		t.Fatalf("expected lab_tech, got %q (%v)", role, ok)
	}
}

func TestRoleUnknownFailsClosed(t *testing.T) {
	resolver := NewRoleResolver(WithActorExtractor(fixedActor(&auth.ActorContext{Role: "owner"})))
	if _, ok := resolver.Role(context.Background()); ok {
		t.Fatalf("expected unknown role to be rejected")
	}

	resolver = NewRoleResolver(
		WithActorExtractor(fixedActor(&auth.ActorContext{Role: "owner"})),
		WithRoleAlias("owner", gate.RoleSuperAdmin),
	)
	if role, ok := resolver.Role(context.Background()); !ok || role != gate.RoleSuperAdmin {
		t.Fatalf("expected alias to map owner, got %q", role)
	}

	empty := NewRoleResolver(WithActorExtractor(fixedActor(nil)))
	if _, ok := empty.Role(context.Background()); ok {
		t.Fatalf("expected missing actor to be rejected")
	}
}

func TestScopeCarriesRoleTenantAndActor(t *testing.T) {
	resolver := NewRoleResolver(WithActorExtractor(fixedActor(&auth.ActorContext{
		Subject:  "svc",
		Role:     "doctor",
		TenantID: "primeCare",
	})))
	ctx := resolver.Scope(context.Background())

	if role, ok := scope.Role(ctx); !ok || role != gate.RoleDoctor {
		t.Fatalf("expected doctor role in scope, got %q", role)
	}
	if got := scope.TenantID(ctx); got != "primeCare" {
		t.Fatalf("expected tenant in scope, got %q", got)
	}
	if actor := scope.Actor(ctx); actor.ID != "svc" || actor.Name != "doctor" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}
