package templates

import (
	"context"
	"testing"

	"github.com/flosch/pongo2/v6"

	"github.com/normanwashere/patient-portal-prototype-sub001/access"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/portals/doctor"
	"github.com/normanwashere/patient-portal-prototype-sub001/registry"
	"github.com/normanwashere/patient-portal-prototype-sub001/scope"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

func helpersFor(t *testing.T, reg *registry.Registry, opts ...HelperOption) map[string]any {
	t.Helper()
	resolver, err := doctor.NewResolver(reg, access.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return TemplateHelpers(reg, []access.Checker{resolver}, opts...)
}

func TestNavVisibleUsesTemplateRole(t *testing.T) {
	reg := registry.New(registry.WithLogger(logger.Nop()), registry.WithInitialActive("healthFirst"))
	helpers := helpersFor(t, reg)
	fn, ok := helpers["nav_visible"].(func(*pongo2.ExecutionContext, any, any) bool)
	if !ok {
		t.Fatalf("nav_visible helper not found")
	}
	execCtx := &pongo2.ExecutionContext{Public: pongo2.Context{TemplateRoleKey: "doctor"}}

	if fn(execCtx, "doctor", "teleconsult") {
		t.Fatalf("expected teleconsult hidden for healthFirst")
	}
	if !fn(execCtx, "doctor", "queue") {
		t.Fatalf("expected queue visible")
	}
	if fn(execCtx, "billing-portal", "queue") {
		t.Fatalf("expected unknown portal to fail closed")
	}
}

func TestRouteAllowedReadsRoleFromContext(t *testing.T) {
	reg := registry.New(registry.WithLogger(logger.Nop()))
	helpers := helpersFor(t, reg)
	fn, ok := helpers["route_allowed"].(func(*pongo2.ExecutionContext, any, any) bool)
	if !ok {
		t.Fatalf("route_allowed helper not found")
	}
	ctx := scope.WithRole(context.Background(), gate.RoleFrontDesk)
	execCtx := &pongo2.ExecutionContext{Public: pongo2.Context{TemplateContextKey: ctx}}

	if fn(execCtx, "doctor", "/doctor/encounter") {
		t.Fatalf("expected encounter denied for front desk")
	}
	if !fn(execCtx, "doctor", "/doctor/settings") {
		t.Fatalf("expected settings always allowed")
	}
	if fn(&pongo2.ExecutionContext{Public: pongo2.Context{}}, "doctor", "/doctor/settings") {
		t.Fatalf("expected missing role to fail closed")
	}
}

func TestCapabilitySnapshotPrecedence(t *testing.T) {
	reg := registry.New(registry.WithLogger(logger.Nop()))
	helpers := helpersFor(t, reg)
	fn, ok := helpers["capability"].(func(*pongo2.ExecutionContext, any) bool)
	if !ok {
		t.Fatalf("capability helper not found")
	}
	execCtx := &pongo2.ExecutionContext{
		Public: pongo2.Context{
			TemplateCapabilitiesKey: map[string]bool{"queue": false},
		},
	}
	if fn(execCtx, "queue") {
		t.Fatalf("expected snapshot value to win")
	}
	if !fn(execCtx, "teleconsultEnabled") {
		t.Fatalf("expected active tenant projection for aliases")
	}
}

func TestVisitModeAppliesParentFlag(t *testing.T) {
	reg := registry.New(registry.WithLogger(logger.Nop()), registry.WithInitialActive("healthFirst"))
	helpers := helpersFor(t, reg)
	fn, ok := helpers["visit_mode"].(func(*pongo2.ExecutionContext, any) bool)
	if !ok {
		t.Fatalf("visit_mode helper not found")
	}
	if fn(&pongo2.ExecutionContext{}, string(tenant.VisitModeNow)) {
		t.Fatalf("expected now mode unavailable while teleconsult is off")
	}
}

func TestTenantVarStructuredErrors(t *testing.T) {
	reg := registry.New(registry.WithLogger(logger.Nop()))
	helpers := helpersFor(t, reg, WithStructuredErrors(true))
	fn, ok := helpers["tenant_var"].(func(*pongo2.ExecutionContext, any) any)
	if !ok {
		t.Fatalf("tenant_var helper not found")
	}
	if got := fn(&pongo2.ExecutionContext{}, "textMuted"); got != "var(--color-text-muted)" {
		t.Fatalf("unexpected variable: %v", got)
	}
	out, ok := fn(&pongo2.ExecutionContext{}, "sparkle").(TemplateError)
	if !ok {
		t.Fatalf("expected structured error")
	}
	if out.Helper != "tenant_var" || out.TextCode == "" {
		t.Fatalf("unexpected template error: %+v", out)
	}
}
