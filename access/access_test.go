package access

import (
	"context"
	"errors"
	"testing"

	"github.com/normanwashere/patient-portal-prototype-sub001/cache"
	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

type clinicKey string

const (
	keyDashboard   clinicKey = "dashboard"
	keyProfile     clinicKey = "profile"
	keyQueue       clinicKey = "queue"
	keyTeleconsult clinicKey = "teleconsult"
	keyBilling     clinicKey = "billing"
)

var clinicKeys = []clinicKey{keyDashboard, keyProfile, keyQueue, keyTeleconsult, keyBilling}

func fullEntries() map[gate.Role][]clinicKey {
	entries := map[gate.Role][]clinicKey{}
	for _, role := range gate.Roles() {
		entries[role] = nil
	}
	entries[gate.RoleDoctor] = []clinicKey{keyDashboard, keyQueue, keyTeleconsult}
	entries[gate.RoleBillingStaff] = []clinicKey{keyDashboard, keyBilling}
	return entries
}

func testPortal(t *testing.T) *Portal[clinicKey] {
	t.Helper()
	table, err := NewTable("clinic", clinicKeys, fullEntries())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &Portal[clinicKey]{
		Name:          "clinic",
		Prefix:        "/clinic",
		Home:          "/clinic",
		Default:       keyDashboard,
		AlwaysAllowed: []clinicKey{keyDashboard, keyProfile},
		Table:         table,
		Predicates: map[clinicKey]tenant.Predicate{
			keyQueue:       tenant.Requires(tenant.CapabilityQueue),
			keyTeleconsult: tenant.Requires(tenant.CapabilityTeleconsult),
		},
	}
}

type stubSource struct {
	tenantID string
	features tenant.Features
	revision uint64
}

func (s *stubSource) ActiveFeatures() (string, tenant.Features, uint64) {
	return s.tenantID, s.features, s.revision
}

func TestNewTableRequiresEveryRole(t *testing.T) {
	entries := fullEntries()
	delete(entries, gate.RoleHR)
	_, err := NewTable("clinic", clinicKeys, entries)
	if !errors.Is(err, ferrors.ErrRoleTableIncomplete) {
		t.Fatalf("expected incomplete table error, got %v", err)
	}
}

func TestNewTableRejectsUnknownEntries(t *testing.T) {
	entries := fullEntries()
	entries[gate.RoleNurse] = []clinicKey{"radiology"}
	if _, err := NewTable("clinic", clinicKeys, entries); !errors.Is(err, ferrors.ErrModuleUnknown) {
		t.Fatalf("expected unknown module error, got %v", err)
	}

	entries = fullEntries()
	entries[gate.Role("janitor")] = nil
	if _, err := NewTable("clinic", clinicKeys, entries); !errors.Is(err, ferrors.ErrRoleUnknown) {
		t.Fatalf("expected unknown role error, got %v", err)
	}
}

func TestTableAllowedFailsClosed(t *testing.T) {
	table := MustTable("clinic", clinicKeys, fullEntries())
	if !table.Allowed(gate.RoleDoctor, keyQueue) {
		t.Fatalf("expected doctor queue access")
	}
	if table.Allowed(gate.RoleDoctor, "unknown") {
		t.Fatalf("expected unknown key to be denied")
	}
	if table.Allowed(gate.Role("ghost"), keyDashboard) {
		t.Fatalf("expected unknown role to be denied")
	}
	for _, role := range gate.Roles() {
		_ = table.Allowed(role, keyBilling)
	}
	if len(table.Roles()) != len(gate.Roles()) {
		t.Fatalf("expected table to cover every role")
	}
	if got := table.Modules(gate.RoleHR); len(got) != 0 {
		t.Fatalf("expected empty hr entry, got %v", got)
	}
}

func TestModuleKeyParsesFirstSegment(t *testing.T) {
	portal := testPortal(t)
	cases := map[string]clinicKey{
		"/clinic/queue":        keyQueue,
		"/clinic":              keyDashboard,
		"/clinic/":             keyDashboard,
		"/clinic/queue/123":    keyQueue,
		"/clinic/queue?tab=2":  keyQueue,
		"//clinic//billing//x": keyBilling,
		"/clinical/queue":      "clinical",
		"teleconsult/now":      keyTeleconsult,
		"":                     keyDashboard,
	}
	for path, want := range cases {
		if got := portal.ModuleKey(path); got != want {
			t.Fatalf("ModuleKey(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestRouteDecisionAlwaysAllowedOverridesTable(t *testing.T) {
	portal := testPortal(t)
	for _, role := range gate.Roles() {
		for _, key := range portal.AlwaysAllowed {
			decision := portal.RouteDecision(role, "/clinic/"+string(key))
			if !decision.Allowed || decision.Source != gate.SourceAlwaysAllowed {
				t.Fatalf("expected %s to reach %s, got %+v", role, key, decision)
			}
		}
	}
}

func TestRouteDecisionRedirectsHome(t *testing.T) {
	portal := testPortal(t)
	decision := portal.RouteDecision(gate.RoleBillingStaff, "/clinic/teleconsult/42")
	if decision.Allowed {
		t.Fatalf("expected denial")
	}
	if !decision.Redirect() || decision.RedirectTo != "/clinic" {
		t.Fatalf("expected redirect to portal home, got %+v", decision)
	}
	if decision.Module != string(keyTeleconsult) || !decision.Known {
		t.Fatalf("unexpected module trace: %+v", decision)
	}
}

func TestNavDecisionStates(t *testing.T) {
	portal := testPortal(t)
	on := tenant.Features{Queue: true, Visits: tenant.VisitFeatures{TeleconsultEnabled: true}}
	off := tenant.Features{}

	cases := []struct {
		name     string
		role     gate.Role
		key      clinicKey
		features tenant.Features
		want     gate.NavState
	}{
		{name: "feature hides allowed role", role: gate.RoleDoctor, key: keyTeleconsult, features: off, want: gate.NavHidden},
		{name: "feature and role allow", role: gate.RoleDoctor, key: keyTeleconsult, features: on, want: gate.NavAllowed},
		{name: "feature on role blocked", role: gate.RoleBillingStaff, key: keyQueue, features: on, want: gate.NavBlocked},
		{name: "feature hides blocked role", role: gate.RoleBillingStaff, key: keyQueue, features: off, want: gate.NavHidden},
		{name: "always allowed without predicate", role: gate.RoleHR, key: keyProfile, features: off, want: gate.NavAllowed},
		{name: "unknown key", role: gate.RoleSuperAdmin, key: "ghost", features: on, want: gate.NavBlocked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := portal.NavDecision(tc.role, tc.key, portal.Predicate(tc.key), "t1", tc.features)
			if decision.State != tc.want {
				t.Fatalf("state = %s, want %s (%+v)", decision.State, tc.want, decision)
			}
			if decision.Render() != (tc.want == gate.NavAllowed) {
				t.Fatalf("render mismatch for %s", decision.State)
			}
		})
	}
}

func TestResolverReevaluatesOnFeatureChange(t *testing.T) {
	ctx := context.Background()
	source := &stubSource{tenantID: "healthFirst", revision: 1}
	resolver, err := NewResolver(testPortal(t), source, WithCache(cache.NewMemoryCache()), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver.Visible(ctx, gate.RoleDoctor, keyTeleconsult) {
		t.Fatalf("expected teleconsult hidden")
	}
	decision := resolver.Nav(ctx, gate.RoleDoctor, keyTeleconsult, tenant.Requires(tenant.CapabilityTeleconsult))
	if !decision.CacheHit {
		t.Fatalf("expected second read at same revision to hit cache")
	}

	source.tenantID = "metroGeneral"
	source.features.Visits.TeleconsultEnabled = true
	source.revision = 2
	if !resolver.Visible(ctx, gate.RoleDoctor, keyTeleconsult) {
		t.Fatalf("expected teleconsult visible after tenant change")
	}
}

func TestSharedCacheKeepsResolversApart(t *testing.T) {
	ctx := context.Background()
	shared := cache.NewMemoryCache()
	open := &stubSource{tenantID: "metroGeneral", revision: 1}
	open.features.Visits.TeleconsultEnabled = true
	closed := &stubSource{tenantID: "metroGeneral", revision: 1}

	first, err := NewResolver(testPortal(t), open, WithCache(shared), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewResolver(testPortal(t), closed, WithCache(shared), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	strict, err := NewResolver(testPortal(t), closed, WithCache(shared), WithFeatureEnforcement(true), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.Visible(ctx, gate.RoleDoctor, keyTeleconsult) {
		t.Fatalf("expected teleconsult visible for the first registry")
	}
	if second.Visible(ctx, gate.RoleDoctor, keyTeleconsult) {
		t.Fatalf("expected the second registry's features, not a shared cache entry")
	}
	if !second.RouteAllowed(ctx, gate.RoleDoctor, "/clinic/teleconsult") {
		t.Fatalf("expected lenient route allowed")
	}
	if strict.RouteAllowed(ctx, gate.RoleDoctor, "/clinic/teleconsult") {
		t.Fatalf("expected enforcing resolver not to reuse the lenient decision")
	}
}

func TestResolverFeatureEnforcementIsOptIn(t *testing.T) {
	ctx := context.Background()
	source := &stubSource{tenantID: "healthFirst"}
	lenient, err := NewResolver(testPortal(t), source, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lenient.RouteAllowed(ctx, gate.RoleDoctor, "/clinic/teleconsult") {
		t.Fatalf("expected feature-hidden route to stay reachable by default")
	}

	strict, err := NewResolver(testPortal(t), source, WithFeatureEnforcement(true), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decision := strict.Route(ctx, gate.RoleDoctor, "/clinic/teleconsult")
	if decision.Allowed || decision.Source != gate.SourceFeature || decision.RedirectTo != "/clinic" {
		t.Fatalf("expected feature enforcement redirect, got %+v", decision)
	}
}

func TestResolverEmitsHooks(t *testing.T) {
	ctx := context.Background()
	var events []gate.ResolveEvent
	hook := gate.ResolveHookFunc(func(_ context.Context, event gate.ResolveEvent) {
		events = append(events, event)
	})
	resolver, err := NewResolver(testPortal(t), &stubSource{revision: 7}, WithResolveHook(hook), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolver.Route(ctx, gate.RoleNurse, "/clinic/billing")
	if len(events) != 1 || events[0].Revision != 7 || events[0].Decision.Allowed {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestNewResolverValidatesPortal(t *testing.T) {
	portal := testPortal(t)
	portal.AlwaysAllowed = append(portal.AlwaysAllowed, "ghost")
	if _, err := NewResolver(portal, &stubSource{}); !errors.Is(err, ferrors.ErrModuleUnknown) {
		t.Fatalf("expected unknown module error, got %v", err)
	}
	if _, err := NewResolver(testPortal(t), nil); !errors.Is(err, ferrors.ErrResolverRequired) {
		t.Fatalf("expected resolver required error, got %v", err)
	}
}
