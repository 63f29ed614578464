package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/normanwashere/patient-portal-prototype-sub001/access"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/nav"
	"github.com/normanwashere/patient-portal-prototype-sub001/registry"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

func newResolver(t *testing.T, reg *registry.Registry) *Resolver {
	t.Helper()
	resolver, err := NewResolver(reg, access.WithLogger(logger.Nop()))
	require.NoError(t, err)
	return resolver
}

func TestTableCoversEveryRole(t *testing.T) {
	require.ElementsMatch(t, gate.Roles(), Table().Roles())
	for _, role := range gate.Roles() {
		require.False(t, IsModuleAllowed(role, "encounter"))
	}
	require.True(t, IsModuleAllowed(gate.RoleSuperAdmin, Branches))
	require.False(t, IsModuleAllowed(gate.RoleAdmin, Nursing))
}

func TestRouteToModuleKey(t *testing.T) {
	require.Equal(t, Queue, RouteToModuleKey("/provider/queue"))
	require.Equal(t, Dashboard, RouteToModuleKey("/provider"))
	require.Equal(t, Queue, RouteToModuleKey("/provider/queue/123"))
}

func TestAlwaysAllowedNeverBlocked(t *testing.T) {
	resolver := newResolver(t, registry.New(registry.WithLogger(logger.Nop())))
	for _, role := range gate.Roles() {
		for _, key := range AlwaysAllowed() {
			require.True(t, resolver.RouteAllowed(context.Background(), role, Prefix+"/"+string(key)), "role %s key %s", role, key)
		}
	}
}

func TestDeniedRouteRedirectsToProviderHome(t *testing.T) {
	resolver := newResolver(t, registry.New(registry.WithLogger(logger.Nop())))
	decision := resolver.Route(context.Background(), gate.RolePharmacist, "/provider/billing")
	require.False(t, decision.Allowed)
	require.True(t, decision.Redirect())
	require.Equal(t, Home, decision.RedirectTo)
}

func TestBranchesFollowMultiLocation(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(registry.WithLogger(logger.Nop()), registry.WithInitialActive("healthFirst"))
	resolver := newResolver(t, reg)

	require.False(t, resolver.Visible(ctx, gate.RoleAdmin, Branches))
	reg.MutateFeatures(ctx, "healthFirst", func(f *tenant.Features) {
		f.MultiLocation = tenant.Bool(true)
	}, gate.ActorRef{ID: "admin"})
	require.True(t, resolver.Visible(ctx, gate.RoleAdmin, Branches))
}

func TestComposeLabTechNavigation(t *testing.T) {
	resolver := newResolver(t, registry.New(registry.WithLogger(logger.Nop())))
	sections := nav.Compose[ModuleKey](context.Background(), resolver, gate.RoleLabTech, Sections(), nav.Badges{"lab.pending": 5, "queue.waiting": 1})

	var keys []ModuleKey
	total := 0
	for _, section := range sections {
		total += section.BadgeTotal
		for _, item := range section.Items {
			keys = append(keys, item.Key)
		}
	}
	require.Equal(t, []ModuleKey{Dashboard, Queue, Laboratory, Profile}, keys)
	require.Equal(t, 6, total)
}
