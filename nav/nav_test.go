package nav

import (
	"context"
	"testing"

	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

type stubResolver struct {
	features tenant.Features
	allowed  map[string]bool
}

func (s stubResolver) Nav(_ context.Context, role gate.Role, key string, pred tenant.Predicate) gate.Decision {
	decision := gate.Decision{Kind: gate.KindNav, Role: role, Module: key}
	switch {
	case pred.Declared() && !pred.Eval(s.features):
		decision.State = gate.NavHidden
	case s.allowed[key]:
		decision.Allowed = true
		decision.State = gate.NavAllowed
	default:
		decision.State = gate.NavBlocked
	}
	return decision
}

func sections() []Section[string] {
	return []Section[string]{
		{
			Title: "Clinical",
			Items: []Item[string]{
				{Key: "queue", Label: "Queue", Predicate: tenant.Requires(tenant.CapabilityQueue), BadgeKey: "queue.waiting"},
				{Key: "teleconsult", Label: "Teleconsult", Predicate: tenant.Requires(tenant.CapabilityTeleconsult)},
				{Key: "messages", Label: "Messages", BadgeKey: "messages.unread"},
			},
		},
		{
			Title: "Admin",
			Items: []Item[string]{
				{Key: "billing", Label: "Billing"},
			},
		},
	}
}

func TestComposeFiltersAndCountsBadges(t *testing.T) {
	resolver := stubResolver{
		features: tenant.Features{Queue: true},
		allowed:  map[string]bool{"queue": true, "teleconsult": true, "messages": true},
	}
	badges := Badges{"queue.waiting": 4, "messages.unread": 2}

	out := Compose[string](context.Background(), resolver, gate.RoleDoctor, sections(), badges)
	if len(out) != 1 {
		t.Fatalf("expected empty admin section dropped, got %d sections", len(out))
	}
	clinical := out[0]
	if len(clinical.Items) != 2 {
		t.Fatalf("expected queue and messages, got %+v", clinical.Items)
	}
	if clinical.Items[0].Key != "queue" || clinical.Items[0].Badge != 4 || !clinical.Items[0].HasBadge {
		t.Fatalf("unexpected queue item: %+v", clinical.Items[0])
	}
	if clinical.BadgeTotal != 6 {
		t.Fatalf("expected badge total 6, got %d", clinical.BadgeTotal)
	}
}

func TestPredicatesAndKeys(t *testing.T) {
	preds := Predicates(sections())
	if len(preds) != 2 {
		t.Fatalf("expected two declared predicates, got %d", len(preds))
	}
	if preds["teleconsult"].String() != string(tenant.CapabilityTeleconsult) {
		t.Fatalf("unexpected teleconsult predicate: %s", preds["teleconsult"])
	}
	keys := Keys(sections())
	if len(keys) != 4 || keys[3] != "billing" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
