package configadapter

import (
	"testing"

	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

func TestCatalogFromNestedMap(t *testing.T) {
	cat := NewCatalog(map[string]any{
		"visits": map[string]any{
			"teleconsult": map[string]any{
				"label":       "Teleconsult",
				"description": "Video consultations",
				"group":       "visits",
			},
			"teleconsult_now": map[string]any{
				"description": map[string]any{
					"key":  "capability.visits.teleconsult_now",
					"text": "On-demand video visits",
					"args": map[string]any{"wait": "15m"},
				},
				"parent": "teleconsultEnabled",
			},
		},
		"queue":   "Walk-in queue",
		"billing": "Not a tenant capability",
	})

	def, ok := cat.Get(tenant.CapabilityTeleconsult)
	if !ok {
		t.Fatalf("expected visits.teleconsult to exist")
	}
	if def.Label.Text != "Teleconsult" || def.Description.Text != "Video consultations" || def.Group != "visits" {
		t.Fatalf("unexpected definition: %+v", def)
	}

	def, ok = cat.Get(tenant.CapabilityTeleconsultNow)
	if !ok {
		t.Fatalf("expected visits.teleconsult_now to exist")
	}
	if def.Description.Key != "capability.visits.teleconsult_now" {
		t.Fatalf("unexpected description key: %q", def.Description.Key)
	}
	if def.Description.Args == nil || def.Description.Args["wait"] != "15m" {
		t.Fatalf("expected args to be set")
	}
	if def.Parent != tenant.CapabilityTeleconsult {
		t.Fatalf("expected parent alias to normalize, got %q", def.Parent)
	}

	def, ok = cat.Get(tenant.CapabilityQueue)
	if !ok || def.Description.Text != "Walk-in queue" {
		t.Fatalf("unexpected queue definition: %+v", def)
	}
	if _, ok := cat.Get("billing"); ok {
		t.Fatalf("expected unknown capability to be dropped")
	}
	if got := len(cat.List()); got != 3 {
		t.Fatalf("expected 3 definitions, got %d", got)
	}
}

func TestCatalogDescriptionKeyFields(t *testing.T) {
	cat := NewCatalog(map[string]any{
		"visits/clinic": map[string]any{
			"description_key":  "capability.visits.clinic",
			"description_text": "In-person visits",
		},
	}, WithDelimiter("/"))

	def, ok := cat.Get(tenant.CapabilityClinicVisit)
	if !ok {
		t.Fatalf("expected visits.clinic to exist")
	}
	if def.Description.Key != "capability.visits.clinic" {
		t.Fatalf("unexpected description key: %q", def.Description.Key)
	}
	if def.Description.Text != "In-person visits" {
		t.Fatalf("unexpected description text: %q", def.Description.Text)
	}
}
