package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

func TestStaticCatalogNormalizesKeys(t *testing.T) {
	cat := NewStatic(map[string]CapabilityDefinition{
		" teleconsultNowEnabled ": {
			Label:  Message{Text: " Teleconsult now "},
			Parent: "teleconsultEnabled",
		},
		"billing": {Label: Message{Text: "not a capability"}},
	})

	def, ok := cat.Get("visits.teleconsult_now")
	if !ok {
		t.Fatalf("expected definition to be found")
	}
	if def.Key != tenant.CapabilityTeleconsultNow || def.Parent != tenant.CapabilityTeleconsult {
		t.Fatalf("unexpected normalized definition: %+v", def)
	}
	if def.Label.Text != "Teleconsult now" {
		t.Fatalf("unexpected label: %q", def.Label.Text)
	}
	if len(cat.List()) != 1 {
		t.Fatalf("expected unknown capability dropped, got %d", len(cat.List()))
	}
}

func TestPlainResolverPrefersText(t *testing.T) {
	resolver := PlainResolver{}
	value, err := resolver.Resolve(context.Background(), "en", Message{Key: "capability.queue", Text: "Queue"})
	if err != nil || value != "Queue" {
		t.Fatalf("expected text, got %q %v", value, err)
	}
	value, err = resolver.Resolve(context.Background(), "en", Message{Key: "capability.queue"})
	if err != nil || value != "capability.queue" {
		t.Fatalf("expected key, got %q %v", value, err)
	}
}

func TestDefaultCatalogCoversStoredSwitches(t *testing.T) {
	defs := Default().List()
	if len(defs) != len(tenant.KnownCapabilities())-1 {
		t.Fatalf("expected every capability except visits.any, got %d", len(defs))
	}
}

func TestPanelShowsStoredAndEffective(t *testing.T) {
	features := tenant.Features{Visits: tenant.VisitFeatures{TeleconsultNowEnabled: true}}
	toggles, err := Panel(context.Background(), Default(), features, nil, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var now *Toggle
	for i := range toggles {
		if toggles[i].Definition.Key == tenant.CapabilityTeleconsultNow {
			now = &toggles[i]
		}
	}
	if now == nil {
		t.Fatalf("expected teleconsult now toggle")
	}
	if !now.Stored || now.Effective {
		t.Fatalf("expected stored true and effective false, got %+v", now)
	}
	if now.Label != "Teleconsult now" {
		t.Fatalf("unexpected label %q", now.Label)
	}
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string, Message) (string, error) {
	return "", errors.New("missing translation")
}

func TestPanelPropagatesResolverErrors(t *testing.T) {
	if _, err := Panel(context.Background(), Default(), tenant.Features{}, failingResolver{}, "fil"); err == nil {
		t.Fatalf("expected resolver error")
	}
}
