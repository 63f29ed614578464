package bunadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/registry"
	"github.com/normanwashere/patient-portal-prototype-sub001/store"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

func TestRecordConversionDoesNotAlias(t *testing.T) {
	cfg := tenant.Config{
		ID:      "cityCare",
		Name:    "City Care",
		LogoURL: "/logos/city.svg",
		Colors:  tenant.Colors{Primary: "#123456"},
		Features: tenant.Features{
			Queue:      true,
			Admissions: tenant.Bool(true),
		},
	}
	record := recordFromConfig(cfg)
	*cfg.Features.Admissions = false

	back := configFromRecord(record)
	if back.ID != "cityCare" || back.LogoURL != "/logos/city.svg" || back.Colors.Primary != "#123456" {
		t.Fatalf("unexpected config: %+v", back)
	}
	if !back.Features.HasAdmissions() {
		t.Fatalf("expected record to keep its own copy of optional flags")
	}
}

func TestNilDBReturnsStoreRequired(t *testing.T) {
	ctx := context.Background()
	adapter := NewStore(nil, WithTable("tenants_v2"))

	if _, err := adapter.List(ctx); !errors.Is(err, ferrors.ErrStoreRequired) {
		t.Fatalf("expected store required, got %v", err)
	}
	if err := adapter.Save(ctx, tenant.Config{ID: "x"}); !errors.Is(err, ErrDBRequired) {
		t.Fatalf("expected db required, got %v", err)
	}
	if _, _, err := adapter.Features(ctx, "x"); !errors.Is(err, ErrDBRequired) {
		t.Fatalf("expected db required, got %v", err)
	}
	rich, ok := ferrors.As(adapter.Delete(ctx, "x"))
	if !ok || rich.Metadata[ferrors.MetaTable] != "tenants_v2" {
		t.Fatalf("expected table metadata, got %+v", rich)
	}
}

func TestUpdatedByPrefersID(t *testing.T) {
	cases := map[string]gate.ActorRef{
		"u-1":    {ID: "u-1", Name: "Ana"},
		"Ana":    {Name: "Ana", Type: "user"},
		"system": {Type: "system"},
		"":       {},
	}
	for want, actor := range cases {
		if got := defaultUpdatedBy(actor); got != want {
			t.Fatalf("defaultUpdatedBy(%+v) = %q, want %q", actor, got, want)
		}
	}
}

func TestMirrorReportsWriteFailures(t *testing.T) {
	var failures []error
	mirror := store.NewMirror(NewStore(nil),
		store.WithMirrorLogger(logger.Nop()),
		store.WithMirrorErrorHandler(func(_ context.Context, err error) {
			failures = append(failures, err)
		}),
	)
	reg := registry.New(registry.WithLogger(logger.Nop()), registry.WithActivityHook(mirror))
	err := reg.AddOrReplace(context.Background(), tenant.Config{
		ID:     "cityCare",
		Name:   "City Care",
		Colors: tenant.Colors{Primary: "#000"},
	}, gate.ActorRef{ID: "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 1 || !errors.Is(failures[0], ferrors.ErrStoreRequired) {
		t.Fatalf("expected one store required failure, got %v", failures)
	}
}
