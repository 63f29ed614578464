package bunadapter

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/scope"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

func newSQLiteDB(t *testing.T, table string) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	create := db.NewCreateTable().Model((*TenantRecord)(nil))
	if table != DefaultTable {
		create = create.ModelTableExpr("?", bun.Ident(table))
	}
	if _, err := create.Exec(context.Background()); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func steppingClock() func() time.Time {
	current := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func sqliteClinic(id, name string) tenant.Config {
	return tenant.Config{
		ID:      id,
		Name:    name,
		Tagline: "Open late",
		Colors:  tenant.Colors{Primary: "#123456", Border: "#abcdef"},
		Features: tenant.Features{
			Queue:      true,
			Admissions: tenant.Bool(false),
			Visits:     tenant.VisitFeatures{TeleconsultEnabled: true, TeleconsultNowEnabled: true},
		},
	}
}

func TestSQLiteSaveUpsertsAndLists(t *testing.T) {
	ctx := scope.WithActor(context.Background(), gate.ActorRef{ID: "admin-1"})
	db := newSQLiteDB(t, DefaultTable)
	adapter := NewStore(db, WithNowFunc(steppingClock()))

	if err := adapter.Save(ctx, sqliteClinic("east", "East Clinic")); err != nil {
		t.Fatalf("save east: %v", err)
	}
	if err := adapter.Save(ctx, sqliteClinic("west", "West Clinic")); err != nil {
		t.Fatalf("save west: %v", err)
	}
	if err := adapter.Save(ctx, sqliteClinic("east", "East Clinic Renamed")); err != nil {
		t.Fatalf("upsert east: %v", err)
	}

	list, err := adapter.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "east" || list[1].ID != "west" {
		t.Fatalf("expected east then west in creation order, got %+v", list)
	}
	east := list[0]
	if east.Name != "East Clinic Renamed" || east.Colors.Border != "#abcdef" {
		t.Fatalf("expected upserted row, got %+v", east)
	}
	if !east.Features.Queue || east.Features.Admissions == nil || *east.Features.Admissions {
		t.Fatalf("expected features to round trip, got %+v", east.Features)
	}
	if east.Features.CDSS != nil || !east.Features.Visits.TeleconsultNowEnabled {
		t.Fatalf("expected absent optional flags to stay absent, got %+v", east.Features)
	}

	var updatedBy string
	if err := db.NewSelect().Model((*TenantRecord)(nil)).Column("updated_by").Where("id = ?", "east").Scan(ctx, &updatedBy); err != nil {
		t.Fatalf("read updated_by: %v", err)
	}
	if updatedBy != "admin-1" {
		t.Fatalf("expected actor recorded, got %q", updatedBy)
	}
}

func TestSQLiteFeaturesAndDelete(t *testing.T) {
	ctx := context.Background()
	adapter := NewStore(newSQLiteDB(t, DefaultTable))

	if err := adapter.Save(ctx, sqliteClinic("east", "East Clinic")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := adapter.SaveFeatures(ctx, "east", tenant.Features{SSO: true, CDSS: tenant.Bool(true)}); err != nil {
		t.Fatalf("save features: %v", err)
	}
	features, ok, err := adapter.Features(ctx, "east")
	if err != nil || !ok {
		t.Fatalf("expected features, ok=%v err=%v", ok, err)
	}
	if !features.SSO || features.Queue || !features.HasCDSS() {
		t.Fatalf("expected features replaced wholesale, got %+v", features)
	}

	if err := adapter.SaveFeatures(ctx, "ghost", tenant.Features{SSO: true}); err != nil {
		t.Fatalf("expected unknown id to update nothing, got %v", err)
	}
	if _, ok, err := adapter.Features(ctx, "ghost"); err != nil || ok {
		t.Fatalf("expected missing row to report false, ok=%v err=%v", ok, err)
	}

	if err := adapter.Delete(ctx, "east"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := adapter.Delete(ctx, "east"); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}
	list, err := adapter.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty table, got %+v err=%v", list, err)
	}
}

func TestSQLiteCustomTable(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t, "tenants_v2")
	adapter := NewStore(db, WithTable("tenants_v2"))

	if err := adapter.Save(ctx, sqliteClinic("east", "East Clinic")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := adapter.Save(ctx, sqliteClinic("east", "East Again")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := adapter.SaveFeatures(ctx, "east", tenant.Features{LOA: true}); err != nil {
		t.Fatalf("save features: %v", err)
	}
	list, err := adapter.List(ctx)
	if err != nil || len(list) != 1 || list[0].Name != "East Again" {
		t.Fatalf("expected one upserted row, got %+v err=%v", list, err)
	}
	features, ok, err := adapter.Features(ctx, "east")
	if err != nil || !ok || !features.LOA {
		t.Fatalf("expected custom table features, got %+v ok=%v err=%v", features, ok, err)
	}

	var count int
	if err := db.NewSelect().TableExpr("?", bun.Ident("tenants_v2")).ColumnExpr("count(*)").Scan(ctx, &count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rows in tenants_v2, got %d", count)
	}

	if err := adapter.Delete(ctx, "east"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ := adapter.List(ctx); len(list) != 0 {
		t.Fatalf("expected custom table emptied, got %+v", list)
	}
}
