package bunadapter

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/scope"
	"github.com/normanwashere/patient-portal-prototype-sub001/store"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// DefaultTable is the default table name for tenant configs.
const DefaultTable = "portal_tenants"

// tableAlias is the alias Bun qualifies TenantRecord columns with.
const tableAlias = "tenant"

// ErrDBRequired indicates the underlying Bun DB is missing.
var ErrDBRequired = ferrors.ErrStoreRequired

// Store persists tenant configs with Bun. Colors and features are stored
// as JSON columns.
type Store struct {
	db        bun.IDB
	table     string
	now       func() time.Time
	updatedBy func(gate.ActorRef) string
}

// Option customizes the Bun store adapter.
type Option func(*Store)

// NewStore constructs a new Bun-backed tenant store.
func NewStore(db bun.IDB, opts ...Option) *Store {
	adapter := &Store{
		db:        db,
		table:     DefaultTable,
		now:       time.Now,
		updatedBy: defaultUpdatedBy,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.table == "" {
		adapter.table = DefaultTable
	}
	if adapter.now == nil {
		adapter.now = time.Now
	}
	if adapter.updatedBy == nil {
		adapter.updatedBy = defaultUpdatedBy
	}
	return adapter
}

// WithTable sets the table name used for tenant rows.
func WithTable(table string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.table = strings.TrimSpace(table)
	}
}

// WithNowFunc overrides the timestamp function used for updates.
func WithNowFunc(now func() time.Time) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.now = now
	}
}

// WithUpdatedByBuilder overrides the updated_by value builder.
func WithUpdatedByBuilder(builder func(gate.ActorRef) string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.updatedBy = builder
	}
}

// TenantRecord maps to the portal_tenants table.
type TenantRecord struct {
	bun.BaseModel      `bun:"table:portal_tenants,alias:tenant"`
	ID                 string          `bun:"id,pk"`
	Name               string          `bun:"name,notnull"`
	Tagline            string          `bun:"tagline,nullzero"`
	LogoURL            string          `bun:"logo_url,nullzero"`
	LoginBackgroundURL string          `bun:"login_background_url,nullzero"`
	Colors             tenant.Colors   `bun:"colors,type:jsonb"`
	Features           tenant.Features `bun:"features,type:jsonb"`
	UpdatedBy          string          `bun:"updated_by,nullzero"`
	CreatedAt          time.Time       `bun:"created_at,nullzero"`
	UpdatedAt          time.Time       `bun:"updated_at,nullzero"`
}

// List implements store.Reader. Rows come back in creation order.
func (s *Store) List(ctx context.Context) ([]tenant.Config, error) {
	if s == nil || s.db == nil {
		return nil, s.dbRequired("list", "")
	}
	var records []TenantRecord
	query := s.db.NewSelect().Model(&records).Order("created_at ASC", "id ASC")
	if s.table != DefaultTable {
		query = query.ModelTableExpr("? AS ?", bun.Ident(s.table), bun.Ident(tableAlias))
	}
	if err := query.Scan(ctx); err != nil {
		return nil, s.failed(err, ferrors.TextCodeStoreReadFailed, "list", "")
	}
	out := make([]tenant.Config, 0, len(records))
	for _, record := range records {
		out = append(out, configFromRecord(record))
	}
	return out, nil
}

// Save implements store.Writer.
func (s *Store) Save(ctx context.Context, cfg tenant.Config) error {
	if s == nil || s.db == nil {
		return s.dbRequired("save", cfg.ID)
	}
	id := strings.TrimSpace(cfg.ID)
	if id == "" {
		return ferrors.WrapSentinel(ferrors.ErrTenantIDRequired, "", map[string]any{
			ferrors.MetaAdapter:   "bun",
			ferrors.MetaOperation: "save",
		})
	}
	cfg.ID = id
	record := recordFromConfig(cfg)
	record.UpdatedBy = s.updatedBy(scope.Actor(ctx))
	record.UpdatedAt = s.now()
	record.CreatedAt = record.UpdatedAt

	query := s.db.NewInsert().Model(&record).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("tagline = EXCLUDED.tagline").
		Set("logo_url = EXCLUDED.logo_url").
		Set("login_background_url = EXCLUDED.login_background_url").
		Set("colors = EXCLUDED.colors").
		Set("features = EXCLUDED.features").
		Set("updated_by = EXCLUDED.updated_by").
		Set("updated_at = EXCLUDED.updated_at")
	if s.table != DefaultTable {
		query = query.ModelTableExpr("? AS ?", bun.Ident(s.table), bun.Ident(tableAlias))
	}
	if _, err := query.Exec(ctx); err != nil {
		return s.failed(err, ferrors.TextCodeStoreWriteFailed, "save", id)
	}
	return nil
}

// Delete implements store.Writer. Missing rows are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return s.dbRequired("delete", id)
	}
	query := s.db.NewDelete().Model((*TenantRecord)(nil)).Where("id = ?", strings.TrimSpace(id))
	if s.table != DefaultTable {
		query = query.ModelTableExpr("? AS ?", bun.Ident(s.table), bun.Ident(tableAlias))
	}
	if _, err := query.Exec(ctx); err != nil {
		return s.failed(err, ferrors.TextCodeStoreWriteFailed, "delete", id)
	}
	return nil
}

// Features implements store.FeatureReader.
func (s *Store) Features(ctx context.Context, id string) (tenant.Features, bool, error) {
	if s == nil || s.db == nil {
		return tenant.Features{}, false, s.dbRequired("features", id)
	}
	record := TenantRecord{}
	query := s.db.NewSelect().Model(&record).
		Column("features").
		Where("id = ?", strings.TrimSpace(id)).
		Limit(1)
	if s.table != DefaultTable {
		query = query.ModelTableExpr("? AS ?", bun.Ident(s.table), bun.Ident(tableAlias))
	}
	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tenant.Features{}, false, nil
		}
		return tenant.Features{}, false, s.failed(err, ferrors.TextCodeStoreReadFailed, "features", id)
	}
	return record.Features.Clone(), true, nil
}

// SaveFeatures implements store.FeatureWriter. Unknown ids update nothing.
func (s *Store) SaveFeatures(ctx context.Context, id string, features tenant.Features) error {
	if s == nil || s.db == nil {
		return s.dbRequired("save_features", id)
	}
	record := TenantRecord{
		ID:        strings.TrimSpace(id),
		Features:  features.Clone(),
		UpdatedBy: s.updatedBy(scope.Actor(ctx)),
		UpdatedAt: s.now(),
	}
	query := s.db.NewUpdate().Model(&record).
		Column("features", "updated_by", "updated_at").
		WherePK()
	if s.table != DefaultTable {
		query = query.ModelTableExpr("? AS ?", bun.Ident(s.table), bun.Ident(tableAlias))
	}
	if _, err := query.Exec(ctx); err != nil {
		return s.failed(err, ferrors.TextCodeStoreWriteFailed, "save_features", id)
	}
	return nil
}

func recordFromConfig(cfg tenant.Config) TenantRecord {
	return TenantRecord{
		ID:                 cfg.ID,
		Name:               cfg.Name,
		Tagline:            cfg.Tagline,
		LogoURL:            cfg.LogoURL,
		LoginBackgroundURL: cfg.LoginBackgroundURL,
		Colors:             cfg.Colors,
		Features:           cfg.Features.Clone(),
	}
}

func configFromRecord(record TenantRecord) tenant.Config {
	return tenant.Config{
		ID:                 record.ID,
		Name:               record.Name,
		Tagline:            record.Tagline,
		LogoURL:            record.LogoURL,
		LoginBackgroundURL: record.LoginBackgroundURL,
		Colors:             record.Colors,
		Features:           record.Features.Clone(),
	}
}

func defaultUpdatedBy(actor gate.ActorRef) string {
	if actor.ID != "" {
		return actor.ID
	}
	if actor.Name != "" {
		return actor.Name
	}
	if actor.Type != "" {
		return actor.Type
	}
	return ""
}

func (s *Store) dbRequired(operation, id string) error {
	return ferrors.WrapSentinel(ErrDBRequired, "bunadapter: db is required", s.meta(operation, id))
}

func (s *Store) failed(err error, textCode, operation, id string) error {
	return ferrors.WrapExternal(err, textCode, "bunadapter: "+operation+" failed", s.meta(operation, id))
}

func (s *Store) meta(operation, id string) map[string]any {
	meta := map[string]any{
		ferrors.MetaAdapter:   "bun",
		ferrors.MetaOperation: operation,
	}
	if s != nil && s.table != "" {
		meta[ferrors.MetaTable] = s.table
	}
	if id = strings.TrimSpace(id); id != "" {
		meta[ferrors.MetaTenantID] = id
	}
	return meta
}

var (
	_ store.ReadWriter    = (*Store)(nil)
	_ store.FeatureReader = (*Store)(nil)
	_ store.FeatureWriter = (*Store)(nil)
)
