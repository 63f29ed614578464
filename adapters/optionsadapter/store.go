package optionsadapter

import (
	"context"
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/scope"
	"github.com/normanwashere/patient-portal-prototype-sub001/store"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

const (
	prioritySystem = 10
	priorityTenant = 20
)

// DefaultDomain is the options domain holding tenant feature documents.
const DefaultDomain = "tenant_features"

// MetaBuilder builds storage metadata from an actor reference.
type MetaBuilder func(actor gate.ActorRef) state.Meta

// Option customizes the Store adapter.
type Option func(*Store)

// Store persists tenant feature sets in a go-options state.Store. The system
// scope holds the defaults shared by every tenant and each tenant scope holds
// one tenant's document. Tenant values win over defaults.
type Store struct {
	stateStore state.Store[map[string]any]
	domain     string
	meta       MetaBuilder
}

// NewStore constructs an adapter backed by a go-options state.Store.
func NewStore(stateStore state.Store[map[string]any], opts ...Option) *Store {
	adapter := &Store{
		stateStore: stateStore,
		domain:     DefaultDomain,
		meta:       defaultMeta,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.domain == "" {
		adapter.domain = DefaultDomain
	}
	if adapter.meta == nil {
		adapter.meta = defaultMeta
	}
	return adapter
}

// WithDomain sets the options domain used for feature documents.
func WithDomain(domain string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.domain = strings.TrimSpace(domain)
	}
}

// WithMetaBuilder overrides the metadata builder used on mutations.
func WithMetaBuilder(builder MetaBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.meta = builder
	}
}

// DefaultsScope is the system scope holding the document shared by every tenant.
func DefaultsScope() opts.Scope {
	return scoped("system", "System", prioritySystem, "", "")
}

// TenantScope is the scope holding one tenant's document.
func TenantScope(id string) opts.Scope {
	return scoped("tenant", "Tenant", priorityTenant, scope.MetadataTenantID, strings.TrimSpace(id))
}

func scoped(name, label string, priority int, metadataKey, metadataValue string) opts.Scope {
	var metadata map[string]any
	if metadataKey != "" && metadataValue != "" {
		metadata = map[string]any{metadataKey: metadataValue}
	}
	return opts.NewScope(
		name,
		priority,
		opts.WithScopeLabel(label),
		opts.WithScopeMetadata(metadata),
	)
}

// Features implements store.FeatureReader. It reports false when the tenant
// has no stored document, even if defaults exist.
func (s *Store) Features(ctx context.Context, id string) (tenant.Features, bool, error) {
	id = strings.TrimSpace(id)
	if s == nil || s.stateStore == nil {
		return tenant.Features{}, false, s.storeRequired(id, "features")
	}
	if id == "" {
		return tenant.Features{}, false, ferrors.WrapSentinel(ferrors.ErrTenantIDRequired, "", s.storeMeta(DefaultsScope(), "features", id))
	}

	tenantScope := TenantScope(id)
	doc, ok, err := s.load(ctx, tenantScope, id)
	if err != nil || !ok {
		return tenant.Features{}, false, err
	}
	defaults, _, err := s.load(ctx, DefaultsScope(), id)
	if err != nil {
		return tenant.Features{}, false, err
	}

	var features tenant.Features
	if err := decodeFeatures(defaults, &features); err != nil {
		return tenant.Features{}, false, s.decodeFailed(err, DefaultsScope(), id)
	}
	if err := decodeFeatures(doc, &features); err != nil {
		return tenant.Features{}, false, s.decodeFailed(err, tenantScope, id)
	}
	return features, true, nil
}

// SaveFeatures implements store.FeatureWriter.
func (s *Store) SaveFeatures(ctx context.Context, id string, features tenant.Features) error {
	id = strings.TrimSpace(id)
	if s == nil || s.stateStore == nil {
		return s.storeRequired(id, "save_features")
	}
	if id == "" {
		return ferrors.WrapSentinel(ferrors.ErrTenantIDRequired, "", s.storeMeta(DefaultsScope(), "save_features", id))
	}
	doc, err := encodeFeatures(features)
	if err != nil {
		return err
	}
	return s.mutate(ctx, TenantScope(id), id, "save_features", replaceWith(doc))
}

// SaveDefaults stores the document applied beneath every tenant's own flags.
func (s *Store) SaveDefaults(ctx context.Context, features tenant.Features) error {
	if s == nil || s.stateStore == nil {
		return s.storeRequired("", "save_defaults")
	}
	doc, err := encodeFeatures(features)
	if err != nil {
		return err
	}
	return s.mutate(ctx, DefaultsScope(), "", "save_defaults", replaceWith(doc))
}

func replaceWith(doc map[string]any) func(map[string]any) {
	return func(snapshot map[string]any) {
		for key := range snapshot {
			delete(snapshot, key)
		}
		for key, value := range doc {
			snapshot[key] = value
		}
	}
}

func (s *Store) load(ctx context.Context, scopeDef opts.Scope, id string) (map[string]any, bool, error) {
	snapshot, _, ok, err := s.stateStore.Load(ctx, state.Ref{Domain: s.domain, Scope: scopeDef})
	if err != nil {
		return nil, false, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "optionsadapter: load failed", s.storeMeta(scopeDef, "load", id))
	}
	if !ok {
		return nil, false, nil
	}
	return snapshot, true, nil
}

func (s *Store) mutate(ctx context.Context, scopeDef opts.Scope, id, operation string, apply func(map[string]any)) error {
	ref := state.Ref{Domain: s.domain, Scope: scopeDef}
	actor := scope.Actor(ctx)
	resolver := state.Resolver[map[string]any]{Store: s.stateStore}
	_, _, err := resolver.Mutate(ctx, ref, s.meta(actor), func(snapshot *map[string]any) error {
		if snapshot == nil {
			return ferrors.WrapSentinel(ferrors.ErrSnapshotInvalid, "optionsadapter: snapshot is nil", s.storeMeta(scopeDef, operation, id))
		}
		if *snapshot == nil {
			*snapshot = map[string]any{}
		}
		apply(*snapshot)
		return nil
	})
	if err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "optionsadapter: "+operation+" failed", s.storeMeta(scopeDef, operation, id))
	}
	return nil
}

func defaultMeta(actor gate.ActorRef) state.Meta {
	extra := map[string]string{}
	if actor.ID != "" {
		extra["actor_id"] = actor.ID
	}
	if actor.Type != "" {
		extra["actor_type"] = actor.Type
	}
	if actor.Name != "" {
		extra["actor_name"] = actor.Name
	}
	if len(extra) == 0 {
		return state.Meta{}
	}
	return state.Meta{Extra: extra}
}

func (s *Store) storeRequired(id, operation string) error {
	domain := ""
	if s != nil {
		domain = s.domain
	}
	return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "optionsadapter: state store is required", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaDomain:    strings.TrimSpace(domain),
		ferrors.MetaOperation: operation,
		ferrors.MetaTenantID:  id,
	})
}

func (s *Store) decodeFailed(err error, scopeDef opts.Scope, id string) error {
	meta := s.storeMeta(scopeDef, "decode", id)
	if rich, ok := ferrors.As(err); ok {
		for key, value := range rich.Metadata {
			meta[key] = value
		}
	}
	return ferrors.WrapSentinel(ferrors.ErrSnapshotInvalid, err.Error(), meta)
}

func (s *Store) storeMeta(scopeDef opts.Scope, operation, id string) map[string]any {
	meta := map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaOperation: operation,
		ferrors.MetaScope:     scopeDef.Name,
	}
	if id != "" {
		meta[ferrors.MetaTenantID] = id
	}
	if s != nil && strings.TrimSpace(s.domain) != "" {
		meta[ferrors.MetaDomain] = strings.TrimSpace(s.domain)
	}
	return meta
}

var (
	_ store.FeatureReader = (*Store)(nil)
	_ store.FeatureWriter = (*Store)(nil)
)
