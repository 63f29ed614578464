package registry

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/normanwashere/patient-portal-prototype-sub001/activity"
	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/store"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// Registry owns the tenant configs and the active tenant cell. Every read of
// the active tenant goes through resolve, so an unknown or evicted id always
// lands on the default tenant.
type Registry struct {
	mu         sync.RWMutex
	tenants    map[string]tenant.Config
	builtins   []string
	builtinSet map[string]struct{}
	order      []string
	defaultID  string
	activeID   string
	revision   uint64
	hooks      []activity.Hook
	logger     logger.Logger

	seed         []tenant.Config
	seedSet      bool
	initialID    string
	initialURL   string
	queryParam   string
	defaultIDSet bool
}

// Option configures the registry.
type Option func(*Registry)

// WithBuiltins replaces the shipped built-in tenants.
func WithBuiltins(configs ...tenant.Config) Option {
	return func(r *Registry) {
		if r == nil {
			return
		}
		r.seed = configs
		r.seedSet = true
	}
}

// WithDefaultID sets the fallback tenant id. It must name a built-in tenant;
// otherwise the first built-in is used.
func WithDefaultID(id string) Option {
	return func(r *Registry) {
		if r == nil {
			return
		}
		r.defaultID = strings.TrimSpace(id)
		r.defaultIDSet = r.defaultID != ""
	}
}

// WithInitialActive seeds the active tenant id. Unknown ids select the default.
func WithInitialActive(id string) Option {
	return func(r *Registry) {
		if r == nil {
			return
		}
		r.initialID = strings.TrimSpace(id)
	}
}

// WithInitialActiveFromURL seeds the active tenant id from the query string of
// rawURL. Missing, malformed and unknown values select the default.
func WithInitialActiveFromURL(rawURL string) Option {
	return func(r *Registry) {
		if r == nil {
			return
		}
		r.initialURL = rawURL
	}
}

// WithQueryParam overrides the query parameter read by WithInitialActiveFromURL.
func WithQueryParam(name string) Option {
	return func(r *Registry) {
		if r == nil {
			return
		}
		r.queryParam = strings.TrimSpace(name)
	}
}

// WithActivityHook registers hooks notified after each mutation.
func WithActivityHook(hooks ...activity.Hook) Option {
	return func(r *Registry) {
		if r == nil {
			return
		}
		for _, hook := range hooks {
			if hook != nil {
				r.hooks = append(r.hooks, hook)
			}
		}
	}
}

// WithLogger sets the registry logger.
func WithLogger(lgr logger.Logger) Option {
	return func(r *Registry) {
		if r == nil {
			return
		}
		r.logger = lgr
	}
}

// New constructs a registry seeded with the built-in tenants.
func New(opts ...Option) *Registry {
	r := &Registry{
		tenants:    map[string]tenant.Config{},
		builtinSet: map[string]struct{}{},
		queryParam: DefaultQueryParam,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.queryParam == "" {
		r.queryParam = DefaultQueryParam
	}
	r.logger = logger.Or(r.logger)

	seed := r.seed
	if !r.seedSet {
		seed = BuiltinTenants()
	}
	for _, cfg := range seed {
		id := strings.TrimSpace(cfg.ID)
		if id == "" {
			continue
		}
		cfg.ID = id
		if _, ok := r.builtinSet[id]; !ok {
			r.builtins = append(r.builtins, id)
			r.builtinSet[id] = struct{}{}
		}
		r.tenants[id] = cfg.Clone()
	}
	r.seed = nil

	if !r.defaultIDSet {
		r.defaultID = DefaultTenantID
	}
	if _, ok := r.builtinSet[r.defaultID]; !ok && len(r.builtins) > 0 {
		r.defaultID = r.builtins[0]
	}

	initial := r.initialID
	if r.initialURL != "" {
		initial = queryTenantID(r.initialURL, r.queryParam)
	}
	r.activeID = r.defaultID
	if _, ok := r.tenants[initial]; ok {
		r.activeID = initial
	}
	r.revision = 1

	// Hooks registered at construction see the startup tenant as an
	// activation from no tenant.
	event := r.eventLocked(r.activeID, activity.ActionActivate, gate.ActorRef{Type: "system"}, "")
	r.logger.Debug("tenant registry ready", "tenant_id", event.ActiveID, "revision", event.Revision)
	r.emit(context.Background(), event)
	return r
}

// Subscribe registers hooks after construction.
func (r *Registry) Subscribe(hooks ...activity.Hook) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, hook := range hooks {
		if hook != nil {
			r.hooks = append(r.hooks, hook)
		}
	}
}

func queryTenantID(rawURL, param string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Query().Get(param))
}

// Get returns the config for id. Empty ids resolve through the active
// selector and unknown ids resolve to the default tenant.
func (r *Registry) Get(id string) tenant.Config {
	if r == nil {
		return tenant.Config{ID: DefaultTenantID}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id = strings.TrimSpace(id)
	if id == "" {
		return r.resolveLocked(r.activeID).Clone()
	}
	return r.resolveLocked(id).Clone()
}

// Active returns the tenant the active selector resolves to.
func (r *Registry) Active() tenant.Config {
	return r.Get("")
}

// ActiveID returns the id of the tenant currently in effect.
func (r *Registry) ActiveID() string {
	if r == nil {
		return DefaultTenantID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveLocked(r.activeID).ID
}

// SelectedID returns the raw active cell, which may name an unregistered id.
func (r *Registry) SelectedID() string {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// ActiveFeatures returns the active tenant id, its features and the revision
// they were read at, in one consistent read.
func (r *Registry) ActiveFeatures() (string, tenant.Features, uint64) {
	if r == nil {
		return DefaultTenantID, tenant.Features{}, 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg := r.resolveLocked(r.activeID)
	return cfg.ID, cfg.Features.Clone(), r.revision
}

// List returns built-in tenants first, then runtime tenants in insertion
// order. The order is for display only.
func (r *Registry) List() []tenant.Config {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]tenant.Config, 0, len(r.tenants))
	for _, id := range r.builtins {
		out = append(out, r.tenants[id].Clone())
	}
	for _, id := range r.order {
		out = append(out, r.tenants[id].Clone())
	}
	return out
}

// IsBuiltin reports whether id is protected from removal.
func (r *Registry) IsBuiltin(id string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.builtinSet[strings.TrimSpace(id)]
	return ok
}

// DefaultID returns the fallback tenant id.
func (r *Registry) DefaultID() string {
	if r == nil {
		return DefaultTenantID
	}
	return r.defaultID
}

// Revision increments on every mutation.
func (r *Registry) Revision() uint64 {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// AddOrReplace registers cfg, replacing any tenant with the same id. Only the
// id and colors are validated; features are stored as given.
func (r *Registry) AddOrReplace(ctx context.Context, cfg tenant.Config, actor gate.ActorRef) error {
	if r == nil {
		return ferrors.ErrStoreRequired
	}
	if err := validate(cfg); err != nil {
		return err
	}
	cfg.ID = strings.TrimSpace(cfg.ID)

	r.mu.Lock()
	before := r.resolveLocked(r.activeID).ID
	action := r.putLocked(cfg)
	r.revision++
	event := r.eventLocked(cfg.ID, action, actor, before)
	stored := r.tenants[cfg.ID].Clone()
	event.Config = &stored
	event.ActiveChanged = event.ActiveChanged || event.ActiveID == cfg.ID
	r.mu.Unlock()

	r.logger.WithContext(ctx).Info("tenant registered", "tenant_id", cfg.ID, "action", action)
	r.emit(ctx, event)
	return nil
}

// Remove deletes a runtime tenant. Built-in and unknown ids are left alone
// and report false. Removing the active tenant resets the selector to the
// default id.
func (r *Registry) Remove(ctx context.Context, id string, actor gate.ActorRef) bool {
	if r == nil {
		return false
	}
	id = strings.TrimSpace(id)

	r.mu.Lock()
	if _, builtin := r.builtinSet[id]; builtin {
		r.mu.Unlock()
		r.logger.WithContext(ctx).Debug("built-in tenant not removed", "tenant_id", id)
		return false
	}
	if _, ok := r.tenants[id]; !ok {
		r.mu.Unlock()
		return false
	}
	before := r.resolveLocked(r.activeID).ID
	delete(r.tenants, id)
	r.order = removeID(r.order, id)
	if r.activeID == id {
		r.activeID = r.defaultID
	}
	r.revision++
	event := r.eventLocked(id, activity.ActionRemove, actor, before)
	r.mu.Unlock()

	r.logger.WithContext(ctx).Info("tenant removed", "tenant_id", id, "active_id", event.ActiveID)
	r.emit(ctx, event)
	return true
}

// SetActive updates the active id unconditionally. Unregistered ids resolve
// to the default tenant until they are registered.
func (r *Registry) SetActive(ctx context.Context, id string, actor gate.ActorRef) {
	if r == nil {
		return
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = r.defaultID
	}

	r.mu.Lock()
	before := r.resolveLocked(r.activeID).ID
	r.activeID = id
	r.revision++
	event := r.eventLocked(id, activity.ActionActivate, actor, before)
	r.mu.Unlock()

	r.logger.WithContext(ctx).Info("tenant activated", "selected_id", id, "tenant_id", event.ActiveID)
	r.emit(ctx, event)
}

// ReplaceFeatures overwrites the features of an existing tenant wholesale.
// There is no merge: callers pass the complete feature set. Unknown ids
// report false.
func (r *Registry) ReplaceFeatures(ctx context.Context, id string, features tenant.Features, actor gate.ActorRef) bool {
	return r.updateFeatures(ctx, id, actor, func(*tenant.Features) tenant.Features {
		return features.Clone()
	})
}

// MutateFeatures applies fn to a copy of the tenant's current features and
// stores the result. fn runs under the registry lock and must not call back
// into the registry.
func (r *Registry) MutateFeatures(ctx context.Context, id string, fn func(*tenant.Features), actor gate.ActorRef) bool {
	if fn == nil {
		return false
	}
	return r.updateFeatures(ctx, id, actor, func(current *tenant.Features) tenant.Features {
		next := current.Clone()
		fn(&next)
		return next
	})
}

func (r *Registry) updateFeatures(ctx context.Context, id string, actor gate.ActorRef, next func(*tenant.Features) tenant.Features) bool {
	if r == nil {
		return false
	}
	id = strings.TrimSpace(id)

	r.mu.Lock()
	cfg, ok := r.tenants[id]
	if !ok {
		r.mu.Unlock()
		return false
	}
	before := r.resolveLocked(r.activeID).ID
	cfg.Features = next(&cfg.Features)
	r.tenants[id] = cfg
	r.revision++
	event := r.eventLocked(id, activity.ActionFeatures, actor, before)
	stored := cfg.Clone()
	event.Config = &stored
	r.mu.Unlock()

	r.logger.WithContext(ctx).Info("tenant features replaced", "tenant_id", id)
	r.emit(ctx, event)
	return true
}

// Load registers every valid config listed by reader. Invalid entries are
// skipped and logged. Hooks receive a single load event.
func (r *Registry) Load(ctx context.Context, reader store.Reader) error {
	if r == nil || reader == nil {
		return ferrors.ErrStoreRequired
	}
	configs, err := reader.List(ctx)
	if err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "tenant list failed", map[string]any{
			ferrors.MetaOperation: "load",
		})
	}

	r.mu.Lock()
	before := r.resolveLocked(r.activeID).ID
	loaded := 0
	for _, cfg := range configs {
		if err := validate(cfg); err != nil {
			r.logger.WithContext(ctx).Warn("tenant skipped", "tenant_id", cfg.ID, "error", err)
			continue
		}
		cfg.ID = strings.TrimSpace(cfg.ID)
		r.putLocked(cfg)
		loaded++
	}
	r.revision++
	event := r.eventLocked("", activity.ActionLoad, gate.ActorRef{}, before)
	event.ActiveChanged = event.ActiveChanged || loaded > 0
	r.mu.Unlock()

	r.logger.WithContext(ctx).Info("tenants loaded", "count", loaded)
	r.emit(ctx, event)
	return nil
}

// LoadFeatures overlays stored feature sets onto registered tenants. Read
// failures are collected and returned after every tenant was tried.
func (r *Registry) LoadFeatures(ctx context.Context, reader store.FeatureReader) error {
	if r == nil || reader == nil {
		return ferrors.ErrStoreRequired
	}
	r.mu.RLock()
	ids := make([]string, 0, len(r.tenants))
	ids = append(ids, r.builtins...)
	ids = append(ids, r.order...)
	r.mu.RUnlock()

	stored := map[string]tenant.Features{}
	var errs []error
	for _, id := range ids {
		features, ok, err := reader.Features(ctx, id)
		if err != nil {
			errs = append(errs, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "tenant features read failed", map[string]any{
				ferrors.MetaTenantID:  id,
				ferrors.MetaOperation: "load_features",
			}))
			continue
		}
		if ok {
			stored[id] = features
		}
	}

	r.mu.Lock()
	before := r.resolveLocked(r.activeID).ID
	for id, features := range stored {
		cfg, ok := r.tenants[id]
		if !ok {
			continue
		}
		cfg.Features = features.Clone()
		r.tenants[id] = cfg
	}
	r.revision++
	event := r.eventLocked("", activity.ActionLoad, gate.ActorRef{}, before)
	r.mu.Unlock()

	r.logger.WithContext(ctx).Info("tenant features loaded", "count", len(stored))
	r.emit(ctx, event)
	return errors.Join(errs...)
}

func validate(cfg tenant.Config) error {
	id := strings.TrimSpace(cfg.ID)
	if id == "" {
		return ferrors.WrapSentinel(ferrors.ErrTenantIDRequired, "", map[string]any{
			ferrors.MetaOperation: "add",
		})
	}
	if cfg.Colors.IsZero() {
		return ferrors.WrapSentinel(ferrors.ErrTenantColorsRequired, "", map[string]any{
			ferrors.MetaTenantID:  id,
			ferrors.MetaOperation: "add",
		})
	}
	return nil
}

func (r *Registry) putLocked(cfg tenant.Config) activity.Action {
	_, existed := r.tenants[cfg.ID]
	r.tenants[cfg.ID] = cfg.Clone()
	if existed {
		return activity.ActionReplace
	}
	if _, builtin := r.builtinSet[cfg.ID]; !builtin {
		r.order = append(r.order, cfg.ID)
	}
	return activity.ActionAdd
}

func (r *Registry) resolveLocked(id string) tenant.Config {
	if cfg, ok := r.tenants[id]; ok {
		return cfg
	}
	if cfg, ok := r.tenants[r.defaultID]; ok {
		return cfg
	}
	return tenant.Config{ID: r.defaultID}
}

func (r *Registry) eventLocked(id string, action activity.Action, actor gate.ActorRef, before string) activity.UpdateEvent {
	active := r.resolveLocked(r.activeID)
	return activity.UpdateEvent{
		TenantID:         id,
		Action:           action,
		Actor:            actor,
		PreviousActiveID: before,
		ActiveID:         active.ID,
		Active:           active.Clone(),
		ActiveChanged:    before != active.ID,
		Revision:         r.revision,
	}
}

func (r *Registry) emit(ctx context.Context, event activity.UpdateEvent) {
	r.mu.RLock()
	hooks := append([]activity.Hook(nil), r.hooks...)
	r.mu.RUnlock()
	for _, hook := range hooks {
		hook.OnUpdate(ctx, event)
	}
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
