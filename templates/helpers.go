package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/normanwashere/patient-portal-prototype-sub001/access"
	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/scope"
	"github.com/normanwashere/patient-portal-prototype-sub001/style"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

const (
	TemplateContextKey      = "portal_ctx"
	TemplateRoleKey         = "portal_role"
	TemplateCapabilitiesKey = "portal_capabilities"
)

// TenantSource exposes the active tenant. The registry implements it.
type TenantSource interface {
	Active() tenant.Config
}

// HelperConfig configures template helpers.
type HelperConfig struct {
	ContextKey             string
	RoleKey                string
	CapabilitiesKey        string
	EnableStructuredErrors bool
	EnableErrorLogging     bool
	Logger                 logger.Logger
}

// HelperOption configures template helpers.
type HelperOption func(*HelperConfig)

// DefaultHelperConfig returns the default helper configuration.
func DefaultHelperConfig() HelperConfig {
	return HelperConfig{
		ContextKey:      TemplateContextKey,
		RoleKey:         TemplateRoleKey,
		CapabilitiesKey: TemplateCapabilitiesKey,
	}
}

// WithContextKey overrides the template context key name.
func WithContextKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ContextKey = strings.TrimSpace(key)
	}
}

// WithRoleKey overrides the template role key name.
func WithRoleKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.RoleKey = strings.TrimSpace(key)
	}
}

// WithCapabilitiesKey overrides the template capability snapshot key name.
func WithCapabilitiesKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.CapabilitiesKey = strings.TrimSpace(key)
	}
}

// WithStructuredErrors toggles structured error output for value helpers.
func WithStructuredErrors(enabled bool) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.EnableStructuredErrors = enabled
	}
}

// WithErrorLogging toggles error logging for helper failures.
func WithErrorLogging(enabled bool) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.EnableErrorLogging = enabled
	}
}

// WithLogger injects a logger for helper error logging.
func WithLogger(lgr logger.Logger) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.Logger = lgr
	}
}

// TemplateHelpers returns a helper set suitable for WithTemplateFunc.
// Checkers are looked up by portal name.
func TemplateHelpers(tenants TenantSource, checkers []access.Checker, opts ...HelperOption) map[string]any {
	cfg := DefaultHelperConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.EnableErrorLogging && cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	helpers := &helperSet{
		tenants:  tenants,
		checkers: map[string]access.Checker{},
		cfg:      cfg,
	}
	for _, checker := range checkers {
		if checker == nil {
			continue
		}
		helpers.checkers[checker.PortalName()] = checker
	}

	return map[string]any{
		"nav_visible":   helpers.navVisible,
		"nav_class":     helpers.navClass,
		"route_allowed": helpers.routeAllowed,
		"capability":    helpers.capability,
		"visit_mode":    helpers.visitMode,
		"tenant_var":    helpers.tenantVar,
	}
}

type helperSet struct {
	tenants  TenantSource
	checkers map[string]access.Checker
	cfg      HelperConfig
}

func (h *helperSet) navVisible(execCtx *pongo2.ExecutionContext, portal any, key any) bool {
	visible, err := h.visible(execCtx, portal, key)
	return err == nil && visible
}

func (h *helperSet) navClass(execCtx *pongo2.ExecutionContext, portal any, key any, on any, off ...any) any {
	var fallback any = ""
	if len(off) > 0 {
		fallback = off[0]
	}
	visible, err := h.visible(execCtx, portal, key)
	if err != nil {
		return h.errorOrFallback("nav_class", err, fallback)
	}
	if visible {
		return on
	}
	return fallback
}

func (h *helperSet) routeAllowed(execCtx *pongo2.ExecutionContext, portal any, path any) bool {
	checker, err := h.checker(portal)
	if err != nil {
		return false
	}
	role, err := h.role(execCtx)
	if err != nil {
		return false
	}
	raw, ok := parseString(path)
	if !ok {
		return false
	}
	return checker.Route(h.context(execCtx), role, raw).Allowed
}

func (h *helperSet) capability(execCtx *pongo2.ExecutionContext, key any) bool {
	raw, ok := parseString(key)
	if !ok {
		return false
	}
	normalized := tenant.NormalizeCapability(raw)
	if caps := h.snapshot(execCtx); caps != nil {
		if value, ok := caps[normalized]; ok {
			return value
		}
	}
	if h.tenants == nil {
		return false
	}
	return tenant.Project(h.tenants.Active().Features).Enabled(normalized)
}

func (h *helperSet) visitMode(execCtx *pongo2.ExecutionContext, mode any) bool {
	raw, ok := parseString(mode)
	if !ok || h.tenants == nil {
		return false
	}
	return tenant.IsVisitModeAvailable(h.tenants.Active().Features, tenant.VisitMode(strings.ToLower(raw)))
}

func (h *helperSet) tenantVar(execCtx *pongo2.ExecutionContext, token any) any {
	raw, ok := parseString(token)
	if !ok {
		return h.errorOrFallback("tenant_var", ferrors.NewBadInput(ferrors.TextCodeConfigInvalid, "color token is required", nil), "")
	}
	if h.tenants == nil {
		return h.errorOrFallback("tenant_var", ferrors.WrapSentinel(ferrors.ErrStoreRequired, "tenant source is required", nil), "")
	}
	if _, known := h.tenants.Active().Colors.Token(raw); !known {
		return h.errorOrFallback("tenant_var", ferrors.NewBadInput(ferrors.TextCodeConfigInvalid, "unknown color token", map[string]any{
			"token": raw,
		}), "")
	}
	return "var(" + style.VariableName(raw) + ")"
}

func (h *helperSet) visible(execCtx *pongo2.ExecutionContext, portal any, key any) (bool, error) {
	checker, err := h.checker(portal)
	if err != nil {
		return false, err
	}
	role, err := h.role(execCtx)
	if err != nil {
		return false, err
	}
	normalized, ok := parseKey(key)
	if !ok {
		return false, ferrors.WrapSentinel(ferrors.ErrModuleUnknown, "module key is required", map[string]any{
			ferrors.MetaPortal: checker.PortalName(),
		})
	}
	return checker.VisibleKey(h.context(execCtx), role, normalized), nil
}

func (h *helperSet) checker(portal any) (access.Checker, error) {
	name, ok := parseKey(portal)
	if !ok {
		return nil, ferrors.WrapSentinel(ferrors.ErrPortalInvalid, "portal name is required", nil)
	}
	checker, ok := h.checkers[name]
	if !ok {
		return nil, ferrors.WrapSentinel(ferrors.ErrResolverRequired, "", map[string]any{
			ferrors.MetaPortal: name,
		})
	}
	return checker, nil
}

func (h *helperSet) role(execCtx *pongo2.ExecutionContext) (gate.Role, error) {
	data := templateData(execCtx)
	key := h.cfg.RoleKey
	if key == "" {
		key = TemplateRoleKey
	}
	if raw, ok := data[key]; ok {
		switch typed := unwrapValue(raw).(type) {
		case gate.Role:
			if typed.Valid() {
				return typed, nil
			}
		case string:
			if role, ok := gate.ParseRole(typed); ok {
				return role, nil
			}
		}
	}
	if role, ok := scope.Role(h.context(execCtx)); ok {
		return role, nil
	}
	return "", ferrors.WrapSentinel(ferrors.ErrRoleUnknown, "staff role is required", nil)
}

func (h *helperSet) context(execCtx *pongo2.ExecutionContext) context.Context {
	data := templateData(execCtx)
	if data == nil {
		return context.Background()
	}
	key := h.cfg.ContextKey
	if key == "" {
		key = TemplateContextKey
	}
	raw, ok := data[key]
	if !ok || raw == nil {
		return context.Background()
	}
	return contextFromValue(raw)
}

func (h *helperSet) snapshot(execCtx *pongo2.ExecutionContext) map[tenant.Capability]bool {
	data := templateData(execCtx)
	if data == nil {
		return nil
	}
	key := h.cfg.CapabilitiesKey
	if key == "" {
		key = TemplateCapabilitiesKey
	}
	switch typed := data[key].(type) {
	case tenant.Capabilities:
		return typed
	case map[tenant.Capability]bool:
		return typed
	case map[string]bool:
		out := make(map[tenant.Capability]bool, len(typed))
		for k, v := range typed {
			out[tenant.NormalizeCapability(k)] = v
		}
		return out
	}
	return nil
}

func (h *helperSet) errorOrFallback(helper string, err error, fallback any) any {
	if h.cfg.EnableErrorLogging {
		h.logHelperError(helper, err)
	}
	if h.cfg.EnableStructuredErrors {
		return templateError(helper, err)
	}
	return fallback
}

// TemplateError provides structured helper error output.
type TemplateError struct {
	Helper   string         `json:"helper"`
	Type     string         `json:"type,omitempty"`
	Message  string         `json:"message,omitempty"`
	Category string         `json:"category,omitempty"`
	TextCode string         `json:"text_code,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func templateError(helper string, err error) TemplateError {
	out := TemplateError{Helper: helper}
	if err == nil {
		return out
	}
	if rich, ok := ferrors.As(err); ok {
		out.Message = rich.Message
		out.Category = rich.Category.String()
		out.TextCode = rich.TextCode
		if len(rich.Metadata) > 0 {
			out.Metadata = rich.Metadata
		}
		if out.TextCode != "" {
			out.Type = out.TextCode
		} else if out.Category != "" {
			out.Type = out.Category
		}
		return out
	}
	out.Message = err.Error()
	out.Type = "error"
	return out
}

func parseString(value any) (string, bool) {
	raw := unwrapValue(value)
	switch typed := raw.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		return trimmed, trimmed != ""
	case fmt.Stringer:
		trimmed := strings.TrimSpace(typed.String())
		return trimmed, trimmed != ""
	default:
		return "", false
	}
}

func parseKey(value any) (string, bool) {
	raw, ok := parseString(value)
	if !ok {
		return "", false
	}
	normalized := gate.NormalizeModuleKey(raw)
	return normalized, normalized != ""
}

func unwrapValue(value any) any {
	if value == nil {
		return nil
	}
	if pv, ok := value.(*pongo2.Value); ok && pv != nil {
		return pv.Interface()
	}
	return value
}

func contextFromValue(value any) context.Context {
	switch typed := value.(type) {
	case context.Context:
		return typed
	case interface{ Context() context.Context }:
		return typed.Context()
	default:
		return context.Background()
	}
}

func templateData(execCtx *pongo2.ExecutionContext) map[string]any {
	if execCtx == nil || execCtx.Public == nil {
		return nil
	}
	data := make(map[string]any, len(execCtx.Public))
	for key, value := range execCtx.Public {
		data[key] = value
	}
	return data
}

func (h *helperSet) logHelperError(helper string, err error) {
	if h == nil || h.cfg.Logger == nil {
		return
	}
	args := []any{
		"helper", helper,
		"error", err,
	}
	if rich, ok := ferrors.As(err); ok {
		args = append(args,
			"category", rich.Category,
			"text_code", rich.TextCode,
			"metadata", rich.Metadata,
		)
	}
	h.cfg.Logger.Error("portalgate.helper_error", args...)
}
