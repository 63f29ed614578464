package style

import (
	"context"
	"strings"
	"sync"

	"github.com/normanwashere/patient-portal-prototype-sub001/activity"
	"github.com/normanwashere/patient-portal-prototype-sub001/logger"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// Namespace is a global named-variable namespace, such as the CSS custom
// properties on the document root.
type Namespace interface {
	SetVar(name, value string)
	Var(name string) (string, bool)
}

// VariableName returns the style variable a color token is projected to.
func VariableName(token string) string {
	switch token {
	case tenant.TokenTextMuted:
		return "--color-text-muted"
	default:
		return "--color-" + strings.ToLower(token)
	}
}

// Variables is an in-memory Namespace.
type Variables struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
}

// NewVariables returns an empty namespace.
func NewVariables() *Variables {
	return &Variables{values: map[string]string{}}
}

// SetVar implements Namespace.
func (v *Variables) SetVar(name, value string) {
	if v == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.values == nil {
		v.values = map[string]string{}
	}
	if _, ok := v.values[name]; !ok {
		v.order = append(v.order, name)
	}
	v.values[name] = value
}

// Var implements Namespace.
func (v *Variables) Var(name string) (string, bool) {
	if v == nil {
		return "", false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.values[name]
	return value, ok
}

// Snapshot returns a copy of every variable.
func (v *Variables) Snapshot() map[string]string {
	if v == nil {
		return nil
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]string, len(v.values))
	for name, value := range v.values {
		out[name] = value
	}
	return out
}

// CSS renders the namespace as a :root block, in first-set order.
func (v *Variables) CSS() string {
	if v == nil {
		return ":root {}"
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	var b strings.Builder
	b.WriteString(":root {")
	for _, name := range v.order {
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(v.values[name])
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

// Projector copies tenant color tokens into a Namespace.
type Projector struct {
	namespace Namespace
	logger    logger.Logger
}

// Option configures a Projector.
type Option func(*Projector)

// WithLogger sets the projector logger.
func WithLogger(lgr logger.Logger) Option {
	return func(p *Projector) {
		if p == nil {
			return
		}
		p.logger = lgr
	}
}

// NewProjector builds a projector writing to namespace.
func NewProjector(namespace Namespace, opts ...Option) *Projector {
	p := &Projector{namespace: namespace}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.logger = logger.Or(p.logger)
	return p
}

// Apply copies every non-empty token. Empty tokens leave the previous value.
func (p *Projector) Apply(colors tenant.Colors) {
	if p == nil || p.namespace == nil {
		return
	}
	for _, token := range colors.Tokens() {
		if token.Value == "" {
			p.logger.Debug("color token missing, keeping previous value", "token", token.Name)
			continue
		}
		p.namespace.SetVar(VariableName(token.Name), token.Value)
	}
}

// OnUpdate implements activity.Hook. Colors are applied once per change of
// the active tenant.
func (p *Projector) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if p == nil || !event.ActiveChanged {
		return
	}
	p.logger.WithContext(ctx).Debug("projecting tenant colors", "tenant_id", event.ActiveID)
	p.Apply(event.Active.Colors)
}

var (
	_ Namespace     = (*Variables)(nil)
	_ activity.Hook = (*Projector)(nil)
)
