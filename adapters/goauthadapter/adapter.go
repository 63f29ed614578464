package goauthadapter

import (
	"context"

	"github.com/goliatone/go-auth"

	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
	"github.com/normanwashere/patient-portal-prototype-sub001/scope"
)

// ActorExtractor extracts an auth.ActorContext from context.
type ActorExtractor func(context.Context) (*auth.ActorContext, bool)

// Option customizes the role resolver behavior.
type Option func(*RoleResolver)

// RoleResolver derives the staff role and tenant of a session from the
// go-auth actor context.
type RoleResolver struct {
	extractor ActorExtractor
	roles     map[string]gate.Role
}

// NewRoleResolver builds a resolver using go-auth's actor context extractor.
func NewRoleResolver(opts ...Option) *RoleResolver {
	resolver := &RoleResolver{
		extractor: auth.ActorFromContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(resolver)
		}
	}
	if resolver.extractor == nil {
		resolver.extractor = auth.ActorFromContext
	}
	return resolver
}

// WithActorExtractor overrides the actor context extractor.
func WithActorExtractor(extractor ActorExtractor) Option {
	return func(resolver *RoleResolver) {
		if resolver == nil {
			return
		}
		resolver.extractor = extractor
	}
}

// WithRoleAlias maps an auth role name onto a staff role, for identity
// providers whose role names differ from the portal's.
func WithRoleAlias(authRole string, role gate.Role) Option {
	return func(resolver *RoleResolver) {
		if resolver == nil || !role.Valid() {
			return
		}
		if resolver.roles == nil {
			resolver.roles = map[string]gate.Role{}
		}
		resolver.roles[authRole] = role
	}
}

// Role returns the staff role of the current actor. Unknown role names report
// false so callers fail closed.
func (r *RoleResolver) Role(ctx context.Context) (gate.Role, bool) {
	if r == nil || r.extractor == nil {
		return "", false
	}
	actor, ok := r.extractor(ctx)
	if !ok || actor == nil {
		return "", false
	}
	if role, ok := r.roles[actor.Role]; ok {
		return role, true
	}
	return gate.ParseRole(actor.Role)
}

// Scope returns ctx carrying the actor's role, tenant and reference so
// downstream helpers can read them through the scope package.
func (r *RoleResolver) Scope(ctx context.Context) context.Context {
	if r == nil || r.extractor == nil {
		return ctx
	}
	actor, ok := r.extractor(ctx)
	if !ok || actor == nil {
		return ctx
	}
	if role, ok := r.Role(ctx); ok {
		ctx = scope.WithRole(ctx, role)
	}
	ctx = scope.WithTenantID(ctx, actor.TenantID)
	return scope.WithActor(ctx, ActorRefFromActor(actor))
}

// ActorRefFromActor builds an ActorRef from an auth.ActorContext.
func ActorRefFromActor(actor *auth.ActorContext) gate.ActorRef {
	if actor == nil {
		return gate.ActorRef{}
	}
	id := actor.ActorID
	if id == "" {
		id = actor.Subject
	}
	return gate.ActorRef{
		ID:   id,
		Type: actor.Subject,
		Name: actor.Role,
	}
}

// ActorRefFromContext extracts an ActorRef from context.
func ActorRefFromContext(ctx context.Context) (gate.ActorRef, bool) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok || actor == nil {
		return gate.ActorRef{}, false
	}
	return ActorRefFromActor(actor), true
}
