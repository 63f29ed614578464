package urlkitadapter

import (
	"github.com/goliatone/go-urlkit"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/urlbuilder"
)

// Adapter wraps a urlkit.Resolver to satisfy urlbuilder.Builder.
type Adapter struct {
	Resolver urlkit.Resolver
}

// New builds a new Adapter for the provided resolver.
func New(resolver urlkit.Resolver) Adapter {
	return Adapter{Resolver: resolver}
}

// NewTenantAware builds an Adapter whose URLs carry the active tenant in the
// "tenant" query parameter, so a reload lands on the same tenant.
func NewTenantAware(resolver urlkit.Resolver, tenants urlbuilder.ActiveTenant) urlbuilder.TenantQuery {
	return urlbuilder.WithTenantQuery(New(resolver), tenants)
}

// Resolve implements urlbuilder.Builder.
func (a Adapter) Resolve(groupPath, route string, params map[string]any, query map[string]string) (string, error) {
	meta := map[string]any{
		ferrors.MetaAdapter:   "urlkit",
		ferrors.MetaOperation: "resolve",
		ferrors.MetaPath:      groupPath + "/" + route,
	}
	if a.Resolver == nil {
		return "", ferrors.WrapSentinel(ferrors.ErrResolverRequired, "urlkitadapter: resolver is required", meta)
	}
	url, err := a.Resolver.Resolve(groupPath, route, params, query)
	if err != nil {
		return "", ferrors.WrapExternal(err, ferrors.TextCodeAdapterFailed, "urlkitadapter: resolve failed", meta)
	}
	return url, nil
}

var _ urlbuilder.Builder = Adapter{}
