package urlbuilder

import "strings"

// DefaultTenantParam is the query parameter carrying the tenant id.
const DefaultTenantParam = "tenant"

// Builder resolves group/route pairs into URLs.
type Builder interface {
	Resolve(groupPath, route string, params map[string]any, query map[string]string) (string, error)
}

// ActiveTenant reports the tenant id links should carry.
type ActiveTenant interface {
	ActiveID() string
}

// TenantQuery decorates a Builder so generated links keep the active tenant
// in the query string. An explicit tenant query value is left untouched.
type TenantQuery struct {
	Builder Builder
	Tenants ActiveTenant
	Param   string
}

// WithTenantQuery wraps builder with the default tenant parameter.
func WithTenantQuery(builder Builder, tenants ActiveTenant) TenantQuery {
	return TenantQuery{Builder: builder, Tenants: tenants, Param: DefaultTenantParam}
}

// Resolve implements Builder.
func (t TenantQuery) Resolve(groupPath, route string, params map[string]any, query map[string]string) (string, error) {
	if t.Builder == nil {
		return "", nil
	}
	param := strings.TrimSpace(t.Param)
	if param == "" {
		param = DefaultTenantParam
	}
	if t.Tenants == nil {
		return t.Builder.Resolve(groupPath, route, params, query)
	}
	if _, ok := query[param]; ok {
		return t.Builder.Resolve(groupPath, route, params, query)
	}
	id := strings.TrimSpace(t.Tenants.ActiveID())
	if id == "" {
		return t.Builder.Resolve(groupPath, route, params, query)
	}
	merged := make(map[string]string, len(query)+1)
	for key, value := range query {
		merged[key] = value
	}
	merged[param] = id
	return t.Builder.Resolve(groupPath, route, params, merged)
}

var _ Builder = TenantQuery{}
