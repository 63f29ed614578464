package urlbuilder

import (
	"sort"
	"strings"
	"testing"
)

type echoBuilder struct{}

func (echoBuilder) Resolve(groupPath, route string, _ map[string]any, query map[string]string) (string, error) {
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+query[key])
	}
	out := "/" + groupPath + "/" + route
	if len(parts) > 0 {
		out += "?" + strings.Join(parts, "&")
	}
	return out, nil
}

type fixedTenant string

func (f fixedTenant) ActiveID() string { return string(f) }

func TestTenantQueryAddsActiveTenant(t *testing.T) {
	builder := WithTenantQuery(echoBuilder{}, fixedTenant("primeCare"))
	query := map[string]string{"tab": "today"}
	got, err := builder.Resolve("doctor", "queue", nil, query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/doctor/queue?tab=today&tenant=primeCare" {
		t.Fatalf("unexpected url: %s", got)
	}
	if _, ok := query["tenant"]; ok {
		t.Fatalf("caller query must not be mutated")
	}
}

func TestTenantQueryKeepsExplicitTenant(t *testing.T) {
	builder := WithTenantQuery(echoBuilder{}, fixedTenant("primeCare"))
	got, err := builder.Resolve("doctor", "queue", nil, map[string]string{"tenant": "healthFirst"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/doctor/queue?tenant=healthFirst" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestTenantQueryWithoutTenant(t *testing.T) {
	builder := TenantQuery{Builder: echoBuilder{}, Tenants: fixedTenant(""), Param: "t"}
	got, err := builder.Resolve("provider", "dashboard", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/provider/dashboard" {
		t.Fatalf("unexpected url: %s", got)
	}
}
