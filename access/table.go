package access

import (
	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
)

// Table maps every staff role to the module keys it may reach in one portal.
// It is built once and never mutated.
type Table[K ~string] struct {
	portal  string
	modules []K
	known   map[K]struct{}
	entries map[gate.Role][]K
	allowed map[gate.Role]map[K]struct{}
}

// NewTable validates entries against the closed role enum and the portal's
// closed module set. Every role must be present, even with an empty list.
func NewTable[K ~string](portal string, modules []K, entries map[gate.Role][]K) (*Table[K], error) {
	t := &Table[K]{
		portal:  portal,
		modules: append([]K(nil), modules...),
		known:   make(map[K]struct{}, len(modules)),
		entries: make(map[gate.Role][]K, len(entries)),
		allowed: make(map[gate.Role]map[K]struct{}, len(entries)),
	}
	for _, key := range modules {
		t.known[key] = struct{}{}
	}
	for role := range entries {
		if !role.Valid() {
			return nil, ferrors.WrapSentinel(ferrors.ErrRoleUnknown, "", map[string]any{
				ferrors.MetaPortal: portal,
				ferrors.MetaRole:   string(role),
			})
		}
	}
	for _, role := range gate.Roles() {
		keys, ok := entries[role]
		if !ok {
			return nil, ferrors.WrapSentinel(ferrors.ErrRoleTableIncomplete, "", map[string]any{
				ferrors.MetaPortal: portal,
				ferrors.MetaRole:   string(role),
			})
		}
		set := make(map[K]struct{}, len(keys))
		ordered := make([]K, 0, len(keys))
		for _, key := range keys {
			if _, ok := t.known[key]; !ok {
				return nil, ferrors.WrapSentinel(ferrors.ErrModuleUnknown, "", map[string]any{
					ferrors.MetaPortal:    portal,
					ferrors.MetaRole:      string(role),
					ferrors.MetaModuleKey: string(key),
				})
			}
			if _, dup := set[key]; dup {
				continue
			}
			set[key] = struct{}{}
			ordered = append(ordered, key)
		}
		t.entries[role] = ordered
		t.allowed[role] = set
	}
	return t, nil
}

// MustTable is NewTable for package-level tables; it panics on invalid input.
func MustTable[K ~string](portal string, modules []K, entries map[gate.Role][]K) *Table[K] {
	t, err := NewTable(portal, modules, entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Allowed reports whether role lists key. Unknown roles and keys are false.
func (t *Table[K]) Allowed(role gate.Role, key K) bool {
	if t == nil {
		return false
	}
	_, ok := t.allowed[role][key]
	return ok
}

// Modules returns the ordered keys for role.
func (t *Table[K]) Modules(role gate.Role) []K {
	if t == nil {
		return nil
	}
	return append([]K(nil), t.entries[role]...)
}

// Known reports whether key belongs to the portal's closed set.
func (t *Table[K]) Known(key K) bool {
	if t == nil {
		return false
	}
	_, ok := t.known[key]
	return ok
}

// Keys returns the portal's closed module set.
func (t *Table[K]) Keys() []K {
	if t == nil {
		return nil
	}
	return append([]K(nil), t.modules...)
}

// Roles returns the roles covered by the table.
func (t *Table[K]) Roles() []gate.Role {
	if t == nil {
		return nil
	}
	out := make([]gate.Role, 0, len(t.entries))
	for _, role := range gate.Roles() {
		if _, ok := t.entries[role]; ok {
			out = append(out, role)
		}
	}
	return out
}

// Portal returns the portal name the table was built for.
func (t *Table[K]) Portal() string {
	if t == nil {
		return ""
	}
	return t.portal
}
