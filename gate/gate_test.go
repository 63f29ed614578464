package gate

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"doctor":         RoleDoctor,
		" Front-Desk ":   RoleFrontDesk,
		"BILLING_STAFF":  RoleBillingStaff,
		"imaging-tech\n": RoleImagingTech,
	}
	for raw, want := range cases {
		got, ok := ParseRole(raw)
		if !ok || got != want {
			t.Fatalf("ParseRole(%q) = %q, %v, want %q", raw, got, ok, want)
		}
	}
	if _, ok := ParseRole("janitor"); ok {
		t.Fatalf("expected unknown role to be rejected")
	}
}

func TestRolesReturnsCopy(t *testing.T) {
	first := Roles()
	first[0] = "mutated"
	if Roles()[0] != RoleSuperAdmin {
		t.Fatalf("expected Roles to return a copy")
	}
	if len(first) != 10 {
		t.Fatalf("expected 10 roles, got %d", len(first))
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":                        "/",
		"/provider//queue/":       "/provider/queue",
		"/doctor/encounter?id=1":  "/doctor/encounter",
		"doctor/teleconsult#join": "/doctor/teleconsult",
	}
	for raw, want := range cases {
		if got := NormalizePath(raw); got != want {
			t.Fatalf("NormalizePath(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestDecisionRender(t *testing.T) {
	if !(Decision{Kind: KindNav, State: NavAllowed}).Render() {
		t.Fatalf("expected allowed nav decision to render")
	}
	if (Decision{Kind: KindNav, State: NavBlocked}).Render() {
		t.Fatalf("expected blocked nav decision to stay hidden")
	}
	if (Decision{Kind: KindRoute, Allowed: true}).Render() {
		t.Fatalf("route decisions never render")
	}
}
