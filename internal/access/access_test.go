package access

import (
	"testing"

	"ticketdesk_backend/internal/session"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		actor *session.Actor
		want  Role
	}{
		{"nil actor", nil, RoleAnonymous},
		{"root admin by email", &session.Actor{Email: "admin", Role: session.RoleUser}, RoleSuperAdmin},
		{"super admin role", &session.Actor{Email: "ops@nike.com", Role: session.RoleSuperAdmin}, RoleSuperAdmin},
		{"customer", &session.Actor{Username: "nike", Role: session.RoleCustomer}, RoleCustomer},
		{"manager flag", &session.Actor{Email: "m@nike.com", Role: session.RoleUser, IsCustomerManager: true}, RoleCustomerManager},
		{"manager role", &session.Actor{Email: "m@nike.com", Role: session.RoleCustomerManager}, RoleCustomerManager},
		{"plain user", &session.Actor{Email: "u@nike.com", Role: session.RoleUser}, RoleUser},
		{"unknown role", &session.Actor{Email: "x@nike.com", Role: "auditor"}, RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.actor); got != tt.want {
				t.Fatalf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthenticatedOnly(t *testing.T) {
	if d := AuthenticatedOnly(nil, true); d.Kind != ShowLoading {
		t.Fatalf("loading must yield ShowLoading, got %v", d.Kind)
	}
	if d := AuthenticatedOnly(nil, false); d.Kind != Redirect || d.Path != PathLogin {
		t.Fatalf("anonymous must redirect to %s, got %+v", PathLogin, d)
	}
	if d := AuthenticatedOnly(&session.Actor{Email: "u@nike.com", Role: session.RoleUser}, false); d.Kind != Render {
		t.Fatalf("signed-in actor must render, got %v", d.Kind)
	}
}

func TestAdminAreaAdmitsCustomers(t *testing.T) {
	tests := []struct {
		name  string
		actor *session.Actor
		want  DecisionKind
	}{
		{"root admin email", &session.Actor{Email: "admin"}, Render},
		{"super admin role", &session.Actor{Email: "ops@hq.com", Role: session.RoleSuperAdmin}, Render},
		{"customer", &session.Actor{Username: "nike", Role: session.RoleCustomer}, Render},
		{"regular user", &session.Actor{Email: "u@nike.com", Role: session.RoleUser}, Deny},
		{"anonymous", nil, Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := AdminArea(tt.actor, false); d.Kind != tt.want {
				t.Fatalf("AdminArea() = %v, want %v", d.Kind, tt.want)
			}
		})
	}
}

func TestSuperAdminOnly(t *testing.T) {
	if d := SuperAdminOnly(&session.Actor{Email: "admin"}, false); d.Kind != Render {
		t.Fatalf("root admin must render, got %v", d.Kind)
	}
	if d := SuperAdminOnly(&session.Actor{Role: session.RoleUser, Company: "Nike"}, false); d.Kind != Deny {
		t.Fatalf("regular user must be denied, got %v", d.Kind)
	}
	if d := SuperAdminOnly(&session.Actor{Username: "nike", Role: session.RoleCustomer}, false); d.Kind != Deny {
		t.Fatalf("customer must be denied, got %v", d.Kind)
	}
}

func TestCustomerManagerOnlyRedirects(t *testing.T) {
	manager := &session.Actor{Email: "m@nike.com", Role: session.RoleUser}
	if d := CustomerManagerOnly(manager, false, true); d.Kind != Render {
		t.Fatalf("matched manager must render, got %v", d.Kind)
	}

	admin := &session.Actor{Email: "admin"}
	if d := CustomerManagerOnly(admin, false, false); d.Kind != Redirect || d.Path != PathAdmin {
		t.Fatalf("admin must redirect to %s, got %+v", PathAdmin, d)
	}

	customer := &session.Actor{Username: "nike", Role: session.RoleCustomer}
	if d := CustomerManagerOnly(customer, false, false); d.Kind != Redirect || d.Path != PathDashboard {
		t.Fatalf("customer must redirect to %s, got %+v", PathDashboard, d)
	}
}

func TestHomeRedirect(t *testing.T) {
	if d := HomeRedirect(nil, false); d.Path != PathLogin {
		t.Fatalf("anonymous home redirect = %q, want %q", d.Path, PathLogin)
	}
	if d := HomeRedirect(&session.Actor{Email: "admin"}, false); d.Path != PathAdmin {
		t.Fatalf("admin home redirect = %q, want %q", d.Path, PathAdmin)
	}
	if d := HomeRedirect(&session.Actor{Email: "u@nike.com", Role: session.RoleUser}, false); d.Path != PathDashboard {
		t.Fatalf("user home redirect = %q, want %q", d.Path, PathDashboard)
	}
}

func TestGuardsAreIdempotent(t *testing.T) {
	actor := &session.Actor{Email: "u@nike.com", Role: session.RoleUser, Company: "Nike"}

	guards := map[string]func() Decision{
		"authenticated": func() Decision { return AuthenticatedOnly(actor, false) },
		"admin_area":    func() Decision { return AdminArea(actor, false) },
		"super_admin":   func() Decision { return SuperAdminOnly(actor, false) },
		"manager":       func() Decision { return CustomerManagerOnly(actor, false, false) },
		"home":          func() Decision { return HomeRedirect(actor, false) },
	}

	for name, guard := range guards {
		first := guard()
		second := guard()
		if first != second {
			t.Fatalf("%s guard not idempotent: %+v vs %+v", name, first, second)
		}
	}
}
