// Package access implements role classification and the route guard family.
// Guards are pure functions of (actor, loading) so they can be exercised
// without any HTTP machinery; gin adapters live in middleware.go.
package access

import "ticketdesk_backend/internal/session"

// rootAdminEmail identifies the single cross-company operator. The root
// admin is matched by email in addition to the super_admin role.
const rootAdminEmail = "admin"

// Landing paths used by redirect decisions.
const (
	PathLogin     = "/login"
	PathAdmin     = "/admin"
	PathDashboard = "/dashboard"
)

// Role is the classified role of an actor.
type Role string

const (
	RoleAnonymous       Role = "anonymous"
	RoleSuperAdmin      Role = "super_admin"
	RoleCustomer        Role = "customer"
	RoleCustomerManager Role = "customer_manager"
	RoleUser            Role = "user"
	RoleUnknown         Role = "unknown"
)

// Classify derives the single effective role of an actor. All guards and the
// ticket visibility filter consume this instead of re-checking role fields.
func Classify(actor *session.Actor) Role {
	switch {
	case actor == nil:
		return RoleAnonymous
	case actor.Email == rootAdminEmail, actor.Role == session.RoleSuperAdmin:
		return RoleSuperAdmin
	case actor.Role == session.RoleCustomer:
		return RoleCustomer
	case actor.IsCustomerManager, actor.Role == session.RoleCustomerManager:
		return RoleCustomerManager
	case actor.Role == session.RoleUser:
		return RoleUser
	default:
		return RoleUnknown
	}
}

// DecisionKind enumerates guard outcomes.
type DecisionKind int

const (
	// ShowLoading means resolution is still in flight; nothing protected
	// may be rendered yet.
	ShowLoading DecisionKind = iota
	// Redirect sends the caller to Decision.Path.
	Redirect
	// Deny renders an access-denied view with Decision.Reason.
	Deny
	// Render allows the protected content.
	Render
)

// Decision is the outcome of a guard. Guards are deterministic: the same
// (actor, loading) input always yields the same Decision.
type Decision struct {
	Kind   DecisionKind
	Path   string
	Reason string
}

func showLoading() Decision          { return Decision{Kind: ShowLoading} }
func redirectTo(path string) Decision { return Decision{Kind: Redirect, Path: path} }
func deny(reason string) Decision    { return Decision{Kind: Deny, Reason: reason} }
func render() Decision               { return Decision{Kind: Render} }

// AuthenticatedOnly renders for any resolved actor and redirects anonymous
// callers to the login page.
func AuthenticatedOnly(actor *session.Actor, loading bool) Decision {
	if loading {
		return showLoading()
	}
	if actor == nil {
		return redirectTo(PathLogin)
	}
	return render()
}

// AdminArea gates the admin section. Customers are admin-area-eligible by
// design: a customer is the company-scoped overseer of its own tickets and
// users, so the area is intentionally broader than super-admin.
func AdminArea(actor *session.Actor, loading bool) Decision {
	if loading {
		return showLoading()
	}
	switch Classify(actor) {
	case RoleSuperAdmin, RoleCustomer:
		return render()
	default:
		return deny("admin area requires an administrator or customer account")
	}
}

// SuperAdminOnly gates the root administrator section.
func SuperAdminOnly(actor *session.Actor, loading bool) Decision {
	if loading {
		return showLoading()
	}
	if Classify(actor) == RoleSuperAdmin {
		return render()
	}
	return deny("super admin privileges required")
}

// CustomerManagerOnly renders when the actor's identifying key matched a
// customer-manager record; otherwise it redirects to the role-appropriate
// landing page. The manager lookup happens in the caller (middleware) so the
// guard itself stays pure.
func CustomerManagerOnly(actor *session.Actor, loading, isManager bool) Decision {
	if loading {
		return showLoading()
	}
	if isManager {
		return render()
	}
	switch Classify(actor) {
	case RoleSuperAdmin:
		return redirectTo(PathAdmin)
	default:
		return redirectTo(PathDashboard)
	}
}

// HomeRedirect decides the landing page for the root path. It is a routing
// decision, not a gate on content.
func HomeRedirect(actor *session.Actor, loading bool) Decision {
	if loading {
		return showLoading()
	}
	switch Classify(actor) {
	case RoleAnonymous:
		return redirectTo(PathLogin)
	case RoleSuperAdmin:
		return redirectTo(PathAdmin)
	default:
		return redirectTo(PathDashboard)
	}
}
