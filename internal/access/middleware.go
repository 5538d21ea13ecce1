package access

import (
	"net/http"
	"strings"

	"ticketdesk_backend/internal/accounts"
	"ticketdesk_backend/internal/session"
	"ticketdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const (
	// ContextActorKey is the gin context key for the resolved actor.
	ContextActorKey = "actor"
	// SessionCookieName carries the server-issued session ID.
	SessionCookieName = "ticketdesk_sid"
	// SessionHeaderName is the header alternative to the session cookie.
	SessionHeaderName = "X-Session-ID"
)

// ResolveActor runs the session resolver for every request and stores the
// result. The decision-producing guards run after this middleware, so
// protected handlers never execute before resolution completes.
func ResolveActor(resolver *session.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		keys := session.Keys{
			SessionID:   sessionID(c),
			BearerToken: bearerToken(c.GetHeader("Authorization")),
		}
		actor := resolver.Resolve(c.Request.Context(), keys)
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// ActorFrom extracts the resolved actor from the gin context. Returns nil for
// anonymous requests.
func ActorFrom(c *gin.Context) *session.Actor {
	value, ok := c.Get(ContextActorKey)
	if !ok {
		return nil
	}
	actor, _ := value.(*session.Actor)
	return actor
}

// SessionIDFrom returns the session ID presented by the request, if any.
func SessionIDFrom(c *gin.Context) string {
	return sessionID(c)
}

// Apply translates a guard Decision to an HTTP outcome. Render falls through
// to the next handler; everything else aborts.
func Apply(c *gin.Context, decision Decision) {
	switch decision.Kind {
	case Render:
		c.Next()
	case Redirect:
		c.Header("Location", decision.Path)
		c.AbortWithStatusJSON(http.StatusTemporaryRedirect, gin.H{"redirect": decision.Path})
	case Deny:
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":  "access denied",
			"reason": decision.Reason,
		})
	case ShowLoading:
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
	}
}

// RequireAuthenticated guards a route group for any signed-in actor.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		Apply(c, AuthenticatedOnly(ActorFrom(c), false))
	}
}

// RequireAdminArea guards the admin section.
func RequireAdminArea() gin.HandlerFunc {
	return func(c *gin.Context) {
		Apply(c, AdminArea(ActorFrom(c), false))
	}
}

// RequireSuperAdmin guards root-administrator routes.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		Apply(c, SuperAdminOnly(ActorFrom(c), false))
	}
}

// RequireCustomerManager guards manager routes. The directory lookup failure
// mode is "not a manager": the guard then redirects instead of erroring.
func RequireCustomerManager(directory accounts.ManagerDirectory, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)

		isManager := false
		if actor != nil {
			if key := actor.Identifier(); key != "" {
				var err error
				isManager, err = directory.IsCustomerManager(c.Request.Context(), key)
				if err != nil {
					log.DatabaseError("manager_lookup", err)
					isManager = false
				}
			}
		}

		Apply(c, CustomerManagerOnly(actor, false, isManager))
	}
}

func sessionID(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	return strings.TrimSpace(c.GetHeader(SessionHeaderName))
}

func bearerToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}
