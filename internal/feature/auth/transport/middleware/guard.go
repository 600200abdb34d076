// Package middleware provides Gin middleware guarding routes behind session authentication.
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"datadvisor_backend/internal/feature/auth/domain/entity"
	"datadvisor_backend/internal/feature/auth/transport/handler"
)

// ContextUser is the Gin context key holding the authenticated *entity.User.
const ContextUser = "currentUser"

// SessionFinder resolves session IDs into stored sessions.
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*entity.Session, error)
}

// UserFinder resolves user IDs into user accounts.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// Guard builds route middleware from the session store and user repository.
type Guard struct {
	sessions SessionFinder
	users    UserFinder
}

// NewGuard creates a new Guard instance.
func NewGuard(sessions SessionFinder, users UserFinder) *Guard {
	return &Guard{sessions: sessions, users: users}
}

// RequireUser returns a Gin middleware function that validates the session
// cookie and restricts access to authenticated users only. When roles are
// given, the resolved user must additionally hold one of them.
func (g *Guard) RequireUser(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get the session cookie
		sessionID, err := c.Cookie(handler.SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}

		// 2. Resolve the session
		session, err := g.sessions.FindByID(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}

		// 3. Resolve the account. A session may outlive its account, so a
		// missing user is an authentication failure, not a 404.
		user, err := g.users.FindByID(c.Request.Context(), session.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}

		// 4. Enforce the role restriction, if any
		if len(roles) > 0 && !hasRole(user, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		// 5. Expose the user to downstream handlers
		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireOwner returns a Gin middleware function that restricts access to the
// owner of the targeted resource. The resource's user ID is read from the
// named path parameter; admins bypass the ownership check.
// It must run after RequireUser.
func (g *Guard) RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		if c.Param(param) != user.ID && !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireVerified returns a Gin middleware function that restricts access to
// accounts with a confirmed email address. It must run after RequireUser.
func (g *Guard) RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		if !user.EmailVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "email not confirmed"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireUser, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*entity.User)
	if !ok {
		return nil
	}
	return user
}

func hasRole(user *entity.User, roles []entity.Role) bool {
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}
