package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"datadvisor_backend/internal/feature/auth/domain/entity"
	"datadvisor_backend/internal/feature/auth/transport/handler"
	"datadvisor_backend/internal/feature/auth/usecase"
)

// mockSessionFinder is a mock implementation of the SessionFinder interface.
type mockSessionFinder struct {
	FindByIDFunc func(ctx context.Context, id string) (*entity.Session, error)
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrSessionNotFound
}

// mockUserFinder is a mock implementation of the UserFinder interface.
type mockUserFinder struct {
	FindByIDFunc func(ctx context.Context, id string) (*entity.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrUserNotFound
}

func validSession() *entity.Session {
	return &entity.Session{
		ID:        "session-1",
		UserID:    "user-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func sessionFinderFor(session *entity.Session) *mockSessionFinder {
	return &mockSessionFinder{
		FindByIDFunc: func(ctx context.Context, id string) (*entity.Session, error) {
			if id == session.ID {
				return session, nil
			}
			return nil, usecase.ErrSessionNotFound
		},
	}
}

func userFinderFor(user *entity.User) *mockUserFinder {
	return &mockUserFinder{
		FindByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, usecase.ErrUserNotFound
		},
	}
}

func requestWithCookie(router *gin.Engine, method, path, sessionID string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGuard_RequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &entity.User{ID: "user-1", Email: "john@example.com", Role: entity.RoleUser}

	t.Run("valid session exposes the user to the handler", func(t *testing.T) {
		guard := NewGuard(sessionFinderFor(validSession()), userFinderFor(user))

		router := gin.New()
		router.GET("/me", guard.RequireUser(), func(c *gin.Context) {
			current := CurrentUser(c)
			if assert.NotNil(t, current) {
				assert.Equal(t, "user-1", current.ID)
			}
			c.Status(http.StatusOK)
		})

		w := requestWithCookie(router, http.MethodGet, "/me", "session-1")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing cookie returns 401", func(t *testing.T) {
		guard := NewGuard(sessionFinderFor(validSession()), userFinderFor(user))

		router := gin.New()
		router.GET("/me", guard.RequireUser(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := requestWithCookie(router, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown session returns 401", func(t *testing.T) {
		guard := NewGuard(sessionFinderFor(validSession()), userFinderFor(user))

		router := gin.New()
		router.GET("/me", guard.RequireUser(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := requestWithCookie(router, http.MethodGet, "/me", "expired")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("session for a deleted account returns 401, not 404", func(t *testing.T) {
		guard := NewGuard(sessionFinderFor(validSession()), &mockUserFinder{})

		router := gin.New()
		router.GET("/me", guard.RequireUser(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := requestWithCookie(router, http.MethodGet, "/me", "session-1")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("role restriction rejects non-admins with 403", func(t *testing.T) {
		guard := NewGuard(sessionFinderFor(validSession()), userFinderFor(user))

		router := gin.New()
		router.GET("/admin", guard.RequireUser(entity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := requestWithCookie(router, http.MethodGet, "/admin", "session-1")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("role restriction admits admins", func(t *testing.T) {
		admin := &entity.User{ID: "user-1", Email: "root@example.com", Role: entity.RoleAdmin}
		guard := NewGuard(sessionFinderFor(validSession()), userFinderFor(admin))

		router := gin.New()
		router.GET("/admin", guard.RequireUser(entity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := requestWithCookie(router, http.MethodGet, "/admin", "session-1")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGuard_RequireOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setupRouter := func(user *entity.User) *gin.Engine {
		guard := NewGuard(sessionFinderFor(validSession()), userFinderFor(user))
		router := gin.New()
		router.GET("/users/:id", guard.RequireUser(), guard.RequireOwner("id"),
			func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("owner may access their own resource", func(t *testing.T) {
		router := setupRouter(&entity.User{ID: "user-1", Role: entity.RoleUser})

		w := requestWithCookie(router, http.MethodGet, "/users/user-1", "session-1")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other users are rejected with 403", func(t *testing.T) {
		router := setupRouter(&entity.User{ID: "user-1", Role: entity.RoleUser})

		w := requestWithCookie(router, http.MethodGet, "/users/user-2", "session-1")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admins bypass the ownership check", func(t *testing.T) {
		router := setupRouter(&entity.User{ID: "user-1", Role: entity.RoleAdmin})

		w := requestWithCookie(router, http.MethodGet, "/users/user-2", "session-1")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGuard_RequireVerified(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setupRouter := func(user *entity.User) *gin.Engine {
		guard := NewGuard(sessionFinderFor(validSession()), userFinderFor(user))
		router := gin.New()
		router.GET("/verified-only", guard.RequireUser(), guard.RequireVerified(),
			func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("confirmed account passes", func(t *testing.T) {
		router := setupRouter(&entity.User{ID: "user-1", EmailVerified: true})

		w := requestWithCookie(router, http.MethodGet, "/verified-only", "session-1")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unconfirmed account is rejected with 403", func(t *testing.T) {
		router := setupRouter(&entity.User{ID: "user-1", EmailVerified: false})

		w := requestWithCookie(router, http.MethodGet, "/verified-only", "session-1")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCurrentUser_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
