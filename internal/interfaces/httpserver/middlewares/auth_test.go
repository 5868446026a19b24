package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/infrastructure/tokens"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/middlewares"
)

type mockResolver struct {
	users map[string]*user.User
}

func (m *mockResolver) GetByID(ctx context.Context, id string) (*user.User, error) {
	return m.users[id], nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *tokens.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := tokens.NewManager(tokens.Config{Secret: "test-secret", Issuer: "funtube", Expiry: time.Hour})
	resolver := &mockResolver{users: map[string]*user.User{
		"user_alice": {ID: "user_alice", Username: "alice"},
	}}

	router := gin.New()
	router.GET("/private", middlewares.RequireAuth(manager, resolver), func(c *gin.Context) {
		caller := middlewares.UserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user": caller.Username})
	})
	router.GET("/public", middlewares.OptionalAuth(manager, resolver), func(c *gin.Context) {
		caller := middlewares.UserFromContext(c)
		if caller == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": caller.Username})
	})
	return router, manager
}

func perform(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	router, manager := newTestRouter(t)

	token, err := manager.Sign("user_alice")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	cases := []struct {
		name          string
		authorization string
		wantStatus    int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := perform(router, "/private", tc.authorization)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	router, manager := newTestRouter(t)

	// Valid signature but the account is gone.
	token, err := manager.Sign("user_deleted")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	rec := perform(router, "/private", "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted account, got %d", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	router, manager := newTestRouter(t)

	rec := perform(router, "/public", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 anonymous, got %d", rec.Code)
	}

	rec = perform(router, "/public", "Bearer garbage")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with bad token, got %d", rec.Code)
	}

	token, err := manager.Sign("user_alice")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	rec = perform(router, "/public", "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 authenticated, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != `{"user":"alice"}` {
		t.Fatalf("unexpected body %s", body)
	}
}
