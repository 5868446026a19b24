package middlewares

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/infrastructure/tokens"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/responses"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

const userContextKey = "authUser"

// UserResolver loads the account behind a verified token.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// RequireAuth verifies the bearer token and loads the account into the gin
// context. Requests without a valid token are rejected with 401.
func RequireAuth(verifier *tokens.Manager, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := resolveUser(c, verifier, users)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required")
			return
		}
		c.Set(userContextKey, u)
		c.Next()
	}
}

// OptionalAuth loads the account when a valid bearer token is present and
// continues anonymously otherwise. Used on read endpoints whose payloads
// carry caller-relative flags.
func OptionalAuth(verifier *tokens.Manager, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, ok := resolveUser(c, verifier, users); ok {
			c.Set(userContextKey, u)
		}
		c.Next()
	}
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(c *gin.Context) *user.User {
	val, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	u, ok := val.(*user.User)
	if !ok {
		return nil
	}
	return u
}

func resolveUser(c *gin.Context, verifier *tokens.Manager, users UserResolver) (*user.User, bool) {
	token := bearerToken(c)
	if token == "" {
		return nil, false
	}

	userID, err := verifier.Verify(token)
	if err != nil {
		return nil, false
	}

	u, err := users.GetByID(c.Request.Context(), userID)
	if err != nil || u == nil {
		return nil, false
	}
	return u, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
