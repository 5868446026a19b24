package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/funtube/funtube-server/internal/infrastructure/tokens"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/handlers"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/middlewares"
)

// Routes encapsulates API route registration.
type Routes struct {
	handlers *handlers.Provider
	verifier *tokens.Manager
	users    middlewares.UserResolver
}

func NewRoutes(provider *handlers.Provider, verifier *tokens.Manager, users middlewares.UserResolver) *Routes {
	return &Routes{handlers: provider, verifier: verifier, users: users}
}

// Register attaches all routes under the /api prefix. Read endpoints take an
// optional token so payloads can carry caller-relative flags; mutations
// require one.
func (r *Routes) Register(router gin.IRouter) {
	requireAuth := middlewares.RequireAuth(r.verifier, r.users)
	optionalAuth := middlewares.OptionalAuth(r.verifier, r.users)

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", r.handlers.Auth.Register)
	auth.POST("/login", r.handlers.Auth.Login)
	auth.GET("/me", requireAuth, r.handlers.Auth.Me)

	videos := api.Group("/videos")
	videos.GET("", optionalAuth, r.handlers.Videos.List)
	videos.POST("", requireAuth, r.handlers.Videos.Upload)
	videos.GET("/recommended/:id", optionalAuth, r.handlers.Videos.Recommendations)
	videos.GET("/history/me", requireAuth, r.handlers.Videos.History)
	videos.GET("/:id", optionalAuth, r.handlers.Videos.Get)
	videos.PUT("/:id", requireAuth, r.handlers.Videos.Edit)
	videos.DELETE("/:id", requireAuth, r.handlers.Videos.Delete)
	videos.GET("/:id/share-url", r.handlers.Videos.Share)
	videos.POST("/:id/like", requireAuth, r.handlers.Videos.Like)
	videos.DELETE("/:id/like", requireAuth, r.handlers.Videos.Unlike)
	videos.POST("/:id/history", requireAuth, r.handlers.Videos.Watch)

	channels := api.Group("/channels")
	channels.GET("/me", requireAuth, r.handlers.Channels.Mine)
	channels.GET("/:id", optionalAuth, r.handlers.Channels.Get)

	subscriptions := api.Group("/subscriptions")
	subscriptions.POST("/:id", requireAuth, r.handlers.Channels.Subscribe)
	subscriptions.DELETE("/:id", requireAuth, r.handlers.Channels.Unsubscribe)
}
