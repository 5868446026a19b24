package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/funtube/funtube-server/internal/domain/channel"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/middlewares"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/responses"
)

// ChannelHandler exposes the channel pages and subscription toggles.
type ChannelHandler struct {
	channels *channel.Service
	logger   zerolog.Logger
}

func NewChannelHandler(channels *channel.Service, logger zerolog.Logger) *ChannelHandler {
	return &ChannelHandler{channels: channels, logger: logger}
}

// Mine returns the caller's own channel page.
func (h *ChannelHandler) Mine(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	profile, err := h.channels.Mine(c.Request.Context(), caller)
	if err != nil {
		responses.HandleError(c, err, "failed to load channel")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Get returns a channel's public page. Works anonymously; a bearer token
// adds the isSubscribed flag.
func (h *ChannelHandler) Get(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	profile, err := h.channels.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load channel")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Subscribe adds the caller's subscription and returns the fresh aggregate.
func (h *ChannelHandler) Subscribe(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	status, err := h.channels.Subscribe(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to subscribe")
		return
	}
	c.JSON(http.StatusOK, status)
}

// Unsubscribe removes the caller's subscription and returns the fresh
// aggregate.
func (h *ChannelHandler) Unsubscribe(c *gin.Context) {
	caller := middlewares.UserFromContext(c)

	status, err := h.channels.Unsubscribe(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to unsubscribe")
		return
	}
	c.JSON(http.StatusOK, status)
}
