package handlers

import (
	"github.com/rs/zerolog"

	"github.com/funtube/funtube-server/internal/config"
	"github.com/funtube/funtube-server/internal/domain/channel"
	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/domain/video"
)

// Provider wires HTTP handlers.
type Provider struct {
	Auth     *AuthHandler
	Videos   *VideoHandler
	Channels *ChannelHandler
}

func NewProvider(
	cfg *config.Config,
	users *user.Service,
	videos *video.Service,
	channels *channel.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Auth:     NewAuthHandler(users, log),
		Videos:   NewVideoHandler(videos, cfg, log),
		Channels: NewChannelHandler(channels, log),
	}
}
