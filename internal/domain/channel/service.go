package channel

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/utils/idgen"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// SubscriptionRepository manages the subscriber-follows-channel edge set.
type SubscriptionRepository interface {
	// Add inserts the edge if absent and is a no-op otherwise.
	Add(ctx context.Context, subscriberID, channelID string) error
	Remove(ctx context.Context, subscriberID, channelID string) error
	CountForChannel(ctx context.Context, channelID string) (int64, error)
	CountForSubscriber(ctx context.Context, subscriberID string) (int64, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
}

// UserReader resolves channel owners. Returns (nil, nil) when the user does
// not exist.
type UserReader interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// VideoLister supplies the channel's enriched video list.
type VideoLister interface {
	ListByOwner(ctx context.Context, caller *user.User, ownerID string) ([]video.Enriched, error)
}

// Service implements the channel pages and subscription toggles.
type Service struct {
	users  UserReader
	subs   SubscriptionRepository
	videos VideoLister
	logger zerolog.Logger
}

func NewService(users UserReader, subs SubscriptionRepository, videos VideoLister, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		subs:   subs,
		videos: videos,
		logger: logger.With().Str("component", "channel-service").Logger(),
	}
}

// Get returns a channel's public profile with its videos. The caller may be
// nil (anonymous browsing).
func (s *Service) Get(ctx context.Context, caller *user.User, channelID string) (*Profile, error) {
	if err := validateChannelID(ctx, channelID); err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "channel not found", nil)
	}

	profile := &Profile{
		ID:                 owner.ID,
		Username:           owner.Username,
		AvatarURL:          owner.AvatarURL,
		ChannelDescription: owner.ChannelDescription,
		CreatedAt:          owner.CreatedAt,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.subs.CountForChannel(gctx, channelID)
		if err != nil {
			return err
		}
		profile.SubscriberCount = count
		return nil
	})
	g.Go(func() error {
		videos, err := s.videos.ListByOwner(gctx, caller, channelID)
		if err != nil {
			return err
		}
		profile.Videos = videos
		return nil
	})
	if caller != nil && caller.ID != channelID {
		g.Go(func() error {
			subscribed, err := s.subs.Exists(gctx, caller.ID, channelID)
			if err != nil {
				return err
			}
			profile.IsSubscribed = subscribed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Mine returns the caller's own channel page, including the private email
// and outgoing subscription count.
func (s *Service) Mine(ctx context.Context, caller *user.User) (*MyProfile, error) {
	profile, err := s.Get(ctx, caller, caller.ID)
	if err != nil {
		return nil, err
	}

	subscriptions, err := s.subs.CountForSubscriber(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	return &MyProfile{
		Profile:            *profile,
		Email:              caller.Email,
		SubscriptionsCount: subscriptions,
	}, nil
}

// Subscribe adds the caller's subscription if absent and returns the fresh
// aggregate. Subscribing twice is a no-op; subscribing to yourself is
// rejected.
func (s *Service) Subscribe(ctx context.Context, caller *user.User, channelID string) (*SubscribeStatus, error) {
	if err := validateChannelID(ctx, channelID); err != nil {
		return nil, err
	}
	if channelID == caller.ID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "cannot subscribe to your own channel", nil)
	}

	owner, err := s.users.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "channel not found", nil)
	}

	if err := s.subs.Add(ctx, caller.ID, channelID); err != nil {
		return nil, err
	}
	count, err := s.subs.CountForChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &SubscribeStatus{SubscriberCount: count, IsSubscribed: true}, nil
}

// Unsubscribe removes the caller's subscription if present and returns the
// fresh aggregate. Removing an absent subscription is a no-op.
func (s *Service) Unsubscribe(ctx context.Context, caller *user.User, channelID string) (*SubscribeStatus, error) {
	if err := validateChannelID(ctx, channelID); err != nil {
		return nil, err
	}
	if err := s.subs.Remove(ctx, caller.ID, channelID); err != nil {
		return nil, err
	}
	count, err := s.subs.CountForChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &SubscribeStatus{SubscriberCount: count, IsSubscribed: false}, nil
}

func validateChannelID(ctx context.Context, id string) error {
	if !idgen.IsValid(id, idgen.UserPrefix) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid channel id", nil)
	}
	return nil
}
