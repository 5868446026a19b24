package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/funtube/funtube-server/internal/config"
	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/utils/idgen"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// Repository is the catalog persistence contract. Lookups return (nil, nil)
// when the record does not exist.
type Repository interface {
	Create(ctx context.Context, v *Video) error
	FindByID(ctx context.Context, id string) (*Video, error)
	Exists(ctx context.Context, id string) (bool, error)
	// IncrementViews atomically bumps the view counter and returns the
	// updated record, or (nil, nil) when the video does not exist.
	IncrementViews(ctx context.Context, id string) (*Video, error)
	List(ctx context.Context, params ListParams) ([]*Video, int64, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Video, error)
	FindRelated(ctx context.Context, sourceID string, tags []string, limit int) ([]*Video, error)
	FindMostViewed(ctx context.Context, excludeIDs []string, limit int) ([]*Video, error)
	Update(ctx context.Context, v *Video) error
	Delete(ctx context.Context, id string) error
}

// LikeRepository manages the user-likes-video edge set.
type LikeRepository interface {
	// Add inserts the edge if absent and is a no-op otherwise.
	Add(ctx context.Context, userID, videoID string) error
	Remove(ctx context.Context, userID, videoID string) error
	Count(ctx context.Context, videoID string) (int64, error)
	Exists(ctx context.Context, userID, videoID string) (bool, error)
	CountByVideo(ctx context.Context, videoIDs []string) (map[string]int64, error)
	LikedBy(ctx context.Context, userID string, videoIDs []string) (map[string]bool, error)
	RemoveByVideo(ctx context.Context, videoID string) error
}

// HistoryRepository manages per-user watch events keyed by (user, video).
type HistoryRepository interface {
	Upsert(ctx context.Context, userID, videoID string, watchedAt time.Time) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*HistoryEntry, error)
	RemoveByVideo(ctx context.Context, videoID string) error
}

// SubscriptionReader exposes the subscription aggregates the detail view needs.
type SubscriptionReader interface {
	CountForChannel(ctx context.Context, channelID string) (int64, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
}

// OwnerReader resolves the owner record for the channel block on the detail
// view. Returns (nil, nil) when the user does not exist.
type OwnerReader interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// StoredObject identifies a persisted media asset.
type StoredObject struct {
	Key string
	URL string
}

// Storage abstracts the media backend (local disk or S3).
type Storage interface {
	Upload(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (*StoredObject, error)
	Delete(ctx context.Context, url string) error
}

// Service implements the catalog operations.
type Service struct {
	cfg     *config.Config
	videos  Repository
	likes   LikeRepository
	history HistoryRepository
	subs    SubscriptionReader
	owners  OwnerReader
	storage Storage
	logger  zerolog.Logger
}

func NewService(
	cfg *config.Config,
	videos Repository,
	likes LikeRepository,
	history HistoryRepository,
	subs SubscriptionReader,
	owners OwnerReader,
	storage Storage,
	logger zerolog.Logger,
) *Service {
	return &Service{
		cfg:     cfg,
		videos:  videos,
		likes:   likes,
		history: history,
		subs:    subs,
		owners:  owners,
		storage: storage,
		logger:  logger.With().Str("component", "video-service").Logger(),
	}
}

// List returns one page of the catalog, newest first, optionally filtered by
// a full-text search query. The caller may be nil (anonymous browsing).
func (s *Service) List(ctx context.Context, caller *user.User, params ListParams) (*Page, error) {
	params = params.Normalize()

	videos, total, err := s.videos.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items, err := s.enrich(ctx, caller, videos)
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:   items,
		Page:    params.Page,
		Limit:   params.Limit,
		Total:   total,
		HasMore: int64(params.Page)*int64(params.Limit) < total,
	}, nil
}

// Get records a view and returns the full detail payload. Every call counts
// as a view; there is no per-viewer dedup.
func (s *Service) Get(ctx context.Context, caller *user.User, id string) (*Detail, error) {
	if err := validateVideoID(ctx, id); err != nil {
		return nil, err
	}

	v, err := s.videos.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "video not found", nil)
	}

	detail := &Detail{Enriched: Enriched{Video: *v}}
	detail.Channel = ChannelStats{
		ID:       v.Owner.ID,
		Username: v.Owner.Username,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.likes.Count(gctx, v.ID)
		if err != nil {
			return err
		}
		detail.LikesCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.subs.CountForChannel(gctx, v.OwnerID)
		if err != nil {
			return err
		}
		detail.Channel.SubscriberCount = count
		return nil
	})
	if caller != nil {
		g.Go(func() error {
			liked, err := s.likes.Exists(gctx, caller.ID, v.ID)
			if err != nil {
				return err
			}
			detail.LikedByMe = liked
			return nil
		})
		g.Go(func() error {
			subscribed, err := s.subs.Exists(gctx, caller.ID, v.OwnerID)
			if err != nil {
				return err
			}
			detail.Channel.IsSubscribed = subscribed
			return nil
		})
	}
	g.Go(func() error {
		owner, err := s.owners.FindByID(gctx, v.OwnerID)
		if err != nil {
			return err
		}
		if owner != nil {
			detail.Channel.Username = owner.Username
			detail.Channel.AvatarURL = owner.AvatarURL
			detail.Channel.ChannelDescription = owner.ChannelDescription
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return detail, nil
}

// Recommend returns up to eight videos related to the given one: tag-overlap
// matches newest first, padded with the most-viewed remainder. The source
// video never appears in the result.
func (s *Service) Recommend(ctx context.Context, caller *user.User, id string) ([]Enriched, error) {
	if err := validateVideoID(ctx, id); err != nil {
		return nil, err
	}

	source, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "video not found", nil)
	}

	related, err := s.videos.FindRelated(ctx, source.ID, source.Tags, recommendationLimit)
	if err != nil {
		return nil, err
	}

	if len(related) < recommendationLimit {
		exclude := make([]string, 0, len(related)+1)
		exclude = append(exclude, source.ID)
		for _, v := range related {
			exclude = append(exclude, v.ID)
		}
		padding, err := s.videos.FindMostViewed(ctx, exclude, recommendationLimit-len(related))
		if err != nil {
			return nil, err
		}
		related = append(related, padding...)
	}

	return s.enrich(ctx, caller, related)
}

// ShareURL builds the public watch link for a video.
func (s *Service) ShareURL(ctx context.Context, id string) (string, error) {
	if err := validateVideoID(ctx, id); err != nil {
		return "", err
	}
	exists, err := s.videos.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "video not found", nil)
	}
	return s.cfg.PublicURL("/watch/" + id), nil
}

// Like adds the caller's like if absent and returns the fresh aggregate.
// Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, caller *user.User, id string) (*LikeStatus, error) {
	if err := validateVideoID(ctx, id); err != nil {
		return nil, err
	}
	exists, err := s.videos.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "video not found", nil)
	}
	if err := s.likes.Add(ctx, caller.ID, id); err != nil {
		return nil, err
	}
	count, err := s.likes.Count(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LikeStatus{LikesCount: count, LikedByMe: true}, nil
}

// Unlike removes the caller's like if present and returns the fresh
// aggregate. Removing an absent like is a no-op.
func (s *Service) Unlike(ctx context.Context, caller *user.User, id string) (*LikeStatus, error) {
	if err := validateVideoID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.likes.Remove(ctx, caller.ID, id); err != nil {
		return nil, err
	}
	count, err := s.likes.Count(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LikeStatus{LikesCount: count, LikedByMe: false}, nil
}

// RecordWatch upserts the caller's watch event for a video, refreshing the
// timestamp on rewatch so the history stays ordered by recency.
func (s *Service) RecordWatch(ctx context.Context, caller *user.User, id string) error {
	if err := validateVideoID(ctx, id); err != nil {
		return err
	}
	exists, err := s.videos.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "video not found", nil)
	}
	return s.history.Upsert(ctx, caller.ID, id, time.Now().UTC())
}

// MyHistory lists the caller's watch history, most recent first. Entries
// whose video has since been deleted are dropped by the repository join.
func (s *Service) MyHistory(ctx context.Context, caller *user.User) ([]*HistoryEntry, error) {
	return s.history.ListByUser(ctx, caller.ID, historyLimit)
}

// Upload stores both media assets and creates the catalog record. Assets are
// written before the record so a failed write never leaves a record pointing
// at missing media.
func (s *Service) Upload(ctx context.Context, caller *user.User, input UploadInput) (*Video, error) {
	input.Title = trimmed(input.Title)
	if err := s.validateUpload(ctx, input); err != nil {
		return nil, err
	}

	var videoObj, thumbObj *StoredObject
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obj, err := s.storeAsset(gctx, "videos", input.Video)
		if err != nil {
			return err
		}
		videoObj = obj
		return nil
	})
	g.Go(func() error {
		obj, err := s.storeAsset(gctx, "thumbnails", input.Thumbnail)
		if err != nil {
			return err
		}
		thumbObj = obj
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	id, err := idgen.NewVideoID()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate video id", err)
	}

	now := time.Now().UTC()
	v := &Video{
		ID:           id,
		OwnerID:      caller.ID,
		Owner:        caller.Summary(),
		Title:        input.Title,
		Description:  input.Description,
		Tags:         normalizeTags(input.Tags),
		ThumbnailURL: thumbObj.URL,
		VideoURL:     videoObj.URL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.videos.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info().Str("video_id", v.ID).Str("owner_id", caller.ID).Msg("video uploaded")
	return v, nil
}

// Edit applies a partial update. Only the owner may edit; replaced assets
// are stored first, then the old object is deleted best effort.
func (s *Service) Edit(ctx context.Context, caller *user.User, id string, input EditInput) (*Video, error) {
	if err := validateVideoID(ctx, id); err != nil {
		return nil, err
	}
	v, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "video not found", nil)
	}
	if v.OwnerID != caller.ID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "not the video owner", nil)
	}

	if input.Title != nil {
		title := trimmed(*input.Title)
		if err := validateTitle(ctx, title); err != nil {
			return nil, err
		}
		v.Title = title
	}
	if input.Description != nil {
		if err := validateDescription(ctx, *input.Description); err != nil {
			return nil, err
		}
		v.Description = *input.Description
	}
	if input.TagsSet {
		v.Tags = normalizeTags(input.Tags)
	}

	if input.Video != nil {
		if err := validateAsset(ctx, input.Video, assetKindVideo, s.cfg.MaxVideoBytes); err != nil {
			return nil, err
		}
		obj, err := s.storeAsset(ctx, "videos", input.Video)
		if err != nil {
			return nil, err
		}
		s.deleteAsset(ctx, v.VideoURL)
		v.VideoURL = obj.URL
	}
	if input.Thumbnail != nil {
		if err := validateAsset(ctx, input.Thumbnail, assetKindImage, s.cfg.MaxThumbnailBytes); err != nil {
			return nil, err
		}
		obj, err := s.storeAsset(ctx, "thumbnails", input.Thumbnail)
		if err != nil {
			return nil, err
		}
		s.deleteAsset(ctx, v.ThumbnailURL)
		v.ThumbnailURL = obj.URL
	}

	v.UpdatedAt = time.Now().UTC()
	if err := s.videos.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes a video, its like and history edges, and its media assets.
// Only the owner may delete. Asset deletion is best effort; edge and record
// removal must succeed.
func (s *Service) Delete(ctx context.Context, caller *user.User, id string) error {
	if err := validateVideoID(ctx, id); err != nil {
		return err
	}
	v, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "video not found", nil)
	}
	if v.OwnerID != caller.ID {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "not the video owner", nil)
	}

	s.deleteAsset(ctx, v.VideoURL)
	s.deleteAsset(ctx, v.ThumbnailURL)

	if err := s.likes.RemoveByVideo(ctx, id); err != nil {
		return err
	}
	if err := s.history.RemoveByVideo(ctx, id); err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("video_id", id).Str("owner_id", caller.ID).Msg("video deleted")
	return nil
}

// ListByOwner returns a channel's videos, newest first, enriched for the
// caller.
func (s *Service) ListByOwner(ctx context.Context, caller *user.User, ownerID string) ([]Enriched, error) {
	videos, err := s.videos.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, caller, videos)
}

func (s *Service) storeAsset(ctx context.Context, folder string, asset *Asset) (*StoredObject, error) {
	obj, err := s.storage.Upload(ctx, folder, asset.Filename, bytes.NewReader(asset.Data), int64(len(asset.Data)), asset.ContentType)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			fmt.Sprintf("failed to store %s asset", folder), err)
	}
	return obj, nil
}

func (s *Service) deleteAsset(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("failed to delete media asset")
	}
}

// enrich joins each video with its like count and the caller's like flag
// using two batched lookups.
func (s *Service) enrich(ctx context.Context, caller *user.User, videos []*Video) ([]Enriched, error) {
	items := make([]Enriched, 0, len(videos))
	if len(videos) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}

	var counts map[string]int64
	var liked map[string]bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.likes.CountByVideo(gctx, ids)
		if err != nil {
			return err
		}
		counts = m
		return nil
	})
	if caller != nil {
		g.Go(func() error {
			m, err := s.likes.LikedBy(gctx, caller.ID, ids)
			if err != nil {
				return err
			}
			liked = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, v := range videos {
		items = append(items, Enriched{
			Video:      *v,
			LikesCount: counts[v.ID],
			LikedByMe:  liked[v.ID],
		})
	}
	return items, nil
}
