package historyrepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/infrastructure/database/entities"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// Repository is the gorm-backed watch history store.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert keeps one row per (user, video) pair, refreshing the watch
// timestamp on conflict.
func (r *Repository) Upsert(ctx context.Context, userID, videoID string, watchedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"watched_at": watchedAt, "updated_at": time.Now().UTC()}),
		}).
		Create(&entities.History{UserID: userID, VideoID: videoID, WatchedAt: watchedAt}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to record watch", err)
	}
	return nil
}

// ListByUser returns the user's most recent watch events joined with their
// videos. Rows whose video has disappeared are skipped.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]*video.HistoryEntry, error) {
	var rows []entities.History
	err := r.db.WithContext(ctx).
		Preload("Video.Owner").
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list history", err)
	}

	entries := make([]*video.HistoryEntry, 0, len(rows))
	for i := range rows {
		if rows[i].Video.ID == "" {
			continue
		}
		entries = append(entries, &video.HistoryEntry{
			WatchedAt: rows[i].WatchedAt,
			Video:     toDomainVideo(&rows[i].Video),
		})
	}
	return entries, nil
}

func (r *Repository) RemoveByVideo(ctx context.Context, videoID string) error {
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&entities.History{}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to remove video history", err)
	}
	return nil
}

func toDomainVideo(e *entities.Video) video.Video {
	return video.Video{
		ID:      e.ID,
		OwnerID: e.OwnerID,
		Owner: user.Summary{
			ID:        e.Owner.ID,
			Username:  e.Owner.Username,
			AvatarURL: e.Owner.AvatarURL,
		},
		Title:        e.Title,
		Description:  e.Description,
		ThumbnailURL: e.ThumbnailURL,
		VideoURL:     e.VideoURL,
		Tags:         []string(e.Tags),
		Views:        e.Views,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
