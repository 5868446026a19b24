package likerepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/funtube/funtube-server/internal/infrastructure/database/entities"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// Repository is the gorm-backed like edge store.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts the edge, relying on ON CONFLICT DO NOTHING against the
// composite unique index so duplicate likes are no-ops.
func (r *Repository) Add(ctx context.Context, userID, videoID string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).
		Create(&entities.Like{UserID: userID, VideoID: videoID}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to add like", err)
	}
	return nil
}

func (r *Repository) Remove(ctx context.Context, userID, videoID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&entities.Like{}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to remove like", err)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context, videoID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Like{}).Where("video_id = ?", videoID).Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count likes", err)
	}
	return count, nil
}

func (r *Repository) Exists(ctx context.Context, userID, videoID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Like{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	if err != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to check like", err)
	}
	return count > 0, nil
}

// CountByVideo returns like counts keyed by video id. Videos with no likes
// are absent from the map.
func (r *Repository) CountByVideo(ctx context.Context, videoIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(videoIDs))
	if len(videoIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		VideoID string
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&entities.Like{}).
		Select("video_id, count(*) as total").
		Where("video_id IN ?", videoIDs).
		Group("video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count likes by video", err)
	}
	for _, row := range rows {
		counts[row.VideoID] = row.Total
	}
	return counts, nil
}

// LikedBy returns which of the given videos the user has liked.
func (r *Repository) LikedBy(ctx context.Context, userID string, videoIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(videoIDs))
	if len(videoIDs) == 0 {
		return liked, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&entities.Like{}).
		Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to load liked videos", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *Repository) RemoveByVideo(ctx context.Context, videoID string) error {
	err := r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&entities.Like{}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to remove video likes", err)
	}
	return nil
}
