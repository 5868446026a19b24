package videorepo

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/infrastructure/database/entities"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// searchVector must match the expression indexed by idx_videos_search.
const searchVector = "to_tsvector('english', title || ' ' || coalesce(description, ''))"

// Repository is the gorm-backed catalog store.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, v *video.Video) error {
	if err := r.db.WithContext(ctx).Create(toEntity(v)).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create video", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*video.Video, error) {
	var entity entities.Video
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find video", err)
	}
	return toDomain(&entity), nil
}

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Video{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to check video existence", err)
	}
	return count > 0, nil
}

// IncrementViews bumps the counter in a single UPDATE so concurrent views
// never lose increments, then re-reads the row. Returns (nil, nil) when the
// video does not exist.
func (r *Repository) IncrementViews(ctx context.Context, id string) (*video.Video, error) {
	res := r.db.WithContext(ctx).Model(&entities.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to increment views", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *Repository) List(ctx context.Context, params video.ListParams) ([]*video.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Video{})
	if params.Search != "" {
		query = query.Where(searchVector+" @@ plainto_tsquery('english', ?)", params.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count videos", err)
	}

	if params.Search != "" {
		query = query.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ts_rank(" + searchVector + ", plainto_tsquery('english', ?)) DESC, created_at DESC",
			Vars:               []interface{}{params.Search},
			WithoutParentheses: true,
		}})
	} else {
		query = query.Order("created_at DESC")
	}

	var rows []entities.Video
	err := query.Preload("Owner").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list videos", err)
	}
	return toDomainSlice(rows), total, nil
}

func (r *Repository) FindByOwner(ctx context.Context, ownerID string) ([]*video.Video, error) {
	var rows []entities.Video
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list owner videos", err)
	}
	return toDomainSlice(rows), nil
}

// FindRelated returns videos sharing at least one tag with the source,
// newest first. With no tags every other video matches.
func (r *Repository) FindRelated(ctx context.Context, sourceID string, tags []string, limit int) ([]*video.Video, error) {
	query := r.db.WithContext(ctx).Preload("Owner").Where("id <> ?", sourceID)
	if len(tags) > 0 {
		query = query.Where("tags && ?", pq.Array(tags))
	}

	var rows []entities.Video
	err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find related videos", err)
	}
	return toDomainSlice(rows), nil
}

func (r *Repository) FindMostViewed(ctx context.Context, excludeIDs []string, limit int) ([]*video.Video, error) {
	query := r.db.WithContext(ctx).Preload("Owner")
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var rows []entities.Video
	err := query.Order("views DESC, created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find most viewed videos", err)
	}
	return toDomainSlice(rows), nil
}

// Update persists the editable fields only. The view counter is owned by
// IncrementViews; writing it here would clobber concurrent increments with
// the caller's stale snapshot.
func (r *Repository) Update(ctx context.Context, v *video.Video) error {
	err := r.db.WithContext(ctx).Model(&entities.Video{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"title":         v.Title,
			"description":   v.Description,
			"thumbnail_url": v.ThumbnailURL,
			"video_url":     v.VideoURL,
			"tags":          pq.StringArray(v.Tags),
		}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update video", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Video{}).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to delete video", err)
	}
	return nil
}

func toEntity(v *video.Video) *entities.Video {
	return &entities.Video{
		ID:           v.ID,
		OwnerID:      v.OwnerID,
		Title:        v.Title,
		Description:  v.Description,
		ThumbnailURL: v.ThumbnailURL,
		VideoURL:     v.VideoURL,
		Tags:         pq.StringArray(v.Tags),
		Views:        v.Views,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toDomain(e *entities.Video) *video.Video {
	return &video.Video{
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

func toDomainSlice(rows []entities.Video) []*video.Video {
	out := make([]*video.Video, 0, len(rows))
	for i := range rows {
		out = append(out, toDomain(&rows[i]))
	}
	return out
}
