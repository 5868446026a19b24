package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/infrastructure/database/entities"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// Repository is the gorm-backed user store.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *user.User) error {
	entity := toEntity(u)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict, "user already exists", err)
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create user", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find user", err)
	}
	return toDomain(&entity), nil
}

// FindByLogin matches a username or email. Callers lowercase emails before
// storage, so the comparison is exact.
func (r *Repository) FindByLogin(ctx context.Context, loginID string) (*user.User, error) {
	var entity entities.User
	err := r.db.WithContext(ctx).Where("username = ? OR email = ?", loginID, loginID).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find user", err)
	}
	return toDomain(&entity), nil
}

func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to check user existence", err)
	}
	return count > 0, nil
}

func toEntity(u *user.User) *entities.User {
	return &entities.User{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		PasswordHash:       u.PasswordHash,
		Role:               u.Role,
		AvatarURL:          u.AvatarURL,
		ChannelDescription: u.ChannelDescription,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func toDomain(e *entities.User) *user.User {
	return &user.User{
		ID:                 e.ID,
		Username:           e.Username,
		Email:              e.Email,
		PasswordHash:       e.PasswordHash,
		Role:               e.Role,
		AvatarURL:          e.AvatarURL,
		ChannelDescription: e.ChannelDescription,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
