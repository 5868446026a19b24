package subscriptionrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/funtube/funtube-server/internal/infrastructure/database/entities"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// Repository is the gorm-backed subscription edge store.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts the edge, relying on ON CONFLICT DO NOTHING against the
// composite unique index so duplicate subscriptions are no-ops.
func (r *Repository) Add(ctx context.Context, subscriberID, channelID string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscriber_id"}, {Name: "channel_id"}},
			DoNothing: true,
		}).
		Create(&entities.Subscription{SubscriberID: subscriberID, ChannelID: channelID}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to add subscription", err)
	}
	return nil
}

func (r *Repository) Remove(ctx context.Context, subscriberID, channelID string) error {
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&entities.Subscription{}).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to remove subscription", err)
	}
	return nil
}

func (r *Repository) CountForChannel(ctx context.Context, channelID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count subscribers", err)
	}
	return count, nil
}

func (r *Repository) CountForSubscriber(ctx context.Context, subscriberID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count subscriptions", err)
	}
	return count, nil
}

func (r *Repository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to check subscription", err)
	}
	return count > 0, nil
}
