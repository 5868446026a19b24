package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/funtube/funtube-server/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	models := []interface{}{
		&entities.User{},
		&entities.Video{},
		&entities.Like{},
		&entities.Subscription{},
		&entities.History{},
	}
	for _, model := range models {
		if err := db.WithContext(ctx).AutoMigrate(model); err != nil {
			return err
		}
	}

	// Full-text index backing the catalog search; AutoMigrate cannot express it.
	searchIndex := `CREATE INDEX IF NOT EXISTS idx_videos_search
		ON videos USING GIN (to_tsvector('english', title || ' ' || coalesce(description, '')))`
	if err := db.WithContext(ctx).Exec(searchIndex).Error; err != nil {
		return err
	}

	log.Info().Msg("applied database migrations")
	return nil
}
