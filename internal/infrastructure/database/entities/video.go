package entities

import (
	"time"

	"github.com/lib/pq"
)

// Video represents a persisted catalog record. The media bytes live in the
// storage backend; this row only carries the retrievable URLs.
type Video struct {
	ID           string         `gorm:"type:varchar(40);primaryKey"`
	OwnerID      string         `gorm:"type:varchar(40);index;not null"`
	Owner        User           `gorm:"foreignKey:OwnerID"`
	Title        string         `gorm:"type:varchar(120);not null"`
	Description  string         `gorm:"type:varchar(2000)"`
	ThumbnailURL string         `gorm:"type:varchar(512);not null"`
	VideoURL     string         `gorm:"type:varchar(512);not null"`
	Tags         pq.StringArray `gorm:"type:text[]"`
	Views        int64          `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index:idx_videos_created_at,sort:desc"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (Video) TableName() string {
	return "videos"
}
