package entities

import "time"

// History is a watch event edge. Repeat views update WatchedAt in place
// rather than accumulating rows per (user, video) pair.
type History struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_histories_user_video;index"`
	VideoID   string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_histories_user_video;index"`
	Video     Video     `gorm:"foreignKey:VideoID"`
	WatchedAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (History) TableName() string {
	return "histories"
}
