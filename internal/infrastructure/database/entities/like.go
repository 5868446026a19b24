package entities

import "time"

// Like is an edge between a user and a video. The composite unique index
// turns concurrent duplicate inserts into no-ops.
type Like struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_likes_user_video;index"`
	VideoID   string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_likes_user_video;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Like) TableName() string {
	return "likes"
}
