package entities

import "time"

// User represents a persisted account, which doubles as a channel.
type User struct {
	ID                 string    `gorm:"type:varchar(40);primaryKey"`
	Username           string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash       string    `gorm:"type:varchar(100);not null"`
	Role               string    `gorm:"type:varchar(16);not null;default:user"`
	AvatarURL          string    `gorm:"type:varchar(512)"`
	ChannelDescription string    `gorm:"type:varchar(2000)"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
