package entities

import "time"

// Subscription is an edge between a subscriber and a channel (both users).
type Subscription struct {
	ID           uint      `gorm:"primaryKey"`
	SubscriberID string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_subscriptions_subscriber_channel;index"`
	ChannelID    string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_subscriptions_subscriber_channel;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
