package channel

import (
	"time"

	"github.com/funtube/funtube-server/internal/domain/video"
)

// Profile is a channel's public page: the owner's public fields, the
// caller-relative subscription aggregate, and the channel's videos.
type Profile struct {
	ID                 string           `json:"id"`
	Username           string           `json:"username"`
	AvatarURL          string           `json:"avatarUrl"`
	ChannelDescription string           `json:"channelDescription"`
	CreatedAt          time.Time        `json:"createdAt"`
	SubscriberCount    int64            `json:"subscriberCount"`
	IsSubscribed       bool             `json:"isSubscribed"`
	Videos             []video.Enriched `json:"videos"`
}

// MyProfile is the owner's own channel page, with private fields the public
// view omits.
type MyProfile struct {
	Profile
	Email              string `json:"email"`
	SubscriptionsCount int64  `json:"subscriptionsCount"`
}

// SubscribeStatus is the aggregate returned by the subscribe toggles.
type SubscribeStatus struct {
	SubscriberCount int64 `json:"subscriberCount"`
	IsSubscribed    bool  `json:"isSubscribed"`
}
