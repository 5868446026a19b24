package video

import (
	"time"

	"github.com/funtube/funtube-server/internal/domain/user"
)

// Pagination bounds for the catalog listing.
const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

const (
	recommendationLimit = 8
	historyLimit        = 100
)

// Video is a catalog record. The media bytes live in the storage backend.
type Video struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"-"`
	Owner        user.Summary `json:"owner"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	VideoURL     string       `json:"videoUrl"`
	Tags         []string     `json:"tags"`
	Views        int64        `json:"views"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Enriched is a video joined with the caller-relative like aggregate.
type Enriched struct {
	Video
	LikesCount int64 `json:"likesCount"`
	LikedByMe  bool  `json:"likedByMe"`
}

// ChannelStats carries the owning channel's public fields and the
// caller-relative subscription aggregate on the detail view.
type ChannelStats struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	AvatarURL          string `json:"avatarUrl"`
	ChannelDescription string `json:"channelDescription"`
	SubscriberCount    int64  `json:"subscriberCount"`
	IsSubscribed       bool   `json:"isSubscribed"`
}

// Detail is the full watch-page payload.
type Detail struct {
	Enriched
	Channel ChannelStats `json:"channel"`
}

// Page is one page of the catalog listing.
type Page struct {
	Items   []Enriched `json:"items"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Total   int64      `json:"total"`
	HasMore bool       `json:"hasMore"`
}

// ListParams select and paginate the catalog listing.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// Normalize clamps paging parameters to their documented bounds.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// LikeStatus is the aggregate returned by the like/unlike toggles.
type LikeStatus struct {
	LikesCount int64 `json:"likesCount"`
	LikedByMe  bool  `json:"likedByMe"`
}

// HistoryEntry is one watch event joined with its video.
type HistoryEntry struct {
	WatchedAt time.Time `json:"watchedAt"`
	Video     Video     `json:"video"`
}

// Asset is an uploaded file held in memory between the multipart parse and
// the storage write.
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadInput carries a new video submission.
type UploadInput struct {
	Title       string
	Description string
	Tags        []string
	Video       *Asset
	Thumbnail   *Asset
}

// EditInput carries a partial update. Nil fields are left untouched.
type EditInput struct {
	Title       *string
	Description *string
	Tags        []string
	TagsSet     bool
	Video       *Asset
	Thumbnail   *Asset
}
