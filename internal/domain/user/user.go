package user

import "time"

// Roles assignable to an account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultChannelDescription is applied when an account is created without one.
const DefaultChannelDescription = "Welcome to my channel"

// User is an account. Every account doubles as a channel.
type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Role               string    `json:"role"`
	AvatarURL          string    `json:"avatarUrl"`
	ChannelDescription string    `json:"channelDescription"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Summary carries the public fields embedded in video and history payloads.
type Summary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() Summary {
	return Summary{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
