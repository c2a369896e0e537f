package models

import "time"

// UserRef is the embedded user reference attached to comments, posts and
// people tags.
type UserRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Roles describes what a user is allowed to do. Creators upload content,
// consumers only browse and leave feedback.
type Roles struct {
	Creator  bool `json:"creator"`
	Consumer bool `json:"consumer"`
}

// Profile is a user's public profile.
type Profile struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     Roles     `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}
