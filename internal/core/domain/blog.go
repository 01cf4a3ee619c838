package domain

import "time"

// Blog is a post owned by exactly one user.
type Blog struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// IsOwner reports whether user may mutate the blog.
func (b *Blog) IsOwner(user *User) bool {
	return b != nil && user != nil && b.OwnerID == user.ID
}
