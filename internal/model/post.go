package model

import "time"

// Post is a piece of user-generated content owned by a user. The API in this
// service never serves posts directly — the model exists so account deletion
// can cascade over them (posts are removed before the profile and the user).
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
