// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The password is stored only as a bcrypt hash — the `json:"-"` tag ensures
// it can never leak into an API response, no matter which handler encodes
// the struct. Email carries a UNIQUE constraint in the database: one account
// per email address.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar"` // gravatar URL derived from the email
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is the slice of a User embedded in profile responses — just enough
// for a client to render the profile owner without a second lookup.
type UserRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar"`
}
