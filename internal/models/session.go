package models

import "time"

// UserSession is written by the external sign-in flow and read by the auth
// middleware. Only the email is checked against the allow list.
type UserSession struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
