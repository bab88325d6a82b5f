package domain

import "time"

// Review is a user's rating of a service, at most one per (service, user).
type Review struct {
	ID        string    `json:"id"`
	ServiceID string    `json:"service"`
	UserID    string    `json:"-"`
	Username  string    `json:"user"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
