package domain

import "time"

// Group names used for role checks.
const (
	GroupAdmin  = "Admin"
	GroupClient = "Client"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	Groups       []string  `json:"groups,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Profile      *Profile  `json:"profile,omitempty"`
}

// Profile is the 1:1 companion record of a User. It is created empty
// together with the user and filled in afterwards.
type Profile struct {
	ID          string `json:"id"`
	UserID      string `json:"-"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	PictureURL  string `json:"profile_picture,omitempty"`
	Bio         string `json:"bio"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}
