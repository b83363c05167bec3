package domain

import "time"

// User represents a registered account as stored by the credential store.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the outward-facing view of a User. It never carries the password hash.
type Profile struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// Profile returns a hash-free copy of the user.
func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
