package model

import "time"

// User is an end-user account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate carries the fields of a partial profile update. Nil fields are
// left untouched.
type UserUpdate struct {
	Name         *string
	Phone        *string
	Email        *string
	ProfileImage *string
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.Email == nil && u.ProfileImage == nil
}
