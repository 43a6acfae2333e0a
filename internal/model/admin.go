package model

import "time"

// Admin is an administrator account. OTPCode and OTPExpiresAt are either both
// set (a password reset is pending) or both nil.
type Admin struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	ProfileImage string     `json:"profile_image,omitempty"`
	OTPCode      *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// HasPendingReset reports whether an OTP has been issued and not yet consumed.
func (a *Admin) HasPendingReset() bool {
	return a.OTPCode != nil && a.OTPExpiresAt != nil
}

// AdminUpdate carries the fields of a partial profile update.
type AdminUpdate struct {
	Name         *string
	Email        *string
	ProfileImage *string
}

func (u AdminUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.ProfileImage == nil
}
