// Package auth implements token-based authentication and the authorization
// gate that fronts every protected endpoint.
package auth

import "time"

// User is the credential-store view of an account. AccessToken/TokenExpiry
// model the single active session: both set means a live session, either
// absent means none. Timestamps are interpreted as UTC.
type User struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Mobile         string     `json:"mobile"`
	DOB            *time.Time `json:"dob,omitempty"`
	FatherName     *string    `json:"father_name,omitempty"`
	MotherName     *string    `json:"mother_name,omitempty"`
	HashedPassword string     `json:"-"`
	AccessToken    *string    `json:"-"`
	TokenExpiry    *time.Time `json:"-"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	Roles          []string   `json:"roles,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasActiveToken reports whether both session fields are present.
func (u *User) HasActiveToken() bool {
	return u != nil && u.AccessToken != nil && *u.AccessToken != "" && u.TokenExpiry != nil
}
