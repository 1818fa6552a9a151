package models

import "time"

// User is the signed-in identity returned by the directory login endpoint.
type User struct {
	ID            int64      `json:"id" validate:"required"`
	Name          string     `json:"name" validate:"required"`
	Email         string     `json:"email" validate:"required,email"`
	Role          Role       `json:"role" validate:"required,oneof=INTERN ADMIN ENGINEER"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	EmailVerified *time.Time `json:"emailVerified"`
}

// BackendToken carries the opaque access token issued by the backend
// alongside the user record.
type BackendToken struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

// AuthResponse is the login endpoint's success payload.
type AuthResponse struct {
	User         User         `json:"user" validate:"required"`
	BackendToken BackendToken `json:"backend_token" validate:"required"`
}

// SessionStatus tracks where the session is in its lifecycle.
type SessionStatus string

const (
	StatusUnauthenticated SessionStatus = "unauthenticated"
	StatusAuthenticating  SessionStatus = "authenticating"
	StatusAuthenticated   SessionStatus = "authenticated"
)

// Session is the authenticated-identity state held client-side for the
// duration of a console session. It is owned by the session service; other
// components only ever see value copies.
//
// Invariant: Status is StatusAuthenticated if and only if User is set and
// AccessToken is non-empty.
type Session struct {
	User        *User
	AccessToken string
	Status      SessionStatus
}

// Authenticated reports whether the session currently holds a usable identity.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil && s.AccessToken != ""
}
