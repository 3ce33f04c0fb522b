package client

import (
	"time"

	"github.com/noah-isme/sis-api/internal/models"
)

// Session is the authenticated identity a Client acts as. Fields are fixed at
// login; refreshing yields a new Session.
type Session struct {
	user         models.UserInfo
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// NewSession builds a session from a login or refresh response.
func NewSession(res models.LoginResponse) *Session {
	return &Session{
		user:         res.User,
		accessToken:  res.AccessToken,
		refreshToken: res.RefreshToken,
		expiresAt:    res.ExpiresAt,
	}
}

func (s *Session) User() models.UserInfo { return s.user }
func (s *Session) UserID() string { return s.user.ID }
func (s *Session) Role() models.UserRole { return s.user.Role }
func (s *Session) AccessToken() string { return s.accessToken }
func (s *Session) RefreshToken() string { return s.refreshToken }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Expired reports whether the access token is unusable at now. A nil session
// is always expired.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.accessToken == "" {
		return true
	}
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// rotated keeps the user identity when a refresh response omits it.
func (s *Session) rotated(res models.LoginResponse) *Session {
	next := NewSession(res)
	if next.user.ID == "" {
		next.user = s.user
	}
	if next.refreshToken == "" {
		next.refreshToken = s.refreshToken
	}
	return next
}
