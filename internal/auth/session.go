package auth

import (
	"errors"
	"fmt"
	"time"

	"churchportal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var ErrNoToken = errors.New("no bearer token configured")

// Claims are the fields the backend puts in the bearer token it issues
type Claims struct {
	MemberID string        `json:"id"`
	Name     string        `json:"name,omitempty"`
	Email    string        `json:"email,omitempty"`
	Role     models.Role   `json:"role"`
	Family   models.Family `json:"family,omitempty"`
	jwt.RegisteredClaims
}

// Session is the identity the data layer acts on behalf of
type Session struct {
	MemberID  string
	Name      string
	Role      models.Role
	Family    models.Family
	ExpiresAt time.Time
}

// Guest is the session of a visitor who has not signed in
func Guest() *Session {
	return &Session{Role: models.RoleGuest}
}

// IsExpired checks if the session has expired; sessions without expiry never do
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// IsGuest reports whether no member is signed in
func (s *Session) IsGuest() bool {
	return s == nil || s.Role == models.RoleGuest
}

// StaticToken wraps a raw bearer token as a token source
func StaticToken(token string) oauth2.TokenSource {
	if token == "" {
		return nil
	}
	return oauth2.ReuseTokenSource(nil, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

// ParseClaims reads the claims of a token without verifying its signature.
// The backend verifies every request; the client only needs the role to
// decide which dashboards and actions to offer.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Role != models.RoleGuest && !claims.Role.IsValid() {
		return nil, fmt.Errorf("token carries unknown role %q", claims.Role)
	}
	return claims, nil
}

// SessionFromTokenSource derives the session from the current bearer token.
// A nil source yields the guest session.
func SessionFromTokenSource(ts oauth2.TokenSource) (*Session, error) {
	if ts == nil {
		return Guest(), nil
	}
	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, ErrNoToken
	}

	claims, err := ParseClaims(token.AccessToken)
	if err != nil {
		return nil, err
	}

	session := &Session{
		MemberID: claims.MemberID,
		Name:     claims.Name,
		Role:     claims.Role,
		Family:   claims.Family,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	if session.IsExpired() {
		return nil, fmt.Errorf("token expired at %s", session.ExpiresAt.Format(time.RFC3339))
	}
	return session, nil
}
