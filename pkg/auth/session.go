package auth

import (
	"context"
	"time"
)

// Session - аутентифицированный пользователь текущего запроса
type Session struct {
	UserID    uint
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

type sessionKey struct{}

// SessionFromClaims строит сессию из проверенных claims
func SessionFromClaims(c *JWTCustomClaims) Session {
	s := Session{UserID: c.UserID, Username: c.Username, TokenID: c.ID}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}

// WithSession кладет сессию в контекст
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom достает сессию из контекста
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
