package models

import "time"

// RefreshToken is a persisted refresh token. A (UserID, Token) pair
// identifies at most one active record.
type RefreshToken struct {
	ID          string
	Token       string
	UserID      string
	TokenTypeID string
	CreatedAt   time.Time
}

// TokenType maps a symbolic key such as "refresh" to its identifier.
type TokenType struct {
	ID  string
	Key string
}
