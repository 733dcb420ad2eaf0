// Package refreshtokens persists issued refresh tokens so they can be looked
// up on refresh and revoked on sign-out.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository stores refresh tokens keyed by (user, token value).
type Repository interface {
	// Save inserts a new record.
	Save(ctx context.Context, token *models.RefreshToken) error

	// FindBySubjectAndValue returns the record matching both fields exactly
	// or a NotFound error.
	FindBySubjectAndValue(ctx context.Context, userID, token string) (*models.RefreshToken, error)

	// RevokeBySubjectAndValue deletes the matching record. Revoking a record
	// that does not exist is a NotFound error, not a no-op.
	RevokeBySubjectAndValue(ctx context.Context, userID, token string) error

	// TokenTypeID resolves a token type key such as "refresh".
	TokenTypeID(ctx context.Context, key string) (string, error)
}
