package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// queries holds the dialect-specific statements.
type queries struct {
	insert    string
	find      string
	revoke    string
	tokenType string
}

var postgresQueries = queries{
	insert: `INSERT INTO refresh_tokens (id, token, user_id, token_type_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
	find: `SELECT id, token, user_id, token_type_id, created_at FROM refresh_tokens
		WHERE user_id = $1 AND token = $2`,
	revoke: `DELETE FROM refresh_tokens
		WHERE user_id = $1 AND token = $2`,
	tokenType: `SELECT id FROM token_types WHERE key = $1`,
}

var sqliteQueries = queries{
	insert: `INSERT INTO refresh_tokens (id, token, user_id, token_type_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
	find: `SELECT id, token, user_id, token_type_id, created_at FROM refresh_tokens
		WHERE user_id = ? AND token = ?`,
	revoke: `DELETE FROM refresh_tokens
		WHERE user_id = ? AND token = ?`,
	tokenType: `SELECT id FROM token_types WHERE key = ?`,
}

// SQLRepository implements Repository over dbx.DBTX (satisfied by *sql.DB
// or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
	q  queries
}

// NewPostgresRepository constructs a repository using $n placeholders.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}

// NewSQLiteRepository constructs a repository using ? placeholders.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries}
}

func (r *SQLRepository) Save(ctx context.Context, t *models.RefreshToken) error {
	if _, err := r.db.ExecContext(ctx, r.q.insert, t.ID, t.Token, t.UserID, t.TokenTypeID, t.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindBySubjectAndValue(ctx context.Context, userID, token string) (*models.RefreshToken, error) {
	t := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, r.q.find, userID, token).
		Scan(&t.ID, &t.Token, &t.UserID, &t.TokenTypeID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NotFound("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SQLRepository) RevokeBySubjectAndValue(ctx context.Context, userID, token string) error {
	res, err := r.db.ExecContext(ctx, r.q.revoke, userID, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.NotFound("refresh token not found")
	}
	return nil
}

func (r *SQLRepository) TokenTypeID(ctx context.Context, key string) (string, error) {
	var id string
	if err := r.db.QueryRowContext(ctx, r.q.tokenType, key).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.NotFound("token type " + key + " not found")
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}
