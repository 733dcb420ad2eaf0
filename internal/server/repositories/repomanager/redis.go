package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
)

// tokenTypeKeys are seeded into Redis, matching the SQL seed.
var tokenTypeKeys = []string{"access", "refresh", "verify", "recover"}

// RedisTokensManager keeps users in SQL and refresh tokens in Redis. The
// token store ignores the DBTX, so it does not join SQL transactions.
type RedisTokensManager struct {
	RepositoryManager
	tokens *refreshtokens.RedisRepository
}

func WithRedisTokens(base RepositoryManager, tokens *refreshtokens.RedisRepository) *RedisTokensManager {
	return &RedisTokensManager{RepositoryManager: base, tokens: tokens}
}

func (m *RedisTokensManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.tokens
}

func (m *RedisTokensManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := m.RepositoryManager.RunMigrations(ctx, db); err != nil {
		return err
	}
	return m.tokens.SeedTokenTypes(ctx, tokenTypeKeys...)
}
