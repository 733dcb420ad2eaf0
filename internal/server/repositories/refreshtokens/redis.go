package refreshtokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix     = "refresh_token"
	redisTokenTypesKey = "token_types"
)

// RedisRepository keeps refresh tokens as expiring keys. Records vanish once
// the refresh lifetime elapses, so the store never outgrows live sessions.
type RedisRepository struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewRedisRepository returns a repository whose records live for ttl.
func NewRedisRepository(rdb redis.UniversalClient, ttl time.Duration) *RedisRepository {
	return &RedisRepository{rdb: rdb, ttl: ttl}
}

// key hashes the token so key length does not depend on token size.
func (r *RedisRepository) key(userID, token string) string {
	sum := sha256.Sum256([]byte(token))
	return redisKeyPrefix + ":" + userID + ":" + hex.EncodeToString(sum[:])
}

// SeedTokenTypes registers an id for every key that has none yet.
func (r *RedisRepository) SeedTokenTypes(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if err := r.rdb.HSetNX(ctx, redisTokenTypesKey, k, uuid.NewString()).Err(); err != nil {
			return fmt.Errorf("redis error: %w", err)
		}
	}
	return nil
}

func (r *RedisRepository) Save(ctx context.Context, t *models.RefreshToken) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode refresh token: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(t.UserID, t.Token), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) FindBySubjectAndValue(ctx context.Context, userID, token string) (*models.RefreshToken, error) {
	b, err := r.rdb.Get(ctx, r.key(userID, token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.NotFound("refresh token not found")
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	t := &models.RefreshToken{}
	if err := json.Unmarshal(b, t); err != nil {
		return nil, fmt.Errorf("decode refresh token: %w", err)
	}
	// hash collision guard
	if t.Token != token || t.UserID != userID {
		return nil, common.NotFound("refresh token not found")
	}
	return t, nil
}

func (r *RedisRepository) RevokeBySubjectAndValue(ctx context.Context, userID, token string) error {
	n, err := r.rdb.Del(ctx, r.key(userID, token)).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if n == 0 {
		return common.NotFound("refresh token not found")
	}
	return nil
}

func (r *RedisRepository) TokenTypeID(ctx context.Context, key string) (string, error) {
	id, err := r.rdb.HGet(ctx, redisTokenTypesKey, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.NotFound("token type " + key + " not found")
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return id, nil
}
