package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/keys"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// memSource serves PEM files from memory.
type memSource map[string][]byte

func (m memSource) Read(_ context.Context, name string) ([]byte, error) {
	b, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return b, nil
}

var (
	pemOnce  sync.Once
	pemFiles memSource
)

func testKeys(t *testing.T) *keys.Provider {
	t.Helper()
	pemOnce.Do(func() {
		pemFiles = memSource{}
		for _, p := range auth.Purposes {
			priv, pub, err := keys.GeneratePair(keys.DefaultBits)
			if err != nil {
				panic(err)
			}
			pemFiles[keys.PrivateKeyName(p.String())] = priv
			pemFiles[keys.PublicKeyName(p.String())] = pub
		}
	})
	return keys.NewProvider(pemFiles)
}

var testLifetimes = auth.Lifetimes{
	Access:  15 * time.Minute,
	Refresh: 24 * time.Hour,
	Recover: 30 * time.Minute,
}

type env struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	codec    *auth.Codec
	sessions *SessionService
	users    *UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	rm, err := repomanager.New("sqlite")
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	codec := auth.NewCodec(testKeys(t), testLifetimes)
	hasher := cryptox.NewBcryptHasher(bcrypt.MinCost)

	return &env{
		db:       db,
		rm:       rm,
		codec:    codec,
		sessions: NewSessionService(db, rm, codec, hasher, logging.Nop{}),
		users:    NewUserService(db, rm, hasher),
	}
}

// pastCodec issues tokens as if it were ago in the past.
func pastCodec(t *testing.T, ago time.Duration) *auth.Codec {
	t.Helper()
	return auth.NewCodec(testKeys(t), testLifetimes, auth.WithClock(func() time.Time {
		return time.Now().Add(-ago)
	}))
}

func (e *env) countRefreshTokens(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT count(*) FROM refresh_tokens`).Scan(&n))
	return n
}

func (e *env) countUsers(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT count(*) FROM users`).Scan(&n))
	return n
}
