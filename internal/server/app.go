// Package server wires the gophauth components together and runs the HTTP
// API and the gRPC health endpoint until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/keys"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/rest"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

const healthCheckInterval = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	closers []io.Closer

	http   *rest.Server
	health *gs.HealthServer
}

// NewApp connects to the stores, runs migrations, loads the signing keys
// and builds both servers. Missing keys fail startup.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.IsProduction())
	app := &App{config: c, logger: logger}

	if err := app.init(ctx); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	db, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return err
	}
	app.db = db
	app.closers = append(app.closers, db)

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return err
	}

	if c.RefreshStore == config.RefreshStoreRedis {
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB})
		app.closers = append(app.closers, rdb)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping error: %w", err)
		}
		rm = repomanager.WithRedisTokens(rm, refreshtokens.NewRedisRepository(rdb, c.RefreshTokenValidityDuration))
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	source, err := app.keySource(ctx)
	if err != nil {
		return err
	}
	provider := keys.NewProvider(source)
	for _, p := range []auth.Purpose{auth.Access, auth.Refresh} {
		if _, err := provider.PrivateKey(ctx, p.String()); err != nil {
			return err
		}
		if _, err := provider.PublicKey(ctx, p.String()); err != nil {
			return err
		}
	}

	codec := auth.NewCodec(provider, auth.Lifetimes{
		Access:  c.AccessTokenValidityDuration,
		Refresh: c.RefreshTokenValidityDuration,
		Recover: c.RecoveryTokenValidityDuration,
	})

	hasher := cryptox.NewBcryptHasher(bcrypt.DefaultCost)
	sessions := services.NewSessionService(db, rm, codec, hasher, app.logger)
	authn := services.NewRequestAuthenticator(codec, sessions, app.logger)
	users := services.NewUserService(db, rm, hasher)
	cookies := rest.NewCookieManager(c.IsProduction(), c.CookieDomain, c.RefreshTokenValidityDuration)

	app.http, err = rest.NewServer(c.HTTPAddr, app.logger, sessions, users, authn, cookies)
	if err != nil {
		return err
	}
	app.health = gs.NewHealthServer(c.HealthAddrGRPC, app.logger, db.PingContext, healthCheckInterval)
	return nil
}

func (app *App) keySource(ctx context.Context) (keys.Source, error) {
	c := app.config
	if c.KeySource == config.KeySourceS3 {
		return keys.NewS3Source(ctx, keys.S3Options{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Prefix:       c.S3KeyPrefix,
		})
	}
	return keys.NewFileSource(c.KeysDir), nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				app.logger.Error(ctx, name+" failed", "error", err)
				cancelFunc()
			}
		}()
	}
	run("http server", app.http.Run)
	run("grpc health server", app.health.Run)

	wg.Wait()
	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close", "error", err)
		}
	}
	app.closers = nil
}
