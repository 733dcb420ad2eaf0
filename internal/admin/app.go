package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/keys"
)

var ErrUnknownCommand = errors.New("unknown command")

// newSink is a test seam for the configured key store.
var newSink = func(ctx context.Context, c *config.Config) (keys.Sink, error) {
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

type App struct {
	config *config.Config
	reader *bufio.Reader
	out    io.Writer
	bits   int
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) *App {
	return &App{config: c, reader: bufio.NewReader(in), out: out, bits: keys.DefaultBits}
}

// Run executes the command named by the first non-flag argument. Flag
// values belong to the configuration and are skipped.
func (a *App) Run(ctx context.Context, args []string) error {
	switch cmd := command(args); cmd {
	case "keygen":
		sink, err := newSink(ctx, a.config)
		if err != nil {
			return err
		}
		return a.Keygen(ctx, sink)
	case "adduser":
		return a.AddUser(ctx)
	case "", "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "usage: gophauth-admin <keygen|adduser> [config flags]")
}

func command(args []string) string {
	if p := flagx.Positional(args); len(p) > 0 {
		return p[0]
	}
	return ""
}
