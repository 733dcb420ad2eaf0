package admin

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/keys"
)

// Keygen writes a fresh key pair for every purpose to sink. Existing pairs
// are replaced, which invalidates every token signed with them.
func (a *App) Keygen(ctx context.Context, sink keys.Sink) error {
	for _, p := range auth.Purposes {
		priv, pub, err := keys.GeneratePair(a.bits)
		if err != nil {
			return err
		}
		if err := sink.Write(ctx, keys.PrivateKeyName(p.String()), priv); err != nil {
			return err
		}
		if err := sink.Write(ctx, keys.PublicKeyName(p.String()), pub); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "generated %s key pair\n", p)
	}
	return nil
}
