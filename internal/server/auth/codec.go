package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// KeyProvider returns the RSA keys for a purpose key such as "access".
// Failures must carry common.KindKeyUnavailable.
type KeyProvider interface {
	PrivateKey(ctx context.Context, purpose string) (*rsa.PrivateKey, error)
	PublicKey(ctx context.Context, purpose string) (*rsa.PublicKey, error)
}

// Claims is the payload of a verified token.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec is implemented by Codec; services depend on it.
type TokenCodec interface {
	Issue(ctx context.Context, subject string, purpose Purpose) (string, error)
	Verify(ctx context.Context, token string, purpose Purpose) (*Claims, error)
}

type Codec struct {
	keys      KeyProvider
	lifetimes Lifetimes
	now       func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(keys KeyProvider, lifetimes Lifetimes, opts ...Option) *Codec {
	c := &Codec{keys: keys, lifetimes: lifetimes, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Issue signs a token for subject with the purpose's private key.
func (c *Codec) Issue(ctx context.Context, subject string, purpose Purpose) (string, error) {
	key, err := c.keys.PrivateKey(ctx, purpose.String())
	if err != nil {
		return "", err
	}

	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
			// unique per token, so two pairs issued within the same second differ
			ID: uuid.NewString(),
		},
	}
	if d := c.lifetimes.of(purpose); d > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(d))
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", common.Internal("sign token", err)
	}
	return s, nil
}

// Verify checks signature and expiry against the purpose's public key.
// An expired token with a valid signature yields a TokenExpired error, any
// other failure TokenInvalid.
func (c *Codec) Verify(ctx context.Context, token string, purpose Purpose) (*Claims, error) {
	key, err := c.keys.PublicKey(ctx, purpose.String())
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuedAt(),
	}
	if c.lifetimes.of(purpose) > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, opts...)
	if err != nil {
		// signature is checked before time claims, so expiry implies a genuine token
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.TokenExpired(err)
		}
		return nil, common.TokenInvalid(err)
	}

	if claims.Subject == "" {
		return nil, common.TokenInvalid(fmt.Errorf("%s token without subject", purpose))
	}
	return claims, nil
}
