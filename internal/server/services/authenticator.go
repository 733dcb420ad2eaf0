package services

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
)

// Refresher is the part of SessionService used by RequestAuthenticator.
type Refresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (*Refreshed, error)
}

// Identity is the result of authenticating a request. NewAccessToken is set
// only when the access token had expired and was renewed; the transport must
// hand it back to the client.
type Identity struct {
	UserID         string
	NewAccessToken string
}

// RequestAuthenticator validates the access token of a request and, if it has
// expired, renews it once using the refresh token.
type RequestAuthenticator struct {
	codec     auth.TokenCodec
	refresher Refresher
	logger    logging.Logger
}

func NewRequestAuthenticator(codec auth.TokenCodec, refresher Refresher, logger logging.Logger) *RequestAuthenticator {
	return &RequestAuthenticator{codec: codec, refresher: refresher, logger: logger.With("module", "authenticator")}
}

func (a *RequestAuthenticator) Authenticate(ctx context.Context, accessToken, refreshToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, common.Unauthorized("access token missing")
	}

	claims, err := a.codec.Verify(ctx, accessToken, auth.Access)
	if err == nil {
		return &Identity{UserID: claims.Subject}, nil
	}

	switch common.KindOf(err) {
	case common.KindTokenExpired:
		// handled below
	case common.KindKeyUnavailable:
		a.logger.Error(ctx, "access key unavailable", "error", err)
		return nil, common.Unauthorized("invalid access token")
	default:
		a.logger.Warn(ctx, "invalid access token", "error", err)
		return nil, common.Unauthorized("invalid access token")
	}

	if refreshToken == "" {
		return nil, common.Unauthorized("refresh token missing")
	}

	refreshed, err := a.refresher.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: refreshed.UserID, NewAccessToken: refreshed.AccessToken}, nil
}
