// Package services contains server-side business logic: issuing and revoking
// sessions, authenticating requests and reading user profiles.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// refreshTokenTypeKey is the token type recorded for persisted refresh tokens.
const refreshTokenTypeKey = "refresh"

// Session is returned by SignIn and SignUp.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Refreshed is returned by RefreshAccessToken.
type Refreshed struct {
	AccessToken string
	UserID      string
}

// SessionService issues, refreshes and revokes sessions.
//
// Refresh tokens are not rotated on use: a refresh token stays valid until it
// expires or is revoked by SignOut.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       auth.TokenCodec
	hasher      cryptox.PasswordHasher
	logger      logging.Logger
	now         func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, codec auth.TokenCodec,
	hasher cryptox.PasswordHasher, logger logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		codec:       codec,
		hasher:      hasher,
		logger:      logger.With("module", "session"),
		now:         time.Now,
	}
}

// SignIn checks credentials and issues a new access/refresh pair.
// Unknown emails surface as NotFound, wrong passwords as Unauthorized.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return nil, common.Unauthorized("invalid credentials")
		}
		return nil, common.Internal("compare password", err)
	}

	session, err := s.issue(ctx, s.repomanager.RefreshTokens(s.db), user)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "signed in", "user_id", user.ID)
	return session, nil
}

// SignUp creates the user and its first session in one transaction.
// A taken email surfaces as Conflict.
func (s *SessionService) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	hash, err := hashPassword(s.hasher, password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var session *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		var err error
		session, err = s.issue(ctx, s.repomanager.RefreshTokens(tx), user)
		return err
	})
	if err != nil {
		if session != nil {
			s.discard(ctx, user.ID, session.RefreshToken)
		}
		return nil, err
	}

	s.logger.Info(ctx, "signed up", "user_id", user.ID)
	return session, nil
}

// SignOut revokes refreshToken. The token must verify, belong to userID and
// still be stored; otherwise the call fails with Unauthorized.
func (s *SessionService) SignOut(ctx context.Context, userID, refreshToken string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	if claims.Subject != userID {
		s.logger.Warn(ctx, "sign-out with foreign refresh token", "user_id", userID)
		return common.Unauthorized("refresh token does not belong to user")
	}

	err = s.repomanager.RefreshTokens(s.db).RevokeBySubjectAndValue(ctx, userID, refreshToken)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return common.Unauthorized("session not active")
		}
		return err
	}

	s.logger.Info(ctx, "signed out", "user_id", userID)
	return nil
}

// RefreshAccessToken mints a new access token for a valid, stored refresh
// token. The refresh token itself is left untouched.
func (s *SessionService) RefreshAccessToken(ctx context.Context, refreshToken string) (*Refreshed, error) {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	_, err = s.repomanager.RefreshTokens(s.db).FindBySubjectAndValue(ctx, claims.Subject, refreshToken)
	if err != nil {
		if common.IsKind(err, common.KindNotFound) {
			return nil, common.Unauthorized("refresh token revoked")
		}
		return nil, err
	}

	access, err := s.codec.Issue(ctx, claims.Subject, auth.Access)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "access token refreshed", "user_id", claims.Subject)
	return &Refreshed{AccessToken: access, UserID: claims.Subject}, nil
}

// discard removes a refresh token saved in a transaction that did not commit.
// Stores outside the SQL transaction (Redis) keep such records otherwise.
func (s *SessionService) discard(ctx context.Context, userID, token string) {
	err := s.repomanager.RefreshTokens(s.db).RevokeBySubjectAndValue(ctx, userID, token)
	if err != nil && !common.IsKind(err, common.KindNotFound) {
		s.logger.Error(ctx, "discard refresh token after rollback", "user_id", userID, "error", err)
	}
}

// verifyRefresh narrows verification failures to Unauthorized, except key
// problems which stay KeyUnavailable.
func (s *SessionService) verifyRefresh(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, common.Unauthorized("refresh token missing")
	}
	claims, err := s.codec.Verify(ctx, token, auth.Refresh)
	if err != nil {
		switch common.KindOf(err) {
		case common.KindKeyUnavailable:
			s.logger.Error(ctx, "refresh key unavailable", "error", err)
			return nil, err
		case common.KindTokenExpired:
			return nil, common.Unauthorized("refresh token expired")
		default:
			s.logger.Warn(ctx, "invalid refresh token", "error", err)
			return nil, common.Unauthorized("invalid refresh token")
		}
	}
	return claims, nil
}

// issue signs an access/refresh pair for user and persists the refresh token
// through repo.
func (s *SessionService) issue(ctx context.Context, repo refreshtokens.Repository, user *models.User) (*Session, error) {
	access, err := s.codec.Issue(ctx, user.ID, auth.Access)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(ctx, user.ID, auth.Refresh)
	if err != nil {
		return nil, err
	}

	typeID, err := repo.TokenTypeID(ctx, refreshTokenTypeKey)
	if err != nil {
		return nil, err
	}

	err = repo.Save(ctx, &models.RefreshToken{
		ID:          uuid.NewString(),
		Token:       refresh,
		UserID:      user.ID,
		TokenTypeID: typeID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// hashPassword keeps Validation errors from the hasher and tags the rest as
// Internal.
func hashPassword(h cryptox.PasswordHasher, password string) (string, error) {
	hash, err := h.Hash(password)
	if err != nil {
		if common.IsKind(err, common.KindValidation) {
			return "", err
		}
		return "", common.Internal("hash password", err)
	}
	return hash, nil
}
