package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is one slice of the user list. PageCount is at least 1.
type Page struct {
	Users     []*models.User
	Page      int
	Limit     int
	Total     int
	PageCount int
}

// UserService reads and creates user profiles.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
	now         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher, now: time.Now}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// Create stores a new user without issuing a session. A taken email
// surfaces as Conflict.
func (s *UserService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
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
	if err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns page (1-based) of users. Out-of-range arguments are clamped:
// limit to DefaultPageLimit when not positive and to MaxPageLimit above it,
// page into [1, PageCount].
func (s *UserService) List(ctx context.Context, page, limit int) (*Page, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	repo := s.repomanager.Users(s.db)
	total, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	pageCount := (total + limit - 1) / limit
	if pageCount < 1 {
		pageCount = 1
	}
	if page > pageCount {
		page = pageCount
	}
	if page < 1 {
		page = 1
	}

	list, err := repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.User{}
	}
	return &Page{Users: list, Page: page, Limit: limit, Total: total, PageCount: pageCount}, nil
}
