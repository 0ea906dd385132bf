// Package userservice manages business logic layer of users.
package userservice

import (
	"context"
	"errors"
	"strings"

	"github.com/go-petr/portfolio-tracker/internal/domain"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, username string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user business logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// Login returns the user with the given username, creating it on first
// login. Losing a creation race to a concurrent login falls back to a
// re-fetch.
func (s *Service) Login(ctx context.Context, username string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrUsernameRequired
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	user, err = s.repo.Create(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			l.Info().Str("username", username).Msg("lost login creation race")
			return s.repo.GetByUsername(ctx, username)
		}

		return domain.User{}, err
	}

	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.repo.Get(ctx, id)
}
