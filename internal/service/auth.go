package service

import (
	"context"
	"errors"

	"github.com/classboard/gateway/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminStore interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type AuthService struct {
	repo   AdminStore
	tokens *TokenService
}

func NewAuthService(repo AdminStore, tokens *TokenService) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
	}
}

// Authenticates an admin and returns a signed JWT
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if admin == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.IssueToken(admin)
}
