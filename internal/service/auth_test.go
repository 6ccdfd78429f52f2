package service

import (
	"context"
	"testing"

	"github.com/classboard/gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubAdmins struct {
	admin *models.Admin
	err   error
}

func (s *stubAdmins) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.admin == nil || s.admin.Username != username {
		return nil, nil
	}
	return s.admin, nil
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := NewTokenService(testSecret, 1)
	svc := NewAuthService(&stubAdmins{admin: &models.Admin{
		AID:          3,
		Username:     "alice",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}}, tokens)

	token, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	identity, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), identity.AID)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(&stubAdmins{admin: &models.Admin{
		Username:     "alice",
		PasswordHash: string(hash),
	}}, NewTokenService(testSecret, 1))

	_, err = svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownAdmin(t *testing.T) {
	svc := NewAuthService(&stubAdmins{}, NewTokenService(testSecret, 1))

	_, err := svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
