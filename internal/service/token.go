package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/classboard/gateway/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired credentials.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMissingAdminID means the signature checked out but the payload has no
	// admin id; such a caller is still untrusted.
	ErrMissingAdminID = errors.New("token payload missing admin id")
)

// CallerIdentity is the verified identity attached to a request's context.
type CallerIdentity struct {
	AID  int64
	Role string
}

func (i CallerIdentity) IsSuperAdmin() bool {
	return i.Role == models.RoleSuperAdmin
}

type TokenService struct {
	jwtSecret []byte // Stored in env (JWT_SECRET)
	jwtExpiry time.Duration
}

func NewTokenService(secret string, expiryHours int) *TokenService {
	return &TokenService{
		jwtSecret: []byte(secret),
		jwtExpiry: time.Duration(expiryHours) * time.Hour,
	}
}

// Signs a JWT carrying the admin id and role
func (s *TokenService) IssueToken(admin *models.Admin) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"aid":  admin.AID,
		"role": admin.Role,
		"exp":  time.Now().Add(s.jwtExpiry).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken validates signature and expiry and extracts the caller
// identity. Stateless: no store access.
func (s *TokenService) VerifyToken(tokenString string) (*CallerIdentity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Verifying signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	// JSON numbers decode as float64
	aid, ok := claims["aid"].(float64)
	if !ok {
		return nil, ErrMissingAdminID
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = models.RoleAdmin
	}

	return &CallerIdentity{AID: int64(aid), Role: role}, nil
}
