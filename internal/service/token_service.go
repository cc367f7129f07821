package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dom/attendance-platform/internal/config"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims are the claims carried by access tokens.
type AccessClaims struct {
	Name string        `json:"name"`
	Type identity.Kind `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens and mints opaque
// refresh tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  time.Duration(cfg.JWTExpirationHours) * time.Hour,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

func (s *TokenService) IssueAccessToken(p identity.Principal) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	claims := AccessClaims{
		Name: p.Username,
		Type: p.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(p.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies an access token and returns its principal.
func (s *TokenService) ValidateToken(tokenString string) (*identity.Principal, error) {
	var claims AccessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	if claims.Type != identity.KindEntityAdmin && claims.Type != identity.KindSuperAdmin {
		return nil, fmt.Errorf("%w: unknown principal type %q", ErrInvalidToken, claims.Type)
	}

	return &identity.Principal{
		Kind:     claims.Type,
		UserID:   uint(id),
		Username: claims.Name,
	}, nil
}

// NewRefreshToken returns a fresh opaque refresh token and its expiry.
func (s *TokenService) NewRefreshToken() (string, time.Time) {
	return uuid.New().String(), s.now().Add(s.refreshTTL)
}

func (s *TokenService) Now() time.Time {
	return s.now()
}
