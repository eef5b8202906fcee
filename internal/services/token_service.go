package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tumbluv/tumbluv-api/internal/config"
)

var (
	ErrInvalidToken           = errors.New("invalid token")
	ErrUnsupportedTokenMethod = errors.New("unsupported token signing method")
)

// Claims is the access token payload
type Claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed access tokens
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	expire time.Duration
	clock  Clock
}

// NewTokenService creates a TokenService for an HMAC algorithm named in config
func NewTokenService(cfg config.JWT, clock Clock) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTokenMethod, cfg.Algorithm)
	}
	if clock == nil {
		clock = time.Now
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		method: method,
		expire: cfg.Expire,
		clock:  clock,
	}, nil
}

// Issue signs a token for the user
func (s *TokenService) Issue(userID uint64) (string, error) {
	now := s.clock()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.expire > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expire))
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry and returns the user id
func (s *TokenService) Parse(raw string) (uint64, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
