package auth

import (
	"time"

	"github.com/demo-credit/wallet_ledger/internal/config"
	"github.com/demo-credit/wallet_ledger/internal/identity"
)

// Service issues and verifies access tokens.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a token service from the JWT settings in cfg.
func NewService(cfg config.Config) *Service {
	return &Service{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.AppName,
		ttl:    cfg.AccessTokenTTL,
		now:    time.Now,
	}
}

// AccessToken is returned to clients after a successful sign-in.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login issues an access token for an already authenticated user.
func (s *Service) Login(user identity.User) (AccessToken, error) {
	now := s.now()
	token, exp, err := signAccessToken(s.secret, s.issuer, s.ttl, user.ID, user.Email, now)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{AccessToken: token, ExpiresIn: int64(exp.Sub(now).Seconds())}, nil
}

// Verify checks the token signature and expiry and returns the caller id.
func (s *Service) Verify(token string) (int64, error) {
	claims, err := parseAccessToken(s.secret, token)
	if err != nil {
		return 0, err
	}
	return claims.UserID()
}
