// Package service implements the backend auth provider: credential sign-in
// issuing short-lived access JWTs paired with rotating refresh tokens.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ticketdesk_backend/internal/auth/password"
	"ticketdesk_backend/internal/auth/repository"
	"ticketdesk_backend/internal/auth/token"
	"ticketdesk_backend/internal/events"
	"ticketdesk_backend/platform/config"
	"ticketdesk_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")

const accessTokenType = "access"

// defaultRole is granted on sign-up; role elevation is a manual operation.
const defaultRole = "user"

// refreshTokenRetention keeps dead refresh tokens around briefly for audit
// before the purge job deletes them.
const refreshTokenRetention = 24 * time.Hour

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// TokenPair is an access JWT plus its refresh counterpart.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SignUp registers a backend user with the default role and signs them in.
func (s *Service) SignUp(ctx context.Context, email, plainPassword, company string) (TokenPair, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.repo.CreateUser(ctx, normalizeEmail(email), hash, strings.TrimSpace(company))
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.repo.SetUserRoles(ctx, user.ID, []string{defaultRole}); err != nil {
		return TokenPair{}, err
	}

	s.bus.Publish(ctx, events.UserSignedUp{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID.String(),
		Email:     user.Email,
	})
	s.log.AuthEvent("backend_sign_up", user.ID.String(), true, "")

	return s.issueTokens(ctx, user)
}

// SignIn verifies credentials and issues a token pair.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("backend_sign_in", user.ID.String(), false, "bad password")
		return TokenPair{}, ErrInvalidCredentials
	}

	s.log.AuthEvent("backend_sign_in", user.ID.String(), true, "")
	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return TokenPair{}, ErrTokenInvalid
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return TokenPair{}, ErrTokenExpired
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return TokenPair{}, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return TokenPair{}, ErrTokenInvalid
	}
	return s.issueTokens(ctx, user)
}

// SignOut revokes the presented refresh token. The access token simply
// expires; nothing else to revoke server-side.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// PurgeExpiredTokens is the scheduler entry point for refresh-token cleanup.
func (s *Service) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	purged, err := s.repo.PurgeExpiredRefreshTokens(ctx, refreshTokenRetention)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.log.Info("expired refresh tokens purged", "count", purged)
	}
	return purged, nil
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (TokenPair, error) {
	roles, err := s.repo.GetUserRoles(ctx, user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	accessToken, err := s.signAccessJWT(user, roles)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return TokenPair{}, err
	}
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// signAccessJWT embeds the claims the session resolver consumes: subject,
// email, company, and roles, tagged as an access token.
func (s *Service) signAccessJWT(user repository.User, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.ID.String(),
		"email":   user.Email,
		"company": user.Company,
		"roles":   roles,
		"type":    accessTokenType,
		"exp":     now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":     now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

// SetUserRoles replaces a user's role set.
func (s *Service) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	return s.repo.SetUserRoles(ctx, userID, roles)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
