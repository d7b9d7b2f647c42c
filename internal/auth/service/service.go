package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"crm_backend/internal/auth/repository"
	"crm_backend/internal/auth/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgStoreUnavailable   = "data store unavailable"
)

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Login verifies the credentials and issues a signed access token. A missing
// user and a wrong password both answer with the same message, so the
// endpoint does not leak which addresses have accounts.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.AuthEvent("login", req.Email, false, "unknown email")
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		s.log.StoreError("auth.login", "usuarios", err)
		return transport.LoginResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)) != nil {
		s.log.AuthEvent("login", req.Email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.issueAccessToken(user)
	if err != nil {
		return transport.LoginResponse{}, apperr.Internal("could not issue token")
	}

	s.log.AuthEvent("login", req.Email, true, "")
	return transport.LoginResponse{
		Token: token,
		User:  transport.UserResponse{ID: user.ID, Nome: user.Nome, Email: user.Email},
	}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID int64) (transport.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.UserResponse{}, apperr.Unauthorized("account no longer exists")
	}
	if err != nil {
		s.log.StoreError("auth.me", "usuarios", err)
		return transport.UserResponse{}, apperr.Unavailable(msgStoreUnavailable)
	}
	return transport.UserResponse{ID: user.ID, Nome: user.Nome, Email: user.Email}, nil
}

func (s *Service) issueAccessToken(user repository.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
