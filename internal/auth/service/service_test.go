package service

import (
	"context"
	"testing"
	"time"

	"crm_backend/internal/auth/repository"
	"crm_backend/internal/auth/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/store"
	"crm_backend/platform/store/storetest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newTestService(t *testing.T) (*Service, *storetest.Server) {
	t.Helper()
	srv := storetest.New()
	t.Cleanup(srv.Close)
	client := store.New(srv, logger.New("development"))
	return New(repository.New(client), testAuthConfig{}, logger.New("development")), srv
}

func seedUser(t *testing.T, srv *storetest.Server, senha string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	srv.Seed("usuarios", storetest.Row{
		"id":         3,
		"nome":       "Rafael Costa",
		"email":      "rafael@empresa.com.br",
		"senha_hash": string(hash),
	})
}

func TestLogin_IssuesVerifiableAccessToken(t *testing.T) {
	svc, srv := newTestService(t)
	seedUser(t, srv, "segredo123")

	resp, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "rafael@empresa.com.br",
		Senha: "segredo123",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.User.ID)
	assert.Equal(t, "Rafael Costa", resp.User.Nome)

	parsed, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "3", claims["sub"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, "rafael@empresa.com.br", claims["email"])
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	svc, srv := newTestService(t)
	seedUser(t, srv, "segredo123")

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "rafael@empresa.com.br",
		Senha: "errada",
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.GetKind(err))
}

func TestLogin_UnknownEmailAnswersLikeWrongPassword(t *testing.T) {
	svc, srv := newTestService(t)
	seedUser(t, srv, "segredo123")

	_, unknownErr := svc.Login(context.Background(), transport.LoginRequest{
		Email: "naoexiste@empresa.com.br",
		Senha: "segredo123",
	})
	_, wrongErr := svc.Login(context.Background(), transport.LoginRequest{
		Email: "rafael@empresa.com.br",
		Senha: "errada",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestLogin_StoreDownReportsUnavailable(t *testing.T) {
	svc, srv := newTestService(t)
	seedUser(t, srv, "segredo123")
	srv.FailAll(true)

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email: "rafael@empresa.com.br",
		Senha: "segredo123",
	})

	require.Error(t, err)
	assert.Equal(t, apperr.KindUnavailable, apperr.GetKind(err))
}

func TestMe_ReturnsProfile(t *testing.T) {
	svc, srv := newTestService(t)
	seedUser(t, srv, "segredo123")

	user, err := svc.Me(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "Rafael Costa", user.Nome)
	assert.Equal(t, "rafael@empresa.com.br", user.Email)
}

func TestMe_MissingUserIsUnauthorized(t *testing.T) {
	svc, srv := newTestService(t)
	seedUser(t, srv, "segredo123")

	_, err := svc.Me(context.Background(), 99)

	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.GetKind(err))
}
