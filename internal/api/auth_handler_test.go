package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	h := NewAuthHandler(env.authService, testLogger())

	t.Run("creates account and returns token", func(t *testing.T) {
		rec := env.doJSON(t, h.Register, http.MethodPost, "/api/auth/register", RegisterRequest{
			Name:     "Ada Lovelace",
			Email:    "ada@example.com",
			Password: "correct-horse-battery",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody[AuthResponse](t, rec)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "ada@example.com", body.Learner.Email)
		assert.NotEmpty(t, body.Learner.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := env.doJSON(t, h.Register, http.MethodPost, "/api/auth/register", RegisterRequest{
			Name:     "Ada Again",
			Email:    "ada@example.com",
			Password: "correct-horse-battery",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		rec := env.doJSON(t, h.Register, http.MethodPost, "/api/auth/register", RegisterRequest{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[map[string]any](t, rec)
		assert.NotContains(t, body["error"], "short", "submitted value must not be echoed back")
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	h := NewAuthHandler(env.authService, testLogger())

	rec := env.doJSON(t, h.Register, http.MethodPost, "/api/auth/register", RegisterRequest{
		Name:     "Grace Hopper",
		Email:    "grace@example.com",
		Password: "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("valid credentials", func(t *testing.T) {
		rec := env.doJSON(t, h.Login, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "grace@example.com",
			Password: "correct-horse-battery",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, decodeBody[AuthResponse](t, rec).Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.doJSON(t, h.Login, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "grace@example.com",
			Password: "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := env.doJSON(t, h.Login, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse-battery",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
