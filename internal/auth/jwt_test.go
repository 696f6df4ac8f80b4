package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyloom-backend/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	token, err := tm.GenerateToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	userID, err := tm.ValidateToken(r)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestValidateToken_MissingHeader(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := tm.ValidateToken(r)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", time.Hour)
	verifier := auth.NewTokenManager("secret-b", time.Hour)

	token, err := issuer.GenerateToken("user-123")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	_, err = verifier.ValidateToken(r)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := tm.GenerateToken("user-123")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	_, err = tm.ValidateToken(r)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = auth.UserIDFromContext(r.Context())
	})

	t.Run("valid token passes through with user id", func(t *testing.T) {
		token, err := tm.GenerateToken("user-123")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		tm.Middleware(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-123", gotUserID)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		tm.Middleware(next).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
