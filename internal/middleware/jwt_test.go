package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"devlog-engagement/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewerMiddleware(t *testing.T) {
	identity := NewIdentity("test-secret")
	userID := uuid.New()

	token, err := identity.GenerateToken(userID, "Gator", "https://example.com/avatar.png", "gator@example.com")
	require.NoError(t, err)

	var got *models.Viewer
	handler := identity.ViewerMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ViewerFromContext(r.Context())
	}))

	// Valid token resolves the full viewer
	req := httptest.NewRequest(http.MethodGet, "/comments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.True(t, got.Is(userID))
	assert.Equal(t, "Gator", got.DisplayName)
	assert.Equal(t, "gator@example.com", got.Email)

	// No token yields the anonymous viewer, not a rejection
	req = httptest.NewRequest(http.MethodGet, "/comments", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.IsAnonymous())

	// Garbage token also degrades to anonymous
	req = httptest.NewRequest(http.MethodGet, "/comments", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, got.IsAnonymous())
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	minter := NewIdentity("secret-one")
	verifier := NewIdentity("secret-two")

	token, err := minter.GenerateToken(uuid.New(), "", "", "")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
