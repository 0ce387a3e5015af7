package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogd/internal/models"
	"blogd/internal/repository"
	"blogd/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *models.User) error { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, _, _, _ string) error { return nil }
func (f *fakeUserRepo) SetVerified(_ context.Context, _, _ string) error       { return nil }

type guardFixture struct {
	router *gin.Engine
	codec  *token.Codec
	issuer *token.Issuer
	repo   *fakeUserRepo
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := token.NewCodec("test-secret")
	issuer := token.NewIssuer(codec, 15*time.Minute, 7*24*time.Hour, 24*time.Hour)
	repo := &fakeUserRepo{users: map[string]*models.User{
		"user-123": {ID: "user-123", Email: "a@x.com", Role: "user"},
	}}

	router := gin.New()
	router.GET("/protected", AuthMiddleware(codec, repo, zap.NewNop()), func(c *gin.Context) {
		user := c.MustGet(CurrentUserKey).(*models.User)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
	})

	return &guardFixture{router: router, codec: codec, issuer: issuer, repo: repo}
}

func (fx *guardFixture) request(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	fx := newGuardFixture(t)

	w := fx.request(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadHeaderFormat(t *testing.T) {
	fx := newGuardFixture(t)

	w := fx.request(t, "Token abcdef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	fx := newGuardFixture(t)

	w := fx.request(t, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	fx := newGuardFixture(t)

	pair, err := fx.issuer.IssueSession("user-123")
	require.NoError(t, err)

	w := fx.request(t, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
}

func TestAuthMiddleware_CookieFallback(t *testing.T) {
	fx := newGuardFixture(t)

	pair, err := fx.issuer.IssueSession("user-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: pair.AccessToken})
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_RejectsRefreshNamespace(t *testing.T) {
	fx := newGuardFixture(t)

	pair, err := fx.issuer.IssueSession("user-123")
	require.NoError(t, err)

	// Validly signed and unexpired, but the wrong namespace.
	w := fx.request(t, "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	fx := newGuardFixture(t)

	expiredIssuer := token.NewIssuer(fx.codec, -time.Second, 7*24*time.Hour, 24*time.Hour)
	pair, err := expiredIssuer.IssueSession("user-123")
	require.NoError(t, err)

	w := fx.request(t, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	fx := newGuardFixture(t)

	pair, err := fx.issuer.IssueSession("user-gone")
	require.NoError(t, err)

	w := fx.request(t, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
