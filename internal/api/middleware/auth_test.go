package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillproof/server/internal/config"
	"github.com/stretchr/testify/assert"
	trequire "github.com/stretchr/testify/require"
)

func mintCookie(t *testing.T, userID, email string) *http.Cookie {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.Envs.JWTSecret))
	trequire.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}

func okHandler() (http.Handler, *bool) {
	called := new(bool)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}), called
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	AuthMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not.a.jwt"})

	AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthMiddlewareAttachesIdentity(t *testing.T) {
	var gotID, gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity(r)
		trequire.NotNil(t, id)
		gotID, gotEmail = id.ID, id.Email
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(mintCookie(t, "u1", "dev@x.com"))

	AuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, "u1", gotID)
	assert.Equal(t, "dev@x.com", gotEmail)
}

func TestAdminMiddlewareGate(t *testing.T) {
	prevAdmin := config.Envs.AdminEmail
	config.Envs.AdminEmail = "admin@x.com"
	t.Cleanup(func() { config.Envs.AdminEmail = prevAdmin })

	t.Run("admits the configured admin", func(t *testing.T) {
		next, called := okHandler()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/stats", nil)
		req.AddCookie(mintCookie(t, "u1", "admin@x.com"))

		AdminMiddleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("turns away authenticated non-admins like anonymous", func(t *testing.T) {
		next, called := okHandler()
		authedRec := httptest.NewRecorder()
		authedReq := httptest.NewRequest(http.MethodGet, "/stats", nil)
		authedReq.AddCookie(mintCookie(t, "u2", "other@x.com"))
		AdminMiddleware(next).ServeHTTP(authedRec, authedReq)

		anonRec := httptest.NewRecorder()
		AdminMiddleware(next).ServeHTTP(anonRec, httptest.NewRequest(http.MethodGet, "/stats", nil))

		assert.Equal(t, http.StatusUnauthorized, authedRec.Code)
		assert.Equal(t, http.StatusUnauthorized, anonRec.Code)
		assert.Equal(t, authedRec.Body.String(), anonRec.Body.String())
		assert.False(t, *called)
	})
}
