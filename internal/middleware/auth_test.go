package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newAuthRouter(validator TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	mw := AuthMiddleware(validator)
	if optional {
		mw = OptionalAuthMiddleware(validator)
	}
	router.GET("/probe", mw, func(c *gin.Context) {
		if viewer := Viewer(c); viewer != nil {
			c.JSON(http.StatusOK, gin.H{"viewer": viewer.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"viewer": nil})
	})
	return router
}

func probe(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	router := newAuthRouter(&stubValidator{}, false)

	assert.Equal(t, http.StatusUnauthorized, probe(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(router, "Bearer").Code)
	assert.Equal(t, http.StatusUnauthorized, probe(router, "Basic abc").Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	router := newAuthRouter(&stubValidator{err: errors.New("expired")}, false)
	assert.Equal(t, http.StatusUnauthorized, probe(router, "Bearer bad-token").Code)
}

func TestAuthMiddlewareSetsViewer(t *testing.T) {
	userID := uuid.New()
	router := newAuthRouter(&stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "alice"}}, false)

	w := probe(router, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	router := newAuthRouter(&stubValidator{err: errors.New("should not be called")}, true)

	w := probe(router, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestOptionalAuthStillRejectsBadTokens(t *testing.T) {
	router := newAuthRouter(&stubValidator{err: errors.New("expired")}, true)
	assert.Equal(t, http.StatusUnauthorized, probe(router, "Bearer bad-token").Code)
}
