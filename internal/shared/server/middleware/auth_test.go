package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	issuer, err := auth.NewIssuer("middleware-test-secret", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	router := gin.New()
	router.Use(Auth(issuer))
	router.GET("/api/auth/me/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserIDFromContext(c)})
	})
	return router, issuer
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router, _ := newAuthRouter(t)
	router.OPTIONS("/api/auth/me/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/api/auth/me/", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	router, issuer := newAuthRouter(t)
	pair, err := issuer.IssuePair(3)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	headers := []string{
		"",
		"Bearer",
		"Token " + pair.Access,
		"Bearer not.a.jwt",
		"Bearer " + pair.Refresh,
	}
	for _, h := range headers {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", h, resp.Code)
		}
	}
}

func TestAuthSetsUserID(t *testing.T) {
	router, issuer := newAuthRouter(t)
	pair, err := issuer.IssuePair(21)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me/", nil)
	req.Header.Set("Authorization", "bearer "+pair.Access)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"id":21}` {
		t.Fatalf("unexpected body %s", body)
	}
}
