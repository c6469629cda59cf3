package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/ordo-prm/internal/interface/session"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

func TestRouteTable_Classify(t *testing.T) {
	table := DefaultRouteTable()
	cases := map[string]Access{
		"/api/auth/login":          Public,
		"/api/auth/signup":         Public,
		"/api/auth/logout":         Public,
		"/api/auth/reset-password": ProtectedAPI,
		"/api/auth/me":             ProtectedAPI,
		"/api/contacts":            ProtectedAPI,
		"/api/contacts/abc":        ProtectedAPI,
		"/api/settings":            ProtectedAPI,
		"/api":                     ProtectedAPI,
		"/dashboard":               ProtectedPage,
		"/dashboard/settings":      ProtectedPage,
		"/healthz":                 Public,
		"/metrics":                 Public,
		"/static/app.js":           Public,
		"/":                        Public,
		"":                         Public,
		"/login":                   Public,
	}
	for path, want := range cases {
		assert.Equal(t, want, table.Classify(path), path)
	}
}

func newGateEngine(t *testing.T) (*gin.Engine, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt, err := helpers.NewJWTManager("access-gate-test-secret")
	require.NoError(t, err)

	r := gin.New()
	r.Use(AccessGate(session.NewResolver(jwt), DefaultRouteTable()))
	echo := func(c *gin.Context) {
		id, _ := session.FromContext(c)
		c.String(http.StatusOK, "user=%s", id.UserID)
	}
	r.GET("/api/contacts", echo)
	r.POST("/api/auth/login", echo)
	r.POST("/api/auth/reset-password", echo)
	r.GET("/dashboard", echo)
	r.GET("/healthz", echo)
	return r, jwt
}

func TestAccessGate(t *testing.T) {
	r, jwt := newGateEngine(t)
	tok, _, err := jwt.Issue("u-42")
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
		wantBody string
	}{
		{"public auth endpoint", http.MethodPost, "/api/auth/login", "", http.StatusOK, "user="},
		{"health", http.MethodGet, "/healthz", "", http.StatusOK, "user="},
		{"api without token", http.MethodGet, "/api/contacts", "", http.StatusUnauthorized, `"message":"Unauthorized"`},
		{"api with bad token", http.MethodGet, "/api/contacts", "garbage", http.StatusUnauthorized, `"success":false`},
		{"api with token", http.MethodGet, "/api/contacts", tok, http.StatusOK, "user=u-42"},
		{"reset-password is protected", http.MethodPost, "/api/auth/reset-password", "", http.StatusUnauthorized, "Unauthorized"},
		{"page passes without token", http.MethodGet, "/dashboard", "", http.StatusOK, "user="},
		{"page with token carries identity", http.MethodGet, "/dashboard", tok, http.StatusOK, "user=u-42"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: tc.token})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwt, err := helpers.NewJWTManager("require-identity-secret")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/x", RequireIdentity(session.NewResolver(jwt)), func(c *gin.Context) {
		id, _ := session.FromContext(c)
		c.String(http.StatusOK, id.UserID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok, _, err := jwt.Issue("u-7")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-7", w.Body.String())
}
