// Package session turns an inbound request into an authenticated identity.
package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

// ContextKey is where the resolved user id is stored on the gin context.
const ContextKey = "userID"

// Identity is the authenticated caller.
type Identity struct {
	UserID string
}

// TokenVerifier is satisfied by *helpers.JWTManager.
type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

type Resolver struct {
	tokens TokenVerifier
}

func NewResolver(tokens TokenVerifier) *Resolver {
	return &Resolver{tokens: tokens}
}

// ExtractToken returns the candidate token in precedence order: a well-formed
// "Authorization: Bearer <token>" header, then the session cookie.
func ExtractToken(r *http.Request) (string, bool) {
	if tok, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return tok, true
	}
	if ck, err := r.Cookie(helpers.SessionCookieName); err == nil {
		if v := strings.TrimSpace(ck.Value); v != "" {
			return v, true
		}
	}
	return "", false
}

func bearerToken(h string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	if tok == "" || strings.ContainsAny(tok, " \t") {
		return "", false
	}
	return tok, true
}

// Resolve reports the identity carried by r. A missing token and a token
// that fails verification are both reported as (Identity{}, false).
func (s *Resolver) Resolve(r *http.Request) (Identity, bool) {
	tok, ok := ExtractToken(r)
	if !ok {
		return Identity{}, false
	}
	claims, err := s.tokens.Verify(tok)
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: claims.UserID}, true
}

// FromContext returns the identity stored by the access gate or RequireIdentity.
func FromContext(c *gin.Context) (Identity, bool) {
	uid := c.GetString(ContextKey)
	if uid == "" {
		return Identity{}, false
	}
	return Identity{UserID: uid}, true
}

// Store records id on the gin context.
func Store(c *gin.Context, id Identity) {
	c.Set(ContextKey, id.UserID)
}
