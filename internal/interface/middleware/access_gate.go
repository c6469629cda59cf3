package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/ordo-prm/internal/interface/session"
	"github.com/oksasatya/ordo-prm/pkg/response"
)

// Access classifies a request path for the gate.
type Access int

const (
	// Public paths are never checked.
	Public Access = iota
	// ProtectedAPI paths are refused with 401 JSON when no valid session exists.
	ProtectedAPI
	// ProtectedPage paths pass through without a session; the page guards itself.
	ProtectedPage
)

func (a Access) String() string {
	switch a {
	case ProtectedAPI:
		return "protected-api"
	case ProtectedPage:
		return "protected-page"
	default:
		return "public"
	}
}

// Rule matches a path exactly, or as a prefix when Path ends with "/".
type Rule struct {
	Path   string
	Access Access
}

func (r Rule) matches(path string) bool {
	if strings.HasSuffix(r.Path, "/") {
		return path == strings.TrimSuffix(r.Path, "/") || strings.HasPrefix(path, r.Path)
	}
	return path == r.Path
}

// RouteTable is the single source of truth for which paths need a session.
// Rules are evaluated in order; the first match wins.
type RouteTable struct {
	Rules    []Rule
	Fallback Access
}

// DefaultRouteTable covers every route the server registers.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		Rules: []Rule{
			{Path: "/api/auth/reset-password", Access: ProtectedAPI},
			{Path: "/api/auth/me", Access: ProtectedAPI},
			{Path: "/api/auth/", Access: Public},
			{Path: "/api/", Access: ProtectedAPI},
			{Path: "/dashboard/", Access: ProtectedPage},
			{Path: "/healthz", Access: Public},
			{Path: "/metrics", Access: Public},
			{Path: "/static/", Access: Public},
			{Path: "/favicon.ico", Access: Public},
			{Path: "/login", Access: Public},
			{Path: "/signup", Access: Public},
		},
		Fallback: Public,
	}
}

// Classify returns the access class of path.
func (t RouteTable) Classify(path string) Access {
	if path == "" {
		path = "/"
	}
	for _, r := range t.Rules {
		if r.matches(path) {
			return r.Access
		}
	}
	return t.Fallback
}

// AccessGate resolves the session for non-public paths and stores the
// identity on the context. Protected API paths without one are refused.
func AccessGate(resolver *session.Resolver, table RouteTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		access := table.Classify(c.Request.URL.Path)
		if access == Public {
			c.Next()
			return
		}
		id, ok := resolver.Resolve(c.Request)
		if ok {
			session.Store(c, id)
			c.Next()
			return
		}
		if access == ProtectedAPI {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		c.Next()
	}
}

// RequireIdentity guards a handler group directly, for routers mounted
// without the engine-level gate.
func RequireIdentity(resolver *session.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.FromContext(c); ok {
			c.Next()
			return
		}
		id, ok := resolver.Resolve(c.Request)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		session.Store(c, id)
		c.Next()
	}
}
