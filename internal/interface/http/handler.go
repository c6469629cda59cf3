package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/ordo-prm/internal/application"
	"github.com/oksasatya/ordo-prm/internal/interface/middleware"
	"github.com/oksasatya/ordo-prm/internal/interface/session"
	"github.com/oksasatya/ordo-prm/pkg/response"
	"github.com/oksasatya/ordo-prm/pkg/validation"
)

// maxBodyBytes bounds request bodies, large enough for a full batch import.
const maxBodyBytes = 1 << 20

func clientIP(c *gin.Context) string {
	if ip := c.GetString(middleware.RealIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: clientIP(c), UserAgent: c.GetHeader("User-Agent")}
}

// currentUser returns the identity placed on the context by the session guard,
// answering 401 when there is none.
func currentUser(c *gin.Context) (string, bool) {
	id, ok := session.FromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return "", false
	}
	return id.UserID, true
}

func bindJSON(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Summary(err), validation.ToDetails(err))
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, validation.Summary(err), validation.ToDetails(err))
		return false
	}
	return true
}
