package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/application"
	"github.com/oksasatya/ordo-prm/internal/interface/session"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
	"github.com/oksasatya/ordo-prm/pkg/response"
)

type AuthHandler struct {
	Svc      *application.AuthService
	Resolver *session.Resolver
	Cookies  *helpers.CookieManager
	Logger   logrus.FieldLogger
}

func NewAuthHandler(svc *application.AuthService, resolver *session.Resolver, cookies *helpers.CookieManager, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Svc: svc, Resolver: resolver, Cookies: cookies, Logger: logger}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

type userResponse struct {
	User application.UserView `json:"user"`
}

type loginResponse struct {
	Token string               `json:"token"`
	User  application.UserView `json:"user"`
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}
	u, sess, err := h.Svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password, requestMeta(c))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusCreated, userResponse{User: application.NewUserView(u)})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	u, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, requestMeta(c))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusOK, loginResponse{Token: sess.Token, User: application.NewUserView(u)})
}

// Logout POST /api/auth/logout. Public: it always clears the cookie and
// records who logged out when the request still carries a valid session.
func (h *AuthHandler) Logout(c *gin.Context) {
	var uid string
	if h.Resolver != nil {
		if id, ok := h.Resolver.Resolve(c.Request); ok {
			uid = id.UserID
		}
	}
	h.Svc.Logout(c.Request.Context(), uid, requestMeta(c))
	h.Cookies.ClearSession(c)
	response.Success[any](c, http.StatusOK, nil, "Logged out")
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), uid, req.Password, requestMeta(c)); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password updated")
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	u, err := h.Svc.Me(c.Request.Context(), uid)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{User: application.NewUserView(u)})
}
