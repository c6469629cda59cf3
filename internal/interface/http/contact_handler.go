package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/application"
	"github.com/oksasatya/ordo-prm/pkg/response"
	"github.com/oksasatya/ordo-prm/pkg/validation"
)

type ContactHandler struct {
	Svc    *application.ContactService
	Logger logrus.FieldLogger
}

func NewContactHandler(svc *application.ContactService, logger logrus.FieldLogger) *ContactHandler {
	return &ContactHandler{Svc: svc, Logger: logger}
}

type markRequest struct {
	Marked *bool `json:"marked"`
}

type pingRequest struct {
	TemplateIndex *int `json:"templateIndex" binding:"omitempty,gte=0"`
}

type pingResponse struct {
	Message string `json:"message"`
}

// List GET /api/contacts?q=&priority=&status=&marked=id1,id2
func (h *ContactHandler) List(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	f := application.ContactFilter{
		Query:    c.Query("q"),
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
	}
	if raw := c.Query("marked"); raw != "" {
		f.Marked = make(map[string]bool)
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				f.Marked[id] = true
			}
		}
	}
	out, err := h.Svc.List(c.Request.Context(), uid, f)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Create POST /api/contacts. The body is one contact or an array of them.
func (h *ContactHandler) Create(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "request body is too large", nil)
		return
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		response.Error(c, http.StatusBadRequest, "request body is empty", nil)
		return
	}

	if trimmed[0] == '[' {
		var ins []application.ContactInput
		if err := json.Unmarshal(trimmed, &ins); err != nil {
			response.Error(c, http.StatusBadRequest, validation.Summary(err), validation.ToDetails(err))
			return
		}
		out, err := h.Svc.CreateBatch(c.Request.Context(), uid, ins)
		if err != nil {
			response.FromError(c, h.Logger, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}

	var in application.ContactInput
	if err := binding.JSON.BindBody(trimmed, &in); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Summary(err), validation.ToDetails(err))
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Update PUT /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var in application.ContactInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), in)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Delete DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkContacted POST /api/contacts/:id/contacted {"marked": bool}
func (h *ContactHandler) MarkContacted(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req markRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	marked := true
	if req.Marked != nil {
		marked = *req.Marked
	}
	out, err := h.Svc.MarkContacted(c.Request.Context(), uid, c.Param("id"), marked)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Ping POST /api/contacts/:id/ping {"templateIndex": n}
func (h *ContactHandler) Ping(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req pingRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	msg, err := h.Svc.Ping(c.Request.Context(), uid, c.Param("id"), req.TemplateIndex)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, pingResponse{Message: msg})
}
