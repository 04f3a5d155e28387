package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const internalErrorBody = "Internal Server Error"

// renderHTML runs the renderer and writes the result. Render failures
// are logged with detail and answered with a bare 500; nothing internal
// reaches the client.
func (h *Handler) renderHTML(c *gin.Context, status int, view string, data map[string]string) {
	body, err := h.renderer.Render(view, data)
	if err != nil {
		h.internalError(c, "render_failed", "view", view, "err", err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(body))
}

// internalError logs the failure server-side and sends a generic 500.
func (h *Handler) internalError(c *gin.Context, msg string, kv ...any) {
	if h.log != nil {
		h.log.Errorw(msg, kv...)
	}
	c.String(http.StatusInternalServerError, internalErrorBody)
}

// seeOther issues the post-action redirect so a refresh never
// resubmits the form.
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
