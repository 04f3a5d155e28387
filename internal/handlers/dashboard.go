package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// dashboard is the authenticated landing page. The gate is a pure
// state check: a verifiable session claim renders the page, anything
// else redirects to login.
func (h *Handler) dashboard(c *gin.Context) {
	username, ok := h.sessions.FromRequest(c)
	if !ok {
		seeOther(c, loginPath)
		return
	}

	h.renderHTML(c, http.StatusOK, viewDashboard, map[string]string{
		"username":        username,
		"welcome_message": fmt.Sprintf("Welcome to your dashboard, %s!", username),
	})
}

func (h *Handler) welcome(c *gin.Context) {
	h.renderHTML(c, http.StatusOK, viewWelcome, nil)
}

// health probes store connectivity.
func (h *Handler) health(c *gin.Context) {
	if h.db != nil {
		if _, err := h.db.ExecContext(c.Request.Context(), "SELECT 1"); err != nil {
			h.internalError(c, "health_db_check_failed", "err", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
