package handlers

import (
	"errors"
	"net/http"

	"webauth/internal/models"
	"webauth/internal/repository"
	"webauth/internal/service"
	"webauth/internal/validation"

	"github.com/gin-gonic/gin"
)

const (
	loginPath     = "/auth/login"
	dashboardPath = "/dashboard"

	// Deliberately identical for an unknown identifier and a wrong
	// password, so login cannot be used to enumerate accounts.
	invalidCredentialsMsg = "Invalid credentials."
)

func (h *Handler) showRegisterForm(c *gin.Context) {
	h.renderRegister(c, "")
}

func (h *Handler) renderRegister(c *gin.Context, errMsg string) {
	data := map[string]string{}
	if errMsg != "" {
		data["error_message"] = errMsg
	}
	h.renderHTML(c, http.StatusOK, viewRegister, data)
}

// processRegisterForm runs the registration flow. Every
// user-correctable failure re-renders the form with its message;
// success redirects to the login form. Registration never logs the
// user in.
func (h *Handler) processRegisterForm(c *gin.Context) {
	var form models.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, "Invalid form submission.")
		return
	}

	err := h.services.Register(c.Request.Context(), form)
	if err == nil {
		seeOther(c, loginPath)
		return
	}

	if msg, ok := userMessage(err); ok {
		h.renderRegister(c, msg)
		return
	}
	h.internalError(c, "register_failed", "username", form.Username, "err", err)
}

// userMessage translates user-correctable registration errors into the
// message shown inline in the form. Internal failures report ok=false.
func userMessage(err error) (string, bool) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return verr.Message, true
	case errors.Is(err, repository.ErrDuplicateUsername):
		return "Username is already taken.", true
	case errors.Is(err, repository.ErrDuplicateEmail):
		return "Email is already registered.", true
	default:
		return "", false
	}
}

func (h *Handler) showLoginForm(c *gin.Context) {
	h.renderLogin(c, "")
}

func (h *Handler) renderLogin(c *gin.Context, errMsg string) {
	data := map[string]string{}
	if errMsg != "" {
		data["error"] = errMsg
	}
	h.renderHTML(c, http.StatusOK, viewLogin, data)
}

// processLoginForm verifies credentials, issues the session cookie and
// redirects to the dashboard. Bad credentials re-render the form with
// the generic message.
func (h *Handler) processLoginForm(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, invalidCredentialsMsg)
		return
	}

	username, err := h.services.Login(c.Request.Context(), form.Identifier, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLogin(c, invalidCredentialsMsg)
			return
		}
		h.internalError(c, "login_failed", "identifier", form.Identifier, "err", err)
		return
	}

	token, err := h.sessions.Issue(username)
	if err != nil {
		h.internalError(c, "session_issue_failed", "username", username, "err", err)
		return
	}
	h.sessions.SetCookie(c, token)
	seeOther(c, dashboardPath)
}

// logout drops the session claim and redirects to login. Safe to call
// without a session.
func (h *Handler) logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	seeOther(c, loginPath)
}
