package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"webauth/internal/models"
	"webauth/internal/repository"
	"webauth/internal/service"
	"webauth/internal/session"
	"webauth/internal/validation"

	"github.com/gin-gonic/gin"
)

// ---- Service mock ----

type mockAuth struct {
	registerErr   error
	loginUsername string
	loginErr      error

	lastRegisterForm  models.RegisterForm
	lastLoginIdent    string
	lastLoginPassword string
	registerCallCount int
	loginCallCount    int
}

func (m *mockAuth) Register(_ context.Context, f models.RegisterForm) error {
	m.registerCallCount++
	m.lastRegisterForm = f
	return m.registerErr
}

func (m *mockAuth) Login(_ context.Context, identifier, password string) (string, error) {
	m.loginCallCount++
	m.lastLoginIdent = identifier
	m.lastLoginPassword = password
	return m.loginUsername, m.loginErr
}

// ---- Renderer stub ----

// stubRenderer emits "view=<name> k=v ..." so tests can assert on both
// the chosen view and the context handed to it.
type stubRenderer struct {
	err error
}

func (r *stubRenderer) Render(view string, data map[string]string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	out := "view=" + view
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out += fmt.Sprintf(" %s=%s", k, data[k])
	}
	return out, nil
}

var testSessionKey = []byte("fixed-test-session-key-32-bytes!")

func newTestRouter(auth service.Auth, r *stubRenderer) (*gin.Engine, *session.Manager) {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager(testSessionKey, "sess")
	h := NewHandler(&service.Service{Auth: auth}, sessions, r, nil, nil)
	return h.InitRoutes(), sessions
}

func postForm(router *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	router.ServeHTTP(w, req)
	return w
}

func getPage(router *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	router.ServeHTTP(w, req)
	return w
}

func registerForm() url.Values {
	return url.Values{
		"username":         {"alice"},
		"email":            {"a@example.com"},
		"password":         {"longpass1"},
		"password_confirm": {"longpass1"},
	}
}

// --- Register ---

func TestShowRegisterForm(t *testing.T) {
	router, _ := newTestRouter(&mockAuth{}, &stubRenderer{})

	w := getPage(router, "/auth/register")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "view=register.html") {
		t.Fatalf("expected register view, got: %s", w.Body.String())
	}
}

func TestProcessRegister_Success(t *testing.T) {
	auth := &mockAuth{}
	router, _ := newTestRouter(auth, &stubRenderer{})

	w := postForm(router, "/auth/register", registerForm())

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303 (body=%s)", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("redirect: got %q, want /auth/login", loc)
	}
	if auth.lastRegisterForm.Username != "alice" || auth.lastRegisterForm.Email != "a@example.com" {
		t.Fatalf("unexpected form passed to service: %+v", auth.lastRegisterForm)
	}
	// Registration must not authenticate.
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("registration must not set a session cookie")
	}
}

func TestProcessRegister_UserCorrectableErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "validation failure",
			err:     &validation.Error{Message: "Username cannot contain spaces."},
			wantMsg: "Username cannot contain spaces.",
		},
		{
			name:    "username taken",
			err:     repository.ErrDuplicateUsername,
			wantMsg: "Username is already taken.",
		},
		{
			name:    "email taken",
			err:     repository.ErrDuplicateEmail,
			wantMsg: "Email is already registered.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(&mockAuth{registerErr: tc.err}, &stubRenderer{})

			w := postForm(router, "/auth/register", registerForm())

			if w.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200 (form re-render)", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, "view=register.html") {
				t.Fatalf("expected register view re-render, got: %s", body)
			}
			if !strings.Contains(body, tc.wantMsg) {
				t.Fatalf("expected message %q in body, got: %s", tc.wantMsg, body)
			}
		})
	}
}

func TestProcessRegister_StoreErrorIsGeneric500(t *testing.T) {
	router, _ := newTestRouter(&mockAuth{registerErr: errors.New("pq: connection refused")}, &stubRenderer{})

	w := postForm(router, "/auth/register", registerForm())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatalf("internal detail must not leak to the client: %s", w.Body.String())
	}
}

// --- Login ---

func TestProcessLogin_SuccessSetsSessionAndRedirects(t *testing.T) {
	auth := &mockAuth{loginUsername: "alice"}
	router, sessions := newTestRouter(auth, &stubRenderer{})

	w := postForm(router, "/auth/login", url.Values{
		"identifier": {"alice"},
		"password":   {"longpass1"},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303 (body=%s)", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("redirect: got %q, want /dashboard", loc)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one session cookie, got %d", len(cookies))
	}
	username, ok := sessions.Verify(cookies[0].Value)
	if !ok || username != "alice" {
		t.Fatalf("session cookie must verify to alice, got (%q, %v)", username, ok)
	}
	if auth.lastLoginIdent != "alice" || auth.lastLoginPassword != "longpass1" {
		t.Fatalf("unexpected credentials passed to service")
	}
}

func TestProcessLogin_InvalidCredentials(t *testing.T) {
	router, _ := newTestRouter(&mockAuth{loginErr: service.ErrInvalidCredentials}, &stubRenderer{})

	w := postForm(router, "/auth/login", url.Values{
		"identifier": {"ghost"},
		"password":   {"whatever1"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (form re-render)", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "view=login.html") || !strings.Contains(body, "Invalid credentials.") {
		t.Fatalf("expected login re-render with generic message, got: %s", body)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set a cookie")
	}
}

func TestProcessLogin_StoreErrorIsGeneric500(t *testing.T) {
	router, _ := newTestRouter(&mockAuth{loginErr: errors.New("select user: db down")}, &stubRenderer{})

	w := postForm(router, "/auth/login", url.Values{
		"identifier": {"alice"},
		"password":   {"longpass1"},
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Fatalf("internal detail must not leak: %s", w.Body.String())
	}
}

// --- Logout ---

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	router, sessions := newTestRouter(&mockAuth{}, &stubRenderer{})

	token, err := sessions.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	w := postForm(router, "/auth/logout", url.Values{}, &http.Cookie{Name: "sess", Value: token})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("redirect: got %q, want /auth/login", loc)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired empty cookie, got %+v", cookies)
	}
}

func TestLogout_IdempotentWithoutSession(t *testing.T) {
	router, _ := newTestRouter(&mockAuth{}, &stubRenderer{})

	w := postForm(router, "/auth/logout", url.Values{})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login" {
		t.Fatalf("redirect: got %q, want /auth/login", loc)
	}
}

// --- Dashboard gate ---

func TestDashboard_Gate(t *testing.T) {
	router, sessions := newTestRouter(&mockAuth{}, &stubRenderer{})

	// No session: redirect to login.
	w := getPage(router, "/dashboard")
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("anonymous dashboard access: got %d %q", w.Code, w.Header().Get("Location"))
	}

	// Valid session: renders with the identity.
	token, err := sessions.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	w = getPage(router, "/dashboard", &http.Cookie{Name: "sess", Value: token})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "view=dashboard.html") || !strings.Contains(body, "alice") {
		t.Fatalf("expected dashboard render for alice, got: %s", body)
	}

	// Tampered token: treated as no session.
	w = getPage(router, "/dashboard", &http.Cookie{Name: "sess", Value: token + "x"})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("tampered session must redirect to login: got %d", w.Code)
	}
}

// --- Renderer failure ---

func TestRenderFailureIsGeneric500(t *testing.T) {
	router, _ := newTestRouter(&mockAuth{}, &stubRenderer{err: errors.New("template blew up")})

	w := getPage(router, "/auth/login")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "template blew up") {
		t.Fatalf("render detail must not leak: %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(&mockAuth{}, &stubRenderer{})

	w := getPage(router, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
}
