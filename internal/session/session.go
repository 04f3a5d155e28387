// Package session implements the client-held session state: a claims
// container signed with a process-lifetime HMAC key and carried in a
// cookie. There is no server-side session table and no expiry; sessions
// die when the client discards the cookie or the process restarts with
// a fresh key.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "webauth_session"

// claims is the signed payload. Username is the single identity claim.
type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Manager signs and verifies session tokens. The signing key is
// injected at construction so tests can use a fixed key while main
// generates a fresh one per process.
type Manager struct {
	key        []byte
	cookieName string
}

func NewManager(key []byte, cookieName string) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{key: key, cookieName: cookieName}
}

// Issue signs a token carrying username as its identity claim.
func (m *Manager) Issue(username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		Username: username,
	})
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and returns the identity claim.
// Any failure — malformed token, wrong key, wrong algorithm, empty
// claim — reports ok=false, indistinguishable from no session at all.
func (m *Manager) Verify(tokenStr string) (string, bool) {
	token, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil {
		return "", false
	}
	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Username == "" {
		return "", false
	}
	return c.Username, true
}

// SetCookie attaches the session token to the response.
func (m *Manager) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, 0, "/", "", false, true)
}

// ClearCookie tells the client to drop its session cookie. A token the
// client already captured stays verifiable until the key rotates.
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
}

// FromRequest reads and verifies the session cookie. Missing cookie,
// bad signature and malformed token all look the same to callers.
func (m *Manager) FromRequest(c *gin.Context) (string, bool) {
	tokenStr, err := c.Cookie(m.cookieName)
	if err != nil || tokenStr == "" {
		return "", false
	}
	return m.Verify(tokenStr)
}
