// Package relay talks to the trusted relay that fronts the document
// database and the AI providers. The relay injects provider secrets; the
// client only carries an opaque session token.
package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/httpx"
)

// SessionHeader carries the session token on every relay call.
const SessionHeader = "X-Session-Token"

// Session is an opaque bearer-style session token. The token body is a
// base64-encoded JSON blob with an expiry instant, decoded client-side
// only for UI gating; the relay validates it independently.
type Session struct {
	Token string `json:"sessionToken"`
}

// ExpiresAt decodes the token's expiry instant. The second return value
// is false when the token is absent or undecodable, which callers treat
// as "not authenticated", never as an error.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}
	data, err := base64.StdEncoding.DecodeString(s.Token)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(s.Token); err != nil {
			return time.Time{}, false
		}
	}
	var claims struct {
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := json.Unmarshal(data, &claims); err != nil || claims.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

// Valid reports whether the session is usable at the given instant.
func (s Session) Valid(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && now.Before(exp)
}

// sessionFile is the on-disk location of the persisted token.
func sessionFile(baseDir string) string {
	return filepath.Join(baseDir, "session")
}

// LoadSession reads the persisted session. A missing or unreadable file
// yields an empty session.
func LoadSession(baseDir string) Session {
	if tok := os.Getenv("PRESSROOM_SESSION"); tok != "" {
		return Session{Token: tok}
	}
	data, err := os.ReadFile(sessionFile(baseDir))
	if err != nil {
		return Session{}
	}
	return Session{Token: strings.TrimSpace(string(data))}
}

// SaveSession persists the session token with restricted permissions.
func SaveSession(baseDir string, s Session) error {
	return os.WriteFile(sessionFile(baseDir), []byte(s.Token+"\n"), 0600)
}

// Client performs authentication calls against the relay.
type Client struct {
	base string
	hc   *httpx.Client
}

// NewClient creates a relay client for the given base URL.
func NewClient(baseURL string, hc *httpx.Client) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var out Session
	err := c.hc.DoJSON(ctx, http.MethodPost, c.base+"/auth/login", nil,
		map[string]string{"username": username, "password": password}, &out)
	if err != nil {
		if statusErr, ok := err.(*httpx.StatusError); ok {
			if statusErr.Status == http.StatusUnauthorized || statusErr.Status == http.StatusForbidden {
				return Session{}, errors.NewNotAuthenticated("invalid credentials")
			}
			return Session{}, errors.NewRemoteUnavailable(statusErr.Status, statusErr)
		}
		return Session{}, errors.NewRemoteUnavailable(0, err)
	}
	if out.Token == "" {
		return Session{}, errors.NewNotAuthenticated("relay returned no session token")
	}
	return out, nil
}

// Headers returns the auth headers every relay call carries.
func Headers(s Session) map[string]string {
	if s.Token == "" {
		return nil
	}
	return map[string]string{SessionHeader: s.Token}
}
