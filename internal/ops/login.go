package ops

import (
	"context"
	"strings"
	"time"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/httpx"
	"github.com/tmercier/pressroom/internal/relay"
)

// LoginInput contains relay credentials.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput reports the session expiry when the token carries one.
type LoginOutput struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Login exchanges credentials for a session token and persists it next
// to the mirror, where every later command picks it up.
func Login(ctx context.Context, env *Env, hc *httpx.Client, input LoginInput) (*LoginOutput, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, errors.NewInvalidRequest("username and password are required")
	}

	session, err := relay.NewClient(env.Cfg.RelayURL, hc).Login(ctx, username, input.Password)
	if err != nil {
		return nil, err
	}
	if err := relay.SaveSession(env.BaseDir, session); err != nil {
		return nil, errors.NewInternal(err)
	}

	out := &LoginOutput{}
	if exp, ok := session.ExpiresAt(); ok {
		out.ExpiresAt = &exp
	}
	return out, nil
}
