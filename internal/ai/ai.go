// Package ai is the uniform generation gateway over the two LLM
// providers behind the relay. Callers name a provider model code and get
// text back; routing, protocol differences and quota conditions stay in
// here.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/tmercier/pressroom/internal/config"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/httpx"
	"github.com/tmercier/pressroom/internal/relay"
)

// alternateModels is the static membership set that routes to the
// alternate provider; everything else goes to the default provider.
var alternateModels = map[string]bool{
	"mistral-large-latest":  true,
	"mistral-medium-latest": true,
	"codestral-latest":      true,
}

// Request is the provider-independent generation request.
type Request struct {
	ModelCode string
	System    string
	Prompt    string
	Config    map[string]any // provider generation config, passed through
}

// Client performs generation calls through the relay.
type Client struct {
	hc      *httpx.Client
	base    string
	session relay.Session
}

// NewClient creates a generation client from configuration.
func NewClient(cfg *config.Config, hc *httpx.Client, session relay.Session) *Client {
	return &Client{
		hc:      hc,
		base:    strings.TrimRight(cfg.RelayURL, "/") + "/ai",
		session: session,
	}
}

// Generate dispatches to the provider that owns the model code and
// returns the completion text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if req.ModelCode == "" {
		return "", errors.NewInvalidRequest("model code is required")
	}
	if alternateModels[req.ModelCode] {
		return c.generateAlternate(ctx, req)
	}
	return c.generateDefault(ctx, req)
}

// generateDefault calls the default provider's single completion
// endpoint. The response text lives at a fixed nested path in the
// provider's native envelope.
func (c *Client) generateDefault(ctx context.Context, req Request) (string, error) {
	body := map[string]any{
		"model":  req.ModelCode,
		"prompt": req.Prompt,
	}
	if req.System != "" {
		body["systemInstruction"] = req.System
	}
	if req.Config != nil {
		body["generationConfig"] = req.Config
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := c.hc.DoJSON(ctx, http.MethodPost, c.base+"/generate", relay.Headers(c.session), body, &resp); err != nil {
		return "", c.translateDefault(err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.NewBadAIOutput(errors.ReasonEmptyPayload, "provider returned no candidates")
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// generateAlternate wraps the alternate provider's two-step protocol
// (create a conversation, then send the message) behind the same
// contract.
func (c *Client) generateAlternate(ctx context.Context, req Request) (string, error) {
	create := map[string]any{"model": req.ModelCode}
	if req.System != "" {
		create["systemInstruction"] = req.System
	}
	var conv struct {
		ConversationID string `json:"conversationId"`
	}
	if err := c.hc.DoJSON(ctx, http.MethodPost, c.base+"/chat/conversations", relay.Headers(c.session), create, &conv); err != nil {
		return "", translateTransport(err)
	}
	if conv.ConversationID == "" {
		return "", errors.NewRemoteUnavailable(0, fmt.Errorf("provider returned no conversation id"))
	}

	var msg struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	url := c.base + "/chat/conversations/" + conv.ConversationID + "/messages"
	if err := c.hc.DoJSON(ctx, http.MethodPost, url, relay.Headers(c.session), map[string]any{"content": req.Prompt}, &msg); err != nil {
		return "", translateTransport(err)
	}
	return msg.Message.Content, nil
}

// translateDefault maps default-provider transport failures, turning a
// lingering 429 into the distinguished quota condition with a wait hint.
func (c *Client) translateDefault(err error) error {
	if statusErr, ok := err.(*httpx.StatusError); ok && statusErr.Status == http.StatusTooManyRequests {
		return errors.NewQuotaExhausted(quotaHint(statusErr.Body))
	}
	return translateTransport(err)
}

func translateTransport(err error) error {
	if statusErr, ok := err.(*httpx.StatusError); ok {
		switch statusErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewNotAuthenticated("")
		case http.StatusBadRequest:
			return errors.NewInvalidRequest("provider rejected the request")
		}
		return errors.NewRemoteUnavailable(statusErr.Status, statusErr)
	}
	return errors.NewRemoteUnavailable(0, err)
}

var (
	retryInPattern    = regexp.MustCompile(`(?i)retry in (\d+(?:\.\d+)?) ?seconds?`)
	retryDelayPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)s`)
)

// quotaHint extracts a human-readable wait duration from the provider's
// quota error payload: either a "retry in N seconds" message or a
// structured retryDelay field. Returns "" when nothing is extractable so
// NewQuotaExhausted falls back to its generic hint.
func quotaHint(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Details []struct {
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if m := retryInPattern.FindStringSubmatch(envelope.Error.Message); m != nil {
			return fmt.Sprintf("provider quota exhausted; retry in %s seconds", m[1])
		}
		for _, d := range envelope.Error.Details {
			if m := retryDelayPattern.FindStringSubmatch(d.RetryDelay); m != nil {
				return fmt.Sprintf("provider quota exhausted; retry in %s seconds", m[1])
			}
		}
	}
	// Last resort: scan the raw body for the message pattern.
	if m := retryInPattern.FindSubmatch(body); m != nil {
		return fmt.Sprintf("provider quota exhausted; retry in %s seconds", m[1])
	}
	return ""
}
