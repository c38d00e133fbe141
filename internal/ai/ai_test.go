package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tmercier/pressroom/internal/config"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/httpx"
	"github.com/tmercier/pressroom/internal/relay"
)

func fastHTTP() *httpx.Client {
	c := httpx.New()
	c.BaseDelay = time.Millisecond
	c.MaxDelay = 2 * time.Millisecond
	return c
}

func testClient(srv *httptest.Server) *Client {
	cfg := config.DefaultConfig()
	cfg.RelayURL = srv.URL
	return NewClient(cfg, fastHTTP(), relay.Session{Token: "tok"})
}

func TestGenerate_DefaultProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ai/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get(relay.SessionHeader) != "tok" {
			t.Error("missing session header")
		}
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "gemini-2.5-flash" {
			t.Errorf("model = %v", req["model"])
		}
		if req["systemInstruction"] != "Tu es un coach." {
			t.Errorf("systemInstruction = %v", req["systemInstruction"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"parts": []any{
						map[string]any{"text": "Première partie. "},
						map[string]any{"text": "Seconde partie."},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	text, err := testClient(srv).Generate(context.Background(), Request{
		ModelCode: "gemini-2.5-flash",
		System:    "Tu es un coach.",
		Prompt:    "Écris un post.",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Première partie. Seconde partie." {
		t.Errorf("text = %q (parts must be concatenated)", text)
	}
}

func TestGenerate_AlternateProviderTwoSteps(t *testing.T) {
	var step atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ai/chat/conversations":
			step.Add(1)
			var req map[string]any
			json.NewDecoder(r.Body).Decode(&req)
			if req["model"] != "mistral-large-latest" {
				t.Errorf("model = %v", req["model"])
			}
			json.NewEncoder(w).Encode(map[string]any{"conversationId": "conv-1"})
		case "/ai/chat/conversations/conv-1/messages":
			step.Add(1)
			var req map[string]any
			json.NewDecoder(r.Body).Decode(&req)
			if req["content"] != "Écris un post." {
				t.Errorf("content = %v", req["content"])
			}
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{"content": "Voici le post."},
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	text, err := testClient(srv).Generate(context.Background(), Request{
		ModelCode: "mistral-large-latest",
		Prompt:    "Écris un post.",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Voici le post." {
		t.Errorf("text = %q", text)
	}
	if step.Load() != 2 {
		t.Errorf("steps = %d, want conversation then message", step.Load())
	}
}

func TestGenerate_QuotaHintFromMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "Resource exhausted. Please retry in 42 seconds.",
			},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv).Generate(context.Background(), Request{
		ModelCode: "gemini-2.5-flash",
		Prompt:    "x",
	})
	if !errors.Is(err, errors.ErrQuotaExhausted) {
		t.Fatalf("err = %v, want QUOTA_EXHAUSTED", err)
	}
	if !strings.Contains(err.Error(), "42 seconds") {
		t.Errorf("err = %v, want wait hint from message", err)
	}
}

func TestGenerate_QuotaHintFromRetryDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "Quota exceeded.",
				"details": []any{map[string]any{"retryDelay": "17s"}},
			},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv).Generate(context.Background(), Request{
		ModelCode: "gemini-2.5-flash",
		Prompt:    "x",
	})
	if !errors.Is(err, errors.ErrQuotaExhausted) {
		t.Fatalf("err = %v, want QUOTA_EXHAUSTED", err)
	}
	if !strings.Contains(err.Error(), "17 seconds") {
		t.Errorf("err = %v, want wait hint from retryDelay", err)
	}
}

func TestGenerate_QuotaGenericHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("too many requests"))
	}))
	defer srv.Close()

	_, err := testClient(srv).Generate(context.Background(), Request{
		ModelCode: "gemini-2.5-flash",
		Prompt:    "x",
	})
	if !errors.Is(err, errors.ErrQuotaExhausted) {
		t.Fatalf("err = %v, want QUOTA_EXHAUSTED", err)
	}
	if !strings.Contains(err.Error(), "quota exhausted") {
		t.Errorf("err = %v, want generic hint", err)
	}
}

func TestGenerate_QuotaRetriedWithinBudgetFirst(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	_, err := testClient(srv).Generate(context.Background(), Request{
		ModelCode: "gemini-2.5-flash",
		Prompt:    "x",
	})
	if !errors.Is(err, errors.ErrQuotaExhausted) {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != httpx.DefaultMaxAttempts {
		t.Errorf("calls = %d, want the full shared retry budget", calls.Load())
	}
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	_, err := testClient(srv).Generate(context.Background(), Request{
		ModelCode: "gemini-2.5-flash",
		Prompt:    "x",
	})
	if !errors.Is(err, errors.ErrBadAIOutput) {
		t.Fatalf("err = %v, want BAD_AI_OUTPUT", err)
	}
	if errors.Reason(err) != errors.ReasonEmptyPayload {
		t.Errorf("reason = %q", errors.Reason(err))
	}
}

func TestGenerate_MissingModelCode(t *testing.T) {
	c := NewClient(config.DefaultConfig(), fastHTTP(), relay.Session{})
	if _, err := c.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestQuotaHint(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"error":{"message":"retry in 30 seconds"}}`, "30 seconds"},
		{"fractional", `{"error":{"message":"Retry in 2.5 seconds."}}`, "2.5 seconds"},
		{"retryDelay", `{"error":{"message":"quota","details":[{"retryDelay":"58s"}]}}`, "58 seconds"},
		{"raw text", `error: retry in 9 seconds`, "9 seconds"},
		{"nothing", `{"error":{"message":"quota exceeded"}}`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := quotaHint([]byte(tt.body))
			if tt.want == "" {
				if hint != "" {
					t.Errorf("hint = %q, want empty", hint)
				}
				return
			}
			if !strings.Contains(hint, tt.want) {
				t.Errorf("hint = %q, want contains %q", hint, tt.want)
			}
		})
	}
}
