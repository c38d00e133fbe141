package ops

import (
	"context"
	"testing"

	"github.com/tmercier/pressroom/internal/ai"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
)

func TestDraft(t *testing.T) {
	env, _, gen := testEnv(t)
	seedContent(t, env, item.ContentItem{
		ID:           "p1",
		Title:        "t",
		Status:       item.StatusIdea,
		TargetFormat: item.FormatPost,
	})
	gen.generate = func(ctx context.Context, req ai.Request) (string, error) {
		return "Voici le résultat:\n```json\n" +
			`{"format":"Post Texte","hook":"Accroche","body":"Le corps."}` +
			"\n```", nil
	}

	out, err := Draft(context.Background(), env, DraftInput{ID: "p1"})
	if err != nil {
		t.Fatalf("Draft failed: %v", err)
	}
	if out.Draft.Post == nil || out.Draft.Post.Hook != "Accroche" {
		t.Errorf("draft = %+v", out.Draft)
	}
	if out.Item.Body != `{"format":"Post Texte","hook":"Accroche","body":"Le corps."}` {
		t.Errorf("Body = %q, want the validated JSON payload", out.Item.Body)
	}
	if out.Item.Status != item.StatusDrafting {
		t.Errorf("Status = %q, want drafting after a successful draft", out.Item.Status)
	}
}

func TestDraft_ExplicitFormatOverride(t *testing.T) {
	env, _, gen := testEnv(t)
	seedContent(t, env, item.ContentItem{ID: "p1", Title: "t", TargetFormat: item.FormatPost})
	gen.generate = func(ctx context.Context, req ai.Request) (string, error) {
		return `{"format":"Carrousel","slides":[{"title":"S1","text":"Texte."}]}`, nil
	}

	out, err := Draft(context.Background(), env, DraftInput{ID: "p1", Format: "carousel"})
	if err != nil {
		t.Fatalf("Draft failed: %v", err)
	}
	if out.Item.TargetFormat != item.FormatCarousel || out.Draft.Carousel == nil {
		t.Errorf("out = %+v", out)
	}
}

func TestDraft_NoTargetFormat(t *testing.T) {
	env, _, _ := testEnv(t)
	seedContent(t, env, item.ContentItem{ID: "p1", Title: "t"})

	if _, err := Draft(context.Background(), env, DraftInput{ID: "p1"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST without a format", err)
	}
}

func TestDraft_BadOutputLeavesItemUnmodified(t *testing.T) {
	env, _, gen := testEnv(t)
	seedContent(t, env, item.ContentItem{
		ID:           "p1",
		Title:        "t",
		Status:       item.StatusIdea,
		Body:         "corps original",
		TargetFormat: item.FormatPost,
	})
	gen.generate = func(ctx context.Context, req ai.Request) (string, error) {
		return `{"format":"Sonnet","lines":[]}`, nil
	}

	_, err := Draft(context.Background(), env, DraftInput{ID: "p1"})
	if !errors.Is(err, errors.ErrBadAIOutput) {
		t.Fatalf("err = %v, want BAD_AI_OUTPUT", err)
	}
	if errors.Reason(err) != errors.ReasonUnknownFormat {
		t.Errorf("reason = %q", errors.Reason(err))
	}

	got := mirrored(t, env, "p1")
	if got.Body != "corps original" || got.Status != item.StatusIdea {
		t.Errorf("item modified after failed draft: %+v", got)
	}
}
