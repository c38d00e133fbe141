package draft

import (
	"strings"

	"github.com/tmercier/pressroom/internal/item"
)

// PostDraft is a short text post.
type PostDraft struct {
	Hook    string `json:"hook"`
	Body    string `json:"body"`
	Callout string `json:"callout,omitempty"`
}

// ArticleDraft is a long-form article.
type ArticleDraft struct {
	Heading    string           `json:"heading"`
	Intro      string           `json:"intro,omitempty"`
	Sections   []ArticleSection `json:"sections,omitempty"`
	Conclusion string           `json:"conclusion,omitempty"`
}

// ArticleSection is one titled block of an article body.
type ArticleSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ScriptDraft is a video script, short or long form.
type ScriptDraft struct {
	Hook     string          `json:"hook,omitempty"`
	Sections []ScriptSection `json:"sections,omitempty"`
	CTA      string          `json:"cta,omitempty"`
}

// ScriptSection is one sequence of a video script.
type ScriptSection struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// CarouselDraft is a slide deck for carousel posts.
type CarouselDraft struct {
	Slides []Slide `json:"slides"`
}

// Slide is one carousel slide.
type Slide struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// ImagePromptDraft is a prompt for an image generation model.
type ImagePromptDraft struct {
	Prompt   string `json:"prompt"`
	Style    string `json:"style,omitempty"`
	Negative string `json:"negative,omitempty"`
}

// flatten concatenates the human-readable fields of a variant into a
// single space-joined string for search and preview.
func (p *PostDraft) flatten() string {
	return joinNonEmpty(p.Hook, p.Body, p.Callout)
}

func (a *ArticleDraft) flatten() string {
	parts := []string{a.Heading, a.Intro}
	for _, s := range a.Sections {
		parts = append(parts, s.Title, s.Body)
	}
	parts = append(parts, a.Conclusion)
	return joinNonEmpty(parts...)
}

func (s *ScriptDraft) flatten() string {
	parts := []string{s.Hook}
	for _, sec := range s.Sections {
		parts = append(parts, sec.Title, sec.Text)
	}
	parts = append(parts, s.CTA)
	return joinNonEmpty(parts...)
}

func (c *CarouselDraft) flatten() string {
	var parts []string
	for _, s := range c.Slides {
		parts = append(parts, s.Title, s.Text)
	}
	return joinNonEmpty(parts...)
}

func (i *ImagePromptDraft) flatten() string {
	return joinNonEmpty(i.Prompt, i.Style)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// isScript reports whether the format is one of the two video scripts.
func isScript(f item.Format) bool {
	return f == item.FormatShortVideo || f == item.FormatLongVideo
}
