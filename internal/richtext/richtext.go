// Package richtext converts between the remote store's annotated-span
// representation and a flat markdown-like string that a plain text
// control can edit.
package richtext

import (
	"fmt"
	"regexp"
	"strings"
)

// Remote format limits: each span holds at most MaxSpanLen characters and
// a field holds at most MaxSpans spans.
const (
	MaxSpanLen = 2000
	MaxSpans   = 100
)

// Span is one run of text with a uniform set of style annotations and an
// optional link, matching the remote rich-text representation.
type Span struct {
	Text          string `json:"text"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Link          string `json:"link,omitempty"`
}

// Decode renders spans as a markdown-like string. Wraps are applied in a
// fixed order (code, bold, italic, strikethrough) and links render as
// [text](url). Span order is preserved.
func Decode(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		t := s.Text
		if s.Code {
			t = "`" + t + "`"
		}
		if s.Bold {
			t = "**" + t + "**"
		}
		if s.Italic {
			t = "_" + t + "_"
		}
		if s.Strikethrough {
			t = "~" + t + "~"
		}
		if s.Link != "" {
			t = "[" + t + "](" + s.Link + ")"
		}
		b.WriteString(t)
	}
	return b.String()
}

// inlinePattern matches the five supported inline constructs in a single
// left-to-right pass. Alternation order matters: ** must be tried before _
// so that bold delimiters are not consumed as shorter matches. Quantifiers
// are lazy so each token is as short as possible, which keeps adjacent
// tokens separate.
// Groups: 1 bold, 2 code, 3 strikethrough, 4 italic, 5+6 link text/url.
var inlinePattern = regexp.MustCompile(
	`(?s)\*\*(.+?)\*\*|` + "`(.+?)`" + `|~(.+?)~|_(.+?)_|\[([^\]]*)\]\(([^)]*)\)`)

// Encode tokenizes a markdown-like string into spans and enforces the
// remote format's limits. The second return value lists diagnostics for
// lossy adjustments (currently only annotation-dropping truncation).
func Encode(text string) ([]Span, []string) {
	spans := tokenize(text)
	spans = splitLong(spans)

	if len(spans) <= MaxSpans {
		return spans, nil
	}

	// Too many segments even after splitting: drop all annotations and
	// links and re-chunk the concatenated plain text up to capacity.
	var plain strings.Builder
	for _, s := range spans {
		plain.WriteString(s.Text)
	}
	runes := []rune(plain.String())

	capacity := MaxSpans * MaxSpanLen
	truncated := len(runes) > capacity
	if truncated {
		runes = runes[:capacity]
	}

	out := make([]Span, 0, MaxSpans)
	for start := 0; start < len(runes); start += MaxSpanLen {
		end := min(start+MaxSpanLen, len(runes))
		out = append(out, Span{Text: string(runes[start:end])})
	}

	diag := fmt.Sprintf("text exceeds %d rich-text segments; annotations dropped", MaxSpans)
	if truncated {
		diag += fmt.Sprintf(" and text truncated to %d characters", capacity)
	}
	return out, []string{diag}
}

// tokenize scans text left to right, turning recognized inline tokens
// into annotated spans and unmatched runs into plain spans.
func tokenize(text string) []Span {
	if text == "" {
		return nil
	}

	var spans []Span
	pos := 0
	for _, m := range inlinePattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > pos {
			spans = append(spans, Span{Text: text[pos:m[0]]})
		}

		switch {
		case m[2] >= 0:
			spans = append(spans, Span{Text: text[m[2]:m[3]], Bold: true})
		case m[4] >= 0:
			spans = append(spans, Span{Text: text[m[4]:m[5]], Code: true})
		case m[6] >= 0:
			spans = append(spans, Span{Text: text[m[6]:m[7]], Strikethrough: true})
		case m[8] >= 0:
			spans = append(spans, Span{Text: text[m[8]:m[9]], Italic: true})
		default:
			spans = append(spans, Span{Text: text[m[10]:m[11]], Link: text[m[12]:m[13]]})
		}
		pos = m[1]
	}
	if pos < len(text) {
		spans = append(spans, Span{Text: text[pos:]})
	}
	return spans
}

// splitLong splits any span longer than MaxSpanLen into consecutive spans
// carrying the same annotations and link.
func splitLong(spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		runes := []rune(s.Text)
		if len(runes) <= MaxSpanLen {
			out = append(out, s)
			continue
		}
		for start := 0; start < len(runes); start += MaxSpanLen {
			end := min(start+MaxSpanLen, len(runes))
			fragment := s
			fragment.Text = string(runes[start:end])
			out = append(out, fragment)
		}
	}
	return out
}
