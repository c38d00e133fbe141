// Package draft turns raw AI completions into validated, typed content
// payloads and flattens stored payloads back into plain text. Model
// output is unreliable (prose preambles, code fences, trailing
// signatures), so every consumer goes through this funnel instead of
// unmarshalling directly.
package draft

import (
	"encoding/json"
	"strings"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
)

// Draft is a validated AI drafting payload: the recognized format, the
// validated JSON it came from, and exactly one populated variant.
type Draft struct {
	Format item.Format
	Raw    string // validated JSON payload, byte-faithful for storage

	Post        *PostDraft
	Article     *ArticleDraft
	Script      *ScriptDraft
	Carousel    *CarouselDraft
	ImagePrompt *ImagePromptDraft
}

// Flatten returns the draft's human-readable fields as one string.
func (d *Draft) Flatten() string {
	switch {
	case d.Post != nil:
		return d.Post.flatten()
	case d.Article != nil:
		return d.Article.flatten()
	case d.Script != nil:
		return d.Script.flatten()
	case d.Carousel != nil:
		return d.Carousel.flatten()
	case d.ImagePrompt != nil:
		return d.ImagePrompt.flatten()
	}
	return ""
}

// ExtractJSONPayload strips code-fence markers and stray prose around a
// JSON object: fences (with or without a language tag) are removed, a
// leading bare "json" token is dropped, then the slice from the first
// "{" to the last "}" is returned. Returns "" when no braces are found;
// callers must treat "" as "no payload".
func ExtractJSONPayload(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "json")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// ParseResponse validates a raw drafting completion: the payload must be
// valid JSON, a top-level object, and carry a recognized format. Each
// failure mode gets a distinct BAD_AI_OUTPUT reason.
func ParseResponse(raw string) (*Draft, error) {
	payload := ExtractJSONPayload(raw)
	if payload == "" {
		return nil, errors.NewBadAIOutput(errors.ReasonEmptyPayload,
			"no JSON payload found in model response")
	}

	var probe any
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, errors.NewBadAIOutput(errors.ReasonInvalidJSON,
			"model response is not valid JSON: "+err.Error())
	}
	obj, ok := probe.(map[string]any)
	if !ok {
		return nil, errors.NewBadAIOutput(errors.ReasonNotObject,
			"model response must be a JSON object")
	}

	label, _ := obj["format"].(string)
	format, err := item.ParseFormat(label)
	if err != nil {
		return nil, errors.NewBadAIOutput(errors.ReasonUnknownFormat,
			"model response carries an unrecognized format: "+label)
	}

	d := &Draft{Format: format, Raw: payload}
	if err := d.decodeVariant(payload); err != nil {
		return nil, errors.NewBadAIOutput(errors.ReasonInvalidJSON,
			"model response does not match the "+string(format)+" shape: "+err.Error())
	}
	return d, nil
}

// decodeVariant unmarshals the payload into the variant selected by the
// format tag. Adding a format without a case here fails loudly in tests
// rather than producing an empty draft.
func (d *Draft) decodeVariant(payload string) error {
	data := []byte(payload)
	switch {
	case d.Format == item.FormatPost:
		d.Post = &PostDraft{}
		return json.Unmarshal(data, d.Post)
	case d.Format == item.FormatArticle:
		d.Article = &ArticleDraft{}
		return json.Unmarshal(data, d.Article)
	case isScript(d.Format):
		d.Script = &ScriptDraft{}
		return json.Unmarshal(data, d.Script)
	case d.Format == item.FormatCarousel:
		d.Carousel = &CarouselDraft{}
		return json.Unmarshal(data, d.Carousel)
	case d.Format == item.FormatImagePrompt:
		d.ImagePrompt = &ImagePromptDraft{}
		return json.Unmarshal(data, d.ImagePrompt)
	}
	return errors.NewInternal(nil)
}

// BodyToText flattens a stored body into plain text for search and
// preview. The field historically stored either plain text or structured
// JSON (sometimes with a signature appended after the closing brace), so
// anything that does not parse as a recognized payload is returned
// unchanged.
func BodyToText(stored string) string {
	end := strings.LastIndex(stored, "}")
	if end < 0 {
		return stored
	}
	start := strings.Index(stored, "{")
	if start < 0 || start > end {
		return stored
	}

	payload := stored[start : end+1]

	var probe struct {
		Format string `json:"format"`
	}
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return stored
	}
	format, err := item.ParseFormat(probe.Format)
	if err != nil {
		return stored
	}

	d := &Draft{Format: format}
	if err := d.decodeVariant(payload); err != nil {
		return stored
	}
	if text := d.Flatten(); text != "" {
		return text
	}
	return stored
}
