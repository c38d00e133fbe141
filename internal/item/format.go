package item

import "fmt"

// Format is the closed set of content shapes a drafting action may
// produce. Canonical labels are the French ones stored remotely.
type Format string

const (
	FormatPost        Format = "Post Texte"
	FormatArticle     Format = "Article"
	FormatShortVideo  Format = "Script Video Court"
	FormatLongVideo   Format = "Script Video Long"
	FormatCarousel    Format = "Carrousel"
	FormatImagePrompt Format = "Prompt Image"
)

// formatAliases maps short labels emitted by older prompt versions to
// their canonical format.
var formatAliases = map[string]Format{
	"post":     FormatPost,
	"article":  FormatArticle,
	"short":    FormatShortVideo,
	"long":     FormatLongVideo,
	"carousel": FormatCarousel,
	"image":    FormatImagePrompt,
}

// ParseFormat resolves a canonical label or documented alias.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPost, FormatArticle, FormatShortVideo, FormatLongVideo,
		FormatCarousel, FormatImagePrompt:
		return Format(s), nil
	}
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}
