package ops

import (
	"fmt"
	"strings"

	"github.com/tmercier/pressroom/internal/draft"
	"github.com/tmercier/pressroom/internal/item"
)

// Prompt builders. The workspace is French, so the instructions are too.
// Every prompt that expects structured output spells out the exact JSON
// shape; the parsers on the other side are strict.

func analysisPrompt(it item.ContentItem) string {
	var b strings.Builder
	b.WriteString("Analyse cette idée de contenu et rends ton évaluation.\n\n")
	writeItemContext(&b, it)
	b.WriteString(`
Réponds uniquement avec un objet JSON de la forme:
{
  "verdict": "Go" | "Retravailler" | "Abandonner",
  "angle": "l'angle stratégique recommandé",
  "suggested_platforms": ["LinkedIn", ...],
  "target_format": "Post Texte" | "Article" | "Script Video Court" | "Script Video Long" | "Carrousel" | "Prompt Image",
  "target_offer": "Audit" | "Coaching" | "Formation" | "Aucune",
  "justification": "pourquoi ce verdict",
  "metaphor": "une métaphore pour incarner l'idée",
  "depth": "Rapide" | "Approfondi"
}`)
	return b.String()
}

func interviewPrompt(it item.ContentItem) string {
	var b strings.Builder
	b.WriteString("Prépare une interview pour développer cette idée de contenu. ")
	b.WriteString("Pose entre 5 et 8 questions ouvertes, une par ligne, sans préambule.\n\n")
	writeItemContext(&b, it)
	return b.String()
}

func draftPrompt(it item.ContentItem, format item.Format) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rédige le contenu au format %q.\n\n", string(format))
	writeItemContext(&b, it)
	if it.InterviewAnswers != "" {
		b.WriteString("\nRéponses d'interview:\n")
		b.WriteString(it.InterviewAnswers)
		b.WriteString("\n")
	}
	b.WriteString("\nRéponds uniquement avec un objet JSON contenant un champ \"format\" ")
	fmt.Fprintf(&b, "valant %q et les champs propres à ce format (%s).", string(format), formatFields(format))
	return b.String()
}

func formatFields(format item.Format) string {
	switch format {
	case item.FormatPost:
		return `"hook", "body", "callout"`
	case item.FormatArticle:
		return `"heading", "intro", "sections" [{"title","body"}], "conclusion"`
	case item.FormatCarousel:
		return `"slides" [{"title","text"}]`
	case item.FormatImagePrompt:
		return `"prompt", "style", "negative"`
	}
	return `"hook", "sections" [{"title","text"}], "cta"`
}

func writeItemContext(b *strings.Builder, it item.ContentItem) {
	fmt.Fprintf(b, "Titre: %s\n", it.Title)
	if len(it.Platforms) > 0 {
		fmt.Fprintf(b, "Plateformes: %s\n", strings.Join(it.Platforms, ", "))
	}
	if it.Angle != "" {
		fmt.Fprintf(b, "Angle stratégique: %s\n", it.Angle)
	}
	if it.Metaphor != "" {
		fmt.Fprintf(b, "Métaphore: %s\n", it.Metaphor)
	}
	if it.Notes != "" {
		fmt.Fprintf(b, "Notes: %s\n", it.Notes)
	}
	if body := draft.BodyToText(it.Body); body != "" {
		fmt.Fprintf(b, "Contenu existant:\n%s\n", body)
	}
}
