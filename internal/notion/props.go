package notion

import (
	"time"

	"github.com/tmercier/pressroom/internal/item"
	"github.com/tmercier/pressroom/internal/richtext"
)

// Remote property names. The workspace is French; these labels are part
// of the remote schema, not display strings.
const (
	propTitle         = "Titre"
	propStatus        = "Statut"
	propPlatforms     = "Plateforme"
	propBody          = "Contenu"
	propScheduled     = "Date de publication"
	propNotes         = "Notes"
	propAnalyzed      = "Analysé"
	propVerdict       = "Verdict"
	propAngle         = "Angle stratégique"
	propSuggested     = "Plateformes suggérées"
	propTargetFormat  = "Format cible"
	propTargetOffer   = "Cible Offre"
	propJustification = "Justification"
	propMetaphor      = "Métaphore"
	propDepth         = "Profondeur"
	propQuestions     = "Questions Interview"
	propAnswers       = "Réponses Interview"
	propSlides        = "Slides"
	propScript        = "Script"

	propName        = "Nom"
	propDescription = "Description"
	propCategory    = "Catégorie"

	propCode      = "Code"
	propProvider  = "Fournisseur"
	propCostTier  = "Coût"
	propStrengths = "Forces"
	propBestFor   = "Cas d'usage"
	propRating    = "Note"
)

// page is the remote record envelope: a property bag keyed by
// human-readable field names.
type page struct {
	ID             string              `json:"id"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	Archived       bool                `json:"archived"`
	Properties     map[string]property `json:"properties"`
}

// property is the remote property-value envelope. Only the variants the
// three collections use are modeled; anything else decodes to zero.
type property struct {
	Type        string         `json:"type,omitempty"`
	Title       []textNode     `json:"title,omitempty"`
	RichText    []textNode     `json:"rich_text,omitempty"`
	Select      *selectOption  `json:"select,omitempty"`
	Status      *selectOption  `json:"status,omitempty"`
	MultiSelect []selectOption `json:"multi_select,omitempty"`
	Date        *dateValue     `json:"date,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	Number      *float64       `json:"number,omitempty"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
}

// textNode is one element of a title or rich_text property.
type textNode struct {
	PlainText   string       `json:"plain_text,omitempty"`
	Text        *textContent `json:"text,omitempty"`
	Annotations *annotations `json:"annotations,omitempty"`
	Href        string       `json:"href,omitempty"`
}

type textContent struct {
	Content string    `json:"content"`
	Link    *linkBody `json:"link,omitempty"`
}

type linkBody struct {
	URL string `json:"url"`
}

type annotations struct {
	Bold          bool `json:"bold,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Code          bool `json:"code,omitempty"`
}

// spansFromNodes converts remote text nodes to codec spans.
func spansFromNodes(nodes []textNode) []richtext.Span {
	spans := make([]richtext.Span, 0, len(nodes))
	for _, n := range nodes {
		s := richtext.Span{Text: n.PlainText}
		if n.Text != nil && s.Text == "" {
			s.Text = n.Text.Content
		}
		if n.Annotations != nil {
			s.Bold = n.Annotations.Bold
			s.Italic = n.Annotations.Italic
			s.Strikethrough = n.Annotations.Strikethrough
			s.Code = n.Annotations.Code
		}
		s.Link = n.Href
		if s.Link == "" && n.Text != nil && n.Text.Link != nil {
			s.Link = n.Text.Link.URL
		}
		spans = append(spans, s)
	}
	return spans
}

// nodesFromSpans converts codec spans to remote text nodes.
func nodesFromSpans(spans []richtext.Span) []textNode {
	nodes := make([]textNode, 0, len(spans))
	for _, s := range spans {
		n := textNode{
			Text: &textContent{Content: s.Text},
			Annotations: &annotations{
				Bold:          s.Bold,
				Italic:        s.Italic,
				Strikethrough: s.Strikethrough,
				Code:          s.Code,
			},
		}
		if s.Link != "" {
			n.Text.Link = &linkBody{URL: s.Link}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// Property readers. Missing or differently-typed properties read as zero
// values, never an error: the remote schema evolves ahead of the client.

func (p page) text(name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}
	if len(prop.Title) > 0 {
		return richtext.Decode(spansFromNodes(prop.Title))
	}
	return richtext.Decode(spansFromNodes(prop.RichText))
}

func (p page) selectName(name string) string {
	prop, ok := p.Properties[name]
	if !ok {
		return ""
	}
	if prop.Select != nil {
		return prop.Select.Name
	}
	if prop.Status != nil {
		return prop.Status.Name
	}
	return ""
}

func (p page) multiSelect(name string) []string {
	prop, ok := p.Properties[name]
	if !ok || len(prop.MultiSelect) == 0 {
		return nil
	}
	names := make([]string, 0, len(prop.MultiSelect))
	for _, opt := range prop.MultiSelect {
		names = append(names, opt.Name)
	}
	return names
}

func (p page) date(name string) *time.Time {
	prop, ok := p.Properties[name]
	if !ok || prop.Date == nil || prop.Date.Start == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, prop.Date.Start)
	if err != nil {
		return nil
	}
	return &t
}

func (p page) checkbox(name string) bool {
	prop, ok := p.Properties[name]
	return ok && prop.Checkbox != nil && *prop.Checkbox
}

func (p page) number(name string) float64 {
	prop, ok := p.Properties[name]
	if !ok || prop.Number == nil {
		return 0
	}
	return *prop.Number
}

// contentFromPage maps a remote record onto a ContentItem.
func contentFromPage(p page) item.ContentItem {
	status, _ := item.ParseStatus(p.selectName(propStatus))
	format, _ := item.ParseFormat(p.selectName(propTargetFormat))
	return item.ContentItem{
		ID:                 p.ID,
		Title:              p.text(propTitle),
		Status:             status,
		Platforms:          p.multiSelect(propPlatforms),
		Body:               p.text(propBody),
		ScheduledAt:        p.date(propScheduled),
		Notes:              p.text(propNotes),
		LastEdited:         p.LastEditedTime,
		Analyzed:           p.checkbox(propAnalyzed),
		Verdict:            item.Verdict(p.selectName(propVerdict)),
		Angle:              p.text(propAngle),
		SuggestedPlatforms: p.multiSelect(propSuggested),
		TargetFormat:       format,
		TargetOffer:        item.Offer(p.selectName(propTargetOffer)),
		Justification:      p.text(propJustification),
		Metaphor:           p.text(propMetaphor),
		Depth:              item.Depth(p.selectName(propDepth)),
		InterviewQuestions: p.text(propQuestions),
		InterviewAnswers:   p.text(propAnswers),
		Slides:             p.text(propSlides),
		Script:             p.text(propScript),
	}
}

// personaFromPage maps a remote record onto a Persona.
func personaFromPage(p page) item.Persona {
	return item.Persona{
		ID:          p.ID,
		Name:        p.text(propName),
		Description: p.text(propDescription),
		Category:    item.Category(p.selectName(propCategory)),
	}
}

// modelFromPage maps a remote record onto a ModelProfile.
func modelFromPage(p page) item.ModelProfile {
	return item.ModelProfile{
		ID:        p.ID,
		Name:      p.text(propName),
		Code:      p.text(propCode),
		Provider:  p.selectName(propProvider),
		CostTier:  p.selectName(propCostTier),
		Strengths: p.text(propStrengths),
		BestFor:   p.text(propBestFor),
		Rating:    p.number(propRating),
	}
}

// Property writers.

func titleProp(text string) property {
	return property{Title: []textNode{{Text: &textContent{Content: text}}}}
}

func richTextProp(markdown string) property {
	spans, _ := richtext.Encode(markdown)
	return property{RichText: nodesFromSpans(spans)}
}

func selectProp(name string) property {
	return property{Select: &selectOption{Name: name}}
}

func statusProp(name string) property {
	return property{Status: &selectOption{Name: name}}
}

func multiSelectProp(names []string) property {
	opts := make([]selectOption, 0, len(names))
	for _, n := range names {
		opts = append(opts, selectOption{Name: n})
	}
	return property{MultiSelect: opts}
}

func dateProp(t time.Time) property {
	return property{Date: &dateValue{Start: t.Format(time.RFC3339)}}
}

func checkboxProp(v bool) property {
	return property{Checkbox: &v}
}

func numberProp(v float64) property {
	return property{Number: &v}
}

// contentProperties builds the full editable property set for an item.
func contentProperties(it item.ContentItem) map[string]property {
	props := map[string]property{
		propTitle:     titleProp(it.Title),
		propBody:      richTextProp(it.Body),
		propNotes:     richTextProp(it.Notes),
		propPlatforms: multiSelectProp(it.Platforms),
		propAnalyzed:  checkboxProp(it.Analyzed),
	}
	if it.Status != "" {
		props[propStatus] = statusProp(string(it.Status))
	}
	if it.ScheduledAt != nil {
		props[propScheduled] = dateProp(*it.ScheduledAt)
	}
	if it.Verdict != "" {
		props[propVerdict] = selectProp(string(it.Verdict))
	}
	if it.Angle != "" {
		props[propAngle] = richTextProp(it.Angle)
	}
	if len(it.SuggestedPlatforms) > 0 {
		props[propSuggested] = multiSelectProp(it.SuggestedPlatforms)
	}
	if it.TargetFormat != "" {
		props[propTargetFormat] = selectProp(string(it.TargetFormat))
	}
	if it.TargetOffer != "" {
		props[propTargetOffer] = selectProp(string(it.TargetOffer))
	}
	if it.Justification != "" {
		props[propJustification] = richTextProp(it.Justification)
	}
	if it.Metaphor != "" {
		props[propMetaphor] = richTextProp(it.Metaphor)
	}
	if it.Depth != "" {
		props[propDepth] = selectProp(string(it.Depth))
	}
	if it.InterviewQuestions != "" {
		props[propQuestions] = richTextProp(it.InterviewQuestions)
	}
	if it.InterviewAnswers != "" {
		props[propAnswers] = richTextProp(it.InterviewAnswers)
	}
	if it.Slides != "" {
		props[propSlides] = richTextProp(it.Slides)
	}
	if it.Script != "" {
		props[propScript] = richTextProp(it.Script)
	}
	return props
}

// personaProperties builds the property set for a persona.
func personaProperties(p item.Persona) map[string]property {
	props := map[string]property{
		propName:        titleProp(p.Name),
		propDescription: richTextProp(p.Description),
	}
	if p.Category != "" {
		props[propCategory] = selectProp(string(p.Category))
	}
	return props
}
