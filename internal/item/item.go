package item

import (
	"fmt"
	"time"
)

// Kind identifies one of the three synchronized collections.
type Kind string

const (
	KindContent  Kind = "content"
	KindContexts Kind = "contexts"
	KindModels   Kind = "models"
)

// Kinds lists every collection kind in a stable order.
var Kinds = []Kind{KindContent, KindContexts, KindModels}

// Status is the pipeline stage of a content item.
type Status string

const (
	StatusIdea      Status = "Idea"
	StatusDrafting  Status = "Drafting"
	StatusReady     Status = "Ready"
	StatusPublished Status = "Published"
)

// ParseStatus resolves a status label. Unknown labels are an error; the
// remote store is the source of truth for these values and a typo in a
// filter should not silently match nothing.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusIdea, StatusDrafting, StatusReady, StatusPublished:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Verdict is the AI analysis verdict for an idea.
type Verdict string

const (
	VerdictGo      Verdict = "Go"
	VerdictRework  Verdict = "Retravailler"
	VerdictDiscard Verdict = "Abandonner"
)

// Depth qualifies how much development an idea needs.
type Depth string

const (
	DepthQuick Depth = "Rapide"
	DepthDeep  Depth = "Approfondi"
)

// Offer is the commercial offer a content piece targets.
type Offer string

const (
	OfferAudit     Offer = "Audit"
	OfferCoaching  Offer = "Coaching"
	OfferFormation Offer = "Formation"
	OfferNone      Offer = "Aucune"
)

// Category restricts which AI action a persona applies to.
type Category string

const (
	CategoryAnalysis  Category = "analysis"
	CategoryInterview Category = "interview"
	CategoryDrafting  Category = "drafting"
)

// ContentItem is a unit of content moving through the pipeline. Field
// values mirror the remote record; the local store never invents data.
type ContentItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	Platforms   []string   `json:"platforms,omitempty"`
	Body        string     `json:"body,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	LastEdited  time.Time  `json:"last_edited"`

	// Analysis outputs, written only by the analyze action.
	Analyzed           bool     `json:"analyzed,omitempty"`
	Verdict            Verdict  `json:"verdict,omitempty"`
	Angle              string   `json:"angle,omitempty"`
	SuggestedPlatforms []string `json:"suggested_platforms,omitempty"`
	TargetFormat       Format   `json:"target_format,omitempty"`
	TargetOffer        Offer    `json:"target_offer,omitempty"`
	Justification      string   `json:"justification,omitempty"`
	Metaphor           string   `json:"metaphor,omitempty"`
	Depth              Depth    `json:"depth,omitempty"`

	// Interview and generation payloads.
	InterviewQuestions string `json:"interview_questions,omitempty"`
	InterviewAnswers   string `json:"interview_answers,omitempty"`
	Slides             string `json:"slides,omitempty"`
	Script             string `json:"script,omitempty"`
}

// Key returns the stable identity of the item within its collection.
func (c ContentItem) Key() string { return c.ID }

// EditedAt returns the remote last-modified timestamp.
func (c ContentItem) EditedAt() time.Time { return c.LastEdited }

// Persona is a reusable instruction profile for AI actions.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"` // system prompt body
	Category    Category `json:"category"`
}

// Key returns the stable identity of the persona.
func (p Persona) Key() string { return p.ID }

// EditedAt returns the zero time: personas carry no remote timestamp.
func (p Persona) EditedAt() time.Time { return time.Time{} }

// ModelProfile references an externally invoked LLM.
type ModelProfile struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"` // provider-specific model id
	Provider  string  `json:"provider"`
	CostTier  string  `json:"cost_tier,omitempty"`
	Strengths string  `json:"strengths,omitempty"`
	BestFor   string  `json:"best_for,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
	BuiltIn   bool    `json:"built_in,omitempty"`
}

// Key returns the stable identity of the model profile.
func (m ModelProfile) Key() string { return m.ID }

// EditedAt returns the zero time: model profiles carry no remote timestamp.
func (m ModelProfile) EditedAt() time.Time { return time.Time{} }

// BuiltInModels returns the two synthetic model profiles that exist in
// every installation and are never persisted remotely.
func BuiltInModels() []ModelProfile {
	return []ModelProfile{
		{
			ID:       "builtin-fast",
			Name:     "Rapide (intégré)",
			Code:     "gemini-2.5-flash",
			Provider: "Google",
			CostTier: "low",
			Rating:   3.5,
			BuiltIn:  true,
		},
		{
			ID:       "builtin-smart",
			Name:     "Malin (intégré)",
			Code:     "gemini-2.5-pro",
			Provider: "Google",
			CostTier: "high",
			Rating:   4.5,
			BuiltIn:  true,
		},
	}
}
