package ops

import (
	"context"
	"encoding/json"

	"github.com/tmercier/pressroom/internal/ai"
	"github.com/tmercier/pressroom/internal/draft"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
)

// AnalyzeInput contains parameters for the Analyze operation.
type AnalyzeInput struct {
	ID      string
	Persona string // optional persona id or name
	Model   string // optional model id or code
}

// AnalyzeOutput contains the item with its analysis fields filled.
type AnalyzeOutput struct {
	Item item.ContentItem `json:"item"`
}

// analysisPayload is the structured verdict the model must return.
type analysisPayload struct {
	Verdict            string   `json:"verdict"`
	Angle              string   `json:"angle"`
	SuggestedPlatforms []string `json:"suggested_platforms"`
	TargetFormat       string   `json:"target_format"`
	TargetOffer        string   `json:"target_offer"`
	Justification      string   `json:"justification"`
	Metaphor           string   `json:"metaphor"`
	Depth              string   `json:"depth"`
}

// Analyze runs the AI evaluation of an idea and overwrites only the
// analysis fields. The rest of the item, the body in particular, is
// never touched by this operation.
func Analyze(ctx context.Context, env *Env, input AnalyzeInput) (*AnalyzeOutput, error) {
	it, err := resolveContent(env.DB, input.ID)
	if err != nil {
		return nil, err
	}
	persona, err := resolvePersona(env.DB, input.Persona, item.CategoryAnalysis)
	if err != nil {
		return nil, err
	}
	model, err := resolveModel(env.DB, env.Cfg, input.Model)
	if err != nil {
		return nil, err
	}

	req := ai.Request{ModelCode: model.Code, Prompt: analysisPrompt(it)}
	if persona != nil {
		req.System = persona.Description
	}
	raw, err := env.AI.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	payload := draft.ExtractJSONPayload(raw)
	if payload == "" {
		return nil, errors.NewBadAIOutput(errors.ReasonEmptyPayload,
			"no JSON payload found in analysis response")
	}
	var analysis analysisPayload
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, errors.NewBadAIOutput(errors.ReasonInvalidJSON,
			"analysis response is not valid JSON: "+err.Error())
	}

	it.Analyzed = true
	it.Verdict = item.Verdict(analysis.Verdict)
	it.Angle = analysis.Angle
	it.SuggestedPlatforms = analysis.SuggestedPlatforms
	it.TargetOffer = item.Offer(analysis.TargetOffer)
	it.Justification = analysis.Justification
	it.Metaphor = analysis.Metaphor
	it.Depth = item.Depth(analysis.Depth)
	if format, err := item.ParseFormat(analysis.TargetFormat); err == nil {
		it.TargetFormat = format
	}
	it.LastEdited = nowUTC()

	if err := saveContent(ctx, env, it); err != nil {
		return &AnalyzeOutput{Item: it}, err
	}
	return &AnalyzeOutput{Item: it}, nil
}
