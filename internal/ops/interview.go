package ops

import (
	"context"
	"strings"

	"github.com/tmercier/pressroom/internal/ai"
	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/item"
)

// InterviewInput contains parameters for the Interview operation.
type InterviewInput struct {
	ID      string
	Persona string  // optional persona id or name
	Model   string  // optional model id or code
	Answers *string // when set, records answers instead of generating questions
}

// InterviewOutput contains the item with its interview fields updated.
type InterviewOutput struct {
	Item item.ContentItem `json:"item"`
}

// Interview generates the interview questions for an idea, or records
// the answers when they are provided.
func Interview(ctx context.Context, env *Env, input InterviewInput) (*InterviewOutput, error) {
	it, err := resolveContent(env.DB, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Answers != nil {
		it.InterviewAnswers = strings.TrimSpace(*input.Answers)
		it.LastEdited = nowUTC()
		if err := saveContent(ctx, env, it); err != nil {
			return &InterviewOutput{Item: it}, err
		}
		return &InterviewOutput{Item: it}, nil
	}

	persona, err := resolvePersona(env.DB, input.Persona, item.CategoryInterview)
	if err != nil {
		return nil, err
	}
	model, err := resolveModel(env.DB, env.Cfg, input.Model)
	if err != nil {
		return nil, err
	}

	req := ai.Request{ModelCode: model.Code, Prompt: interviewPrompt(it)}
	if persona != nil {
		req.System = persona.Description
	}
	questions, err := env.AI.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	questions = strings.TrimSpace(questions)
	if questions == "" {
		return nil, errors.NewBadAIOutput(errors.ReasonEmptyPayload,
			"model returned no interview questions")
	}

	it.InterviewQuestions = questions
	it.LastEdited = nowUTC()
	if err := saveContent(ctx, env, it); err != nil {
		return &InterviewOutput{Item: it}, err
	}
	return &InterviewOutput{Item: it}, nil
}
