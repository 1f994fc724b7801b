package docquiz

import (
	"context"
)

// QuestionMaker runs the single-type pipeline: prompt, model call, parse, repair
type QuestionMaker struct {
	generator TextGenerator
	labels    []string
	logger    *LLMLogger
}

// NewQuestionMaker creates a question maker on top of a model backend
func NewQuestionMaker(generator TextGenerator) *QuestionMaker {
	return &QuestionMaker{
		generator: generator,
		labels:    DefaultLabels,
	}
}

// SetLogger attaches a transcript logger; nil disables transcript logging
func (qm *QuestionMaker) SetLogger(logger *LLMLogger) {
	qm.logger = logger
}

// GenerateQuestions generates and repairs one batch of questions of req.QuestionType
func (qm *QuestionMaker) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]Question, error) {
	Logger().Infow("Generating questions", "type", req.QuestionType, "count", req.QuestionCount, "subject", req.Subject)

	prompt := BuildPrompt(req)

	module := "QuestionMaker/" + string(req.QuestionType)
	if qm.logger != nil {
		qm.logger.LogLLMRequest(module, prompt)
	}

	response, err := qm.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, Wrap(KindGeneration, "GenerateQuestions", err)
	}

	if qm.logger != nil {
		qm.logger.LogLLMResponse(module, response)
	}

	raw, err := ExtractQuestions(response)
	if err != nil {
		if qm.logger != nil {
			qm.logger.Logf("Parse failure (%s): %v\n", module, err)
		}
		return nil, err
	}

	questions := RepairQuestions(raw, req.QuestionType, qm.labels)

	if qm.logger != nil {
		qm.logger.LogBatchResult(req.QuestionType, len(raw), len(questions))
	}

	Logger().Infow("Generated questions", "type", req.QuestionType, "count", len(questions))
	return questions, nil
}
