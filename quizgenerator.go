package docquiz

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxStoredSourceLength bounds the source text persisted alongside a question set
const MaxStoredSourceLength = 5000

// QuestionSetStore persists generated question sets and assigns their identifiers
type QuestionSetStore interface {
	SaveQuestionSet(ctx context.Context, set *QuestionSet) (*QuestionSet, error)
}

// UploadRequest is an uploaded document plus the generation parameters
type UploadRequest struct {
	Filename      string
	MediaType     string
	Data          []byte
	Subject       string
	QuestionCount int
	QuestionTypes []QuestionType
	Tone          string
	Difficulty    string
}

// QuizGenerator orchestrates ingestion, multi-type generation and persistence
type QuizGenerator struct {
	generator TextGenerator
	store     QuestionSetStore
	logDir    string
}

// NewQuizGenerator creates a quiz generator; store may be nil when only GenerateAcrossTypes is used
func NewQuizGenerator(generator TextGenerator, store QuestionSetStore) *QuizGenerator {
	return &QuizGenerator{
		generator: generator,
		store:     store,
	}
}

// SetLogDir enables per-request LLM transcripts under dir
func (qg *QuizGenerator) SetLogDir(dir string) {
	qg.logDir = dir
}

// GenerateAcrossTypes runs the single-type pipeline once per requested type, in order,
// and returns at most req.QuestionCount questions. Any failing type fails the whole call.
func (qg *QuizGenerator) GenerateAcrossTypes(ctx context.Context, req MultiTypeGenerationRequest) ([]Question, error) {
	return qg.generateAcrossTypes(ctx, req, nil)
}

func (qg *QuizGenerator) generateAcrossTypes(ctx context.Context, req MultiTypeGenerationRequest, logger *LLMLogger) ([]Question, error) {
	plan, err := NewGenerationPlan(req)
	if err != nil {
		return nil, err
	}

	Logger().Infow("Starting multi-type generation",
		"subject", req.Subject, "types", req.QuestionTypes, "count", req.QuestionCount, "quota", plan.Quota)

	maker := NewQuestionMaker(qg.generator)
	maker.SetLogger(logger)

	results := make([][]Question, 0, len(plan.Tasks))
	for _, task := range plan.Tasks {
		questions, err := maker.GenerateQuestions(ctx, task.Request)
		if err != nil {
			Logger().Errorw("Generation failed", "task", task.Index, "type", task.Request.QuestionType, "error", err)
			return nil, Errorf(KindGeneration, "GenerateAcrossTypes", "%s questions (task %d): %w", task.Request.QuestionType, task.Index, err)
		}
		results = append(results, questions)
	}

	merged := plan.Merge(results)
	Logger().Infow("Multi-type generation complete", "requested", req.QuestionCount, "returned", len(merged))
	return merged, nil
}

// CreateQuestionSet turns an uploaded document into a persisted question set
func (qg *QuizGenerator) CreateQuestionSet(ctx context.Context, upload UploadRequest) (*QuestionSet, error) {
	req := MultiTypeGenerationRequest{
		Subject:       upload.Subject,
		QuestionCount: upload.QuestionCount,
		QuestionTypes: upload.QuestionTypes,
		Tone:          upload.Tone,
		Difficulty:    upload.Difficulty,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	text, err := ExtractText(upload.Data, upload.MediaType)
	if err != nil {
		return nil, err
	}

	outcome := NormalizeText(text)
	if outcome.Text == "" {
		return nil, Errorf(KindInvalidInput, "CreateQuestionSet", "document %q contains no text", upload.Filename)
	}
	Logger().Infow("Normalized source text",
		"file", upload.Filename,
		"original_length", outcome.OriginalLength,
		"truncated_length", outcome.TruncatedLength,
		"was_truncated", outcome.WasTruncated)

	req.Content = outcome.Text

	var logger *LLMLogger
	if qg.logDir != "" {
		requestID := uuid.NewString()
		logger, err = NewLLMLogger(qg.logDir, requestID, req)
		if err != nil {
			// continue without a transcript rather than failing the upload
			Logger().Warnw("Failed to create LLM logger", "request_id", requestID, "error", err)
			logger = nil
		} else {
			defer logger.Close()
			logger.LogTruncation(outcome)
		}
	}

	questions, err := qg.generateAcrossTypes(ctx, req, logger)
	if err != nil {
		return nil, err
	}

	set := &QuestionSet{
		Subject:        req.Subject,
		Tone:           req.Tone,
		Difficulty:     req.Difficulty,
		QuestionTypes:  req.QuestionTypes,
		SourceFilename: upload.Filename,
		SourceText:     truncateRunes(outcome.Text, MaxStoredSourceLength),
		Questions:      questions,
		CreatedAt:      time.Now().UTC(),
	}
	if qg.store == nil {
		return set, nil
	}
	return qg.store.SaveQuestionSet(ctx, set)
}

func truncateRunes(s string, n int) string {
	return s[:byteOffset(s, n)]
}
