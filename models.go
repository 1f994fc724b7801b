package docquiz

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// QuestionType is the closed set of question shapes the generator can produce
type QuestionType string

const (
	MultipleChoice   QuestionType = "multiple_choice"
	TrueFalse        QuestionType = "true_false"
	MultipleResponse QuestionType = "multiple_response"
	Matching         QuestionType = "matching"
	Completion       QuestionType = "completion"
)

// AllQuestionTypes lists every QuestionType in declaration order
var AllQuestionTypes = []QuestionType{MultipleChoice, TrueFalse, MultipleResponse, Matching, Completion}

// Valid reports whether t is one of the known question types
func (t QuestionType) Valid() bool {
	for _, known := range AllQuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseQuestionType accepts "multiple_choice", "Multiple-Choice", "MULTIPLE_CHOICE" and so on
func ParseQuestionType(s string) (QuestionType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, " ", "_")
	t := QuestionType(key)
	if !t.Valid() {
		return "", Errorf(KindInvalidInput, "ParseQuestionType", "unknown question type %q", s)
	}
	return t, nil
}

// ParseQuestionTypes splits a comma separated list and parses each entry. Duplicates are kept.
func ParseQuestionTypes(values ...string) ([]QuestionType, error) {
	var types []QuestionType
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			t, err := ParseQuestionType(part)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
	}
	return types, nil
}

// Choice is one labelled option of a question
type Choice struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// AnswerList holds the correct answer labels declared by the model.
// The model may send either a single string or an array of strings.
type AnswerList []string

func (a *AnswerList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*a = AnswerList{}
		} else {
			*a = AnswerList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("correctAnswers must be a string or an array of strings: %w", err)
	}
	if many == nil {
		many = []string{}
	}
	*a = AnswerList(many)
	return nil
}

// RawQuestion is a structurally checked but not yet repaired candidate from the model
type RawQuestion struct {
	Question       string     `json:"question"`
	Choices        []Choice   `json:"choices"`
	CorrectAnswers AnswerList `json:"correctAnswers"`
	Explanation    string     `json:"explanation"`
}

// Question is a repaired, type-consistent question
type Question struct {
	ID             string       `json:"id,omitempty"`
	Position       int          `json:"position,omitempty"`
	Type           QuestionType `json:"type"`
	Text           string       `json:"question"`
	Choices        []Choice     `json:"choices"`
	CorrectAnswers []string     `json:"correctAnswers"`
	Explanation    string       `json:"explanation"`
}

// GenerationRequest asks for questions of a single type
type GenerationRequest struct {
	Content       string       `json:"content"`
	Subject       string       `json:"subject"`
	QuestionCount int          `json:"question_count"`
	QuestionType  QuestionType `json:"question_type"`
	Tone          string       `json:"tone,omitempty"`
	Difficulty    string       `json:"difficulty,omitempty"`
}

// MaxQuestionCount bounds every generation request
const MaxQuestionCount = 50

// MultiTypeGenerationRequest asks for QuestionCount questions spread over QuestionTypes
type MultiTypeGenerationRequest struct {
	Content       string         `json:"content"`
	Subject       string         `json:"subject"`
	QuestionCount int            `json:"question_count"`
	QuestionTypes []QuestionType `json:"question_types"`
	Tone          string         `json:"tone,omitempty"`
	Difficulty    string         `json:"difficulty,omitempty"`
}

// Validate checks the request bounds
func (r MultiTypeGenerationRequest) Validate() error {
	if r.QuestionCount < 1 || r.QuestionCount > MaxQuestionCount {
		return Errorf(KindInvalidInput, "Validate", "question count must be between 1 and %d, got %d", MaxQuestionCount, r.QuestionCount)
	}
	if len(r.QuestionTypes) == 0 {
		return Errorf(KindInvalidInput, "Validate", "at least one question type is required")
	}
	for _, t := range r.QuestionTypes {
		if !t.Valid() {
			return Errorf(KindInvalidInput, "Validate", "unknown question type %q", t)
		}
	}
	return nil
}

// TruncationOutcome describes what the text normalizer did to the source text
type TruncationOutcome struct {
	Text            string `json:"text"`
	WasTruncated    bool   `json:"was_truncated"`
	OriginalLength  int    `json:"original_length"`
	TruncatedLength int    `json:"truncated_length"`
}

// QuestionSet is a persisted group of generated questions with its request metadata
type QuestionSet struct {
	ID             string         `json:"id"`
	Subject        string         `json:"subject"`
	Tone           string         `json:"tone,omitempty"`
	Difficulty     string         `json:"difficulty,omitempty"`
	QuestionTypes  []QuestionType `json:"question_types"`
	SourceFilename string         `json:"source_filename,omitempty"`
	SourceText     string         `json:"source_text,omitempty"`
	Questions      []Question     `json:"questions"`
	CreatedAt      time.Time      `json:"created_at"`
}

// SessionStatus represents the state of a practice session
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// PracticeSession is one learner attempt at a question set
type PracticeSession struct {
	ID            string          `json:"id"`
	QuestionSetID string          `json:"question_set_id"`
	LearnerID     string          `json:"learner_id,omitempty"`
	Status        SessionStatus   `json:"status"`
	Score         int             `json:"score"`
	Total         int             `json:"total"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Answers       []SessionAnswer `json:"answers,omitempty"`
}

// SessionAnswer is a submitted answer within a session
type SessionAnswer struct {
	QuestionID string    `json:"question_id"`
	Selected   []string  `json:"selected"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

// AnswerResult is returned to the learner after submitting an answer
type AnswerResult struct {
	QuestionID     string   `json:"question_id"`
	Correct        bool     `json:"correct"`
	CorrectAnswers []string `json:"correct_answers"`
	Explanation    string   `json:"explanation,omitempty"`
}
