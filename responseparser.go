package docquiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const questionItemSchema = `{
	"type": "object",
	"properties": {
		"question": {"type": "string"},
		"choices": {"type": "array"},
		"correctAnswers": {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		},
		"explanation": {"type": ["string", "null"]}
	},
	"required": ["question", "choices", "correctAnswers"]
}`

var (
	codeFenceRe = regexp.MustCompile("(?i)```json|```")

	questionSchema = func() *gojsonschema.Schema {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(questionItemSchema))
		if err != nil {
			panic(fmt.Sprintf("invalid question schema: %v", err))
		}
		return s
	}()
)

type envelope struct {
	Questions *[]json.RawMessage `json:"questions"`
}

// ExtractQuestions recovers the question envelope from free-form model output and
// checks every element's structure. Nothing is repaired here.
func ExtractQuestions(modelText string) ([]RawQuestion, error) {
	items, ok := decodeEnvelope(strings.TrimSpace(codeFenceRe.ReplaceAllString(modelText, "")))
	if !ok {
		start := strings.Index(modelText, "{")
		end := strings.LastIndex(modelText, "}")
		if start < 0 || end <= start {
			return nil, Errorf(KindParse, "ExtractQuestions", "no JSON object found in model response")
		}
		items, ok = decodeEnvelope(modelText[start : end+1])
		if !ok {
			return nil, Errorf(KindParse, "ExtractQuestions", "model response is not a valid question envelope")
		}
	}

	questions := make([]RawQuestion, 0, len(items))
	for i, item := range items {
		q, err := decodeQuestion(i, item)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	VerboseLog("Extracted %d candidate questions from model response", len(questions))
	return questions, nil
}

func decodeEnvelope(text string) ([]json.RawMessage, bool) {
	var env envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, false
	}
	if env.Questions == nil {
		return nil, false
	}
	return *env.Questions, true
}

func decodeQuestion(index int, item json.RawMessage) (RawQuestion, error) {
	result, err := questionSchema.Validate(gojsonschema.NewBytesLoader(item))
	if err != nil {
		return RawQuestion{}, Errorf(KindParse, "ExtractQuestions", "question %d: %v", index, err)
	}
	if !result.Valid() {
		var problems []string
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return RawQuestion{}, Errorf(KindParse, "ExtractQuestions", "question %d is malformed: %s", index, strings.Join(problems, "; "))
	}

	var shape struct {
		Question       string            `json:"question"`
		Choices        []json.RawMessage `json:"choices"`
		CorrectAnswers AnswerList        `json:"correctAnswers"`
		Explanation    *string           `json:"explanation"`
	}
	if err := json.Unmarshal(item, &shape); err != nil {
		return RawQuestion{}, Errorf(KindParse, "ExtractQuestions", "question %d: %v", index, err)
	}

	choices := make([]Choice, 0, len(shape.Choices))
	for j, raw := range shape.Choices {
		c, err := decodeChoice(raw)
		if err != nil {
			return RawQuestion{}, Errorf(KindParse, "ExtractQuestions", "question %d, choice %d: %v", index, j, err)
		}
		choices = append(choices, c)
	}

	q := RawQuestion{
		Question:       shape.Question,
		Choices:        choices,
		CorrectAnswers: shape.CorrectAnswers,
	}
	if shape.Explanation != nil {
		q.Explanation = *shape.Explanation
	}
	return q, nil
}

func decodeChoice(raw json.RawMessage) (Choice, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Choice{}, fmt.Errorf("choice must be an object with label and content")
	}
	label, err := choiceField(fields, "label")
	if err != nil {
		return Choice{}, err
	}
	content, err := choiceField(fields, "content")
	if err != nil {
		return Choice{}, err
	}
	return Choice{Label: label, Content: content}, nil
}

// choiceField reads a string field, accepting numbers in their literal form
func choiceField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing %s", name)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	default:
		return "", fmt.Errorf("%s must be a string or a number, got %T", name, v)
	}
}
