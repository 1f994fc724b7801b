package docquiz

import (
	"strings"
	"testing"
)

const oneQuestion = `{"questions": [{"question": "Q?", "choices": [{"label": "A", "content": "x"}, {"label": "B", "content": "y"}], "correctAnswers": ["A"], "explanation": "e"}]}`

func TestExtractQuestionsAcceptsWrappedJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain", oneQuestion},
		{"json fence", "```json\n" + oneQuestion + "\n```"},
		{"upper fence", "```JSON\n" + oneQuestion + "\n```"},
		{"bare fence", "```\n" + oneQuestion + "\n```"},
		{"prose around", "Sure! Here are your questions:\n" + oneQuestion + "\nGood luck."},
		{"fence and prose", "Here you go:\n```json\n" + oneQuestion + "\n```\nEnjoy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractQuestions(tt.text)
			if err != nil {
				t.Fatalf("ExtractQuestions() error: %v", err)
			}
			if len(got) != 1 || got[0].Question != "Q?" || got[0].Explanation != "e" {
				t.Fatalf("ExtractQuestions() = %+v", got)
			}
			if len(got[0].Choices) != 2 || got[0].Choices[1].Label != "B" {
				t.Errorf("choices = %+v", got[0].Choices)
			}
		})
	}
}

func TestExtractQuestionsCorrectAnswerShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `["A", "C"]`, []string{"A", "C"}},
		{"single string", `"B"`, []string{"B"}},
		{"empty string", `""`, []string{}},
		{"empty array", `[]`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := `{"questions": [{"question": "Q", "choices": [], "correctAnswers": ` + tt.raw + `}]}`
			got, err := ExtractQuestions(text)
			if err != nil {
				t.Fatalf("ExtractQuestions() error: %v", err)
			}
			if len(got[0].CorrectAnswers) != len(tt.want) {
				t.Fatalf("CorrectAnswers = %v, want %v", got[0].CorrectAnswers, tt.want)
			}
			for i := range tt.want {
				if got[0].CorrectAnswers[i] != tt.want[i] {
					t.Errorf("CorrectAnswers = %v, want %v", got[0].CorrectAnswers, tt.want)
				}
			}
		})
	}
}

func TestExtractQuestionsCoercesNumericChoices(t *testing.T) {
	text := `{"questions": [{"question": "2+2?", "choices": [{"label": 1, "content": 4}, {"label": "2", "content": 5.5}], "correctAnswers": ["1"], "explanation": null}]}`
	got, err := ExtractQuestions(text)
	if err != nil {
		t.Fatalf("ExtractQuestions() error: %v", err)
	}
	c := got[0].Choices
	if c[0].Label != "1" || c[0].Content != "4" || c[1].Content != "5.5" {
		t.Errorf("choices = %+v, want numbers rendered as strings", c)
	}
	if got[0].Explanation != "" {
		t.Errorf("Explanation = %q, want empty for null", got[0].Explanation)
	}
}

func TestExtractQuestionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantMsg string
	}{
		{"no json", "I cannot help with that.", "no JSON object"},
		{"broken json", "{ this is not json }", "not a valid question envelope"},
		{"missing questions key", `{"items": []}`, "not a valid question envelope"},
		{"questions not array", `{"questions": "none"}`, "not a valid question envelope"},
		{"missing question text", `{"questions": [{"choices": [], "correctAnswers": []}]}`, "question 0"},
		{"second item bad", `{"questions": [{"question": "ok", "choices": [], "correctAnswers": "A"}, {"question": 5, "choices": [], "correctAnswers": "A"}]}`, "question 1"},
		{"bad answer type", `{"questions": [{"question": "q", "choices": [], "correctAnswers": 3}]}`, "question 0"},
		{"choice not object", `{"questions": [{"question": "q", "choices": ["A"], "correctAnswers": "A"}]}`, "question 0, choice 0"},
		{"choice missing content", `{"questions": [{"question": "q", "choices": [{"label": "A"}, {"label": "B"}], "correctAnswers": "A"}]}`, "choice 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractQuestions(tt.text)
			if err == nil {
				t.Fatal("ExtractQuestions() error = nil")
			}
			if KindOf(err) != KindParse {
				t.Errorf("KindOf() = %q, want %q", KindOf(err), KindParse)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestExtractQuestionsEmptyList(t *testing.T) {
	got, err := ExtractQuestions(`{"questions": []}`)
	if err != nil {
		t.Fatalf("ExtractQuestions() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
