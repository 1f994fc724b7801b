package docquiz

import (
	"reflect"
	"strings"
	"testing"
)

var abcd = []Choice{
	{Label: "A", Content: "one"},
	{Label: "B", Content: "two"},
	{Label: "C", Content: "three"},
	{Label: "D", Content: "four"},
}

func repairOne(t *testing.T, rq RawQuestion, qType QuestionType) Question {
	t.Helper()
	out := RepairQuestions([]RawQuestion{rq}, qType, DefaultLabels)
	if len(out) != 1 {
		t.Fatalf("RepairQuestions() returned %d questions, want 1", len(out))
	}
	if out[0].Type != qType {
		t.Errorf("Type = %q, want %q", out[0].Type, qType)
	}
	return out[0]
}

func TestRepairMultipleChoice(t *testing.T) {
	tests := []struct {
		name    string
		answers AnswerList
		choices []Choice
		want    []string
	}{
		{"single kept", AnswerList{"C"}, abcd, []string{"C"}},
		{"first of many", AnswerList{"B", "D"}, abcd, []string{"B"}},
		{"none uses first choice", AnswerList{}, abcd[1:], []string{"B"}},
		{"none and no choices", nil, nil, []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := repairOne(t, RawQuestion{Question: "Q?", Choices: tt.choices, CorrectAnswers: tt.answers}, MultipleChoice)
			if !reflect.DeepEqual(q.CorrectAnswers, tt.want) {
				t.Errorf("CorrectAnswers = %v, want %v", q.CorrectAnswers, tt.want)
			}
		})
	}
}

func TestRepairTrueFalse(t *testing.T) {
	tests := []struct {
		answers AnswerList
		want    string
	}{
		{AnswerList{"True"}, "True"},
		{AnswerList{"False"}, "False"},
		{AnswerList{" false "}, "False"},
		{AnswerList{"TRUE"}, "True"},
		{AnswerList{"Đúng"}, "True"},
		{AnswerList{"B"}, "True"},
		{AnswerList{}, "True"},
		{AnswerList{"False", "True"}, "False"},
	}

	for _, tt := range tests {
		q := repairOne(t, RawQuestion{Question: "The sky is green.", Choices: abcd, CorrectAnswers: tt.answers}, TrueFalse)
		if !reflect.DeepEqual(q.Choices, trueFalseChoices) {
			t.Errorf("Choices = %+v, want the fixed True/False pair", q.Choices)
		}
		if len(q.CorrectAnswers) != 1 || q.CorrectAnswers[0] != tt.want {
			t.Errorf("answers %v: CorrectAnswers = %v, want [%s]", tt.answers, q.CorrectAnswers, tt.want)
		}
	}
}

func TestRepairMultipleResponse(t *testing.T) {
	tests := []struct {
		name    string
		answers AnswerList
		want    []string
	}{
		{"zero gets first two labels", AnswerList{}, []string{"A", "B"}},
		{"one A gets B", AnswerList{"A"}, []string{"A", "B"}},
		{"one C gets A", AnswerList{"C"}, []string{"C", "A"}},
		{"two kept", AnswerList{"B", "D"}, []string{"B", "D"}},
		{"three kept", AnswerList{"A", "B", "C"}, []string{"A", "B", "C"}},
		{"four cut to three", AnswerList{"D", "C", "B", "A"}, []string{"D", "C", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := repairOne(t, RawQuestion{Question: "Which?", Choices: abcd, CorrectAnswers: tt.answers}, MultipleResponse)
			if !reflect.DeepEqual(q.CorrectAnswers, tt.want) {
				t.Errorf("CorrectAnswers = %v, want %v", q.CorrectAnswers, tt.want)
			}
			if n := len(q.CorrectAnswers); n < 2 || n > 3 {
				t.Errorf("len(CorrectAnswers) = %d, want 2..3", n)
			}
		})
	}
}

func TestRepairMatching(t *testing.T) {
	choices := []Choice{{Label: "A", Content: "x - 1"}, {Label: "B", Content: "y - 2"}, {Label: "C", Content: "z - 3"}}
	for _, answers := range []AnswerList{{}, {"A"}, {"C", "B", "A"}, {"A", "B", "C"}} {
		q := repairOne(t, RawQuestion{Question: "Match", Choices: choices, CorrectAnswers: answers}, Matching)
		if want := []string{"A", "B", "C"}; !reflect.DeepEqual(q.CorrectAnswers, want) {
			t.Errorf("answers %v: CorrectAnswers = %v, want %v", answers, q.CorrectAnswers, want)
		}
	}
}

func TestRepairCompletionBlank(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"marker kept", "The capital is _____.", "The capital is _____."},
		{"là keyword", "Thủ đô của Pháp là Paris.", "Thủ đô của Pháp là _____."},
		{"bằng keyword", "Hai cộng hai bằng bốn", "Hai cộng hai bằng _____"},
		{"có keyword", "Một tuần có bảy ngày.", "Một tuần có _____ ngày."},
		{"first pattern wins", "Nó là mèo và có đuôi", "Nó là _____ và có đuôi"},
		{"question mark", "What is the capital of France?", "What is the capital of France_____?"},
		{"append", "The capital of France", "The capital of France _____"},
		{"empty", "", "_____"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := repairOne(t, RawQuestion{Question: tt.text, Choices: abcd, CorrectAnswers: AnswerList{"A"}}, Completion)
			if q.Text != tt.want {
				t.Errorf("Text = %q, want %q", q.Text, tt.want)
			}
			if !strings.Contains(q.Text, BlankMarker) {
				t.Errorf("Text %q has no blank marker", q.Text)
			}
			if len(q.CorrectAnswers) != 1 {
				t.Errorf("CorrectAnswers = %v, want exactly one", q.CorrectAnswers)
			}
		})
	}
}

func TestRepairDoesNotMutateInput(t *testing.T) {
	raw := []RawQuestion{{Question: "Q", Choices: abcd, CorrectAnswers: AnswerList{"A", "B", "C", "D"}}}
	RepairQuestions(raw, MultipleResponse, DefaultLabels)
	RepairQuestions(raw, TrueFalse, DefaultLabels)
	if len(raw[0].CorrectAnswers) != 4 || raw[0].Choices[0].Label != "A" || len(raw[0].Choices) != 4 {
		t.Errorf("input was mutated: %+v", raw[0])
	}
}

func TestRepairShortLabelPool(t *testing.T) {
	out := RepairQuestions([]RawQuestion{{Question: "Q"}}, MultipleResponse, []string{"X"})
	if want := []string{"A", "B"}; !reflect.DeepEqual(out[0].CorrectAnswers, want) {
		t.Errorf("CorrectAnswers = %v, want %v", out[0].CorrectAnswers, want)
	}
}
