package docquiz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGenerateAcrossTypesCapsAndOrders(t *testing.T) {
	tf := `{"questions": [
		{"question": "s1", "choices": [], "correctAnswers": "false"},
		{"question": "s2", "choices": [], "correctAnswers": "True"},
		{"question": "s3", "choices": [], "correctAnswers": "True"}]}`
	gen := newFakeGenerator(questionsJSON("mc", 3), tf)
	qg := NewQuizGenerator(gen, nil)

	got, err := qg.GenerateAcrossTypes(context.Background(), MultiTypeGenerationRequest{
		Content:       "source",
		Subject:       "Science",
		QuestionCount: 5,
		QuestionTypes: []QuestionType{MultipleChoice, TrueFalse},
	})
	if err != nil {
		t.Fatalf("GenerateAcrossTypes() error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i := 0; i < 3; i++ {
		if got[i].Type != MultipleChoice {
			t.Errorf("got[%d].Type = %s, want %s", i, got[i].Type, MultipleChoice)
		}
	}
	if got[3].Type != TrueFalse || got[3].CorrectAnswers[0] != "False" || got[4].Text != "s2" {
		t.Errorf("true/false tail = %+v %+v", got[3], got[4])
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("model called %d times, want 2", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "Generate 3 multiple choice") || !strings.Contains(gen.prompts[1], "Generate 3 true/false") {
		t.Errorf("prompts did not request the per-type quota in request order")
	}
}

func TestGenerateAcrossTypesFailure(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		gen := newFakeGenerator(questionsJSON("mc", 2), questionsJSON("x", 2))
		gen.errAt, gen.err = 1, errors.New("rate limited")
		qg := NewQuizGenerator(gen, nil)

		got, err := qg.GenerateAcrossTypes(context.Background(), MultiTypeGenerationRequest{
			Subject: "s", QuestionCount: 4, QuestionTypes: []QuestionType{MultipleChoice, Completion},
		})
		if got != nil {
			t.Errorf("partial result returned: %d questions", len(got))
		}
		if KindOf(err) != KindGeneration {
			t.Errorf("KindOf() = %q, want %q", KindOf(err), KindGeneration)
		}
		if !strings.Contains(err.Error(), "rate limited") {
			t.Errorf("error %q lost the cause", err)
		}
	})

	t.Run("parse error", func(t *testing.T) {
		gen := newFakeGenerator("sorry, no JSON today")
		qg := NewQuizGenerator(gen, nil)

		_, err := qg.GenerateAcrossTypes(context.Background(), MultiTypeGenerationRequest{
			Subject: "s", QuestionCount: 2, QuestionTypes: []QuestionType{MultipleChoice},
		})
		if KindOf(err) != KindGeneration || !IsKind(err, KindParse) {
			t.Errorf("error = %v, want a generation error caused by a parse error", err)
		}
	})

	t.Run("invalid request skips the model", func(t *testing.T) {
		gen := newFakeGenerator()
		qg := NewQuizGenerator(gen, nil)
		_, err := qg.GenerateAcrossTypes(context.Background(), MultiTypeGenerationRequest{Subject: "s", QuestionCount: 0, QuestionTypes: []QuestionType{MultipleChoice}})
		if KindOf(err) != KindInvalidInput || len(gen.prompts) != 0 {
			t.Errorf("error = %v, calls = %d", err, len(gen.prompts))
		}
	})
}

func TestCreateQuestionSet(t *testing.T) {
	db := openTestDB(t)
	gen := newFakeGenerator(questionsJSON("mc", 2))
	qg := NewQuizGenerator(gen, db)
	logDir := t.TempDir()
	qg.SetLogDir(logDir)

	source := strings.Repeat("Cells are the basic unit of life. ", 400)
	set, err := qg.CreateQuestionSet(context.Background(), UploadRequest{
		Filename:      "cells.txt",
		MediaType:     "text/plain; charset=utf-8",
		Data:          []byte(source),
		Subject:       "Biology",
		QuestionCount: 2,
		QuestionTypes: []QuestionType{MultipleChoice},
		Difficulty:    "easy",
	})
	if err != nil {
		t.Fatalf("CreateQuestionSet() error: %v", err)
	}

	if set.ID == "" || len(set.Questions) != 2 {
		t.Fatalf("set = %+v", set)
	}
	if set.Questions[0].ID == "" || set.Questions[1].Position != 2 {
		t.Errorf("questions were not assigned IDs and positions: %+v", set.Questions)
	}
	if n := utf8.RuneCountInString(set.SourceText); n != MaxStoredSourceLength {
		t.Errorf("stored source has %d runes, want %d", n, MaxStoredSourceLength)
	}
	if !strings.Contains(gen.prompts[0], "Cells are the basic unit of life.") {
		t.Error("prompt does not carry the document text")
	}

	stored, err := db.GetQuestionSet(context.Background(), set.ID)
	if err != nil {
		t.Fatalf("GetQuestionSet() error: %v", err)
	}
	if stored.Subject != "Biology" || stored.SourceFilename != "cells.txt" || len(stored.Questions) != 2 {
		t.Errorf("stored = %+v", stored)
	}

	logs, _ := filepath.Glob(filepath.Join(logDir, "*.log"))
	if len(logs) != 1 {
		t.Fatalf("found %d transcript files, want 1", len(logs))
	}
	transcript, _ := os.ReadFile(logs[0])
	for _, want := range []string{"Subject: Biology", "LLM REQUEST", "LLM RESPONSE", "Generation Complete"} {
		if !strings.Contains(string(transcript), want) {
			t.Errorf("transcript is missing %q", want)
		}
	}
}

func TestCreateQuestionSetRejectsInput(t *testing.T) {
	tests := []struct {
		name   string
		upload UploadRequest
	}{
		{"unsupported media type", UploadRequest{MediaType: "image/png", Data: []byte("x")}},
		{"empty document", UploadRequest{MediaType: MediaTypeText, Data: []byte(" \n\t ")}},
		{"bad count", UploadRequest{MediaType: MediaTypeText, Data: []byte("text"), QuestionCount: 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newFakeGenerator()
			qg := NewQuizGenerator(gen, nil)
			up := tt.upload
			up.Subject = "s"
			if up.QuestionCount == 0 {
				up.QuestionCount = 1
			}
			up.QuestionTypes = []QuestionType{MultipleChoice}

			_, err := qg.CreateQuestionSet(context.Background(), up)
			if KindOf(err) != KindInvalidInput {
				t.Errorf("error = %v, want %s", err, KindInvalidInput)
			}
			if len(gen.prompts) != 0 {
				t.Errorf("model was called %d times", len(gen.prompts))
			}
		})
	}
}
