package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docquiz"

	"github.com/spf13/cobra"
)

var (
	genFile       string
	genSubject    string
	genTypes      []string
	genQuestions  int
	genTone       string
	genDifficulty string
	genOutput     string
	genSave       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question set from a document",
	Long: `Generate questions from a PDF or plain-text document.

Question types: multiple_choice, true_false, multiple_response, matching, completion.
Several types can be given; questions are split evenly between them.

Example:
  quizgenerator generate --file notes.pdf --subject Biology --types multiple_choice,true_false --questions 10 --save`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genFile, "file", "f", "", "Document to generate questions from (required)")
	generateCmd.Flags().StringVarP(&genSubject, "subject", "s", "", "Subject of the document (required)")
	generateCmd.Flags().StringSliceVarP(&genTypes, "types", "t", []string{string(docquiz.MultipleChoice)}, "Question types")
	generateCmd.Flags().IntVarP(&genQuestions, "questions", "n", 10, "Number of questions to generate")
	generateCmd.Flags().StringVar(&genTone, "tone", "", "Tone of the questions")
	generateCmd.Flags().StringVar(&genDifficulty, "difficulty", "medium", "Difficulty level (easy, medium, hard)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output file for the question set JSON (default: stdout)")
	generateCmd.Flags().BoolVar(&genSave, "save", false, "Store the question set in the database")
	generateCmd.MarkFlagRequired("file")
	generateCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	types, err := docquiz.ParseQuestionTypes(genTypes...)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(genFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", genFile, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	generator, err := docquiz.NewTextGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	if c, ok := generator.(io.Closer); ok {
		defer c.Close()
	}

	var store docquiz.QuestionSetStore
	if genSave {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.CloseDB()
		store = db
	}

	qg := docquiz.NewQuizGenerator(generator, store)
	qg.SetLogDir(cfg.LogDir)

	set, err := qg.CreateQuestionSet(ctx, docquiz.UploadRequest{
		Filename:      filepath.Base(genFile),
		MediaType:     mediaTypeFor(genFile),
		Data:          data,
		Subject:       genSubject,
		QuestionCount: genQuestions,
		QuestionTypes: types,
		Tone:          genTone,
		Difficulty:    genDifficulty,
	})
	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}

	output, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal question set: %w", err)
	}

	if genOutput != "" {
		if err := os.WriteFile(genOutput, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Question set saved to: %s\n", genOutput)
	} else {
		fmt.Println(string(output))
	}

	if genSave {
		fmt.Fprintf(os.Stderr, "Stored question set %s (%d questions)\n", set.ID, len(set.Questions))
	}
	return nil
}

func mediaTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return docquiz.MediaTypePDF
	}
	return docquiz.MediaTypeText
}
