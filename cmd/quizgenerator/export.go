package main

import (
	"fmt"
	"os"

	"docquiz"

	"github.com/spf13/cobra"
)

var (
	exportOutput  string
	exportAnswers bool
)

var exportCmd = &cobra.Command{
	Use:   "export <set-id>",
	Short: "Write a stored question set as a printable PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "PDF file to write (required)")
	exportCmd.Flags().BoolVar(&exportAnswers, "answers", true, "Append an answer key")
	exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.CloseDB()

	set, err := db.GetQuestionSet(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOutput, err)
	}
	defer f.Close()

	opts := docquiz.ExportOptions{FontPath: cfg.FontPath, IncludeAnswers: exportAnswers}
	if err := docquiz.ExportPDF(f, set, opts); err != nil {
		return err
	}

	fmt.Printf("Exported %d questions to %s\n", len(set.Questions), exportOutput)
	return nil
}
