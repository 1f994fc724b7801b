package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored question sets",
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sets to show")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.CloseDB()

	sets, err := db.ListQuestionSets(cmd.Context(), listLimit)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Println("No question sets stored yet. Run: quizgenerator generate --save")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBJECT\tTYPES\tSOURCE\tCREATED")
	for _, s := range sets {
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\t%s\n", s.ID, s.Subject, s.QuestionTypes, s.SourceFilename, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
