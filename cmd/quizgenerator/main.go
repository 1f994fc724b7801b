package main

import (
	"os"

	"docquiz"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	cfg        *docquiz.Config
)

var rootCmd = &cobra.Command{
	Use:   "quizgenerator",
	Short: "Generate practice quizzes from documents",
	Long: `quizgenerator turns a PDF or plain-text document into a set of practice
questions using a generative model, stores it and lets you practice it.

Commands:
  generate    Generate a question set from a document
  list        List stored question sets
  play        Practice a stored question set in the terminal
  export      Write a stored question set as a printable PDF`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = docquiz.LoadConfig(configPath)
		if err != nil {
			return err
		}
		docquiz.SetVerbose(verbose || cfg.Verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "docquiz.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debugging output")
}

func main() {
	defer docquiz.SyncLogger()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB opens the configured database and makes sure the schema exists
func openDB() (*docquiz.DB, error) {
	db, err := docquiz.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := db.CreateTables(); err != nil {
		db.CloseDB()
		return nil, err
	}
	return db, nil
}
