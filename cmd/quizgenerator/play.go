package main

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"strings"

	"docquiz"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <set-id>",
	Short: "Practice a stored question set in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.CloseDB()

	ctx := cmd.Context()
	set, err := db.GetQuestionSet(ctx, args[0])
	if err != nil {
		return err
	}

	practice := docquiz.NewPracticeService(db)
	session, err := practice.StartSession(ctx, set.ID, learnerName())
	if err != nil {
		return err
	}

	fmt.Printf("🎯 Starting practice on: %s\n", set.Subject)
	fmt.Printf("📝 Questions: %d, Difficulty: %s\n", len(set.Questions), set.Difficulty)
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	correctSoFar := 0

	for i, question := range set.Questions {
		fmt.Printf("Question %d/%d:\n", i+1, len(set.Questions))
		fmt.Printf("%s\n\n", question.Text)

		labels := make([]string, 0, len(question.Choices))
		for _, c := range question.Choices {
			fmt.Printf("%s) %s\n", c.Label, c.Content)
			labels = append(labels, c.Label)
		}
		fmt.Println()

		selected, ok := readAnswer(scanner, question, labels)
		if !ok {
			fmt.Println("\nInput closed, stopping early.")
			break
		}

		result, err := practice.SubmitAnswer(ctx, session.ID, question.ID, selected)
		if err != nil {
			return err
		}

		fmt.Println()
		if result.Correct {
			correctSoFar++
			fmt.Println("✅ Correct!")
		} else {
			fmt.Printf("❌ Incorrect. The correct answer is %s\n", strings.Join(result.CorrectAnswers, ", "))
		}
		if result.Explanation != "" {
			fmt.Printf("💡 Explanation: %s\n", result.Explanation)
		}

		percentage := float64(correctSoFar) / float64(i+1) * 100
		fmt.Printf("\n📊 Current Score: %d/%d (%.1f%%)\n", correctSoFar, i+1, percentage)
		fmt.Println()
		fmt.Println(strings.Repeat("─", 50))
		fmt.Println()
	}

	final, err := practice.CompleteSession(ctx, session.ID)
	if err != nil {
		return err
	}

	fmt.Println("🎉 Practice completed!")
	percentage := 0.0
	if final.Total > 0 {
		percentage = float64(final.Score) / float64(final.Total) * 100
	}
	fmt.Printf("\n🏆 Final Score: %d/%d (%.1f%%)\n", final.Score, final.Total, percentage)

	switch {
	case percentage >= 80:
		fmt.Println("🌟 Excellent work!")
	case percentage >= 60:
		fmt.Println("👍 Good job!")
	default:
		fmt.Println("📚 Keep studying!")
	}
	return nil
}

// readAnswer prompts until the learner enters known labels. Questions with several
// correct answers accept a comma separated list.
func readAnswer(scanner *bufio.Scanner, question docquiz.Question, labels []string) ([]string, bool) {
	multi := question.Type == docquiz.MultipleResponse || question.Type == docquiz.Matching
	prompt := fmt.Sprintf("Your answer (%s): ", strings.Join(labels, "/"))
	if multi {
		prompt = fmt.Sprintf("Your answers, comma separated (%s): ", strings.Join(labels, "/"))
	}

	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return nil, false
		}

		var selected []string
		for _, part := range strings.Split(scanner.Text(), ",") {
			if part = strings.TrimSpace(part); part != "" {
				selected = append(selected, matchLabel(part, labels))
			}
		}

		switch {
		case len(selected) == 0:
			fmt.Println("Please enter an answer")
		case !multi && len(selected) > 1:
			fmt.Println("Please enter a single answer")
		case len(labels) > 0 && !allKnown(selected, labels):
			fmt.Printf("Please choose from %s\n", strings.Join(labels, ", "))
		default:
			return selected, true
		}
	}
}

// matchLabel maps typed input onto the stored label, ignoring case
func matchLabel(input string, labels []string) string {
	for _, l := range labels {
		if strings.EqualFold(input, l) {
			return l
		}
	}
	return input
}

func allKnown(selected, labels []string) bool {
	for _, s := range selected {
		found := false
		for _, l := range labels {
			if s == l {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func learnerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "cli"
}
