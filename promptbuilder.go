package docquiz

import (
	"fmt"
	"strings"
)

// BlankMarker marks the missing word of a completion question
const BlankMarker = "_____"

const (
	defaultTone       = "balanced, academic"
	defaultDifficulty = "medium"
)

type typeTemplate struct {
	instruction string
	example     string
}

var typeTemplates = map[QuestionType]typeTemplate{
	MultipleChoice: {
		instruction: "multiple choice questions. Each question has 4 choices labelled A, B, C, D and exactly ONE correct answer.",
		example: `{
  "questions": [
    {
      "question": "Which organelle produces most of the cell's ATP?",
      "choices": [
        {"label": "A", "content": "Ribosome"},
        {"label": "B", "content": "Mitochondrion"},
        {"label": "C", "content": "Golgi apparatus"},
        {"label": "D", "content": "Lysosome"}
      ],
      "correctAnswers": ["B"],
      "explanation": "Mitochondria carry out oxidative phosphorylation, which yields most ATP."
    }
  ]
}`,
	},
	TrueFalse: {
		instruction: "true/false questions. Each question is a statement that is either true or false.",
		example: `{
  "questions": [
    {
      "question": "Water boils at 100 degrees Celsius at sea level.",
      "choices": [
        {"label": "True", "content": "Đúng"},
        {"label": "False", "content": "Sai"}
      ],
      "correctAnswers": ["True"],
      "explanation": "At 1 atm of pressure the boiling point of water is 100 degrees Celsius."
    }
  ]
}`,
	},
	MultipleResponse: {
		instruction: "multiple response questions. Each question has 4 choices labelled A, B, C, D and TWO OR MORE correct answers.",
		example: `{
  "questions": [
    {
      "question": "Which of the following are prime numbers?",
      "choices": [
        {"label": "A", "content": "2"},
        {"label": "B", "content": "3"},
        {"label": "C", "content": "4"},
        {"label": "D", "content": "9"}
      ],
      "correctAnswers": ["A", "B"],
      "explanation": "2 and 3 have no divisors other than 1 and themselves."
    }
  ]
}`,
	},
	Matching: {
		instruction: "matching questions. Each choice pairs a term with its matching definition in the form \"term - definition\"; every pair is correct.",
		example: `{
  "questions": [
    {
      "question": "Match each country with its capital.",
      "choices": [
        {"label": "A", "content": "France - Paris"},
        {"label": "B", "content": "Japan - Tokyo"},
        {"label": "C", "content": "Egypt - Cairo"},
        {"label": "D", "content": "Peru - Lima"}
      ],
      "correctAnswers": ["A", "B", "C", "D"],
      "explanation": "Each pair joins a country with its capital city."
    }
  ]
}`,
	},
	Completion: {
		instruction: "fill-in-the-blank questions. Each question is a sentence with one missing word or phrase shown as " + BlankMarker + ", plus 4 candidate fillers labelled A, B, C, D with exactly ONE correct answer.",
		example: `{
  "questions": [
    {
      "question": "The chemical symbol for gold is ` + BlankMarker + `.",
      "choices": [
        {"label": "A", "content": "Ag"},
        {"label": "B", "content": "Au"},
        {"label": "C", "content": "Gd"},
        {"label": "D", "content": "Go"}
      ],
      "correctAnswers": ["B"],
      "explanation": "Au comes from the Latin word aurum."
    }
  ]
}`,
	},
}

// BuildPrompt renders the generation instruction for a single question type.
// Unknown types fall back to the multiple choice template.
func BuildPrompt(req GenerationRequest) string {
	tmpl, ok := typeTemplates[req.QuestionType]
	if !ok {
		tmpl = typeTemplates[MultipleChoice]
	}

	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		tone = defaultTone
	}
	difficulty := strings.TrimSpace(req.Difficulty)
	if difficulty == "" {
		difficulty = defaultDifficulty
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate %d %s\n\n", req.QuestionCount, tmpl.instruction))
	sb.WriteString(fmt.Sprintf("Subject: %s\n", req.Subject))
	sb.WriteString(fmt.Sprintf("Tone: %s\n", tone))
	sb.WriteString(fmt.Sprintf("Difficulty level: %s\n\n", difficulty))

	sb.WriteString("Use ONLY the following source material:\n")
	sb.WriteString("---\n")
	sb.WriteString(req.Content)
	sb.WriteString("\n---\n\n")

	sb.WriteString("Requirements:\n")
	sb.WriteString(fmt.Sprintf("- Produce exactly %d questions\n", req.QuestionCount))
	sb.WriteString("- Write the questions in the same language as the source material\n")
	sb.WriteString("- Every question must be answerable from the source material\n")
	sb.WriteString("- Every label in correctAnswers must be one of the choice labels\n")
	sb.WriteString("- Provide a brief explanation for why the correct answer is right\n")

	switch req.QuestionType {
	case MultipleResponse:
		sb.WriteString("- IMPORTANT: every question must have AT LEAST 2 correct answers in correctAnswers\n")
	case Completion:
		sb.WriteString(fmt.Sprintf("- IMPORTANT: every question text must contain the blank marker %s where the answer belongs\n", BlankMarker))
	case TrueFalse:
		sb.WriteString("- IMPORTANT: use exactly the two choices labelled True and False, and put exactly one of them in correctAnswers\n")
	}

	sb.WriteString("\nRespond with a single JSON object and nothing else. ")
	sb.WriteString("The object has a \"questions\" array; each entry has \"question\", \"choices\" (an array of {\"label\", \"content\"}), \"correctAnswers\" (an array of labels) and \"explanation\".\n\n")
	sb.WriteString("Example output:\n")
	sb.WriteString(tmpl.example)
	sb.WriteString("\n")

	return sb.String()
}
