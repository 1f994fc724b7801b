package docquiz

import (
	"regexp"
	"strings"
)

// DefaultLabels is the ordered label pool used when a repair has to invent answers
var DefaultLabels = []string{"A", "B", "C", "D"}

var trueFalseChoices = []Choice{
	{Label: "True", Content: "Đúng"},
	{Label: "False", Content: "Sai"},
}

// blankPatterns are tried in order; the first match has its trailing token replaced by the blank marker
var blankPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(là\s+)[^\s.,;:!?]+`),
	regexp.MustCompile(`(bằng\s+)[^\s.,;:!?]+`),
	regexp.MustCompile(`(có\s+)[^\s.,;:!?]+`),
	regexp.MustCompile(`(được gọi là\s+)[^\s.,;:!?]+`),
}

const (
	minMultipleResponse = 2
	maxMultipleResponse = 3
)

// RepairQuestions enforces the per-type shape rules on parsed candidates.
// It never fails and never mutates raw; labels is the fallback pool for invented answers.
func RepairQuestions(raw []RawQuestion, t QuestionType, labels []string) []Question {
	if len(labels) < minMultipleResponse {
		labels = DefaultLabels
	}
	out := make([]Question, 0, len(raw))
	for i, rq := range raw {
		q := Question{
			Type:           t,
			Text:           rq.Question,
			Choices:        append([]Choice(nil), rq.Choices...),
			CorrectAnswers: append([]string(nil), rq.CorrectAnswers...),
			Explanation:    rq.Explanation,
		}

		switch t {
		case TrueFalse:
			q = repairTrueFalse(i, q)
		case MultipleResponse:
			q = repairMultipleResponse(i, q, labels)
		case Matching:
			q = repairMatching(i, q)
		case Completion:
			q = repairSingleAnswer(i, q, labels)
			q = repairBlank(i, q)
		default:
			q = repairSingleAnswer(i, q, labels)
		}

		warnUnknownLabels(i, q)
		out = append(out, q)
	}
	return out
}

func repairSingleAnswer(i int, q Question, labels []string) Question {
	switch {
	case len(q.CorrectAnswers) == 1:
		return q
	case len(q.CorrectAnswers) > 1:
		VerboseLog("question %d: keeping first of %d correct answers", i, len(q.CorrectAnswers))
		q.CorrectAnswers = q.CorrectAnswers[:1]
	default:
		fallback := firstLabel(q.Choices, labels)
		VerboseLog("question %d: no correct answer declared, defaulting to %q", i, fallback)
		q.CorrectAnswers = []string{fallback}
	}
	return q
}

func repairTrueFalse(i int, q Question) Question {
	answer := "True"
	if len(q.CorrectAnswers) > 0 {
		switch declared := strings.TrimSpace(q.CorrectAnswers[0]); {
		case strings.EqualFold(declared, "True"):
			answer = "True"
		case strings.EqualFold(declared, "False"):
			answer = "False"
		default:
			VerboseLog("question %d: true/false answer %q is not True or False, defaulting to True", i, declared)
		}
	}
	q.Choices = append([]Choice(nil), trueFalseChoices...)
	q.CorrectAnswers = []string{answer}
	return q
}

func repairMultipleResponse(i int, q Question, labels []string) Question {
	switch n := len(q.CorrectAnswers); {
	case n == 0:
		VerboseLog("question %d: no correct answers for multiple response, defaulting to %v", i, labels[:minMultipleResponse])
		q.CorrectAnswers = append([]string(nil), labels[:minMultipleResponse]...)
	case n == 1:
		for _, l := range labels {
			if l != q.CorrectAnswers[0] {
				VerboseLog("question %d: only one correct answer for multiple response, adding %q", i, l)
				q.CorrectAnswers = append(q.CorrectAnswers, l)
				break
			}
		}
	case n > maxMultipleResponse:
		VerboseLog("question %d: %d correct answers for multiple response, keeping first %d", i, n, maxMultipleResponse)
		q.CorrectAnswers = q.CorrectAnswers[:maxMultipleResponse]
	}
	return q
}

func repairMatching(i int, q Question) Question {
	all := make([]string, 0, len(q.Choices))
	for _, c := range q.Choices {
		all = append(all, c.Label)
	}
	if !sameLabels(all, q.CorrectAnswers) {
		VerboseLog("question %d: matching answers set to every choice label", i)
	}
	q.CorrectAnswers = all
	return q
}

func repairBlank(i int, q Question) Question {
	if strings.Contains(q.Text, BlankMarker) {
		return q
	}
	for _, re := range blankPatterns {
		if loc := re.FindStringSubmatchIndex(q.Text); loc != nil {
			// loc[3] is the end of the keyword group, loc[1] the end of the token
			q.Text = q.Text[:loc[3]] + BlankMarker + q.Text[loc[1]:]
			VerboseLog("question %d: inserted blank marker after %q", i, strings.TrimSpace(q.Text[loc[2]:loc[3]]))
			return q
		}
	}
	trimmed := strings.TrimRight(q.Text, " ")
	if strings.HasSuffix(trimmed, "?") {
		q.Text = strings.TrimSuffix(trimmed, "?") + BlankMarker + "?"
	} else if trimmed == "" {
		q.Text = BlankMarker
	} else {
		q.Text = trimmed + " " + BlankMarker
	}
	VerboseLog("question %d: appended blank marker", i)
	return q
}

func firstLabel(choices []Choice, labels []string) string {
	if len(choices) > 0 {
		return choices[0].Label
	}
	return labels[0]
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func warnUnknownLabels(i int, q Question) {
	known := make(map[string]bool, len(q.Choices))
	for _, c := range q.Choices {
		known[c.Label] = true
	}
	for _, a := range q.CorrectAnswers {
		if !known[a] {
			Logger().Warnw("correct answer label not among choices", "question", i, "type", q.Type, "label", a)
		}
	}
}
