package docquiz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnswersMatch reports whether the selected labels equal the correct labels as sets.
// Order, surrounding whitespace and repeats are ignored.
func AnswersMatch(selected, correct []string) bool {
	a, b := labelSet(selected), labelSet(correct)
	if len(a) != len(b) {
		return false
	}
	for label := range a {
		if _, ok := b[label]; !ok {
			return false
		}
	}
	return true
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[strings.TrimSpace(l)] = struct{}{}
	}
	return set
}

// PracticeStore is the persistence the practice service needs
type PracticeStore interface {
	GetQuestionSet(ctx context.Context, id string) (*QuestionSet, error)
	GetQuestion(ctx context.Context, setID, questionID string) (*Question, error)
	CountQuestions(ctx context.Context, setID string) (int, error)
	CreateSession(ctx context.Context, session *PracticeSession) error
	GetSession(ctx context.Context, id string) (*PracticeSession, error)
	ListSessions(ctx context.Context, learnerID string) ([]PracticeSession, error)
	AnswerExists(ctx context.Context, sessionID, questionID string) (bool, error)
	SaveAnswer(ctx context.Context, sessionID string, answer SessionAnswer) error
	GetAnswers(ctx context.Context, sessionID string) ([]SessionAnswer, error)
	CompleteSession(ctx context.Context, id string, score, total int, completedAt time.Time) (bool, error)
}

// PracticeService scores learner attempts against stored question sets
type PracticeService struct {
	store PracticeStore
	now   func() time.Time
}

// NewPracticeService creates a practice service on top of store
func NewPracticeService(store PracticeStore) *PracticeService {
	return &PracticeService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// StartSession opens a new in-progress session for learnerID
func (ps *PracticeService) StartSession(ctx context.Context, setID, learnerID string) (*PracticeSession, error) {
	set, err := ps.store.GetQuestionSet(ctx, setID)
	if err != nil {
		return nil, err
	}

	session := &PracticeSession{
		ID:            uuid.NewString(),
		QuestionSetID: set.ID,
		LearnerID:     learnerID,
		Status:        SessionInProgress,
		Total:         len(set.Questions),
		StartedAt:     ps.now(),
	}
	if err := ps.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	Logger().Infow("Started practice session", "session", session.ID, "set", setID, "learner", learnerID)
	return session, nil
}

// SubmitAnswer scores one answer. Each question can be answered once per session.
func (ps *PracticeService) SubmitAnswer(ctx context.Context, sessionID, questionID string, selected []string) (*AnswerResult, error) {
	cleaned := make([]string, 0, len(selected))
	for _, s := range selected {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil, Errorf(KindInvalidInput, "SubmitAnswer", "no answer selected")
	}

	session, err := ps.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionInProgress {
		return nil, Errorf(KindStateConflict, "SubmitAnswer", "session %s is already completed", sessionID)
	}

	question, err := ps.store.GetQuestion(ctx, session.QuestionSetID, questionID)
	if err != nil {
		return nil, err
	}

	answered, err := ps.store.AnswerExists(ctx, sessionID, questionID)
	if err != nil {
		return nil, err
	}
	if answered {
		return nil, Errorf(KindStateConflict, "SubmitAnswer", "question %s was already answered", questionID)
	}

	correct := AnswersMatch(cleaned, question.CorrectAnswers)
	answer := SessionAnswer{
		QuestionID: questionID,
		Selected:   cleaned,
		Correct:    correct,
		AnsweredAt: ps.now(),
	}
	if err := ps.store.SaveAnswer(ctx, sessionID, answer); err != nil {
		return nil, err
	}

	VerboseLog("Session %s answered %s: correct=%v", sessionID, questionID, correct)
	return &AnswerResult{
		QuestionID:     questionID,
		Correct:        correct,
		CorrectAnswers: question.CorrectAnswers,
		Explanation:    question.Explanation,
	}, nil
}

// CompleteSession closes a session and records its final score
func (ps *PracticeService) CompleteSession(ctx context.Context, sessionID string) (*PracticeSession, error) {
	session, err := ps.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != SessionInProgress {
		return nil, Errorf(KindStateConflict, "CompleteSession", "session %s is already completed", sessionID)
	}

	answers, err := ps.store.GetAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	total, err := ps.store.CountQuestions(ctx, session.QuestionSetID)
	if err != nil {
		return nil, err
	}

	score := 0
	for _, a := range answers {
		if a.Correct {
			score++
		}
	}

	completedAt := ps.now()
	ok, err := ps.store.CompleteSession(ctx, sessionID, score, total, completedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost a race with another completion
		return nil, Errorf(KindStateConflict, "CompleteSession", "session %s is already completed", sessionID)
	}

	session.Status = SessionCompleted
	session.Score = score
	session.Total = total
	session.CompletedAt = &completedAt
	session.Answers = answers

	Logger().Infow("Completed practice session", "session", sessionID, "score", score, "total", total)
	return session, nil
}

// GetSession returns a session together with its answers
func (ps *PracticeService) GetSession(ctx context.Context, sessionID string) (*PracticeSession, error) {
	session, err := ps.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := ps.store.GetAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Answers = answers
	return session, nil
}

// ListSessions returns a learner's sessions without their answers
func (ps *PracticeService) ListSessions(ctx context.Context, learnerID string) ([]PracticeSession, error) {
	return ps.store.ListSessions(ctx, learnerID)
}
