package docquiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the sqlite-backed store for question sets and practice sessions
type DB struct {
	db *sql.DB
}

// OpenDB opens a new database connection
func OpenDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writers anyway, and :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db}, nil
}

// CloseDB closes the database connection
func (db *DB) CloseDB() error {
	return db.db.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *DB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS question_sets (
			id TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			tone TEXT,
			difficulty TEXT,
			question_types TEXT NOT NULL,
			source_filename TEXT,
			source_text TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			set_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			text TEXT NOT NULL,
			choices TEXT NOT NULL,
			correct_answers TEXT NOT NULL,
			explanation TEXT,
			FOREIGN KEY (set_id) REFERENCES question_sets(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_set ON questions(set_id, position)`,
		`CREATE TABLE IF NOT EXISTS practice_sessions (
			id TEXT PRIMARY KEY,
			set_id TEXT NOT NULL,
			learner_id TEXT,
			status TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			completed_at DATETIME,
			FOREIGN KEY (set_id) REFERENCES question_sets(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS session_answers (
			session_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			selected TEXT NOT NULL,
			correct BOOLEAN NOT NULL,
			answered_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, question_id),
			FOREIGN KEY (session_id) REFERENCES practice_sessions(id) ON DELETE CASCADE
		)`,
	}

	for _, query := range queries {
		if _, err := db.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveQuestionSet stores a set and its questions in one transaction, assigning IDs and positions
func (db *DB) SaveQuestionSet(ctx context.Context, set *QuestionSet) (*QuestionSet, error) {
	stored := *set
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.Questions = make([]Question, len(set.Questions))

	typesJSON, err := toJSON(stored.QuestionTypes)
	if err != nil {
		return nil, err
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO question_sets (id, subject, tone, difficulty, question_types, source_filename, source_text, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		stored.ID, stored.Subject, stored.Tone, stored.Difficulty, typesJSON, stored.SourceFilename, stored.SourceText, stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create question set: %w", err)
	}

	for i, q := range set.Questions {
		q.ID = uuid.NewString()
		q.Position = i + 1

		choicesJSON, err := toJSON(q.Choices)
		if err != nil {
			return nil, err
		}
		answersJSON, err := toJSON(q.CorrectAnswers)
		if err != nil {
			return nil, err
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO questions (id, set_id, position, type, text, choices, correct_answers, explanation) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			q.ID, stored.ID, q.Position, string(q.Type), q.Text, choicesJSON, answersJSON, q.Explanation,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create question: %w", err)
		}
		stored.Questions[i] = q
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit question set: %w", err)
	}

	Logger().Infow("Stored question set", "id", stored.ID, "questions", len(stored.Questions))
	return &stored, nil
}

const questionSetColumns = "id, subject, tone, difficulty, question_types, source_filename, source_text, created_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQuestionSet(row rowScanner) (*QuestionSet, error) {
	var (
		set                                QuestionSet
		tone, difficulty, filename, source sql.NullString
		typesJSON                          string
	)
	if err := row.Scan(&set.ID, &set.Subject, &tone, &difficulty, &typesJSON, &filename, &source, &set.CreatedAt); err != nil {
		return nil, err
	}
	set.Tone = tone.String
	set.Difficulty = difficulty.String
	set.SourceFilename = filename.String
	set.SourceText = source.String
	if err := json.Unmarshal([]byte(typesJSON), &set.QuestionTypes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question types: %w", err)
	}
	return &set, nil
}

// GetQuestionSet retrieves a question set with its questions in position order
func (db *DB) GetQuestionSet(ctx context.Context, id string) (*QuestionSet, error) {
	set, err := scanQuestionSet(db.db.QueryRowContext(ctx,
		"SELECT "+questionSetColumns+" FROM question_sets WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Errorf(KindNotFound, "GetQuestionSet", "question set not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get question set: %w", err)
	}

	questions, err := db.GetQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	set.Questions = questions
	return set, nil
}

// ListQuestionSets returns question sets newest first, without their questions
func (db *DB) ListQuestionSets(ctx context.Context, limit int) ([]QuestionSet, error) {
	query := "SELECT " + questionSetColumns + " FROM question_sets ORDER BY created_at DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get question sets: %w", err)
	}
	defer rows.Close()

	var sets []QuestionSet
	for rows.Next() {
		set, err := scanQuestionSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question set: %w", err)
		}
		sets = append(sets, *set)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question sets: %w", err)
	}

	return sets, nil
}

// DeleteQuestionSet removes a set together with its questions and sessions
func (db *DB) DeleteQuestionSet(ctx context.Context, id string) error {
	res, err := db.db.ExecContext(ctx, "DELETE FROM question_sets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete question set: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete question set: %w", err)
	}
	if n == 0 {
		return Errorf(KindNotFound, "DeleteQuestionSet", "question set not found: %s", id)
	}
	return nil
}

const questionColumns = "id, position, type, text, choices, correct_answers, explanation"

func scanQuestion(row rowScanner) (*Question, error) {
	var (
		q                        Question
		qType                    string
		choicesJSON, answersJSON string
		explanation              sql.NullString
	)
	if err := row.Scan(&q.ID, &q.Position, &qType, &q.Text, &choicesJSON, &answersJSON, &explanation); err != nil {
		return nil, err
	}
	q.Type = QuestionType(qType)
	q.Explanation = explanation.String
	if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal choices: %w", err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &q.CorrectAnswers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal correct answers: %w", err)
	}
	return &q, nil
}

// GetQuestions retrieves all questions of a set
func (db *DB) GetQuestions(ctx context.Context, setID string) ([]Question, error) {
	rows, err := db.db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE set_id = ? ORDER BY position", setID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *q)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

// GetQuestion retrieves a question by ID, scoped to its set
func (db *DB) GetQuestion(ctx context.Context, setID, questionID string) (*Question, error) {
	q, err := scanQuestion(db.db.QueryRowContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE set_id = ? AND id = ?", setID, questionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Errorf(KindNotFound, "GetQuestion", "question %s not found in set %s", questionID, setID)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// CountQuestions returns the number of questions in a set
func (db *DB) CountQuestions(ctx context.Context, setID string) (int, error) {
	var n int
	if err := db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions WHERE set_id = ?", setID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return n, nil
}

// CreateSession stores a new practice session
func (db *DB) CreateSession(ctx context.Context, session *PracticeSession) error {
	_, err := db.db.ExecContext(ctx,
		"INSERT INTO practice_sessions (id, set_id, learner_id, status, score, total, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		session.ID, session.QuestionSetID, session.LearnerID, string(session.Status), session.Score, session.Total, session.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

const sessionColumns = "id, set_id, learner_id, status, score, total, started_at, completed_at"

func scanSession(row rowScanner) (*PracticeSession, error) {
	var (
		s           PracticeSession
		learnerID   sql.NullString
		status      string
		completedAt sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.QuestionSetID, &learnerID, &status, &s.Score, &s.Total, &s.StartedAt, &completedAt); err != nil {
		return nil, err
	}
	s.LearnerID = learnerID.String
	s.Status = SessionStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	return &s, nil
}

// GetSession retrieves a session without its answers
func (db *DB) GetSession(ctx context.Context, id string) (*PracticeSession, error) {
	s, err := scanSession(db.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM practice_sessions WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Errorf(KindNotFound, "GetSession", "session not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// ListSessions returns a learner's sessions, newest first
func (db *DB) ListSessions(ctx context.Context, learnerID string) ([]PracticeSession, error) {
	rows, err := db.db.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM practice_sessions WHERE learner_id = ? ORDER BY started_at DESC", learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	defer rows.Close()

	var sessions []PracticeSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// AnswerExists checks whether a question was already answered in a session
func (db *DB) AnswerExists(ctx context.Context, sessionID, questionID string) (bool, error) {
	var exists bool
	err := db.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM session_answers WHERE session_id = ? AND question_id = ?)",
		sessionID, questionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if answer exists: %w", err)
	}
	return exists, nil
}

// SaveAnswer stores a submitted answer
func (db *DB) SaveAnswer(ctx context.Context, sessionID string, answer SessionAnswer) error {
	selectedJSON, err := toJSON(answer.Selected)
	if err != nil {
		return err
	}
	_, err = db.db.ExecContext(ctx,
		"INSERT INTO session_answers (session_id, question_id, selected, correct, answered_at) VALUES (?, ?, ?, ?, ?)",
		sessionID, answer.QuestionID, selectedJSON, answer.Correct, answer.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

// GetAnswers returns a session's answers in submission order
func (db *DB) GetAnswers(ctx context.Context, sessionID string) ([]SessionAnswer, error) {
	rows, err := db.db.QueryContext(ctx,
		"SELECT question_id, selected, correct, answered_at FROM session_answers WHERE session_id = ? ORDER BY answered_at, rowid", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	var answers []SessionAnswer
	for rows.Next() {
		var (
			a            SessionAnswer
			selectedJSON string
		)
		if err := rows.Scan(&a.QuestionID, &selectedJSON, &a.Correct, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if err := json.Unmarshal([]byte(selectedJSON), &a.Selected); err != nil {
			return nil, fmt.Errorf("failed to unmarshal selected answers: %w", err)
		}
		answers = append(answers, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}

	return answers, nil
}

// CompleteSession marks an in-progress session completed with its final score.
// It reports false when the session was not in progress.
func (db *DB) CompleteSession(ctx context.Context, id string, score, total int, completedAt time.Time) (bool, error) {
	res, err := db.db.ExecContext(ctx,
		"UPDATE practice_sessions SET status = ?, score = ?, total = ?, completed_at = ? WHERE id = ? AND status = ?",
		string(SessionCompleted), score, total, completedAt, id, string(SessionInProgress))
	if err != nil {
		return false, fmt.Errorf("failed to complete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to complete session: %w", err)
	}
	return n == 1, nil
}

func toJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return string(data), nil
}
