package docquiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLogger writes a transcript of every model interaction of one generation request
type LLMLogger struct {
	file      *os.File
	mu        sync.Mutex
	requestID string
}

// NewLLMLogger creates <dir>/<requestID>.log and writes the request header
func NewLLMLogger(dir, requestID string, req MultiTypeGenerationRequest) (*LLMLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", requestID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &LLMLogger{
		file:      file,
		requestID: requestID,
	}

	logger.Logf("=== Question Generation Log ===\n")
	logger.Logf("Request ID: %s\n", requestID)
	logger.Logf("Subject: %s\n", req.Subject)
	logger.Logf("Question Types: %v\n", req.QuestionTypes)
	logger.Logf("Number of Questions: %d\n", req.QuestionCount)
	logger.Logf("Difficulty: %s\n", req.Difficulty)
	logger.Logf("Tone: %s\n", req.Tone)
	logger.Logf("Source Material Length: %d characters\n", len([]rune(req.Content)))
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("========================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (ll *LLMLogger) Logf(format string, args ...interface{}) {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	ll.logf(format, args...)
}

func (ll *LLMLogger) logf(format string, args ...interface{}) {
	if ll.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	ll.file.Sync()
}

// LogTruncation records what the text normalizer did to the source
func (ll *LLMLogger) LogTruncation(outcome TruncationOutcome) {
	if outcome.WasTruncated {
		ll.Logf("Source truncated: %d -> %d characters\n", outcome.OriginalLength, outcome.TruncatedLength)
		return
	}
	ll.Logf("Source not truncated: %d characters\n", outcome.OriginalLength)
}

// LogLLMRequest logs an LLM request
func (ll *LLMLogger) LogLLMRequest(module, prompt string) {
	ll.Logf("=== LLM REQUEST (%s) ===\n", module)
	ll.Logf("Prompt:\n%s\n", prompt)
	ll.Logf("=====================\n\n")
}

// LogLLMResponse logs an LLM response
func (ll *LLMLogger) LogLLMResponse(module, response string) {
	ll.Logf("=== LLM RESPONSE (%s) ===\n", module)
	ll.Logf("Response:\n%s\n", response)
	ll.Logf("======================\n\n")
}

// LogBatchResult logs how many candidates survived parsing and repair for one type
func (ll *LLMLogger) LogBatchResult(t QuestionType, parsed, kept int) {
	ll.Logf("Batch %s: %d parsed, %d normalized\n", t, parsed, kept)
}

// Close writes the footer and closes the log file
func (ll *LLMLogger) Close() error {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return nil
	}
	ll.logf("=== Question Generation Complete ===\n")
	ll.logf("Completed: %s\n", time.Now().Format(time.RFC3339))
	ll.logf("=============================\n")
	err := ll.file.Close()
	ll.file = nil
	return err
}
