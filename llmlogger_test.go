package docquiz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLLMLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	req := MultiTypeGenerationRequest{Subject: "Art", QuestionCount: 4, QuestionTypes: []QuestionType{Matching}, Content: "Monet painted water lilies."}

	ll, err := NewLLMLogger(dir, "req-1", req)
	if err != nil {
		t.Fatalf("NewLLMLogger() error: %v", err)
	}
	ll.LogTruncation(TruncationOutcome{WasTruncated: true, OriginalLength: 12000, TruncatedLength: 9500})
	ll.LogLLMRequest("QuestionMaker/matching", "the prompt")
	ll.LogLLMResponse("QuestionMaker/matching", "the response")
	ll.LogBatchResult(Matching, 4, 4)
	if err := ll.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := ll.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	ll.Logf("after close\n")

	data, err := os.ReadFile(filepath.Join(dir, "req-1.log"))
	if err != nil {
		t.Fatal(err)
	}
	log := string(data)
	for _, want := range []string{
		"Request ID: req-1",
		"Source Material Length: 27 characters",
		"Source truncated: 12000 -> 9500",
		"the prompt",
		"the response",
		"Batch matching: 4 parsed, 4 normalized",
		"Question Generation Complete",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("log is missing %q", want)
		}
	}
	if strings.Contains(log, "after close") {
		t.Error("Logf wrote after Close")
	}
}
