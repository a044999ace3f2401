package transcribe

import "testing"

func TestParseToolOutput(t *testing.T) {
	out := []byte("loading model...\n{\"success\": true, \"transcript\": \"hello world\", \"language\": \"en\"}\n")
	parsed, err := parseToolOutput(out)
	if err != nil {
		t.Fatalf("parseToolOutput: %v", err)
	}
	if !parsed.Success || parsed.Transcript != "hello world" || parsed.Language != "en" {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestParseToolOutputFailure(t *testing.T) {
	out := []byte(`{"success": false, "error": "model not found"}`)
	parsed, err := parseToolOutput(out)
	if err != nil {
		t.Fatalf("parseToolOutput: %v", err)
	}
	if parsed.Success || parsed.Error != "model not found" {
		t.Fatalf("parsed = %+v", parsed)
	}
}

func TestParseToolOutputNoJSON(t *testing.T) {
	if _, err := parseToolOutput([]byte("just noise, nothing structured")); err == nil {
		t.Fatal("expected error for output without JSON")
	}
}
