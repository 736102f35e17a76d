package pipeline

import (
	"strings"
	"testing"
)

func TestParseQualityScore(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"valid json", `{"score": 0.85, "feedback": "good"}`, 0.85},
		{"json embedded in prose", `Here is my evaluation: {"score": 0.6, "feedback": "ok"} done.`, 0.6},
		{"score above one clamped", `{"score": 1.5, "feedback": "x"}`, 1.0},
		{"negative score clamped", `{"score": -0.3, "feedback": "x"}`, 0.0},
		{"missing score field", `{"feedback": "no score here"}`, defaultQualityScore},
		{"malformed json", `{"score": not-a-number}`, defaultQualityScore},
		{"no braces at all", `the answer looks fine`, defaultQualityScore},
		{"empty content", ``, defaultQualityScore},
		{"reversed braces", `} nonsense {`, defaultQualityScore},
		{"zero score is valid", `{"score": 0, "feedback": "terrible"}`, 0.0},
		{"perfect score", `{"score": 1.0, "feedback": "flawless"}`, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseQualityScore(tt.content); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuildGeneratorMessage(t *testing.T) {
	s := NewExecutionState("What is Go?", 10000, 5)
	s.Plan = "1. explain"

	msg := buildGeneratorMessage(s)
	if !strings.Contains(msg, "No context was retrieved") {
		t.Fatalf("expected no-context marker, got %q", msg)
	}

	s.RetrievedChunks = []string{"chunk a", "chunk b"}
	msg = buildGeneratorMessage(s)
	if !strings.Contains(msg, "chunk a") || !strings.Contains(msg, "chunk b") {
		t.Fatalf("expected chunks in message, got %q", msg)
	}
	if !strings.Contains(msg, "What is Go?") || !strings.Contains(msg, "1. explain") {
		t.Fatalf("expected query and plan in message, got %q", msg)
	}
}
