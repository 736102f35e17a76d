package pipeline_test

import (
	"testing"

	"github.com/easyops/tokengate/pkg/pipeline"
)

func TestRouter_Precedence(t *testing.T) {
	router := pipeline.DefaultRouter()

	tests := []struct {
		name      string
		status    pipeline.Status
		remaining int
		quality   float64
		step      int
		maxSteps  int
		want      pipeline.Action
	}{
		{
			name:      "degraded status wins over high quality",
			status:    pipeline.StatusInsufficientBudgetForGeneration,
			remaining: 9000,
			quality:   0.99,
			step:      1,
			maxSteps:  5,
			want:      pipeline.ActionSummarize,
		},
		{
			name:      "planning degradation forces summarize",
			status:    pipeline.StatusInsufficientBudgetForPlanning,
			remaining: 400,
			quality:   0,
			step:      1,
			maxSteps:  5,
			want:      pipeline.ActionSummarize,
		},
		{
			name:      "low budget wins over high quality",
			status:    pipeline.StatusInit,
			remaining: 500,
			quality:   0.99,
			step:      1,
			maxSteps:  5,
			want:      pipeline.ActionSummarize,
		},
		{
			name:      "budget exactly at threshold summarizes",
			status:    pipeline.StatusInit,
			remaining: pipeline.DefaultBudgetThreshold,
			quality:   0.5,
			step:      1,
			maxSteps:  5,
			want:      pipeline.ActionSummarize,
		},
		{
			name:      "budget just above threshold does not summarize",
			status:    pipeline.StatusInit,
			remaining: pipeline.DefaultBudgetThreshold + 1,
			quality:   0.9,
			step:      1,
			maxSteps:  5,
			want:      pipeline.ActionEnd,
		},
		{
			name:      "quality at threshold ends",
			status:    pipeline.StatusInit,
			remaining: 5000,
			quality:   pipeline.DefaultQualityThreshold,
			step:      1,
			maxSteps:  5,
			want:      pipeline.ActionEnd,
		},
		{
			name:      "quality wins over exhausted steps",
			status:    pipeline.StatusInit,
			remaining: 5000,
			quality:   0.9,
			step:      5,
			maxSteps:  5,
			want:      pipeline.ActionEnd,
		},
		{
			name:      "steps exhausted summarizes",
			status:    pipeline.StatusInit,
			remaining: 5000,
			quality:   0.5,
			step:      5,
			maxSteps:  5,
			want:      pipeline.ActionSummarize,
		},
		{
			name:      "otherwise loops",
			status:    pipeline.StatusInit,
			remaining: 5000,
			quality:   0.5,
			step:      1,
			maxSteps:  5,
			want:      pipeline.ActionLoop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := pipeline.NewExecutionState("q", 10000, tt.maxSteps)
			s.Status = tt.status
			s.RemainingBudget = tt.remaining
			s.QualityScore = tt.quality
			s.StepCount = tt.step

			if got := router.Decide(s); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRouter_DecideIsPure(t *testing.T) {
	router := pipeline.DefaultRouter()
	s := pipeline.NewExecutionState("q", 10000, 5)
	s.RemainingBudget = 5000
	s.QualityScore = 0.5
	s.StepCount = 1

	first := router.Decide(s)
	for i := 0; i < 10; i++ {
		if got := router.Decide(s); got != first {
			t.Fatalf("expected stable decision %s, got %s", first, got)
		}
	}
	if s.Status != pipeline.StatusInit || s.StepCount != 1 || s.RemainingBudget != 5000 {
		t.Fatal("Decide must not mutate state")
	}
}

func TestRouter_CustomThresholds(t *testing.T) {
	router := pipeline.NewRouter(1000, 0.6)
	s := pipeline.NewExecutionState("q", 10000, 5)
	s.RemainingBudget = 1000
	s.QualityScore = 0.99
	s.StepCount = 1

	if got := router.Decide(s); got != pipeline.ActionSummarize {
		t.Fatalf("expected summarize at custom budget threshold, got %s", got)
	}

	s.RemainingBudget = 5000
	s.QualityScore = 0.6
	if got := router.Decide(s); got != pipeline.ActionEnd {
		t.Fatalf("expected end at custom quality threshold, got %s", got)
	}
}

func TestAction_String(t *testing.T) {
	if pipeline.ActionEnd.String() != "end" {
		t.Fatalf("unexpected name %s", pipeline.ActionEnd)
	}
	if pipeline.ActionLoop.String() != "loop" {
		t.Fatalf("unexpected name %s", pipeline.ActionLoop)
	}
	if pipeline.ActionSummarize.String() != "summarize" {
		t.Fatalf("unexpected name %s", pipeline.ActionSummarize)
	}
}
