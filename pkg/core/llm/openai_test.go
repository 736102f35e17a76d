package llm_test

import (
	"testing"

	"github.com/easyops/tokengate/pkg/core/errors"
	"github.com/easyops/tokengate/pkg/core/llm"
)

func TestNewOpenAI_RequiresAPIKey(t *testing.T) {
	_, err := llm.NewOpenAI()
	if err != errors.ErrInvalidAPIKey {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
}

func TestNewOpenAI_DefaultName(t *testing.T) {
	client, err := llm.NewOpenAI(llm.WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client.Name() != "openai" {
		t.Fatalf("expected default name openai, got %s", client.Name())
	}
	if client.Model() != "gpt-4o" {
		t.Fatalf("expected default model, got %s", client.Model())
	}
}

func TestNewOpenAI_ProviderNameOverride(t *testing.T) {
	client, err := llm.NewOpenAI(
		llm.WithAPIKey("test-key"),
		llm.WithBaseURL("https://api.deepseek.com/v1"),
		llm.WithModel("deepseek-chat"),
		llm.WithProviderName("deepseek"),
	)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client.Name() != "deepseek" {
		t.Fatalf("expected provider name deepseek, got %s", client.Name())
	}
}
