package usecase

import (
	"context"
	"embed"
	"strings"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/doc-forge-buddy/docforge/pkg/service/responsecache"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/*.md
var assistPrompts embed.FS

const assistModelName = "gemini"

// AssistResult is the answer to an assist request
type AssistResult struct {
	Output  string
	Cached  bool
	EntryID model.CacheEntryID
}

// AssistUseCase answers text requests through the response cache and falls
// back to the LLM on a miss
type AssistUseCase struct {
	cache     *responsecache.Cache
	llmClient gollem.LLMClient
}

func NewAssistUseCase(cache *responsecache.Cache, llmClient gollem.LLMClient) *AssistUseCase {
	return &AssistUseCase{
		cache:     cache,
		llmClient: llmClient,
	}
}

func systemPrompt(mode types.CacheMode) (string, error) {
	data, err := assistPrompts.ReadFile("prompt/" + mode.String() + ".md")
	if err != nil {
		return "", goerr.Wrap(err, "no system prompt for mode", goerr.V("mode", mode))
	}
	return string(data), nil
}

// Complete returns the cached answer for input or asks the LLM and caches the result
func (uc *AssistUseCase) Complete(ctx context.Context, input string, mode types.CacheMode) (*AssistResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "input is empty")
	}
	if !mode.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "unknown assist mode", goerr.V("mode", mode))
	}

	if entry := uc.cache.Get(ctx, input, mode); entry != nil {
		return &AssistResult{Output: entry.Output, Cached: true, EntryID: entry.ID}, nil
	}

	if uc.llmClient == nil {
		return nil, goerr.Wrap(ErrLLMNotConfigured, "cache miss", goerr.V("mode", mode))
	}

	prompt, err := systemPrompt(mode)
	if err != nil {
		return nil, err
	}

	session, err := uc.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(input))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate assist response", goerr.V("mode", mode))
	}

	output := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if output == "" {
		return nil, goerr.New("LLM returned empty response", goerr.V("mode", mode))
	}

	entry := uc.cache.Set(ctx, input, output, mode,
		responsecache.WithConfidence(responsecache.DefaultConfidence),
		responsecache.WithMetadata(map[string]any{"model": assistModelName}),
	)
	logging.From(ctx).Debug("assist response cached", "mode", mode, "entry_id", entry.ID)

	return &AssistResult{Output: output, EntryID: entry.ID}, nil
}

// CacheStats summarizes the response cache
func (uc *AssistUseCase) CacheStats() *model.CacheStats {
	return uc.cache.Stats()
}

// ClearCache drops every cached response
func (uc *AssistUseCase) ClearCache(ctx context.Context) {
	uc.cache.Clear(ctx)
	logging.From(ctx).Info("response cache cleared")
}
