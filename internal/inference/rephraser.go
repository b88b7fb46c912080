package inference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"agilesense.ai/services/common/llm"
	"agilesense.ai/services/internal/model"
)

const (
	rephraseTemperature = 0.7
	rephraseTopP        = 0.9
	rephraseMaxTokens   = 200
)

const rephraseSystemPrompt = `You rewrite contributions from brainstorming sessions so they read clear, direct and confident.
Keep the meaning and every technical detail. Drop hedging and filler, prefer active voice.
Reply with the rewritten text only.`

var hedgeWords = []string{"maybe", "perhaps", "possibly", "potentially", "kind of", "sort of", "I think"}

type Rephraser struct {
	generator llm.Client
}

func NewRephraser(generator llm.Client) *Rephraser {
	return &Rephraser{generator: generator}
}

func (r *Rephraser) Ready() bool {
	return r != nil && r.generator != nil
}

// Rephrase rewrites text. Generation is sampled, so two calls on the same
// input can return different rewrites.
func (r *Rephraser) Rephrase(ctx context.Context, text, hint string) (model.RephraseResult, error) {
	if !r.Ready() {
		return model.RephraseResult{}, notReady("rephraser model")
	}

	out, err := r.generator.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: rephraseSystemPrompt,
		Prompt:       rephrasePrompt(text, hint),
		MaxTokens:    rephraseMaxTokens,
		Temperature:  llm.Temp(rephraseTemperature),
		TopP:         llm.Temp(rephraseTopP),
	})
	if err != nil {
		return model.RephraseResult{}, &InferenceError{Op: "rephrase", Err: err}
	}

	rephrased := strings.TrimSpace(out.Text)
	slog.InfoContext(ctx, "text rephrased",
		"model", r.generator.Model(),
		"original_words", len(strings.Fields(text)),
		"rephrased_words", len(strings.Fields(rephrased)))

	return model.RephraseResult{
		OriginalText:  text,
		RephrasedText: rephrased,
		Improvements:  Improvements(text, rephrased),
	}, nil
}

func rephrasePrompt(text, hint string) string {
	if hint != "" {
		return fmt.Sprintf("rephrase with context %s: %s", hint, text)
	}
	return "rephrase: " + text
}

// Improvements describes what changed between original and rephrased text.
func Improvements(original, rephrased string) []string {
	origLower := strings.ToLower(original)
	rephLower := strings.ToLower(rephrased)

	var out []string
	for _, w := range hedgeWords {
		lw := strings.ToLower(w)
		if strings.Contains(origLower, lw) && !strings.Contains(rephLower, lw) {
			out = append(out, fmt.Sprintf("Removed hedging word: '%s'", w))
		}
	}

	if strings.Contains(origLower, " be ") && !strings.Contains(rephLower, " be ") {
		out = append(out, "Converted passive to active voice")
	}

	if len(strings.Fields(rephrased)) < len(strings.Fields(original)) {
		out = append(out, "Simplified sentence structure")
	}

	if len(out) == 0 {
		out = append(out, "Enhanced clarity and directness")
	}
	return out
}
