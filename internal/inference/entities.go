package inference

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"agilesense.ai/services/common/llm"
	"agilesense.ai/services/internal/model"
)

const entitySystemPrompt = `You are a named entity recognizer.
Return every named entity in the user's text, in the order they appear.
Use OntoNotes labels: PERSON, NORP, FAC, ORG, GPE, LOC, PRODUCT, EVENT, WORK_OF_ART, LAW, LANGUAGE, DATE, TIME, PERCENT, MONEY, QUANTITY, ORDINAL, CARDINAL.
"text" must be copied verbatim from the input. "start" and "end" are character offsets, end exclusive.
Return an empty list when there are no entities.`

type entitySpan struct {
	Text  string `json:"text" jsonschema:"description=Entity text copied verbatim from the input"`
	Label string `json:"label" jsonschema:"description=OntoNotes entity label"`
	Start int    `json:"start" jsonschema:"description=Character offset of the first character"`
	End   int    `json:"end" jsonschema:"description=Character offset after the last character"`
}

type entityResponse struct {
	Entities []entitySpan `json:"entities"`
}

type EntityExtractor struct {
	client llm.Client
}

func NewEntityExtractor(client llm.Client) *EntityExtractor {
	return &EntityExtractor{client: client}
}

func (e *EntityExtractor) Ready() bool {
	return e != nil && e.client != nil
}

// Extract returns entity spans in the order the model reported them.
func (e *EntityExtractor) Extract(ctx context.Context, text string) ([]model.Entity, error) {
	if !e.Ready() {
		return nil, notReady("NER model")
	}

	var resp entityResponse
	if _, err := e.client.Chat(ctx, llm.Request{
		SystemPrompt: entitySystemPrompt,
		UserPrompt:   text,
		SchemaName:   "entities",
		Schema:       llm.GenerateSchema[entityResponse](),
		Temperature:  llm.Temp(0),
	}, &resp); err != nil {
		return nil, &InferenceError{Op: "extract entities", Err: err}
	}

	entities := anchorEntities(text, resp.Entities)
	if dropped := len(resp.Entities) - len(entities); dropped > 0 {
		slog.WarnContext(ctx, "dropped entities not present in text", "dropped", dropped)
	}
	slog.InfoContext(ctx, "entities extracted", "count", len(entities))
	return entities, nil
}

// anchorEntities fixes offsets so the runes in [start, end) equal the entity
// text. A reported offset is kept when it matches and does not precede the end
// of the previous entity; otherwise the first occurrence from there on is
// used. Spans that do not occur in text are dropped. Offsets count runes.
func anchorEntities(text string, spans []entitySpan) []model.Entity {
	runes := []rune(text)
	out := make([]model.Entity, 0, len(spans))
	cursor := 0
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		n := utf8.RuneCountInString(s.Text)

		start := -1
		switch {
		case s.Start >= cursor && s.Start+n <= len(runes) && string(runes[s.Start:s.Start+n]) == s.Text:
			start = s.Start
		default:
			start = runeIndex(text, s.Text, cursor)
			if start < 0 {
				start = runeIndex(text, s.Text, 0)
			}
		}
		if start < 0 {
			continue
		}

		end := start + n
		out = append(out, model.Entity{
			Text:  s.Text,
			Label: s.Label,
			Start: start,
			End:   end,
		})
		if end > cursor {
			cursor = end
		}
	}
	return out
}

// runeIndex is strings.Index for a search starting at rune offset from, with
// the result expressed in runes. It returns -1 when sub does not occur.
func runeIndex(text, sub string, from int) int {
	offset := 0
	for i := range text {
		if offset == from {
			if idx := strings.Index(text[i:], sub); idx >= 0 {
				return from + utf8.RuneCountInString(text[i:i+idx])
			}
			return -1
		}
		offset++
	}
	return -1
}

func Summarize(entities []model.Entity) model.EntitySummary {
	types := make(map[string]int)
	for _, e := range entities {
		types[e.Label]++
	}
	return model.EntitySummary{
		TotalEntities: len(entities),
		EntityTypes:   types,
		UniqueTypes:   len(types),
	}
}
