package question

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"specialist-match-be/pkg/dialog"
	"specialist-match-be/pkg/llm"
	"specialist-match-be/pkg/store"
)

// defaultBatchSize is how many clarification questions one turn asks for at
// most. Front ends render them as a short form; more than three feels like an
// interrogation.
const defaultBatchSize = 3

// GenerationContext carries everything the generator needs for one turn.
type GenerationContext struct {
	State    *store.ConversationState
	Analysis dialog.Analysis
}

// Result is the generator's verdict: either the next questions to ask or a
// signal that retrieval should start now.
type Result struct {
	Questions      []store.StructuredQuestion `json:"questions"`
	ShouldSearch   bool                       `json:"should_search"`
	InferredParams map[string]any             `json:"inferred_params,omitempty"`
}

// Generator produces the next batch of structured questions. The LLM path
// yields conversational, context-aware phrasing; any transport or schema
// failure silently falls back to the static templates, so Generate never
// returns a non-nil error for AI reasons.
type Generator struct {
	llmProvider llm.LLMProvider
	cache       Cache
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, cache Cache, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		cache:       cache,
		logger:      logger,
	}
}

// Generate decides the next questions for the conversation. The question
// count is clamped so asked + new never exceeds the category's ceiling.
func (g *Generator) Generate(ctx context.Context, gctx GenerationContext) (*Result, error) {
	analysis := gctx.Analysis
	state := gctx.State

	if analysis.ReadyToSearch {
		return &Result{
			ShouldSearch:   true,
			InferredParams: g.inferParams(state, analysis),
		}, nil
	}

	req, _ := dialog.RequirementsFor(analysis.Category)
	remaining := req.MaxQuestions - len(state.QuestionsAsked)
	if remaining <= 0 {
		// Budget spent while not ready: the analyzer force-proceeds on the
		// next pass, so just signal search here too.
		return &Result{ShouldSearch: true, InferredParams: g.inferParams(state, analysis)}, nil
	}
	limit := defaultBatchSize
	if remaining < limit {
		limit = remaining
	}

	key := CacheKey(latestUtterance(state), analysis.Category, state.CollectedSlots)
	if g.cache != nil {
		if cached, found := g.cache.Get(ctx, key); found {
			// A cached batch still goes through finalize: the session may
			// have asked some of its slots since, and the remaining budget
			// may be smaller than when the batch was stored. Copy first so
			// the cached entry is not rewritten in place.
			batch := g.finalize(append([]store.StructuredQuestion(nil), cached...), state, analysis, limit)
			if len(batch) > 0 {
				g.logf("[QUESTION] cache hit key=%s questions=%d", key, len(batch))
				return &Result{Questions: batch}, nil
			}
		}
	}

	questions := g.generateLLM(ctx, state, analysis, limit)
	if questions == nil {
		questions = fallbackQuestions(analysis.Category, analysis.MissingSlots, limit)
	}
	questions = g.finalize(questions, state, analysis, limit)

	if g.cache != nil && len(questions) > 0 {
		g.cache.Set(ctx, key, questions, DefaultTTL)
	}

	return &Result{Questions: questions}, nil
}

// generateLLM asks the model for conversational phrasings. Returns nil on any
// failure so the caller falls back to templates.
func (g *Generator) generateLLM(ctx context.Context, state *store.ConversationState, analysis dialog.Analysis, limit int) []store.StructuredQuestion {
	if g.llmProvider == nil {
		return nil
	}

	prompt := g.buildPrompt(state, analysis, limit)
	response, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		g.logf("[WARN] question generation failed, using templates: %v", err)
		return nil
	}

	questions, err := parseQuestions(response)
	if err != nil {
		g.logf("[WARN] question parsing failed, using templates: %v", err)
		return nil
	}
	return questions
}

func (g *Generator) buildPrompt(state *store.ConversationState, analysis dialog.Analysis, limit int) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You help match people with specialists (psychologists, fitness trainers, nutritionists).\n")
	prompt.WriteString("Your ONLY job is to write the next clarification questions. You do NOT give advice.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<conversation>\n")
	for _, turn := range state.Turns {
		prompt.WriteString(fmt.Sprintf("%s: %s\n", turn.Role, turn.Text))
	}
	prompt.WriteString("</conversation>\n\n")

	prompt.WriteString("<known>\n")
	if analysis.Category != "" {
		prompt.WriteString(fmt.Sprintf("category: %s\n", analysis.Category))
	}
	for name, value := range state.CollectedSlots {
		prompt.WriteString(fmt.Sprintf("%s: %v\n", name, value))
	}
	prompt.WriteString("</known>\n\n")

	prompt.WriteString("<missing>\n")
	prompt.WriteString("Ask about these, most important first:\n")
	for _, slot := range analysis.MissingSlots {
		prompt.WriteString(fmt.Sprintf("- %s\n", slot))
	}
	prompt.WriteString("</missing>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString(fmt.Sprintf("Respond with ONLY a valid JSON array of at most %d questions:\n", limit))
	prompt.WriteString("[\n")
	prompt.WriteString("  {\n")
	prompt.WriteString("    \"prompt\": \"the question text\",\n")
	prompt.WriteString("    \"kind\": \"single_choice|multiple_choice|free_text|skippable\",\n")
	prompt.WriteString("    \"options\": [\"option A\", \"option B\"],\n")
	prompt.WriteString("    \"required\": true,\n")
	prompt.WriteString("    \"slot\": \"which missing slot this fills\"\n")
	prompt.WriteString("  }\n")
	prompt.WriteString("]\n")
	prompt.WriteString("Rules: choice kinds need 2-6 options; free_text and skippable need none.\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

// parseQuestions validates the model output strictly: it must be a JSON
// array, every element needs a non-empty prompt, a known kind, and options
// when the kind is a choice. One bad element rejects the whole batch.
func parseQuestions(response string) ([]store.StructuredQuestion, error) {
	jsonContent := extractJSONArray(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var questions []store.StructuredQuestion
	if err := json.Unmarshal([]byte(jsonContent), &questions); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("empty question array")
	}

	for i, q := range questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return nil, fmt.Errorf("question %d: empty prompt", i)
		}
		switch q.Kind {
		case store.KindSingleChoice, store.KindMultipleChoice:
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("question %d: choice kind without options", i)
			}
		case store.KindFreeText, store.KindSkippable:
		default:
			return nil, fmt.Errorf("question %d: unknown kind %q", i, q.Kind)
		}
	}
	return questions, nil
}

// finalize orders, de-duplicates against already-asked slots, clamps to the
// budget, and stamps ids. Applied to both LLM and template output so the two
// paths are indistinguishable downstream.
func (g *Generator) finalize(questions []store.StructuredQuestion, state *store.ConversationState, analysis dialog.Analysis, limit int) []store.StructuredQuestion {
	asked := map[string]bool{}
	for _, q := range state.QuestionsAsked {
		if q.Slot != "" {
			asked[q.Slot] = true
		}
	}

	filtered := questions[:0]
	for _, q := range questions {
		if q.Slot != "" && asked[q.Slot] {
			continue
		}
		filtered = append(filtered, q)
	}

	// Required before optional; within a tier, unanswered slots first.
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Required != filtered[j].Required {
			return filtered[i].Required
		}
		iKnown := state.HasSlot(filtered[i].Slot)
		jKnown := state.HasSlot(filtered[j].Slot)
		return !iKnown && jKnown
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	for i := range filtered {
		filtered[i].Id = uuid.New().String()
		filtered[i].Order = i
		if filtered[i].Category == "" {
			filtered[i].Category = analysis.Category
		}
	}
	return filtered
}

// inferParams lifts collected slots into retrieval parameters.
func (g *Generator) inferParams(state *store.ConversationState, analysis dialog.Analysis) map[string]any {
	params := map[string]any{}
	if analysis.Category != "" {
		params["category"] = analysis.Category
	}
	if format := state.SlotString(dialog.SlotWorkFormat); format != "" {
		params["work_format"] = format
	}
	for name, value := range state.CollectedSlots {
		if _, exists := params[name]; !exists {
			params[name] = value
		}
	}
	return params
}

func latestUtterance(state *store.ConversationState) string {
	for i := len(state.Turns) - 1; i >= 0; i-- {
		if state.Turns[i].Role == "user" {
			return state.Turns[i].Text
		}
	}
	return ""
}

func extractJSONArray(response string) string {
	startIdx := strings.Index(response, "[")
	endIdx := strings.LastIndex(response, "]")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

func (g *Generator) logf(format string, args ...any) {
	if g.logger != nil {
		g.logger.Printf(format, args...)
	}
}
