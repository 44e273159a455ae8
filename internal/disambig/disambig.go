// Package disambig resolves the entity groups the deterministic rules
// leave ambiguous, using a single batched text-generation call. The
// fallback is soft: any failure degrades to an empty verdict and the
// deterministic result stands on its own.
package disambig

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/brandscout-cli/internal/model"
	"github.com/sells-group/brandscout-cli/pkg/llm"
)

// Verdict is the structured outcome of an analysis: name pairs to merge and
// names that are large chains the rules failed to catch.
type Verdict struct {
	Merges      [][]string `json:"merges"`
	LargeChains []string   `json:"large_chains"`
}

// Empty reports whether the verdict recommends nothing.
func (v Verdict) Empty() bool {
	return len(v.Merges) == 0 && len(v.LargeChains) == 0
}

// Analyzer is the capability interface for the disambiguation fallback.
// Implementations never fail the run: a broken analysis returns an empty
// verdict.
type Analyzer interface {
	Analyze(ctx context.Context, groups []*model.EntityGroup) Verdict
}

// NopAnalyzer is the disabled-fallback implementation.
type NopAnalyzer struct{}

// Analyze always returns an empty verdict.
func (NopAnalyzer) Analyze(context.Context, []*model.EntityGroup) Verdict {
	return Verdict{}
}

// Band is the location-count window just above the qualifying threshold
// whose groups are most likely to be large chains the rules missed.
type Band struct {
	Low  int
	High int
}

const analyzePrompt = `You are analyzing retail brand names to help identify:
1. Groups that should be merged (same company, different name variations)
2. Brands that are large national chains (50+ locations nationwide)

Here are the brand groups found:
%s

Respond with JSON only, no explanation:
{
  "merges": [["brand1", "brand2"], ["brand3", "brand4"]],
  "large_chains": ["brand5", "brand6"]
}

Rules:
- Only merge if you're confident they're the same company
- Only mark as large_chain if you know it's a major national/international retailer
- If uncertain, don't include it`

// LLMAnalyzer batches ambiguous groups into one prompt against the
// configured model.
type LLMAnalyzer struct {
	client  llm.Client
	model   string
	timeout time.Duration
	band    Band
}

// NewLLMAnalyzer creates an analyzer. timeout bounds the single outbound
// call; a zero timeout defaults to 60s.
func NewLLMAnalyzer(client llm.Client, modelID string, timeout time.Duration, band Band) *LLMAnalyzer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LLMAnalyzer{client: client, model: modelID, timeout: timeout, band: band}
}

// Analyze selects the ambiguous groups, sends one batched request, and
// parses the structured verdict. Timeouts, transport errors, and malformed
// responses all degrade to an empty verdict.
func (a *LLMAnalyzer) Analyze(ctx context.Context, groups []*model.EntityGroup) Verdict {
	log := zap.L().With(zap.String("component", "disambig"))

	ambiguous := a.selectAmbiguous(groups)
	if len(ambiguous) == 0 {
		return Verdict{}
	}

	var list strings.Builder
	for _, g := range ambiguous {
		fmt.Fprintf(&list, "- %s (%d locations)\n", g.NormalizedName, g.LocationCount)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	temp := 0.0
	resp, err := a.client.CreateMessage(ctx, llm.MessageRequest{
		Model:       a.model,
		MaxTokens:   1024,
		Temperature: &temp,
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(analyzePrompt, strings.TrimRight(list.String(), "\n"))},
		},
	})
	if err != nil {
		log.Warn("fallback call failed, proceeding with deterministic result", zap.Error(err))
		return Verdict{}
	}

	verdict, err := parseVerdict(resp.FirstText())
	if err != nil {
		log.Warn("fallback response unparseable, proceeding with deterministic result", zap.Error(err))
		return Verdict{}
	}

	log.Info("fallback verdict applied",
		zap.Int("ambiguous_groups", len(ambiguous)),
		zap.Int("merges", len(verdict.Merges)),
		zap.Int("large_chains", len(verdict.LargeChains)),
	)
	return verdict
}

// selectAmbiguous returns, in stable order, groups flagged by the
// deterministic selector: token-overlap pairs and near-miss location counts.
func (a *LLMAnalyzer) selectAmbiguous(groups []*model.EntityGroup) []*model.EntityGroup {
	flagged := make(map[string]bool)
	var out []*model.EntityGroup

	add := func(g *model.EntityGroup) {
		if !flagged[g.NormalizedName] {
			flagged[g.NormalizedName] = true
			out = append(out, g)
		}
	}

	for i, g1 := range groups {
		for _, g2 := range groups[i+1:] {
			if tokenOverlap(g1.NormalizedName, g2.NormalizedName) {
				add(g1)
				add(g2)
			}
		}
	}

	if a.band.High > 0 {
		for _, g := range groups {
			if g.LocationCount >= a.band.Low && g.LocationCount <= a.band.High {
				add(g)
			}
		}
	}

	return out
}

// tokenOverlap reports whether two names share at least half of the smaller
// name's token set.
func tokenOverlap(a, b string) bool {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return false
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}

	overlap := 0
	for tok := range setA {
		if setB[tok] {
			overlap++
		}
	}
	return overlap*2 >= smaller
}

func tokenSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(name) {
		set[tok] = true
	}
	return set
}

// parseVerdict extracts the JSON verdict from a model response that may be
// wrapped in markdown fences or prose.
func parseVerdict(text string) (Verdict, error) {
	cleaned := cleanJSON(text)

	var v Verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return Verdict{}, err
	}
	return v, nil
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
