package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

// Normalizer sends resume content to a generative model and turns the reply
// into an Analysis. A Normalizer without a client fails every review.
type Normalizer struct {
	client llm.Client
	now    func() time.Time
}

func NewNormalizer(client llm.Client) *Normalizer {
	return &Normalizer{client: client, now: time.Now}
}

// Enabled reports whether a model client is wired in.
func (n *Normalizer) Enabled() bool {
	return n != nil && n.client != nil
}

// Review makes exactly one model call. Failures come back as values.
func (n *Normalizer) Review(ctx context.Context, content map[string]any) Result {
	if !n.Enabled() {
		metrics.IncReviewFailed()
		return failed(MsgClientUnavailable)
	}

	prompt, err := buildPrompt(content)
	if err != nil {
		metrics.IncReviewFailed()
		return failedf("Gemini API call failed: %v", err)
	}

	metrics.IncReviewStarted()
	start := n.now()
	text, err := n.client.GenerateJSON(ctx, llm.Request{Prompt: prompt, Schema: ResponseSchema()})
	metrics.ObserveReviewDurationMs(float64(n.now().Sub(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncReviewFailed()
		telemetry.Error("review.call_failed", map[string]any{"error": err.Error()})
		return failedf("Gemini API call failed: %v", err)
	}

	analysis, ok := parseAnalysis(text)
	if !ok {
		metrics.IncReviewFailed()
		telemetry.Warn("review.invalid_json", map[string]any{"bytes": len(text)})
		return Result{Failure: &Failure{Message: MsgInvalidJSON, RawResponse: text}}
	}

	if drift, err := schemaDrift(text); err != nil {
		telemetry.Warn("review.schema_check_failed", map[string]any{"error": err.Error()})
	} else if len(drift) > 0 {
		telemetry.Warn("review.schema_drift", map[string]any{"violations": drift})
	}

	metrics.IncReviewSucceeded()
	return Result{Analysis: analysis}
}

// parseAnalysis accepts any JSON object; mistyped fields are treated as absent.
func parseAnalysis(text string) (*Analysis, bool) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}

	a := &Analysis{
		ImprovedSummary:         stringField(raw, "improved_summary"),
		OptimizedSkills:         stringsField(raw, "optimized_skills"),
		OptimizedExperience:     objectsField(raw, "optimized_experience"),
		OptimizedEducation:      objectsField(raw, "optimized_education"),
		OptimizedProjects:       objectsField(raw, "optimized_projects"),
		OptimizedCertifications: objectsField(raw, "optimized_certifications"),
		OptimizedLanguages:      stringsField(raw, "optimized_languages"),
		Suggestions:             stringsField(raw, "suggestions"),
		Confidence:              numberField(raw, "confidence"),
		Details:                 stringField(raw, "details"),
	}
	// The model's own overall_score is replaced by the confidence-derived one.
	if _, present := raw["overall_score"]; present {
		score := normalizedScore(a.ConfidenceOrDefault())
		a.OverallScore = &score
	}
	return a, true
}

func stringField(raw map[string]any, key string) *string {
	if s, ok := raw[key].(string); ok {
		return &s
	}
	return nil
}

func numberField(raw map[string]any, key string) *float64 {
	if f, ok := raw[key].(float64); ok {
		return &f
	}
	return nil
}

func stringsField(raw map[string]any, key string) []string {
	items, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case nil:
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

func objectsField(raw map[string]any, key string) []map[string]any {
	items, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
