package review

import (
	"fmt"
	"math"
)

const (
	defaultConfidence = 95.0
	defaultScore      = 95.0
)

// Failure messages surfaced to the caller.
const (
	MsgClientUnavailable = "Gemini Client failed to initialize. Check API Key."
	MsgInvalidJSON       = "Invalid JSON from model"
)

// Result is either a parsed Analysis or a Failure, never both.
type Result struct {
	Analysis *Analysis
	Failure  *Failure
}

// Failed reports whether the review produced no usable analysis.
func (r Result) Failed() bool {
	return r.Analysis == nil
}

// Failure describes why a review produced no analysis.
// RawResponse is set only when the model answered with unparseable text.
type Failure struct {
	Message     string
	RawResponse string
}

func failed(msg string) Result {
	return Result{Failure: &Failure{Message: msg}}
}

func failedf(format string, args ...any) Result {
	return failed(fmt.Sprintf(format, args...))
}

// Analysis is the model's rewrite of a resume. Pointer fields are nil when the
// model omitted them.
type Analysis struct {
	ImprovedSummary         *string
	OptimizedSkills         []string
	OptimizedExperience     []map[string]any
	OptimizedEducation      []map[string]any
	OptimizedProjects       []map[string]any
	OptimizedCertifications []map[string]any
	OptimizedLanguages      []string
	Suggestions             []string
	OverallScore            *float64
	Confidence              *float64
	Details                 *string
}

// Score is the overall score, 95 when the model left it out.
func (a *Analysis) Score() float64 {
	if a.OverallScore == nil {
		return defaultScore
	}
	return *a.OverallScore
}

// ConfidenceOrDefault returns the confidence, 95 when absent.
func (a *Analysis) ConfidenceOrDefault() float64 {
	if a.Confidence == nil {
		return defaultConfidence
	}
	return *a.Confidence
}

// DetailsOrEmpty returns details, "" when absent.
func (a *Analysis) DetailsOrEmpty() string {
	if a.Details == nil {
		return ""
	}
	return *a.Details
}

// SuggestionsOrEmpty never returns nil.
func (a *Analysis) SuggestionsOrEmpty() []string {
	if a.Suggestions == nil {
		return []string{}
	}
	return a.Suggestions
}

// normalizedScore maps confidence onto [90, 100] with two decimals.
func normalizedScore(confidence float64) float64 {
	return math.Round((90+10*(confidence/100))*100) / 100
}

// StoredScore converts a model score to the persisted integer in [0, 100].
func StoredScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	rounded := math.Round(score)
	switch {
	case rounded < 0:
		return 0
	case rounded > 100:
		return 100
	default:
		return int(rounded)
	}
}
