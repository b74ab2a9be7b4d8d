package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-builder/internal/review"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Reviewer produces an AI review of resume content.
type Reviewer interface {
	Review(ctx context.Context, content map[string]any) review.Result
}

// ReviewOutcome labels how an analyze request ended, for request logs.
type ReviewOutcome string

const (
	ReviewSkipped   ReviewOutcome = ""
	ReviewSucceeded ReviewOutcome = "success"
	ReviewFailed    ReviewOutcome = "error"
)

type Service struct {
	Repo            Repo
	Reviewer        Reviewer
	DefaultTemplate string
}

func NewService(repo Repo, reviewer Reviewer, defaultTemplate string) *Service {
	if strings.TrimSpace(defaultTemplate) == "" {
		defaultTemplate = DefaultTemplate
	}
	return &Service{Repo: repo, Reviewer: reviewer, DefaultTemplate: defaultTemplate}
}

// ListQuery is a page request; Page is 1-based.
type ListQuery struct {
	Status   Status
	Page     int
	PageSize int
}

// ListResult is one page plus the total match count.
type ListResult struct {
	Items    []ListItem
	Count    int
	Page     int
	PageSize int
	HasNext  bool
}

func (s *Service) List(ctx context.Context, userID int64, q ListQuery) (ListResult, error) {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Page <= 0 {
		return ListResult{}, ErrInvalidPage
	}
	rows, total, err := s.Repo.List(ctx, userID, ListFilter{
		Status: q.Status,
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		return ListResult{}, err
	}
	// An empty first page is fine; any later page must hold rows.
	if q.Page > 1 && len(rows) == 0 {
		return ListResult{}, ErrInvalidPage
	}
	items := make([]ListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.ListItem())
	}
	return ListResult{
		Items:    items,
		Count:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
		HasNext:  q.Page*q.PageSize < total,
	}, nil
}

func (s *Service) Create(ctx context.Context, userID int64, in Input) (Resume, error) {
	if err := in.Validate(false); err != nil {
		return Resume{}, err
	}
	res := Resume{
		UserID:   userID,
		Title:    *in.Title,
		Template: s.DefaultTemplate,
		Content:  map[string]any{},
		Status:   StatusDraft,
	}
	applyInput(&res, in)
	created, err := s.Repo.Create(ctx, res)
	if err != nil {
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}
	telemetry.Info("resume.created", map[string]any{"user_id": userID, "resume_id": created.ID})
	return created, nil
}

// Update applies a whole (PUT) or partial (PATCH) write.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input, partial bool) (Resume, error) {
	if err := in.Validate(partial); err != nil {
		return Resume{}, err
	}
	res, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Resume{}, err
	}
	applyInput(&res, in)
	return s.Repo.Update(ctx, res)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.Repo.Delete(ctx, userID, id)
}

// Preview loads a resume as a flattened preview and, when analyze is set,
// runs one AI review and stores its outcome. Review problems never become
// errors; they are reported through the toast.
func (s *Service) Preview(ctx context.Context, userID, id int64, analyze bool) (PreviewResponse, ReviewOutcome, error) {
	res, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return PreviewResponse{}, ReviewSkipped, err
	}
	if !analyze {
		return PreviewResponse{Resume: BuildPreview(res)}, ReviewSkipped, nil
	}

	updated, ai, toast := s.analyze(ctx, res)
	if updated == nil {
		telemetry.Warn("resume.review_failed", map[string]any{
			"user_id":   userID,
			"resume_id": id,
			"message":   toast.Message,
		})
		return PreviewResponse{Resume: BuildPreview(res), Toast: &toast}, ReviewFailed, nil
	}
	preview := BuildPreview(*updated)
	preview.AIAnalysis = ai
	telemetry.Info("resume.reviewed", map[string]any{
		"user_id":   userID,
		"resume_id": id,
		"score":     updated.Score,
	})
	return PreviewResponse{Resume: preview, Toast: &toast}, ReviewSucceeded, nil
}

func (s *Service) analyze(ctx context.Context, res Resume) (updated *Resume, ai *AIAnalysis, toast Toast) {
	defer func() {
		if p := recover(); p != nil {
			updated, ai = nil, nil
			toast = errorToast(fmt.Sprintf("AI Review Failed: %v", p))
		}
	}()

	if s.Reviewer == nil {
		return nil, nil, errorToast("AI Review Error: " + review.MsgClientUnavailable)
	}
	result := s.Reviewer.Review(ctx, cloneContent(res.Content))
	if result.Failed() {
		msg := "unknown failure"
		if result.Failure != nil {
			msg = result.Failure.Message
		}
		return nil, nil, errorToast("AI Review Error: " + msg)
	}
	analysis := result.Analysis

	content := cloneContent(res.Content)
	if analysis.ImprovedSummary != nil {
		content["summary"] = *analysis.ImprovedSummary
	} else if _, ok := content["summary"]; !ok {
		content["summary"] = ""
	}
	content["skills"] = strings.Join(analysis.OptimizedSkills, ", ")
	score := review.StoredScore(analysis.Score())

	saved, err := s.Repo.ApplyReview(ctx, res.UserID, res.ID, res.Version, content, score)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			metrics.IncReviewConflict()
		}
		return nil, nil, errorToast(fmt.Sprintf("AI Review Failed: %v", err))
	}

	ai = &AIAnalysis{
		Suggestions: analysis.SuggestionsOrEmpty(),
		Details:     analysis.DetailsOrEmpty(),
		Confidence:  analysis.ConfidenceOrDefault(),
	}
	toast = Toast{
		Message: fmt.Sprintf("AI Review Complete! New Score: %d%%", saved.Score),
		Type:    "success",
	}
	return &saved, ai, toast
}

func errorToast(msg string) Toast {
	return Toast{Message: msg, Type: "error"}
}

func applyInput(res *Resume, in Input) {
	if in.Title != nil {
		res.Title = *in.Title
	}
	if in.Template != nil {
		res.Template = *in.Template
	}
	if in.Status != nil {
		res.Status = Status(*in.Status)
	}
	if in.HasContent {
		res.Content = cloneContent(in.Content)
	}
}
