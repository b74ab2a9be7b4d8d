package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	resumes map[int64]Resume
	nextID  int64
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes: make(map[int64]Resume),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// stamp returns a time strictly after prev so updated_at ordering is stable.
func (r *MemoryRepo) stamp(prev time.Time) time.Time {
	now := r.now()
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

func (r *MemoryRepo) List(ctx context.Context, userID int64, filter ListFilter) ([]Resume, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Resume
	for _, res := range r.resumes {
		if res.UserID != userID {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		matched = append(matched, res)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	out := make([]Resume, 0, end-start)
	for _, res := range matched[start:end] {
		res.Content = nil
		out = append(out, res)
	}
	return out, total, nil
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := r.now()
	resume.ID = r.nextID
	resume.Content = cloneContent(resume.Content)
	resume.Version = 1
	resume.CreatedAt = now
	resume.UpdatedAt = now
	r.resumes[resume.ID] = resume
	return withClonedContent(resume), nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, id int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[id]
	if !ok || res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return withClonedContent(res), nil
}

func (r *MemoryRepo) Update(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.resumes[resume.ID]
	if !ok || existing.UserID != resume.UserID {
		return Resume{}, ErrNotFound
	}
	existing.Title = resume.Title
	existing.Template = resume.Template
	existing.Content = cloneContent(resume.Content)
	existing.Status = resume.Status
	existing.Version++
	existing.UpdatedAt = r.stamp(existing.UpdatedAt)
	r.resumes[existing.ID] = existing
	return withClonedContent(existing), nil
}

func (r *MemoryRepo) ApplyReview(ctx context.Context, userID, id, version int64, content map[string]any, score int) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.resumes[id]
	if !ok || existing.UserID != userID || existing.Version != version {
		return Resume{}, ErrConflict
	}
	existing.Content = cloneContent(content)
	existing.Score = score
	existing.Status = StatusCompleted
	existing.Version++
	existing.UpdatedAt = r.stamp(existing.UpdatedAt)
	r.resumes[id] = existing
	return withClonedContent(existing), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok || res.UserID != userID {
		return ErrNotFound
	}
	delete(r.resumes, id)
	return nil
}

func withClonedContent(res Resume) Resume {
	res.Content = cloneContent(res.Content)
	return res
}
