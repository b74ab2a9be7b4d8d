package resumes

import "context"

// Repo persists resumes. Every method is scoped to the owning user; a resume
// owned by someone else is reported as ErrNotFound.
type Repo interface {
	List(ctx context.Context, userID int64, filter ListFilter) ([]Resume, int, error)
	Create(ctx context.Context, resume Resume) (Resume, error)
	Get(ctx context.Context, userID, id int64) (Resume, error)
	Update(ctx context.Context, resume Resume) (Resume, error)
	// ApplyReview stores a review outcome only if the resume is still at version.
	ApplyReview(ctx context.Context, userID, id, version int64, content map[string]any, score int) (Resume, error)
	Delete(ctx context.Context, userID, id int64) error
}
