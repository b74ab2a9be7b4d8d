package resumes

import "errors"

var (
	ErrNotFound    = errors.New("resume not found")
	ErrInvalidPage = errors.New("Invalid page.")
	// ErrConflict means the resume changed between read and write.
	ErrConflict = errors.New("resume was modified by another request")
)
