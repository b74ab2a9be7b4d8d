package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, template, content, score, status, version, created_at, updated_at`

func (r *PGRepo) List(ctx context.Context, userID int64, filter ListFilter) ([]Resume, int, error) {
	status := string(filter.Status)

	const countQuery = `
SELECT count(*)
FROM resumes
WHERE user_id = $1 AND ($2 = '' OR status = $2)`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, userID, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count resumes: %w", err)
	}

	const query = `
SELECT id, user_id, title, template, score, status, version, created_at, updated_at
FROM resumes
WHERE user_id = $1 AND ($2 = '' OR status = $2)
ORDER BY updated_at DESC, id DESC
LIMIT $3 OFFSET $4`
	rows, err := r.DB.QueryContext(ctx, query, userID, status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var res Resume
		var st string
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.Title,
			&res.Template,
			&res.Score,
			&st,
			&res.Version,
			&res.CreatedAt,
			&res.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		res.Status = Status(st)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PGRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	content, err := EncodeContent(resume.Content)
	if err != nil {
		return Resume{}, fmt.Errorf("encode content: %w", err)
	}
	query := `
INSERT INTO resumes (user_id, title, template, content, score, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4::jsonb, $5, $6, 1, now(), now())
RETURNING ` + resumeColumns
	return scanResume(r.DB.QueryRowContext(ctx, query,
		resume.UserID,
		resume.Title,
		resume.Template,
		string(content),
		resume.Score,
		string(resume.Status),
	))
}

func (r *PGRepo) Get(ctx context.Context, userID, id int64) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2`
	return scanResume(r.DB.QueryRowContext(ctx, query, id, userID))
}

func (r *PGRepo) Update(ctx context.Context, resume Resume) (Resume, error) {
	content, err := EncodeContent(resume.Content)
	if err != nil {
		return Resume{}, fmt.Errorf("encode content: %w", err)
	}
	query := `
UPDATE resumes
SET title = $1, template = $2, content = $3::jsonb, status = $4, version = version + 1, updated_at = now()
WHERE id = $5 AND user_id = $6
RETURNING ` + resumeColumns
	return scanResume(r.DB.QueryRowContext(ctx, query,
		resume.Title,
		resume.Template,
		string(content),
		string(resume.Status),
		resume.ID,
		resume.UserID,
	))
}

func (r *PGRepo) ApplyReview(ctx context.Context, userID, id, version int64, content map[string]any, score int) (Resume, error) {
	raw, err := EncodeContent(content)
	if err != nil {
		return Resume{}, fmt.Errorf("encode content: %w", err)
	}
	query := `
UPDATE resumes
SET content = $1::jsonb, score = $2, status = $3, version = version + 1, updated_at = now()
WHERE id = $4 AND user_id = $5 AND version = $6
RETURNING ` + resumeColumns
	res, err := scanResume(r.DB.QueryRowContext(ctx, query,
		string(raw),
		score,
		string(StatusCompleted),
		id,
		userID,
		version,
	))
	if errors.Is(err, ErrNotFound) {
		return Resume{}, ErrConflict
	}
	return res, err
}

func (r *PGRepo) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResume(row *sql.Row) (Resume, error) {
	var res Resume
	var content []byte
	var status string
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Title,
		&res.Template,
		&content,
		&res.Score,
		&status,
		&res.Version,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	res.Status = Status(status)
	res.Content, err = DecodeContent(content)
	if err != nil {
		return Resume{}, fmt.Errorf("decode content: %w", err)
	}
	return res, nil
}
