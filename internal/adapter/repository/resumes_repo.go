package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

const resumeColumns = `id, owner_id, title, template, content, public_id, created_at, updated_at`

// ResumesRepo stores resumes in Postgres. Content is kept as a single JSONB
// document so a save is one row write.
type ResumesRepo struct {
	pool *pgxpool.Pool
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

func (r *ResumesRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Resume, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ResumesRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
	return scanOne(row)
}

func (r *ResumesRepo) GetByPublicID(ctx context.Context, publicID string) (*domain.Resume, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE public_id = $1`, publicID)
	return scanOne(row)
}

func (r *ResumesRepo) Create(ctx context.Context, res *domain.Resume) error {
	contentB, err := json.Marshal(res.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO resumes (id, owner_id, title, template, content, public_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		res.ID, res.OwnerID, res.Title, res.Template, contentB, nullable(res.PublicID), res.CreatedAt, res.UpdatedAt)
	return mapErr(err)
}

func (r *ResumesRepo) Update(ctx context.Context, res *domain.Resume) error {
	contentB, err := json.Marshal(res.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE resumes SET title = $2, template = $3, content = $4, updated_at = $5 WHERE id = $1`,
		res.ID, res.Title, res.Template, contentB, res.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ResumesRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ResumesRepo) SetPublicID(ctx context.Context, id uuid.UUID, publicID string, now time.Time) (*domain.Resume, error) {
	row := r.pool.QueryRow(ctx, `UPDATE resumes SET public_id = $2, updated_at = $3
		WHERE id = $1 AND public_id IS NULL
		RETURNING `+resumeColumns, id, publicID, now)
	res, err := scanOne(row)
	if errors.Is(err, domain.ErrNotFound) {
		// either the row is gone or someone else minted first
		return r.GetByID(ctx, id)
	}
	return res, mapErr(err)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanResume(s scanner) (*domain.Resume, error) {
	var (
		res      domain.Resume
		contentB []byte
		publicID *string
	)
	if err := s.Scan(&res.ID, &res.OwnerID, &res.Title, &res.Template, &contentB, &publicID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	if len(contentB) > 0 {
		var c model.Content
		if err := json.Unmarshal(contentB, &c); err != nil {
			return nil, fmt.Errorf("decode content of %s: %w", res.ID, err)
		}
		res.Content = c.Normalize()
	} else {
		res.Content = model.NewEmptyContent()
	}
	if publicID != nil {
		res.PublicID = *publicID
	}
	return &res, nil
}

func scanOne(row pgx.Row) (*domain.Resume, error) {
	res, err := scanResume(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return res, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrConflict
	}
	return err
}
