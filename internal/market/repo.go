// Package market manages agens, the physical market hubs that merchants and
// drivers are attached to.
package market

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("agen not found")

type Agen struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Open      bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, a *Agen) error
	GetByID(ctx context.Context, id string) (*Agen, error)
	List(ctx context.Context) ([]Agen, error)
	Update(ctx context.Context, a *Agen) error
	SetOpen(ctx context.Context, id string, open bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, a *Agen) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO agens (id, name, location, is_open, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
	`, a.ID, a.Name, a.Location, a.Open)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Agen, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a Agen
	err := r.db.QueryRow(ctx, `
		SELECT id, name, location, is_open, created_at, updated_at
		FROM agens WHERE id=$1
	`, id).Scan(&a.ID, &a.Name, &a.Location, &a.Open, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Agen, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, location, is_open, created_at, updated_at
		FROM agens ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Agen
	for rows.Next() {
		var a Agen
		if err := rows.Scan(&a.ID, &a.Name, &a.Location, &a.Open, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, a *Agen) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE agens
		SET name = COALESCE(NULLIF($2,''), name),
		    location = COALESCE(NULLIF($3,''), location),
		    is_open = $4,
		    updated_at = NOW()
		WHERE id = $1
	`, a.ID, a.Name, a.Location, a.Open)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetOpen(ctx context.Context, id string, open bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE agens SET is_open=$2, updated_at=NOW() WHERE id=$1
	`, id, open)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM agens WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
