package promo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/database"
)

var ErrNotFound = errors.New("promotion not found")

type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Promotion, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const promoColumns = `id, owner_id, product_id, scheme, COALESCE(description,''),
	scheme_percentage::text, start_date, end_date, created_at, updated_at`

func scanPromotion(row pgx.Row) (*Promotion, error) {
	var p Promotion
	var pct string
	if err := row.Scan(&p.ID, &p.OwnerID, &p.ProductID, &p.Scheme, &p.Description,
		&pct, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(pct)
	if err != nil {
		return nil, err
	}
	p.Percentage = d
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO promotions (id, owner_id, product_id, scheme, description,
			scheme_percentage, start_date, end_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
	`, p.ID, p.OwnerID, p.ProductID, p.Scheme, p.Description,
		p.Percentage.String(), p.StartDate, p.EndDate)
	return err
}

func (r *PGRepo) Update(ctx context.Context, p *Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE promotions
		SET product_id = $3,
		    scheme = $4,
		    description = $5,
		    scheme_percentage = $6,
		    start_date = $7,
		    end_date = $8,
		    updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`, p.ID, p.OwnerID, p.ProductID, p.Scheme, p.Description,
		p.Percentage.String(), p.StartDate, p.EndDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+promoColumns+` FROM promotions WHERE owner_id=$1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// ResolveActive returns the promotion in effect for a product at the given
// time, or nil when none applies. At most one promotion is honored per
// product; with overlapping windows the earliest-starting row wins.
func ResolveActive(ctx context.Context, q database.Querier, productID string, at time.Time) (*Promotion, error) {
	p, err := scanPromotion(q.QueryRow(ctx, `
		SELECT `+promoColumns+`
		FROM promotions
		WHERE product_id = $1
		  AND (start_date IS NULL OR start_date <= $2)
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY start_date ASC NULLS FIRST, id
		LIMIT 1
	`, productID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}
