package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pasarkita/pasar-backend/internal/database"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrAlreadyExist        = errors.New("user already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidPin          = errors.New("invalid pin")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const userColumns = `id, username, fullname, email, COALESCE(description,''),
	password_hash, pin_hash, balance::text, phone_number, agen_id,
	COALESCE(location,''), role, COALESCE(image_url,''), created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var balance string
	if err := row.Scan(&u.ID, &u.Username, &u.Fullname, &u.Email, &u.Description,
		&u.PasswordHash, &u.PinHash, &balance, &u.PhoneNumber, &u.AgenID,
		&u.Location, &u.Role, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	b, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, err
	}
	u.Balance = b
	return &u, nil
}

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, fullname, email, description, password_hash,
			pin_hash, balance, phone_number, agen_id, location, role, image_url,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
	`, u.ID, u.Username, u.Fullname, u.Email, u.Description, u.PasswordHash,
		u.PinHash, u.Balance.StringFixed(2), u.PhoneNumber, u.AgenID, u.Location,
		u.Role, u.ImageURL)
	if err != nil {
		// UNIQUE on email
		return ErrAlreadyExist
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (r *PGRepo) ListByRole(ctx context.Context, role Role) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY created_at DESC
	`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// GetRole reads just the role column; used inside transactions where the
// full profile is not needed.
func GetRole(ctx context.Context, q database.Querier, userID string) (Role, error) {
	var role Role
	if err := q.QueryRow(ctx, `SELECT role FROM users WHERE id=$1`, userID).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return role, nil
}

// GetLocation reads a user's stored "lat,lng" location.
func GetLocation(ctx context.Context, q database.Querier, userID string) (string, error) {
	var loc string
	if err := q.QueryRow(ctx, `SELECT COALESCE(location,'') FROM users WHERE id=$1`, userID).Scan(&loc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return loc, nil
}

// Locked is the slice of a user row needed while its balance is held
// under FOR UPDATE.
type Locked struct {
	ID      string
	Role    Role
	PinHash string
	Balance decimal.Decimal
}

// LockBalances locks the given user rows (ordered by id to keep lock
// acquisition deterministic across concurrent settlements) and returns them
// keyed by id. Missing ids yield ErrNotFound.
func LockBalances(ctx context.Context, q database.Querier, ids []string) (map[string]*Locked, error) {
	rows, err := q.Query(ctx, `
		SELECT id, role, pin_hash, balance::text
		FROM users WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*Locked, len(ids))
	for rows.Next() {
		var l Locked
		var balance string
		if err := rows.Scan(&l.ID, &l.Role, &l.PinHash, &balance); err != nil {
			return nil, err
		}
		if l.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, err
		}
		out[l.ID] = &l
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, ErrNotFound
		}
	}
	return out, nil
}

// Credit adds amount to a user's balance. Callers hold the row lock.
func Credit(ctx context.Context, ex database.Executor, userID string, amount decimal.Decimal) error {
	tag, err := ex.Exec(ctx, `
		UPDATE users SET balance = balance + $1, updated_at = NOW() WHERE id = $2
	`, amount.StringFixed(2), userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Debit subtracts amount from a user's balance, refusing to push it
// negative.
func Debit(ctx context.Context, ex database.Executor, userID string, amount decimal.Decimal) error {
	tag, err := ex.Exec(ctx, `
		UPDATE users SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
	`, amount.StringFixed(2), userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}
	return nil
}
