package repository

import (
	"context"
	"errors"

	"ticketdesk_backend/internal/accounts"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")
var ErrDuplicate = errors.New("duplicate value")

const uniqueViolationCode = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `
	id, company_name, address, phone_number, customer_since,
	first_name, last_name, mobile_number, login, position,
	username, password_hash, created_at
`

func scanCustomer(row pgx.Row) (accounts.CustomerRecord, error) {
	var c accounts.CustomerRecord
	err := row.Scan(
		&c.ID,
		&c.CompanyName,
		&c.Address,
		&c.PhoneNumber,
		&c.CustomerSince,
		&c.FirstName,
		&c.LastName,
		&c.MobileNumber,
		&c.Login,
		&c.Position,
		&c.Username,
		&c.PasswordHash,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return accounts.CustomerRecord{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) CreateCustomer(ctx context.Context, c accounts.CustomerRecord) (accounts.CustomerRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (
			company_name, address, phone_number, customer_since,
			first_name, last_name, mobile_number, login, position,
			username, password_hash
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+customerColumns,
		c.CompanyName, c.Address, c.PhoneNumber, c.CustomerSince,
		c.FirstName, c.LastName, c.MobileNumber, c.Login, c.Position,
		c.Username, c.PasswordHash,
	)

	created, err := scanCustomer(row)
	if err != nil {
		return accounts.CustomerRecord{}, mapUniqueViolation(err)
	}
	return created, nil
}

func (r *Repository) GetCustomerByID(ctx context.Context, id uuid.UUID) (accounts.CustomerRecord, error) {
	return scanCustomer(r.pool.QueryRow(ctx, `
		SELECT `+customerColumns+` FROM customers WHERE id = $1
	`, id))
}

// GetCustomerByKey resolves a customer by username or login.
func (r *Repository) GetCustomerByKey(ctx context.Context, key string) (accounts.CustomerRecord, error) {
	return scanCustomer(r.pool.QueryRow(ctx, `
		SELECT `+customerColumns+` FROM customers WHERE username = $1 OR login = $1
	`, key))
}

func (r *Repository) CustomerCompanyExists(ctx context.Context, companyName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM customers WHERE company_name = $1)
	`, companyName).Scan(&exists)
	return exists, err
}

func (r *Repository) ListCustomers(ctx context.Context) ([]accounts.CustomerRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []accounts.CustomerRecord
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (r *Repository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicate
	}
	return err
}
