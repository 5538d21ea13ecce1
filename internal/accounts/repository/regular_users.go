package repository

import (
	"context"
	"errors"

	"ticketdesk_backend/internal/accounts"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const regularUserColumns = `
	id, first_name, last_name, email, phone_number, position,
	username, password_hash, company_name, created_by, status,
	is_customer_manager, created_at
`

// managerLookupQuery matches an active customer manager by username or email.
const managerLookupQuery = `
	SELECT EXISTS (
		SELECT 1 FROM regular_users
		WHERE (username = $1 OR email = $1)
		  AND is_customer_manager
		  AND status = 'active'
	)
`

func scanRegularUser(row pgx.Row) (accounts.RegularUserRecord, error) {
	var u accounts.RegularUserRecord
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PhoneNumber,
		&u.Position,
		&u.Username,
		&u.PasswordHash,
		&u.CompanyName,
		&u.CreatedBy,
		&u.Status,
		&u.IsCustomerManager,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return accounts.RegularUserRecord{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) CreateRegularUser(ctx context.Context, u accounts.RegularUserRecord) (accounts.RegularUserRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO regular_users (
			first_name, last_name, email, phone_number, position,
			username, password_hash, company_name, created_by, status,
			is_customer_manager
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+regularUserColumns,
		u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.Position,
		u.Username, u.PasswordHash, u.CompanyName, u.CreatedBy, u.Status,
		u.IsCustomerManager,
	)

	created, err := scanRegularUser(row)
	if err != nil {
		return accounts.RegularUserRecord{}, mapUniqueViolation(err)
	}
	return created, nil
}

func (r *Repository) GetRegularUserByID(ctx context.Context, id uuid.UUID) (accounts.RegularUserRecord, error) {
	return scanRegularUser(r.pool.QueryRow(ctx, `
		SELECT `+regularUserColumns+` FROM regular_users WHERE id = $1
	`, id))
}

// GetRegularUserByKey resolves a regular user by username or email.
func (r *Repository) GetRegularUserByKey(ctx context.Context, key string) (accounts.RegularUserRecord, error) {
	return scanRegularUser(r.pool.QueryRow(ctx, `
		SELECT `+regularUserColumns+` FROM regular_users WHERE username = $1 OR email = $1
	`, key))
}

func (r *Repository) ListRegularUsersByCompany(ctx context.Context, companyName string) ([]accounts.RegularUserRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+regularUserColumns+` FROM regular_users
		WHERE company_name = $1
		ORDER BY created_at DESC
	`, companyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []accounts.RegularUserRecord
	for rows.Next() {
		u, err := scanRegularUser(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

func (r *Repository) SetRegularUserStatus(ctx context.Context, id uuid.UUID, status accounts.RegularUserStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE regular_users SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteRegularUser(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM regular_users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IsCustomerManager reports whether the key identifies an active customer manager.
func (r *Repository) IsCustomerManager(ctx context.Context, key string) (bool, error) {
	var isManager bool
	err := r.pool.QueryRow(ctx, managerLookupQuery, key).Scan(&isManager)
	return isManager, err
}
