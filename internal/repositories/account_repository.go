package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eventlane/auth-service/internal/models"
	"go.uber.org/zap"
)

// accountRepository implements account data access over the accounts table
type accountRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB, logger *zap.Logger) *accountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new account into the database
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, role, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create account", zap.Error(err))
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID. Returns nil when no such account exists.
func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, role, status, created_at
		FROM accounts
		WHERE id = ?
	`

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get account by id", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

// GetByEmail retrieves an account by email. Returns nil when no such account exists.
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, role, status, created_at
		FROM accounts
		WHERE email = ?
	`

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Status,
		&account.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get account by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

// ExistsByEmail checks if an account exists with the given email
func (r *accountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM accounts WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// GetAll retrieves a paginated list of accounts with optional role and search filters
func (r *accountRepository) GetAll(ctx context.Context, page, count int, role *models.Role, search string) ([]models.Account, error) {
	// Build WHERE clause
	var whereParts []string
	var args []any

	if role != nil {
		whereParts = append(whereParts, "role = ?")
		args = append(args, *role)
	}
	if search != "" {
		whereParts = append(whereParts, "email LIKE ?")
		args = append(args, "%"+search+"%")
	}

	whereClause := ""
	if len(whereParts) > 0 {
		whereClause = "WHERE " + whereParts[0]
		for _, part := range whereParts[1:] {
			whereClause += " AND " + part
		}
	}

	// Calculate offset
	offset := (page - 1) * count

	query := fmt.Sprintf(`
		SELECT id, email, password_hash, role, status, created_at
		FROM accounts
		%s
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, whereClause)

	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query accounts", zap.Error(err))
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID,
			&account.Email,
			&account.PasswordHash,
			&account.Role,
			&account.Status,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// CountAdmins counts admin accounts, excluding the given id when non-empty
func (r *accountRepository) CountAdmins(ctx context.Context, excludingID string) (int, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE role = 'ADMIN' AND id <> ?`

	var count int
	err := r.db.QueryRowContext(ctx, query, excludingID).Scan(&count)
	if err != nil {
		r.logger.Error("failed to count admins", zap.Error(err))
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}

// UpdateRoleGuarded sets an account's role in a single conditional statement.
// The statement refuses to demote the last remaining admin: it only applies
// when the new role is ADMIN, the target is not currently an admin, or at
// least one other admin exists. The admin count runs inside the same
// statement, so concurrent demotions cannot both slip past the guard.
// Returns whether a row was updated.
func (r *accountRepository) UpdateRoleGuarded(ctx context.Context, id string, role models.Role) (bool, error) {
	// MySQL rejects a same-table subquery in UPDATE unless it is wrapped in a
	// derived table.
	query := `
		UPDATE accounts
		SET role = ?
		WHERE id = ?
		  AND (? = 'ADMIN'
		       OR role <> 'ADMIN'
		       OR (SELECT c.cnt FROM (SELECT COUNT(*) AS cnt FROM accounts WHERE role = 'ADMIN' AND id <> ?) c) > 0)
	`

	result, err := r.db.ExecContext(ctx, query, role, id, role, id)
	if err != nil {
		r.logger.Error("failed to update account role", zap.Error(err), zap.String("id", id))
		return false, fmt.Errorf("failed to update account role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// UpdateStatus sets an account's status. Returns whether a row was updated.
func (r *accountRepository) UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error) {
	query := `UPDATE accounts SET status = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("failed to update account status", zap.Error(err), zap.String("id", id))
		return false, fmt.Errorf("failed to update account status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteGuarded deletes an account in a single conditional statement that
// refuses to remove the last remaining admin. Returns whether a row was
// deleted.
func (r *accountRepository) DeleteGuarded(ctx context.Context, id string) (bool, error) {
	query := `
		DELETE FROM accounts
		WHERE id = ?
		  AND (role <> 'ADMIN'
		       OR (SELECT c.cnt FROM (SELECT COUNT(*) AS cnt FROM accounts WHERE role = 'ADMIN' AND id <> ?) c) > 0)
	`

	result, err := r.db.ExecContext(ctx, query, id, id)
	if err != nil {
		r.logger.Error("failed to delete account", zap.Error(err), zap.String("id", id))
		return false, fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
