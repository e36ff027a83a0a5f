package services

import (
	"context"
	"fmt"

	"github.com/eventlane/auth-service/internal/models"
	"go.uber.org/zap"
)

// AdminAccountRepository is the interface that wraps methods for account
// lifecycle data access
type AdminAccountRepository interface {
	// Method GetByID retrieves an account by ID.
	//
	// If no account with such ID exists, nil is returned with a nil error.
	GetByID(ctx context.Context, id string) (*models.Account, error)
	// Method GetAll retrieves a paginated list of accounts with optional role and search filters.
	//
	// "page" parameter is used for pagination (default: 1).
	// "count" parameter is used for page size (default: 20).
	// "role" parameter is optional filter by role.
	// "search" parameter is optional search in email.
	GetAll(ctx context.Context, page, count int, role *models.Role, search string) ([]models.Account, error)
	// Method CountAdmins counts admin accounts, excluding the given id when non-empty.
	CountAdmins(ctx context.Context, excludingID string) (int, error)
	// Method UpdateRoleGuarded applies a role change unless it would demote the
	// last remaining admin. Returns whether a row was updated.
	UpdateRoleGuarded(ctx context.Context, id string, role models.Role) (bool, error)
	// Method UpdateStatus sets an account's status. Returns whether a row was updated.
	UpdateStatus(ctx context.Context, id string, status models.Status) (bool, error)
	// Method DeleteGuarded deletes an account unless it is the last remaining
	// admin. Returns whether a row was deleted.
	DeleteGuarded(ctx context.Context, id string) (bool, error)
}

// adminService implements the account lifecycle operations available to admins
type adminService struct {
	accountRepo AdminAccountRepository
	logger      *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(accountRepo AdminAccountRepository, logger *zap.Logger) *adminService {
	return &adminService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// ListAccounts retrieves a paginated list of accounts with optional role and
// search filters
func (s *adminService) ListAccounts(ctx context.Context, page, count int, role *models.Role, search string) ([]models.AccountListItem, error) {
	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = 20
	}

	accounts, err := s.accountRepo.GetAll(ctx, page, count, role, search)
	if err != nil {
		return nil, err
	}

	items := make([]models.AccountListItem, len(accounts))
	for i, account := range accounts {
		items[i] = models.AccountListItem{
			ID:        account.ID,
			Email:     account.Email,
			Role:      account.Role,
			Status:    account.Status,
			CreatedAt: account.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}

	return items, nil
}

// ChangeRole sets the target account's role. Promotion to ADMIN is always
// allowed; demoting an admin requires at least one other admin to remain.
// The guard itself runs as a single conditional statement in the store, so
// concurrent demotions cannot leave the system without an admin.
func (s *adminService) ChangeRole(ctx context.Context, targetID string, newRole models.Role) error {
	target, err := s.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	if target.Role == newRole {
		return nil
	}

	applied, err := s.accountRepo.UpdateRoleGuarded(ctx, targetID, newRole)
	if err != nil {
		return err
	}
	if !applied {
		if target.Role == models.RoleAdmin && newRole != models.RoleAdmin {
			return ErrLastAdminDemotion
		}
		// Target disappeared between the read and the update
		return ErrNotFound
	}

	s.logger.Info("account role changed",
		zap.String("account_id", targetID),
		zap.String("old_role", string(target.Role)),
		zap.String("new_role", string(newRole)),
	)
	return nil
}

// ChangeStatus sets the target account's status. No invariant guards this
// field; a suspended admin still counts toward the admin invariant and can
// still authenticate.
func (s *adminService) ChangeStatus(ctx context.Context, targetID string, status models.Status) error {
	target, err := s.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	if target.Status == status {
		return nil
	}

	applied, err := s.accountRepo.UpdateStatus(ctx, targetID, status)
	if err != nil {
		return err
	}
	if !applied {
		return ErrNotFound
	}

	s.logger.Info("account status changed",
		zap.String("account_id", targetID),
		zap.String("status", string(status)),
	)
	return nil
}

// DeleteAccount deletes the target account. The checks run in a fixed order:
// self-deletion first, then existence, then the last-admin guard. A caller
// deleting themself gets the self-deletion error even when they are also the
// last admin.
func (s *adminService) DeleteAccount(ctx context.Context, targetID, callerID string) error {
	if targetID == callerID {
		return ErrSelfDeletion
	}

	target, err := s.accountRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	applied, err := s.accountRepo.DeleteGuarded(ctx, targetID)
	if err != nil {
		return err
	}
	if !applied {
		if target.Role == models.RoleAdmin {
			return ErrLastAdminDeletion
		}
		return ErrNotFound
	}

	s.logger.Info("account deleted",
		zap.String("account_id", targetID),
		zap.String("deleted_by", callerID),
	)
	return nil
}

// AdminCount reports how many admin accounts exist, for the admin console
// overview
func (s *adminService) AdminCount(ctx context.Context) (int, error) {
	count, err := s.accountRepo.CountAdmins(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
