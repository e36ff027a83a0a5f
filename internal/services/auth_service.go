package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eventlane/auth-service/internal/models"
	"github.com/eventlane/auth-service/libs/auth/password"
	"github.com/eventlane/auth-service/libs/auth/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountRepository is the interface that wraps methods for accounts table data access
type AccountRepository interface {
	// Method Create inserts a new account into the database.
	//
	// "account" parameter is used to create a new account.
	//
	// If some error occurs during account creation, the error will be returned.
	Create(ctx context.Context, account *models.Account) error
	// Method GetByID retrieves an account by ID.
	//
	// "id" parameter is used to retrieve an account by ID.
	//
	// If no account with such ID exists, nil is returned with a nil error.
	GetByID(ctx context.Context, id string) (*models.Account, error)
	// Method GetByEmail retrieves an account by email.
	//
	// "email" parameter is used to retrieve an account by email.
	//
	// If no account with such email exists, nil is returned with a nil error.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// Method ExistsByEmail checks if an account with such email exists.
	//
	// "email" parameter is used to check if an account with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// bootstrapAccountID is the synthetic subject id carried by bootstrap admin
// tokens. It never exists in the accounts table, keeping the bootstrap
// identity invisible to the lifecycle manager.
const bootstrapAccountID = "bootstrap-admin"

// bootstrapIdentity is the distinguished identity accepted at login without a
// store lookup. It is disabled when the email is empty.
type bootstrapIdentity struct {
	email    string
	password string
}

func (b bootstrapIdentity) enabled() bool {
	return b.email != ""
}

func (b bootstrapIdentity) matches(email, plaintext string) bool {
	return b.enabled() && email == b.email && plaintext == b.password
}

func (b bootstrapIdentity) identity() service.Identity {
	return service.Identity{
		ID:    bootstrapAccountID,
		Email: b.email,
		Role:  string(models.RoleAdmin),
	}
}

// authService implements registration, login, and identity hydration
type authService struct {
	accountRepo    AccountRepository
	tokenGenerator *service.TokenGenerator
	bootstrap      bootstrapIdentity
	logger         *zap.Logger
}

// NewAuthService creates a new auth service. bootstrapEmail may be empty,
// which disables the bootstrap admin identity.
func NewAuthService(
	accountRepo AccountRepository,
	tokenGenerator *service.TokenGenerator,
	logger *zap.Logger,
	bootstrapEmail string,
	bootstrapPassword string,
) *authService {
	return &authService{
		accountRepo:    accountRepo,
		tokenGenerator: tokenGenerator,
		bootstrap:      bootstrapIdentity{email: bootstrapEmail, password: bootstrapPassword},
		logger:         logger,
	}
}

// Register creates a new account and returns a session token.
// Self-signup is restricted to the USER and ORGANIZER roles.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (string, error) {
	email := strings.TrimSpace(req.Email)

	role := models.RoleUser
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil || parsed == models.RoleAdmin {
			return "", ErrInvalidRole
		}
		role = parsed
	}

	exists, err := s.accountRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", ErrEmailTaken
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    time.Now(),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return "", err
	}

	return s.issueToken(account)
}

// Login authenticates an account and returns a session token. The bootstrap
// identity is checked first and bypasses the store entirely.
//
// Suspended accounts can still log in; status is administrative metadata and
// does not gate authentication.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	email := strings.TrimSpace(req.Email)

	if s.bootstrap.matches(email, req.Password) {
		return s.tokenGenerator.Generate(s.bootstrap.identity())
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", ErrInvalidCredentials
	}

	if !password.Verify(req.Password, account.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(account)
}

// GetByID hydrates a fresh identity for the middleware chain. The bootstrap
// subject is resolved without a store round-trip; every other subject is
// re-read from the accounts table.
func (s *authService) GetByID(ctx context.Context, id string) (*service.Identity, error) {
	if s.bootstrap.enabled() && id == bootstrapAccountID {
		identity := s.bootstrap.identity()
		return &identity, nil
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	return &service.Identity{
		ID:    account.ID,
		Email: account.Email,
		Role:  string(account.Role),
	}, nil
}

// issueToken generates a session token for the account
func (s *authService) issueToken(account *models.Account) (string, error) {
	token, err := s.tokenGenerator.Generate(service.Identity{
		ID:    account.ID,
		Email: account.Email,
		Role:  string(account.Role),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}
