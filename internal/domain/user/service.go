package user

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/funtube/funtube-server/internal/utils/idgen"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByLogin matches either the username or the lowercased email.
	// Returns (nil, nil) when no account matches.
	FindByLogin(ctx context.Context, loginID string) (*User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// TokenSigner issues bearer tokens for an authenticated user.
type TokenSigner interface {
	Sign(userID string) (string, error)
}

// Credentials is an issued token alongside the account it belongs to.
type Credentials struct {
	Token string
	User  *User
}

// Service handles registration, login and identity resolution.
type Service struct {
	repo   Repository
	tokens TokenSigner
	log    zerolog.Logger
}

func NewService(repo Repository, tokens TokenSigner, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		log:    log.With().Str("component", "user-service").Logger(),
	}
}

// Register creates a new account and returns it with a signed token.
// A username or email collision fails with a conflict error.
func (s *Service) Register(ctx context.Context, username, email, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistration(ctx, username, email, password); err != nil {
		return nil, err
	}

	for _, loginID := range []string{username, email} {
		existing, err := s.repo.FindByLogin(ctx, loginID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "user already exists", nil)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to hash password", err)
	}

	id, err := idgen.NewUserID()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate user id", err)
	}

	account := &User{
		ID:                 id,
		Username:           username,
		Email:              email,
		PasswordHash:       string(hash),
		Role:               RoleUser,
		ChannelDescription: DefaultChannelDescription,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return s.issue(ctx, account)
}

// Login authenticates by username-or-email plus password.
func (s *Service) Login(ctx context.Context, loginID, password string) (*Credentials, error) {
	loginID = strings.TrimSpace(loginID)
	if loginID == "" || password == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "loginId and password are required", nil)
	}

	account, err := s.repo.FindByLogin(ctx, loginID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, invalidCredentials(ctx)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials(ctx)
	}

	return s.issue(ctx, account)
}

// GetByID resolves an account by its identifier.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// EnsureAdmin creates the admin account if it is missing. Used at startup.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.repo.FindByLogin(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, err := idgen.NewUserID()
	if err != nil {
		return err
	}

	admin := &User{
		ID:                 id,
		Username:           username,
		Email:              email,
		PasswordHash:       string(hash),
		Role:               RoleAdmin,
		ChannelDescription: "Official admin channel",
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("seeded default admin user")
	return nil
}

func (s *Service) issue(ctx context.Context, account *User) (*Credentials, error) {
	token, err := s.tokens.Sign(account.ID)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to sign token", err)
	}
	return &Credentials{Token: token, User: account}, nil
}

func invalidCredentials(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized, "invalid credentials", nil)
}
