package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"serviceease/internal/auth"
	"serviceease/internal/domain"
	"serviceease/internal/logger"
	userrepo "serviceease/internal/repository/user"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles registration, login and user administration.
type Service struct {
	repo        userrepo.Repository
	guard       *auth.Guard
	roles       *auth.Resolver
	tokens      *tokenManager
	passwordMin int
	log         *logger.Logger
}

func New(repo userrepo.Repository, guard *auth.Guard, roles *auth.Resolver, secret string, accessTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:        repo,
		guard:       guard,
		roles:       roles,
		tokens:      newTokenManager(secret, accessTTL),
		passwordMin: 8,
		log:         log,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a user with an empty profile and Client membership.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "a valid email address is required")
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.NewValidationError("username", "username is required")
	}
	if err := validatePassword(in.Password, s.passwordMin); err != nil {
		return nil, domain.NewValidationError("password", err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Create(ctx, userrepo.CreateUserInput{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Login validates credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !u.Active {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID, u.Email, u.Username)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Authenticate resolves a bearer token to the calling principal.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	c, err := s.tokens.Validate(token)
	if err != nil {
		return auth.Principal{}, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, c.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return auth.Principal{}, ErrInvalidToken
		}
		return auth.Principal{}, err
	}
	if !u.Active {
		return auth.Principal{}, ErrInvalidToken
	}
	return auth.Principal{ID: u.ID, Email: u.Email, Username: u.Username}, nil
}

// ListUsers is restricted to admins.
func (s *Service) ListUsers(ctx context.Context, p auth.Principal) ([]domain.User, error) {
	admin, err := s.roles.IsAdmin(ctx, p)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, p auth.Principal, id string) (*domain.User, error) {
	if err := s.requireAccess(ctx, p, auth.UserResource{UserID: id}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateUserInput struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
}

func (s *Service) UpdateUser(ctx context.Context, p auth.Principal, id string, in UpdateUserInput) (*domain.User, error) {
	if err := s.requireAccess(ctx, p, auth.UserResource{UserID: id}); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.NewValidationError("email", "a valid email address is required")
		}
		in.Email = &email
	}
	return s.repo.Update(ctx, id, userrepo.UpdateUserInput{Email: in.Email, Username: in.Username})
}

func (s *Service) DeleteUser(ctx context.Context, p auth.Principal, id string) error {
	if err := s.requireAccess(ctx, p, auth.UserResource{UserID: id}); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetProfile(ctx context.Context, p auth.Principal, userID string) (*domain.Profile, error) {
	if err := s.requireAccess(ctx, p, auth.ProfileResource{OwnerID: userID}); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID)
}

type UpdateProfileInput struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	PictureURL  *string `json:"picture_url"`
	Bio         *string `json:"bio"`
	DateOfBirth *string `json:"date_of_birth"`
}

func (s *Service) UpdateProfile(ctx context.Context, p auth.Principal, userID string, in UpdateProfileInput) (*domain.Profile, error) {
	if err := s.requireAccess(ctx, p, auth.ProfileResource{OwnerID: userID}); err != nil {
		return nil, err
	}
	if in.DateOfBirth != nil {
		if _, err := time.Parse("2006-01-02", *in.DateOfBirth); err != nil {
			return nil, domain.NewValidationError("date_of_birth", "expected YYYY-MM-DD")
		}
	}
	return s.repo.UpdateProfile(ctx, userID, userrepo.UpdateProfileInput{
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		PictureURL:  in.PictureURL,
		Bio:         in.Bio,
		DateOfBirth: in.DateOfBirth,
	})
}

func (s *Service) DeleteProfile(ctx context.Context, p auth.Principal, userID string) error {
	if err := s.requireAccess(ctx, p, auth.ProfileResource{OwnerID: userID}); err != nil {
		return err
	}
	return s.repo.DeleteProfile(ctx, userID)
}

func (s *Service) requireAccess(ctx context.Context, p auth.Principal, res auth.Resource) error {
	ok, err := s.guard.CanAccess(ctx, p, res)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
