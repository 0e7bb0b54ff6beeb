package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/auth"
	"github.com/yigit/eventsphere/internal/pkg/validation"
)

// AuthService handles signup and login
type AuthService struct {
	userRepo          repositories.IUserRepository
	jwtService        *auth.JWTService
	institutionDomain string
	now               func() time.Time
	logger            zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, institutionDomain string, now func() time.Time, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		jwtService:        jwtService,
		institutionDomain: institutionDomain,
		now:               now,
		logger:            logger,
	}
}

// Signup creates an account and signs the new user in. Students must use an
// institution email address.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsEmail(email) {
		return nil, apperrors.NewValidationError("email must be a valid email address")
	}
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError("role must be admin or student")
	}
	if !validation.NewStringValidation(req.Name).WithMinLength(validation.NameMinLength).WithMaxLength(validation.NameMaxLength).Validate() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("name must be between %d and %d characters", validation.NameMinLength, validation.NameMaxLength))
	}
	if len(req.Password) < validation.PasswordMinLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", validation.PasswordMinLength))
	}
	if req.Role == models.RoleStudent && !validation.HasInstitutionDomain(email, s.institutionDomain) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidEmail, fmt.Sprintf("student email must end with %s", s.institutionDomain))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if req.Role == models.RoleStudent {
		user.Department = strings.TrimSpace(req.Department)
		user.Year = strings.TrimSpace(req.Year)
		user.RollNumber = strings.TrimSpace(req.RollNumber)
		user.Course = strings.TrimSpace(req.Course)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User signed up")
	return s.issue(user)
}

// Login checks the credentials and returns a session token. Accounts without
// a stored hash accept any non-empty password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if repositories.IsNotFound(err) {
		return nil, apperrors.NewCustomError(apperrors.ErrProfileNotFound, "no account exists for this email")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.PasswordHash != "" && !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn().Str("userID", user.ID).Msg("Login with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User:        user.Public(),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
