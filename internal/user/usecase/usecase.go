package usecase

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/solestep/solestep-api/internal/apperr"
	"github.com/solestep/solestep-api/internal/auth"
	"github.com/solestep/solestep-api/internal/model"
	"github.com/solestep/solestep-api/internal/user/repository"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthResult is returned by Register and Login: a signed token plus the
// minimal profile the frontend needs.
type AuthResult struct {
	Token string          `json:"token"`
	User  *model.AuthUser `json:"user"`
}

type UseCase interface {
	Register(ctx context.Context, input *model.RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input *model.LoginInput) (*AuthResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userUseCase struct {
	repo   repository.Repository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

func NewUserUseCase(repo repository.Repository, jwt *auth.JWTManager, logger *zap.Logger) UseCase {
	return &userUseCase{repo: repo, jwt: jwt, logger: logger}
}

func (uc *userUseCase) Register(ctx context.Context, input *model.RegisterInput) (*AuthResult, error) {
	if input.Email == "" || input.Password == "" || input.FirstName == "" || input.LastName == "" || input.Role == "" {
		return nil, apperr.NewValidationError("All fields are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, apperr.NewValidationError("Invalid email format")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperr.NewValidationError("Password must be at least %d characters long", minPasswordLength)
	}
	if !input.Role.Valid() {
		return nil, apperr.NewValidationError("Invalid role")
	}

	existing, err := uc.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		uc.logger.Error("Failed to check user email", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, apperr.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.Create(ctx, user); err != nil {
		uc.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}

	return uc.authResult(user)
}

func (uc *userUseCase) Login(ctx context.Context, input *model.LoginInput) (*AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperr.NewValidationError("Email and password are required")
	}

	user, err := uc.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		uc.logger.Error("Failed to look up user", zap.Error(err))
		return nil, err
	}
	if user == nil || user.Status != model.StatusActive {
		return nil, apperr.NewUnauthorizedError("Invalid credentials or inactive user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperr.NewUnauthorizedError("Invalid credentials")
	}

	return uc.authResult(user)
}

func (uc *userUseCase) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListUsers returns every account except SUPER_ADMIN ones, which stay
// invisible to the user management screen.
func (uc *userUseCase) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := uc.repo.ListExcludingRole(ctx, model.RoleSuperAdmin)
	if err != nil {
		uc.logger.Error("Failed to list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.NewValidationError("invalid user id")
	}

	user, err := uc.repo.GetByID(ctx, uid)
	if err != nil {
		uc.logger.Error("Failed to get user", zap.Error(err))
		return err
	}
	if user == nil {
		return apperr.NewNotFoundError("User not found")
	}
	if user.Role == model.RoleSuperAdmin {
		return apperr.NewForbiddenError("Cannot delete SUPER_ADMIN users")
	}

	if err := uc.repo.Delete(ctx, uid); err != nil {
		uc.logger.Error("Failed to delete user", zap.Error(err))
		return err
	}
	return nil
}

func (uc *userUseCase) authResult(user *model.User) (*AuthResult, error) {
	token, err := uc.jwt.Generate(user.ID, user.Role)
	if err != nil {
		uc.logger.Error("Failed to sign token", zap.Error(err))
		return nil, err
	}
	return &AuthResult{
		Token: token,
		User: &model.AuthUser{
			UserID:    user.ID,
			FirstName: user.FirstName,
			Role:      user.Role,
		},
	}, nil
}
