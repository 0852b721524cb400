package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/apperr"
	"github.com/solestep/solestep-api/internal/auth"
	"github.com/solestep/solestep-api/internal/model"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListExcludingRole(_ context.Context, role model.Role) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.Role != role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func newTestUseCase(repo *fakeUserRepo) UseCase {
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	return NewUserUseCase(repo, jwt, zap.NewNop())
}

func registerInput() *model.RegisterInput {
	return &model.RegisterInput{
		Email:     "cashier@example.com",
		Password:  "s3cret-pass",
		FirstName: "Mia",
		LastName:  "Santos",
		Role:      model.RoleCashier,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo)

	result, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Mia", result.User.FirstName)
	assert.Equal(t, model.RoleCashier, result.User.Role)

	stored := repo.users[result.User.UserID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash, "password must be hashed")

	login, err := uc.Login(context.Background(), &model.LoginInput{
		Email:    "cashier@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, result.User.UserID, login.User.UserID)
}

func TestRegisterValidation(t *testing.T) {
	uc := newTestUseCase(newFakeUserRepo())

	tests := []struct {
		name   string
		mutate func(*model.RegisterInput)
	}{
		{"missing email", func(in *model.RegisterInput) { in.Email = "" }},
		{"missing password", func(in *model.RegisterInput) { in.Password = "" }},
		{"missing first name", func(in *model.RegisterInput) { in.FirstName = "" }},
		{"missing role", func(in *model.RegisterInput) { in.Role = "" }},
		{"bad email format", func(in *model.RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *model.RegisterInput) { in.Password = "abc" }},
		{"unknown role", func(in *model.RegisterInput) { in.Role = "INTERN" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := registerInput()
			tt.mutate(input)
			_, err := uc.Register(context.Background(), input)
			assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc := newTestUseCase(newFakeUserRepo())

	_, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), registerInput())
	assert.True(t, apperr.IsConflict(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo)
	result, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), &model.LoginInput{
		Email:    "cashier@example.com",
		Password: "wrong-pass",
	})
	assert.True(t, apperr.IsUnauthorized(err))

	_, err = uc.Login(context.Background(), &model.LoginInput{
		Email:    "nobody@example.com",
		Password: "s3cret-pass",
	})
	assert.True(t, apperr.IsUnauthorized(err))

	repo.users[result.User.UserID].Status = model.StatusInactive
	_, err = uc.Login(context.Background(), &model.LoginInput{
		Email:    "cashier@example.com",
		Password: "s3cret-pass",
	})
	assert.True(t, apperr.IsUnauthorized(err), "inactive accounts cannot log in")
}

func TestListUsersExcludesSuperAdmin(t *testing.T) {
	uc := newTestUseCase(newFakeUserRepo())

	admin := registerInput()
	admin.Email = "root@example.com"
	admin.Role = model.RoleSuperAdmin
	_, err := uc.Register(context.Background(), admin)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	users, err := uc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.RoleCashier, users[0].Role)
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newTestUseCase(repo)

	result, err := uc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	require.NoError(t, uc.DeleteUser(context.Background(), result.User.UserID.String()))
	assert.Empty(t, repo.users)

	err = uc.DeleteUser(context.Background(), uuid.NewString())
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteUserProtectsSuperAdmin(t *testing.T) {
	uc := newTestUseCase(newFakeUserRepo())

	admin := registerInput()
	admin.Email = "root@example.com"
	admin.Role = model.RoleSuperAdmin
	result, err := uc.Register(context.Background(), admin)
	require.NoError(t, err)

	err = uc.DeleteUser(context.Background(), result.User.UserID.String())
	assert.True(t, apperr.IsForbidden(err))
}
