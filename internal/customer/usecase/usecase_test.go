package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/apperr"
	"github.com/solestep/solestep-api/internal/model"
)

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[uuid.UUID]*model.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *model.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListActive(_ context.Context) ([]*model.Customer, error) {
	var out []*model.Customer
	for _, c := range r.customers {
		if c.Status == model.StatusActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Search(_ context.Context, query string) ([]*model.Customer, error) {
	var out []*model.Customer
	q := strings.ToLower(query)
	for _, c := range r.customers {
		if c.Status != model.StatusActive {
			continue
		}
		if strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(c.Phone, query) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *model.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) SetStatus(_ context.Context, id uuid.UUID, status model.Status) error {
	r.customers[id].Status = status
	return nil
}

func (r *fakeCustomerRepo) SetLoyaltyPoints(_ context.Context, id uuid.UUID, points int64) error {
	r.customers[id].LoyaltyPoints = points
	return nil
}

func TestCreateCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, zap.NewNop())

	customer, err := uc.CreateCustomer(context.Background(), &model.CreateCustomerInput{
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     "ana@example.com",
		Phone:     "555-0101",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), customer.LoyaltyPoints, "new customers start with zero points")
	assert.Equal(t, model.StatusActive, customer.Status)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, zap.NewNop())

	input := &model.CreateCustomerInput{FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"}
	_, err := uc.CreateCustomer(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.CreateCustomer(context.Background(), input)
	assert.True(t, apperr.IsConflict(err))
}

func TestAdjustLoyaltyPoints(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, zap.NewNop())
	customer, err := uc.CreateCustomer(context.Background(), &model.CreateCustomerInput{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com",
	})
	require.NoError(t, err)

	updated, err := uc.AdjustLoyaltyPoints(context.Background(), customer.ID.String(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.LoyaltyPoints)

	updated, err = uc.AdjustLoyaltyPoints(context.Background(), customer.ID.String(), -4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), updated.LoyaltyPoints)
}

func TestAdjustLoyaltyPointsRejectsNegativeBalance(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, zap.NewNop())
	customer, err := uc.CreateCustomer(context.Background(), &model.CreateCustomerInput{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com",
	})
	require.NoError(t, err)

	_, err = uc.AdjustLoyaltyPoints(context.Background(), customer.ID.String(), -1)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, int64(0), repo.customers[customer.ID].LoyaltyPoints)
}

func TestUpdateCustomerEmailConflict(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, zap.NewNop())

	first, err := uc.CreateCustomer(context.Background(), &model.CreateCustomerInput{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com",
	})
	require.NoError(t, err)
	_, err = uc.CreateCustomer(context.Background(), &model.CreateCustomerInput{
		FirstName: "Ben", LastName: "Cruz", Email: "ben@example.com",
	})
	require.NoError(t, err)

	taken := "ben@example.com"
	_, err = uc.UpdateCustomer(context.Background(), first.ID.String(), &model.UpdateCustomerInput{Email: &taken})
	assert.True(t, apperr.IsConflict(err))

	fresh := "ana.reyes@example.com"
	updated, err := uc.UpdateCustomer(context.Background(), first.ID.String(), &model.UpdateCustomerInput{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, fresh, updated.Email)
}

func TestDeleteCustomerSoftDeletes(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, zap.NewNop())
	customer, err := uc.CreateCustomer(context.Background(), &model.CreateCustomerInput{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteCustomer(context.Background(), customer.ID.String()))

	assert.Equal(t, model.StatusInactive, repo.customers[customer.ID].Status)

	listed, err := uc.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)

	// The record itself is retained.
	fetched, err := uc.GetCustomer(context.Background(), customer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, customer.ID, fetched.ID)
}

func TestSearchCustomers(t *testing.T) {
	repo := newFakeCustomerRepo()
	uc := NewCustomerUseCase(repo, zap.NewNop())
	_, err := uc.CreateCustomer(context.Background(), &model.CreateCustomerInput{
		FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com", Phone: "555-0101",
	})
	require.NoError(t, err)

	results, err := uc.SearchCustomers(context.Background(), "reyes")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = uc.SearchCustomers(context.Background(), "")
	assert.True(t, apperr.IsValidation(err))
}

func TestGetCustomerNotFound(t *testing.T) {
	uc := NewCustomerUseCase(newFakeCustomerRepo(), zap.NewNop())

	_, err := uc.GetCustomer(context.Background(), uuid.NewString())
	assert.True(t, apperr.IsNotFound(err))

	_, err = uc.GetCustomer(context.Background(), "garbage")
	assert.True(t, apperr.IsValidation(err))
}
