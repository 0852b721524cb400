package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/apperr"
	"github.com/solestep/solestep-api/internal/customer/repository"
	"github.com/solestep/solestep-api/internal/model"
)

type UseCase interface {
	CreateCustomer(ctx context.Context, input *model.CreateCustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]*model.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input *model.UpdateCustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	AdjustLoyaltyPoints(ctx context.Context, id string, points int64) (*model.Customer, error)
}

type customerUseCase struct {
	repo   repository.Repository
	logger *zap.Logger
}

func NewCustomerUseCase(repo repository.Repository, logger *zap.Logger) UseCase {
	return &customerUseCase{repo: repo, logger: logger}
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *model.CreateCustomerInput) (*model.Customer, error) {
	existing, err := uc.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		uc.logger.Error("Failed to check customer email", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, apperr.NewConflictError("Customer with this email already exists")
	}

	now := time.Now()
	customer := &model.Customer{
		ID:            uuid.New(),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Phone:         input.Phone,
		LoyaltyPoints: 0,
		Status:        model.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.repo.Create(ctx, customer); err != nil {
		uc.logger.Error("Failed to create customer", zap.Error(err))
		return nil, err
	}
	return customer, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NewValidationError("invalid customer id")
	}

	customer, err := uc.repo.GetByID(ctx, uid)
	if err != nil {
		uc.logger.Error("Failed to get customer", zap.Error(err))
		return nil, err
	}
	if customer == nil {
		return nil, apperr.NewNotFoundError("Customer not found")
	}
	return customer, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	customers, err := uc.repo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("Failed to list customers", zap.Error(err))
		return nil, err
	}
	return customers, nil
}

func (uc *customerUseCase) SearchCustomers(ctx context.Context, query string) ([]*model.Customer, error) {
	if query == "" {
		return nil, apperr.NewValidationError("Search query is required")
	}

	customers, err := uc.repo.Search(ctx, query)
	if err != nil {
		uc.logger.Error("Failed to search customers", zap.Error(err))
		return nil, err
	}
	return customers, nil
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, id string, input *model.UpdateCustomerInput) (*model.Customer, error) {
	existing, err := uc.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != existing.Email {
		inUse, err := uc.repo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if inUse != nil && inUse.ID != existing.ID {
			return nil, apperr.NewConflictError("Email already in use")
		}
		existing.Email = *input.Email
	}
	if input.FirstName != nil {
		existing.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		existing.LastName = *input.LastName
	}
	if input.Phone != nil {
		existing.Phone = *input.Phone
	}

	if err := uc.repo.Update(ctx, existing); err != nil {
		uc.logger.Error("Failed to update customer", zap.Error(err))
		return nil, err
	}
	return existing, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	customer, err := uc.GetCustomer(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.SetStatus(ctx, customer.ID, model.StatusInactive); err != nil {
		uc.logger.Error("Failed to delete customer", zap.Error(err))
		return err
	}
	return nil
}

// AdjustLoyaltyPoints applies a signed delta to the customer's balance.
// The balance never goes negative.
func (uc *customerUseCase) AdjustLoyaltyPoints(ctx context.Context, id string, points int64) (*model.Customer, error) {
	customer, err := uc.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	newBalance := customer.LoyaltyPoints + points
	if newBalance < 0 {
		return nil, apperr.NewValidationError("Insufficient loyalty points")
	}

	if err := uc.repo.SetLoyaltyPoints(ctx, customer.ID, newBalance); err != nil {
		uc.logger.Error("Failed to update loyalty points", zap.Error(err))
		return nil, err
	}
	customer.LoyaltyPoints = newBalance
	return customer, nil
}
