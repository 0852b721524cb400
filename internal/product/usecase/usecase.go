package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/apperr"
	"github.com/solestep/solestep-api/internal/model"
	"github.com/solestep/solestep-api/internal/product/repository"
)

const defaultMinStockLevel = 5

type UseCase interface {
	CreateProduct(ctx context.Context, input *model.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]*model.Product, error)
	SearchProducts(ctx context.Context, filter model.ProductSearchFilter) ([]*model.Product, error)
	LowStockProducts(ctx context.Context) ([]*model.Product, error)
	UpdateProduct(ctx context.Context, id string, input *model.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, size string, delta int) (*model.Product, error)
}

type productUseCase struct {
	repo   repository.Repository
	logger *zap.Logger
}

func NewProductUseCase(repo repository.Repository, logger *zap.Logger) UseCase {
	return &productUseCase{repo: repo, logger: logger}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *model.CreateProductInput) (*model.Product, error) {
	if !input.Category.Valid() {
		return nil, apperr.NewValidationError("invalid category: %s", input.Category)
	}
	if !input.Gender.Valid() {
		return nil, apperr.NewValidationError("invalid gender: %s", input.Gender)
	}
	if input.Price.IsNegative() {
		return nil, apperr.NewValidationError("price must not be negative")
	}

	seen := map[string]bool{}
	sizes := make([]model.ProductSize, 0, len(input.Sizes))
	for _, s := range input.Sizes {
		if !model.ValidSize(s.Size) {
			return nil, apperr.NewValidationError("invalid size: %s", s.Size)
		}
		if s.Quantity < 0 {
			return nil, apperr.NewValidationError("size %s quantity must not be negative", s.Size)
		}
		if seen[s.Size] {
			return nil, apperr.NewValidationError("duplicate size: %s", s.Size)
		}
		seen[s.Size] = true
		sizes = append(sizes, model.ProductSize{Size: s.Size, Quantity: s.Quantity})
	}

	code, err := uc.nextCode(ctx, input.Category)
	if err != nil {
		uc.logger.Error("Failed to generate product code", zap.Error(err))
		return nil, err
	}

	minStock := defaultMinStockLevel
	if input.MinStockLevel != nil {
		minStock = *input.MinStockLevel
	}

	now := time.Now()
	product := &model.Product{
		ID:            uuid.New(),
		Code:          code,
		Name:          input.Name,
		Description:   input.Description,
		Brand:         input.Brand,
		Category:      input.Category,
		Gender:        input.Gender,
		Color:         input.Color,
		Price:         input.Price,
		MinStockLevel: minStock,
		Status:        model.StatusActive,
		Sizes:         sizes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.repo.Create(ctx, product); err != nil {
		uc.logger.Error("Failed to create product", zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NewValidationError("invalid product id")
	}

	product, err := uc.repo.GetByID(ctx, uid)
	if err != nil {
		uc.logger.Error("Failed to get product", zap.Error(err))
		return nil, err
	}
	if product == nil {
		return nil, apperr.NewNotFoundError("Product not found")
	}
	return product, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := uc.repo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	return products, nil
}

func (uc *productUseCase) SearchProducts(ctx context.Context, filter model.ProductSearchFilter) ([]*model.Product, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperr.NewValidationError("invalid category: %s", filter.Category)
	}
	if filter.Gender != "" && !filter.Gender.Valid() {
		return nil, apperr.NewValidationError("invalid gender: %s", filter.Gender)
	}

	products, err := uc.repo.Search(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to search products", zap.Error(err))
		return nil, err
	}
	return products, nil
}

func (uc *productUseCase) LowStockProducts(ctx context.Context) ([]*model.Product, error) {
	products, err := uc.repo.LowStock(ctx)
	if err != nil {
		uc.logger.Error("Failed to list low stock products", zap.Error(err))
		return nil, err
	}
	return products, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, input *model.UpdateProductInput) (*model.Product, error) {
	product, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, apperr.NewValidationError("invalid category: %s", *input.Category)
		}
		product.Category = *input.Category
	}
	if input.Gender != nil {
		if !input.Gender.Valid() {
			return nil, apperr.NewValidationError("invalid gender: %s", *input.Gender)
		}
		product.Gender = *input.Gender
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperr.NewValidationError("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Color != nil {
		product.Color = *input.Color
	}
	if input.MinStockLevel != nil {
		product.MinStockLevel = *input.MinStockLevel
	}

	if err := uc.repo.Update(ctx, product); err != nil {
		uc.logger.Error("Failed to update product", zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	product, err := uc.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.SetStatus(ctx, product.ID, model.StatusInactive); err != nil {
		uc.logger.Error("Failed to delete product", zap.Error(err))
		return err
	}
	return nil
}

// AdjustStock applies a signed delta to one size's quantity. The quantity
// never goes negative.
func (uc *productUseCase) AdjustStock(ctx context.Context, id string, size string, delta int) (*model.Product, error) {
	product, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	current, ok := product.SizeQuantity(size)
	if !ok {
		return nil, apperr.NewValidationError("Size not found for this product")
	}

	newQuantity := current + delta
	if newQuantity < 0 {
		return nil, apperr.NewValidationError("Insufficient stock for this size")
	}

	if err := uc.repo.SetSizeQuantity(ctx, product.ID, size, newQuantity); err != nil {
		uc.logger.Error("Failed to update stock", zap.Error(err))
		return nil, err
	}

	for i := range product.Sizes {
		if product.Sizes[i].Size == size {
			product.Sizes[i].Quantity = newQuantity
		}
	}
	return product, nil
}

func (uc *productUseCase) nextCode(ctx context.Context, category model.Category) (string, error) {
	prefix := category.CodePrefix()
	highest, err := uc.repo.MaxCode(ctx, prefix)
	if err != nil {
		return "", err
	}

	number := 1
	if highest != "" {
		parts := strings.SplitN(highest, "-", 2)
		if len(parts) == 2 {
			if n, err := strconv.Atoi(parts[1]); err == nil {
				number = n + 1
			}
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, number), nil
}
