package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/apperr"
	"github.com/solestep/solestep-api/internal/model"
	"github.com/solestep/solestep-api/internal/sale/repository"
)

// loyaltyDivisor: customers earn 1 loyalty point per $10 of sale total,
// floored.
var loyaltyDivisor = decimal.NewFromInt(10)

const topProductsLimit = 5

// EventPublisher receives committed sales. Implementations must not fail
// the sale: by the time they run the transaction is already committed.
type EventPublisher interface {
	SaleCompleted(ctx context.Context, sale *model.Sale)
}

type UseCase interface {
	CreateSale(ctx context.Context, input *model.CreateSaleInput, actorID string) (*model.Sale, error)
	GetSale(ctx context.Context, id string) (*model.Sale, error)
	ListSales(ctx context.Context) ([]*model.Sale, error)
	Report(ctx context.Context, start, end time.Time) (*model.SalesReport, error)
}

type saleUseCase struct {
	repo      repository.Repository
	publisher EventPublisher // nil when event publishing is disabled
	logger    *zap.Logger
}

func NewSaleUseCase(repo repository.Repository, publisher EventPublisher, logger *zap.Logger) UseCase {
	return &saleUseCase{repo: repo, publisher: publisher, logger: logger}
}

// CreateSale validates and executes one sale as a single database
// transaction: per-size stock decrements, the sale record and the loyalty
// credit commit together or not at all. Unit prices are read from the
// product inside the same transaction that decrements its stock, so price
// and stock are captured consistently for this sale; the price is copied
// into the sale line and later product price changes do not touch it.
func (uc *saleUseCase) CreateSale(ctx context.Context, input *model.CreateSaleInput, actorID string) (*model.Sale, error) {
	if input.CustomerID == "" || len(input.Items) == 0 {
		return nil, apperr.NewValidationError("Invalid request body. Required: customerId, items array with at least one item")
	}
	if actorID == "" {
		return nil, apperr.NewUnauthorizedError("User ID not found in token")
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, apperr.NewUnauthorizedError("User ID not found in token")
	}
	if !input.PaymentMethod.Valid() {
		return nil, apperr.NewValidationError("invalid payment method: %s", input.PaymentMethod)
	}
	customerID, err := uuid.Parse(input.CustomerID)
	if err != nil {
		return nil, apperr.NewValidationError("invalid customer id: %s", input.CustomerID)
	}

	var sale *model.Sale
	err = uc.repo.RunInTx(ctx, func(tx repository.TxStore) error {
		customer, err := tx.GetCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperr.NewNotFoundError("Customer not found")
		}

		totalAmount := decimal.Zero
		items := make([]model.SaleItem, 0, len(input.Items))

		for _, item := range input.Items {
			if item.Quantity < 1 {
				return apperr.NewValidationError("quantity must be at least 1 for product: %s", item.ProductID)
			}

			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				return apperr.NewValidationError("Invalid product ID format: %s", item.ProductID)
			}

			product, err := tx.GetProduct(ctx, productID)
			if err != nil {
				return err
			}
			if product == nil {
				return apperr.NewNotFoundError("Product not found: %s", item.ProductID)
			}

			available, found, err := tx.GetSizeQuantityForUpdate(ctx, productID, item.Size)
			if err != nil {
				return err
			}
			if !found {
				return apperr.NewNotFoundError("Size %s not found for product: %s", item.Size, product.Name)
			}
			if available < item.Quantity {
				return &apperr.InsufficientStockError{
					ProductName: product.Name,
					Size:        item.Size,
					Available:   available,
					Requested:   item.Quantity,
				}
			}

			if err := tx.DecrementSizeQuantity(ctx, productID, item.Size, item.Quantity); err != nil {
				return err
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			totalAmount = totalAmount.Add(subtotal)

			items = append(items, model.SaleItem{
				ProductID:   productID,
				ProductName: product.Name,
				Size:        item.Size,
				Quantity:    item.Quantity,
				PriceAtSale: product.Price,
				Subtotal:    subtotal,
			})
		}

		loyaltyPointsEarned := totalAmount.Div(loyaltyDivisor).Floor().IntPart()

		sale = &model.Sale{
			ID:                  uuid.New(),
			CustomerID:          customer.ID,
			Items:               items,
			TotalAmount:         totalAmount,
			PaymentMethod:       input.PaymentMethod,
			PaymentStatus:       model.PaymentStatusCompleted,
			LoyaltyPointsEarned: loyaltyPointsEarned,
			ProcessedBy:         actor,
			CreatedAt:           time.Now(),
		}

		if err := tx.InsertSale(ctx, sale); err != nil {
			return err
		}
		return tx.AddLoyaltyPoints(ctx, customer.ID, loyaltyPointsEarned)
	})
	if err != nil {
		uc.logger.Error("Sale transaction failed", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("customer_id", sale.CustomerID.String()),
		zap.String("total_amount", sale.TotalAmount.String()),
		zap.Int64("loyalty_points_earned", sale.LoyaltyPointsEarned),
	)

	if uc.publisher != nil {
		uc.publisher.SaleCompleted(ctx, sale)
	}
	return sale, nil
}

func (uc *saleUseCase) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NewValidationError("invalid sale id")
	}

	sale, err := uc.repo.GetByID(ctx, uid)
	if err != nil {
		uc.logger.Error("Failed to get sale", zap.Error(err))
		return nil, err
	}
	if sale == nil {
		return nil, apperr.NewNotFoundError("Sale not found")
	}
	return sale, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context) ([]*model.Sale, error) {
	sales, err := uc.repo.List(ctx)
	if err != nil {
		uc.logger.Error("Failed to list sales", zap.Error(err))
		return nil, err
	}
	return sales, nil
}

// Report aggregates sales whose creation time falls inside [start, end],
// both ends inclusive. Read-only.
func (uc *saleUseCase) Report(ctx context.Context, start, end time.Time) (*model.SalesReport, error) {
	if end.Before(start) {
		return nil, apperr.NewValidationError("endDate must not be before startDate")
	}

	sales, err := uc.repo.ListBetween(ctx, start, end)
	if err != nil {
		uc.logger.Error("Failed to load sales for report", zap.Error(err))
		return nil, err
	}

	report := &model.SalesReport{
		TotalSales:              len(sales),
		TotalRevenue:            decimal.Zero,
		AverageTransactionValue: decimal.Zero,
		TopProducts:             []model.ProductSales{},
		SalesByPaymentMethod: map[model.PaymentMethod]int{
			model.PaymentCash:  0,
			model.PaymentCard:  0,
			model.PaymentOther: 0,
		},
	}

	type productAgg struct {
		name         string
		quantitySold int
		revenue      decimal.Decimal
	}
	perProduct := map[uuid.UUID]*productAgg{}

	for _, sale := range sales {
		report.TotalRevenue = report.TotalRevenue.Add(sale.TotalAmount)
		report.SalesByPaymentMethod[sale.PaymentMethod]++

		for _, item := range sale.Items {
			report.ItemsSold += item.Quantity

			agg, ok := perProduct[item.ProductID]
			if !ok {
				agg = &productAgg{name: item.ProductName, revenue: decimal.Zero}
				perProduct[item.ProductID] = agg
			}
			agg.quantitySold += item.Quantity
			agg.revenue = agg.revenue.Add(item.Subtotal)
		}
	}

	if report.TotalSales > 0 {
		report.AverageTransactionValue = report.TotalRevenue.
			DivRound(decimal.NewFromInt(int64(report.TotalSales)), 2)
	}

	for id, agg := range perProduct {
		report.TopProducts = append(report.TopProducts, model.ProductSales{
			ProductID:    id.String(),
			Name:         agg.name,
			QuantitySold: agg.quantitySold,
			Revenue:      agg.revenue,
		})
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		return report.TopProducts[i].Revenue.GreaterThan(report.TopProducts[j].Revenue)
	})
	if len(report.TopProducts) > topProductsLimit {
		report.TopProducts = report.TopProducts[:topProductsLimit]
	}

	return report, nil
}
