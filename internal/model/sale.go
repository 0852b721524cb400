package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentCard  PaymentMethod = "CARD"
	PaymentOther PaymentMethod = "OTHER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentOther:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type SaleItem struct {
	ProductID   uuid.UUID       `db:"product_id" json:"productId"`
	ProductName string          `db:"product_name" json:"productName,omitempty"`
	Size        string          `db:"size" json:"size"`
	Quantity    int             `db:"quantity" json:"quantity"`
	PriceAtSale decimal.Decimal `db:"price_at_sale" json:"priceAtSale"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// Sale is a write-once record: it is created by the transaction processor
// and never updated or deleted afterwards.
type Sale struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	CustomerID          uuid.UUID       `db:"customer_id" json:"customerId"`
	CustomerName        string          `db:"customer_name" json:"customerName,omitempty"`
	Items               []SaleItem      `db:"-" json:"items"`
	TotalAmount         decimal.Decimal `db:"total_amount" json:"totalAmount"`
	PaymentMethod       PaymentMethod   `db:"payment_method" json:"paymentMethod"`
	PaymentStatus       PaymentStatus   `db:"payment_status" json:"paymentStatus"`
	LoyaltyPointsEarned int64           `db:"loyalty_points_earned" json:"loyaltyPointsEarned"`
	ProcessedBy         uuid.UUID       `db:"processed_by" json:"processedBy"`
	ProcessedByName     string          `db:"processed_by_name" json:"processedByName,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"createdAt"`
}

type SaleItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type CreateSaleInput struct {
	CustomerID    string          `json:"customerId" binding:"required"`
	Items         []SaleItemInput `json:"items"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" binding:"required"`
}

type ProductSales struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	TotalSales              int                   `json:"totalSales"`
	TotalRevenue            decimal.Decimal       `json:"totalRevenue"`
	AverageTransactionValue decimal.Decimal       `json:"averageTransactionValue"`
	ItemsSold               int                   `json:"itemsSold"`
	TopProducts             []ProductSales        `json:"topProducts"`
	SalesByPaymentMethod    map[PaymentMethod]int `json:"salesByPaymentMethod"`
}
