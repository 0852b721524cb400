package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status marks a record as live or soft-deleted. Inactive records are
// retained but excluded from default listings.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Category string

const (
	CategoryCasualShoes Category = "CASUAL_SHOES"
	CategorySandals     Category = "SANDALS"
	CategorySlippers    Category = "SLIPPERS"
	CategorySportsShoes Category = "SPORTS_SHOES"
	CategoryFormalShoes Category = "FORMAL_SHOES"
	CategoryClogs       Category = "CLOGS"
	CategoryBeachwear   Category = "BEACHWEAR"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCasualShoes, CategorySandals, CategorySlippers,
		CategorySportsShoes, CategoryFormalShoes, CategoryClogs, CategoryBeachwear:
		return true
	}
	return false
}

// CodePrefix is the three-letter prefix used for generated product codes,
// e.g. CAS-0001 for CASUAL_SHOES.
func (c Category) CodePrefix() string {
	return string(c)[:3]
}

type Gender string

const (
	GenderMens   Gender = "MENS"
	GenderWomens Gender = "WOMENS"
	GenderUnisex Gender = "UNISEX"
	GenderKids   Gender = "KIDS"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMens, GenderWomens, GenderUnisex, GenderKids:
		return true
	}
	return false
}

// Sizes carried by the store. Requests referencing any other size are
// rejected before touching stock.
var Sizes = []string{"6", "7", "8", "9", "10", "11", "12"}

func ValidSize(size string) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

type Product struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	Code          string          `db:"code" json:"code"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Brand         string          `db:"brand" json:"brand"`
	Category      Category        `db:"category" json:"category"`
	Gender        Gender          `db:"gender" json:"gender"`
	Color         string          `db:"color" json:"color"`
	Price         decimal.Decimal `db:"price" json:"price"`
	MinStockLevel int             `db:"min_stock_level" json:"minStockLevel"`
	Status        Status          `db:"status" json:"status"`
	Sizes         []ProductSize   `db:"-" json:"sizes"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

type ProductSize struct {
	Size     string `db:"size" json:"size"`
	Quantity int    `db:"quantity" json:"quantity"`
}

// TotalStock is derived from the size rows on every read. It is never
// stored, so it cannot drift from its sources.
func (p *Product) TotalStock() int {
	total := 0
	for _, s := range p.Sizes {
		total += s.Quantity
	}
	return total
}

func (p *Product) SizeQuantity(size string) (int, bool) {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.Quantity, true
		}
	}
	return 0, false
}

type ProductSizeInput struct {
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity"`
}

type CreateProductInput struct {
	Name          string             `json:"name" binding:"required"`
	Description   string             `json:"description" binding:"required"`
	Brand         string             `json:"brand" binding:"required"`
	Category      Category           `json:"category" binding:"required"`
	Gender        Gender             `json:"gender" binding:"required"`
	Color         string             `json:"color" binding:"required"`
	Price         decimal.Decimal    `json:"price"`
	Sizes         []ProductSizeInput `json:"sizes"`
	MinStockLevel *int               `json:"minStockLevel"`
}

type UpdateProductInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Brand         *string          `json:"brand"`
	Category      *Category        `json:"category"`
	Gender        *Gender          `json:"gender"`
	Color         *string          `json:"color"`
	Price         *decimal.Decimal `json:"price"`
	MinStockLevel *int             `json:"minStockLevel"`
}

// ProductSearchFilter narrows the product listing. Zero values mean the
// corresponding filter is not applied.
type ProductSearchFilter struct {
	Query    string
	Category Category
	Gender   Gender
	Brand    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
