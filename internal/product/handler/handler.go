package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/model"
	"github.com/solestep/solestep-api/internal/product/usecase"
	"github.com/solestep/solestep-api/internal/rest"
)

type ProductHandler struct {
	useCase usecase.UseCase
	logger  *zap.Logger
}

func NewProductHandler(useCase usecase.UseCase, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{useCase: useCase, logger: logger}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var input model.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.useCase.ListProducts(c.Request.Context())
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.useCase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var input model.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.useCase.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.useCase.LowStockProducts(c.Request.Context())
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var input struct {
		Size     string `json:"size"`
		Quantity *int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Size == "" || input.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid size or quantity value"})
		return
	}

	product, err := h.useCase.AdjustStock(c.Request.Context(), c.Param("id"), input.Size, *input.Quantity)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) Search(c *gin.Context) {
	filter := model.ProductSearchFilter{
		Query:    c.Query("query"),
		Category: model.Category(c.Query("category")),
		Gender:   model.Gender(c.Query("gender")),
		Brand:    c.Query("brand"),
	}

	if raw := c.Query("minPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid minPrice value"})
			return
		}
		filter.MinPrice = &price
	}
	if raw := c.Query("maxPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid maxPrice value"})
			return
		}
		filter.MaxPrice = &price
	}

	products, err := h.useCase.SearchProducts(c.Request.Context(), filter)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}
