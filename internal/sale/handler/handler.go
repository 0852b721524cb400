package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/middleware"
	"github.com/solestep/solestep-api/internal/model"
	"github.com/solestep/solestep-api/internal/rest"
	"github.com/solestep/solestep-api/internal/sale/usecase"
)

type SaleHandler struct {
	useCase usecase.UseCase
	logger  *zap.Logger
}

func NewSaleHandler(useCase usecase.UseCase, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{useCase: useCase, logger: logger}
}

func (h *SaleHandler) Create(c *gin.Context) {
	var input model.CreateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body. Required: customerId, items array with at least one item",
		})
		return
	}

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User ID not found in token"})
		return
	}

	sale, err := h.useCase.CreateSale(c.Request.Context(), &input, actor.UserID.String())
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":             "Sale completed successfully",
		"sale":                sale,
		"loyaltyPointsEarned": sale.LoyaltyPointsEarned,
	})
}

func (h *SaleHandler) List(c *gin.Context) {
	sales, err := h.useCase.ListSales(c.Request.Context())
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.useCase.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) Report(c *gin.Context) {
	var input struct {
		StartDate time.Time `json:"startDate" binding:"required"`
		EndDate   time.Time `json:"endDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "startDate and endDate are required"})
		return
	}

	report, err := h.useCase.Report(c.Request.Context(), input.StartDate, input.EndDate)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
