package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/customer/usecase"
	"github.com/solestep/solestep-api/internal/model"
	"github.com/solestep/solestep-api/internal/rest"
)

type CustomerHandler struct {
	useCase usecase.UseCase
	logger  *zap.Logger
}

func NewCustomerHandler(useCase usecase.UseCase, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{useCase: useCase, logger: logger}
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var input model.CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	customer, err := h.useCase.CreateCustomer(c.Request.Context(), &input)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Customer created successfully",
		"customer": customer,
	})
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.useCase.ListCustomers(c.Request.Context())
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.useCase.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var input model.UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	customer, err := h.useCase.UpdateCustomer(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer updated successfully",
		"customer": customer,
	})
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.useCase.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func (h *CustomerHandler) AdjustLoyaltyPoints(c *gin.Context) {
	var input struct {
		Points *int64 `json:"points"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Points == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid points value"})
		return
	}

	customer, err := h.useCase.AdjustLoyaltyPoints(c.Request.Context(), c.Param("id"), *input.Points)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Loyalty points updated successfully",
		"customer": customer,
	})
}

func (h *CustomerHandler) Search(c *gin.Context) {
	customers, err := h.useCase.SearchCustomers(c.Request.Context(), c.Query("query"))
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}
