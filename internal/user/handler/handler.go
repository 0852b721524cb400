package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/model"
	"github.com/solestep/solestep-api/internal/rest"
	"github.com/solestep/solestep-api/internal/user/usecase"
)

type UserHandler struct {
	useCase usecase.UseCase
	logger  *zap.Logger
}

func NewUserHandler(useCase usecase.UseCase, logger *zap.Logger) *UserHandler {
	return &UserHandler{useCase: useCase, logger: logger}
}

func (h *UserHandler) Register(c *gin.Context) {
	var input model.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	result, err := h.useCase.Register(c.Request.Context(), &input)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var input model.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	result, err := h.useCase.Login(c.Request.Context(), &input)
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.useCase.ListUsers(c.Request.Context())
	if err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.useCase.DeleteUser(c.Request.Context(), c.Param("userId")); err != nil {
		rest.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
