// Package server assembles the gin engine: middleware, CORS and the
// per-module route groups.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	customerhandler "github.com/solestep/solestep-api/internal/customer/handler"
	"github.com/solestep/solestep-api/internal/middleware"
	producthandler "github.com/solestep/solestep-api/internal/product/handler"
	salehandler "github.com/solestep/solestep-api/internal/sale/handler"
	userhandler "github.com/solestep/solestep-api/internal/user/handler"
)

type Handlers struct {
	Users     *userhandler.UserHandler
	Customers *customerhandler.CustomerHandler
	Products  *producthandler.ProductHandler
	Sales     *salehandler.SaleHandler
}

func New(appEnv string, authMW *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	if appEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Users.Login)
		authGroup.POST("/register", h.Users.Register)

		users := authGroup.Group("/users", authMW.Authenticate(), authMW.RequireModule("permissions"))
		{
			users.GET("", h.Users.List)
			users.DELETE("/:userId", h.Users.Delete)
		}
	}

	customers := api.Group("/customers", authMW.Authenticate())
	{
		customers.POST("", authMW.RequireModule("customer", "customer.create"), h.Customers.Create)
		customers.GET("/search", authMW.RequireModule("customer", "customer.search"), h.Customers.Search)

		full := customers.Group("", authMW.RequireModule("customer"))
		{
			full.GET("", h.Customers.List)
			full.GET("/:id", h.Customers.Get)
			full.PUT("/:id", h.Customers.Update)
			full.DELETE("/:id", h.Customers.Delete)
			full.PATCH("/:id/loyalty-points", h.Customers.AdjustLoyaltyPoints)
		}
	}

	products := api.Group("/products", authMW.Authenticate())
	{
		products.GET("", authMW.RequireModule("inventory", "products.view"), h.Products.List)
		products.GET("/search", authMW.RequireModule("inventory", "products.search"), h.Products.Search)

		inventory := products.Group("", authMW.RequireModule("inventory"))
		{
			inventory.POST("", h.Products.Create)
			inventory.GET("/low-stock", h.Products.LowStock)
			inventory.GET("/:id", h.Products.Get)
			inventory.PUT("/:id", h.Products.Update)
			inventory.DELETE("/:id", h.Products.Delete)
			inventory.PATCH("/:id/stock", h.Products.AdjustStock)
		}
	}

	sales := api.Group("/sales", authMW.Authenticate(), authMW.RequireModule("sales"))
	{
		sales.POST("", h.Sales.Create)
		sales.GET("", h.Sales.List)
		sales.GET("/:id", h.Sales.Get)
		sales.POST("/report", h.Sales.Report)
	}

	return r
}
