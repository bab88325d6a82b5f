package httpserver

import (
	"serviceease/internal/logger"
	"serviceease/internal/service/account"
	"serviceease/internal/service/cart"
	"serviceease/internal/service/catalog"
	"serviceease/internal/service/order"
	"serviceease/internal/service/payment"
	"serviceease/internal/service/review"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps bundles the services the router needs.
type Deps struct {
	Accounts *account.Service
	Catalog  *catalog.Service
	Carts    *cart.Service
	Orders   *order.Service
	Reviews  *review.Service
	Payments *payment.Service

	// FrontendURL is where payment callbacks redirect the customer.
	FrontendURL string
}

// buildRouter wires routes for the API.
func buildRouter(log *logger.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if deps.FrontendURL != "" {
		corsCfg.AllowOrigins = []string{deps.FrontendURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	a := &accountHandlers{svc: deps.Accounts, log: log}
	ct := &catalogHandlers{svc: deps.Catalog, log: log}
	cr := &cartHandlers{svc: deps.Carts, log: log}
	or := &orderHandlers{svc: deps.Orders, log: log}
	rv := &reviewHandlers{svc: deps.Reviews, log: log}
	py := &paymentHandlers{svc: deps.Payments, frontendURL: deps.FrontendURL, log: log}

	router.POST("/auth/register", a.register)
	router.POST("/auth/login", a.login)

	router.GET("/categories", ct.listCategories)
	router.GET("/categories/:id", ct.getCategory)
	router.GET("/categories/:id/services", ct.categoryServices)
	router.GET("/services", ct.listServices)
	router.GET("/services/:id", ct.getService)
	router.GET("/services/:id/reviews", rv.listByService)
	router.GET("/reviews", rv.list)
	router.GET("/reviews/:id", rv.get)

	// The gateway posts the customer back without our bearer token, so the
	// callbacks stay public and validate the transaction id instead.
	router.POST("/payments/success", py.success)
	router.POST("/payments/fail", py.fail)
	router.POST("/payments/cancel", py.cancel)

	api := router.Group("/", authRequired(deps.Accounts))
	{
		api.GET("/users", a.listUsers)
		api.GET("/users/:id", a.getUser)
		api.PUT("/users/:id", a.updateUser)
		api.PATCH("/users/:id", a.updateUser)
		api.DELETE("/users/:id", a.deleteUser)
		api.GET("/users/:id/reviews", rv.listByUser)
		api.GET("/users/:id/profile", a.getProfile)
		api.PUT("/users/:id/profile", a.updateProfile)
		api.PATCH("/users/:id/profile", a.updateProfile)
		api.DELETE("/users/:id/profile", a.deleteProfile)
		api.GET("/profile/me", a.getMyProfile)
		api.PUT("/profile/me", a.updateMyProfile)
		api.PATCH("/profile/me", a.updateMyProfile)

		api.POST("/categories", ct.createCategory)
		api.PUT("/categories/:id", ct.updateCategory)
		api.DELETE("/categories/:id", ct.deleteCategory)
		api.POST("/services", ct.createService)
		api.PUT("/services/:id", ct.updateService)
		api.PATCH("/services/:id", ct.updateService)
		api.DELETE("/services/:id", ct.deleteService)

		api.GET("/carts", cr.list)
		api.POST("/carts", cr.getOrCreate)
		api.GET("/carts/:id", cr.get)
		api.DELETE("/carts/:id", cr.delete)
		api.GET("/carts/:id/items", cr.listItems)
		api.POST("/carts/:id/items", cr.addItem)
		api.POST("/cart-items", cr.addLine)
		api.GET("/cart-items/:id", cr.getLine)
		api.PATCH("/cart-items/:id", cr.updateLine)
		api.DELETE("/cart-items/:id", cr.deleteLine)

		api.GET("/orders", or.list)
		api.POST("/orders", or.checkout)
		api.GET("/orders/:id", or.get)
		api.PATCH("/orders/:id", or.update)
		api.DELETE("/orders/:id", or.delete)
		api.POST("/orders/:id/pay", py.initiate)
		api.GET("/orders/:id/items", or.listItems)
		api.POST("/orders/:id/items", or.addItem)
		api.POST("/order-items", or.addLine)
		api.GET("/order-items/:id", or.getLine)
		api.DELETE("/order-items/:id", or.deleteLine)

		api.POST("/reviews", rv.create)
		api.PATCH("/reviews/:id", rv.update)
		api.DELETE("/reviews/:id", rv.delete)
	}

	return router
}
