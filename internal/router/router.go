package router

import (
	"errors"
	"net/http"

	"shop/internal/auth"
	"shop/internal/cart"
	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps collects everything the handlers need.
type Deps struct {
	DB     *gorm.DB
	Redis  *rd.Client
	Shop   *shop.Service
	Carts  *cart.Manager
	Tokens *auth.Manager
	Cfg    config.AppConfig
}

// Setup registers all HTTP routes.
func Setup(r *gin.Engine, d Deps) {
	r.Use(middleware.Session())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	api := r.Group("/api")

	// Users
	api.POST("/users/register", registerUser(d.DB))
	api.POST("/users/login", loginUser(d.DB, d.Tokens))

	// Catalog (public)
	api.GET("/categories", listCategories(d.DB))
	api.GET("/categories/:slug", getCategory(d.DB))
	api.GET("/products", listProducts(d.DB))
	api.GET("/products/:slug", getProduct(d.DB))

	// Cart (session scoped, works before login)
	api.GET("/cart", showCart(d))
	api.POST("/cart/add/:slug", addToCart(d))
	api.POST("/cart/decrease/:slug", decreaseInCart(d))
	api.POST("/cart/remove/:slug", removeFromCart(d))
	api.POST("/cart/clear", clearCart(d))

	// Authenticated
	authed := api.Group("", middleware.Auth(d.Tokens, d.DB))
	authed.POST("/checkout",
		middleware.RedisRateLimit(d.Redis, d.Cfg.CheckoutRateLimit, d.Cfg.CheckoutRateWindow),
		checkout(d))
	authed.POST("/products/:slug/comments", createComment(d.DB))
	authed.GET("/orders", listOrders(d))
	authed.GET("/orders/:id", getOrder(d))
	authed.POST("/orders/discount", applyDiscount(d))
	authed.DELETE("/orders/discount", removeDiscount(d))

	// Tickets
	authed.POST("/tickets", createTicket(d.DB))
	authed.GET("/tickets", listTickets(d.DB))
	authed.GET("/tickets/:id", getTicket(d.DB))
	authed.POST("/tickets/:id/messages", createMessage(d.DB))

	// Admin (staff only)
	admin := authed.Group("/admin", middleware.RequireStaff())
	admin.POST("/categories", createCategory(d.DB))
	admin.PUT("/categories/:slug", updateCategory(d.DB))
	admin.DELETE("/categories/:slug", deleteCategory(d.DB))
	admin.POST("/products", createProduct(d.DB))
	admin.PUT("/products/:slug", updateProduct(d.DB))
	admin.DELETE("/products/:slug", deleteProduct(d.DB))
	admin.GET("/codes", listCodes(d.DB))
	admin.GET("/codes/:id", getCode(d.DB))
	admin.POST("/codes", createCode(d.DB))
	admin.PUT("/codes/:id", updateCode(d.DB))
	admin.DELETE("/codes/:id", deleteCode(d.DB))
	admin.POST("/tickets/:id/close", closeTicket(d.DB))
	admin.POST("/tickets/:id/open", openTicket(d.DB))
}

// ok writes the success envelope.
func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": data})
}

// fail maps domain errors to HTTP statuses; anything outside the taxonomy
// is an infrastructure failure and reports 500.
func fail(c *gin.Context, err error) {
	status := statusFor(err)
	c.JSON(status, gin.H{"code": status, "msg": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shop.ErrProductNotFound),
		errors.Is(err, shop.ErrOrderNotFound),
		errors.Is(err, shop.ErrCodeNotFound),
		errors.Is(err, shop.ErrChatNotFound),
		errors.Is(err, cart.ErrNotInCart):
		return http.StatusNotFound
	case errors.Is(err, shop.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, shop.ErrValidation),
		errors.Is(err, shop.ErrEmptyCart),
		errors.Is(err, shop.ErrNotSalable),
		errors.Is(err, shop.ErrCodeUsed),
		errors.Is(err, shop.ErrCodeApplied),
		errors.Is(err, shop.ErrCodeExpired),
		errors.Is(err, shop.ErrNoCodeApplied),
		errors.Is(err, shop.ErrDivideByZero),
		errors.Is(err, shop.ErrChatClosed),
		errors.Is(err, shop.ErrDuplicate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// currentUserID returns the caller's id as a nullable foreign key.
func currentUserID(c *gin.Context) *uint {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}
