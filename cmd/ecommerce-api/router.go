package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/ecommerce-api/docs"
	"github.com/MikeMC777/ecommerce-api/internal/customer"
	"github.com/MikeMC777/ecommerce-api/internal/httpx"
	"github.com/MikeMC777/ecommerce-api/internal/metrics"
	"github.com/MikeMC777/ecommerce-api/internal/order"
	"github.com/MikeMC777/ecommerce-api/internal/product"
	"github.com/MikeMC777/ecommerce-api/internal/user"
)

type orderService interface {
	Create(ctx context.Context, req order.CreateRequest) (*order.Result, error)
	Get(ctx context.Context, id int64) (*order.Order, error)
}

type customerService interface {
	Create(ctx context.Context, in customer.CreateRequest) (*customer.Customer, error)
	Get(ctx context.Context, id int64) (*customer.Customer, error)
}

type productService interface {
	Create(ctx context.Context, in product.CreateProductRequest) (*product.Product, error)
	List(ctx context.Context) ([]product.Product, error)
}

type inventoryLookup interface {
	Fetch(ctx context.Context, id int64) (json.RawMessage, error)
}

type userService interface {
	Register(ctx context.Context, in user.RegisterRequest) (*user.User, error)
	Login(ctx context.Context, in user.LoginRequest) (*user.TokenResponse, error)
	IssueAPIKey(ctx context.Context, userID int64) (*user.APIKey, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type deps struct {
	Orders    orderService
	Customers customerService
	Products  productService
	Inventory inventoryLookup
	Users     userService
	// Guards run in order before every write endpoint.
	Guards  []gin.HandlerFunc
	DB      pinger
	Metrics *metrics.Metrics
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())
	if d.Metrics != nil {
		r.Use(httpx.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "API running"}) })
	r.GET("/healthz", healthzHandler(d.DB))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, d.Guards...), h)
	}

	r.POST("/users", registerHandler(d.Users))
	r.POST("/users/:id/api-key", issueAPIKeyHandler(d.Users))
	r.POST("/auth/login", loginHandler(d.Users))

	r.POST("/customers", guarded(createCustomerHandler(d.Customers))...)
	r.GET("/customers/:id", getCustomerHandler(d.Customers))

	r.POST("/products", guarded(createProductHandler(d.Products))...)
	r.GET("/products", listProductsHandler(d.Products))
	r.GET("/products/:id", getInventoryHandler(d.Inventory))

	r.POST("/orders", guarded(createOrderHandler(d.Orders))...)
	r.GET("/orders/:id", getOrderHandler(d.Orders))
	return r
}

// healthzHandler godoc
// @Summary  Liveness and database check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  HTTPError
// @Router   /healthz [get]
func healthzHandler(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				abortWith(c, http.StatusServiceUnavailable, "storage_unavailable", "database unreachable")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
