package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ecommerce-api/internal/customer"
	"github.com/MikeMC777/ecommerce-api/internal/order"
	"github.com/MikeMC777/ecommerce-api/internal/product"
	"github.com/MikeMC777/ecommerce-api/internal/user"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// createOrderHandler godoc
// @Summary      Create an order
// @Description  Stores the order with its items and publishes an order-created event.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth && ApiKeyAuth
// @Param        body  body      order.CreateRequest  true  "Order"
// @Success      201   {object}  order.Order
// @Failure      400   {object}  HTTPError
// @Failure      401   {object}  HTTPError
// @Failure      403   {object}  HTTPError
// @Failure      422   {object}  HTTPError
// @Failure      503   {object}  HTTPError
// @Router       /orders [post]
func createOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body")
			return
		}
		res, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res.Order)
	}
}

// getOrderHandler godoc
// @Summary  Get an order with its items
// @Tags     orders
// @Produce  json
// @Param    id   path      int  true  "Order ID"
// @Success  200  {object}  order.Order
// @Failure  404  {object}  HTTPError
// @Router   /orders/{id} [get]
func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		o, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// createCustomerHandler godoc
// @Summary   Create a customer
// @Tags      customers
// @Accept    json
// @Produce   json
// @Security  BearerAuth && ApiKeyAuth
// @Param     body  body      customer.CreateRequest  true  "Customer"
// @Success   201   {object}  customer.Customer
// @Failure   400   {object}  HTTPError
// @Failure   409   {object}  HTTPError
// @Router    /customers [post]
func createCustomerHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customer.CreateRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "full_name and email are required")
			return
		}
		out, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// getCustomerHandler godoc
// @Summary  Get a customer
// @Tags     customers
// @Produce  json
// @Param    id   path      int  true  "Customer ID"
// @Success  200  {object}  customer.Customer
// @Failure  404  {object}  HTTPError
// @Router   /customers/{id} [get]
func getCustomerHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		out, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// createProductHandler godoc
// @Summary   Create a product
// @Tags      products
// @Accept    json
// @Produce   json
// @Security  BearerAuth && ApiKeyAuth
// @Param     body  body      product.CreateProductRequest  true  "Product"
// @Success   201   {object}  product.Product
// @Failure   400   {object}  HTTPError
// @Failure   409   {object}  HTTPError
// @Router    /products [post]
func createProductHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.CreateProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "name and a numeric price are required")
			return
		}
		out, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// listProductsHandler godoc
// @Summary  List products
// @Tags     products
// @Produce  json
// @Success  200  {array}  product.Product
// @Router   /products [get]
func listProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// getInventoryHandler godoc
// @Summary      Look up a product in the external inventory
// @Description  Returns the inventory document unchanged.
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  object
// @Failure      404  {object}  HTTPError
// @Failure      503  {object}  HTTPError
// @Router       /products/{id} [get]
func getInventoryHandler(inv inventoryLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		doc, err := inv.Fetch(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
	}
}

// registerHandler godoc
// @Summary  Register a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body      user.RegisterRequest  true  "Credentials"
// @Success  201   {object}  user.User
// @Failure  400   {object}  HTTPError
// @Failure  409   {object}  HTTPError
// @Router   /users [post]
func registerHandler(svc userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.RegisterRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "username and password are required")
			return
		}
		u, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// issueAPIKeyHandler godoc
// @Summary  Generate an API key for a user
// @Tags     users
// @Produce  json
// @Param    id   path      int  true  "User ID"
// @Success  200  {object}  user.APIKey
// @Failure  404  {object}  HTTPError
// @Router   /users/{id}/api-key [post]
func issueAPIKeyHandler(svc userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		k, err := svc.IssueAPIKey(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, k)
	}
}

// loginHandler godoc
// @Summary  Exchange credentials for a bearer token
// @Tags     auth
// @Accept   x-www-form-urlencoded,json
// @Produce  json
// @Param    username  formData  string  true  "Username"
// @Param    password  formData  string  true  "Password"
// @Success  200  {object}  user.TokenResponse
// @Failure  400  {object}  HTTPError
// @Router   /auth/login [post]
func loginHandler(svc userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.LoginRequest
		if err := c.ShouldBind(&in); err != nil {
			badRequest(c, "username and password are required")
			return
		}
		tok, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, tok)
	}
}
