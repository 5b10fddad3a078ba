package order

// CreateOrderItem is one line of an order request.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID int64 `json:"product_id" example:"3"`
	Quantity  int   `json:"quantity"   example:"2"`
}

// CreateRequest is the body of POST /orders.
// swagger:model CreateOrderRequest
type CreateRequest struct {
	CustomerID int64             `json:"customer_id" example:"7"`
	Items      []CreateOrderItem `json:"items"`
}
