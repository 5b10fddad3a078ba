package order

import (
	"fmt"
	"math"
)

// MaxQuantity is the largest quantity order_items.quantity (INTEGER) holds.
const MaxQuantity = math.MaxInt32

// Validate checks the shape of a create-order request and returns a copy safe
// to persist. It stops at the first violated rule.
func Validate(req CreateRequest) (CreateRequest, error) {
	if req.CustomerID <= 0 {
		return CreateRequest{}, &ValidationError{RuleCustomerID, "customer_id must be a positive identifier"}
	}
	if len(req.Items) == 0 {
		return CreateRequest{}, &ValidationError{RuleItemsRequired, "order must contain at least one item"}
	}

	seen := make(map[int64]int, len(req.Items))
	items := make([]CreateOrderItem, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID <= 0 {
			return CreateRequest{}, &ValidationError{RuleProductID, fmt.Sprintf("items[%d]: product_id must be a positive identifier", i)}
		}
		if it.Quantity <= 0 {
			return CreateRequest{}, &ValidationError{RuleQuantity, fmt.Sprintf("items[%d]: quantity must be greater than 0", i)}
		}
		if int64(it.Quantity) > MaxQuantity {
			return CreateRequest{}, &ValidationError{RuleQuantity, fmt.Sprintf("items[%d]: quantity must not exceed %d", i, MaxQuantity)}
		}
		if j, dup := seen[it.ProductID]; dup {
			return CreateRequest{}, &ValidationError{RuleDuplicateProduct,
				fmt.Sprintf("items[%d]: product %d already listed in items[%d]", i, it.ProductID, j)}
		}
		seen[it.ProductID] = i
		items[i] = it
	}
	return CreateRequest{CustomerID: req.CustomerID, Items: items}, nil
}
