package product

import "github.com/shopspring/decimal"

type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// Stored as NUMERIC(12,2); serialized as a JSON string to keep exact cents.
	Price decimal.Decimal `json:"price" swaggertype:"string" example:"199.90"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name  string          `json:"name"  binding:"required" example:"Mechanical Keyboard"`
	Price decimal.Decimal `json:"price" swaggertype:"string" example:"199.90"`
}
