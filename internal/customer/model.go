package customer

// Customer is a buyer that orders refer to.
type Customer struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// CreateRequest payload of creation.
// swagger:model CreateCustomerRequest
type CreateRequest struct {
	FullName string `json:"full_name" binding:"required" example:"Ada Lovelace"`
	Email    string `json:"email"     binding:"required" example:"ada@example.com"`
}
