package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("order not found")
	ErrReferentialViolation = errors.New("order references a customer or product that does not exist")
	ErrStorageUnavailable   = errors.New("order storage unavailable")
	ErrPublishFailed        = errors.New("order created event not published")
)

// Rule names a single validation check on a create-order request.
type Rule string

const (
	RuleCustomerID       Rule = "customer_id"
	RuleItemsRequired    Rule = "items_required"
	RuleProductID        Rule = "product_id"
	RuleQuantity         Rule = "quantity"
	RuleDuplicateProduct Rule = "duplicate_product"
)

// ValidationError reports which rule rejected a request and why.
type ValidationError struct {
	Rule   Rule
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order (%s): %s", e.Rule, e.Reason)
}
