package order

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateRequest
		rule Rule
	}{
		{"zero customer", CreateRequest{CustomerID: 0, Items: []CreateOrderItem{{ProductID: 1, Quantity: 1}}}, RuleCustomerID},
		{"negative customer", CreateRequest{CustomerID: -3, Items: []CreateOrderItem{{ProductID: 1, Quantity: 1}}}, RuleCustomerID},
		{"no items", CreateRequest{CustomerID: 7}, RuleItemsRequired},
		{"empty items", CreateRequest{CustomerID: 7, Items: []CreateOrderItem{}}, RuleItemsRequired},
		{"zero product", CreateRequest{CustomerID: 7, Items: []CreateOrderItem{{ProductID: 0, Quantity: 1}}}, RuleProductID},
		{"zero quantity", CreateRequest{CustomerID: 7, Items: []CreateOrderItem{{ProductID: 3, Quantity: 0}}}, RuleQuantity},
		{"negative quantity", CreateRequest{CustomerID: 7, Items: []CreateOrderItem{{ProductID: 3, Quantity: 1}, {ProductID: 4, Quantity: -2}}}, RuleQuantity},
		{"quantity above int4", CreateRequest{CustomerID: 7, Items: []CreateOrderItem{{ProductID: 3, Quantity: 3_000_000_000}}}, RuleQuantity},
		{"duplicate product", CreateRequest{CustomerID: 7, Items: []CreateOrderItem{{ProductID: 3, Quantity: 1}, {ProductID: 3, Quantity: 2}}}, RuleDuplicateProduct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.req)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want *ValidationError, got %v", err)
			assert.Equal(t, tt.rule, verr.Rule)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}

func TestValidate_AcceptsAndCopies(t *testing.T) {
	in := CreateRequest{CustomerID: 7, Items: []CreateOrderItem{{ProductID: 3, Quantity: 2}, {ProductID: 4, Quantity: 1}}}

	out, err := Validate(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	in.Items[0].Quantity = 99
	assert.Equal(t, 2, out.Items[0].Quantity, "validated request must not alias the input")
}

func TestValidate_QuantityUpperBound(t *testing.T) {
	_, err := Validate(CreateRequest{CustomerID: 7, Items: []CreateOrderItem{{ProductID: 3, Quantity: MaxQuantity}}})
	require.NoError(t, err)

	_, err = Validate(CreateRequest{CustomerID: 7, Items: []CreateOrderItem{{ProductID: 3, Quantity: MaxQuantity + 1}}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, RuleQuantity, verr.Rule)
	assert.Contains(t, verr.Reason, "must not exceed")
}
