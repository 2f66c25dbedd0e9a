package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validOrder() (*Order, []OrderLine) {
	o := &Order{
		CustomerName:    "Jordan Reyes",
		CustomerEmail:   "jordan@example.com",
		Total:           375.00,
		ShippingStreet:  "12 Rue des Fleurs",
		ShippingCity:    "Lyon",
		ShippingState:   "ARA",
		ShippingZipCode: "69001",
		ShippingCountry: "FR",
	}
	lines := []OrderLine{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 3, Price: 125.00},
	}
	return o, lines
}

func TestValidateOrderAccepts(t *testing.T) {
	o, lines := validOrder()
	assert.NoError(t, ValidateOrder(o, lines))
}

func TestValidateOrderRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Order, lines []OrderLine) []OrderLine
		field  string
	}{
		{
			"empty items",
			func(o *Order, lines []OrderLine) []OrderLine { return nil },
			"items",
		},
		{
			"zero quantity",
			func(o *Order, lines []OrderLine) []OrderLine {
				lines[0].Quantity = 0
				return lines
			},
			"items.0.quantity",
		},
		{
			"negative price",
			func(o *Order, lines []OrderLine) []OrderLine {
				lines[0].Price = -1
				o.Total = -3
				return lines
			},
			"items.0.price",
		},
		{
			"total mismatch",
			func(o *Order, lines []OrderLine) []OrderLine {
				o.Total = 374.50
				return lines
			},
			"totalAmount",
		},
		{
			"missing shipping city",
			func(o *Order, lines []OrderLine) []OrderLine {
				o.ShippingCity = " "
				return lines
			},
			"shippingCity",
		},
		{
			"missing customer name",
			func(o *Order, lines []OrderLine) []OrderLine {
				o.CustomerName = ""
				return lines
			},
			"customerName",
		},
		{
			"unknown status",
			func(o *Order, lines []OrderLine) []OrderLine {
				o.Status = "Paid"
				return lines
			},
			"status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, lines := validOrder()
			lines = tt.mutate(o, lines)

			err := ValidateOrder(o, lines)
			require.Error(t, err)

			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestValidateOrderTotalTolerance(t *testing.T) {
	o, lines := validOrder()
	o.Total = 375.004
	assert.NoError(t, ValidateOrder(o, lines), "sub-half-cent drift is accepted")
}

func TestValidateProduct(t *testing.T) {
	p := &Product{
		Name:        "Midnight Elegance",
		Description: "A sophisticated blend of bergamot, jasmine, and sandalwood",
		Price:       125.00,
		Category:    "Luxury",
		ImageURL:    "https://example.com/midnight.jpg",
		Stock:       50,
	}
	assert.NoError(t, ValidateProduct(p))

	p.Name = ""
	p.Stock = -1
	err := ValidateProduct(p)
	require.Error(t, err)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "stock")
}

func TestValidateCustomer(t *testing.T) {
	c := &Customer{FirstName: "Nadia", LastName: "Benali", Email: "nadia@example.com"}
	assert.NoError(t, ValidateCustomer(c, "long-enough-password"))

	err := ValidateCustomer(&Customer{Email: "not-an-email"}, "short")
	require.Error(t, err)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "firstName")
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")
}
