package models

import (
	"fmt"
	"math"
	"strings"
)

// totalTolerance is half a cent; order totals are compared against the sum of
// line price*quantity within this bound.
const totalTolerance = 0.005

// ValidateOrder checks an incoming order header and its line items before any
// write happens. The supplied total must equal the sum of line price*quantity;
// prices are purchase-time snapshots and are not compared against the catalog.
func ValidateOrder(o *Order, lines []OrderLine) error {
	ve := NewValidationError()

	if strings.TrimSpace(o.CustomerName) == "" {
		ve.Add("customerName", "must be provided")
	}
	if strings.TrimSpace(o.CustomerEmail) == "" {
		ve.Add("customerEmail", "must be provided")
	}
	if strings.TrimSpace(o.ShippingStreet) == "" {
		ve.Add("shippingStreet", "must be provided")
	}
	if strings.TrimSpace(o.ShippingCity) == "" {
		ve.Add("shippingCity", "must be provided")
	}
	if strings.TrimSpace(o.ShippingState) == "" {
		ve.Add("shippingState", "must be provided")
	}
	if strings.TrimSpace(o.ShippingZipCode) == "" {
		ve.Add("shippingZipCode", "must be provided")
	}
	if strings.TrimSpace(o.ShippingCountry) == "" {
		ve.Add("shippingCountry", "must be provided")
	}
	if o.Status != "" && !o.Status.Valid() {
		ve.Add("status", "must be a valid order status")
	}

	if len(lines) == 0 {
		ve.Add("items", "must contain at least one line item")
	}

	var sum float64
	for i, ln := range lines {
		if ln.ProductID == "" {
			ve.Add(fmt.Sprintf("items.%d.productId", i), "must be provided")
		}
		if ln.Quantity < 1 {
			ve.Add(fmt.Sprintf("items.%d.quantity", i), "must be a positive integer")
		}
		if ln.Price < 0 {
			ve.Add(fmt.Sprintf("items.%d.price", i), "must not be negative")
		}
		sum += ln.Price * float64(ln.Quantity)
	}

	if len(lines) > 0 && math.Abs(sum-o.Total) > totalTolerance {
		ve.Add("totalAmount", "must equal the sum of item price times quantity")
	}

	if !ve.Ok() {
		return ve
	}
	return nil
}

// ValidateProduct checks the required fields for product creation.
func ValidateProduct(p *Product) error {
	ve := NewValidationError()

	if strings.TrimSpace(p.Name) == "" {
		ve.Add("name", "must be provided")
	}
	if strings.TrimSpace(p.Description) == "" {
		ve.Add("description", "must be provided")
	}
	if p.Price < 0 {
		ve.Add("price", "must not be negative")
	}
	if strings.TrimSpace(p.Category) == "" {
		ve.Add("category", "must be provided")
	}
	if strings.TrimSpace(p.ImageURL) == "" {
		ve.Add("imageUrl", "must be provided")
	}
	if p.Stock < 0 {
		ve.Add("stock", "must not be negative")
	}

	if !ve.Ok() {
		return ve
	}
	return nil
}

// ValidateCustomer checks the required fields for signup.
func ValidateCustomer(c *Customer, password string) error {
	ve := NewValidationError()

	if strings.TrimSpace(c.FirstName) == "" {
		ve.Add("firstName", "must be provided")
	}
	if strings.TrimSpace(c.LastName) == "" {
		ve.Add("lastName", "must be provided")
	}
	if strings.TrimSpace(c.Email) == "" {
		ve.Add("email", "must be provided")
	} else if !strings.Contains(c.Email, "@") {
		ve.Add("email", "must be a valid email address")
	}
	if len(password) < 8 {
		ve.Add("password", "must be at least 8 characters long")
	}

	if !ve.Ok() {
		return ve
	}
	return nil
}

// ValidateContactMessage checks the required fields for contact intake.
func ValidateContactMessage(m *ContactMessage) error {
	ve := NewValidationError()

	if strings.TrimSpace(m.Name) == "" {
		ve.Add("name", "must be provided")
	}
	if strings.TrimSpace(m.Email) == "" {
		ve.Add("email", "must be provided")
	}
	if strings.TrimSpace(m.Message) == "" {
		ve.Add("message", "must be provided")
	}

	if !ve.Ok() {
		return ve
	}
	return nil
}
