package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"avance/internal/memory"
	"avance/internal/models"
)

func seedProduct(t *testing.T, store *memory.Store, name string, price float64, stock int) *models.Product {
	t.Helper()

	p, err := store.Insert(context.Background(), &models.Product{
		Name:        name,
		Description: "test product",
		Price:       price,
		Category:    "Luxury",
		ImageURL:    "https://example.com/p.jpg",
		Stock:       stock,
	})
	require.NoError(t, err)
	return p
}

func TestProductEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	status, raw := do(t, http.MethodPost, ts.URL+"/api/products", map[string]any{
		"name":        "Midnight Elegance",
		"description": "A sophisticated blend of bergamot, jasmine, and sandalwood",
		"price":       125.00,
		"category":    "Luxury",
		"imageUrl":    "https://example.com/midnight.jpg",
		"stock":       50,
	})
	require.Equal(t, http.StatusCreated, status)
	created := decode[models.Product](t, raw)
	assert.Equal(t, "Midnight Elegance", created.Name)
	assert.True(t, created.IsActive)

	status, raw = do(t, http.MethodGet, ts.URL+"/api/products/"+created.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[models.Product](t, raw)
	assert.Equal(t, created.ID, got.ID)

	status, _ = do(t, http.MethodGet, ts.URL+"/api/products/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, http.MethodGet, ts.URL+"/api/products/garbage", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = do(t, http.MethodPost, ts.URL+"/api/products", map[string]any{"name": "Nameless"})
	require.Equal(t, http.StatusBadRequest, status)
	body := decode[map[string]any](t, raw)
	assert.Contains(t, body, "errors")
}

func TestProductUpdateAndDeactivate(t *testing.T) {
	ts, store := newTestServer(t)
	p := seedProduct(t, store, "Ocean Breeze", 98.00, 75)

	status, raw := do(t, http.MethodPut, ts.URL+"/api/products/"+p.ID.Hex(), map[string]any{"price": 89.00})
	require.Equal(t, http.StatusOK, status)
	updated := decode[models.Product](t, raw)
	assert.Equal(t, 89.00, updated.Price)
	assert.Equal(t, "Ocean Breeze", updated.Name)

	status, _ = do(t, http.MethodDelete, ts.URL+"/api/products/"+p.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, status)

	status, raw = do(t, http.MethodGet, ts.URL+"/api/products", nil)
	require.Equal(t, http.StatusOK, status)
	listing := decode[[]models.Product](t, raw)
	assert.Empty(t, listing)

	status, raw = do(t, http.MethodGet, ts.URL+"/api/products/"+p.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[models.Product](t, raw)
	assert.False(t, got.IsActive)

	status, _ = do(t, http.MethodDelete, ts.URL+"/api/products/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateOrderEndpoint(t *testing.T) {
	ts, store := newTestServer(t)
	p := seedProduct(t, store, "Midnight Elegance", 125.00, 50)

	status, raw := do(t, http.MethodPost, ts.URL+"/api/orders", map[string]any{
		"order": map[string]any{
			"customerName":    "Jordan Reyes",
			"customerEmail":   "jordan@example.com",
			"totalAmount":     375.00,
			"shippingStreet":  "12 Rue des Fleurs",
			"shippingCity":    "Lyon",
			"shippingState":   "ARA",
			"shippingZipCode": "69001",
			"shippingCountry": "FR",
		},
		"items": []map[string]any{
			{"productId": p.ID.Hex(), "quantity": 3, "price": 125.00},
		},
	})
	require.Equal(t, http.StatusCreated, status)

	detail := decode[models.OrderDetail](t, raw)
	assert.Equal(t, models.StatusPending, detail.Status)
	assert.Equal(t, 375.00, detail.Total)
	assert.Equal(t, "Credit Card", detail.PaymentMethod)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 3, detail.Items[0].Quantity)
	require.NotNil(t, detail.Items[0].Product)
	assert.Equal(t, "Midnight Elegance", detail.Items[0].Product.Name)

	got, err := store.Get(context.Background(), p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 47, got.Stock)
}

func TestCreateOrderRejections(t *testing.T) {
	ts, store := newTestServer(t)
	p := seedProduct(t, store, "Royal Amber", 156.00, 2)

	header := map[string]any{
		"customerName":    "Jordan Reyes",
		"customerEmail":   "jordan@example.com",
		"totalAmount":     0.0,
		"shippingStreet":  "12 Rue des Fleurs",
		"shippingCity":    "Lyon",
		"shippingState":   "ARA",
		"shippingZipCode": "69001",
		"shippingCountry": "FR",
	}

	status, _ := do(t, http.MethodPost, ts.URL+"/api/orders", map[string]any{
		"order": header,
		"items": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, status, "empty items")

	header["totalAmount"] = 156.00 * 3
	status, _ = do(t, http.MethodPost, ts.URL+"/api/orders", map[string]any{
		"order": header,
		"items": []map[string]any{
			{"productId": p.ID.Hex(), "quantity": 3, "price": 156.00},
		},
	})
	assert.Equal(t, http.StatusConflict, status, "insufficient stock")

	got, err := store.Get(context.Background(), p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock, "rejected order must not touch stock")

	header["totalAmount"] = 1.00
	status, _ = do(t, http.MethodPost, ts.URL+"/api/orders", map[string]any{
		"order": header,
		"items": []map[string]any{
			{"productId": p.ID.Hex(), "quantity": 1, "price": 156.00},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status, "total mismatch")
}

func TestOrderStatusEndpoint(t *testing.T) {
	ts, store := newTestServer(t)
	p := seedProduct(t, store, "Midnight Elegance", 125.00, 50)

	o := &models.Order{
		CustomerName:    "Jordan Reyes",
		CustomerEmail:   "jordan@example.com",
		Total:           125.00,
		ShippingStreet:  "12 Rue des Fleurs",
		ShippingCity:    "Lyon",
		ShippingState:   "ARA",
		ShippingZipCode: "69001",
		ShippingCountry: "FR",
	}
	detail, err := store.InsertOrder(context.Background(), o, []models.OrderLine{
		{ProductID: p.ID.Hex(), Quantity: 1, Price: 125.00},
	})
	require.NoError(t, err)

	url := ts.URL + "/api/orders/" + detail.ID.Hex() + "/status"

	status, _ := do(t, http.MethodPut, url, map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusConflict, status, "pending cannot jump to shipped")

	status, _ = do(t, http.MethodPut, url, map[string]any{"status": "processing"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, http.MethodPut, url, map[string]any{"status": "Paid"})
	assert.Equal(t, http.StatusBadRequest, status, "unknown status string")

	status, _ = do(t, http.MethodPut, ts.URL+"/api/orders/"+primitive.NewObjectID().Hex()+"/status", map[string]any{"status": "processing"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSignupAndLogin(t *testing.T) {
	ts, _ := newTestServer(t)

	payload := map[string]any{
		"firstName": "Nadia",
		"lastName":  "Benali",
		"email":     "nadia@example.com",
		"password":  "correct horse battery",
	}

	status, raw := do(t, http.MethodPost, ts.URL+"/api/auth/signup", payload)
	require.Equal(t, http.StatusCreated, status)
	created := decode[map[string]any](t, raw)
	assert.Equal(t, "nadia@example.com", created["email"])
	assert.NotContains(t, created, "password", "hash never leaves the API")
	assert.NotContains(t, created, "passwordHash")

	status, raw = do(t, http.MethodPost, ts.URL+"/api/auth/signup", payload)
	require.Equal(t, http.StatusBadRequest, status)
	body := decode[map[string]any](t, raw)
	assert.Equal(t, "Email already registered", body["message"])

	status, raw = do(t, http.MethodPost, ts.URL+"/api/auth/login", map[string]any{
		"email": "nadia@example.com", "password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, status)
	logged := decode[map[string]any](t, raw)
	assert.Equal(t, "nadia@example.com", logged["email"])

	wrongStatus, wrongRaw := do(t, http.MethodPost, ts.URL+"/api/auth/login", map[string]any{
		"email": "nadia@example.com", "password": "nope",
	})
	unknownStatus, unknownRaw := do(t, http.MethodPost, ts.URL+"/api/auth/login", map[string]any{
		"email": "nobody@example.com", "password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongStatus)
	assert.Equal(t, http.StatusUnauthorized, unknownStatus)
	assert.Equal(t, string(wrongRaw), string(unknownRaw), "no account enumeration")

	status, _ = do(t, http.MethodPost, ts.URL+"/api/auth/login", map[string]any{"email": "nadia@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCustomerListingOmitsHashes(t *testing.T) {
	ts, store := newTestServer(t)

	_, err := store.InsertCustomer(context.Background(), &models.Customer{
		FirstName: "Nadia", LastName: "Benali", Email: "nadia@example.com",
	}, "correct horse battery")
	require.NoError(t, err)

	status, raw := do(t, http.MethodGet, ts.URL+"/api/customers", nil)
	require.Equal(t, http.StatusOK, status)

	customers := decode[[]map[string]any](t, raw)
	require.Len(t, customers, 1)
	assert.NotContains(t, customers[0], "password")
	assert.NotContains(t, string(raw), "$2a$", "no bcrypt hash in the response body")
}

func TestAdminStatsEndpoint(t *testing.T) {
	ts, store := newTestServer(t)
	ctx := context.Background()

	p := seedProduct(t, store, "Sampler", 10.00, 100)
	_, err := store.InsertCustomer(ctx, &models.Customer{
		FirstName: "Nadia", LastName: "Benali", Email: "nadia@example.com",
	}, "correct horse battery")
	require.NoError(t, err)

	place := func(total float64, qty int) *models.OrderDetail {
		o := &models.Order{
			CustomerName:    "Jordan Reyes",
			CustomerEmail:   "jordan@example.com",
			Total:           total,
			ShippingStreet:  "12 Rue des Fleurs",
			ShippingCity:    "Lyon",
			ShippingState:   "ARA",
			ShippingZipCode: "69001",
			ShippingCountry: "FR",
		}
		d, err := store.InsertOrder(ctx, o, []models.OrderLine{
			{ProductID: p.ID.Hex(), Quantity: qty, Price: total / float64(qty)},
		})
		require.NoError(t, err)
		return d
	}

	place(10.00, 1)
	place(20.00, 2)
	cancelled := place(5.00, 1)
	require.NoError(t, store.UpdateOrderStatus(ctx, cancelled.ID.Hex(), models.StatusCancelled))

	status, raw := do(t, http.MethodGet, ts.URL+"/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, status)

	stats := decode[map[string]float64](t, raw)
	assert.Equal(t, 30.00, stats["totalSales"])
	assert.Equal(t, 3.0, stats["totalOrders"])
	assert.Equal(t, 2.0, stats["pendingOrders"])
	assert.Equal(t, 0.0, stats["completedOrders"])
	assert.Equal(t, 1.0, stats["totalProducts"])
	assert.Equal(t, 1.0, stats["totalCustomers"])
}

func TestContactMessageEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	status, raw := do(t, http.MethodPost, ts.URL+"/api/contact-messages", map[string]any{
		"name":    "Jordan Reyes",
		"email":   "jordan@example.com",
		"message": "Do you ship to Canada?",
	})
	require.Equal(t, http.StatusCreated, status)
	msg := decode[models.ContactMessage](t, raw)
	assert.False(t, msg.IsRead)
	assert.Equal(t, "Contact Form Message", msg.Subject)

	readURL := ts.URL + "/api/contact-messages/" + msg.ID.Hex() + "/read"
	status, _ = do(t, http.MethodPut, readURL, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, http.MethodPut, readURL, nil)
	assert.Equal(t, http.StatusOK, status, "marking read twice succeeds")

	status, raw = do(t, http.MethodGet, ts.URL+"/api/contact-messages", nil)
	require.Equal(t, http.StatusOK, status)
	all := decode[[]models.ContactMessage](t, raw)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsRead)

	status, _ = do(t, http.MethodPost, ts.URL+"/api/contact-messages", map[string]any{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthcheck(t *testing.T) {
	ts, _ := newTestServer(t)

	status, raw := do(t, http.MethodGet, ts.URL+"/health", nil)
	require.Equal(t, http.StatusOK, status)
	body := decode[map[string]string](t, raw)
	assert.Equal(t, "available", body["status"])
}
