package main

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"avance/internal/models"
)

// --- products ---

func (app *application) listProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	products, err := app.products.Latest(r.Context(), category)
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, products)
}

func (app *application) showProduct(w http.ResponseWriter, r *http.Request) {
	p, err := app.products.Get(r.Context(), app.idParam(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, p)
}

type productPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"averageRating"`
	ReviewCount int     `json:"totalReviews"`
}

func (app *application) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := app.readJSON(w, r, &payload); err != nil {
		app.badRequest(w, err)
		return
	}

	p := &models.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		ImageURL:    payload.ImageURL,
		Stock:       payload.Stock,
		Rating:      payload.Rating,
		ReviewCount: payload.ReviewCount,
	}
	created, err := app.products.Insert(r.Context(), p)
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

type productUpdatePayload struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"imageUrl"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"isActive"`
	Rating      *float64 `json:"averageRating"`
	ReviewCount *int     `json:"totalReviews"`
}

func (app *application) updateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productUpdatePayload
	if err := app.readJSON(w, r, &payload); err != nil {
		app.badRequest(w, err)
		return
	}

	upd := models.ProductUpdate{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		ImageURL:    payload.ImageURL,
		Stock:       payload.Stock,
		IsActive:    payload.IsActive,
		Rating:      payload.Rating,
		ReviewCount: payload.ReviewCount,
	}
	p, err := app.products.Update(r.Context(), app.idParam(r), upd)
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, p)
}

func (app *application) deactivateProduct(w http.ResponseWriter, r *http.Request) {
	if err := app.products.Deactivate(r.Context(), app.idParam(r)); err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Product deleted successfully"})
}

// --- customers & auth ---

func (app *application) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := app.customers.All(r.Context())
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, customers)
}

func (app *application) showCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := app.customers.Get(r.Context(), app.idParam(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, c)
}

type customerPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

func (app *application) createCustomer(w http.ResponseWriter, r *http.Request) {
	var payload customerPayload
	if err := app.readJSON(w, r, &payload); err != nil {
		app.badRequest(w, err)
		return
	}

	c := &models.Customer{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Address:   payload.Address,
		City:      payload.City,
		State:     payload.State,
		ZipCode:   payload.ZipCode,
		Country:   payload.Country,
	}
	created, err := app.customers.Insert(r.Context(), c, payload.Password)
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

func (app *application) loginCustomer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.badRequest(w, err)
		return
	}
	if payload.Email == "" || payload.Password == "" {
		app.errorMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	c, err := app.customers.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, c)
}

// --- orders ---

func (app *application) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := app.orders.All(r.Context())
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, orders)
}

func (app *application) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := app.orders.ByCustomer(r.Context(), app.idParam(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, orders)
}

func (app *application) showOrder(w http.ResponseWriter, r *http.Request) {
	detail, err := app.orders.Get(r.Context(), app.idParam(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, detail)
}

type orderPayload struct {
	CustomerID      string  `json:"customerId"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	Status          string  `json:"status"`
	TotalAmount     float64 `json:"totalAmount"`
	ShippingStreet  string  `json:"shippingStreet"`
	ShippingCity    string  `json:"shippingCity"`
	ShippingState   string  `json:"shippingState"`
	ShippingZipCode string  `json:"shippingZipCode"`
	ShippingCountry string  `json:"shippingCountry"`
}

type createOrderRequest struct {
	Order orderPayload       `json:"order"`
	Items []models.OrderLine `json:"items"`
}

func (app *application) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.badRequest(w, err)
		return
	}

	o := &models.Order{
		CustomerName:    req.Order.CustomerName,
		CustomerEmail:   req.Order.CustomerEmail,
		CustomerPhone:   req.Order.CustomerPhone,
		Status:          models.OrderStatus(req.Order.Status),
		Total:           req.Order.TotalAmount,
		ShippingStreet:  req.Order.ShippingStreet,
		ShippingCity:    req.Order.ShippingCity,
		ShippingState:   req.Order.ShippingState,
		ShippingZipCode: req.Order.ShippingZipCode,
		ShippingCountry: req.Order.ShippingCountry,
	}
	if req.Order.CustomerID != "" {
		cid, err := primitive.ObjectIDFromHex(req.Order.CustomerID)
		if err != nil {
			ve := models.NewValidationError()
			ve.Add("customerId", "must be a valid customer id")
			app.failedValidation(w, ve)
			return
		}
		o.CustomerID = &cid
	}

	detail, err := app.orders.Insert(r.Context(), o, req.Items)
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.metrics.ordersCreated.Inc()
	app.writeJSON(w, http.StatusCreated, detail)
}

func (app *application) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.badRequest(w, err)
		return
	}

	err := app.orders.UpdateStatus(r.Context(), app.idParam(r), models.OrderStatus(payload.Status))
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Order status updated successfully"})
}

// --- admin ---

func (app *application) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := app.orders.Stats(r.Context())
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	totalProducts, err := app.products.CountActive(r.Context())
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	totalCustomers, err := app.customers.Count(r.Context())
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, envelope{
		"totalSales":      stats.TotalSales,
		"totalOrders":     stats.TotalOrders,
		"pendingOrders":   stats.PendingOrders,
		"completedOrders": stats.CompletedOrders,
		"totalProducts":   totalProducts,
		"totalCustomers":  totalCustomers,
	})
}

// --- contact messages ---

func (app *application) listContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := app.contacts.All(r.Context())
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, messages)
}

func (app *application) createContactMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.badRequest(w, err)
		return
	}

	msg := &models.ContactMessage{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Message: payload.Message,
	}
	created, err := app.contacts.Insert(r.Context(), msg)
	if err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, created)
}

func (app *application) markMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := app.contacts.MarkRead(r.Context(), app.idParam(r)); err != nil {
		app.storeError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, envelope{"message": "Message marked as read"})
}

func (app *application) healthcheck(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, envelope{"status": "available"})
}
