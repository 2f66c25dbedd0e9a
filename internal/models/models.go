package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	ImageURL    string             `bson:"image" json:"imageUrl"`
	Stock       int                `bson:"stock" json:"stock"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	Rating      float64            `bson:"rating" json:"averageRating"`
	ReviewCount int                `bson:"review_count" json:"totalReviews"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type Customer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"first_name" json:"firstName"`
	LastName     string             `bson:"last_name" json:"lastName"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	State        string             `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode      string             `bson:"zip_code,omitempty" json:"zipCode,omitempty"`
	Country      string             `bson:"country,omitempty" json:"country,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerID      *primitive.ObjectID `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	CustomerName    string              `bson:"customer_name" json:"customerName"`
	CustomerEmail   string              `bson:"customer_email" json:"customerEmail"`
	CustomerPhone   string              `bson:"customer_phone,omitempty" json:"customerPhone,omitempty"`
	Status          OrderStatus         `bson:"status" json:"status"`
	Total           float64             `bson:"total" json:"totalAmount"`
	ShippingStreet  string              `bson:"shipping_street" json:"shippingStreet"`
	ShippingCity    string              `bson:"shipping_city" json:"shippingCity"`
	ShippingState   string              `bson:"shipping_state" json:"shippingState"`
	ShippingZipCode string              `bson:"shipping_zip_code" json:"shippingZipCode"`
	ShippingCountry string              `bson:"shipping_country" json:"shippingCountry"`
	PaymentMethod   string              `bson:"payment_method" json:"paymentMethod"`
	CreatedAt       time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updatedAt"`
}

type OrderItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID   primitive.ObjectID `bson:"order_id" json:"orderId"`
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

// OrderLine is one product+quantity+price entry of an incoming order request.
// Price is the caller-supplied purchase-time snapshot, not the current catalog
// price.
type OrderLine struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderItemDetail pairs a persisted item with the catalog entry it references.
type OrderItemDetail struct {
	OrderItem
	Product *Product `json:"product"`
}

type OrderDetail struct {
	Order
	Items []OrderItemDetail `json:"items"`
}

type OrderStats struct {
	TotalSales      float64 `bson:"total_sales" json:"totalSales"`
	TotalOrders     int64   `bson:"total_orders" json:"totalOrders"`
	PendingOrders   int64   `bson:"pending_orders" json:"pendingOrders"`
	CompletedOrders int64   `bson:"completed_orders" json:"completedOrders"`
}

type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	IsRead    bool               `bson:"is_read" json:"isRead"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// ProductUpdate carries a partial product edit. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
	Stock       *int
	IsActive    *bool
	Rating      *float64
	ReviewCount *int
}

type ProductStore interface {
	Latest(ctx context.Context, category string) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Insert(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, id string, upd ProductUpdate) (*Product, error)
	Deactivate(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
}

type OrderStore interface {
	Insert(ctx context.Context, o *Order, lines []OrderLine) (*OrderDetail, error)
	Get(ctx context.Context, id string) (*OrderDetail, error)
	All(ctx context.Context) ([]OrderDetail, error)
	ByCustomer(ctx context.Context, customerID string) ([]OrderDetail, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
	Stats(ctx context.Context) (*OrderStats, error)
	CountStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}

type CustomerStore interface {
	Insert(ctx context.Context, c *Customer, password string) (*Customer, error)
	Authenticate(ctx context.Context, email, password string) (*Customer, error)
	Get(ctx context.Context, id string) (*Customer, error)
	All(ctx context.Context) ([]Customer, error)
	Count(ctx context.Context) (int64, error)
}

type ContactStore interface {
	Insert(ctx context.Context, m *ContactMessage) (*ContactMessage, error)
	All(ctx context.Context) ([]ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
}
