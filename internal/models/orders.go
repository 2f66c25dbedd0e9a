package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"avance/internal/cache"
)

const defaultPaymentMethod = "Credit Card"

type OrderModel struct {
	Orders   *mongo.Collection
	Items    *mongo.Collection
	Products *mongo.Collection
	Cache    *cache.Cache
}

// Insert persists the order header, one item document per line and the per-line
// stock decrements inside a single multi-document transaction. Any failure
// aborts the whole transaction, so no partial order is ever visible. Stock is
// decremented conditionally and an order line exceeding the available stock
// fails the order with ErrInsufficientStock.
func (m *OrderModel) Insert(ctx context.Context, o *Order, lines []OrderLine) (*OrderDetail, error) {
	if err := ValidateOrder(o, lines); err != nil {
		return nil, err
	}

	pids := make([]primitive.ObjectID, len(lines))
	for i, ln := range lines {
		oid, err := primitive.ObjectIDFromHex(ln.ProductID)
		if err != nil {
			ve := NewValidationError()
			ve.Add(fmt.Sprintf("items.%d.productId", i), "must be a valid product id")
			return nil, ve
		}
		pids[i] = oid
	}

	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = defaultPaymentMethod
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	sess, err := m.Orders.Database().Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := m.Orders.InsertOne(sc, o); err != nil {
			return nil, err
		}

		for i, ln := range lines {
			item := OrderItem{
				ID:        primitive.NewObjectID(),
				OrderID:   o.ID,
				ProductID: pids[i],
				Quantity:  ln.Quantity,
				Price:     ln.Price,
			}
			if _, err := m.Items.InsertOne(sc, item); err != nil {
				return nil, err
			}

			res, err := m.Products.UpdateOne(sc,
				bson.M{"_id": pids[i], "stock": bson.M{"$gte": ln.Quantity}},
				bson.M{"$inc": bson.M{"stock": -ln.Quantity}, "$set": bson.M{"updated_at": now}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				if err := m.Products.FindOne(sc, bson.M{"_id": pids[i]}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
					return nil, ErrNoRecord
				}
				return nil, ErrInsufficientStock
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	m.Cache.Delete(ctx, cacheKeyActiveProducts)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return m.assemble(ctx, *o)
}

func (m *OrderModel) Get(ctx context.Context, id string) (*OrderDetail, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoRecord
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o Order
	err = m.Orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return m.assemble(ctx, o)
}

// All returns every order with its items and product snapshots, newest first.
func (m *OrderModel) All(ctx context.Context) ([]OrderDetail, error) {
	return m.list(ctx, bson.M{})
}

func (m *OrderModel) ByCustomer(ctx context.Context, customerID string) ([]OrderDetail, error) {
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, ErrNoRecord
	}
	return m.list(ctx, bson.M{"customer_id": oid})
}

func (m *OrderModel) list(ctx context.Context, filter bson.M) ([]OrderDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.Orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []Order
	if err = cur.All(ctx, &orders); err != nil {
		return nil, err
	}

	details := make([]OrderDetail, 0, len(orders))
	for _, o := range orders {
		d, err := m.assemble(ctx, o)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// assemble reads back the persisted items for an order and joins each one with
// the catalog entry it references.
func (m *OrderModel) assemble(ctx context.Context, o Order) (*OrderDetail, error) {
	cur, err := m.Items.Find(ctx, bson.M{"order_id": o.ID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []OrderItem
	if err = cur.All(ctx, &items); err != nil {
		return nil, err
	}

	pids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		pids = append(pids, it.ProductID)
	}

	byID := make(map[primitive.ObjectID]*Product, len(pids))
	if len(pids) > 0 {
		pcur, err := m.Products.Find(ctx, bson.M{"_id": bson.M{"$in": pids}})
		if err != nil {
			return nil, err
		}
		defer pcur.Close(ctx)

		var products []Product
		if err = pcur.All(ctx, &products); err != nil {
			return nil, err
		}
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
	}

	detail := &OrderDetail{Order: o, Items: make([]OrderItemDetail, 0, len(items))}
	for _, it := range items {
		detail.Items = append(detail.Items, OrderItemDetail{OrderItem: it, Product: byID[it.ProductID]})
	}
	return detail, nil
}

// UpdateStatus applies a transition-checked status change as one conditional
// write: the filter only matches when the current status is a legal
// predecessor of the new one.
func (m *OrderModel) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	if !status.Valid() {
		ve := NewValidationError()
		ve.Add("status", "must be a valid order status")
		return ve
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoRecord
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := m.Orders.UpdateOne(ctx,
		bson.M{"_id": oid, "status": bson.M{"$in": StatusPredecessors(status)}},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := m.Orders.FindOne(ctx, bson.M{"_id": oid}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNoRecord
		}
		return ErrInvalidTransition
	}
	return nil
}

// Stats aggregates the fleet-wide order counters in a single pipeline so the
// numbers come from one consistent pass. Cancelled orders count toward
// totalOrders but are excluded from totalSales.
func (m *OrderModel) Stats(ctx context.Context) (*OrderStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":          nil,
			"total_orders": bson.M{"$sum": 1},
			"pending_orders": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", StatusPending}}, 1, 0},
			}},
			"completed_orders": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", StatusDelivered}}, 1, 0},
			}},
			"total_sales": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$ne": bson.A{"$status", StatusCancelled}}, "$total", 0},
			}},
		}},
	}

	cur, err := m.Orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []OrderStats
	if err = cur.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &OrderStats{}, nil
	}
	return &results[0], nil
}

func (m *OrderModel) CountStalePending(ctx context.Context, olderThan time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return m.Orders.CountDocuments(ctx, bson.M{
		"status":     StatusPending,
		"created_at": bson.M{"$lt": olderThan},
	})
}
