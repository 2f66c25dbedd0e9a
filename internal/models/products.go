package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"avance/internal/cache"
)

// cacheKeyActiveProducts holds the full uncategorized active listing. Category
// queries always hit the store.
const cacheKeyActiveProducts = "products:active"

type ProductModel struct {
	C     *mongo.Collection
	Cache *cache.Cache
}

// Latest returns active products, newest first. When category is non-empty the
// listing is further restricted to an exact category match.
func (m *ProductModel) Latest(ctx context.Context, category string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if category == "" {
		if raw, ok := m.Cache.Get(ctx, cacheKeyActiveProducts); ok {
			var cached []Product
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	filter := bson.M{"is_active": true}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.C.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []Product{}
	if err = cur.All(ctx, &products); err != nil {
		return nil, err
	}

	if category == "" {
		if raw, err := json.Marshal(products); err == nil {
			m.Cache.Set(ctx, cacheKeyActiveProducts, raw)
		}
	}
	return products, nil
}

// Get returns any product by id, active or not, so historical orders can
// still resolve their snapshots. A malformed id is a not-found outcome.
func (m *ProductModel) Get(ctx context.Context, id string) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoRecord
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Product
	err = m.C.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &p, nil
}

func (m *ProductModel) Insert(ctx context.Context, p *Product) (*Product, error) {
	if err := ValidateProduct(p); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := m.C.InsertOne(ctx, p); err != nil {
		return nil, err
	}
	m.Cache.Delete(ctx, cacheKeyActiveProducts)
	return p, nil
}

// Update applies only the supplied fields and always refreshes updated_at.
func (m *ProductModel) Update(ctx context.Context, id string, upd ProductUpdate) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoRecord
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.ImageURL != nil {
		set["image"] = *upd.ImageURL
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	if upd.ReviewCount != nil {
		set["review_count"] = *upd.ReviewCount
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p Product
	err = m.C.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	m.Cache.Delete(ctx, cacheKeyActiveProducts)
	return &p, nil
}

// Deactivate soft-deletes a product. Deactivating twice succeeds both times.
func (m *ProductModel) Deactivate(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoRecord
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := m.C.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	m.Cache.Delete(ctx, cacheKeyActiveProducts)
	return nil
}

func (m *ProductModel) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return m.C.CountDocuments(ctx, bson.M{"is_active": true})
}
