package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type CustomerModel struct {
	C *mongo.Collection
}

// Insert registers a customer. Uniqueness of the email is enforced by the
// unique index, so a concurrent duplicate signup surfaces as a duplicate-key
// error here rather than a second document.
func (m *CustomerModel) Insert(ctx context.Context, c *Customer, password string) (*Customer, error) {
	if err := ValidateCustomer(c, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.PasswordHash = string(hash)
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := m.C.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return c, nil
}

// Authenticate returns the customer for a matching email/password pair. An
// unknown email and a wrong password both yield ErrInvalidCredentials so
// callers cannot enumerate accounts.
func (m *CustomerModel) Authenticate(ctx context.Context, email, password string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Customer
	err := m.C.FindOne(ctx, bson.M{"email": email}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &c, nil
}

func (m *CustomerModel) Get(ctx context.Context, id string) (*Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoRecord
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c Customer
	err = m.C.FindOne(ctx, bson.M{"_id": oid}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &c, nil
}

func (m *CustomerModel) All(ctx context.Context) ([]Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.C.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	customers := []Customer{}
	if err = cur.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (m *CustomerModel) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return m.C.CountDocuments(ctx, bson.M{})
}
