package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultContactSubject = "Contact Form Message"

type ContactModel struct {
	C *mongo.Collection
}

func (m *ContactModel) Insert(ctx context.Context, msg *ContactMessage) (*ContactMessage, error) {
	if err := ValidateContactMessage(msg); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	msg.ID = primitive.NewObjectID()
	if msg.Subject == "" {
		msg.Subject = defaultContactSubject
	}
	msg.IsRead = false
	msg.CreatedAt = time.Now().UTC()

	if _, err := m.C.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *ContactModel) All(ctx context.Context) ([]ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.C.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	messages := []ContactMessage{}
	if err = cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags a message as read. Marking an already-read message succeeds.
func (m *ContactModel) MarkRead(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNoRecord
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := m.C.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}
