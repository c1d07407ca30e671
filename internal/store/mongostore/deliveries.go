// server/internal/store/mongostore/deliveries.go
package mongostore

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type DeliveryStore struct {
	col *mongo.Collection
}

var _ store.DeliveryStore = (*DeliveryStore)(nil)

func NewDeliveryStore(db *mongo.Database) *DeliveryStore {
	return &DeliveryStore{col: db.Collection("deliveries")}
}

func (s *DeliveryStore) Insert(ctx context.Context, d *models.Delivery) (string, error) {
	if d.ID == "" {
		d.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.col.InsertOne(ctx, d); err != nil {
		return "", err
	}
	return d.ID, nil
}

func (s *DeliveryStore) FindByID(ctx context.Context, id string) (*models.Delivery, error) {
	var d models.Delivery
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DeliveryStore) List(ctx context.Context, f store.DeliveryFilter) ([]models.Delivery, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"confirmationId": re},
			bson.M{"quoteIdExt": re},
			bson.M{"quoteId": re},
			bson.M{"trackingCode": re},
			bson.M{"userSub": re},
		}
	}

	opts := options.Find().SetSort(bson.M{"receivedAt": -1})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Delivery
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DeliveryStore) SetStatus(ctx context.Context, id string, status models.DeliveryStatus, notes string) error {
	set := bson.M{"status": status}
	if notes != "" {
		set["notes"] = notes
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
