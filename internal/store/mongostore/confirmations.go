// server/internal/store/mongostore/confirmations.go
package mongostore

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type ConfirmationStore struct {
	col *mongo.Collection
}

var _ store.ConfirmationStore = (*ConfirmationStore)(nil)

func NewConfirmationStore(db *mongo.Database) *ConfirmationStore {
	return &ConfirmationStore{col: db.Collection("confirmations")}
}

func (s *ConfirmationStore) Insert(ctx context.Context, c *models.Confirmation) (string, error) {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.col.InsertOne(ctx, c); err != nil {
		return "", err
	}
	return c.ID, nil
}

func (s *ConfirmationStore) FindByID(ctx context.Context, id string) (*models.Confirmation, error) {
	var c models.Confirmation
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ConfirmationStore) List(ctx context.Context, f store.ConfirmationFilter) ([]models.Confirmation, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"quoteIdExt": re},
			bson.M{"quoteId": re},
			bson.M{"userSub": re},
			bson.M{"shipping.fullName": re},
		}
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Confirmation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConfirmationStore) SetProcessed(ctx context.Context, id string, processed bool, processedAt *time.Time) error {
	status := models.ConfirmationPending
	if processed {
		status = models.ConfirmationProcessed
	}
	update := bson.M{"$set": bson.M{"status": status, "processedAt": processedAt}}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
