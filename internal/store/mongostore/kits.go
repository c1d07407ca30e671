// server/internal/store/mongostore/kits.go
package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type KitStore struct {
	col *mongo.Collection
}

var _ store.KitStore = (*KitStore)(nil)

func NewKitStore(db *mongo.Database) *KitStore {
	return &KitStore{col: db.Collection("kits")}
}

func (s *KitStore) Insert(ctx context.Context, k *models.Kit) (string, error) {
	if k.ID == "" {
		k.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.col.InsertOne(ctx, k); err != nil {
		return "", err
	}
	return k.ID, nil
}

func (s *KitStore) LatestTrackingForQuote(ctx context.Context, quoteID, quoteIDExt string) (string, error) {
	or := bson.A{}
	if quoteIDExt != "" {
		or = append(or, bson.M{"quoteIdExt": quoteIDExt})
	}
	if quoteID != "" {
		or = append(or, bson.M{"quoteId": quoteID})
	}
	if len(or) == 0 {
		return "", nil
	}

	opts := options.FindOne().SetSort(bson.M{"createdAt": -1})
	var k models.Kit
	err := s.col.FindOne(ctx, bson.M{"$or": or}, opts).Decode(&k)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return k.TrackingCode, nil
}
