// server/internal/store/mongostore/quotes.go
package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type QuoteStore struct {
	col *mongo.Collection
}

var _ store.QuoteStore = (*QuoteStore)(nil)

func NewQuoteStore(db *mongo.Database) *QuoteStore {
	return &QuoteStore{col: db.Collection("quotes")}
}

func (s *QuoteStore) Insert(ctx context.Context, q *models.Quote) (string, error) {
	if q.ID == "" {
		q.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.col.InsertOne(ctx, q); err != nil {
		return "", err
	}
	return q.ID, nil
}

func (s *QuoteStore) FindByID(ctx context.Context, id string) (*models.Quote, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *QuoteStore) FindByExtID(ctx context.Context, ext string) (*models.Quote, error) {
	return s.findOne(ctx, bson.M{"extId": ext})
}

func (s *QuoteStore) findOne(ctx context.Context, filter bson.M) (*models.Quote, error) {
	var q models.Quote
	err := s.col.FindOne(ctx, filter).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}
