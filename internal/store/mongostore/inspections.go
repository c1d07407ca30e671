// server/internal/store/mongostore/inspections.go
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

type InspectionStore struct {
	col *mongo.Collection
}

var _ store.InspectionStore = (*InspectionStore)(nil)

func NewInspectionStore(db *mongo.Database) *InspectionStore {
	return &InspectionStore{col: db.Collection("inspections")}
}

func (s *InspectionStore) FindByID(ctx context.Context, id string) (*models.Inspection, error) {
	var ins models.Inspection
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ins)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

func (s *InspectionStore) List(ctx context.Context, f store.InspectionFilter) ([]models.Inspection, error) {
	filter := bson.M{}
	if !f.AllSources {
		filter["source"] = models.SourceShipment
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"deliveryId": re},
			bson.M{"confirmationId": re},
			bson.M{"quoteIdExt": re},
			bson.M{"quoteId": re},
			bson.M{"userSub": re},
		}
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Inspection
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *InspectionStore) EnsureForDelivery(ctx context.Context, d *models.Delivery, now time.Time) error {
	filter := bson.M{"deliveryId": d.ID, "source": models.SourceShipment}
	update := bson.M{
		// Status and refs refresh on every transition; only the identity and
		// the start/creation times are insert-only.
		"$set": bson.M{
			"confirmationId": d.ConfirmationID,
			"quoteId":        d.QuoteID,
			"quoteIdExt":     d.QuoteIDExt,
			"modelIdExt":     d.ModelIDExt,
			"userSub":        d.UserSub,
			"status":         models.InspectionInProgress,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID().Hex(),
			"source":     models.SourceShipment,
			"deliveryId": d.ID,
			"startedAt":  now,
			"createdAt":  now,
		},
	}

	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *InspectionStore) CloseAllForDelivery(ctx context.Context, deliveryID string, now time.Time) (int64, error) {
	filter := bson.M{
		"deliveryId": deliveryID,
		"source":     models.SourceShipment,
		"status":     bson.M{"$ne": models.InspectionClosed},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.InspectionClosed,
		"closedAt":  now,
		"updatedAt": now,
	}}

	res, err := s.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *InspectionStore) SetStatus(ctx context.Context, id string, status models.InspectionStatus, notes string, closedAt *time.Time) error {
	set := bson.M{"status": status, "updatedAt": time.Now().UTC()}
	if notes != "" {
		set["notes"] = notes
	}
	if closedAt != nil {
		set["closedAt"] = closedAt
	}
	return s.updateOne(ctx, id, bson.M{"$set": set})
}

func (s *InspectionStore) SaveAssessment(ctx context.Context, id string, deviceType string, risk *models.RiskAssessment, findings []models.Finding) error {
	set := bson.M{
		"deviceType": deviceType,
		"risk":       risk,
		"findings":   findings,
		"updatedAt":  time.Now().UTC(),
	}
	return s.updateOne(ctx, id, bson.M{"$set": set})
}

func (s *InspectionStore) SetOffer(ctx context.Context, id string, offer *models.CounterOffer) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"offer":     offer,
		"updatedAt": time.Now().UTC(),
	}})
}

func (s *InspectionStore) SetPayment(ctx context.Context, id string, p *models.PaymentRecord) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"payment":   p,
		"updatedAt": time.Now().UTC(),
	}})
}

func (s *InspectionStore) SetResolution(ctx context.Context, id string, res store.Resolution) error {
	set := bson.M{
		"status":    res.Status,
		"notes":     res.Notes,
		"updatedAt": time.Now().UTC(),
	}
	if res.Decision != "" {
		set["decision"] = res.Decision
	}
	if res.DecisionReason != "" {
		set["decisionReason"] = res.DecisionReason
	}
	if res.Checklist != nil {
		set["checklist"] = res.Checklist
	}
	if res.ClosedAt != nil {
		set["closedAt"] = res.ClosedAt
	}
	return s.updateOne(ctx, id, bson.M{"$set": set})
}

func (s *InspectionStore) AddPhoto(ctx context.Context, id string, url string) error {
	return s.updateOne(ctx, id, bson.M{
		"$push": bson.M{"photos": url},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *InspectionStore) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
