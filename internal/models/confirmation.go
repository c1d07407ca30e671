// server/internal/models/confirmation.go
package models

import "time"

type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "PENDING"
	ConfirmationProcessed ConfirmationStatus = "PROCESSED"
)

// Confirmation records a user's acceptance of a shipping-kit offer.
// ProcessedAt is non-nil iff Status is PROCESSED.
type Confirmation struct {
	ID          string             `bson:"_id,omitempty" json:"_id,omitempty"`
	InboxID     string             `bson:"inboxId,omitempty" json:"inboxId,omitempty"`
	UserSub     string             `bson:"userSub,omitempty" json:"userSub,omitempty"`
	QuoteID     string             `bson:"quoteId,omitempty" json:"quoteId,omitempty"`
	QuoteIDExt  string             `bson:"quoteIdExt,omitempty" json:"quoteIdExt,omitempty"`
	ReportID    string             `bson:"reportId,omitempty" json:"reportId,omitempty"`
	ModelIDExt  string             `bson:"modelIdExt,omitempty" json:"modelIdExt,omitempty"`
	Shipping    ShippingAddress    `bson:"shipping" json:"shipping"`
	Status      ConfirmationStatus `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	ProcessedAt *time.Time         `bson:"processedAt" json:"processedAt"`
}
