// server/internal/models/delivery.go
package models

import "time"

type DeliveryStatus string

const (
	DeliveryReceived     DeliveryStatus = "RECEIVED"
	DeliveryInInspection DeliveryStatus = "IN_INSPECTION"
	DeliveryClosed       DeliveryStatus = "CLOSED"
)

// ValidDeliveryStatus reports whether s is one of the three delivery states.
func ValidDeliveryStatus(s DeliveryStatus) bool {
	switch s {
	case DeliveryReceived, DeliveryInInspection, DeliveryClosed:
		return true
	}
	return false
}

// Delivery records the physical arrival of a device. The confirmation/quote
// references are a denormalized snapshot taken at receive time so the record
// stays stable even if the Confirmation changes later.
type Delivery struct {
	ID             string         `bson:"_id,omitempty" json:"_id,omitempty"`
	ConfirmationID string         `bson:"confirmationId,omitempty" json:"confirmationId,omitempty"`
	QuoteID        string         `bson:"quoteId,omitempty" json:"quoteId,omitempty"`
	QuoteIDExt     string         `bson:"quoteIdExt,omitempty" json:"quoteIdExt,omitempty"`
	ModelIDExt     string         `bson:"modelIdExt,omitempty" json:"modelIdExt,omitempty"`
	UserSub        string         `bson:"userSub,omitempty" json:"userSub,omitempty"`
	TrackingCode   string         `bson:"trackingCode,omitempty" json:"trackingCode,omitempty"`
	ReceivedAt     time.Time      `bson:"receivedAt" json:"receivedAt"`
	Status         DeliveryStatus `bson:"status" json:"status"`
	Notes          string         `bson:"notes,omitempty" json:"notes,omitempty"`
	Items          []DeliveryItem `bson:"items,omitempty" json:"items,omitempty"`
}
