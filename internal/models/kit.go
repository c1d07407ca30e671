// server/internal/models/kit.go
package models

import "time"

// Kit is a dispatched shipping package. Immutable once created.
type Kit struct {
	ID           string           `bson:"_id,omitempty" json:"_id,omitempty"`
	QuoteIDExt   string           `bson:"quoteIdExt" json:"quoteIdExt"`
	QuoteID      string           `bson:"quoteId,omitempty" json:"quoteId,omitempty"`
	ReportID     string           `bson:"reportId,omitempty" json:"reportId,omitempty"`
	ModelIDExt   string           `bson:"modelIdExt,omitempty" json:"modelIdExt,omitempty"`
	Shipping     *ShippingAddress `bson:"shipping,omitempty" json:"shipping,omitempty"`
	Carrier      string           `bson:"carrier" json:"carrier"`
	TrackingCode string           `bson:"trackingCode" json:"trackingCode"`
	LabelURL     string           `bson:"labelUrl" json:"labelUrl"`
	Status       string           `bson:"status" json:"status"`
	CreatedAt    time.Time        `bson:"createdAt" json:"createdAt"`
}
