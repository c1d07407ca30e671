// server/internal/models/inspection.go
package models

import "time"

type InspectionStatus string

const (
	InspectionInProgress InspectionStatus = "IN_INSPECTION"
	InspectionPassed     InspectionStatus = "PASSED"
	InspectionFailed     InspectionStatus = "FAILED"
	InspectionClosed     InspectionStatus = "CLOSED"
)

// ValidInspectionStatus reports whether s is one of the four inspection states.
func ValidInspectionStatus(s InspectionStatus) bool {
	switch s {
	case InspectionInProgress, InspectionPassed, InspectionFailed, InspectionClosed:
		return true
	}
	return false
}

// SourceShipment tags inspections spawned by the trade-in delivery workflow, as
// opposed to inspections created from any other origin sharing the collection.
const SourceShipment = "SHIPMENT"

type OfferStatus string

const (
	OfferNone     OfferStatus = "NONE"
	OfferSent     OfferStatus = "SENT"
	OfferAccepted OfferStatus = "ACCEPTED"
	OfferRejected OfferStatus = "REJECTED"
)

type Decision string

const (
	DecisionResell  Decision = "RESELL"
	DecisionRecycle Decision = "RECYCLE"
)

// RiskAssessment is the score derived from the user's self-reported answers.
type RiskAssessment struct {
	Score   int      `bson:"score" json:"score"`
	Level   string   `bson:"level" json:"level"`
	Reasons []string `bson:"reasons,omitempty" json:"reasons,omitempty"`
}

// ChecklistEntry is one named test item the admin toggles during review.
type ChecklistEntry struct {
	Key   string `bson:"key" json:"key"`
	Label string `bson:"label" json:"label"`
	Done  bool   `bson:"done" json:"done"`
}

// CounterOffer tracks the negotiation sub-state. It moves NONE -> SENT and then
// to ACCEPTED or REJECTED, independently of the inspection status.
type CounterOffer struct {
	Amount      float64     `bson:"amount" json:"amount"`
	Currency    string      `bson:"currency" json:"currency"`
	Status      OfferStatus `bson:"status" json:"status"`
	SentAt      *time.Time  `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	RespondedAt *time.Time  `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
}

// PaymentRecord is the payout registered against the ledger for this device.
type PaymentRecord struct {
	Amount   float64   `bson:"amount" json:"amount"`
	Currency string    `bson:"currency" json:"currency"`
	Method   string    `bson:"method" json:"method"`
	PayoutID string    `bson:"payoutId,omitempty" json:"payoutId,omitempty"`
	PaidAt   time.Time `bson:"paidAt" json:"paidAt"`
}

// Inspection covers the technical and commercial review of one delivered
// device: risk assessment, decision, negotiation and payment.
type Inspection struct {
	ID             string           `bson:"_id,omitempty" json:"_id,omitempty"`
	Source         string           `bson:"source" json:"source"`
	DeliveryID     string           `bson:"deliveryId,omitempty" json:"deliveryId,omitempty"`
	ConfirmationID string           `bson:"confirmationId,omitempty" json:"confirmationId,omitempty"`
	QuoteID        string           `bson:"quoteId,omitempty" json:"quoteId,omitempty"`
	QuoteIDExt     string           `bson:"quoteIdExt,omitempty" json:"quoteIdExt,omitempty"`
	ModelIDExt     string           `bson:"modelIdExt,omitempty" json:"modelIdExt,omitempty"`
	UserSub        string           `bson:"userSub,omitempty" json:"userSub,omitempty"`
	StartedAt      *time.Time       `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	ClosedAt       *time.Time       `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	Status         InspectionStatus `bson:"status" json:"status"`
	Notes          string           `bson:"notes,omitempty" json:"notes,omitempty"`
	Findings       []Finding        `bson:"findings,omitempty" json:"findings,omitempty"`
	DeviceType     string           `bson:"deviceType,omitempty" json:"deviceType,omitempty"`
	Risk           *RiskAssessment  `bson:"risk,omitempty" json:"risk,omitempty"`
	Checklist      []ChecklistEntry `bson:"checklist,omitempty" json:"checklist,omitempty"`
	Decision       Decision         `bson:"decision,omitempty" json:"decision,omitempty"`
	DecisionReason string           `bson:"decisionReason,omitempty" json:"decisionReason,omitempty"`
	Offer          *CounterOffer    `bson:"offer,omitempty" json:"offer,omitempty"`
	Payment        *PaymentRecord   `bson:"payment,omitempty" json:"payment,omitempty"`
	Photos         []string         `bson:"photos,omitempty" json:"photos,omitempty"`
	CreatedAt      time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// OfferState returns the negotiation state, defaulting to NONE when no
// counter-offer has ever been sent.
func (i *Inspection) OfferState() OfferStatus {
	if i.Offer == nil || i.Offer.Status == "" {
		return OfferNone
	}
	return i.Offer.Status
}
