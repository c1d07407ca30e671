// server/internal/store/store.go

// Package store defines the typed persistence interfaces the workflow services
// depend on. mongostore implements them against MongoDB; memstore is the
// in-memory twin used by tests.
//
// Status-changing operations are conditional updates: when the target document
// does not match the filter the implementation returns ErrNotFound instead of
// writing, so a losing concurrent writer notices. Field-level last-writer-wins
// remains the accepted trade-off (no version tokens).
package store

import (
	"context"
	"errors"
	"time"

	"reeutil-tradein-api-server/internal/models"
)

var ErrNotFound = errors.New("document not found")

// ConfirmationFilter narrows admin confirmation listings.
type ConfirmationFilter struct {
	Status models.ConfirmationStatus
	Search string
}

type ConfirmationStore interface {
	Insert(ctx context.Context, c *models.Confirmation) (string, error)
	FindByID(ctx context.Context, id string) (*models.Confirmation, error)
	List(ctx context.Context, f ConfirmationFilter) ([]models.Confirmation, error)
	// SetProcessed flips the PENDING/PROCESSED status. processedAt must be
	// non-nil iff processed is true.
	SetProcessed(ctx context.Context, id string, processed bool, processedAt *time.Time) error
}

type KitStore interface {
	Insert(ctx context.Context, k *models.Kit) (string, error)
	// LatestTrackingForQuote returns the tracking code of the most recently
	// created kit correlated by external or internal quote id, or "" if none.
	LatestTrackingForQuote(ctx context.Context, quoteID, quoteIDExt string) (string, error)
}

type DeliveryFilter struct {
	Status models.DeliveryStatus
	Search string
}

type DeliveryStore interface {
	Insert(ctx context.Context, d *models.Delivery) (string, error)
	FindByID(ctx context.Context, id string) (*models.Delivery, error)
	List(ctx context.Context, f DeliveryFilter) ([]models.Delivery, error)
	SetStatus(ctx context.Context, id string, status models.DeliveryStatus, notes string) error
}

type InspectionFilter struct {
	Status models.InspectionStatus
	Search string
	// AllSources lifts the default source=SHIPMENT restriction.
	AllSources bool
}

// Resolution carries everything Finalize persists in one conditional update.
type Resolution struct {
	Status         models.InspectionStatus
	Notes          string
	Decision       models.Decision
	DecisionReason string
	Checklist      []models.ChecklistEntry
	ClosedAt       *time.Time
}

type InspectionStore interface {
	FindByID(ctx context.Context, id string) (*models.Inspection, error)
	List(ctx context.Context, f InspectionFilter) ([]models.Inspection, error)
	// EnsureForDelivery upserts the single inspection keyed by delivery id.
	// Creation-only fields (startedAt, createdAt) are written with insert-only
	// semantics so two concurrent transitions cannot produce two inspections
	// nor reset the start time.
	EnsureForDelivery(ctx context.Context, d *models.Delivery, now time.Time) error
	// CloseAllForDelivery cascades a delivery close: every inspection for the
	// delivery still in IN_INSPECTION/PASSED/FAILED becomes CLOSED.
	CloseAllForDelivery(ctx context.Context, deliveryID string, now time.Time) (int64, error)
	SetStatus(ctx context.Context, id string, status models.InspectionStatus, notes string, closedAt *time.Time) error
	// SaveAssessment persists the computed review context (device type, risk,
	// normalized findings) so finalize does not depend on the quote provider.
	SaveAssessment(ctx context.Context, id string, deviceType string, risk *models.RiskAssessment, findings []models.Finding) error
	SetOffer(ctx context.Context, id string, offer *models.CounterOffer) error
	SetPayment(ctx context.Context, id string, p *models.PaymentRecord) error
	SetResolution(ctx context.Context, id string, res Resolution) error
	AddPhoto(ctx context.Context, id string, url string) error
}

type QuoteStore interface {
	Insert(ctx context.Context, q *models.Quote) (string, error)
	FindByID(ctx context.Context, id string) (*models.Quote, error)
	FindByExtID(ctx context.Context, ext string) (*models.Quote, error)
}
