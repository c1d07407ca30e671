// server/internal/delivery/service.go

// Package delivery tracks physical package arrivals and drives the
// delivery/inspection state machine.
package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

var ErrInvalidStatus = errors.New("invalid delivery status")

// Broadcaster pushes live events to connected admin consoles. Fire-and-forget.
type Broadcaster interface {
	BroadcastJSON(v interface{})
}

type Service struct {
	confirmations store.ConfirmationStore
	deliveries    store.DeliveryStore
	inspections   store.InspectionStore
	hub           Broadcaster
}

func NewService(confirmations store.ConfirmationStore, deliveries store.DeliveryStore, inspections store.InspectionStore, hub Broadcaster) *Service {
	return &Service{
		confirmations: confirmations,
		deliveries:    deliveries,
		inspections:   inspections,
		hub:           hub,
	}
}

// ReceiveInput is what the warehouse scanner (or the admin form) submits. Ref
// may be a confirmation id, a JSON blob, or the free text of a printed label.
type ReceiveInput struct {
	Ref          string                `json:"ref"`
	Items        []models.DeliveryItem `json:"items"`
	TrackingCode string                `json:"trackingCode"`
	Notes        string                `json:"notes"`
}

// confirmationLine matches the id in a printed "Confirmación: <id>" QR label.
var confirmationLine = regexp.MustCompile(`(?m)^\s*Confirmación:\s*([A-Za-z0-9_-]+)\s*$`)

// ResolveConfirmationRef extracts a confirmation id from free text: a JSON
// object with a confirmationId field, a "Confirmación:" line, or the bare text
// itself when it carries no whitespace.
func ResolveConfirmationRef(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var blob struct {
		ConfirmationID string `json:"confirmationId"`
	}
	if err := json.Unmarshal([]byte(text), &blob); err == nil && blob.ConfirmationID != "" {
		return blob.ConfirmationID
	}

	if m := confirmationLine.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	if !strings.ContainsAny(text, " \t\n\r") {
		return text
	}
	return ""
}

// Receive resolves the confirmation and registers a RECEIVED delivery with a
// denormalized snapshot of the confirmation's references.
func (s *Service) Receive(ctx context.Context, in ReceiveInput) (*models.Delivery, error) {
	id := ResolveConfirmationRef(in.Ref)
	if id == "" {
		return nil, fmt.Errorf("confirmation ref %q: %w", in.Ref, store.ErrNotFound)
	}
	c, err := s.confirmations.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("confirmation %s: %w", id, err)
	}

	d := &models.Delivery{
		ConfirmationID: c.ID,
		QuoteID:        c.QuoteID,
		QuoteIDExt:     c.QuoteIDExt,
		ModelIDExt:     c.ModelIDExt,
		UserSub:        c.UserSub,
		TrackingCode:   strings.TrimSpace(in.TrackingCode),
		ReceivedAt:     time.Now().UTC(),
		Status:         models.DeliveryReceived,
		Notes:          strings.TrimSpace(in.Notes),
		Items:          normalizeItems(in.Items),
	}
	if _, err := s.deliveries.Insert(ctx, d); err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.BroadcastJSON(map[string]interface{}{
			"event":      "delivery_received",
			"deliveryId": d.ID,
		})
	}
	return d, nil
}

func normalizeItems(items []models.DeliveryItem) []models.DeliveryItem {
	var out []models.DeliveryItem
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" || it.Qty <= 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SetStatus moves a delivery through RECEIVED -> IN_INSPECTION -> CLOSED.
// Entering IN_INSPECTION upserts the single inspection for the delivery;
// closing cascades over every non-terminal inspection tied to it.
func (s *Service) SetStatus(ctx context.Context, id string, next models.DeliveryStatus, notes string) (*models.Delivery, error) {
	if !models.ValidDeliveryStatus(next) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}

	if err := s.deliveries.SetStatus(ctx, id, next, notes); err != nil {
		return nil, err
	}
	d, err := s.deliveries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch next {
	case models.DeliveryInInspection:
		if err := s.inspections.EnsureForDelivery(ctx, d, now); err != nil {
			return nil, err
		}
		if s.hub != nil {
			s.hub.BroadcastJSON(map[string]interface{}{
				"event":      "inspection_started",
				"deliveryId": d.ID,
			})
		}
	case models.DeliveryClosed:
		n, err := s.inspections.CloseAllForDelivery(ctx, d.ID, now)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			log.Printf("[delivery] closed %d inspection(s) for delivery %s", n, d.ID)
		}
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Delivery, error) {
	return s.deliveries.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f store.DeliveryFilter) ([]models.Delivery, error) {
	return s.deliveries.List(ctx, f)
}
