// server/internal/intake/service.go

// Package intake owns confirmations and shipping kits: the front half of the
// trade-in workflow, before a package physically arrives.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

var ErrValidation = errors.New("validation failed")

// Notifier delivers a best-effort user notification.
type Notifier interface {
	Send(ctx context.Context, toSub, title, body string, meta map[string]interface{}) error
}

// QuoteProvider resolves quote documents owned by the external valuation
// service, used here only to recover the owning user of a confirmation.
type QuoteProvider interface {
	GetByInternalID(ctx context.Context, id string) (map[string]interface{}, error)
	GetByExternalID(ctx context.Context, ext string) (map[string]interface{}, error)
}

type Service struct {
	confirmations store.ConfirmationStore
	kits          store.KitStore
	quotes        QuoteProvider
	notifier      Notifier

	estDeliveryDays string
	notifyTimeout   time.Duration
}

func NewService(confirmations store.ConfirmationStore, kits store.KitStore, quotes QuoteProvider, notifier Notifier, estDeliveryDays string, notifyTimeout time.Duration) *Service {
	if estDeliveryDays == "" {
		estDeliveryDays = "2–5"
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 8 * time.Second
	}
	return &Service{
		confirmations:   confirmations,
		kits:            kits,
		quotes:          quotes,
		notifier:        notifier,
		estDeliveryDays: estDeliveryDays,
		notifyTimeout:   notifyTimeout,
	}
}

// ConfirmationInput carries the references and address for a new confirmation.
type ConfirmationInput struct {
	UserSub    string                 `json:"userSub"`
	InboxID    string                 `json:"inboxId"`
	QuoteID    string                 `json:"quoteId"`
	QuoteIDExt string                 `json:"quoteIdExt"`
	ReportID   string                 `json:"reportId"`
	ModelIDExt string                 `json:"modelIdExt"`
	Shipping   models.ShippingAddress `json:"shipping"`
}

// CreateConfirmation registers a PENDING confirmation. Duplicate submissions
// create duplicate documents; the admin queue tolerates that.
func (s *Service) CreateConfirmation(ctx context.Context, in ConfirmationInput) (*models.Confirmation, error) {
	if err := validateShipping(in.Shipping); err != nil {
		return nil, err
	}

	c := &models.Confirmation{
		InboxID:    in.InboxID,
		UserSub:    in.UserSub,
		QuoteID:    in.QuoteID,
		QuoteIDExt: in.QuoteIDExt,
		ReportID:   in.ReportID,
		ModelIDExt: in.ModelIDExt,
		Shipping:   in.Shipping,
		Status:     models.ConfirmationPending,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.confirmations.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func validateShipping(a models.ShippingAddress) error {
	if strings.TrimSpace(a.FullName) == "" {
		return fmt.Errorf("%w: fullName requerido", ErrValidation)
	}
	if strings.TrimSpace(a.AddressLine1) == "" {
		return fmt.Errorf("%w: addressLine1 requerido", ErrValidation)
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("%w: city requerido", ErrValidation)
	}
	return nil
}

// KitInput describes a kit dispatch request from the valuation side.
type KitInput struct {
	QuoteIDExt string                  `json:"quoteIdExt"`
	QuoteID    string                  `json:"quoteId"`
	ReportID   string                  `json:"reportId"`
	ModelIDExt string                  `json:"modelIdExt"`
	UserSub    string                  `json:"userSub"`
	Shipping   *models.ShippingAddress `json:"shipping"`
}

// DispatchKit creates a kit with a fresh tracking code. When a shipping
// snapshot comes along, a companion PENDING confirmation is created too so the
// dispatch shows up in the admin queue.
func (s *Service) DispatchKit(ctx context.Context, in KitInput) (*models.Kit, error) {
	if strings.TrimSpace(in.QuoteIDExt) == "" {
		return nil, fmt.Errorf("%w: quoteIdExt requerido", ErrValidation)
	}

	tracking := "TRK-" + strings.ToUpper(uuid.New().String()[:8])
	k := &models.Kit{
		QuoteIDExt:   in.QuoteIDExt,
		QuoteID:      in.QuoteID,
		ReportID:     in.ReportID,
		ModelIDExt:   in.ModelIDExt,
		Shipping:     in.Shipping,
		Carrier:      "DemoCarrier",
		TrackingCode: tracking,
		LabelURL:     "https://labels.demo-carrier.example/" + tracking + ".pdf",
		Status:       "DISPATCHED",
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.kits.Insert(ctx, k); err != nil {
		return nil, err
	}

	if in.Shipping != nil {
		c := &models.Confirmation{
			UserSub:    in.UserSub,
			QuoteID:    in.QuoteID,
			QuoteIDExt: in.QuoteIDExt,
			ReportID:   in.ReportID,
			ModelIDExt: in.ModelIDExt,
			Shipping:   *in.Shipping,
			Status:     models.ConfirmationPending,
			CreatedAt:  time.Now().UTC(),
		}
		if _, err := s.confirmations.Insert(ctx, c); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// ProcessConfirmation flips the processed flag. Marking processed also fires a
// best-effort dispatch notification to the owning user; notification failures
// never fail the transition.
func (s *Service) ProcessConfirmation(ctx context.Context, id string, processed bool) (*models.Confirmation, error) {
	var processedAt *time.Time
	if processed {
		now := time.Now().UTC()
		processedAt = &now
	}
	if err := s.confirmations.SetProcessed(ctx, id, processed, processedAt); err != nil {
		return nil, err
	}

	c, err := s.confirmations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if processed {
		s.notifyDispatched(c)
	}
	return c, nil
}

func (s *Service) notifyDispatched(c *models.Confirmation) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		sub := s.resolveUserSub(ctx, c)
		if sub == "" {
			log.Printf("[intake] confirmation %s processed but no user resolved, skipping notify", c.ID)
			return
		}

		tracking, err := s.kits.LatestTrackingForQuote(ctx, c.QuoteID, c.QuoteIDExt)
		if err != nil {
			log.Printf("[intake] tracking lookup for confirmation %s: %v", c.ID, err)
		}

		body := fmt.Sprintf("Tu kit de envío fue despachado. Entrega estimada: %s días hábiles.", s.estDeliveryDays)
		if tracking != "" {
			body += " Código de seguimiento: " + tracking + "."
		}
		if addr := formatAddress(c.Shipping); addr != "" {
			body += " Dirección: " + addr + "."
		}

		err = s.notifier.Send(ctx, sub, "Kit de envío despachado", body, map[string]interface{}{
			"type":           "KIT_DISPATCHED",
			"confirmationId": c.ID,
			"trackingCode":   tracking,
		})
		if err != nil {
			log.Printf("[intake] dispatch notify for confirmation %s: %v", c.ID, err)
		}
	}()
}

// resolveUserSub prefers the identity on the document and falls back to the
// owner recorded on the external quote.
func (s *Service) resolveUserSub(ctx context.Context, c *models.Confirmation) string {
	if c.UserSub != "" {
		return c.UserSub
	}
	if s.quotes == nil {
		return ""
	}

	var doc map[string]interface{}
	var err error
	if c.QuoteID != "" {
		doc, err = s.quotes.GetByInternalID(ctx, c.QuoteID)
	}
	if doc == nil && c.QuoteIDExt != "" {
		doc, err = s.quotes.GetByExternalID(ctx, c.QuoteIDExt)
	}
	if err != nil {
		log.Printf("[intake] quote lookup for confirmation %s: %v", c.ID, err)
	}
	if doc == nil {
		return ""
	}
	for _, key := range []string{"userSub", "userId", "user_sub", "user_id"} {
		if sub, ok := doc[key].(string); ok && sub != "" {
			return sub
		}
	}
	return ""
}

func formatAddress(a models.ShippingAddress) string {
	parts := []string{a.AddressLine1}
	if a.AddressLine2 != "" {
		parts = append(parts, a.AddressLine2)
	}
	parts = append(parts, a.City)
	if a.State != "" {
		parts = append(parts, a.State)
	}
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func (s *Service) GetConfirmation(ctx context.Context, id string) (*models.Confirmation, error) {
	return s.confirmations.FindByID(ctx, id)
}

func (s *Service) ListConfirmations(ctx context.Context, f store.ConfirmationFilter) ([]models.Confirmation, error) {
	return s.confirmations.List(ctx, f)
}
