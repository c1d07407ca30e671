// server/internal/store/memstore/inspections.go
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type InspectionStore struct {
	mu   sync.RWMutex
	ids  idGen
	docs map[string]models.Inspection
}

var _ store.InspectionStore = (*InspectionStore)(nil)

func NewInspectionStore() *InspectionStore {
	return &InspectionStore{docs: map[string]models.Inspection{}}
}

func (s *InspectionStore) FindByID(_ context.Context, id string) (*models.Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ins, ok := s.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ins, nil
}

func (s *InspectionStore) List(_ context.Context, f store.InspectionFilter) ([]models.Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Inspection
	for _, ins := range s.docs {
		if !f.AllSources && ins.Source != models.SourceShipment {
			continue
		}
		if f.Status != "" && ins.Status != f.Status {
			continue
		}
		if !matchSearch(f.Search, ins.DeliveryID, ins.ConfirmationID, ins.QuoteIDExt, ins.QuoteID, ins.UserSub) {
			continue
		}
		out = append(out, ins)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InspectionStore) EnsureForDelivery(_ context.Context, d *models.Delivery, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ins := range s.docs {
		if ins.DeliveryID == d.ID && ins.Source == models.SourceShipment {
			ins.ConfirmationID = d.ConfirmationID
			ins.QuoteID = d.QuoteID
			ins.QuoteIDExt = d.QuoteIDExt
			ins.ModelIDExt = d.ModelIDExt
			ins.UserSub = d.UserSub
			ins.Status = models.InspectionInProgress
			ins.UpdatedAt = now
			s.docs[id] = ins
			return nil
		}
	}
	started := now
	ins := models.Inspection{
		ID:             s.ids.New("ins"),
		Source:         models.SourceShipment,
		DeliveryID:     d.ID,
		ConfirmationID: d.ConfirmationID,
		QuoteID:        d.QuoteID,
		QuoteIDExt:     d.QuoteIDExt,
		ModelIDExt:     d.ModelIDExt,
		UserSub:        d.UserSub,
		Status:         models.InspectionInProgress,
		StartedAt:      &started,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.docs[ins.ID] = ins
	return nil
}

func (s *InspectionStore) CloseAllForDelivery(_ context.Context, deliveryID string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, ins := range s.docs {
		if ins.DeliveryID != deliveryID || ins.Source != models.SourceShipment {
			continue
		}
		if ins.Status == models.InspectionClosed {
			continue
		}
		closed := now
		ins.Status = models.InspectionClosed
		ins.ClosedAt = &closed
		ins.UpdatedAt = now
		s.docs[id] = ins
		n++
	}
	return n, nil
}

func (s *InspectionStore) SetStatus(_ context.Context, id string, status models.InspectionStatus, notes string, closedAt *time.Time) error {
	return s.update(id, func(ins *models.Inspection) {
		ins.Status = status
		if notes != "" {
			ins.Notes = notes
		}
		if closedAt != nil {
			ins.ClosedAt = closedAt
		}
	})
}

func (s *InspectionStore) SaveAssessment(_ context.Context, id string, deviceType string, risk *models.RiskAssessment, findings []models.Finding) error {
	return s.update(id, func(ins *models.Inspection) {
		ins.DeviceType = deviceType
		ins.Risk = risk
		ins.Findings = findings
	})
}

func (s *InspectionStore) SetOffer(_ context.Context, id string, offer *models.CounterOffer) error {
	return s.update(id, func(ins *models.Inspection) { ins.Offer = offer })
}

func (s *InspectionStore) SetPayment(_ context.Context, id string, p *models.PaymentRecord) error {
	return s.update(id, func(ins *models.Inspection) { ins.Payment = p })
}

func (s *InspectionStore) SetResolution(_ context.Context, id string, res store.Resolution) error {
	return s.update(id, func(ins *models.Inspection) {
		ins.Status = res.Status
		ins.Notes = res.Notes
		if res.Decision != "" {
			ins.Decision = res.Decision
		}
		if res.DecisionReason != "" {
			ins.DecisionReason = res.DecisionReason
		}
		if res.Checklist != nil {
			ins.Checklist = res.Checklist
		}
		if res.ClosedAt != nil {
			ins.ClosedAt = res.ClosedAt
		}
	})
}

func (s *InspectionStore) AddPhoto(_ context.Context, id string, url string) error {
	return s.update(id, func(ins *models.Inspection) { ins.Photos = append(ins.Photos, url) })
}

func (s *InspectionStore) update(id string, fn func(*models.Inspection)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ins, ok := s.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	fn(&ins)
	ins.UpdatedAt = time.Now().UTC()
	s.docs[id] = ins
	return nil
}
