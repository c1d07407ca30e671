// server/internal/store/memstore/deliveries.go
package memstore

import (
	"context"
	"sort"
	"sync"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type DeliveryStore struct {
	mu   sync.RWMutex
	ids  idGen
	docs map[string]models.Delivery
}

var _ store.DeliveryStore = (*DeliveryStore)(nil)

func NewDeliveryStore() *DeliveryStore {
	return &DeliveryStore{docs: map[string]models.Delivery{}}
}

func (s *DeliveryStore) Insert(_ context.Context, d *models.Delivery) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = s.ids.New("dlv")
	}
	s.docs[d.ID] = *d
	return d.ID, nil
}

func (s *DeliveryStore) FindByID(_ context.Context, id string) (*models.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (s *DeliveryStore) List(_ context.Context, f store.DeliveryFilter) ([]models.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Delivery
	for _, d := range s.docs {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if !matchSearch(f.Search, d.ConfirmationID, d.QuoteIDExt, d.QuoteID, d.TrackingCode, d.UserSub) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return out, nil
}

func (s *DeliveryStore) SetStatus(_ context.Context, id string, status models.DeliveryStatus, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	d.Status = status
	if notes != "" {
		d.Notes = notes
	}
	s.docs[id] = d
	return nil
}
