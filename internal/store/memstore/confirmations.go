// server/internal/store/memstore/confirmations.go
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type ConfirmationStore struct {
	mu   sync.RWMutex
	ids  idGen
	docs map[string]models.Confirmation
}

var _ store.ConfirmationStore = (*ConfirmationStore)(nil)

func NewConfirmationStore() *ConfirmationStore {
	return &ConfirmationStore{docs: map[string]models.Confirmation{}}
}

func (s *ConfirmationStore) Insert(_ context.Context, c *models.Confirmation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.ids.New("cnf")
	}
	s.docs[c.ID] = *c
	return c.ID, nil
}

func (s *ConfirmationStore) FindByID(_ context.Context, id string) (*models.Confirmation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *ConfirmationStore) List(_ context.Context, f store.ConfirmationFilter) ([]models.Confirmation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Confirmation
	for _, c := range s.docs {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if !matchSearch(f.Search, c.QuoteIDExt, c.QuoteID, c.UserSub, c.Shipping.FullName) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *ConfirmationStore) SetProcessed(_ context.Context, id string, processed bool, processedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	if processed {
		c.Status = models.ConfirmationProcessed
	} else {
		c.Status = models.ConfirmationPending
	}
	c.ProcessedAt = processedAt
	s.docs[id] = c
	return nil
}
