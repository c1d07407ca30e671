// server/internal/store/memstore/quotes.go
package memstore

import (
	"context"
	"sync"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type QuoteStore struct {
	mu   sync.RWMutex
	ids  idGen
	docs map[string]models.Quote
}

var _ store.QuoteStore = (*QuoteStore)(nil)

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{docs: map[string]models.Quote{}}
}

func (s *QuoteStore) Insert(_ context.Context, q *models.Quote) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == "" {
		q.ID = s.ids.New("qte")
	}
	s.docs[q.ID] = *q
	return q.ID, nil
}

func (s *QuoteStore) FindByID(_ context.Context, id string) (*models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &q, nil
}

func (s *QuoteStore) FindByExtID(_ context.Context, ext string) (*models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.docs {
		q := s.docs[id]
		if q.ExtID == ext {
			return &q, nil
		}
	}
	return nil, store.ErrNotFound
}
