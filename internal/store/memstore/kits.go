// server/internal/store/memstore/kits.go
package memstore

import (
	"context"
	"sync"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

type KitStore struct {
	mu   sync.RWMutex
	ids  idGen
	docs map[string]models.Kit
}

var _ store.KitStore = (*KitStore)(nil)

func NewKitStore() *KitStore {
	return &KitStore{docs: map[string]models.Kit{}}
}

func (s *KitStore) Insert(_ context.Context, k *models.Kit) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k.ID == "" {
		k.ID = s.ids.New("kit")
	}
	s.docs[k.ID] = *k
	return k.ID, nil
}

func (s *KitStore) LatestTrackingForQuote(_ context.Context, quoteID, quoteIDExt string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *models.Kit
	for id := range s.docs {
		k := s.docs[id]
		match := (quoteIDExt != "" && k.QuoteIDExt == quoteIDExt) ||
			(quoteID != "" && k.QuoteID == quoteID)
		if !match {
			continue
		}
		if best == nil || k.CreatedAt.After(best.CreatedAt) {
			kk := k
			best = &kk
		}
	}
	if best == nil {
		return "", nil
	}
	return best.TrackingCode, nil
}
