// server/internal/valuation/provider.go
package valuation

import (
	"context"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

// StoreProvider exposes locally persisted quotes as raw documents, the shape
// the inspection engine consumes. Chained in front of the upstream client so
// quotes created by this service resolve without a network hop.
type StoreProvider struct {
	quotes store.QuoteStore
}

func NewStoreProvider(quotes store.QuoteStore) *StoreProvider {
	return &StoreProvider{quotes: quotes}
}

func (p *StoreProvider) GetByInternalID(ctx context.Context, id string) (map[string]interface{}, error) {
	q, err := p.quotes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return quoteDoc(q), nil
}

func (p *StoreProvider) GetByExternalID(ctx context.Context, ext string) (map[string]interface{}, error) {
	q, err := p.quotes.FindByExtID(ctx, ext)
	if err != nil {
		return nil, err
	}
	return quoteDoc(q), nil
}

func quoteDoc(q *models.Quote) map[string]interface{} {
	return map[string]interface{}{
		"_id":         q.ID,
		"extId":       q.ExtID,
		"userId":      q.UserID,
		"modelIdExt":  q.ModelIDExt,
		"answers":     q.Answers,
		"prelimPrice": q.PrelimPrice,
		"currency":    q.Currency,
		"status":      q.Status,
	}
}
