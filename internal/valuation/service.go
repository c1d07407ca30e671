// server/internal/valuation/service.go
package valuation

import (
	"context"
	"time"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

// Service evaluates pricing rules and persists the resulting quotes.
type Service struct {
	quotes store.QuoteStore
}

func NewService(quotes store.QuoteStore) *Service {
	return &Service{quotes: quotes}
}

// PriceResult is the outcome of one rule evaluation, snapshot included so the
// quote can be replayed later.
type PriceResult struct {
	Price        float64  `json:"price"`
	RuleVersion  int      `json:"ruleVersion"`
	RuleSnapshot RuleBody `json:"ruleSnapshot"`
}

// Evaluate normalizes the raw rule and prices the answers against it.
func (s *Service) Evaluate(rawRule interface{}, answers map[string]interface{}) (*PriceResult, error) {
	rule, err := NormalizeRule(rawRule)
	if err != nil {
		return nil, err
	}
	return &PriceResult{
		Price:        Price(rule, answers),
		RuleVersion:  rule.Version,
		RuleSnapshot: rule.Body,
	}, nil
}

// QuoteInput is a pricing request that should be persisted as a quote.
type QuoteInput struct {
	ExtID      string                 `json:"extId"`
	UserID     string                 `json:"userId"`
	ModelIDExt string                 `json:"modelIdExt"`
	Answers    map[string]interface{} `json:"answers"`
	Rule       interface{}            `json:"rule"`
	Currency   string                 `json:"currency"`
}

// CreateQuote prices the answers and stores the quote with the rule snapshot.
func (s *Service) CreateQuote(ctx context.Context, in QuoteInput) (*models.Quote, error) {
	res, err := s.Evaluate(in.Rule, in.Answers)
	if err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = "BOB"
	}
	q := &models.Quote{
		ExtID:        in.ExtID,
		UserID:       in.UserID,
		ModelIDExt:   in.ModelIDExt,
		Answers:      in.Answers,
		PrelimPrice:  res.Price,
		RuleVersion:  res.RuleVersion,
		RuleSnapshot: res.RuleSnapshot,
		Currency:     currency,
		Status:       "ACTIVE",
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.quotes.Insert(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) GetQuote(ctx context.Context, id string) (*models.Quote, error) {
	return s.quotes.FindByID(ctx, id)
}

func (s *Service) GetQuoteByExtID(ctx context.Context, ext string) (*models.Quote, error) {
	return s.quotes.FindByExtID(ctx, ext)
}
