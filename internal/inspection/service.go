// server/internal/inspection/service.go

// Package inspection implements the review, negotiation and resolution of
// delivered trade-in devices.
package inspection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
)

var (
	ErrQuoteUnavailable = errors.New("no quote available")
	ErrInvalidStatus    = errors.New("invalid inspection status")
	ErrValidation       = errors.New("validation failed")
	ErrNoOffer          = errors.New("no counter-offer awaiting response")
	ErrPaymentBlocked   = errors.New("payment blocked by counter-offer state")
)

const payoutCurrency = "BOB"

// QuoteProvider resolves raw quote documents. Implemented by the local quote
// store and by the upstream valuation service client; both can be chained.
type QuoteProvider interface {
	GetByInternalID(ctx context.Context, id string) (map[string]interface{}, error)
	GetByExternalID(ctx context.Context, ext string) (map[string]interface{}, error)
}

// ProviderChain tries each provider in order and keeps the first hit.
type ProviderChain []QuoteProvider

var _ QuoteProvider = ProviderChain(nil)

func (p ProviderChain) GetByInternalID(ctx context.Context, id string) (map[string]interface{}, error) {
	return p.each(func(q QuoteProvider) (map[string]interface{}, error) { return q.GetByInternalID(ctx, id) })
}

func (p ProviderChain) GetByExternalID(ctx context.Context, ext string) (map[string]interface{}, error) {
	return p.each(func(q QuoteProvider) (map[string]interface{}, error) { return q.GetByExternalID(ctx, ext) })
}

func (p ProviderChain) each(fn func(QuoteProvider) (map[string]interface{}, error)) (map[string]interface{}, error) {
	var lastErr error = ErrQuoteUnavailable
	for _, q := range p {
		doc, err := fn(q)
		if err == nil && doc != nil {
			return doc, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	return nil, lastErr
}

// CounterOfferSender relays a counter-offer to the valuation service. The
// delivered=false, nil-error case means the upstream has no such endpoint and
// the caller should proceed with its own notification.
type CounterOfferSender interface {
	SendCounterOffer(ctx context.Context, ref string, amount float64) (bool, error)
}

// Notifier delivers a user notification.
type Notifier interface {
	Send(ctx context.Context, toSub, title, body string, meta map[string]interface{}) error
}

// PayoutLedger records money owed to the user.
type PayoutLedger interface {
	Record(ctx context.Context, quoteIDExt, method string, amount float64) (string, error)
}

type Service struct {
	inspections   store.InspectionStore
	deliveries    store.DeliveryStore
	confirmations store.ConfirmationStore
	quotes        QuoteProvider
	offers        CounterOfferSender
	notifier      Notifier
	payouts       PayoutLedger
}

func NewService(inspections store.InspectionStore, deliveries store.DeliveryStore, confirmations store.ConfirmationStore, quotes QuoteProvider, offers CounterOfferSender, notifier Notifier, payouts PayoutLedger) *Service {
	return &Service{
		inspections:   inspections,
		deliveries:    deliveries,
		confirmations: confirmations,
		quotes:        quotes,
		offers:        offers,
		notifier:      notifier,
		payouts:       payouts,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*models.Inspection, error) {
	return s.inspections.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f store.InspectionFilter) ([]models.Inspection, error) {
	return s.inspections.List(ctx, f)
}

// FetchQuote resolves the quote behind an inspection. Sources, in priority
// order: the inspection's internal quote id, the ids on the linked
// confirmation, the inspection's external quote id. All sources are tried
// before giving up with ErrQuoteUnavailable.
func (s *Service) FetchQuote(ctx context.Context, ins *models.Inspection) (map[string]interface{}, error) {
	if s.quotes == nil {
		return nil, ErrQuoteUnavailable
	}

	if ins.QuoteID != "" {
		if doc, err := s.quotes.GetByInternalID(ctx, ins.QuoteID); err == nil && doc != nil {
			return doc, nil
		}
	}
	if ins.ConfirmationID != "" {
		if c, err := s.confirmations.FindByID(ctx, ins.ConfirmationID); err == nil {
			if c.QuoteID != "" && c.QuoteID != ins.QuoteID {
				if doc, err := s.quotes.GetByInternalID(ctx, c.QuoteID); err == nil && doc != nil {
					return doc, nil
				}
			}
			if c.QuoteIDExt != "" {
				if doc, err := s.quotes.GetByExternalID(ctx, c.QuoteIDExt); err == nil && doc != nil {
					return doc, nil
				}
			}
		}
	}
	if ins.QuoteIDExt != "" {
		if doc, err := s.quotes.GetByExternalID(ctx, ins.QuoteIDExt); err == nil && doc != nil {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("inspection %s: %w", ins.ID, ErrQuoteUnavailable)
}

// ReviewResult seeds the admin review screen: everything derived from the
// quote plus the freshly persisted assessment.
type ReviewResult struct {
	Inspection      *models.Inspection      `json:"inspection"`
	Findings        []models.Finding        `json:"findings"`
	DeviceType      string                  `json:"deviceType"`
	Risk            models.RiskAssessment   `json:"risk"`
	Checklist       []models.ChecklistEntry `json:"checklist"`
	Decision        models.Decision         `json:"decision"`
	DecisionReason  string                  `json:"decisionReason"`
	SuggestedAmount float64                 `json:"suggestedAmount"`
	AmountKnown     bool                    `json:"amountKnown"`
	Currency        string                  `json:"currency"`
}

// Review fetches the quote, derives device type, risk, checklist, decision
// suggestion and negotiation amount, and persists the assessment on the
// inspection so later steps do not depend on the quote provider again.
func (s *Service) Review(ctx context.Context, id string) (*ReviewResult, error) {
	ins, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	quote, err := s.FetchQuote(ctx, ins)
	if err != nil {
		return nil, err
	}

	findings := NormalizeAnswers(quote["answers"])
	if len(findings) == 0 {
		// Older quotes carry their answers under root-level steps instead.
		if _, ok := quote["steps"]; ok {
			findings = NormalizeAnswers(quote)
		}
	}
	modelHint, _ := quote["modelIdExt"].(string)
	deviceType := DetectDeviceType(deviceText(findings, ins.ModelIDExt, modelHint))
	risk := AssessRisk(deviceType, findings)
	decision, reason := AutoDecision(deviceType, risk, findings)
	amount, known := SuggestedAmount(quote, findings)

	if err := s.inspections.SaveAssessment(ctx, id, deviceType, &risk, findings); err != nil {
		return nil, err
	}
	ins, err = s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	checklist := ins.Checklist
	if len(checklist) == 0 {
		checklist = ChecklistTemplate(deviceType)
	}
	return &ReviewResult{
		Inspection:      ins,
		Findings:        findings,
		DeviceType:      deviceType,
		Risk:            risk,
		Checklist:       checklist,
		Decision:        decision,
		DecisionReason:  reason,
		SuggestedAmount: amount,
		AmountKnown:     known,
		Currency:        ExtractCurrency(quote),
	}, nil
}

// quoteRef picks the identifier the upstream collaborators key on.
func quoteRef(ins *models.Inspection) string {
	if ins.QuoteIDExt != "" {
		return ins.QuoteIDExt
	}
	return ins.QuoteID
}

// SendCounterOffer relays the new amount upstream, notifies the user, and
// moves the negotiation to SENT. The inspection itself stays IN_INSPECTION
// until the user answers. An upstream endpoint answering 404 is tolerated; a
// failed user notification is not, since the user would never learn about the
// offer.
func (s *Service) SendCounterOffer(ctx context.Context, id string, amount float64) (*models.Inspection, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a 0", ErrValidation)
	}
	ins, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ref := quoteRef(ins)
	if s.offers != nil && ref != "" {
		delivered, err := s.offers.SendCounterOffer(ctx, ref, amount)
		if err != nil {
			return nil, err
		}
		if !delivered {
			log.Printf("[inspection] no counter-offer endpoint upstream for %s, proceeding with notification only", ref)
		}
	}

	if ins.UserSub != "" && s.notifier != nil {
		body := fmt.Sprintf("Luego de la inspección te proponemos un nuevo monto: %s %s. Por favor acéptalo o recházalo para continuar.",
			formatAmount(amount), payoutCurrency)
		err := s.notifier.Send(ctx, ins.UserSub, "Nueva oferta por tu equipo", body, map[string]interface{}{
			"type":         "COUNTER_OFFER",
			"inspectionId": ins.ID,
			"amount":       amount,
			"currency":     payoutCurrency,
		})
		if err != nil {
			return nil, fmt.Errorf("counter-offer notification: %w", err)
		}
	}

	now := time.Now().UTC()
	offer := &models.CounterOffer{
		Amount:   amount,
		Currency: payoutCurrency,
		Status:   models.OfferSent,
		SentAt:   &now,
	}
	if err := s.inspections.SetOffer(ctx, id, offer); err != nil {
		return nil, err
	}
	return s.inspections.FindByID(ctx, id)
}

// RespondCounterOffer records the user's answer to a SENT offer.
func (s *Service) RespondCounterOffer(ctx context.Context, id string, accept bool) (*models.Inspection, error) {
	ins, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ins.OfferState() != models.OfferSent {
		return nil, fmt.Errorf("inspection %s: %w", id, ErrNoOffer)
	}

	now := time.Now().UTC()
	offer := *ins.Offer
	if accept {
		offer.Status = models.OfferAccepted
	} else {
		offer.Status = models.OfferRejected
	}
	offer.RespondedAt = &now
	if err := s.inspections.SetOffer(ctx, id, &offer); err != nil {
		return nil, err
	}
	return s.inspections.FindByID(ctx, id)
}

var payoutMethods = map[string]bool{
	"Transferencia": true,
	"Depósito":      true,
}

// RegisterPayment records the payout with the ledger. Payment is only legal
// when the negotiation is settled: NONE or ACCEPTED. An accepted counter-offer
// pins the payable amount. Ledger failures are surfaced, never retried.
func (s *Service) RegisterPayment(ctx context.Context, id string, amount float64, method string) (*models.Inspection, error) {
	ins, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch ins.OfferState() {
	case models.OfferSent, models.OfferRejected:
		return nil, fmt.Errorf("inspection %s: %w", id, ErrPaymentBlocked)
	}
	if !payoutMethods[method] {
		return nil, fmt.Errorf("%w: método de pago inválido %q", ErrValidation, method)
	}
	if ins.OfferState() == models.OfferAccepted {
		amount = ins.Offer.Amount
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a 0", ErrValidation)
	}

	payoutID, err := s.payouts.Record(ctx, quoteRef(ins), method, amount)
	if err != nil {
		return nil, err
	}

	p := &models.PaymentRecord{
		Amount:   amount,
		Currency: payoutCurrency,
		Method:   method,
		PayoutID: payoutID,
		PaidAt:   time.Now().UTC(),
	}
	if err := s.inspections.SetPayment(ctx, id, p); err != nil {
		return nil, err
	}
	return s.inspections.FindByID(ctx, id)
}

// FinalizeInput is the admin's closing form. Zero values fall back to the
// stored assessment (decision) and existing notes.
type FinalizeInput struct {
	Decision       models.Decision         `json:"decision"`
	DecisionReason string                  `json:"decisionReason"`
	Notes          string                  `json:"notes"`
	Checklist      []models.ChecklistEntry `json:"checklist"`
}

// Finalize composes the definitive notes and resolves the inspection status:
// a pending counter-offer keeps it IN_INSPECTION, a RECYCLE decision closes it
// (mirroring the delivery), and RESELL passes once the money side is settled.
func (s *Service) Finalize(ctx context.Context, id string, in FinalizeInput) (*models.Inspection, error) {
	ins, err := s.inspections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := in.Decision
	reason := in.DecisionReason
	if decision == "" {
		decision = ins.Decision
		if reason == "" {
			reason = ins.DecisionReason
		}
	}
	if decision == "" {
		var risk models.RiskAssessment
		if ins.Risk != nil {
			risk = *ins.Risk
		}
		decision, reason = AutoDecision(ins.DeviceType, risk, ins.Findings)
	}
	if decision != models.DecisionResell && decision != models.DecisionRecycle {
		return nil, fmt.Errorf("%w: decisión inválida %q", ErrValidation, decision)
	}

	paid := ins.Payment != nil && ins.Payment.Amount > 0
	offerState := ins.OfferState()

	status := models.InspectionInProgress
	var closedAt *time.Time
	switch {
	case offerState == models.OfferSent:
		// Awaiting the user's reply.
	case decision == models.DecisionRecycle:
		status = models.InspectionClosed
		now := time.Now().UTC()
		closedAt = &now
	case paid || offerState == models.OfferAccepted || offerState == models.OfferNone:
		status = models.InspectionPassed
	}

	notes := buildFinalNotes(ins, in, decision, reason)
	res := store.Resolution{
		Status:         status,
		Notes:          notes,
		Decision:       decision,
		DecisionReason: reason,
		Checklist:      in.Checklist,
		ClosedAt:       closedAt,
	}
	if err := s.inspections.SetResolution(ctx, id, res); err != nil {
		return nil, err
	}

	if status == models.InspectionClosed && ins.DeliveryID != "" {
		err := s.deliveries.SetStatus(ctx, ins.DeliveryID, models.DeliveryClosed, "")
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return s.inspections.FindByID(ctx, id)
}

// SetStatus is the explicit admin override; it is the only path that can
// produce FAILED.
func (s *Service) SetStatus(ctx context.Context, id string, status models.InspectionStatus, notes string) (*models.Inspection, error) {
	if !models.ValidInspectionStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	var closedAt *time.Time
	if status == models.InspectionClosed {
		now := time.Now().UTC()
		closedAt = &now
	}
	if err := s.inspections.SetStatus(ctx, id, status, notes, closedAt); err != nil {
		return nil, err
	}
	return s.inspections.FindByID(ctx, id)
}

// AddPhoto links an uploaded evidence photo to the inspection.
func (s *Service) AddPhoto(ctx context.Context, id, url string) (*models.Inspection, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: url requerida", ErrValidation)
	}
	if err := s.inspections.AddPhoto(ctx, id, url); err != nil {
		return nil, err
	}
	return s.inspections.FindByID(ctx, id)
}

func decisionLabel(d models.Decision) string {
	if d == models.DecisionRecycle {
		return "Reciclaje"
	}
	return "Reventa"
}

func offerStatusLabel(s models.OfferStatus) string {
	switch s {
	case models.OfferSent:
		return "enviada"
	case models.OfferAccepted:
		return "aceptada"
	case models.OfferRejected:
		return "rechazada"
	}
	return string(s)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// buildFinalNotes flattens the whole review into the notes text: base notes,
// risk summary, decision, negotiation, payment and checklist.
func buildFinalNotes(ins *models.Inspection, in FinalizeInput, decision models.Decision, reason string) string {
	var lines []string

	base := strings.TrimSpace(in.Notes)
	if base == "" {
		base = strings.TrimSpace(ins.Notes)
	}
	if base != "" {
		lines = append(lines, base)
	}

	if ins.Risk != nil {
		line := "Riesgo estimado: " + ins.Risk.Level
		if len(ins.Risk.Reasons) > 0 {
			line += " (" + strings.Join(ins.Risk.Reasons, "; ") + ")"
		}
		lines = append(lines, line)
	}

	line := "Decisión: " + decisionLabel(decision)
	if reason != "" {
		line += ": " + reason
	}
	lines = append(lines, line)

	if ins.Offer != nil {
		lines = append(lines, fmt.Sprintf("Contraoferta: %s %s (%s)",
			formatAmount(ins.Offer.Amount), ins.Offer.Currency, offerStatusLabel(ins.Offer.Status)))
	}
	if ins.Payment != nil {
		lines = append(lines, fmt.Sprintf("Pago registrado: %s %s vía %s",
			formatAmount(ins.Payment.Amount), ins.Payment.Currency, ins.Payment.Method))
	}

	if len(in.Checklist) > 0 {
		dt := ins.DeviceType
		if dt == "" {
			dt = DeviceUnknown
		}
		var items []string
		for _, e := range in.Checklist {
			state := "Pendiente"
			if e.Done {
				state = "OK"
			}
			items = append(items, e.Label+": "+state)
		}
		lines = append(lines, "Checklist ("+dt+"): "+strings.Join(items, "; "))
	}

	return strings.Join(lines, "\n")
}
