// server/internal/inspection/service_test.go
package inspection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
	"reeutil-tradein-api-server/internal/store/memstore"
)

type fakeQuotes struct {
	byID  map[string]map[string]interface{}
	byExt map[string]map[string]interface{}
}

func (f *fakeQuotes) GetByInternalID(_ context.Context, id string) (map[string]interface{}, error) {
	if q, ok := f.byID[id]; ok {
		return q, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeQuotes) GetByExternalID(_ context.Context, ext string) (map[string]interface{}, error) {
	if q, ok := f.byExt[ext]; ok {
		return q, nil
	}
	return nil, errors.New("not found")
}

type offerCall struct {
	Ref    string
	Amount float64
}

type fakeOffers struct {
	calls     []offerCall
	delivered bool
	err       error
}

func (f *fakeOffers) SendCounterOffer(_ context.Context, ref string, amount float64) (bool, error) {
	f.calls = append(f.calls, offerCall{Ref: ref, Amount: amount})
	return f.delivered, f.err
}

type notifyCall struct {
	ToSub string
	Body  string
	Meta  map[string]interface{}
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) Send(_ context.Context, toSub, _, body string, meta map[string]interface{}) error {
	f.calls = append(f.calls, notifyCall{ToSub: toSub, Body: body, Meta: meta})
	return f.err
}

type payoutCall struct {
	QuoteIDExt string
	Method     string
	Amount     float64
}

type fakePayouts struct {
	calls []payoutCall
	err   error
}

func (f *fakePayouts) Record(_ context.Context, quoteIDExt, method string, amount float64) (string, error) {
	f.calls = append(f.calls, payoutCall{QuoteIDExt: quoteIDExt, Method: method, Amount: amount})
	if f.err != nil {
		return "", f.err
	}
	return "payout-1", nil
}

type fixture struct {
	svc           *Service
	inspections   *memstore.InspectionStore
	deliveries    *memstore.DeliveryStore
	confirmations *memstore.ConfirmationStore
	quotes        *fakeQuotes
	offers        *fakeOffers
	notifier      *fakeNotifier
	payouts       *fakePayouts
	inspectionID  string
	deliveryID    string
}

// newFixture seeds one confirmation, one IN_INSPECTION delivery and its
// inspection, with the quote served by the fake provider under ext id "Q-1".
func newFixture(t *testing.T, quoteDoc map[string]interface{}) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		inspections:   memstore.NewInspectionStore(),
		deliveries:    memstore.NewDeliveryStore(),
		confirmations: memstore.NewConfirmationStore(),
		quotes:        &fakeQuotes{byExt: map[string]map[string]interface{}{}, byID: map[string]map[string]interface{}{}},
		offers:        &fakeOffers{delivered: true},
		notifier:      &fakeNotifier{},
		payouts:       &fakePayouts{},
	}
	if quoteDoc != nil {
		f.quotes.byExt["Q-1"] = quoteDoc
	}

	confID, err := f.confirmations.Insert(ctx, &models.Confirmation{
		UserSub:    "user-1",
		QuoteIDExt: "Q-1",
		Status:     models.ConfirmationProcessed,
	})
	require.NoError(t, err)

	d := &models.Delivery{
		ConfirmationID: confID,
		QuoteIDExt:     "Q-1",
		UserSub:        "user-1",
		ReceivedAt:     time.Now().UTC(),
		Status:         models.DeliveryInInspection,
	}
	f.deliveryID, err = f.deliveries.Insert(ctx, d)
	require.NoError(t, err)
	require.NoError(t, f.inspections.EnsureForDelivery(ctx, d, time.Now().UTC()))

	list, err := f.inspections.List(ctx, store.InspectionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	f.inspectionID = list[0].ID

	f.svc = NewService(f.inspections, f.deliveries, f.confirmations, f.quotes, f.offers, f.notifier, f.payouts)
	return f
}

func phoneQuote() map[string]interface{} {
	return map[string]interface{}{
		"prelimPrice": 500.0,
		"currency":    "BOB",
		"modelIdExt":  "iphone-12",
		"answers": []interface{}{
			map[string]interface{}{"label": "Equipo", "value": "iPhone 12"},
			map[string]interface{}{"label": "Batería", "value": "se descarga rápido"},
		},
	}
}

func TestFetchQuote(t *testing.T) {
	t.Run("falls back through confirmation to external id", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		ins, err := f.inspections.FindByID(context.Background(), f.inspectionID)
		require.NoError(t, err)

		doc, err := f.svc.FetchQuote(context.Background(), ins)
		require.NoError(t, err)
		assert.Equal(t, 500.0, doc["prelimPrice"])
	})

	t.Run("all sources exhausted is quote unavailable", func(t *testing.T) {
		f := newFixture(t, nil)
		ins, err := f.inspections.FindByID(context.Background(), f.inspectionID)
		require.NoError(t, err)

		_, err = f.svc.FetchQuote(context.Background(), ins)
		assert.ErrorIs(t, err, ErrQuoteUnavailable)
	})
}

func TestReview(t *testing.T) {
	t.Run("derives and persists the assessment", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		res, err := f.svc.Review(context.Background(), f.inspectionID)
		require.NoError(t, err)

		assert.Equal(t, "phone", res.DeviceType)
		assert.Equal(t, RiskMedium, res.Risk.Level)
		assert.Contains(t, res.Risk.Reasons, "Batería no OK")
		assert.Equal(t, models.DecisionResell, res.Decision)
		assert.True(t, res.AmountKnown)
		assert.Equal(t, 500.0, res.SuggestedAmount)
		assert.Equal(t, "BOB", res.Currency)
		assert.NotEmpty(t, res.Checklist)

		ins, err := f.inspections.FindByID(context.Background(), f.inspectionID)
		require.NoError(t, err)
		assert.Equal(t, "phone", ins.DeviceType)
		require.NotNil(t, ins.Risk)
		assert.Equal(t, RiskMedium, ins.Risk.Level)
		assert.NotEmpty(t, ins.Findings)
	})

	t.Run("quote unavailable surfaces", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.svc.Review(context.Background(), f.inspectionID)
		assert.ErrorIs(t, err, ErrQuoteUnavailable)
	})

	t.Run("answers nested under root-level steps", func(t *testing.T) {
		f := newFixture(t, map[string]interface{}{
			"prelimPrice": 500.0,
			"steps": []interface{}{
				map[string]interface{}{"answers": []interface{}{
					map[string]interface{}{"label": "Equipo", "value": "iPhone 12"},
					map[string]interface{}{"label": "Pantalla", "value": "pantalla rota"},
				}},
			},
		})

		res, err := f.svc.Review(context.Background(), f.inspectionID)
		require.NoError(t, err)
		assert.Equal(t, "phone", res.DeviceType)
		assert.Equal(t, RiskMedium, res.Risk.Level)
		assert.Contains(t, res.Risk.Reasons, "Pantalla dañada declarada")
		assert.Len(t, res.Findings, 2)
	})
}

func TestSendCounterOffer(t *testing.T) {
	t.Run("relays upstream, notifies and marks SENT", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		ins, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.NoError(t, err)

		require.Len(t, f.offers.calls, 1)
		assert.Equal(t, offerCall{Ref: "Q-1", Amount: 450}, f.offers.calls[0])

		require.Len(t, f.notifier.calls, 1)
		assert.Equal(t, "user-1", f.notifier.calls[0].ToSub)
		assert.Contains(t, f.notifier.calls[0].Body, "450")

		assert.Equal(t, models.InspectionInProgress, ins.Status)
		require.NotNil(t, ins.Offer)
		assert.Equal(t, models.OfferSent, ins.Offer.Status)
		assert.Equal(t, 450.0, ins.Offer.Amount)
		assert.NotNil(t, ins.Offer.SentAt)
	})

	t.Run("missing upstream endpoint is tolerated", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		f.offers.delivered = false
		ins, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.NoError(t, err)
		assert.Equal(t, models.OfferSent, ins.OfferState())
		assert.Len(t, f.notifier.calls, 1)
	})

	t.Run("upstream error aborts", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		f.offers.err = errors.New("upstream down")
		_, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.Error(t, err)

		ins, err2 := f.inspections.FindByID(context.Background(), f.inspectionID)
		require.NoError(t, err2)
		assert.Equal(t, models.OfferNone, ins.OfferState())
	})

	t.Run("notification failure aborts", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		f.notifier.err = errors.New("gateway down")
		_, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.Error(t, err)

		ins, err2 := f.inspections.FindByID(context.Background(), f.inspectionID)
		require.NoError(t, err2)
		assert.Equal(t, models.OfferNone, ins.OfferState())
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 0)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestRespondCounterOffer(t *testing.T) {
	t.Run("requires a SENT offer", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.RespondCounterOffer(context.Background(), f.inspectionID, true)
		assert.ErrorIs(t, err, ErrNoOffer)
	})

	t.Run("accept and reject settle the offer", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.NoError(t, err)

		ins, err := f.svc.RespondCounterOffer(context.Background(), f.inspectionID, true)
		require.NoError(t, err)
		assert.Equal(t, models.OfferAccepted, ins.OfferState())
		assert.NotNil(t, ins.Offer.RespondedAt)

		// A settled offer cannot be answered again.
		_, err = f.svc.RespondCounterOffer(context.Background(), f.inspectionID, false)
		assert.ErrorIs(t, err, ErrNoOffer)
	})
}

func TestRegisterPayment(t *testing.T) {
	t.Run("blocked while SENT and after REJECTED", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.NoError(t, err)

		_, err = f.svc.RegisterPayment(context.Background(), f.inspectionID, 450, "Transferencia")
		assert.ErrorIs(t, err, ErrPaymentBlocked)
		assert.Empty(t, f.payouts.calls)

		_, err = f.svc.RespondCounterOffer(context.Background(), f.inspectionID, false)
		require.NoError(t, err)
		_, err = f.svc.RegisterPayment(context.Background(), f.inspectionID, 450, "Transferencia")
		assert.ErrorIs(t, err, ErrPaymentBlocked)
		assert.Empty(t, f.payouts.calls)
	})

	t.Run("NONE state pays the given amount", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		ins, err := f.svc.RegisterPayment(context.Background(), f.inspectionID, 500, "Depósito")
		require.NoError(t, err)

		require.Len(t, f.payouts.calls, 1)
		assert.Equal(t, payoutCall{QuoteIDExt: "Q-1", Method: "Depósito", Amount: 500}, f.payouts.calls[0])
		require.NotNil(t, ins.Payment)
		assert.Equal(t, "payout-1", ins.Payment.PayoutID)
	})

	t.Run("accepted offer snaps the amount", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.NoError(t, err)
		_, err = f.svc.RespondCounterOffer(context.Background(), f.inspectionID, true)
		require.NoError(t, err)

		ins, err := f.svc.RegisterPayment(context.Background(), f.inspectionID, 999, "Transferencia")
		require.NoError(t, err)
		assert.Equal(t, 450.0, ins.Payment.Amount)
		assert.Equal(t, 450.0, f.payouts.calls[0].Amount)
	})

	t.Run("invalid method and amount rejected", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.RegisterPayment(context.Background(), f.inspectionID, 100, "Efectivo")
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.svc.RegisterPayment(context.Background(), f.inspectionID, 0, "Transferencia")
		assert.ErrorIs(t, err, ErrValidation)
		assert.Empty(t, f.payouts.calls)
	})

	t.Run("ledger failure is surfaced", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		f.payouts.err = errors.New("ledger down")
		_, err := f.svc.RegisterPayment(context.Background(), f.inspectionID, 100, "Transferencia")
		require.Error(t, err)

		ins, err2 := f.inspections.FindByID(context.Background(), f.inspectionID)
		require.NoError(t, err2)
		assert.Nil(t, ins.Payment)
	})
}

func TestFinalize(t *testing.T) {
	t.Run("recycle closes inspection and delivery", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		ins, err := f.svc.Finalize(context.Background(), f.inspectionID, FinalizeInput{
			Decision:       models.DecisionRecycle,
			DecisionReason: "no viable",
		})
		require.NoError(t, err)
		assert.Equal(t, models.InspectionClosed, ins.Status)
		require.NotNil(t, ins.ClosedAt)
		assert.Contains(t, ins.Notes, "Reciclaje")

		d, err := f.deliveries.FindByID(context.Background(), f.deliveryID)
		require.NoError(t, err)
		assert.Equal(t, models.DeliveryClosed, d.Status)
	})

	t.Run("resell without settlement passes via NONE", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		ins, err := f.svc.Finalize(context.Background(), f.inspectionID, FinalizeInput{
			Decision: models.DecisionResell,
		})
		require.NoError(t, err)
		assert.Equal(t, models.InspectionPassed, ins.Status)
		assert.Nil(t, ins.ClosedAt)
	})

	t.Run("pending counter-offer keeps it in inspection", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.NoError(t, err)

		ins, err := f.svc.Finalize(context.Background(), f.inspectionID, FinalizeInput{
			Decision: models.DecisionResell,
		})
		require.NoError(t, err)
		assert.Equal(t, models.InspectionInProgress, ins.Status)
	})

	t.Run("rejected offer blocks PASSED", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.SendCounterOffer(context.Background(), f.inspectionID, 450)
		require.NoError(t, err)
		_, err = f.svc.RespondCounterOffer(context.Background(), f.inspectionID, false)
		require.NoError(t, err)

		ins, err := f.svc.Finalize(context.Background(), f.inspectionID, FinalizeInput{
			Decision: models.DecisionResell,
		})
		require.NoError(t, err)
		assert.Equal(t, models.InspectionInProgress, ins.Status)
	})

	t.Run("checklist is flattened into notes", func(t *testing.T) {
		f := newFixture(t, phoneQuote())
		_, err := f.svc.Review(context.Background(), f.inspectionID)
		require.NoError(t, err)

		ins, err := f.svc.Finalize(context.Background(), f.inspectionID, FinalizeInput{
			Decision: models.DecisionResell,
			Notes:    "equipo en buen estado",
			Checklist: []models.ChecklistEntry{
				{Key: "camera", Label: "Cámaras frontal y trasera", Done: true},
				{Key: "touch", Label: "Pantalla táctil", Done: false},
			},
		})
		require.NoError(t, err)
		assert.Contains(t, ins.Notes, "equipo en buen estado")
		assert.Contains(t, ins.Notes, "Riesgo estimado: Medio")
		assert.Contains(t, ins.Notes, "Checklist (phone): Cámaras frontal y trasera: OK; Pantalla táctil: Pendiente")
	})
}

func TestSetStatusOverride(t *testing.T) {
	f := newFixture(t, phoneQuote())

	ins, err := f.svc.SetStatus(context.Background(), f.inspectionID, models.InspectionFailed, "no pasó control")
	require.NoError(t, err)
	assert.Equal(t, models.InspectionFailed, ins.Status)
	assert.Equal(t, "no pasó control", ins.Notes)

	_, err = f.svc.SetStatus(context.Background(), f.inspectionID, "BROKEN", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	ins, err = f.svc.SetStatus(context.Background(), f.inspectionID, models.InspectionClosed, "")
	require.NoError(t, err)
	assert.NotNil(t, ins.ClosedAt)
}

func TestAddPhoto(t *testing.T) {
	f := newFixture(t, phoneQuote())

	ins, err := f.svc.AddPhoto(context.Background(), f.inspectionID, "https://cdn.example/ins/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example/ins/1.jpg"}, ins.Photos)

	_, err = f.svc.AddPhoto(context.Background(), f.inspectionID, "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

// TestEndToEnd walks the full happy path: review, counter-offer, acceptance,
// payment and finalization.
func TestEndToEnd(t *testing.T) {
	f := newFixture(t, phoneQuote())
	ctx := context.Background()

	res, err := f.svc.Review(ctx, f.inspectionID)
	require.NoError(t, err)
	assert.Equal(t, RiskMedium, res.Risk.Level)
	assert.Equal(t, models.DecisionResell, res.Decision)
	assert.Equal(t, 500.0, res.SuggestedAmount)

	// Admin lowers 500 to 450 and sends the counter-offer.
	ins, err := f.svc.SendCounterOffer(ctx, f.inspectionID, 450)
	require.NoError(t, err)
	assert.Equal(t, models.OfferSent, ins.OfferState())
	assert.Equal(t, models.InspectionInProgress, ins.Status)

	// User accepts; payable amount is pinned to 450.
	ins, err = f.svc.RespondCounterOffer(ctx, f.inspectionID, true)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, ins.OfferState())

	ins, err = f.svc.RegisterPayment(ctx, f.inspectionID, 450, "Transferencia")
	require.NoError(t, err)
	require.Len(t, f.payouts.calls, 1)
	assert.Equal(t, payoutCall{QuoteIDExt: "Q-1", Method: "Transferencia", Amount: 450}, f.payouts.calls[0])

	ins, err = f.svc.Finalize(ctx, f.inspectionID, FinalizeInput{Decision: models.DecisionResell})
	require.NoError(t, err)
	assert.Equal(t, models.InspectionPassed, ins.Status)
	assert.Nil(t, ins.ClosedAt)
	assert.Contains(t, ins.Notes, "Reventa")
	assert.Contains(t, ins.Notes, "Pago registrado: 450 BOB vía Transferencia")
}
