// server/internal/intake/service_test.go
package intake

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reeutil-tradein-api-server/internal/models"
	"reeutil-tradein-api-server/internal/store"
	"reeutil-tradein-api-server/internal/store/memstore"
)

type sentMessage struct {
	ToSub string
	Title string
	Body  string
	Meta  map[string]interface{}
}

type fakeNotifier struct {
	ch   chan sentMessage
	fail bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan sentMessage, 4)}
}

func (f *fakeNotifier) Send(_ context.Context, toSub, title, body string, meta map[string]interface{}) error {
	f.ch <- sentMessage{ToSub: toSub, Title: title, Body: body, Meta: meta}
	if f.fail {
		return assert.AnError
	}
	return nil
}

func (f *fakeNotifier) wait(t *testing.T) sentMessage {
	t.Helper()
	select {
	case m := <-f.ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no notification sent")
		return sentMessage{}
	}
}

type fakeQuoteProvider struct {
	byID  map[string]map[string]interface{}
	byExt map[string]map[string]interface{}
}

func (f *fakeQuoteProvider) GetByInternalID(_ context.Context, id string) (map[string]interface{}, error) {
	if q, ok := f.byID[id]; ok {
		return q, nil
	}
	return nil, assert.AnError
}

func (f *fakeQuoteProvider) GetByExternalID(_ context.Context, ext string) (map[string]interface{}, error) {
	if q, ok := f.byExt[ext]; ok {
		return q, nil
	}
	return nil, assert.AnError
}

func validShipping() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:     "María Pérez",
		AddressLine1: "Av. Siempre Viva 742",
		City:         "La Paz",
	}
}

func newTestService(notifier Notifier, quotes QuoteProvider) (*Service, *memstore.ConfirmationStore, *memstore.KitStore) {
	confirmations := memstore.NewConfirmationStore()
	kits := memstore.NewKitStore()
	return NewService(confirmations, kits, quotes, notifier, "2–5", time.Second), confirmations, kits
}

func TestCreateConfirmation(t *testing.T) {
	svc, _, _ := newTestService(newFakeNotifier(), nil)

	t.Run("creates pending confirmation", func(t *testing.T) {
		c, err := svc.CreateConfirmation(context.Background(), ConfirmationInput{
			UserSub:    "user-1",
			QuoteIDExt: "Q-100",
			Shipping:   validShipping(),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, models.ConfirmationPending, c.Status)
		assert.Nil(t, c.ProcessedAt)
	})

	t.Run("missing mandatory address fields rejected", func(t *testing.T) {
		for _, tc := range []struct {
			field string
			addr  models.ShippingAddress
		}{
			{"fullName", models.ShippingAddress{AddressLine1: "x", City: "y"}},
			{"addressLine1", models.ShippingAddress{FullName: "x", City: "y"}},
			{"city", models.ShippingAddress{FullName: "x", AddressLine1: "y"}},
		} {
			_, err := svc.CreateConfirmation(context.Background(), ConfirmationInput{Shipping: tc.addr})
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tc.field)
		}
	})

	t.Run("duplicates are accepted", func(t *testing.T) {
		in := ConfirmationInput{QuoteIDExt: "Q-dup", Shipping: validShipping()}
		a, err := svc.CreateConfirmation(context.Background(), in)
		require.NoError(t, err)
		b, err := svc.CreateConfirmation(context.Background(), in)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestDispatchKit(t *testing.T) {
	t.Run("generates tracking code", func(t *testing.T) {
		svc, _, _ := newTestService(newFakeNotifier(), nil)
		k, err := svc.DispatchKit(context.Background(), KitInput{QuoteIDExt: "Q-1"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(k.TrackingCode, "TRK-"))
		assert.Len(t, k.TrackingCode, len("TRK-")+8)
		assert.Equal(t, "DemoCarrier", k.Carrier)
		assert.Contains(t, k.LabelURL, k.TrackingCode)
	})

	t.Run("shipping snapshot spawns companion confirmation", func(t *testing.T) {
		svc, confirmations, _ := newTestService(newFakeNotifier(), nil)
		addr := validShipping()
		_, err := svc.DispatchKit(context.Background(), KitInput{
			QuoteIDExt: "Q-2",
			UserSub:    "user-2",
			Shipping:   &addr,
		})
		require.NoError(t, err)

		list, err := confirmations.List(context.Background(), store.ConfirmationFilter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Q-2", list[0].QuoteIDExt)
		assert.Equal(t, models.ConfirmationPending, list[0].Status)
	})

	t.Run("no confirmation without shipping", func(t *testing.T) {
		svc, confirmations, _ := newTestService(newFakeNotifier(), nil)
		_, err := svc.DispatchKit(context.Background(), KitInput{QuoteIDExt: "Q-3"})
		require.NoError(t, err)

		list, err := confirmations.List(context.Background(), store.ConfirmationFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestProcessConfirmation(t *testing.T) {
	t.Run("processed sets processedAt and notifies with tracking", func(t *testing.T) {
		notifier := newFakeNotifier()
		svc, _, _ := newTestService(notifier, nil)

		addr := validShipping()
		k, err := svc.DispatchKit(context.Background(), KitInput{
			QuoteIDExt: "Q-10",
			UserSub:    "user-10",
			Shipping:   &addr,
		})
		require.NoError(t, err)

		list, err := svc.ListConfirmations(context.Background(), store.ConfirmationFilter{})
		require.NoError(t, err)
		require.Len(t, list, 1)

		c, err := svc.ProcessConfirmation(context.Background(), list[0].ID, true)
		require.NoError(t, err)
		assert.Equal(t, models.ConfirmationProcessed, c.Status)
		require.NotNil(t, c.ProcessedAt)

		msg := notifier.wait(t)
		assert.Equal(t, "user-10", msg.ToSub)
		assert.Contains(t, msg.Body, k.TrackingCode)
		assert.Contains(t, msg.Body, "2–5")
		assert.Contains(t, msg.Body, "La Paz")
		assert.Equal(t, "KIT_DISPATCHED", msg.Meta["type"])
	})

	t.Run("user resolved through quote provider", func(t *testing.T) {
		notifier := newFakeNotifier()
		quotes := &fakeQuoteProvider{
			byExt: map[string]map[string]interface{}{
				"Q-20": {"userId": "user-20"},
			},
		}
		svc, _, _ := newTestService(notifier, quotes)

		c, err := svc.CreateConfirmation(context.Background(), ConfirmationInput{
			QuoteIDExt: "Q-20",
			Shipping:   validShipping(),
		})
		require.NoError(t, err)

		_, err = svc.ProcessConfirmation(context.Background(), c.ID, true)
		require.NoError(t, err)
		assert.Equal(t, "user-20", notifier.wait(t).ToSub)
	})

	t.Run("notify failure does not fail the transition", func(t *testing.T) {
		notifier := newFakeNotifier()
		notifier.fail = true
		svc, _, _ := newTestService(notifier, nil)

		c, err := svc.CreateConfirmation(context.Background(), ConfirmationInput{
			UserSub:  "user-30",
			Shipping: validShipping(),
		})
		require.NoError(t, err)

		got, err := svc.ProcessConfirmation(context.Background(), c.ID, true)
		require.NoError(t, err)
		assert.Equal(t, models.ConfirmationProcessed, got.Status)
		notifier.wait(t)
	})

	t.Run("unprocessing clears processedAt", func(t *testing.T) {
		notifier := newFakeNotifier()
		svc, _, _ := newTestService(notifier, nil)

		c, err := svc.CreateConfirmation(context.Background(), ConfirmationInput{
			UserSub:  "user-40",
			Shipping: validShipping(),
		})
		require.NoError(t, err)

		_, err = svc.ProcessConfirmation(context.Background(), c.ID, true)
		require.NoError(t, err)
		notifier.wait(t)

		got, err := svc.ProcessConfirmation(context.Background(), c.ID, false)
		require.NoError(t, err)
		assert.Equal(t, models.ConfirmationPending, got.Status)
		assert.Nil(t, got.ProcessedAt)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _, _ := newTestService(newFakeNotifier(), nil)
		_, err := svc.ProcessConfirmation(context.Background(), "missing", true)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
