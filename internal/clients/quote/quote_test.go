// server/internal/clients/quote/quote_test.go
package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quotes/q-1":
			json.NewEncoder(w).Encode(map[string]interface{}{"_id": "q-1", "prelimPrice": 500})
		case "/quotes/by-ext/Q-EXT":
			json.NewEncoder(w).Encode(map[string]interface{}{"extId": "Q-EXT"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())

	doc, err := c.GetByInternalID(context.Background(), "q-1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, doc["prelimPrice"])

	doc, err = c.GetByExternalID(context.Background(), "Q-EXT")
	require.NoError(t, err)
	assert.Equal(t, "Q-EXT", doc["extId"])

	_, err = c.GetByInternalID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendCounterOffer(t *testing.T) {
	t.Run("admin path wins", func(t *testing.T) {
		var path string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		delivered, err := c.SendCounterOffer(context.Background(), "Q-1", 450)
		require.NoError(t, err)
		assert.True(t, delivered)
		assert.Equal(t, "/admin/quotes/Q-1/counter-offer", path)
	})

	t.Run("both endpoints absent proceeds without delivery", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		delivered, err := c.SendCounterOffer(context.Background(), "Q-1", 450)
		require.NoError(t, err)
		assert.False(t, delivered)
	})

	t.Run("hard upstream failure is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, srv.Client())
		_, err := c.SendCounterOffer(context.Background(), "Q-1", 450)
		assert.Error(t, err)
	})
}
