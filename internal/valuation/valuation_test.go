// server/internal/valuation/valuation_test.go
package valuation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyRule() map[string]interface{} {
	return map[string]interface{}{
		"version": 3,
		"body": map[string]interface{}{
			"basePrice": 500.0,
			"minPrice":  50.0,
			"adjustments": map[string]interface{}{
				"screenDamage": map[string]interface{}{
					"true": -200.0,
				},
				"batteryHealth": map[string]interface{}{
					"good": 0.0,
					"bad":  -100.0,
				},
				"storageGB": map[string]interface{}{
					"perUnit": 0.5,
				},
			},
		},
	}
}

func TestNormalizeRule(t *testing.T) {
	t.Run("legacy schema compiles to expressions", func(t *testing.T) {
		rule, err := NormalizeRule(legacyRule())
		require.NoError(t, err)

		assert.Equal(t, 3, rule.Version)
		assert.Equal(t, 500.0, rule.Body.BasePrice)
		assert.Equal(t, 50.0, rule.Body.MinPrice)
		// batteryHealth(bad, good), screenDamage(true), storageGB placeholder.
		assert.Len(t, rule.Body.Adjustments, 4)
		assert.Equal(t, map[string]float64{"storageGB": 0.5}, rule.Body.PerUnit)
	})

	t.Run("missing basePrice is ErrNoActiveRule", func(t *testing.T) {
		_, err := NormalizeRule(map[string]interface{}{"minPrice": 10.0})
		assert.ErrorIs(t, err, ErrNoActiveRule)

		_, err = NormalizeRule(map[string]interface{}{"basePrice": "n/a"})
		assert.ErrorIs(t, err, ErrNoActiveRule)

		_, err = NormalizeRule(nil)
		assert.ErrorIs(t, err, ErrNoActiveRule)
	})

	t.Run("condition and delta key aliases accepted", func(t *testing.T) {
		rule, err := NormalizeRule(map[string]interface{}{
			"basePrice": 100.0,
			"adjustments": []interface{}{
				map[string]interface{}{
					"condition": map[string]interface{}{"var": "works"},
					"delta":     25.0,
				},
			},
		})
		require.NoError(t, err)
		require.Len(t, rule.Body.Adjustments, 1)
		assert.Equal(t, 25.0, rule.Body.Adjustments[0].Then)
	})

	t.Run("idempotent on its own output", func(t *testing.T) {
		first, err := NormalizeRule(legacyRule())
		require.NoError(t, err)

		raw, err := json.Marshal(first.Body)
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))

		second, err := NormalizeRule(body)
		require.NoError(t, err)
		assert.Equal(t, first.Body, second.Body)
	})
}

func TestPrice(t *testing.T) {
	rule, err := NormalizeRule(legacyRule())
	require.NoError(t, err)

	t.Run("boolean adjustment delta is observable", func(t *testing.T) {
		with := Price(rule, map[string]interface{}{"screenDamage": true})
		without := Price(rule, map[string]interface{}{"screenDamage": false})
		assert.Equal(t, -200.0, with-without)
	})

	t.Run("perUnit rate multiplies numeric answer", func(t *testing.T) {
		p := Price(rule, map[string]interface{}{"storageGB": 128.0})
		assert.Equal(t, 564.0, p)
	})

	t.Run("clamped to minPrice then zero", func(t *testing.T) {
		harsh, err := NormalizeRule(map[string]interface{}{
			"basePrice": 100.0,
			"adjustments": map[string]interface{}{
				"broken": map[string]interface{}{"true": -500.0},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, Price(harsh, map[string]interface{}{"broken": true}))

		p := Price(rule, map[string]interface{}{"screenDamage": true, "batteryHealth": "bad"})
		assert.GreaterOrEqual(t, p, rule.Body.MinPrice)
	})

	t.Run("unevaluable condition is skipped", func(t *testing.T) {
		weird := Rule{Body: RuleBody{
			BasePrice:   80,
			Adjustments: []Adjustment{{If: map[string]interface{}{"???": true}, Then: -50}},
		}}
		assert.Equal(t, 80.0, Price(weird, nil))
	})

	t.Run("result is rounded to a whole unit", func(t *testing.T) {
		frac, err := NormalizeRule(map[string]interface{}{
			"basePrice": 99.6,
		})
		require.NoError(t, err)
		assert.Equal(t, 100.0, Price(frac, nil))
	})
}
