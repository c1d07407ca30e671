// server/internal/inspection/answers_test.go
package inspection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reeutil-tradein-api-server/internal/models"
)

func TestNormalizeAnswers(t *testing.T) {
	t.Run("array of label/value records", func(t *testing.T) {
		got := NormalizeAnswers([]interface{}{
			map[string]interface{}{"label": "Equipo", "value": "iPhone 12"},
			map[string]interface{}{"question": "¿Enciende?", "answer": true},
		})
		assert.Equal(t, []models.Finding{
			{Label: "Equipo", Value: "iPhone 12"},
			{Label: "¿Enciende?", Value: "true"},
		}, got)
	})

	t.Run("flat object", func(t *testing.T) {
		got := NormalizeAnswers(map[string]interface{}{
			"pantalla":       "rota",
			"almacenamiento": 128.0,
		})
		assert.Equal(t, []models.Finding{
			{Label: "almacenamiento", Value: "128"},
			{Label: "pantalla", Value: "rota"},
		}, got)
	})

	t.Run("object of nested records", func(t *testing.T) {
		got := NormalizeAnswers(map[string]interface{}{
			"q1": map[string]interface{}{"label": "Estado", "value": "usado"},
			"q2": map[string]interface{}{"value": "sin cargador"},
		})
		assert.Equal(t, []models.Finding{
			{Label: "Estado", Value: "usado"},
			{Label: "q2", Value: "sin cargador"},
		}, got)
	})

	t.Run("steps with nested answers", func(t *testing.T) {
		got := NormalizeAnswers(map[string]interface{}{
			"steps": []interface{}{
				map[string]interface{}{"answers": []interface{}{
					map[string]interface{}{"label": "Marca", "value": "Samsung"},
				}},
				map[string]interface{}{"answers": map[string]interface{}{
					"color": "negro",
				}},
			},
		})
		assert.Equal(t, []models.Finding{
			{Label: "Marca", Value: "Samsung"},
			{Label: "color", Value: "negro"},
		}, got)
	})

	t.Run("step titles prefix the labels", func(t *testing.T) {
		got := NormalizeAnswers(map[string]interface{}{
			"steps": []interface{}{
				map[string]interface{}{
					"title": "Estado físico",
					"answers": []interface{}{
						map[string]interface{}{"label": "Pantalla", "value": "rota"},
						map[string]interface{}{"value": "sin cargador"},
					},
				},
			},
		})
		assert.Equal(t, []models.Finding{
			{Label: "Estado físico: Pantalla", Value: "rota"},
			{Label: "Estado físico", Value: "sin cargador"},
		}, got)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		got := NormalizeAnswers([]interface{}{
			map[string]interface{}{"label": "Estado", "value": "usado"},
			map[string]interface{}{"label": "Estado", "value": "usado"},
			map[string]interface{}{"label": "Estado", "value": "como nuevo"},
		})
		assert.Len(t, got, 2)
	})

	t.Run("unrecognized shapes yield nothing", func(t *testing.T) {
		assert.Empty(t, NormalizeAnswers(nil))
		assert.Empty(t, NormalizeAnswers("texto suelto"))
		assert.Empty(t, NormalizeAnswers(42.0))
	})
}

func TestDetectDeviceType(t *testing.T) {
	cases := map[string]string{
		"iPhone 13 Pro con caja":          "phone",
		"Celular Samsung Galaxy S21":      "phone",
		"Notebook Lenovo ThinkPad":        "laptop",
		"Smart TV LG 55 pulgadas":         "tv",
		"lavadora Whirlpool 12kg":         "washing_machine",
		"iPad Air segunda generación":     "tablet",
		"PlayStation 5 con dos mandos":    "console",
		"computadora de escritorio HP":    "desktop",
		"bicicleta montañera aro 29":      "unknown",
	}
	for text, want := range cases {
		assert.Equal(t, want, DetectDeviceType(text), text)
	}
}

func TestAssessRisk(t *testing.T) {
	t.Run("phone screen damage scores medium with screen reason", func(t *testing.T) {
		risk := AssessRisk("phone", []models.Finding{
			{Label: "Pantalla", Value: "pantalla rota en la esquina"},
		})
		assert.GreaterOrEqual(t, risk.Score, 2)
		assert.NotEqual(t, RiskLow, risk.Level)
		require.NotEmpty(t, risk.Reasons)
		assert.Contains(t, risk.Reasons, "Pantalla dañada declarada")
	})

	t.Run("screen plus battery reaches high", func(t *testing.T) {
		risk := AssessRisk("phone", []models.Finding{
			{Label: "Pantalla", Value: "trizada"},
			{Label: "Batería", Value: "se descarga muy rápido"},
		})
		assert.Equal(t, 5, risk.Score)
		assert.Equal(t, RiskHigh, risk.Level)
	})

	t.Run("generic rules apply to any category", func(t *testing.T) {
		risk := AssessRisk("unknown", []models.Finding{
			{Label: "Estado", Value: "no enciende"},
		})
		assert.Equal(t, RiskHigh, risk.Level)
		assert.Contains(t, risk.Reasons, "No enciende")
	})

	t.Run("clean answers stay low", func(t *testing.T) {
		risk := AssessRisk("phone", []models.Finding{
			{Label: "Estado", Value: "como nuevo"},
			{Label: "Batería", Value: "excelente"},
		})
		assert.Equal(t, 0, risk.Score)
		assert.Equal(t, RiskLow, risk.Level)
		assert.Empty(t, risk.Reasons)
	})

	t.Run("repeated reasons count once", func(t *testing.T) {
		risk := AssessRisk("phone", []models.Finding{
			{Label: "Pantalla", Value: "rota"},
			{Label: "Display", Value: "pantalla quebrada"},
		})
		assert.Equal(t, 3, risk.Score)
		assert.Len(t, risk.Reasons, 1)
	})
}

func TestAutoDecision(t *testing.T) {
	t.Run("high risk recycles", func(t *testing.T) {
		d, reason := AutoDecision("phone", models.RiskAssessment{Level: RiskHigh}, nil)
		assert.Equal(t, models.DecisionRecycle, d)
		assert.NotEmpty(t, reason)
	})

	t.Run("tv panel damage recycles even at medium", func(t *testing.T) {
		d, _ := AutoDecision("tv", models.RiskAssessment{Level: RiskMedium}, []models.Finding{
			{Label: "Panel", Value: "panel con líneas verticales"},
		})
		assert.Equal(t, models.DecisionRecycle, d)
	})

	t.Run("washer leak recycles", func(t *testing.T) {
		d, _ := AutoDecision("washing_machine", models.RiskAssessment{Level: RiskLow}, []models.Finding{
			{Label: "Observaciones", Value: "pierde agua al centrifugar"},
		})
		assert.Equal(t, models.DecisionRecycle, d)
	})

	t.Run("medium risk resells with refurbishment note", func(t *testing.T) {
		d, reason := AutoDecision("phone", models.RiskAssessment{Level: RiskMedium}, nil)
		assert.Equal(t, models.DecisionResell, d)
		assert.Contains(t, reason, "reacondicionamiento")
	})

	t.Run("low risk resells", func(t *testing.T) {
		d, _ := AutoDecision("phone", models.RiskAssessment{Level: RiskLow}, nil)
		assert.Equal(t, models.DecisionResell, d)
	})
}

func TestSuggestedAmount(t *testing.T) {
	t.Run("direct field order", func(t *testing.T) {
		n, ok := SuggestedAmount(map[string]interface{}{
			"prelimPrice": 500.0,
			"price":       111.0,
		}, nil)
		require.True(t, ok)
		assert.Equal(t, 500.0, n)
	})

	t.Run("nested under wrapper", func(t *testing.T) {
		n, ok := SuggestedAmount(map[string]interface{}{
			"data": map[string]interface{}{"offeredPrice": 320.0},
		}, nil)
		require.True(t, ok)
		assert.Equal(t, 320.0, n)
	})

	t.Run("keyword scan over answers", func(t *testing.T) {
		n, ok := SuggestedAmount(map[string]interface{}{}, []models.Finding{
			{Label: "Color", Value: "negro"},
			{Label: "Precio estimado", Value: "Bs 1.250,50"},
		})
		require.True(t, ok)
		assert.Equal(t, 1250.50, n)
	})

	t.Run("nothing well-formed", func(t *testing.T) {
		_, ok := SuggestedAmount(map[string]interface{}{
			"prelimPrice": "no disponible",
		}, nil)
		assert.False(t, ok)
	})
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"450", 450, true},
		{"1.234,56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"Bs 1.250", 1250, true},
		{"2,5", 2.5, true},
		{"sin número", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseAmount(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.in)
		}
	}
}

func TestExtractCurrency(t *testing.T) {
	assert.Equal(t, "USD", ExtractCurrency(map[string]interface{}{"currency": "USD"}))
	assert.Equal(t, "USD", ExtractCurrency(map[string]interface{}{
		"pricing": map[string]interface{}{"currency": "USD"},
	}))
	assert.Equal(t, "BOB", ExtractCurrency(map[string]interface{}{}))
}
