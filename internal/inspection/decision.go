// server/internal/inspection/decision.go
package inspection

import (
	"regexp"
	"strconv"
	"strings"

	"reeutil-tradein-api-server/internal/models"
)

var (
	tvPanelDamage = regexp.MustCompile(`(?i)(panel|pantalla)[^.]*(roto|rota|da[ñn]ad|l[ií]neas|manchas|quebrad)`)
	washerFailure = regexp.MustCompile(`(?i)fuga|gotea|pierde agua|leak|(motor|tambor)[^.]*(falla|ruido|no gira)`)
)

// AutoDecision suggests RESELL or RECYCLE from the risk level, with two
// category-specific overrides where repair is known to cost more than the
// device is worth.
func AutoDecision(deviceType string, risk models.RiskAssessment, findings []models.Finding) (models.Decision, string) {
	if risk.Level == RiskHigh {
		return models.DecisionRecycle, "Riesgo alto: no viable para reventa"
	}
	text := deviceText(findings)
	if deviceType == "tv" && tvPanelDamage.MatchString(text) {
		return models.DecisionRecycle, "Panel dañado: reparación no rentable"
	}
	if deviceType == "washing_machine" && washerFailure.MatchString(text) {
		return models.DecisionRecycle, "Falla mecánica declarada: reparación no rentable"
	}
	if risk.Level == RiskMedium {
		return models.DecisionResell, "Riesgo moderado, viable con reacondicionamiento"
	}
	return models.DecisionResell, "Riesgo bajo, apto para reventa directa"
}

// amountFields is the priority order for reading a suggested payout off a
// quote document.
var amountFields = []string{
	"prelimPrice", "offeredPrice", "payout", "offer", "price", "amount",
	"valuation", "total",
	"prelim_price", "offered_price", "suggested_amount",
}

// wrapperKeys are the common envelopes historical quote payloads hide their
// numbers under.
var wrapperKeys = []string{"quote", "data", "result", "pricing", "body"}

var answerAmountKey = regexp.MustCompile(`(?i)precio|monto|oferta|valor|payout|price|amount`)

// SuggestedAmount extracts the initial negotiation amount from a quote
// document: direct fields first, then the same fields under common wrappers,
// then a keyword scan over the normalized answers. First positive number wins.
func SuggestedAmount(quote map[string]interface{}, findings []models.Finding) (float64, bool) {
	if n, ok := amountFromFields(quote); ok {
		return n, true
	}
	for _, key := range wrapperKeys {
		if nested, ok := quote[key].(map[string]interface{}); ok {
			if n, ok := amountFromFields(nested); ok {
				return n, true
			}
		}
	}
	for _, f := range findings {
		if !answerAmountKey.MatchString(f.Label) {
			continue
		}
		if n, ok := parseAmount(f.Value); ok && n > 0 {
			return n, true
		}
	}
	return 0, false
}

func amountFromFields(m map[string]interface{}) (float64, bool) {
	for _, field := range amountFields {
		v, ok := m[field]
		if !ok {
			continue
		}
		if n, ok := numericAmount(v); ok && n > 0 {
			return n, true
		}
	}
	return 0, false
}

func numericAmount(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		return parseAmount(t)
	}
	return 0, false
}

// parseAmount reads a money amount out of loosely formatted text, accepting
// both "1.234,56" and "1,234.56" conventions: the last separator followed by
// at most two digits is the decimal point, everything else is grouping.
func parseAmount(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	t := b.String()
	if t == "" {
		return 0, false
	}

	sep := strings.LastIndexAny(t, ".,")
	if sep >= 0 {
		intPart := stripSeparators(t[:sep])
		frac := stripSeparators(t[sep+1:])
		if len(frac) > 0 && len(frac) <= 2 {
			t = intPart + "." + frac
		} else {
			t = intPart + frac
		}
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, s)
}

// ExtractCurrency reads the quote currency, defaulting to the only currency
// payouts are made in.
func ExtractCurrency(quote map[string]interface{}) string {
	if c, ok := quote["currency"].(string); ok && c != "" {
		return c
	}
	for _, key := range wrapperKeys {
		if nested, ok := quote[key].(map[string]interface{}); ok {
			if c, ok := nested["currency"].(string); ok && c != "" {
				return c
			}
		}
	}
	return "BOB"
}
