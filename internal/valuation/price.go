// server/internal/valuation/price.go
package valuation

import (
	"math"

	"github.com/diegoholiveira/jsonlogic/v3"
)

// Price evaluates a normalized rule against the answers. Unevaluable
// conditions are skipped rather than fatal; the result is clamped to
// MinPrice, then to zero, then rounded to a whole currency unit.
func Price(rule Rule, answers map[string]interface{}) float64 {
	data := map[string]interface{}{}
	for k, v := range answers {
		data[k] = v
	}

	total := rule.Body.BasePrice
	for _, adj := range rule.Body.Adjustments {
		res, err := jsonlogic.ApplyInterface(adj.If, data)
		if err != nil {
			continue
		}
		if truthy(res) {
			total += adj.Then
		}
	}
	for key, rate := range rule.Body.PerUnit {
		n, ok := numeric(answers[key])
		if !ok {
			continue
		}
		total += rate * n
	}

	if total < rule.Body.MinPrice {
		total = rule.Body.MinPrice
	}
	if total < 0 {
		total = 0
	}
	return math.Round(total)
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}
