// server/internal/valuation/rule.go

// Package valuation normalizes pricing rules and evaluates them against
// quote answers. Two rule schemas exist in the wild: the current one, where
// adjustments are an ordered list of {if, then} rule expressions, and the
// legacy one, where adjustments map an answer key to either literal-value
// deltas or a perUnit rate. NormalizeRule compiles both into the current
// schema so Price only ever sees one shape.
package valuation

import (
	"errors"
	"sort"
	"strconv"
)

var ErrNoActiveRule = errors.New("no active pricing rule")

// Adjustment is one compiled rule expression: when If evaluates truthy
// against the answers, Then is added to the price.
type Adjustment struct {
	If   interface{} `bson:"if" json:"if"`
	Then float64     `bson:"then" json:"then"`
}

type RuleBody struct {
	BasePrice   float64            `bson:"basePrice" json:"basePrice"`
	MinPrice    float64            `bson:"minPrice" json:"minPrice"`
	Adjustments []Adjustment       `bson:"adjustments" json:"adjustments"`
	PerUnit     map[string]float64 `bson:"perUnit,omitempty" json:"perUnit,omitempty"`
}

type Rule struct {
	Version int      `bson:"version" json:"version"`
	Body    RuleBody `bson:"body" json:"body"`
}

// NormalizeRule accepts an arbitrary rule payload, possibly wrapped under a
// body/rule key, in either schema, and returns the normalized rule. A payload
// without a numeric basePrice is ErrNoActiveRule.
func NormalizeRule(raw interface{}) (Rule, error) {
	outer, _ := raw.(map[string]interface{})
	body := outer
	if inner, ok := outer["body"].(map[string]interface{}); ok {
		body = inner
	} else if inner, ok := outer["rule"].(map[string]interface{}); ok {
		body = inner
	}
	if body == nil {
		return Rule{}, ErrNoActiveRule
	}

	base, ok := numeric(body["basePrice"])
	if !ok {
		return Rule{}, ErrNoActiveRule
	}

	out := Rule{Version: 1, Body: RuleBody{BasePrice: base}}
	if v, ok := numeric(outer["version"]); ok {
		out.Version = int(v)
	}
	if min, ok := numeric(body["minPrice"]); ok {
		out.Body.MinPrice = min
	}

	switch adj := body["adjustments"].(type) {
	case []interface{}:
		// Already-normalized schema: pass entries through, tolerating the
		// condition/delta key aliases.
		for _, e := range adj {
			m, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			cond := m["if"]
			if cond == nil {
				cond = m["condition"]
			}
			delta, ok := numeric(m["then"])
			if !ok {
				delta, ok = numeric(m["delta"])
			}
			if cond == nil || !ok {
				continue
			}
			out.Body.Adjustments = append(out.Body.Adjustments, Adjustment{If: cond, Then: delta})
		}
		if pu, ok := body["perUnit"].(map[string]interface{}); ok {
			out.Body.PerUnit = normalizePerUnit(pu)
		}
	case map[string]interface{}:
		// Legacy schema: answer key -> perUnit entry or literal-value deltas.
		for _, key := range sortedKeys(adj) {
			entry, ok := adj[key].(map[string]interface{})
			if !ok {
				continue
			}
			if rate, ok := numeric(entry["perUnit"]); ok {
				if out.Body.PerUnit == nil {
					out.Body.PerUnit = map[string]float64{}
				}
				out.Body.PerUnit[key] = rate
				// Zero-delta placeholder so the key still shows up in the
				// compiled expression list.
				out.Body.Adjustments = append(out.Body.Adjustments, Adjustment{
					If:   map[string]interface{}{"var": key},
					Then: 0,
				})
				continue
			}
			for _, val := range sortedKeys(entry) {
				delta, ok := numeric(entry[val])
				if !ok {
					continue
				}
				out.Body.Adjustments = append(out.Body.Adjustments, Adjustment{
					If: map[string]interface{}{
						"==": []interface{}{map[string]interface{}{"var": key}, coerceLiteral(val)},
					},
					Then: delta,
				})
			}
		}
	}
	return out, nil
}

// coerceLiteral maps the string literals "true"/"false" onto booleans; legacy
// rules store boolean answer options as strings.
func coerceLiteral(s string) interface{} {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func normalizePerUnit(raw map[string]interface{}) map[string]float64 {
	out := map[string]float64{}
	for k, v := range raw {
		if rate, ok := numeric(v); ok {
			out[k] = rate
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// numeric converts the value shapes JSON and BSON decoding produce.
func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
