// server/internal/inspection/answers.go
package inspection

import (
	"sort"
	"strconv"

	"reeutil-tradein-api-server/internal/models"
)

// NormalizeAnswers flattens a quote's free-form answers into (label, value)
// rows. Four historical shapes circulate: an array of {label|question,
// value|answer} records, a flat object, an object of nested {label, value}
// records, and a steps[].answers nested form. Rows are deduplicated by the
// (label, value) pair.
func NormalizeAnswers(raw interface{}) []models.Finding {
	var out []models.Finding
	seen := map[string]bool{}
	collectAnswers(raw, seen, &out)
	return out
}

func collectAnswers(raw interface{}, seen map[string]bool, out *[]models.Finding) {
	switch v := raw.(type) {
	case []interface{}:
		for _, e := range v {
			m, ok := e.(map[string]interface{})
			if !ok {
				continue
			}
			label := firstString(m, "label", "question", "key", "name")
			value := stringify(firstValue(m, "value", "answer"))
			appendFinding(label, value, seen, out)
		}
	case map[string]interface{}:
		if steps, ok := v["steps"].([]interface{}); ok {
			for _, s := range steps {
				step, ok := s.(map[string]interface{})
				if !ok {
					continue
				}
				title := firstString(step, "title", "name", "label")
				var sub []models.Finding
				collectAnswers(step["answers"], map[string]bool{}, &sub)
				for _, f := range sub {
					label := f.Label
					if title != "" {
						if label != "" {
							label = title + ": " + label
						} else {
							label = title
						}
					}
					appendFinding(label, f.Value, seen, out)
				}
			}
			return
		}
		for _, key := range sortedKeys(v) {
			if nested, ok := v[key].(map[string]interface{}); ok {
				label := firstString(nested, "label", "question")
				value := stringify(firstValue(nested, "value", "answer"))
				if label == "" {
					label = key
				}
				appendFinding(label, value, seen, out)
				continue
			}
			appendFinding(key, stringify(v[key]), seen, out)
		}
	}
}

func appendFinding(label, value string, seen map[string]bool, out *[]models.Finding) {
	if label == "" && value == "" {
		return
	}
	key := label + "::" + value
	if seen[key] {
		return
	}
	seen[key] = true
	*out = append(*out, models.Finding{Label: label, Value: value})
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstValue(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
