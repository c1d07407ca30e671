// server/internal/inspection/devicetype.go
package inspection

import (
	"regexp"
	"strings"

	"reeutil-tradein-api-server/internal/models"
)

const DeviceUnknown = "unknown"

// deviceMatchers is ordered: the first category whose pattern matches wins, so
// "smart tv" classifies as tv before the generic desktop keywords get a look.
var deviceMatchers = []struct {
	kind    string
	pattern *regexp.Regexp
}{
	{"phone", regexp.MustCompile(`(?i)celular|tel[eé]fono|smartphone|iphone|m[oó]vil|galaxy|xiaomi|redmi|motorola|android`)},
	{"laptop", regexp.MustCompile(`(?i)laptop|notebook|port[aá]til|macbook|ultrabook`)},
	{"tv", regexp.MustCompile(`(?i)televisor|televisi[oó]n|smart ?tv|\btv\b|oled|qled`)},
	{"washing_machine", regexp.MustCompile(`(?i)lavadora|lavarropas|lavasecadora|washing`)},
	{"tablet", regexp.MustCompile(`(?i)tablet|ipad`)},
	{"console", regexp.MustCompile(`(?i)consola|playstation|\bps[2-5]\b|xbox|nintendo|switch`)},
	{"desktop", regexp.MustCompile(`(?i)desktop|computadora de escritorio|pc de escritorio|\btorre\b|all.?in.?one`)},
}

// DetectDeviceType classifies the free text gathered from the quote (answers,
// model identifiers) into one of the known device categories.
func DetectDeviceType(text string) string {
	for _, m := range deviceMatchers {
		if m.pattern.MatchString(text) {
			return m.kind
		}
	}
	return DeviceUnknown
}

// deviceText concatenates everything worth matching against the keyword sets.
func deviceText(findings []models.Finding, extra ...string) string {
	var b strings.Builder
	for _, f := range findings {
		b.WriteString(f.Label)
		b.WriteString(" ")
		b.WriteString(f.Value)
		b.WriteString(" ")
	}
	for _, s := range extra {
		b.WriteString(s)
		b.WriteString(" ")
	}
	return b.String()
}
