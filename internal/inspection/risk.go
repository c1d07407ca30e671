// server/internal/inspection/risk.go
package inspection

import (
	"regexp"

	"reeutil-tradein-api-server/internal/models"
)

const (
	RiskLow    = "Bajo"
	RiskMedium = "Medio"
	RiskHigh   = "Alto"
)

type riskRule struct {
	pattern *regexp.Regexp
	score   int
	reason  string
}

// genericRiskRules apply to every device category.
var genericRiskRules = []riskRule{
	{regexp.MustCompile(`(?i)no enciende|no prende|won'?t turn on|does not turn on`), 4, "No enciende"},
	{regexp.MustCompile(`(?i)mojad|humedad|da[ñn]o por agua|l[ií]quido|sumergid`), 3, "Daño por líquido declarado"},
	{regexp.MustCompile(`(?i)golpe|abolladur|carcasa (rota|da[ñn]ada)|rayones profundos`), 1, "Daño físico en la carcasa"},
}

// riskRulesByDevice holds the category-specific patterns, matched against the
// label, the value and the combined "label value" text of every answer row.
var riskRulesByDevice = map[string][]riskRule{
	"phone": {
		{regexp.MustCompile(`(?i)(pantalla|display|screen)[^.]*(rota|rajada|trizada|quebrada|da[ñn]ada|crack|broken)|screen_?damage[^.]*true`), 3, "Pantalla dañada declarada"},
		{regexp.MustCompile(`(?i)(bater[ií]a|battery)[^.]*(mal|no ok|no sirve|inflada|degradada|se descarga|agotada|swollen)`), 2, "Batería no OK"},
		{regexp.MustCompile(`(?i)(cuenta|icloud|mi account)[^.]*(bloquead|lock)`), 4, "Bloqueo de cuenta activo"},
	},
	"tablet": {
		{regexp.MustCompile(`(?i)(pantalla|display|screen)[^.]*(rota|rajada|trizada|quebrada|da[ñn]ada|crack|broken)`), 3, "Pantalla dañada declarada"},
		{regexp.MustCompile(`(?i)(bater[ií]a|battery)[^.]*(mal|no ok|inflada|degradada|se descarga)`), 2, "Batería no OK"},
	},
	"laptop": {
		{regexp.MustCompile(`(?i)(pantalla|display|screen)[^.]*(rota|rajada|trizada|quebrada|da[ñn]ada|l[ií]neas|crack|broken)`), 3, "Pantalla dañada declarada"},
		{regexp.MustCompile(`(?i)(teclado|keyboard)[^.]*(falla|no funciona|teclas)`), 2, "Teclado con fallas"},
		{regexp.MustCompile(`(?i)(bater[ií]a|battery)[^.]*(mal|no ok|inflada|degradada|no carga)`), 2, "Batería no OK"},
	},
	"tv": {
		{regexp.MustCompile(`(?i)(panel|pantalla)[^.]*(roto|rota|da[ñn]ad|l[ií]neas|manchas|quebrad)`), 4, "Panel dañado declarado"},
		{regexp.MustCompile(`(?i)(hdmi|puerto)[^.]*(falla|no funciona)`), 2, "Puertos con fallas"},
	},
	"washing_machine": {
		{regexp.MustCompile(`(?i)fuga|gotea|pierde agua|leak`), 4, "Fuga de agua declarada"},
		{regexp.MustCompile(`(?i)(motor|tambor)[^.]*(falla|ruido|no gira|no centrifuga)`), 4, "Falla de motor o tambor"},
	},
	"console": {
		{regexp.MustCompile(`(?i)(lector|disco|hdmi)[^.]*(falla|no lee|no funciona)`), 2, "Lector o puerto con fallas"},
		{regexp.MustCompile(`(?i)sobrecalienta|se apaga sol`), 3, "Sobrecalentamiento declarado"},
	},
	"desktop": {
		{regexp.MustCompile(`(?i)(fuente|disco|ventilador)[^.]*(falla|ruido|no funciona)`), 2, "Componente interno con fallas"},
	},
}

// AssessRisk scores every answer row against the generic rules plus the rules
// for the detected device category. Level thresholds: >=4 Alto, >=2 Medio.
func AssessRisk(deviceType string, findings []models.Finding) models.RiskAssessment {
	rules := append([]riskRule{}, genericRiskRules...)
	rules = append(rules, riskRulesByDevice[deviceType]...)

	score := 0
	var reasons []string
	fired := map[string]bool{}
	for _, f := range findings {
		combined := f.Label + " " + f.Value
		for _, r := range rules {
			if fired[r.reason] {
				continue
			}
			if r.pattern.MatchString(f.Label) || r.pattern.MatchString(f.Value) || r.pattern.MatchString(combined) {
				fired[r.reason] = true
				score += r.score
				reasons = append(reasons, r.reason)
			}
		}
	}

	level := RiskLow
	if score >= 4 {
		level = RiskHigh
	} else if score >= 2 {
		level = RiskMedium
	}
	return models.RiskAssessment{Score: score, Level: level, Reasons: reasons}
}
