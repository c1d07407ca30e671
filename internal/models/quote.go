// server/internal/models/quote.go
package models

import "time"

// Quote is the pricing record created at intake time. The workflow mostly
// reads it; Answers and RuleSnapshot stay free-form because historical quotes
// come in several shapes (see inspection.NormalizeAnswers).
type Quote struct {
	ID           string      `bson:"_id,omitempty" json:"_id,omitempty"`
	ExtID        string      `bson:"extId,omitempty" json:"extId,omitempty"`
	UserID       string      `bson:"userId" json:"userId"`
	ModelIDExt   string      `bson:"modelIdExt,omitempty" json:"modelIdExt,omitempty"`
	Answers      interface{} `bson:"answers" json:"answers"`
	PrelimPrice  float64     `bson:"prelimPrice,omitempty" json:"prelimPrice,omitempty"`
	RuleVersion  int         `bson:"ruleVersion,omitempty" json:"ruleVersion,omitempty"`
	RuleSnapshot interface{} `bson:"ruleSnapshot,omitempty" json:"ruleSnapshot,omitempty"`
	Currency     string      `bson:"currency,omitempty" json:"currency,omitempty"`
	Status       string      `bson:"status" json:"status"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
}
