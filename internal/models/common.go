// server/internal/models/common.go
package models

// ShippingAddress is the delivery address captured when the user accepts a kit.
// FullName, AddressLine1 and City are mandatory; the rest is optional.
type ShippingAddress struct {
	FullName     string `bson:"fullName" json:"fullName"`
	AddressLine1 string `bson:"addressLine1" json:"addressLine1"`
	AddressLine2 string `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	City         string `bson:"city" json:"city"`
	State        string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode   string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes        string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// DeliveryItem is one line item registered when a package is received.
type DeliveryItem struct {
	Name  string `bson:"name" json:"name"`
	Qty   int    `bson:"qty" json:"qty"`
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Finding is a normalized (label, value) pair extracted from quote answers.
type Finding struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
}
