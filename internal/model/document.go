package model

import (
	"encoding/json"
	"time"
)

// Document is a purchasable PDF in the catalog.
// Locked is never stored; a document is locked exactly when its price is positive.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Price       Money     `json:"price"`
	BlobRef     string    `json:"-"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Locked reports whether the document needs an entitlement to be read.
func (d Document) Locked() bool {
	return d.Price.IsPositive()
}

// MarshalJSON adds the derived "locked" field.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return json.Marshal(struct {
		plain
		Locked bool `json:"locked"`
	}{plain: plain(d), Locked: d.Locked()})
}
