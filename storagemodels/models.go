/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// Record is a content record with JSON-backed repeaters.
type Record struct {
	// ID identifies the record within its module.
	ID string `json:"id"`
	// Module is the content module the record belongs to.
	Module string `json:"module"`
	// Fields are the persisted top-level fields.
	Fields map[string]any `json:"fields"`
	// CreatedAt is set once, on create.
	CreatedAt strfmt.DateTime `json:"createdAt"`
	// UpdatedAt is set on every write.
	UpdatedAt strfmt.DateTime `json:"updatedAt"`
}

// Key returns the datastore key of the record.
func (r Record) Key() string {
	return r.ID
}

// Touch stamps UpdatedAt, and CreatedAt when it is still zero.
func (r *Record) Touch(now time.Time) {
	ts := strfmt.DateTime(now.UTC())
	if time.Time(r.CreatedAt).IsZero() {
		r.CreatedAt = ts
	}
	r.UpdatedAt = ts
}
